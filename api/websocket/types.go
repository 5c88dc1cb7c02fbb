package websocket

type CancelResponse struct {
	Cancelled bool `json:"cancelled"`
}
