package sessions

import "github.com/2b3pro/ae-conjure/internal/history"

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

type HistoryResponse struct {
	SessionID string          `json:"session_id"`
	Entries   []history.Entry `json:"entries"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
