package knowledge

import "github.com/2b3pro/ae-conjure/internal/knowledge"

type SearchQuery struct {
	Q string `form:"q" binding:"required"`
}

type SearchResponse struct {
	Query  string          `json:"query"`
	Hits   []knowledge.Hit `json:"hits"`
	Digest string          `json:"digest"`
}

type StatusResponse struct {
	Loaded   bool   `json:"loaded"`
	Version  string `json:"version,omitempty"`
	Keywords int    `json:"keywords"`
}

type UpdateResponse struct {
	Changed bool   `json:"changed"`
	Version string `json:"version"`
}
