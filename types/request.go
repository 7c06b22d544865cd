package types

// QueryRequest is the body of POST /api/v1/query.
type QueryRequest struct {
	Question string `json:"question" binding:"required"`
	TopK     int    `json:"top_k,omitempty"`
}
