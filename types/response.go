package types

type DataResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the structured failure body. ErrorKind lets the
// client distinguish validation problems from provider outages.
type ErrorResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	ErrorKind ErrorKind `json:"error_kind"`
}

type UploadResponse struct {
	BatchID     string `json:"batch_id"`
	Files       int    `json:"files"`
	ChunksAdded int    `json:"chunks_added"`
}

type QueryResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}
