package types

// Chunk is the unit of storage and retrieval: a bounded span of text
// extracted from one document.
type Chunk struct {
	ID        string            `bson:"_id" json:"id"`
	Text      string            `bson:"text" json:"text"`
	Source    string            `bson:"source" json:"source"`
	Seq       int               `bson:"seq" json:"seq"`
	BatchID   string            `bson:"batch_id" json:"batch_id"`
	Metadata  map[string]string `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt int64             `bson:"created_at" json:"created_at"`
}

// ExtractedDocument holds the text pulled out of one uploaded file
// before chunking. It only lives for the duration of an ingestion.
type ExtractedDocument struct {
	Source     string // original filename
	Pages      []string
	TotalPages int
}

// Text joins the page texts in page order.
func (d ExtractedDocument) Text() string {
	text := ""
	for i, page := range d.Pages {
		if i > 0 && text != "" && page != "" {
			text += "\n"
		}
		text += page
	}
	return text
}

// ScoredChunk pairs a retrieved chunk with its similarity to the query.
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float32 `json:"score"`
}

// ChunkServiceConfig controls how document text is split.
type ChunkServiceConfig struct {
	ChunkSize    int
	ChunkOverlap int
}
