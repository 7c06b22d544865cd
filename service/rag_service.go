package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/tieubaoca/docqa-be/repository"
	"github.com/tieubaoca/docqa-be/types"
	"go.uber.org/zap"
)

// The prompt frames the retrieved context and the verbatim question
// for the generative model.
const (
	promptHeader = "Use the following pieces of context to answer the question:"
	promptFooter = "Helpful Answer:"
)

// Extractor pulls the text out of an uploaded file.
type Extractor interface {
	ExtractDocument(filePath string) (*types.ExtractedDocument, error)
}

// RAGService sequences the two pipelines. Ingestion: extract and chunk
// every file in the batch, then persist all chunks in one store call.
// Query: read the full store, build an ephemeral index, retrieve the
// top-k chunks and synthesize an answer. No state survives a request.
type RAGService struct {
	chunkRepo       repository.ChunkRepo
	extractor       Extractor
	chunker         *ChunkService
	embedder        Embedder
	generator       Generator
	topK            int
	maxContextChars int
	logger          *zap.Logger
}

func NewRAGService(
	chunkRepo repository.ChunkRepo,
	extractor Extractor,
	chunker *ChunkService,
	embedder Embedder,
	generator Generator,
	topK int,
	maxContextChars int,
	logger *zap.Logger,
) *RAGService {
	return &RAGService{
		chunkRepo:       chunkRepo,
		extractor:       extractor,
		chunker:         chunker,
		embedder:        embedder,
		generator:       generator,
		topK:            topK,
		maxContextChars: maxContextChars,
		logger:          logger,
	}
}

// IngestFiles runs the ingestion pipeline over one upload batch. The
// batch is all-or-nothing: every file is extracted and chunked before
// anything is written, and the first extraction failure aborts the
// whole batch with nothing stored. Optional tags are kept in every
// stored chunk's metadata.
func (s *RAGService) IngestFiles(ctx context.Context, filePaths []string, tags []string) (*types.UploadResponse, error) {
	if len(filePaths) == 0 {
		return nil, types.NewValidationError("no files in upload batch")
	}

	batchID := uuid.NewString()
	now := time.Now().Unix()
	var batch []types.Chunk
	for _, path := range filePaths {
		doc, err := s.extractor.ExtractDocument(path)
		if err != nil {
			s.logger.Error("aborting batch, extraction failed",
				zap.String("batch_id", batchID),
				zap.String("file", path),
				zap.Error(err))
			return nil, err
		}
		chunks := s.chunker.ChunkDocument(doc, len(batch))
		for i := range chunks {
			chunks[i].ID = uuid.NewString()
			chunks[i].BatchID = batchID
			chunks[i].CreatedAt = now
			if len(tags) > 0 {
				chunks[i].Metadata["tags"] = strings.Join(tags, ",")
			}
		}
		batch = append(batch, chunks...)
	}

	if err := s.chunkRepo.InsertMany(ctx, batch); err != nil {
		return nil, err
	}
	s.logger.Info("ingested upload batch",
		zap.String("batch_id", batchID),
		zap.Int("files", len(filePaths)),
		zap.Int("chunks", len(batch)))

	return &types.UploadResponse{
		BatchID:     batchID,
		Files:       len(filePaths),
		ChunksAdded: len(batch),
	}, nil
}

// Answer runs the query pipeline: rebuild the retrieval index from the
// full chunk store, retrieve the chunks closest to the question and
// condition the generative model on them. Either a complete answer or
// an explicit failure is returned, never a partial one.
func (s *RAGService) Answer(ctx context.Context, question string, topK int) (*types.QueryResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, types.NewValidationError("question must not be empty")
	}
	if topK <= 0 {
		topK = s.topK
	}

	chunks, err := s.chunkRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, types.NewValidationError("no documents have been ingested yet")
	}

	index, err := BuildIndex(ctx, chunks, s.embedder)
	if err != nil {
		return nil, err
	}
	retrieved, err := index.Search(ctx, question, topK)
	if err != nil {
		return nil, err
	}

	selected := s.fitContext(retrieved)
	prompt := buildPrompt(question, selected)

	answer, err := s.generator.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	s.logger.Info("answered question",
		zap.Int("indexed_chunks", index.Len()),
		zap.Int("context_chunks", len(selected)))

	return &types.QueryResponse{
		Answer:  answer,
		Sources: selected,
	}, nil
}

// fitContext keeps retrieved chunk texts, highest similarity first,
// until the context budget is spent. The best chunk is truncated
// rather than dropped if it alone exceeds the budget.
func (s *RAGService) fitContext(retrieved []types.ScoredChunk) []string {
	var selected []string
	total := 0
	for i, scored := range retrieved {
		text := scored.Chunk.Text
		if total+len(text) > s.maxContextChars {
			if i == 0 {
				cut := s.maxContextChars
				for cut > 0 && !utf8.RuneStart(text[cut]) {
					cut--
				}
				selected = append(selected, text[:cut])
			}
			break
		}
		selected = append(selected, text)
		total += len(text)
	}
	return selected
}

func buildPrompt(question string, context []string) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\n")
	for _, text := range context {
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n")
	b.WriteString(promptFooter)
	return b.String()
}
