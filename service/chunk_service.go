package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tieubaoca/docqa-be/types"
)

// ChunkService splits extracted document text into bounded,
// overlapping segments. Splitting prefers natural boundaries
// (paragraph, then sentence, then word) before falling back to a hard
// character cut, and every window starts chunkOverlap bytes before
// the previous break so de-overlapped concatenation reconstructs the
// input.
type ChunkService struct {
	chunkSize    int
	chunkOverlap int
}

func NewChunkService(config types.ChunkServiceConfig) (*ChunkService, error) {
	if config.ChunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", config.ChunkSize)
	}
	if config.ChunkOverlap < 0 || config.ChunkOverlap >= config.ChunkSize {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", config.ChunkSize, config.ChunkOverlap)
	}
	return &ChunkService{
		chunkSize:    config.ChunkSize,
		chunkOverlap: config.ChunkOverlap,
	}, nil
}

// Split cuts text into chunks of at most chunkSize bytes where
// adjacent chunks share exactly chunkOverlap bytes, less any bytes
// needed to land the cut on a rune boundary. Empty text yields no
// chunks; text within the size limit yields exactly one.
func (s *ChunkService) Split(text string) []string {
	if text == "" {
		return nil
	}
	if len(text) <= s.chunkSize {
		return []string{text}
	}

	var chunks []string
	pos := 0
	for {
		end := pos + s.chunkSize
		if end >= len(text) {
			chunks = append(chunks, text[pos:])
			break
		}
		end = s.breakPoint(text, pos, end)
		chunks = append(chunks, text[pos:end])
		pos = end - s.chunkOverlap
		// The overlap is counted in bytes, so the next start can land
		// inside a multibyte rune; move it forward to the rune start.
		for pos < len(text) && !utf8.RuneStart(text[pos]) {
			pos++
		}
	}
	return chunks
}

// breakPoint moves the cut position back from limit to the nearest
// natural boundary, without giving up forward progress: the next
// window starts chunkOverlap characters before the cut, so the cut
// must stay past pos+chunkOverlap.
func (s *ChunkService) breakPoint(text string, pos, limit int) int {
	lo := pos + s.chunkOverlap + 1

	if idx := strings.LastIndex(text[pos:limit], "\n\n"); idx != -1 {
		if end := pos + idx + 2; end >= lo {
			return end
		}
	}

	for i := limit - 1; i >= lo-1; i-- {
		if c := text[i]; c == '.' || c == '!' || c == '?' || c == '\n' {
			return i + 1
		}
	}

	for i := limit - 1; i >= lo-1; i-- {
		if text[i] == ' ' {
			return i + 1
		}
	}

	// Hard cut. Back off to a rune start so text without ASCII
	// boundaries (CJK prose) is never split mid-rune.
	end := limit
	for end > lo && !utf8.RuneStart(text[end]) {
		end--
	}
	return end
}

// ChunkDocument applies Split to an extracted document and wraps the
// segments in storable chunks, numbered from startSeq.
func (s *ChunkService) ChunkDocument(doc *types.ExtractedDocument, startSeq int) []types.Chunk {
	segments := s.Split(doc.Text())
	chunks := make([]types.Chunk, 0, len(segments))
	for i, segment := range segments {
		chunks = append(chunks, types.Chunk{
			Text:     segment,
			Source:   doc.Source,
			Seq:      startSeq + i,
			Metadata: map[string]string{},
		})
	}
	return chunks
}
