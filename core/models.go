package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for index entries.
// It is derived deterministically from the entry's folder name so that
// re-indexing the same folder keeps a stable identity.
type ID uint64

// IDFromFolder generates a deterministic ID from a folder name using BLAKE2b hashing.
// The same folder name always produces the same ID.
func IDFromFolder(folderName string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(folderName))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ProposalIndexEntry is the canonical unit indexed and retrieved.
// FolderName is the unique key joining the lexical row, the vector row,
// and the on-disk summary artifact.
type ProposalIndexEntry struct {
	Id               ID
	FolderName       string
	TenderNumber     string
	Title            string
	Client           string
	Sector           string
	Country          string
	TechnicalSummary string
	PricingSummary   string
	FullSummary      string
	TotalPrice       float64
	MarginInfo       string
	Technologies     []string // insertion order preserved for display
	Keywords         []string
	FileCount        int
	FileList         []string // source file names, for audit only
	IndexedAt        time.Time
}

// VectorEntry is the optional semantic companion to a ProposalIndexEntry,
// keyed by the same folder name. It exists only when an embedding was
// successfully computed and stored; its absence is a valid state.
type VectorEntry struct {
	FolderName string
	Embedding  []float32
}

// maxEmbedRunes caps the text projection sent to embedding models.
const maxEmbedRunes = 8000

// EmbedText returns the text projection embedded for semantic search.
// The same projection is used at index time and when vectors are
// recomputed, so both stay comparable.
func (e *ProposalIndexEntry) EmbedText() string {
	text := strings.Join([]string{
		e.Title,
		e.Client,
		e.Sector,
		e.TechnicalSummary,
		strings.Join(e.Keywords, " "),
		e.FullSummary,
	}, " ")

	runes := []rune(text)
	if len(runes) > maxEmbedRunes {
		return string(runes[:maxEmbedRunes])
	}
	return text
}

// SearchText returns the concatenation of the entry's text fields used
// as the lexical index projection.
func (e *ProposalIndexEntry) SearchText() string {
	parts := []string{
		e.TenderNumber,
		e.Title,
		e.Client,
		e.Sector,
		e.Country,
		e.TechnicalSummary,
		e.PricingSummary,
		e.MarginInfo,
	}
	parts = append(parts, e.Technologies...)
	parts = append(parts, e.Keywords...)
	parts = append(parts, e.FullSummary)

	text := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if text != "" {
			text += "\n"
		}
		text += p
	}
	return text
}
