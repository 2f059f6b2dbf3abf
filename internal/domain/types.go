package domain

// Document is a single unit of input text: a resume or a job posting.
// It is constructed by the caller, never mutated afterwards, and discarded
// once the matching call completes. Text may be empty; downstream stages
// produce a zero vector for it rather than failing.
type Document struct {
	ID      string
	Text    string
	Source  string
	Section string
	Parsed  *Parsed
}

// Parsed is the structured breakdown supplied by the parsing collaborator.
// Sections is keyed by lowercase header name and always carries a "full" key
// holding the raw text.
type Parsed struct {
	Name     string            `json:"name"`
	Contacts Contacts          `json:"contacts"`
	Skills   []string          `json:"skills"`
	Sections map[string]string `json:"sections"`
}

// Contacts holds contact details extracted from a document.
type Contacts struct {
	Emails []string `json:"emails"`
	Phones []string `json:"phones"`
}

// ChunkMeta is the metadata record stored alongside each chunk vector in the
// index. Only a bounded preview of the chunk text is retained, never the full
// text.
type ChunkMeta struct {
	DocID      string `json:"doc_id"`
	Source     string `json:"source"`
	Section    string `json:"section"`
	ChunkIndex int    `json:"chunk_index"`
	Preview    string `json:"chunk_text_preview"`
}

// DocMeta is the metadata record for a document-level vector.
type DocMeta struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Parsed *Parsed `json:"parsed,omitempty"`
}

// MatchResult is one ranked target in a document-to-documents match.
// JobIndex is the row offset into the compared batch.
type MatchResult struct {
	JobIndex  int
	JobID     string
	JobSource string
	Score     float32
	JobMeta   DocMeta
}

// PreviewLimit bounds how much chunk text survives into index metadata.
const PreviewLimit = 300

// Preview returns at most PreviewLimit bytes of s.
func Preview(s string) string {
	if len(s) <= PreviewLimit {
		return s
	}
	return s[:PreviewLimit]
}
