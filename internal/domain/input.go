package domain

import "strings"

// DocumentInput is the vectorizer-facing view of a document. The two variants
// select between the whole-text embedding path and the section-weighted path,
// so callers handle both exhaustively instead of probing optional fields.
type DocumentInput interface {
	documentInput()
}

// FullText embeds the raw document text as-is.
type FullText string

// SectionedText carries the parsed sections used for weighted combination.
// Full is the raw text fallback used when no weighted section is present.
type SectionedText struct {
	Skills     []string
	Experience string
	Education  string
	Full       string
}

func (FullText) documentInput()      {}
func (SectionedText) documentInput() {}

// Input derives the vectorizer input for the document. A document without a
// parsed breakdown always takes the whole-text path.
func (d Document) Input() DocumentInput {
	if d.Parsed == nil {
		return FullText(d.Text)
	}
	return SectionedText{
		Skills:     d.Parsed.Skills,
		Experience: d.Parsed.Section("experience"),
		Education:  d.Parsed.Section("education"),
		Full:       d.Text,
	}
}

// Section returns the body of the first section whose header contains the
// keyword. Headers in the wild read "work experience", "professional
// experience" and so on; an exact-key lookup would miss most of them.
func (p *Parsed) Section(keyword string) string {
	if p == nil || len(p.Sections) == 0 {
		return ""
	}
	if body, ok := p.Sections[keyword]; ok {
		return body
	}
	var match string
	for header := range p.Sections {
		if header == "full" || !strings.Contains(header, keyword) {
			continue
		}
		// pick the lexicographically first match so the result does not
		// depend on map iteration order
		if match == "" || header < match {
			match = header
		}
	}
	if match == "" {
		return ""
	}
	return p.Sections[match]
}
