// Package parse turns raw resume text into structured fields: contacts,
// skills and keyword-delimited sections.
package parse

import (
	"regexp"
	"strings"

	"resumatch/internal/domain"
)

var (
	emailRe = regexp.MustCompile(`[\w.\-]+@[\w.\-]+`)
	phoneRe = regexp.MustCompile(`\+?[\d][\d\s().\-]{7,18}\d`)

	sectionHeaders = []string{
		"education",
		"experience",
		"work experience",
		"professional experience",
		"skills",
		"certifications",
		"projects",
		"interests",
	}

	skillSplitRe  = regexp.MustCompile(`[\n•\-*;]+`)
	inlineSkillRe = regexp.MustCompile(`(?i)skills\s*[:\-]\s*(.+)`)
)

// commonSkills is the lexicon used for lightweight skill detection in free
// text such as job descriptions.
var commonSkills = []string{
	"Python", "JavaScript", "Java", "SQL", "Machine Learning", "Deep Learning",
	"TensorFlow", "PyTorch", "React", "Node.js", "AWS", "Docker", "Kubernetes",
	"Git", "HTML", "CSS", "Data Analysis", "Natural Language Processing",
	"Computer Vision", "Statistical Modeling", "Pandas", "NumPy", "Scikit-learn",
}

// BasicSections parses resume text into contacts, skills and sections.
// The returned Sections map always carries the original text under "full".
func BasicSections(text string) *domain.Parsed {
	p := &domain.Parsed{
		Name:     guessName(text),
		Contacts: extractContacts(text),
		Sections: splitSections(text),
	}
	p.Skills = skillsFromSections(p.Sections)
	if len(p.Skills) == 0 {
		if m := inlineSkillRe.FindStringSubmatch(text); m != nil {
			for _, s := range regexp.MustCompile(`[;,]`).Split(m[1], -1) {
				if s = strings.TrimSpace(s); s != "" {
					p.Skills = append(p.Skills, s)
				}
			}
		}
	}
	return p
}

// SkillsFromText scans free text for well-known skill names, case
// insensitively, capped at 10.
func SkillsFromText(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, skill := range commonSkills {
		if strings.Contains(lower, strings.ToLower(skill)) {
			found = append(found, skill)
		}
	}
	if len(found) > 10 {
		found = found[:10]
	}
	return found
}

func extractContacts(text string) domain.Contacts {
	c := domain.Contacts{}
	seen := map[string]bool{}
	for _, e := range emailRe.FindAllString(text, -1) {
		if !seen[e] {
			seen[e] = true
			c.Emails = append(c.Emails, e)
		}
	}
	seen = map[string]bool{}
	for _, ph := range phoneRe.FindAllString(text, -1) {
		ph = strings.TrimSpace(ph)
		if !seen[ph] {
			seen[ph] = true
			c.Phones = append(c.Phones, ph)
		}
	}
	return c
}

// splitSections splits the text at lines containing a known header keyword.
// Each section spans from the line after its header to the next header.
func splitSections(text string) map[string]string {
	lines := strings.Split(text, "\n")
	type headerAt struct {
		idx    int
		header string
	}
	var headers []headerAt
	for i, line := range lines {
		low := strings.ToLower(strings.TrimSpace(line))
		for _, h := range sectionHeaders {
			if containsWord(low, h) {
				headers = append(headers, headerAt{idx: i, header: strings.TrimSpace(line)})
				break
			}
		}
	}
	sections := map[string]string{"full": text}
	if len(headers) == 0 {
		return sections
	}
	headers = append(headers, headerAt{idx: len(lines)})
	for i := 0; i < len(headers)-1; i++ {
		body := lines[headers[i].idx+1 : headers[i+1].idx]
		sections[strings.ToLower(headers[i].header)] = strings.TrimSpace(strings.Join(body, "\n"))
	}
	return sections
}

// containsWord reports whether s contains phrase on word boundaries.
func containsWord(s, phrase string) bool {
	idx := 0
	for {
		j := strings.Index(s[idx:], phrase)
		if j < 0 {
			return false
		}
		j += idx
		before := j == 0 || !isWordByte(s[j-1])
		end := j + len(phrase)
		after := end == len(s) || !isWordByte(s[end])
		if before && after {
			return true
		}
		idx = j + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// skillsFromSections splits skill-section bodies on bullets and commas,
// keeping short phrases.
func skillsFromSections(sections map[string]string) []string {
	var keys []string
	for k := range sections {
		if strings.Contains(k, "skill") {
			keys = append(keys, k)
		}
	}
	// map order is random; sort for stable output
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if keys[j] < keys[i] {
				keys[i], keys[j] = keys[j], keys[i]
			}
		}
	}
	var skills []string
	for _, k := range keys {
		for _, part := range skillSplitRe.Split(sections[k], -1) {
			part = strings.TrimSpace(part)
			if len(part) <= 1 || len(strings.Fields(part)) > 6 {
				continue
			}
			for _, s := range strings.Split(part, ",") {
				if s = strings.TrimSpace(s); s != "" {
					skills = append(skills, s)
				}
			}
		}
	}
	return skills
}

// guessName takes the first short, contact-free line as the candidate name.
func guessName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.ContainsAny(line, "@0123456789") {
			return ""
		}
		if len(strings.Fields(line)) > 4 {
			return ""
		}
		return line
	}
	return ""
}
