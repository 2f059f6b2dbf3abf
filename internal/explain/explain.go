// Package explain produces short natural-language explanations of why a
// resume matched a job. A model-backed Generator is optional; template
// explanations cover the degraded path.
package explain

import (
	"context"
	"fmt"
	"strings"

	"resumatch/internal/summarizer"
)

// Request carries everything an explanation needs.
type Request struct {
	CandidateName   string
	CandidateSkills []string
	JobText         string
	MatchPercentage int
	MatchingSkills  []string
}

// Generator turns a match into a human-readable explanation.
type Generator interface {
	Explain(ctx context.Context, req Request) (string, error)
}

const promptSentences = 6

// BuildPrompt renders the model prompt, condensing the job text so long
// postings do not blow past context limits.
func BuildPrompt(req Request, sum *summarizer.FrequencySummarizer) string {
	name := req.CandidateName
	if name == "" {
		name = "The candidate"
	}
	jobText := req.JobText
	if sum != nil {
		jobText = sum.Condense(jobText, promptSentences)
	}
	var b strings.Builder
	b.WriteString("You are a recruiting assistant. In two sentences, explain why this candidate matches the job.\n\n")
	fmt.Fprintf(&b, "Candidate: %s\n", name)
	if len(req.CandidateSkills) > 0 {
		fmt.Fprintf(&b, "Candidate skills: %s\n", strings.Join(req.CandidateSkills, ", "))
	}
	fmt.Fprintf(&b, "Match score: %d%%\n", req.MatchPercentage)
	if len(req.MatchingSkills) > 0 {
		fmt.Fprintf(&b, "Overlapping skills: %s\n", strings.Join(req.MatchingSkills, ", "))
	}
	fmt.Fprintf(&b, "\nJob description:\n%s\n", jobText)
	return b.String()
}

// Fallback renders a template explanation tiered by match percentage. It is
// used when no generator is configured or a generator call fails.
func Fallback(req Request) string {
	name := req.CandidateName
	if name == "" {
		name = "The candidate"
	}
	top := req.MatchingSkills
	if len(top) > 2 {
		top = top[:2]
	}
	skills := strings.Join(top, ", ")
	switch {
	case req.MatchPercentage >= 80:
		return fmt.Sprintf("%s shows excellent alignment with this role. Strong matches include %s. The analysis indicates good semantic fit.", name, skills)
	case req.MatchPercentage >= 60:
		return fmt.Sprintf("%s has good potential for this position. Relevant skills include %s. Consider emphasizing these in your application.", name, skills)
	default:
		return fmt.Sprintf("%s has some relevant background. Focus on developing %s to improve match potential.", name, skills)
	}
}
