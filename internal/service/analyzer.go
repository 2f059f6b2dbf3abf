// Package service wires extraction, parsing, vectorization and explanation
// into the resume-to-job analysis pipeline.
package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"resumatch/internal/cache"
	"resumatch/internal/domain"
	"resumatch/internal/explain"
	"resumatch/internal/matcher"
	"resumatch/internal/parse"
	"resumatch/internal/vectorizer"
)

const (
	maxSkillsShown   = 6
	maxResumeSkills  = 10
	maxMatchPercent  = 95
	analysisType     = "semantic matching"
	explainNameLimit = 10
)

// Extractor reads a document file into plain text.
type Extractor func(path string) (string, error)

// TargetReport is the analysis outcome for one job posting.
type TargetReport struct {
	JobIndex        int      `json:"job_index"`
	JobID           string   `json:"job_id"`
	Score           float32  `json:"score"`
	MatchPercentage int      `json:"match_percentage"`
	MatchingSkills  []string `json:"matching_skills"`
	MissingSkills   []string `json:"missing_skills"`
	ResumeSkills    []string `json:"resume_skills_found"`
	JobSkills       []string `json:"job_skills_required"`
	Explanation     string   `json:"explanation"`
	AnalysisType    string   `json:"analysis_type"`
}

// Report is the full analysis outcome, matches ranked best first.
type Report struct {
	ResumeName   string         `json:"resume_name,omitempty"`
	ResumeSkills []string       `json:"resume_skills"`
	Matches      []TargetReport `json:"matches"`
}

// AnalyzeRequest describes one analysis run. Exactly one of ResumePath or
// ResumeText should be set; TopK of 0 means all jobs.
type AnalyzeRequest struct {
	ResumePath string
	ResumeText string
	JobTexts   []string
	TopK       int
}

// pairOutcome is the cacheable part of a resume/job comparison.
type pairOutcome struct {
	MatchPercentage int
	MatchingSkills  []string
	MissingSkills   []string
	JobSkills       []string
	Explanation     string
}

// Analyzer runs the analysis pipeline with injected dependencies.
type Analyzer struct {
	extract   Extractor
	vec       *vectorizer.Vectorizer
	explainer explain.Generator
	pairs     *cache.Cache[pairOutcome]
	log       *zap.Logger
}

// NewAnalyzer creates an Analyzer. The explainer may be nil, in which case
// template explanations are used; the logger may be nil.
func NewAnalyzer(extract Extractor, vec *vectorizer.Vectorizer, explainer explain.Generator, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{
		extract:   extract,
		vec:       vec,
		explainer: explainer,
		pairs:     cache.New[pairOutcome](),
		log:       log,
	}
}

// Analyze scores the resume against every job text and returns ranked
// reports. An empty resume still yields reports; the zero vector simply
// scores at the bottom tier.
func (a *Analyzer) Analyze(ctx context.Context, req AnalyzeRequest) (*Report, error) {
	if req.ResumePath == "" && req.ResumeText == "" {
		return nil, fmt.Errorf("%w: resume file or text is required", domain.ErrBadRequest)
	}
	if len(req.JobTexts) == 0 {
		return nil, fmt.Errorf("%w: at least one job description is required", domain.ErrBadRequest)
	}
	for i, text := range req.JobTexts {
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("%w: job description %d is blank", domain.ErrBadRequest, i+1)
		}
	}

	resumeText := req.ResumeText
	source := "resume_text"
	if req.ResumePath != "" {
		text, err := a.extract(req.ResumePath)
		if err != nil {
			return nil, fmt.Errorf("extracting resume: %w", err)
		}
		resumeText = text
		source = filepath.Base(req.ResumePath)
	}
	parsed := parse.BasicSections(resumeText)
	resumeDoc := domain.Document{ID: "resume_1", Text: resumeText, Source: source, Parsed: parsed}

	resumeVec, err := a.vec.DocVector(ctx, resumeDoc.Input())
	if err != nil {
		return nil, fmt.Errorf("vectorizing resume: %w", err)
	}

	jobDocs := make([]domain.Document, len(req.JobTexts))
	for i, text := range req.JobTexts {
		jobDocs[i] = domain.Document{
			ID:     fmt.Sprintf("job_%d", i+1),
			Text:   text,
			Source: "job_description",
			Parsed: parse.BasicSections(text),
		}
	}
	jobVecs, jobMetas, err := a.vec.BuildDocEmbeddings(ctx, jobDocs)
	if err != nil {
		return nil, fmt.Errorf("vectorizing jobs: %w", err)
	}

	topK := req.TopK
	if topK <= 0 {
		topK = len(jobDocs)
	}
	ranked := matcher.Match(resumeVec, jobVecs, jobMetas, topK)

	resumeSkills := capSkills(parsed.Skills, maxResumeSkills)
	report := &Report{
		ResumeName:   parsed.Name,
		ResumeSkills: resumeSkills,
		Matches:      make([]TargetReport, 0, len(ranked)),
	}
	for _, m := range ranked {
		jobText := req.JobTexts[m.JobIndex]
		outcome := a.pairOutcome(ctx, resumeText, jobText, parsed, m.Score)
		report.Matches = append(report.Matches, TargetReport{
			JobIndex:        m.JobIndex,
			JobID:           m.JobID,
			Score:           m.Score,
			MatchPercentage: outcome.MatchPercentage,
			MatchingSkills:  outcome.MatchingSkills,
			MissingSkills:   outcome.MissingSkills,
			ResumeSkills:    resumeSkills,
			JobSkills:       outcome.JobSkills,
			Explanation:     outcome.Explanation,
			AnalysisType:    analysisType,
		})
	}
	a.log.Info("analysis complete",
		zap.Int("jobs", len(req.JobTexts)),
		zap.Int("matches", len(report.Matches)),
		zap.String("resume", source),
	)
	return report, nil
}

// pairOutcome computes or recalls the per-pair verdict. The fingerprint
// covers both texts, so a repeated pair skips skill scans and the explainer.
func (a *Analyzer) pairOutcome(ctx context.Context, resumeText, jobText string, parsed *domain.Parsed, score float32) pairOutcome {
	key := cache.Key(resumeText, jobText)
	if cached, ok := a.pairs.Get(key); ok {
		a.log.Debug("pair cache hit", zap.String("key", key[:8]))
		return cached
	}

	jobSkills := parse.SkillsFromText(jobText)
	matching, missing := skillOverlap(jobSkills, parsed.Skills)

	pct := int(score * 100)
	if pct > maxMatchPercent {
		pct = maxMatchPercent
	}
	if pct < 0 {
		pct = 0
	}

	outcome := pairOutcome{
		MatchPercentage: pct,
		MatchingSkills:  capSkills(matching, maxSkillsShown),
		MissingSkills:   capSkills(missing, maxSkillsShown),
		JobSkills:       capSkills(jobSkills, maxResumeSkills),
	}

	explReq := explain.Request{
		CandidateName:   parsed.Name,
		CandidateSkills: capSkills(parsed.Skills, explainNameLimit),
		JobText:         jobText,
		MatchPercentage: pct,
		MatchingSkills:  outcome.MatchingSkills,
	}
	if a.explainer != nil {
		text, err := a.explainer.Explain(ctx, explReq)
		if err != nil {
			a.log.Warn("explainer failed, using template explanation", zap.Error(err))
			text = explain.Fallback(explReq)
		}
		outcome.Explanation = text
	} else {
		outcome.Explanation = explain.Fallback(explReq)
	}

	a.pairs.Put(key, outcome)
	return outcome
}

// skillOverlap splits the job's skills into those a resume skill mentions
// and those none does, by case-insensitive substring.
func skillOverlap(jobSkills, resumeSkills []string) (matching, missing []string) {
	for _, js := range jobSkills {
		found := false
		for _, rs := range resumeSkills {
			if strings.Contains(strings.ToLower(rs), strings.ToLower(js)) {
				found = true
				break
			}
		}
		if found {
			matching = append(matching, js)
		} else {
			missing = append(missing, js)
		}
	}
	return matching, missing
}

func capSkills(skills []string, n int) []string {
	if len(skills) > n {
		return skills[:n]
	}
	return skills
}
