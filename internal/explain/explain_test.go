package explain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumatch/internal/summarizer"
)

func TestFallbackTiers(t *testing.T) {
	req := Request{
		CandidateName:  "Jane Doe",
		MatchingSkills: []string{"Python", "SQL", "Docker"},
	}

	req.MatchPercentage = 85
	out := Fallback(req)
	assert.Contains(t, out, "Jane Doe shows excellent alignment")
	assert.Contains(t, out, "Python, SQL")
	assert.NotContains(t, out, "Docker")

	req.MatchPercentage = 65
	assert.Contains(t, Fallback(req), "good potential for this position")

	req.MatchPercentage = 30
	assert.Contains(t, Fallback(req), "some relevant background")
}

func TestFallbackAnonymousCandidate(t *testing.T) {
	out := Fallback(Request{MatchPercentage: 90, MatchingSkills: []string{"Go"}})
	assert.True(t, strings.HasPrefix(out, "The candidate"), out)
}

func TestBuildPromptIncludesMatchContext(t *testing.T) {
	req := Request{
		CandidateName:   "Jane Doe",
		CandidateSkills: []string{"Python", "SQL"},
		JobText:         "We need a data analyst.",
		MatchPercentage: 72,
		MatchingSkills:  []string{"SQL"},
	}
	prompt := BuildPrompt(req, summarizer.New())

	assert.Contains(t, prompt, "Candidate: Jane Doe")
	assert.Contains(t, prompt, "Candidate skills: Python, SQL")
	assert.Contains(t, prompt, "Match score: 72%")
	assert.Contains(t, prompt, "Overlapping skills: SQL")
	assert.Contains(t, prompt, "We need a data analyst.")
}

func TestBuildPromptWorksWithoutSummarizer(t *testing.T) {
	prompt := BuildPrompt(Request{JobText: "short posting"}, nil)
	assert.Contains(t, prompt, "short posting")
	assert.Contains(t, prompt, "Candidate: The candidate")
}

func TestOllamaGeneratorExplain(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaMessage{Role: "assistant", Content: "Solid overlap on SQL."},
		})
	}))
	defer srv.Close()

	g := NewOllamaGenerator(OllamaConfig{Host: srv.URL, Model: "test-model"})
	out, err := g.Explain(context.Background(), Request{
		CandidateName:   "Jane Doe",
		JobText:         "SQL analyst role.",
		MatchPercentage: 70,
	})
	require.NoError(t, err)
	assert.Equal(t, "Solid overlap on SQL.", out)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, got.Messages[1].Content, "Jane Doe")
	assert.False(t, got.Stream)
	assert.Equal(t, "test-model", got.Model)
}

func TestOllamaGeneratorServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewOllamaGenerator(OllamaConfig{Host: srv.URL})
	_, err := g.Explain(context.Background(), Request{JobText: "x"})
	assert.Error(t, err)
}

func TestOllamaGeneratorEmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaChatResponse{})
	}))
	defer srv.Close()

	g := NewOllamaGenerator(OllamaConfig{Host: srv.URL})
	_, err := g.Explain(context.Background(), Request{JobText: "x"})
	assert.Error(t, err)
}
