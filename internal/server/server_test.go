package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumatch/internal/chunker"
	"resumatch/internal/embedding"
	"resumatch/internal/embedding/embeddingtest"
	"resumatch/internal/extract"
	"resumatch/internal/service"
	"resumatch/internal/store"
	"resumatch/internal/vectorizer"
	"resumatch/internal/vectorstore"
)

const testResume = `Jane Doe

Skills
Python, SQL

Work Experience
Data analyst writing Python and SQL daily.
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	enc := embedding.NewEncoder(embeddingtest.New())
	ch, err := chunker.NewWordChunker(150, 30)
	require.NoError(t, err)
	vec := vectorizer.New(enc, ch, nil)
	analyzer := service.NewAnalyzer(extract.Text, vec, nil, nil)
	searcher := service.NewSearcher(vec, enc, vectorstore.NewMemoryStore(), nil)

	docs, err := store.Open(filepath.Join(t.TempDir(), "docs.json"), nil)
	require.NoError(t, err)

	srv, err := New(analyzer, searcher, docs, nil, nil)
	require.NoError(t, err)
	return srv
}

func multipartAnalyzeBody(t *testing.T, filename, content string, jobs ...string) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	if filename != "" {
		fw, err := w.CreateFormFile("resume", filename)
		require.NoError(t, err)
		_, err = io.WriteString(fw, content)
		require.NoError(t, err)
	}
	for _, job := range jobs {
		require.NoError(t, w.WriteField("job_description", job))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv := newTestServer(t)

	body, contentType := multipartAnalyzeBody(t, "resume.txt", testResume,
		"Python and SQL data role.", "Head chef wanted for busy kitchen.")
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report service.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Len(t, report.Matches, 2)
	assert.Equal(t, "job_1", report.Matches[0].JobID)
	assert.Equal(t, "Jane Doe", report.ResumeName)
}

func TestAnalyzeEndpointValidation(t *testing.T) {
	srv := newTestServer(t)

	// missing resume file
	body, contentType := multipartAnalyzeBody(t, "", "", "some job")
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// missing job description
	body, contentType = multipartAnalyzeBody(t, "resume.txt", testResume)
	req = httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// blank job description
	body, contentType = multipartAnalyzeBody(t, "resume.txt", testResume, "   ")
	req = httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJobEndpoints(t *testing.T) {
	srv := newTestServer(t)

	payload := `{"title":"Data Analyst","company":"Acme","description":"Python and SQL work."}`
	req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var job store.JobPosting
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
	assert.Equal(t, "job_1", job.ID)
	assert.Contains(t, job.RequiredSkills, "Python")

	req = httptest.NewRequest(http.MethodGet, "/jobs", nil)
	rec = httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var jobs []store.JobPosting
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
	assert.Len(t, jobs, 1)
}

func TestJobEndpointRequiresDescription(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResumeEndpoints(t *testing.T) {
	srv := newTestServer(t)

	body, contentType := multipartAnalyzeBody(t, "resume.txt", testResume)
	req := httptest.NewRequest(http.MethodPost, "/resumes", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resume store.Resume
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resume))
	assert.Equal(t, "resume_1", resume.ID)
	assert.Equal(t, "Jane Doe", resume.Name)
	assert.Contains(t, resume.Skills, "Python")

	req = httptest.NewRequest(http.MethodGet, "/resumes", nil)
	rec = httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var resumes []store.Resume
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resumes))
	assert.Len(t, resumes, 1)
}

func TestDocumentsAndSearchEndpoints(t *testing.T) {
	srv := newTestServer(t)

	payload := `{"documents":[
		{"id":"dev","source":"dev.txt","text":"Python developer position with SQL pipelines."},
		{"id":"chef","source":"chef.txt","text":"Head chef role managing kitchen staff."}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var indexed IndexDocumentsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &indexed))
	assert.Equal(t, 2, indexed.Documents)
	assert.Equal(t, 2, indexed.Chunks)

	req = httptest.NewRequest(http.MethodGet, "/search?q=python+sql&k=1", nil)
	rec = httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"dev"`)

	// blank query
	req = httptest.NewRequest(http.MethodGet, "/search", nil)
	rec = httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
