// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"resumatch/internal/domain"
	"resumatch/internal/extract"
	"resumatch/internal/parse"
	"resumatch/internal/service"
	"resumatch/internal/store"
)

// Server is the HTTP transport over the analyzer and document store.
type Server struct {
	echo     *echo.Echo
	analyzer *service.Analyzer
	searcher *service.Searcher
	docs     *store.Store
	logger   *zap.Logger
	config   *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// New creates the HTTP server and registers its routes. searcher and docs
// are optional; their routes are omitted when nil.
func New(analyzer *service.Analyzer, searcher *service.Searcher, docs *store.Store, logger *zap.Logger, cfg *Config) (*Server, error) {
	if analyzer == nil {
		return nil, errors.New("analyzer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 8080}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s := &Server{echo: e, analyzer: analyzer, searcher: searcher, docs: docs, logger: logger, config: cfg}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.handleHealth)
	s.echo.POST("/analyze", s.handleAnalyze)
	if s.docs != nil {
		s.echo.POST("/jobs", s.handleCreateJob)
		s.echo.GET("/jobs", s.handleListJobs)
		s.echo.POST("/resumes", s.handleCreateResume)
		s.echo.GET("/resumes", s.handleListResumes)
	}
	if s.searcher != nil {
		s.echo.POST("/documents", s.handleIndexDocuments)
		s.echo.GET("/search", s.handleSearch)
	}
}

// HealthResponse is the response body for GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleAnalyze accepts a multipart resume file plus one or more
// job_description form values and returns the ranked report.
func (s *Server) handleAnalyze(c echo.Context) error {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no resume file provided")
	}
	if fileHeader.Filename == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "no file selected")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}
	jobTexts := form.Value["job_description"]
	if len(jobTexts) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "job description is required")
	}

	path, cleanup, err := s.saveUpload(fileHeader)
	if err != nil {
		s.logger.Error("saving upload failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "could not read uploaded file")
	}
	defer cleanup()

	report, err := s.analyzer.Analyze(c.Request().Context(), service.AnalyzeRequest{
		ResumePath: path,
		JobTexts:   jobTexts,
	})
	if err != nil {
		if errors.Is(err, domain.ErrBadRequest) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		s.logger.Error("analysis failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "analysis failed")
	}
	return c.JSON(http.StatusOK, report)
}

// saveUpload writes the multipart file to a temp path for the extractor,
// keeping the original extension so format detection works.
func (s *Server) saveUpload(fh *multipart.FileHeader) (string, func(), error) {
	src, err := fh.Open()
	if err != nil {
		return "", nil, err
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "resume-*"+filepath.Ext(fh.Filename))
	if err != nil {
		return "", nil, err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, err
	}
	return tmp.Name(), func() { os.Remove(tmp.Name()) }, nil
}

// CreateJobRequest is the request body for POST /jobs.
type CreateJobRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
}

func (s *Server) handleCreateJob(c echo.Context) error {
	var req CreateJobRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Description == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "description field is required")
	}
	job, err := s.docs.AddJob(store.JobPosting{
		Title:          req.Title,
		Company:        req.Company,
		Description:    req.Description,
		RequiredSkills: parse.SkillsFromText(req.Description),
		RawText:        req.Description,
	})
	if err != nil {
		s.logger.Error("storing job failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "could not store job")
	}
	return c.JSON(http.StatusCreated, job)
}

func (s *Server) handleListJobs(c echo.Context) error {
	return c.JSON(http.StatusOK, s.docs.ListJobs())
}

// handleCreateResume accepts a multipart resume file, extracts and parses
// it, and stores the result.
func (s *Server) handleCreateResume(c echo.Context) error {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no resume file provided")
	}
	if fileHeader.Filename == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "no file selected")
	}

	path, cleanup, err := s.saveUpload(fileHeader)
	if err != nil {
		s.logger.Error("saving upload failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "could not read uploaded file")
	}
	defer cleanup()

	text, err := extract.Text(path)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not extract resume text")
	}
	parsed := parse.BasicSections(text)
	resume, err := s.docs.AddResume(store.Resume{
		FilePath: fileHeader.Filename,
		Name:     parsed.Name,
		Contacts: parsed.Contacts,
		Skills:   parsed.Skills,
		RawText:  text,
	})
	if err != nil {
		s.logger.Error("storing resume failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "could not store resume")
	}
	return c.JSON(http.StatusCreated, resume)
}

func (s *Server) handleListResumes(c echo.Context) error {
	return c.JSON(http.StatusOK, s.docs.ListResumes())
}

// IndexDocumentsRequest is the request body for POST /documents.
type IndexDocumentsRequest struct {
	Documents []IndexDocument `json:"documents"`
}

// IndexDocument is one document to index for chunk-level search.
type IndexDocument struct {
	ID     string `json:"id"`
	Source string `json:"source,omitempty"`
	Text   string `json:"text"`
}

// IndexDocumentsResponse reports how many chunks went into the store.
type IndexDocumentsResponse struct {
	Documents int `json:"documents"`
	Chunks    int `json:"chunks"`
}

func (s *Server) handleIndexDocuments(c echo.Context) error {
	var req IndexDocumentsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Documents) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "documents field is required")
	}
	docs := make([]domain.Document, len(req.Documents))
	for i, d := range req.Documents {
		docs[i] = domain.Document{ID: d.ID, Source: d.Source, Text: d.Text}
	}
	chunks, err := s.searcher.IndexDocuments(c.Request().Context(), docs)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyBatch) {
			return echo.NewHTTPError(http.StatusBadRequest, "documents contain no text")
		}
		s.logger.Error("indexing failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "indexing failed")
	}
	return c.JSON(http.StatusOK, IndexDocumentsResponse{Documents: len(docs), Chunks: chunks})
}

func (s *Server) handleSearch(c echo.Context) error {
	query := c.QueryParam("q")
	topK, _ := strconv.Atoi(c.QueryParam("k"))
	results, err := s.searcher.Search(c.Request().Context(), query, topK)
	if err != nil {
		if errors.Is(err, domain.ErrBadRequest) {
			return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
		}
		s.logger.Error("search failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}
	return c.JSON(http.StatusOK, results)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
