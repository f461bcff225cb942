package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/AKteen/Clear-Bill/internal/audit"
	"github.com/AKteen/Clear-Bill/internal/dedupe"
	"github.com/AKteen/Clear-Bill/internal/extract"
	"github.com/AKteen/Clear-Bill/internal/journal"
	"github.com/AKteen/Clear-Bill/internal/model"
	"github.com/AKteen/Clear-Bill/internal/policy"
	"github.com/AKteen/Clear-Bill/internal/store"
)

// DefaultMaxUploadBytes caps uploaded file size when Config leaves it unset.
const DefaultMaxUploadBytes = 10 << 20 // 10 MiB

// multipartOverhead is the slack given to the request body reader beyond the
// file size limit, so multipart boundaries and part headers do not eat into
// the allowance. The per-file check below is the real gate.
const multipartOverhead = 16 << 10

// allowedExtensions are the upload file types the original deployment accepted.
var allowedExtensions = map[string]bool{
	".pdf": true, ".png": true, ".jpg": true, ".jpeg": true,
	".gif": true, ".bmp": true, ".tiff": true, ".txt": true,
}

// Config holds HTTP server configuration.
type Config struct {
	Addr           string
	RulesPath      string
	JournalPath    string
	MaxUploadBytes int64
}

// DocumentStore persists accepted documents and their audit results.
type DocumentStore interface {
	SaveDocument(ctx context.Context, doc model.Document) error
	Document(ctx context.Context, id string) (*model.Document, error)
	Documents(ctx context.Context) ([]model.Document, error)
}

// Server is the upload API: it runs extraction, the duplicate gate, and the
// compliance audit for each uploaded document, and serves the rule set for
// administration.
type Server struct {
	cfg       Config
	rules     *policy.Store
	engine    *audit.Engine
	extractor extract.Extractor
	docs      DocumentStore
	journal   *journal.Journal

	httpServer *http.Server
}

// New creates a Server with loaded rules and an audit engine wired to the
// given collaborators.
func New(cfg Config, extractor extract.Extractor, docs DocumentStore, registry dedupe.Registry) (*Server, error) {
	rules, err := policy.LoadRules(cfg.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	ruleStore := policy.NewStore(rules)

	var jnl *journal.Journal
	if cfg.JournalPath != "" {
		jnl, err = journal.Open(cfg.JournalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open decision journal: %w", err)
		}
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}

	s := &Server{
		cfg:       cfg,
		rules:     ruleStore,
		engine:    &audit.Engine{Policies: ruleStore, Detector: dedupe.NewDetector(registry)},
		extractor: extractor,
		docs:      docs,
		journal:   jnl,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("GET /documents", s.handleDocuments)
	mux.HandleFunc("GET /documents/{id}", s.handleDocument)
	mux.HandleFunc("GET /rules", s.handleRules)
	mux.HandleFunc("PUT /rules/{category}", s.handleUpsertRule)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler exposes the route mux. For testing.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts the HTTP server. Blocks until shutdown.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Close cleans up resources.
func (s *Server) Close() error {
	if s.journal != nil {
		return s.journal.Close()
	}
	return nil
}

// ReloadRules rereads the rules file and swaps the rule set. Evaluations in
// flight keep the snapshot they started with.
func (s *Server) ReloadRules() error {
	rules, err := policy.LoadRules(s.cfg.RulesPath)
	if err != nil {
		return err
	}
	s.rules.Replace(rules)
	return nil
}

type uploadResponse struct {
	Success  bool               `json:"success"`
	Message  string             `json:"message"`
	Document model.Document     `json:"document"`
	Audit    *model.AuditResult `json:"audit"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+multipartOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		if s.writeTooLarge(w, err) {
			return
		}
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		if s.writeTooLarge(w, err) {
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}
	if int64(len(content)) > s.cfg.MaxUploadBytes {
		s.writeTooLarge(w, &http.MaxBytesError{Limit: s.cfg.MaxUploadBytes})
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		writeError(w, http.StatusBadRequest, "file type not allowed")
		return
	}

	extraction, err := s.extractor.Extract(ctx, content, header.Filename)
	if err != nil {
		writeError(w, http.StatusBadGateway, "extraction service unavailable: "+err.Error())
		return
	}

	docID := uuid.NewString()
	result, err := s.engine.Run(ctx, docID, extraction.Items, extraction.Keys)
	if err != nil {
		s.writeRunError(w, r, err)
		return
	}

	fp := dedupe.Compute(extraction.Keys, docID)
	doc := model.Document{
		ID:         docID,
		Filename:   header.Filename,
		FileType:   strings.TrimPrefix(ext, "."),
		Hash:       fp.Hash,
		UploadedAt: time.Now().UTC(),
		Audit:      result,
	}
	if err := s.docs.SaveDocument(ctx, doc); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save document: "+err.Error())
		return
	}

	s.record(journal.Entry{
		DocumentID:  docID,
		Fingerprint: fp.Hash,
		Status:      string(result.ApprovalStatus),
		Score:       result.ComplianceScore,
		Violations:  len(result.Violations),
	})

	writeJSON(w, http.StatusOK, uploadResponse{
		Success:  true,
		Message:  "Document processed and audited successfully",
		Document: doc,
		Audit:    result,
	})
}

// writeTooLarge answers 413 when err is a body-size overrun. Reports whether
// it handled the error.
func (s *Server) writeTooLarge(w http.ResponseWriter, err error) bool {
	var maxErr *http.MaxBytesError
	if !errors.As(err, &maxErr) {
		return false
	}
	writeError(w, http.StatusRequestEntityTooLarge,
		fmt.Sprintf("file too large: limit is %s", humanize.Bytes(uint64(s.cfg.MaxUploadBytes))))
	return true
}

// writeRunError maps engine errors onto the HTTP surface. Duplicates carry a
// pipe-delimited detail (header|filename|datetime) the client splits on.
func (s *Server) writeRunError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *model.ValidationError
	if errors.As(err, &vErr) {
		writeError(w, http.StatusBadRequest, "invalid line items: "+vErr.Error())
		return
	}

	var dupErr *dedupe.DuplicateError
	if errors.As(err, &dupErr) {
		filename := dupErr.DocumentID
		if prior, lookupErr := s.docs.Document(r.Context(), dupErr.DocumentID); lookupErr == nil {
			filename = prior.Filename
		}
		detail := fmt.Sprintf("Duplicate flagged and cant upload again|📄 %s|🕒 %s",
			filename, dupErr.MatchedAt.Format("2006-01-02 15:04:05"))
		writeError(w, http.StatusConflict, detail)
		return
	}

	writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.docs.Documents(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if docs == nil {
		docs = []model.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.docs.Document(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.rules.ListRules())
}

func (s *Server) handleUpsertRule(w http.ResponseWriter, r *http.Request) {
	var rule policy.Rule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeError(w, http.StatusBadRequest, "invalid rule body")
		return
	}
	rule.Category = r.PathValue("category")
	if rule.MaxLimit < 0 {
		writeError(w, http.StatusBadRequest, "max_limit must not be negative")
		return
	}
	s.rules.Upsert(rule)
	writeJSON(w, http.StatusOK, rule)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "document audit API is running",
	})
}

func (s *Server) record(entry journal.Entry) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(entry); err != nil {
		fmt.Fprintf(os.Stderr, "journal write failed: %v\n", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
