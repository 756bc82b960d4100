// -----------------------------------------------------------------------
// Document Handler - upload, extraction, and full analysis endpoints
// -----------------------------------------------------------------------

package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/loanlens/internal/models"
	"github.com/ternarybob/loanlens/internal/services/analyzer"
)

// maxUploadBytes caps multipart document uploads.
const maxUploadBytes = 32 << 20

// DocumentAnalyzer is the analysis surface the document endpoints need.
type DocumentAnalyzer interface {
	AnalyzeBytes(ctx context.Context, document []byte, opts analyzer.Options) (*models.DocumentAnalysis, error)
	AnalyzeURL(ctx context.Context, fileURL string, opts analyzer.Options) (*models.DocumentAnalysis, error)
	Extract(ctx context.Context, document []byte) (*models.ExtractedFacts, error)
}

// DocumentHandler serves the document analysis endpoints.
type DocumentHandler struct {
	analyzer DocumentAnalyzer
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewDocumentHandler creates a new DocumentHandler instance.
func NewDocumentHandler(analyzerService DocumentAnalyzer, logger arbor.ILogger) *DocumentHandler {
	return &DocumentHandler{
		analyzer: analyzerService,
		validate: validator.New(),
		logger:   logger,
	}
}

// analyzeRequest is the JSON payload for POST /api/documents/analyze.
// Exactly one of FileBase64 or URL must be provided.
type analyzeRequest struct {
	FileBase64 string `json:"fileBase64" validate:"required_without=URL"`
	URL        string `json:"url" validate:"omitempty,url"`
	Address    string `json:"address"`
	Notify     bool   `json:"notify"`
	Filename   string `json:"filename"`
}

// AnalyzeHandler handles POST /api/documents/analyze. It accepts either a
// JSON payload with base64 document content or a document URL, or a
// multipart form with a "file" field, runs the full pipeline, and returns
// the analysis record.
func (h *DocumentHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	contentType := r.Header.Get("Content-Type")
	opts := analyzer.Options{}

	var analysis *models.DocumentAnalysis
	var err error

	switch {
	case strings.Contains(contentType, "multipart/form-data"):
		document, formOpts, ok := h.readMultipart(w, r)
		if !ok {
			return
		}
		opts = formOpts
		analysis, err = h.analyzer.AnalyzeBytes(r.Context(), document, opts)

	default:
		var req analyzeRequest
		if !h.decodeAndValidate(w, r, &req) {
			return
		}
		opts = analyzer.Options{AddressOverride: req.Address, Notify: req.Notify}

		if req.URL != "" {
			analysis, err = h.analyzer.AnalyzeURL(r.Context(), req.URL, opts)
		} else {
			document, decodeErr := base64.StdEncoding.DecodeString(req.FileBase64)
			if decodeErr != nil {
				WriteError(w, http.StatusBadRequest, "fileBase64 is not valid base64")
				return
			}
			analysis, err = h.analyzer.AnalyzeBytes(r.Context(), document, opts)
		}
	}

	if err != nil {
		h.logger.Error().Err(err).Msg("Document analysis failed")
		WriteError(w, http.StatusInternalServerError, "Analysis failed: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"analysis": analysis,
	})
}

// ProcessHandler handles POST /api/documents/process. It runs extraction
// only, without valuation, scoring, notification, or persistence.
func (h *DocumentHandler) ProcessHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	contentType := r.Header.Get("Content-Type")

	var document []byte
	switch {
	case strings.Contains(contentType, "application/json"):
		var req struct {
			FileBase64 string `json:"fileBase64" validate:"required"`
		}
		if !h.decodeAndValidate(w, r, &req) {
			return
		}
		decoded, err := base64.StdEncoding.DecodeString(req.FileBase64)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "fileBase64 is not valid base64")
			return
		}
		document = decoded

	case strings.Contains(contentType, "multipart/form-data"):
		doc, _, ok := h.readMultipart(w, r)
		if !ok {
			return
		}
		document = doc

	default:
		WriteError(w, http.StatusUnsupportedMediaType, "Unsupported content type")
		return
	}

	extracted, err := h.analyzer.Extract(r.Context(), document)
	if err != nil {
		h.logger.Error().Err(err).Msg("Document extraction failed")
		WriteError(w, http.StatusInternalServerError, "Processing failed: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"extracted": extracted,
	})
}

// readMultipart pulls the "file" field and analysis options out of a
// multipart form. Returns ok=false after writing an error response.
func (h *DocumentHandler) readMultipart(w http.ResponseWriter, r *http.Request) ([]byte, analyzer.Options, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return nil, analyzer.Options{}, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "file required")
		return nil, analyzer.Options{}, false
	}
	defer file.Close()

	document, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return nil, analyzer.Options{}, false
	}
	if len(document) == 0 {
		WriteError(w, http.StatusBadRequest, "Uploaded file is empty")
		return nil, analyzer.Options{}, false
	}

	opts := analyzer.Options{
		AddressOverride: r.FormValue("address"),
		Notify:          r.FormValue("notify") == "true",
	}
	return document, opts, true
}

// decodeAndValidate decodes a JSON body into dst and applies struct
// validation. Returns false after writing an error response.
func (h *DocumentHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return false
	}
	return true
}
