package server

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-docfmt/internal/logger"
	"github.com/goliatone/go-docfmt/pkg/dsl"
	"github.com/goliatone/go-docfmt/pkg/orchestrator"
	"github.com/goliatone/go-docfmt/pkg/preset"
	"github.com/goliatone/go-docfmt/pkg/source"
	"github.com/goliatone/go-docfmt/pkg/style"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeTooLarge       = "PAYLOAD_TOO_LARGE"
	CodeUnsupported    = "UNSUPPORTED_MEDIA"
	CodeValidation     = "STYLE_VALIDATION"
	CodeNotFound       = "NOT_FOUND"
	CodeUnavailable    = "UNAVAILABLE"
	CodeInternal       = "INTERNAL_ERROR"
)

// Response headers set on generated documents.
const (
	HeaderTaskID   = "X-Task-Id"
	HeaderDegraded = "X-Degraded-Stages"
)

const multipartMemory = 8 << 20

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Code    string       `json:"code"`
	Details []FieldError `json:"details,omitempty"`
}

// FieldError describes one catalog field that failed validation.
type FieldError struct {
	Key    string `json:"key"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type resolveRequest struct {
	SchoolID      string               `json:"school_id"`
	UserPrompt    string               `json:"user_prompt"`
	StyleOverride style.PartialCatalog `json:"style_override"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"renderers": s.orch.Renderers(),
	})
}

func (s *Server) openapi(c *gin.Context) {
	c.JSON(http.StatusOK, s.apiDoc)
}

func (s *Server) generate(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		if isTooLarge(err) {
			abort(c, http.StatusRequestEntityTooLarge, CodeTooLarge, "upload exceeds the size limit")
			return
		}
		abort(c, http.StatusBadRequest, CodeInvalidRequest, "expected a multipart form: "+err.Error())
		return
	}

	schoolID := strings.TrimSpace(c.PostForm("school_id"))
	if schoolID == "" {
		abort(c, http.StatusBadRequest, CodeInvalidRequest, "school_id is required")
		return
	}

	draft, ok := s.readUpload(c, "source_file", true)
	if !ok {
		return
	}
	rules, ok := s.readUpload(c, "rule_file", false)
	if !ok {
		return
	}

	override, err := parseOverride(c.PostForm("style_override"))
	if err != nil {
		abort(c, http.StatusBadRequest, CodeInvalidRequest, "style_override: "+err.Error())
		return
	}

	renderer := strings.ToLower(strings.TrimSpace(c.PostForm("renderer")))
	if renderer != "" && !slices.Contains(s.orch.Renderers(), renderer) {
		abort(c, http.StatusBadRequest, CodeInvalidRequest,
			"unknown renderer "+renderer+" (available: "+strings.Join(s.orch.Renderers(), ", ")+")")
		return
	}

	res, err := s.orch.Generate(c.Request.Context(), orchestrator.Request{
		Draft:         draft,
		RulesText:     rules,
		InstitutionID: schoolID,
		Instruction:   c.PostForm("user_prompt"),
		Override:      override,
		Renderer:      renderer,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	s.metrics.Documents.WithLabelValues(res.Renderer).Inc()
	stages := make([]string, 0, len(res.Degraded))
	for _, stage := range res.Degraded {
		s.metrics.Degraded.WithLabelValues(string(stage)).Inc()
		stages = append(stages, string(stage))
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	c.Header(HeaderTaskID, res.DSL.MetaValue(dsl.MetaTaskID))
	if len(stages) > 0 {
		c.Header(HeaderDegraded, strings.Join(stages, ","))
	}
	c.Data(http.StatusOK, res.ContentType, res.Output)
}

// readUpload returns the text of a form file. It writes the error response
// itself and reports false when the request should stop.
func (s *Server) readUpload(c *gin.Context, field string, required bool) (string, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) && !required {
			return "", true
		}
		abort(c, http.StatusBadRequest, CodeInvalidRequest, field+" is required")
		return "", false
	}
	f, err := fh.Open()
	if err != nil {
		abort(c, http.StatusBadRequest, CodeInvalidRequest, field+": "+err.Error())
		return "", false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		abort(c, http.StatusBadRequest, CodeInvalidRequest, field+": "+err.Error())
		return "", false
	}
	text, err := source.Read(fh.Filename, data)
	switch {
	case err == nil:
		return text, true
	case errors.Is(err, source.ErrEmpty) && !required:
		return "", true
	case errors.Is(err, source.ErrUnsupported):
		abort(c, http.StatusUnsupportedMediaType, CodeUnsupported, field+": "+err.Error())
	default:
		abort(c, http.StatusBadRequest, CodeInvalidRequest, field+": "+err.Error())
	}
	return "", false
}

func (s *Server) resolve(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, CodeInvalidRequest, "invalid request body: "+err.Error())
		return
	}
	catalog, err := s.orch.Resolve(c.Request.Context(), orchestrator.Request{
		InstitutionID: req.SchoolID,
		Instruction:   req.UserPrompt,
		Override:      req.StyleOverride,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"style_config": catalog})
}

func (s *Server) listPresets(c *gin.Context) {
	ids, err := s.orch.Presets().List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"presets": ids})
}

func (s *Server) showPreset(c *gin.Context) {
	id := preset.SanitizeID(c.Param("id"))
	tier, ok := s.orch.Presets().Lookup(c.Request.Context(), id)
	if !ok {
		abort(c, http.StatusNotFound, CodeNotFound, "preset "+c.Param("id")+" not found")
		return
	}
	resolved, err := s.resolver.Resolve(nil, nil, tier)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       id,
		"preset":   tier,
		"resolved": resolved,
	})
}

func (s *Server) fail(c *gin.Context, err error) {
	if details := validationDetails(err); len(details) > 0 {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "style configuration is invalid",
			Code:    CodeValidation,
			Details: details,
		})
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		abort(c, http.StatusServiceUnavailable, CodeUnavailable, "request cancelled")
		return
	}
	s.logger.Error("request failed",
		logger.String("path", c.Request.URL.Path),
		logger.Error(err),
	)
	abort(c, http.StatusInternalServerError, CodeInternal, err.Error())
}

func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg, Code: code})
}

func parseOverride(raw string) (style.PartialCatalog, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	override, _, err := style.ParseJSON([]byte(raw))
	return override, err
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

// validationDetails flattens every *style.ValidationError in err's tree.
func validationDetails(err error) []FieldError {
	var out []FieldError
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if v, ok := e.(*style.ValidationError); ok {
			out = append(out, FieldError{Key: string(v.Key), Field: v.Field, Reason: v.Reason})
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return out
}
