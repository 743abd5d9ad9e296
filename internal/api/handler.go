// Package api exposes the analysis pipeline over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/paisawise/transaction-intelligence/internal/config"
	"github.com/paisawise/transaction-intelligence/internal/extractor"
	"github.com/paisawise/transaction-intelligence/internal/rules"
	"github.com/paisawise/transaction-intelligence/internal/workflow"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Handler holds the HTTP handlers for the API.
type Handler struct {
	cfg     *config.AppConfig
	log     zerolog.Logger
	results *cache.Cache
	runs    *cache.Cache
}

func NewHandler(cfg *config.AppConfig, log zerolog.Logger) *Handler {
	return &Handler{
		cfg:     cfg,
		log:     log,
		results: cache.New(15*time.Minute, 30*time.Minute),
		runs:    cache.New(time.Hour, 2*time.Hour),
	}
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Use(h.requestLogger())
	app.Get("/api/health", h.handleHealth)
	app.Post("/api/statements", h.handleAnalyze)
	app.Get("/api/runs/:id", h.handleGetRun)
	app.Post("/api/runs/:id/advance", h.handleAdvanceRun)
	app.Post("/api/runs/:id/reset", h.handleResetRun)
}

// requestLogger assigns each request an id and logs it on completion.
func (h *Handler) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := uuid.NewString()
		c.Locals("requestId", requestID)
		start := time.Now()

		err := c.Next()

		h.log.Info().
			Str("requestId", requestID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("duration", time.Since(start)).
			Msg("request")
		return err
	}
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": Version,
	})
}

// handleAnalyze accepts a statement as either a multipart "file" upload
// (PDF or plain text) or a "text" form value, and returns the full
// analysis: transactions, subscriptions and anomalies.
func (h *Handler) handleAnalyze(c *fiber.Ctx) error {
	source := c.FormValue("source")
	includeCSV := c.FormValue("csv") == "true"
	rulesRaw := c.FormValue("rules")

	var ruleset []rules.Rule
	if rulesRaw != "" {
		if err := json.Unmarshal([]byte(rulesRaw), &ruleset); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid rules: %v", err))
		}
	}

	content, isPDF, err := h.readStatement(c)
	if err != nil {
		return err
	}

	key := cacheKey(content, source, rulesRaw, includeCSV)
	if cached, ok := h.results.Get(key); ok {
		return c.JSON(cached)
	}

	text := string(content)
	if isPDF {
		text, err = h.extractPDF(content)
		if err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
	}

	result, err := Analyze(h.cfg, text, source, ruleset, includeCSV)
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	h.log.Info().
		Str("runId", result.RunID).
		Int("transactions", result.Count).
		Int("subscriptions", len(result.Subscriptions)).
		Int("anomalies", len(result.Anomalies)).
		Msg("statement analyzed")

	// The upload is parsed and auto-tagged at this point, so the run
	// starts out awaiting user review.
	run := workflow.NewRun(result.RunID)
	for _, state := range []workflow.State{workflow.StateCategorize, workflow.StateReview} {
		if err := run.AdvanceTo(state); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}
	h.runs.Set(run.ID, run, cache.DefaultExpiration)

	h.results.Set(key, result, cache.DefaultExpiration)
	return c.JSON(result)
}

func (h *Handler) lookupRun(c *fiber.Ctx) (*workflow.Run, error) {
	v, ok := h.runs.Get(c.Params("id"))
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "run not found")
	}
	return v.(*workflow.Run), nil
}

func (h *Handler) handleGetRun(c *fiber.Ctx) error {
	run, err := h.lookupRun(c)
	if err != nil {
		return err
	}
	return c.JSON(run)
}

func (h *Handler) handleAdvanceRun(c *fiber.Ctx) error {
	run, err := h.lookupRun(c)
	if err != nil {
		return err
	}
	if err := run.Advance(); err != nil {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return c.JSON(run)
}

func (h *Handler) handleResetRun(c *fiber.Ctx) error {
	run, err := h.lookupRun(c)
	if err != nil {
		return err
	}
	run.Reset()
	return c.JSON(run)
}

// readStatement returns the raw statement bytes from either the uploaded
// file or the "text" form value, and whether the payload is a PDF.
func (h *Handler) readStatement(c *fiber.Ctx) ([]byte, bool, error) {
	if text := c.FormValue("text"); text != "" {
		return []byte(text), false, nil
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, false, fiber.NewError(fiber.StatusBadRequest, "no statement provided: use form field 'file' or 'text'")
	}
	if fileHeader.Size > h.cfg.MaxUploadSizeBytes {
		return nil, false, fiber.NewError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds the %d byte upload limit", h.cfg.MaxUploadSizeBytes))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, false, fiber.NewError(fiber.StatusBadRequest, "failed to open uploaded file")
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, false, fiber.NewError(fiber.StatusInternalServerError, "failed to read uploaded file")
	}

	isPDF := strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf")
	return content, isPDF, nil
}

// extractPDF writes the upload to a temp file and runs text extraction.
func (h *Handler) extractPDF(content []byte) (string, error) {
	tmpFile, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("failed to save uploaded file: %w", err)
	}
	tmpFile.Close()

	return extractor.ExtractTextCombined(tmpFile.Name())
}
