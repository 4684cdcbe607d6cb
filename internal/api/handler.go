package api

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-parser/internal/config"
	"github.com/insightdelivered/statement-parser/internal/extractor"
	"github.com/insightdelivered/statement-parser/internal/logger"
	"github.com/insightdelivered/statement-parser/internal/models"
	"github.com/insightdelivered/statement-parser/internal/parser"
	"github.com/insightdelivered/statement-parser/internal/writer"
)

// Version is reported by the health endpoint and every conversion response.
const Version = "1.2.0"

const requestIDHeader = "X-Request-ID"

// ConvertResponse is the JSON response from the conversion endpoints.
type ConvertResponse struct {
	Success       bool                 `json:"success"`
	Error         string               `json:"error,omitempty"`
	RequestID     string               `json:"requestId,omitempty"`
	Bank          string               `json:"bank,omitempty"`
	ReferenceYear int                  `json:"referenceYear,omitempty"`
	Transactions  []models.Transaction `json:"transactions"`
	CSV           string               `json:"csv,omitempty"`
	Count         int                  `json:"count"`
	RolledOver    int                  `json:"rolledOver,omitempty"`
	Warnings      []models.Warning     `json:"warnings,omitempty"`
	Version       string               `json:"version,omitempty"`
}

// RowsRequest carries pre-extracted table rows: pages of rows of cells.
type RowsRequest struct {
	Pages [][]models.Row `json:"pages"`
	Year  int            `json:"year"`
	Delim string         `json:"delim"`
	Bank  string         `json:"bank"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Log       zerolog.Logger
	Delimiter rune
	// Layout overrides the built-in keyword profile when set.
	Layout *config.Layout
}

// NewApp builds the fiber app with middleware and routes registered.
func NewApp(h *Handler, maxUploadBytes int) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "statement-parser",
		BodyLimit:             maxUploadBytes,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	app.Use(h.requestID)
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/convert", h.HandleConvert)
	app.Post("/api/rows", h.HandleRows)
}

// requestID reuses the caller's X-Request-ID or assigns a new one, and
// attaches a logger carrying it to the request context.
func (h *Handler) requestID(c *fiber.Ctx) error {
	id := c.Get(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Locals("requestId", id)
	c.Set(requestIDHeader, id)

	log := h.Log.With().Str("request_id", id).Str("path", c.Path()).Logger()
	c.SetUserContext(logger.WithContext(c.UserContext(), log))
	return c.Next()
}

func (h *Handler) requestLog(c *fiber.Ctx) (zerolog.Logger, string) {
	id, _ := c.Locals("requestId").(string)
	return logger.FromContext(c.UserContext()), id
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": Version,
		"engine":  "fiber",
	})
}

// HandleConvert accepts a multipart PDF upload in the "file" field and
// returns the parsed transactions.
func (h *Handler) HandleConvert(c *fiber.Ctx) error {
	log, id := h.requestLog(c)

	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, id, "No file uploaded. Use form field 'file'.")
	}

	useOCR := c.FormValue("ocr") == "true"
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".pdf" && !(useOCR && extractor.IsImage(fh.Filename)) {
		return writeError(c, fiber.StatusBadRequest, id, "Only PDF files are supported (images need ocr=true).")
	}

	opts := extractor.Options{Password: c.FormValue("password")}
	if opts.Pages, err = extractor.ParsePages(c.FormValue("pages")); err != nil {
		return writeError(c, fiber.StatusBadRequest, id, err.Error())
	}
	if v := c.FormValue("area"); v != "" {
		area, err := extractor.ParseArea(v)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, id, err.Error())
		}
		opts.Area = &area
	}
	if useOCR && (opts.Area != nil || opts.Password != "") {
		return writeError(c, fiber.StatusBadRequest, id, "area and password cannot be combined with ocr=true")
	}
	year, err := parseYear(c.FormValue("year"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, id, err.Error())
	}
	delim, err := h.parseDelimiter(c.FormValue("delim"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, id, err.Error())
	}

	tmpFile, err := os.CreateTemp("", "statement-*"+ext)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, id, "Failed to create temp file.")
	}
	tmpFile.Close()
	defer os.Remove(tmpFile.Name())

	if err := c.SaveFile(fh, tmpFile.Name()); err != nil {
		return writeError(c, fiber.StatusInternalServerError, id, "Failed to save uploaded file.")
	}

	log.Info().Str("file", fh.Filename).Int64("size", fh.Size).Bool("ocr", useOCR).Msg("converting upload")

	var pages []models.Page
	switch {
	case useOCR && extractor.IsImage(fh.Filename):
		pages, err = extractor.ExtractImageOCR(tmpFile.Name())
	case useOCR:
		pages, err = extractor.ExtractPagesOCR(tmpFile.Name(), opts.Pages)
	default:
		pages, err = extractor.ExtractPages(tmpFile.Name(), opts)
	}
	if err != nil {
		log.Warn().Err(err).Msg("extraction failed")
		return writeError(c, fiber.StatusUnprocessableEntity, id, fmt.Sprintf("PDF extraction failed: %v", err))
	}

	return h.respond(c, log, id, pages, c.FormValue("bank"), year, delim)
}

// HandleRows runs the parser directly on pre-extracted rows, for clients
// that do their own PDF extraction.
func (h *Handler) HandleRows(c *fiber.Ctx) error {
	log, id := h.requestLog(c)

	var req RowsRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, id, fmt.Sprintf("Invalid request body: %v", err))
	}
	if req.Year != 0 {
		if err := parser.CheckYear(req.Year); err != nil {
			return writeError(c, fiber.StatusBadRequest, id, err.Error())
		}
	}
	delim, err := h.parseDelimiter(req.Delim)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, id, err.Error())
	}

	pages := make([]models.Page, len(req.Pages))
	for i, rows := range req.Pages {
		pages[i] = models.Page{Number: i + 1, Rows: rows}
	}

	return h.respond(c, log, id, pages, req.Bank, req.Year, delim)
}

func (h *Handler) respond(c *fiber.Ctx, log zerolog.Logger, id string, pages []models.Page, bank string, year int, delim rune) error {
	bankType, err := resolveBank(bank, pages)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, id, err.Error())
	}

	opts := []parser.Option{parser.WithYear(year), parser.WithLogger(log)}
	if h.Layout != nil {
		opts = append(opts, parser.WithLayout(*h.Layout))
	}
	p, err := parser.New(bankType, opts...)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, id, err.Error())
	}

	info, err := p.Parse(pages)
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, id, fmt.Sprintf("Parsing failed: %v", err))
	}

	var buf bytes.Buffer
	w := &writer.DelimitedWriter{Delimiter: delim}
	if err := w.Write(&buf, info.Transactions); err != nil {
		return writeError(c, fiber.StatusInternalServerError, id, fmt.Sprintf("Output generation failed: %v", err))
	}

	log.Info().
		Int("pages", len(pages)).
		Int("transactions", len(info.Transactions)).
		Int("warnings", len(info.Warnings)).
		Msg("conversion complete")

	return c.JSON(ConvertResponse{
		Success:       true,
		RequestID:     id,
		Bank:          string(info.Bank),
		ReferenceYear: info.ReferenceYear,
		Transactions:  info.Transactions,
		CSV:           buf.String(),
		Count:         len(info.Transactions),
		RolledOver:    info.RolledOver,
		Warnings:      info.Warnings,
		Version:       Version,
	})
}

// resolveBank honors an explicit bank name, then tries auto-detection, and
// otherwise assumes Capital One, the only supported layout.
func resolveBank(name string, pages []models.Page) (models.BankType, error) {
	if name != "" {
		return parser.ParseBankType(name)
	}
	if detected, err := parser.AutoDetect(pages); err == nil {
		return detected, nil
	}
	return models.BankCapitalOne, nil
}

func parseYear(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return year, parser.CheckYear(year)
}

func (h *Handler) parseDelimiter(s string) (rune, error) {
	if s == "" {
		if h.Delimiter != 0 {
			return h.Delimiter, nil
		}
		return writer.DefaultDelimiter, nil
	}
	return writer.ParseDelimiter(s)
}

func writeError(c *fiber.Ctx, status int, id, msg string) error {
	return c.Status(status).JSON(ConvertResponse{
		Success:      false,
		Error:        msg,
		RequestID:    id,
		Transactions: []models.Transaction{},
	})
}
