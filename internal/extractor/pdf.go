package extractor

import (
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// Options selects what part of a statement to extract.
type Options struct {
	// Pages are 1-based page numbers; empty means every page.
	Pages []int
	// Area restricts extraction to a rectangle; nil means the whole page.
	Area *Area
	// Password opens encrypted statements.
	Password string
}

// ExtractPages reads a PDF file and returns the table rows of each selected
// page. Every text chunk on a row becomes one cell.
// If the structured PDF library fails, falls back to the external pdftotext
// command (poppler-utils), where each line becomes a row.
func ExtractPages(filePath string, opts Options) ([]models.Page, error) {
	if opts.Password != "" {
		decrypted, cleanup, err := decryptToTemp(filePath, opts.Password)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		filePath = decrypted
	}

	// First, try the structured library (keeps cells and coordinates).
	// Readability is judged on the whole page, since a tight area may hold
	// only a few rows.
	pages, readable, libErr := extractWithLibrary(filePath, opts)
	if libErr == nil && readable {
		return pages, nil
	}
	var selErr *SelectionError
	if errors.As(libErr, &selErr) {
		return nil, libErr
	}

	// Try external pdftotext (poppler-utils) as last resort
	popplerPages, popplerReadable, popplerErr := extractWithPdftotext(filePath, opts)
	if popplerErr == nil && popplerReadable {
		return popplerPages, nil
	}

	// All methods failed, never return garbage text
	if libErr != nil {
		return nil, fmt.Errorf("PDF text extraction failed: %w. The PDF may use custom fonts or be image-based/scanned; try -ocr", libErr)
	}
	return nil, fmt.Errorf("no readable text could be extracted from PDF. The file may be image-based/scanned; try -ocr")
}

// SelectionError reports a requested page the document does not have.
type SelectionError struct {
	Page  int
	Count int
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("page %d out of range (document has %d pages)", e.Page, e.Count)
}

// selectPages resolves the requested pages against the page count.
func selectPages(requested []int, count int) ([]int, error) {
	if len(requested) == 0 {
		all := make([]int, count)
		for i := range all {
			all[i] = i + 1
		}
		return all, nil
	}
	for _, p := range requested {
		if p < 1 || p > count {
			return nil, &SelectionError{Page: p, Count: count}
		}
	}
	return requested, nil
}

// extractWithLibrary uses the ledongthuc/pdf library's row grouping. The
// readable flag covers all text of the selected pages, inside the area or not.
func extractWithLibrary(filePath string, opts Options) (pages []models.Page, readable bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, openErr := pdf.Open(filePath)
	if openErr != nil {
		return nil, false, openErr
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, false, fmt.Errorf("PDF has no pages")
	}

	selected, err := selectPages(opts.Pages, numPages)
	if err != nil {
		return nil, false, err
	}

	var all strings.Builder

	for _, num := range selected {
		page := r.Page(num)
		out := models.Page{Number: num}
		if page.V.IsNull() {
			pages = append(pages, out)
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, false, fmt.Errorf("page %d: %w", num, err)
		}

		height := pageHeight(page)
		for _, row := range rows {
			var cells models.Row
			for _, word := range row.Content {
				s := strings.TrimSpace(word.S)
				if s == "" {
					continue
				}
				all.WriteString(s)
				all.WriteByte(' ')
				if opts.Area != nil && !opts.Area.Contains(word.X, height-word.Y) {
					continue
				}
				cells = append(cells, s)
			}
			all.WriteByte('\n')
			if len(cells) > 0 {
				out.Rows = append(out.Rows, cells)
			}
		}
		pages = append(pages, out)
	}
	return pages, readableText(all.String()), nil
}

// pageHeight returns the MediaBox height, searching parent page-tree nodes
// when the page inherits it. US Letter is assumed when none is found.
func pageHeight(page pdf.Page) float64 {
	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Kind() == pdf.Array && box.Len() == 4 {
			return box.Index(3).Float64() - box.Index(1).Float64()
		}
	}
	return 792
}

// extractWithPdftotext uses the external pdftotext command from poppler-utils
// as a fallback for PDFs that the Go library cannot handle. With an area, each
// page is read twice: whole for the readability check, cropped for the rows.
func extractWithPdftotext(filePath string, opts Options) ([]models.Page, bool, error) {
	// Check if pdftotext is available
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, false, fmt.Errorf("pdftotext not available: %v", err)
	}

	count, err := PageCount(filePath)
	if err != nil {
		return nil, false, err
	}
	selected, err := selectPages(opts.Pages, count)
	if err != nil {
		return nil, false, err
	}

	// Extract each page separately to preserve page boundaries
	var pages []models.Page
	var all strings.Builder
	for _, num := range selected {
		full, err := pdftotextPage(filePath, num, nil)
		if err != nil {
			return nil, false, err
		}
		all.WriteString(full)

		text := full
		if opts.Area != nil {
			if text, err = pdftotextPage(filePath, num, opts.Area); err != nil {
				return nil, false, err
			}
		}
		pages = append(pages, PageFromText(num, text))
	}
	return pages, readableText(all.String()), nil
}

// pdftotextPage runs pdftotext on one page, cropped to area when set.
// pdftotext's default 72 DPI makes its crop box units PDF points.
func pdftotextPage(filePath string, num int, area *Area) (string, error) {
	pageStr := strconv.Itoa(num)
	args := []string{"-layout", "-f", pageStr, "-l", pageStr}
	if area != nil {
		x, y := math.Floor(area.Left), math.Floor(area.Top)
		args = append(args,
			"-x", strconv.Itoa(int(x)),
			"-y", strconv.Itoa(int(y)),
			"-W", strconv.Itoa(int(math.Ceil(area.Right-x))),
			"-H", strconv.Itoa(int(math.Ceil(area.Bottom-y))),
		)
	}
	args = append(args, filePath, "-")

	out, err := exec.Command("pdftotext", args...).Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext page %d: %w", num, err)
	}
	return string(out), nil
}

// textQuality returns the ratio of basic ASCII readable characters (a-z, A-Z,
// 0-9, common punctuation, whitespace) to total characters. Returns 0.0-1.0.
func textQuality(text string) float64 {
	total := 0
	readable := 0
	for _, r := range text {
		total++
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) ||
			unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)) {
			readable++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// commonWords that appear in virtually all card statements.
// If the extracted text contains none of these, it's likely garbage.
var commonWords = []string{
	"account", "balance", "date", "payment", "statement", "total",
	"amount", "credit", "transaction", "fees", "interest", "page",
}

// readableText checks that text is long enough, that it's actually readable
// (not binary garbage), and that it contains recognizable words.
func readableText(text string) bool {
	text = strings.TrimSpace(text)
	if len(text) <= 50 {
		return false
	}
	if textQuality(text) <= 0.6 {
		return false
	}
	lower := strings.ToLower(text)
	for _, word := range commonWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// fileExists reports whether path names a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
