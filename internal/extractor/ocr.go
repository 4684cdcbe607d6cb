package extractor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// IsOCRAvailable reports whether pdftoppm and tesseract are on PATH.
func IsOCRAvailable() bool {
	_, err1 := exec.LookPath("pdftoppm")
	_, err2 := exec.LookPath("tesseract")
	return err1 == nil && err2 == nil
}

// ExtractPagesOCR converts PDF pages to images and runs Tesseract OCR.
// This handles scanned/image-based statements that have no text layer.
// Requires: pdftoppm (poppler-utils) and tesseract (tesseract-ocr).
func ExtractPagesOCR(filePath string, selection []int) ([]models.Page, error) {
	if !IsOCRAvailable() {
		return nil, fmt.Errorf("OCR needs pdftoppm (poppler-utils) and tesseract (tesseract-ocr) on PATH")
	}
	if !fileExists(filePath) {
		return nil, fmt.Errorf("input file not found: %s", filePath)
	}

	count, err := PageCount(filePath)
	if err != nil {
		return nil, err
	}
	selected, err := selectPages(selection, count)
	if err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp("", "ocr-pages-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	var pages []models.Page
	for _, num := range selected {
		// -r 300 = 300 DPI for good OCR quality
		prefix := filepath.Join(tmpDir, "page-"+strconv.Itoa(num))
		pageStr := strconv.Itoa(num)
		cmd := exec.Command("pdftoppm", "-r", "300", "-png", "-f", pageStr, "-l", pageStr, filePath, prefix)
		if out, err := cmd.CombinedOutput(); err != nil {
			return nil, fmt.Errorf("pdftoppm page %d failed: %v (output: %s)", num, err, string(out))
		}

		images, err := filepath.Glob(prefix + "*.png")
		if err != nil || len(images) == 0 {
			return nil, fmt.Errorf("pdftoppm produced no image for page %d", num)
		}
		sort.Strings(images)

		text, err := ocrImage(images[0])
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", num, err)
		}
		pages = append(pages, PageFromText(num, text))
	}

	return pages, nil
}

// ExtractImageOCR runs Tesseract on a single statement page image.
func ExtractImageOCR(imagePath string) ([]models.Page, error) {
	if _, err := exec.LookPath("tesseract"); err != nil {
		return nil, fmt.Errorf("tesseract not available (install tesseract-ocr): %v", err)
	}
	if !fileExists(imagePath) {
		return nil, fmt.Errorf("input file not found: %s", imagePath)
	}

	text, err := ocrImage(imagePath)
	if err != nil {
		return nil, err
	}
	return []models.Page{PageFromText(1, text)}, nil
}

// ocrImage returns the text Tesseract reads from one image.
func ocrImage(imagePath string) (string, error) {
	// PSM 6 = assume a single uniform block of text, which keeps table rows on one line
	cmd := exec.Command("tesseract", imagePath, "stdout", "-l", "eng", "--psm", "6", "-c", "preserve_interword_spaces=1")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("tesseract failed on %s: %w", filepath.Base(imagePath), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// IsImage reports whether the path has a raster image extension Tesseract reads.
func IsImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp":
		return true
	}
	return false
}
