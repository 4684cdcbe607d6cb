package extractor

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PageCount returns the number of pages in a PDF.
func PageCount(filePath string) (int, error) {
	n, err := api.PageCountFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages of %q: %w", filePath, err)
	}
	return n, nil
}

// decryptToTemp writes a decrypted copy of an encrypted statement to a temp
// file. The cleanup func removes it.
func decryptToTemp(filePath, password string) (string, func(), error) {
	tmp, err := os.CreateTemp("", "statement-decrypted-*.pdf")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmp.Close()
	cleanup := func() { os.Remove(tmp.Name()) }

	conf := model.NewDefaultConfiguration()
	conf.UserPW = password
	conf.OwnerPW = password
	// A classic xref table keeps the copy readable by ledongthuc/pdf.
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false

	if err := api.DecryptFile(filePath, tmp.Name(), conf); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to decrypt PDF: %w", err)
	}
	return tmp.Name(), cleanup, nil
}
