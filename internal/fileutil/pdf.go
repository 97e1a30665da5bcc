package fileutil

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// CheckPDF opens path as a PDF and returns its page count.
func CheckPDF(path string) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("open pdf %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	pages = r.NumPage()
	if pages == 0 {
		return 0, fmt.Errorf("open pdf %s: no pages", path)
	}
	return pages, nil
}
