package extractor

import (
	"fmt"
	"os"
	"strings"

	"github.com/fadilmartias/pitch-analyzer/internal/model"
	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

// pageSource is an open paginated document.
type pageSource interface {
	NumPage() int
	PageText(n int) (string, error)
	Close() error
}

type openFunc func(path string) (pageSource, error)

func (e *Extractor) extractPDF(path string) (Result, error) {
	open := openFitz
	if e.pdfEngine == EngineNative {
		open = openNative
	}
	return e.extractFrom(open, path)
}

func (e *Extractor) extractFrom(open openFunc, path string) (Result, error) {
	src, err := open(path)
	if err != nil {
		return Result{}, model.WrapError(model.ErrExtraction, "open pdf", err)
	}
	defer src.Close()

	return collectPages(src)
}

// collectPages labels non-blank pages by their real position and counts every page.
func collectPages(src pageSource) (Result, error) {
	total := src.NumPage()
	pages := make([]string, 0, total)
	for n := 0; n < total; n++ {
		text, err := src.PageText(n)
		if err != nil {
			return Result{}, model.WrapError(model.ErrExtraction, fmt.Sprintf("read page %d", n+1), err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, fmt.Sprintf("Page %d:\n%s", n+1, text))
	}
	return Result{
		Content:   strings.Join(pages, "\n\n"),
		UnitCount: total,
	}, nil
}

type fitzSource struct {
	doc *fitz.Document
}

func openFitz(path string) (pageSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &fitzSource{doc: doc}, nil
}

func (s *fitzSource) NumPage() int { return s.doc.NumPage() }

func (s *fitzSource) PageText(n int) (string, error) { return s.doc.Text(n) }

func (s *fitzSource) Close() error { return s.doc.Close() }

// nativeSource reads PDFs without cgo.
type nativeSource struct {
	file   *os.File
	reader *pdf.Reader
}

func openNative(path string) (pageSource, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		if f != nil {
			f.Close()
		}
		return nil, err
	}
	return &nativeSource{file: f, reader: r}, nil
}

func (s *nativeSource) NumPage() int { return s.reader.NumPage() }

func (s *nativeSource) PageText(n int) (text string, err error) {
	page := s.reader.Page(n + 1)
	if page.V.IsNull() {
		return "", nil
	}
	// the reader panics on some malformed content streams
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed page content: %v", r)
		}
	}()
	return page.GetPlainText(nil)
}

func (s *nativeSource) Close() error { return s.file.Close() }
