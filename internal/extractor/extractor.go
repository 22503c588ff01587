// Package extractor turns uploaded pitch decks into plain text for scoring.
package extractor

import (
	"fmt"
	"strings"

	"github.com/fadilmartias/pitch-analyzer/internal/model"
	"go.uber.org/zap"
)

const (
	ExtPDF  = ".pdf"
	ExtPPTX = ".pptx"

	EngineFitz   = "fitz"
	EngineNative = "native"
)

// Result is the extracted text. UnitCount is the number of slides or pages,
// blank ones included.
type Result struct {
	Content   string
	UnitCount int
}

type Extractor struct {
	pdfEngine string
	log       *zap.Logger
}

func New(pdfEngine string, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	if pdfEngine != EngineNative {
		pdfEngine = EngineFitz
	}
	return &Extractor{pdfEngine: pdfEngine, log: log}
}

// Supported reports whether ext (with leading dot, any case) can be extracted.
func Supported(ext string) bool {
	switch strings.ToLower(ext) {
	case ExtPDF, ExtPPTX:
		return true
	}
	return false
}

func (e *Extractor) Extract(path, ext string) (Result, error) {
	var (
		res Result
		err error
	)
	switch strings.ToLower(ext) {
	case ExtPPTX:
		res, err = extractPPTX(path)
	case ExtPDF:
		res, err = e.extractPDF(path)
	default:
		return Result{}, model.WrapError(model.ErrUnsupportedFormat, "extract",
			fmt.Errorf("%q: only PDF and PPTX files are supported", ext))
	}
	if err != nil {
		return Result{}, err
	}

	e.log.Info("document extracted",
		zap.String("path", path),
		zap.String("ext", ext),
		zap.Int("units", res.UnitCount),
		zap.Int("chars", len(res.Content)),
	)
	return res, nil
}
