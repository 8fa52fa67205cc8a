package extractor

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"classroom-ai-be/internal/pkg/logger"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Extractor returns the plain text of a stored document. It never fails:
// anything it cannot read yields "".
type Extractor interface {
	Extract(ctx context.Context, path string) string
}

type FileExtractor struct {
	logger logger.ILogger
}

var _ Extractor = (*FileExtractor)(nil)

func NewFileExtractor(log logger.ILogger) *FileExtractor {
	return &FileExtractor{logger: log}
}

func (e *FileExtractor) Extract(ctx context.Context, path string) string {
	if ctx.Err() != nil {
		return ""
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		e.logger.Warn("EXTRACTOR", "Document not readable", map[string]interface{}{
			"path":  path,
			"error": errString(err),
		})
		return ""
	}

	var text string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text = e.extractPDF(path)
	case ".txt", ".md":
		text = e.extractPlain(path)
	default:
		e.logger.Warn("EXTRACTOR", "Unsupported document type", map[string]interface{}{"path": path})
		return ""
	}

	if strings.TrimSpace(text) == "" {
		e.logger.Warn("EXTRACTOR", "Document has no extractable text", map[string]interface{}{"path": path})
		return ""
	}
	return text
}

func (e *FileExtractor) extractPDF(path string) (text string) {
	// the pdf reader panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("EXTRACTOR", "PDF reader panicked", map[string]interface{}{"path": path, "error": r})
			text = ""
		}
	}()

	if pages, err := api.PageCountFile(path); err == nil {
		e.logger.Debug("EXTRACTOR", "PDF probed", map[string]interface{}{"path": path, "pages": pages})
	} else {
		e.logger.Warn("EXTRACTOR", "PDF page count probe failed", map[string]interface{}{"path": path, "error": err.Error()})
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		e.logger.Warn("EXTRACTOR", "Failed to open PDF", map[string]interface{}{"path": path, "error": err.Error()})
		return ""
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		e.logger.Warn("EXTRACTOR", "Failed to read PDF text", map[string]interface{}{"path": path, "error": err.Error()})
		return ""
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		e.logger.Warn("EXTRACTOR", "Failed to read PDF buffer", map[string]interface{}{"path": path, "error": err.Error()})
		return ""
	}
	return buf.String()
}

func (e *FileExtractor) extractPlain(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		e.logger.Warn("EXTRACTOR", "Failed to read file", map[string]interface{}{"path": path, "error": err.Error()})
		return ""
	}
	if !utf8.Valid(data) {
		e.logger.Warn("EXTRACTOR", "File is not valid UTF-8", map[string]interface{}{"path": path})
		return ""
	}
	return string(data)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
