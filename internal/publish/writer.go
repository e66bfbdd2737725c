package publish

import (
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/blogsmith/internal/assemble"
	"git.home.luguber.info/inful/blogsmith/internal/errors"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/markdown"
)

// Writer persists assembled documents under the content tree. Every
// document is structurally verified before it touches disk.
type Writer struct {
	contentRoot string
	imageBase   string
}

// NewWriter creates a writer rooted at contentRoot. imageBase is the
// web path prefix local images must live under; "" disables the check.
func NewWriter(contentRoot, imageBase string) *Writer {
	return &Writer{contentRoot: contentRoot, imageBase: imageBase}
}

// Write verifies and stores a document, returning the file path. An
// existing file for the same year and slug is overwritten.
func (w *Writer) Write(doc *assemble.Document) (string, error) {
	issues := markdown.Verify([]byte(doc.Body), w.imageBase)
	for _, issue := range issues {
		if issue.Severity == markdown.SeverityWarning {
			slog.Warn("article verification warning",
				logfields.Slug(doc.Slug),
				slog.String("rule", issue.Rule),
				slog.String("detail", issue.Message))
		}
	}
	if markdown.HasErrors(issues) {
		return "", errors.New(errors.CategoryAssembly, errors.SeverityError,
			"article failed structural verification").
			WithContext("slug", doc.Slug)
	}

	path := filepath.Join(w.contentRoot, doc.RelPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrap(err, errors.CategoryStorage, errors.SeverityError, "create content directory")
	}
	if _, err := os.Stat(path); err == nil {
		slog.Warn("overwriting existing article", logfields.Path(path))
	}
	if err := os.WriteFile(path, doc.Content, 0o644); err != nil {
		return "", errors.Wrap(err, errors.CategoryStorage, errors.SeverityError, "write article file").
			WithContext("path", path)
	}
	return path, nil
}
