// Package gdoc fetches structured documents and converts them to a
// markdown-like body.
package gdoc

import (
	"context"
	"log/slog"
	"strings"

	"google.golang.org/api/docs/v1"

	"git.home.luguber.info/inful/blogsmith/internal/errors"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
)

// Content is the extracted, read-only result of one document fetch.
type Content struct {
	Title     string
	Body      string
	WordCount int
	DocID     string
}

// DocumentGetter retrieves a structured document tree by id.
// Implemented by the Google Docs adapter in google.go and by test fakes.
type DocumentGetter interface {
	Document(ctx context.Context, docID string) (*docs.Document, error)
}

// Extractor converts document trees into publishable content.
type Extractor struct {
	getter DocumentGetter
}

// NewExtractor creates an extractor over the given document source.
func NewExtractor(getter DocumentGetter) *Extractor {
	return &Extractor{getter: getter}
}

// Content fetches a document and converts its block tree to a markdown body.
// A remote failure or an empty body yields a fetch error.
func (e *Extractor) Content(ctx context.Context, docID string) (*Content, error) {
	doc, err := e.getter.Document(ctx, docID)
	if err != nil {
		return nil, errors.FetchError(err, "document fetch failed").WithContext("doc_id", docID)
	}

	body := convertBody(doc)
	if body == "" {
		return nil, errors.New(errors.CategoryFetch, errors.SeverityError, "document body is empty").
			WithContext("doc_id", docID)
	}

	c := &Content{
		Title:     strings.TrimSpace(doc.Title),
		Body:      body,
		WordCount: len(strings.Fields(body)),
		DocID:     docID,
	}
	slog.Info("Document content extracted",
		logfields.DocID(docID),
		logfields.Title(c.Title),
		logfields.WordCount(c.WordCount))
	return c, nil
}
