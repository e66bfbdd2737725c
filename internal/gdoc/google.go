package gdoc

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/option"
)

// GoogleGetter adapts the Google Docs API to DocumentGetter.
type GoogleGetter struct {
	svc *docs.Service
}

// NewGoogleGetter builds a Docs client from a service-account credentials file.
func NewGoogleGetter(ctx context.Context, credentialsFile string) (*GoogleGetter, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, docs.DocumentsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	svc, err := docs.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create docs client: %w", err)
	}
	return &GoogleGetter{svc: svc}, nil
}

// Document fetches the structured document tree for docID.
func (g *GoogleGetter) Document(ctx context.Context, docID string) (*docs.Document, error) {
	doc, err := g.svc.Documents.Get(docID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", docID, err)
	}
	return doc, nil
}
