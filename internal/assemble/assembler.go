package assemble

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/blogsmith/internal/errors"
	"git.home.luguber.info/inful/blogsmith/internal/frontmatter"
)

const (
	siteAuthor  = "disruptors-media"
	imageWidth  = 1200
	imageHeight = 630
)

// Post is the raw material for one article: the extracted document
// body plus the sheet row it came from and any generated imagery.
type Post struct {
	Title            string
	Body             string
	Keywords         string
	DocID            string
	RowIndex         int
	Featured         bool
	FeatureImage     string
	SupportingImages []string
}

// Frontmatter is the complete metadata block written at the top of
// every article. Field declaration order is the order it renders in.
type Frontmatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Slug        string   `yaml:"slug"`
	PublishedAt string   `yaml:"publishedAt"`
	UpdatedAt   string   `yaml:"updatedAt"`
	Author      string   `yaml:"author"`
	Category    string   `yaml:"category"`
	Tags        []string `yaml:"tags"`
	Featured    bool     `yaml:"featured"`
	ReadingTime int      `yaml:"readingTime"`
	SEO         SEO      `yaml:"seo"`
	Image       Image    `yaml:"image"`
	Status      string   `yaml:"status"`
	Source      Source   `yaml:"source"`
}

// SEO carries the search metadata nested under the seo key.
type SEO struct {
	MetaTitle       string   `yaml:"metaTitle"`
	MetaDescription string   `yaml:"metaDescription"`
	Keywords        []string `yaml:"keywords"`
}

// Image describes the featured image for social cards.
type Image struct {
	Src    string `yaml:"src"`
	Alt    string `yaml:"alt"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Source records provenance so a published file can be traced back to
// the row and document that produced it.
type Source struct {
	ReferenceID string `yaml:"referenceId"`
	RowIndex    int    `yaml:"rowIndex"`
	GeneratedAt string `yaml:"generatedAt"`
}

// Document is an article ready to be written to disk. URL is the
// site-relative path; Canonical is the absolute form under the
// configured base URL.
type Document struct {
	Slug        string
	Year        int
	RelPath     string
	URL         string
	Canonical   string
	Frontmatter Frontmatter
	Body        string
	Content     []byte
}

// Assembler turns extracted posts into publishable documents.
type Assembler struct {
	baseURL string
	now     func() time.Time
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

// New creates an assembler. baseURL is the public site root used when
// reporting the canonical article URL.
func New(baseURL string, opts ...Option) *Assembler {
	a := &Assembler{
		baseURL: baseURL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble derives all article metadata from the post, enriches the
// body, and renders the final file content. Metadata is derived from
// the body as extracted; images and reading aids only affect the
// rendered body.
func (a *Assembler) Assemble(post Post) (*Document, error) {
	if post.Title == "" {
		return nil, errors.New(errors.CategoryAssembly, errors.SeverityError, "post has no title")
	}
	slug := Slugify(post.Title)
	if slug == "" {
		return nil, errors.New(errors.CategoryAssembly, errors.SeverityError,
			fmt.Sprintf("title %q produced an empty slug", post.Title))
	}

	now := a.now()
	year := now.Year()
	stamp := now.UTC().Format(time.RFC3339)
	description := Description(post.Body)

	fm := Frontmatter{
		Title:       post.Title,
		Description: description,
		Slug:        slug,
		PublishedAt: stamp,
		UpdatedAt:   stamp,
		Author:      siteAuthor,
		Category:    Category(post.Body),
		Tags:        Tags(post.Body, post.Keywords),
		Featured:    post.Featured,
		ReadingTime: ReadingTime(post.Body),
		SEO: SEO{
			MetaTitle:       post.Title + " | Disruptors Media",
			MetaDescription: description,
			Keywords:        Keywords(post.Body, post.Keywords),
		},
		Image: Image{
			Src:    post.FeatureImage,
			Alt:    post.Title + " - Blog Post Featured Image",
			Width:  imageWidth,
			Height: imageHeight,
		},
		Status: "published",
		Source: Source{
			ReferenceID: post.DocID,
			RowIndex:    post.RowIndex,
			GeneratedAt: stamp,
		},
	}

	body := normalizeMarkdown(post.Body)
	body = spliceImages(body, post.SupportingImages)
	body = addReadingAids(body)

	content, err := frontmatter.Compose(fm, body)
	if err != nil {
		return nil, errors.AssemblyError(err, "render frontmatter")
	}

	url := fmt.Sprintf("/blog/%d/%s", year, slug)
	return &Document{
		Slug:        slug,
		Year:        year,
		RelPath:     filepath.Join(fmt.Sprint(year), slug+".mdx"),
		URL:         url,
		Canonical:   strings.TrimRight(a.baseURL, "/") + url,
		Frontmatter: fm,
		Body:        body,
		Content:     content,
	}, nil
}
