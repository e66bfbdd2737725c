package images

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"git.home.luguber.info/inful/blogsmith/internal/errors"
)

// Fixed canvas for every generated image; matches the frontmatter image block.
const (
	canvasWidth  = 1200
	canvasHeight = 630
	jpegQuality  = 85
)

// WebBase is the site-relative prefix the frontmatter references.
const WebBase = "/images/blog"

// downloadAndStore fetches the image bytes and re-encodes them twice: a JPEG
// (primary) and a PNG (alternate), both cover-cropped to the fixed canvas,
// written under the per-slug directory. Returns the primary's relative path.
func (s *Synthesizer) downloadAndStore(ctx context.Context, imageURL, slug, role string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build image download request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", errors.FetchError(err, "image download failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.New(errors.CategoryFetch, errors.SeverityError,
			fmt.Sprintf("image download returned %d", resp.StatusCode))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.FetchError(err, "read image bytes")
	}

	src, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	fitted := imaging.Fill(src, canvasWidth, canvasHeight, imaging.Center, imaging.Lanczos)

	postDir := filepath.Join(s.imagesRoot, slug)
	if err := os.MkdirAll(postDir, 0o755); err != nil {
		return "", fmt.Errorf("create image directory: %w", err)
	}

	jpgPath := filepath.Join(postDir, role+".jpg")
	if err := imaging.Save(fitted, jpgPath, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("write %s: %w", jpgPath, err)
	}

	pngPath := filepath.Join(postDir, role+".png")
	if err := imaging.Save(fitted, pngPath); err != nil {
		return "", fmt.Errorf("write %s: %w", pngPath, err)
	}

	return fmt.Sprintf("%s/%s/%s.jpg", WebBase, slug, role), nil
}
