package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrUnsupportedFile is returned for upload extensions outside the
	// accepted document set.
	ErrUnsupportedFile = errors.New("unsupported file format")

	// ErrPageNotFound is returned when the keyword has no Wikipedia page.
	ErrPageNotFound = errors.New("wikipedia page not found for keyword")
)

var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".txt":  {},
	".docx": {},
	".md":   {},
}

const wikipediaSummaryURL = "https://en.wikipedia.org/api/rest_v1/page/summary/"

// Acquirer obtains the learning-material reference handed to the quiz
// request builder: an uploaded document path, a Wikipedia page URL, or a
// raw search keyword passed through unchanged.
type Acquirer struct {
	uploadDir  string
	wikiURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewAcquirer(uploadDir string, logger *slog.Logger) *Acquirer {
	return &Acquirer{
		uploadDir:  uploadDir,
		wikiURL:    wikipediaSummaryURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// SaveUpload writes an uploaded document under the upload directory and
// returns its path as the material reference.
func (a *Acquirer) SaveUpload(file multipart.File, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
	}

	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	// Strip any client-supplied path components
	path := filepath.Join(a.uploadDir, filepath.Base(filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	a.logger.Info("Saved uploaded material", "path", path)
	return path, nil
}

// WikipediaURL resolves a keyword to the canonical page URL via the
// Wikipedia REST summary endpoint.
func (a *Acquirer) WikipediaURL(ctx context.Context, keyword string) (string, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return "", ErrPageNotFound
	}

	endpoint := a.wikiURL + url.PathEscape(strings.ReplaceAll(keyword, " ", "_"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build wikipedia request: %w", err)
	}
	req.Header.Set("User-Agent", "quizbot-service (merlin@example.com)")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("wikipedia lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrPageNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wikipedia lookup returned status %d", resp.StatusCode)
	}

	var summary struct {
		ContentURLs struct {
			Desktop struct {
				Page string `json:"page"`
			} `json:"desktop"`
		} `json:"content_urls"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return "", fmt.Errorf("failed to decode wikipedia response: %w", err)
	}
	if summary.ContentURLs.Desktop.Page == "" {
		return "", ErrPageNotFound
	}
	return summary.ContentURLs.Desktop.Page, nil
}
