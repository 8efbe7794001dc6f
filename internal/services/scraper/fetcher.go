package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/socialchef/recipebook/internal/errors"
	"github.com/socialchef/recipebook/internal/httpclient"
	"github.com/socialchef/recipebook/internal/metrics"
)

// maxPageBytes bounds how much of a page body is read before normalization.
const maxPageBytes = 10 << 20

// VideoDescriber looks up the description of a video by ID.
type VideoDescriber interface {
	ShortDescription(ctx context.Context, videoID string) (string, error)
}

// Fetcher turns a URL into plain text for recipe extraction.
type Fetcher struct {
	httpClient *http.Client
	youtube    VideoDescriber
	maxChars   int
}

func NewFetcher(httpClient *http.Client, youtube VideoDescriber, maxChars int) *Fetcher {
	if httpClient == nil {
		httpClient = httpclient.New(0)
	}
	if youtube == nil {
		youtube = NewYouTubeClient(DefaultClientVersion, httpClient)
	}
	if maxChars == 0 {
		maxChars = DefaultMaxChars
	}
	return &Fetcher{
		httpClient: httpClient,
		youtube:    youtube,
		maxChars:   maxChars,
	}
}

// FetchText returns the video description for YouTube links and the
// normalized page text for everything else. Failures are FETCH_ERROR
// AppErrors and are never retried.
func (f *Fetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", apperrors.NewFetchError("Failed to fetch URL", "FETCH_EMPTY_URL", ErrEmptyURL)
	}

	if IsYouTubeURL(rawURL) {
		return f.fetchVideoDescription(ctx, rawURL)
	}
	return f.fetchPage(ctx, rawURL)
}

func (f *Fetcher) fetchVideoDescription(ctx context.Context, rawURL string) (string, error) {
	videoID, err := ExtractVideoID(rawURL)
	if err != nil {
		return "", apperrors.NewFetchError("Invalid YouTube URL: Could not extract video ID.", "FETCH_INVALID_VIDEO_ID", nil)
	}

	desc, err := f.youtube.ShortDescription(ctx, videoID)
	if err != nil {
		return "", apperrors.NewFetchError("Failed to fetch YouTube video info", "FETCH_VIDEO_FAILED", err)
	}

	slog.DebugContext(ctx, "Fetched video description", "video_id", videoID, "chars", len([]rune(desc)))
	return desc, nil
}

func (f *Fetcher) fetchPage(ctx context.Context, rawURL string) (text string, err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.RecordExternalCall(ctx, "web", outcome, start)
	}()

	req, err := http.NewRequestWithContext(httpclient.WithTarget(ctx, "web"), http.MethodGet, rawURL, nil)
	if err != nil {
		return "", apperrors.NewFetchError("Failed to fetch URL", "FETCH_BAD_URL", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", apperrors.NewFetchError("Failed to fetch URL", "FETCH_FAILED", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apperrors.NewFetchError(fmt.Sprintf("Failed to fetch URL: %s", resp.Status), "FETCH_HTTP_STATUS", nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", apperrors.NewFetchError("Failed to read response body", "FETCH_READ_FAILED", err)
	}

	return NormalizeHTML(string(body), f.maxChars), nil
}
