package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/socialchef/recipebook/internal/httpclient"
	"github.com/socialchef/recipebook/internal/metrics"
)

const defaultPlayerURL = "https://www.youtube.com/youtubei/v1/player"

// DefaultClientVersion is the WEB client version sent when none is configured.
// The player endpoint rejects requests without one.
const DefaultClientVersion = "2.20240313.05.00"

var (
	youtubeURLPattern = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be)/.+$`)

	// Tried in order; the first capture wins.
	videoIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:v=|/)([a-zA-Z0-9_-]{11})`),
		regexp.MustCompile(`^([a-zA-Z0-9_-]{11})$`),
	}
)

// IsYouTubeURL reports whether u points at youtube.com or youtu.be.
func IsYouTubeURL(u string) bool {
	return youtubeURLPattern.MatchString(u)
}

// ExtractVideoID pulls the 11 character video ID out of a watch URL, a short
// link, or a bare ID.
func ExtractVideoID(u string) (string, error) {
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(u); len(m) > 1 && m[1] != "" {
			return m[1], nil
		}
	}
	return "", ErrInvalidVideoID
}

type playerRequest struct {
	VideoID        string        `json:"videoId"`
	Context        playerContext `json:"context"`
	RacyCheckOk    bool          `json:"racyCheckOk"`
	ContentCheckOk bool          `json:"contentCheckOk"`
}

type playerContext struct {
	Client playerClient `json:"client"`
}

type playerClient struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	Hl            string `json:"hl,omitempty"`
	Gl            string `json:"gl,omitempty"`
}

type playerResponse struct {
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	VideoDetails *struct {
		VideoID          string `json:"videoId"`
		Title            string `json:"title"`
		ShortDescription string `json:"shortDescription"`
	} `json:"videoDetails"`
}

// YouTubeClient reads video metadata from the Innertube player endpoint.
type YouTubeClient struct {
	playerURL     string
	clientVersion string
	httpClient    *http.Client
}

func NewYouTubeClient(clientVersion string, httpClient *http.Client) *YouTubeClient {
	if httpClient == nil {
		httpClient = httpclient.New(0)
	}
	if clientVersion == "" {
		clientVersion = DefaultClientVersion
	}
	return &YouTubeClient{
		playerURL:     defaultPlayerURL,
		clientVersion: clientVersion,
		httpClient:    httpClient,
	}
}

// ShortDescription returns the video's description, or "" when it has none.
func (c *YouTubeClient) ShortDescription(ctx context.Context, videoID string) (desc string, err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.RecordExternalCall(ctx, "youtube", outcome, start)
	}()

	body, err := json.Marshal(playerRequest{
		VideoID: videoID,
		Context: playerContext{Client: playerClient{
			ClientName:    "WEB",
			ClientVersion: c.clientVersion,
			Hl:            "ja",
			Gl:            "JP",
		}},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(httpclient.WithTarget(ctx, "youtube"), http.MethodPost, c.playerURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrVideoNotFound
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("innertube player returned %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var player playerResponse
	if err := json.Unmarshal(data, &player); err != nil {
		return "", fmt.Errorf("failed to parse player response: %w", err)
	}

	if player.VideoDetails == nil {
		if ps := player.PlayabilityStatus; ps != nil && ps.Status == "ERROR" {
			return "", fmt.Errorf("%w: %s", ErrVideoNotFound, ps.Reason)
		}
		return "", nil
	}
	return player.VideoDetails.ShortDescription, nil
}
