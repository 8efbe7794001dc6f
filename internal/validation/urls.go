package validation

import (
	"fmt"
	"net/url"
	"strings"

	apperrors "github.com/socialchef/recipebook/internal/errors"
)

// MaxImportURLs caps a single background import.
const MaxImportURLs = 100

// CleanURLList trims entries, drops blanks and rejects anything that is not
// an absolute http(s) URL. Order is preserved.
func CleanURLList(urls []string) ([]string, error) {
	cleaned := make([]string, 0, len(urls))
	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, apperrors.NewValidationError(fmt.Sprintf("Invalid URL: %s", raw), "INVALID_URL", "")
		}
		cleaned = append(cleaned, raw)
	}

	if len(cleaned) == 0 {
		return nil, apperrors.NewValidationError("userId and urls are required", "URLS_REQUIRED", "")
	}
	if len(cleaned) > MaxImportURLs {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("Too many URLs (max %d).", MaxImportURLs),
			"TOO_MANY_URLS",
			"Split the list into smaller imports.",
		)
	}
	return cleaned, nil
}
