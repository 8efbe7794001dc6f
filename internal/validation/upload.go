package validation

import (
	"fmt"
	"mime"
	"net/http"
	"strings"

	apperrors "github.com/socialchef/recipebook/internal/errors"
)

// supportedMIMETypes lists the non-image types the classifier accepts.
var supportedMIMETypes = map[string]bool{
	"application/pdf": true,
}

// DetectMIMEType returns the declared part type without parameters, falling
// back to content sniffing when the client sent none or a generic one.
func DetectMIMEType(declared string, data []byte) string {
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil && mediaType != "application/octet-stream" {
		return mediaType
	}
	sniffed, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return sniffed
}

// CheckUpload validates an uploaded file before it is sent for analysis.
func CheckUpload(data []byte, mimeType string, maxBytes int64) error {
	if len(data) == 0 {
		return apperrors.NewValidationError("Uploaded file is empty.", "UPLOAD_EMPTY", "Select a non-empty image or PDF.")
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return apperrors.NewValidationError(
			fmt.Sprintf("Uploaded file is too large (max %d MB).", maxBytes>>20),
			"UPLOAD_TOO_LARGE",
			"Upload a smaller file.",
		)
	}
	if !strings.HasPrefix(mimeType, "image/") && !supportedMIMETypes[mimeType] {
		return apperrors.NewValidationError(
			fmt.Sprintf("Unsupported file type: %s", mimeType),
			"UPLOAD_UNSUPPORTED_TYPE",
			"Upload an image or a PDF.",
		)
	}
	return nil
}
