package utils

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// ParseDataURL splits a data URL ("data:image/png;base64,...") into its MIME
// type and decoded bytes. Only base64-encoded image payloads are accepted.
func ParseDataURL(dataURL string) (string, []byte, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return "", nil, fmt.Errorf("not a data URL")
	}

	header, payload, found := strings.Cut(dataURL[len("data:"):], ",")
	if !found {
		return "", nil, fmt.Errorf("malformed data URL: missing payload")
	}

	mimeType, encoding, _ := strings.Cut(header, ";")
	if encoding != "base64" {
		return "", nil, fmt.Errorf("unsupported data URL encoding %q", encoding)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return "", nil, fmt.Errorf("unsupported data URL type %q", mimeType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode data URL payload: %w", err)
	}

	return mimeType, data, nil
}

// EncodeDataURL wraps raw image bytes into a data URL.
func EncodeDataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
