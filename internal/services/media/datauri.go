package media

import (
	"encoding/base64"
	"strings"
)

const dataURIPrefix = "data:"

// IsDataURI reports whether the value is an inline-encoded payload rather
// than an already-hosted URL.
func IsDataURI(value string) bool {
	return strings.HasPrefix(strings.TrimSpace(value), dataURIPrefix)
}

// DecodeDataURI parses "data:<mime>;base64,<payload>" and returns the MIME
// type with the decoded bytes. Anything malformed is a validation error.
// A positive maxBytes rejects oversized payloads from the encoded length,
// before any decode allocation happens.
func DecodeDataURI(uri string, maxBytes int64) (string, []byte, error) {
	trimmed := strings.TrimSpace(uri)
	if !strings.HasPrefix(trimmed, dataURIPrefix) {
		return "", nil, ErrValidation
	}

	rest := trimmed[len(dataURIPrefix):]
	comma := strings.Index(rest, ",")
	if comma < 0 {
		return "", nil, ErrValidation
	}

	meta := rest[:comma]
	payload := rest[comma+1:]

	if !strings.HasSuffix(meta, ";base64") {
		return "", nil, ErrValidation
	}
	contentType := normalizeType(strings.TrimSuffix(meta, ";base64"))
	if contentType == "" {
		return "", nil, ErrValidation
	}

	// DecodedLen slightly overestimates when the payload is padded, so the
	// exact cap is still enforced on the decoded bytes by the caller.
	if maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(payload))) > maxBytes+2 {
		return "", nil, ErrTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, ErrValidation
	}
	if len(data) == 0 {
		return "", nil, ErrValidation
	}

	return contentType, data, nil
}
