package formatting

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// ErrParseFailed is returned when a payload cannot be decoded as JSON,
// either directly or from a markdown code fence.
var ErrParseFailed = errors.New("failed to parse response")

var jsonBlockRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

const maxErrorExcerpt = 120

var utf8BOM = []byte("\xef\xbb\xbf")

// Parse decodes a JSON payload into T.
// Payloads wrapped in a markdown code fence are unwrapped and retried.
// Returns ErrParseFailed with a truncated excerpt of the payload on failure.
func Parse[T any](data []byte) (T, error) {
	var result T
	data = bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))

	if err := json.Unmarshal(data, &result); err == nil {
		return result, nil
	}

	if matches := jsonBlockRegex.FindSubmatch(data); len(matches) >= 2 {
		if err := json.Unmarshal(bytes.TrimSpace(matches[1]), &result); err == nil {
			return result, nil
		}
	}

	return result, fmt.Errorf("%w: %s", ErrParseFailed, excerpt(data))
}

func excerpt(data []byte) string {
	if len(data) <= maxErrorExcerpt {
		return string(data)
	}
	return string(data[:maxErrorExcerpt]) + "..."
}
