package httpclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// StatusError reports a non-2xx answer from the remote server.
type StatusError struct {
	URL        string
	StatusCode int
	Snippet    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned status %d body: %s", e.URL, e.StatusCode, e.Snippet)
}

// Fetch performs a GET and returns the body of a 2xx response.
// Transport errors are returned as-is; other statuses become *StatusError.
func Fetch(ctx context.Context, client Client, url string, headers map[string]string) ([]byte, error) {
	if client == nil {
		return nil, errors.New("http client is nil")
	}

	resp, err := client.Get(ctx, url, headers)
	if err != nil {
		return nil, err
	}

	body := resp.Body()
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, &StatusError{URL: url, StatusCode: code, Snippet: responseSnippet(body)}
	}
	return body, nil
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
