package azopenai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

func (c *Client) postJSON(ctx context.Context, operation, url string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}

	c.logOutbound(operation, url, body)

	call := func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create %s request: %w", operation, err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("api-key", c.opts.APIKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%s request: %w", operation, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			return newHTTPStatusError(operation, resp)
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", operation, err)
		}
		return nil
	}

	err = c.executor.Execute(ctx, operation, call)
	return translateError(operation, err)
}

// logOutbound records the outbound target and payload at debug level. The
// grounded payload embeds the search index key, so it is redacted before
// the body reaches the log.
func (c *Client) logOutbound(operation, url string, body []byte) {
	if !c.opts.LogPayloads {
		return
	}
	redacted := body
	if c.opts.SearchKey != "" {
		redacted = bytes.ReplaceAll(body, []byte(c.opts.SearchKey), []byte("[redacted]"))
	}
	slog.Debug("upstream_request",
		"operation", operation,
		"url", url,
		"payload", string(redacted),
	)
}

type httpStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Message    string
}

func (e *httpStatusError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("%s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("%s status: %s: %s", e.Operation, e.Status, e.Message)
}

func newHTTPStatusError(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	message := strings.TrimSpace(string(body))

	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Error.Message != "" {
		message = parsed.Error.Message
	}

	return &httpStatusError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Message:    message,
	}
}
