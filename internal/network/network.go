package network

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tilbuda/go-shoplist-sdk/internal/logger"
	"github.com/tilbuda/go-shoplist-sdk/models"
)

// Response is the raw transport outcome before the dispatcher classifies it.
type Response struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// Network performs a single prepared HTTP exchange. Implementations must be
// safe for concurrent use by multiple dispatchers.
type Network interface {
	Perform(method, path string, query url.Values, headers map[string]string, body any) (Response, error)
}

type httpNetwork struct {
	client *resty.Client
	logger *logger.Logger
}

// NewHTTPNetwork builds the resty-backed transport. baseURL must carry a
// scheme and host; a bare host:port is assumed to be https.
func NewHTTPNetwork(baseURL string, timeout time.Duration, log *logger.Logger) (Network, error) {
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}

	client := resty.New().
		SetBaseURL(normalized).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &httpNetwork{client: client, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Perform implements [Network]. It never interprets the status code: the
// dispatcher owns classification. The error return covers transport-level
// failures only (DNS, connect, timeout).
func (h *httpNetwork) Perform(method, path string, query url.Values, headers map[string]string, body any) (Response, error) {
	req := h.client.R().SetHeaders(headers)

	for k, vs := range query {
		for _, v := range vs {
			req.SetQueryParam(k, v)
		}
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		h.logger.Debug().
			Str("method", method).
			Str("path", path).
			Dur("elapsed", time.Since(start)).
			Err(err).
			Msg("transport failure")
		return Response{}, err
	}

	h.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode()).
		Dur("elapsed", time.Since(start)).
		Msg("request performed")

	return Response{
		Status:  resp.StatusCode(),
		Headers: resp.Header(),
		Body:    resp.Body(),
	}, nil
}

// DecodeServerError exposes the dispatcher's error classification to callers
// that talk to the transport directly (the session manager).
func DecodeServerError(resp Response) error {
	return parseServerError(resp)
}

// parseServerError extracts the structured error payload from a non-2xx body.
// Bodies that are not the documented error shape degrade to a synthetic
// ServerError carrying the HTTP status so callers still get a code to branch
// on.
func parseServerError(resp Response) *models.ServerError {
	var serr models.ServerError
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &serr); err == nil && serr.Code != 0 {
			return &serr
		}
	}
	return &models.ServerError{
		Code:    resp.Status,
		Message: http.StatusText(resp.Status),
	}
}
