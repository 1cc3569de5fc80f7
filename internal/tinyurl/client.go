package tinyurl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"
)

// DefaultEndpoint is TinyURL's public creation API. The long URL is appended
// as the value of the trailing query parameter.
const DefaultEndpoint = "https://tinyurl.com/api-create.php?url="

// maxBodySize bounds how much of a response is read as the short URL.
const maxBodySize = 64 << 10

// Result is the single outcome of an asynchronous shorten request.
type Result struct {
	ShortURL string
	Err      error
}

// Client turns long URLs into short ones with one GET per request.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a client for endpoint. A nil httpClient uses a plain
// http.Client with no timeout of its own; callers bound requests with ctx.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

// Shorten asks the service for a short URL. The response body is returned as is,
// whatever the status: the service answers with either the short link or an error
// text and the two are not told apart here. Only an empty body is an error.
func (c *Client) Shorten(ctx context.Context, longURL string) (string, error) {
	requestURL, err := c.requestURL(longURL)
	if err != nil {
		return "", &Error{Kind: KindInvalidURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", &Error{Kind: KindInvalidURL, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Kind: KindUnknownServerError, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", &Error{Kind: KindUnknownServerError, Err: err}
	}

	if !utf8.Valid(body) {
		return "", &Error{Kind: KindUnknownServerError, Err: errors.New("response is not valid utf-8")}
	}

	if len(body) == 0 {
		return "", ErrNoURLAvailable
	}

	return string(body), nil
}

// ShortenAsync runs Shorten in the background. The returned channel yields
// exactly one Result and is then closed.
func (c *Client) ShortenAsync(ctx context.Context, longURL string) <-chan Result {
	results := make(chan Result, 1)

	go func() {
		defer close(results)

		shortURL, err := c.Shorten(ctx, longURL)
		results <- Result{ShortURL: shortURL, Err: err}
	}()

	return results
}

// requestURL sends longURL exactly as given; callers normalize it beforehand.
func (c *Client) requestURL(longURL string) (string, error) {
	if strings.TrimSpace(longURL) == "" {
		return "", errors.New("url is required")
	}

	if _, err := url.Parse(longURL); err != nil {
		return "", err
	}

	raw := c.endpoint + url.QueryEscape(longURL)

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	if !parsed.IsAbs() || parsed.Host == "" {
		return "", fmt.Errorf("request url %q is not absolute", raw)
	}

	return raw, nil
}
