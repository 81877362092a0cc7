package blob

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Container is a client for one pre-signed blob container. It is constructed
// from the container's signed URL (base URL plus SAS token as the query
// string) and performs plain HTTP PUT/DELETE/GET against object URLs.
type Container struct {
	base       string // https://host/container, no trailing slash
	sas        string // raw SAS query string, no leading "?"
	httpClient *http.Client
}

// NewContainer splits a signed container URL into its base URL and SAS token.
func NewContainer(signedURL string) (*Container, error) {
	signedURL = strings.TrimSpace(signedURL)
	if signedURL == "" {
		return nil, fmt.Errorf("signed container URL is empty")
	}

	base, sas, ok := strings.Cut(signedURL, "?")
	if !ok || sas == "" {
		return nil, fmt.Errorf("signed container URL has no SAS token")
	}

	return &Container{
		base: strings.TrimSuffix(base, "/"),
		sas:  sas,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// URL returns the unsigned URL of an object in this container.
func (c *Container) URL(objectName string) string {
	return c.base + "/" + objectName
}

// WithSAS appends the container's SAS token to a bare object URL for read
// access. URLs that already carry a query string are returned unchanged.
func (c *Container) WithSAS(objectURL string) string {
	if strings.Contains(objectURL, "?") {
		return objectURL
	}
	return objectURL + "?" + c.sas
}

// Upload resolves the payload to bytes and a content type, then PUTs it as a
// block blob under objectName. The returned URL does not carry the SAS token.
func (c *Container) Upload(ctx context.Context, payload Payload, objectName string) (string, error) {
	data, contentType, err := c.resolve(ctx, payload)
	if err != nil {
		return "", err
	}

	putURL := c.URL(objectName) + "?" + c.sas
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, putURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("x-ms-blob-type", "BlockBlob")
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return "", &UploadError{Status: resp.StatusCode, Body: string(body)}
	}

	return c.URL(objectName), nil
}

// Delete removes an object by its URL, appending the SAS token when the URL
// does not already carry query parameters. Missing objects (404) are treated
// as deleted.
func (c *Container) Delete(ctx context.Context, objectURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.WithSAS(objectURL), nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete %s: %w", objectURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &UploadError{Status: resp.StatusCode, Body: string(body)}
	}

	return nil
}

// Owns reports whether an object URL points into this container.
func (c *Container) Owns(objectURL string) bool {
	return strings.HasPrefix(objectURL, c.base+"/")
}

func (c *Container) resolve(ctx context.Context, p Payload) ([]byte, string, error) {
	switch p.Kind {
	case KindDataURL:
		return decodeDataURL(p.Value)

	case KindBase64:
		data, err := base64.StdEncoding.DecodeString(p.Value)
		if err != nil {
			return nil, "", fmt.Errorf("decode base64 payload: %w", err)
		}
		return data, "application/octet-stream", nil

	case KindURI:
		return c.fetch(ctx, p.Value)

	default:
		return nil, "", fmt.Errorf("unknown payload kind %q", p.Kind)
	}
}

func (c *Container) fetch(ctx context.Context, uri string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, "", &FetchError{URL: uri, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", &FetchError{URL: uri, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &FetchError{URL: uri, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &FetchError{URL: uri, Err: err}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}

func decodeDataURL(s string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, "", fmt.Errorf("not a data URL")
	}

	meta, encoded, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URL: no payload")
	}

	contentType, _, _ := strings.Cut(meta, ";")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, "", fmt.Errorf("data URL is not base64 encoded")
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("decode data URL payload: %w", err)
	}
	return data, contentType, nil
}
