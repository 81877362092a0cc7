package blob

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
)

type listResponse struct {
	Blobs struct {
		Blob []struct {
			Name string `xml:"Name"`
		} `xml:"Blob"`
	} `xml:"Blobs"`
	NextMarker string `xml:"NextMarker"`
}

// List enumerates the object names in the container, following continuation
// markers until the listing is exhausted.
func (c *Container) List(ctx context.Context) ([]string, error) {
	var names []string
	marker := ""

	for {
		listURL := c.base + "?restype=container&comp=list&" + c.sas
		if marker != "" {
			listURL += "&marker=" + marker
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build list request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("list container: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read list response: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &UploadError{Status: resp.StatusCode, Body: string(body)}
		}

		var page listResponse
		if err := xml.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decode list response: %w", err)
		}

		for _, b := range page.Blobs.Blob {
			names = append(names, b.Name)
		}

		if page.NextMarker == "" {
			return names, nil
		}
		marker = page.NextMarker
	}
}
