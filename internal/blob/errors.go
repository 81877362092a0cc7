package blob

import "fmt"

// UploadError is a non-2xx response from the blob store on upload or delete.
type UploadError struct {
	Status int
	Body   string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("blob store returned status %d: %s", e.Status, e.Body)
}

// FetchError is a failure dereferencing a source URI before upload.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
