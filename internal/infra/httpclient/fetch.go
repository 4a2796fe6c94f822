package httpclient

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/ports"
	"github.com/cenkalti/backoff/v5"
	"github.com/gabriel-vasile/mimetype"
)

var _ ports.Fetcher = (*Executor)(nil)

// maxFetchBytes caps in-memory fetches.
const maxFetchBytes = 32 << 20

// Fetch reads a small resource into memory. When the server omits a specific
// content type, it is sniffed from the body.
func (e *Executor) Fetch(ctx context.Context, rawURL string) (domain.FetchedFile, error) {
	return retry(ctx, e, "httpclient.fetch", func() (domain.FetchedFile, error) {
		fctx, cancel := e.withTimeout(ctx)
		defer cancel()

		resp, err := e.send(fctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return domain.FetchedFile{}, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return domain.FetchedFile{}, backoff.Permanent(&statusError{Method: http.MethodGet, URL: rawURL, Status: resp.StatusCode})
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxFetch+1))
		if err != nil {
			return domain.FetchedFile{}, err
		}
		if int64(len(body)) > e.maxFetch {
			return domain.FetchedFile{}, backoff.Permanent(fmt.Errorf("%s exceeds %d bytes", rawURL, e.maxFetch))
		}

		return domain.FetchedFile{
			URL:         rawURL,
			ContentType: contentType(resp.Header.Get("Content-Type"), body),
			Body:        body,
		}, nil
	})
}

func contentType(header string, body []byte) string {
	mt, _, err := mime.ParseMediaType(header)
	if err == nil && !generic(mt) {
		return strings.ToLower(mt)
	}
	mt, _, _ = mime.ParseMediaType(mimetype.Detect(body).String())
	return mt
}

func generic(mt string) bool {
	switch strings.ToLower(mt) {
	case "", "application/octet-stream", "binary/octet-stream", "text/plain":
		return true
	}
	return false
}
