package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/ports"
	"github.com/cenkalti/backoff/v5"
)

var _ ports.Downloader = (*Executor)(nil)

// Download stores req.URL as <req.Dir>/<basename>. A local file of the expected
// size is kept, a shorter one is resumed with a Range request.
func (e *Executor) Download(ctx context.Context, req domain.DownloadRequest) (domain.DownloadResult, error) {
	name, err := basename(req.URL)
	if err != nil {
		return domain.DownloadResult{}, &domain.OpError{Op: "httpclient.download", Kind: domain.KindInvalidConfig, Err: err}
	}
	dst := filepath.Join(req.Dir, name)

	if err := os.MkdirAll(req.Dir, 0o755); err != nil {
		return domain.DownloadResult{}, &domain.OpError{Op: "httpclient.download", Kind: domain.KindExecution, Path: req.Dir, Err: err}
	}

	size := req.Size
	if size <= 0 {
		size, err = e.contentLength(ctx, req.URL)
		if err != nil {
			return domain.DownloadResult{}, err
		}
	}

	res, err := retry(ctx, e, "httpclient.download", func() (domain.DownloadResult, error) {
		return e.downloadOnce(ctx, req, dst, size)
	})
	if err != nil {
		if oe := (*domain.OpError)(nil); errors.As(err, &oe) && oe.Path == "" {
			oe.Path = dst
		}
		return domain.DownloadResult{}, err
	}

	e.log.Debug("http.download", "url", req.URL, "path", dst, "bytes", res.Bytes, "skipped", res.Skipped, "resumed", res.Resumed)
	return res, nil
}

func (e *Executor) downloadOnce(ctx context.Context, req domain.DownloadRequest, dst string, size int64) (domain.DownloadResult, error) {
	res := domain.DownloadResult{Path: dst}

	var have int64
	if info, err := os.Stat(dst); err == nil {
		have = info.Size()
	}
	if size > 0 && have == size {
		res.Skipped = true
		res.Bytes = have
		return res, nil
	}
	if size > 0 && have > size {
		have = 0
	}

	header := http.Header{}
	if have > 0 {
		header.Set("Range", "bytes="+strconv.FormatInt(have, 10)+"-")
	}

	resp, err := e.send(ctx, http.MethodGet, req.URL, header)
	if err != nil {
		return res, err
	}
	defer resp.Body.Close()

	flags := os.O_CREATE | os.O_WRONLY
	switch {
	case resp.StatusCode == http.StatusRequestedRangeNotSatisfiable && have > 0:
		drain(resp)
		if size <= 0 {
			res.Skipped = true
			res.Bytes = have
			return res, nil
		}
		// The server rejects an offset short of the expected size; start over.
		if err := os.Truncate(dst, 0); err != nil {
			return res, backoff.Permanent(err)
		}
		return e.downloadOnce(ctx, req, dst, size)
	case resp.StatusCode == http.StatusPartialContent && have > 0:
		flags |= os.O_APPEND
		res.Resumed = true
	case resp.StatusCode == http.StatusOK:
		flags |= os.O_TRUNC
		have = 0
	default:
		return res, backoff.Permanent(&statusError{Method: http.MethodGet, URL: req.URL, Status: resp.StatusCode})
	}

	total := size
	if total <= 0 && resp.ContentLength > 0 {
		total = have + resp.ContentLength
	}

	f, err := os.OpenFile(dst, flags, 0o644)
	if err != nil {
		return res, backoff.Permanent(err)
	}

	body := io.Reader(resp.Body)
	if req.Progress != nil {
		req.Progress(have, total)
		body = &progressReader{r: resp.Body, done: have, total: total, fn: req.Progress}
	}

	n, copyErr := io.Copy(f, body)
	closeErr := f.Close()
	if copyErr != nil {
		// Keep the partial file; the next attempt resumes it.
		return res, copyErr
	}
	if closeErr != nil {
		return res, backoff.Permanent(closeErr)
	}

	res.Bytes = have + n
	if size > 0 && res.Bytes != size {
		return res, fmt.Errorf("short download of %s: got %d of %d bytes", req.URL, res.Bytes, size)
	}
	if req.Progress != nil && total <= 0 {
		req.Progress(res.Bytes, res.Bytes)
	}
	return res, nil
}

// contentLength asks the server for the size of url; 0 means unknown.
func (e *Executor) contentLength(ctx context.Context, rawURL string) (int64, error) {
	return retry(ctx, e, "httpclient.head", func() (int64, error) {
		hctx, cancel := e.withTimeout(ctx)
		defer cancel()

		resp, err := e.send(hctx, http.MethodHead, rawURL, nil)
		if err != nil {
			return 0, err
		}
		drain(resp)
		if resp.StatusCode >= 400 {
			return 0, backoff.Permanent(&statusError{Method: http.MethodHead, URL: rawURL, Status: resp.StatusCode})
		}
		if resp.ContentLength < 0 {
			return 0, nil
		}
		return resp.ContentLength, nil
	})
}

func (e *Executor) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout > 0 {
		return context.WithTimeout(ctx, e.timeout)
	}
	return ctx, func() {}
}

func basename(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("url %q has no file name: %w", rawURL, domain.ErrInvalidConfig)
	}
	return name, nil
}

type progressReader struct {
	r     io.Reader
	done  int64
	total int64
	fn    func(done, total int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.done += int64(n)
		p.fn(p.done, p.total)
	}
	return n, err
}
