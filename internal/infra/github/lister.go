// Package github lists release assets through the GitHub REST API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/ports"
	gh "github.com/google/go-github/v66/github"
)

const perPage = 100

type Lister struct {
	client *gh.Client
}

var _ ports.ReleaseLister = (*Lister)(nil)

// NewLister authenticates every request with token.
func NewLister(hc *http.Client, token string) *Lister {
	c := gh.NewClient(hc)
	if token != "" {
		c = c.WithAuthToken(token)
	}
	return &Lister{client: c}
}

// WithBaseURL points the client at another API endpoint (GitHub Enterprise or tests).
func (l *Lister) WithBaseURL(raw string) (*Lister, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	l.client.BaseURL = u
	return l, nil
}

// ListAssets walks every release page and flattens the assets, newest release first.
func (l *Lister) ListAssets(ctx context.Context, repo domain.GitHubRepo) ([]domain.Asset, error) {
	opts := &gh.ListOptions{PerPage: perPage}

	var out []domain.Asset
	for {
		releases, resp, err := l.client.Repositories.ListReleases(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			return nil, remoteErr(repo, err)
		}

		for _, rel := range releases {
			for _, a := range rel.Assets {
				out = append(out, domain.Asset{
					Name:        a.GetName(),
					Size:        int64(a.GetSize()),
					DownloadURL: a.GetBrowserDownloadURL(),
					Release:     rel.GetTagName(),
				})
			}
		}

		if resp == nil || resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

func remoteErr(repo domain.GitHubRepo, err error) error {
	kind := domain.KindRemote
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		kind = domain.KindExecution
	}

	var rle *gh.RateLimitError
	if errors.As(err, &rle) {
		err = fmt.Errorf("rate limited until %s: %w", rle.Rate.Reset.Time.UTC().Format("15:04:05"), err)
	}

	return &domain.OpError{
		Op:   "github.list_releases",
		Kind: kind,
		Path: repo.String(),
		Err:  fmt.Errorf("%w: %w", domain.ErrRemote, err),
	}
}
