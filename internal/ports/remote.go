package ports

import (
	"context"

	"github.com/Lessica/lessica.github.io/internal/domain"
)

// ReleaseLister lists downloadable assets published as releases of a repository.
type ReleaseLister interface {
	ListAssets(ctx context.Context, repo domain.GitHubRepo) ([]domain.Asset, error)
}

// Downloader stores remote files on disk, skipping or resuming partial files.
type Downloader interface {
	Download(ctx context.Context, req domain.DownloadRequest) (domain.DownloadResult, error)
}

// Fetcher retrieves small remote files into memory.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (domain.FetchedFile, error)
}
