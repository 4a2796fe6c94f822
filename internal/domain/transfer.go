package domain

// Asset is a downloadable release asset.
type Asset struct {
	Name        string
	Size        int64
	DownloadURL string
	Release     string
}

// DownloadRequest asks for URL to be stored under Dir using the URL basename.
// A zero Size means the size is discovered from the server.
type DownloadRequest struct {
	URL  string
	Dir  string
	Size int64

	// Progress, when set, is called with transferred bytes and the expected total.
	Progress func(done, total int64)
}

// DownloadResult reports where a file landed and whether transfer was needed.
type DownloadResult struct {
	Path    string
	Bytes   int64
	Skipped bool
	Resumed bool
}

// FetchedFile is a small in-memory download (icons).
type FetchedFile struct {
	URL         string
	ContentType string
	Body        []byte
}
