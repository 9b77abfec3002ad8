package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const userAgent = "gateway-manager/1.0"

// maxContentBytes caps how much block list content is read from any
// source. The largest useful list is bounded by the account quota, so
// anything bigger is a misconfigured source.
const maxContentBytes = 64 << 20

// Content is fetched block list material. URL is empty when the source
// was a local file, which tells the engine not to embed provenance
// metadata it could never refresh from.
type Content struct {
	Data []byte
	URL  string
}

// Fetcher retrieves block list content from a source location.
type Fetcher interface {
	// Fetch reads the content behind a local path, file://, http(s)://
	// or s3:// location.
	Fetch(ctx context.Context, location string) (Content, error)
}

type fetcher struct {
	cfg  Config
	http *http.Client
}

// NewFetcher creates a Fetcher based on the configuration.
func NewFetcher(cfg Config) Fetcher {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 60
	}
	return &fetcher{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

func (f *fetcher) Fetch(ctx context.Context, location string) (Content, error) {
	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		data, err := f.fetchHTTP(ctx, location)
		if err != nil {
			return Content{}, err
		}
		return Content{Data: data, URL: location}, nil
	case strings.HasPrefix(location, "s3://"):
		data, err := f.fetchS3(ctx, location)
		if err != nil {
			return Content{}, err
		}
		return Content{Data: data, URL: location}, nil
	case strings.HasPrefix(location, "file://"):
		return f.fetchFile(strings.TrimPrefix(location, "file://"))
	default:
		return f.fetchFile(location)
	}
}

func (f *fetcher) fetchFile(path string) (Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Content{}, fmt.Errorf("source: read %s: %w", path, err)
	}
	return Content{Data: data}, nil
}

func (f *fetcher) fetchHTTP(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("source: build request for %s: %w", location, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("source: fetch %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source: fetch %s: unexpected status %d", location, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxContentBytes))
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", location, err)
	}
	return data, nil
}

func (f *fetcher) fetchS3(ctx context.Context, location string) ([]byte, error) {
	u, err := url.Parse(location)
	if err != nil || u.Host == "" || u.Path == "" {
		return nil, fmt.Errorf("source: invalid s3 location %q", location)
	}
	bucket := u.Host
	object := strings.TrimPrefix(u.Path, "/")

	endpoint := strings.TrimPrefix(f.cfg.S3Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(f.cfg.S3AccessKey, f.cfg.S3SecretKey, ""),
		Secure: f.cfg.S3UseSSL,
		Region: f.cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("source: create s3 client: %w", err)
	}

	obj, err := client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("source: fetch %s: %w", location, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(io.LimitReader(obj, maxContentBytes))
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", location, err)
	}
	return data, nil
}
