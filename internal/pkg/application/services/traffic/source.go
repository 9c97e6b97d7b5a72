package trafficsvc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Source is the backing store of the traffic table.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	String() string
}

// NewSource returns an HTTP source for http(s) locations and a file source for
// anything else.
func NewSource(location string) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPSource(location)
	}
	return NewFileSource(location)
}

type fileSource struct {
	path string
}

func NewFileSource(path string) Source {
	return &fileSource{path: path}
}

func (fs *fileSource) Fetch(ctx context.Context) ([]byte, error) {
	b, err := os.ReadFile(fs.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, err.Error())
	}
	return b, nil
}

func (fs *fileSource) String() string {
	return fs.path
}

var httpClient = http.Client{
	Transport: otelhttp.NewTransport(http.DefaultTransport),
	Timeout:   10 * time.Second,
}

type httpSource struct {
	url string
}

func NewHTTPSource(url string) Source {
	return &httpSource{url: url}
}

func (hs *httpSource) Fetch(ctx context.Context) ([]byte, error) {
	var err error

	ctx, span := tracer.Start(ctx, "get-traffic-data")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hs.url, nil)
	if err != nil {
		err = fmt.Errorf("%w: failed to create http request: %s", ErrDataUnavailable, err.Error())
		return nil, err
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("%w: failed to retrieve traffic data: %s", ErrDataUnavailable, err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("%w: expected status code %d, but got %d", ErrDataUnavailable, http.StatusOK, resp.StatusCode)
		return nil, err
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("%w: failed to read response body: %s", ErrDataUnavailable, err.Error())
		return nil, err
	}

	return b, nil
}

func (hs *httpSource) String() string {
	return hs.url
}
