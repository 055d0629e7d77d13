package source

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingProgress captures progress callbacks.
type recordingProgress struct {
	desc    string
	total   int64
	added   int64
	adds    int
	started int
	done    int
}

func (p *recordingProgress) Start(desc string, total int64) {
	p.desc = desc
	p.total = total
	p.started++
}

func (p *recordingProgress) Add(n int) {
	p.added += int64(n)
	p.adds++
}

func (p *recordingProgress) Done() { p.done++ }

func TestDownload_WritesFullBody(t *testing.T) {
	body := bytes.Repeat([]byte("nequip"), 50_000) // spans several chunks
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Write(body)
	}))
	defer srv.Close()

	var dst bytes.Buffer
	p := &recordingProgress{}
	n, err := Download(context.Background(), srv.Client(), srv.URL, &dst, "Downloading", p)
	require.NoError(t, err)

	assert.Equal(t, int64(len(body)), n)
	assert.Equal(t, body, dst.Bytes())
	assert.Equal(t, "Downloading", p.desc)
	assert.Equal(t, int64(len(body)), p.total)
	assert.Equal(t, int64(len(body)), p.added)
	assert.Greater(t, p.adds, 1)
	assert.Equal(t, 1, p.started)
	assert.Equal(t, 1, p.done)
}

func TestDownload_UnknownLength(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Write([]byte("part-one"))
		flusher.Flush() // forces chunked encoding, no Content-Length
		w.Write([]byte("part-two"))
	}))
	defer srv.Close()

	var dst bytes.Buffer
	p := &recordingProgress{}
	n, err := Download(context.Background(), srv.Client(), srv.URL, &dst, "Downloading", p)
	require.NoError(t, err)

	assert.Equal(t, int64(16), n)
	assert.Equal(t, "part-onepart-two", dst.String())
	assert.Zero(t, p.total)
}

func TestDownload_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	var dst bytes.Buffer
	_, err := Download(context.Background(), srv.Client(), srv.URL+"/m.nequip.zip", &dst, "Downloading", nil)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusNotFound, reqErr.StatusCode)
	assert.Equal(t, srv.URL+"/m.nequip.zip", reqErr.URL)
	assert.Zero(t, dst.Len())
}

type errClient struct{ err error }

func (c errClient) Do(*http.Request) (*http.Response, error) { return nil, c.err }

func TestDownload_TransportError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	_, err := Download(context.Background(), errClient{err: cause}, "http://unreachable/m.pt", &bytes.Buffer{}, "Downloading", nil)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Zero(t, reqErr.StatusCode)
	assert.ErrorIs(t, err, cause)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestDownload_WriteErrorIsNotRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	_, err := Download(context.Background(), srv.Client(), srv.URL, failingWriter{}, "Downloading", nil)
	require.Error(t, err)

	var reqErr *RequestError
	assert.False(t, errors.As(err, &reqErr))
	assert.ErrorContains(t, err, "disk full")
}

func TestRequestError_Message(t *testing.T) {
	assert.Equal(t, "request to http://x failed: status 503",
		(&RequestError{URL: "http://x", StatusCode: 503}).Error())
	assert.Equal(t, "request to http://x failed: boom",
		(&RequestError{URL: "http://x", Err: errors.New("boom")}).Error())
}
