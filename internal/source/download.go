package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ChunkSize is the size of each write to the destination file.
const ChunkSize = 64 << 10

// HTTPClient is the interface for HTTP operations.
// *http.Client satisfies this interface.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Download streams url into w, reporting progress against Content-Length.
// Non-2xx responses and transport failures return a *RequestError.
// It returns the number of bytes written.
func Download(ctx context.Context, client HTTPClient, url string, w io.Writer, desc string, p Progress) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, &RequestError{URL: url, Err: err}
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, &RequestError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &RequestError{URL: url, StatusCode: resp.StatusCode}
	}

	// ContentLength is -1 when the header is absent.
	total := resp.ContentLength
	if total < 0 {
		total = 0
	}

	n, err := copyChunks(ctx, w, resp.Body, desc, total, p)
	if err != nil {
		var wErr *writeError
		if errors.As(err, &wErr) {
			return n, err
		}
		return n, &RequestError{URL: url, Err: err}
	}

	return n, nil
}

// writeError marks a failure on the destination side of a copy.
type writeError struct {
	err error
}

func (e *writeError) Error() string { return "writing model file: " + e.err.Error() }
func (e *writeError) Unwrap() error { return e.err }

// copyChunks copies src into dst in ChunkSize pieces, updating p after each write.
func copyChunks(ctx context.Context, dst io.Writer, src io.Reader, desc string, total int64, p Progress) (int64, error) {
	if p == nil {
		p = NopProgress{}
	}

	p.Start(desc, total)
	defer p.Done()

	buf := make([]byte, ChunkSize)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		nr, rerr := src.Read(buf)
		if nr > 0 {
			nw, werr := dst.Write(buf[:nr])
			written += int64(nw)
			p.Add(nw)
			if werr != nil {
				return written, &writeError{err: werr}
			}
			if nw != nr {
				return written, &writeError{err: io.ErrShortWrite}
			}
		}

		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, fmt.Errorf("reading body: %w", rerr)
		}
	}
}
