// Package datasource abstracts where the call-response file comes from.
package datasource

import (
	"context"
	"fmt"
	"io"

	"github.com/zeebo/xxh3"
)

// Source opens the raw bytes of an input file.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Fingerprint streams the content of src through xxh3. Two sources with the
// same bytes have the same fingerprint.
func Fingerprint(ctx context.Context, src Source) (uint64, int64, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer rc.Close()

	h := xxh3.New()
	n, err := io.Copy(h, rc)
	if err != nil {
		return 0, n, fmt.Errorf("fingerprint: %w", err)
	}
	return h.Sum64(), n, nil
}
