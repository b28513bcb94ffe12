package file

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "calls.csv")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}
	return p
}

func TestLocalOpen(t *testing.T) {
	t.Parallel()

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name     string
		path     func(t *testing.T) string
		ctx      context.Context
		wantErr  error
		wantBody string
	}{
		{
			name:     "reads content",
			path:     func(t *testing.T) string { return writeFile(t, "CallNumber,Delay\n1,3.0\n") },
			ctx:      context.Background(),
			wantBody: "CallNumber,Delay\n1,3.0\n",
		},
		{
			name:    "missing file keeps ErrNotExist",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.csv") },
			ctx:     context.Background(),
			wantErr: os.ErrNotExist,
		},
		{
			name:    "done context is checked first",
			path:    func(t *testing.T) string { return writeFile(t, "ignored") },
			ctx:     canceled,
			wantErr: context.Canceled,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := tt.path(t)
			rc, err := NewLocal(path).Open(tt.ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || rc != nil {
					t.Fatalf("Open() = %v, %v; want nil, %v", rc, err, tt.wantErr)
				}
				if errors.Is(tt.wantErr, os.ErrNotExist) && !strings.Contains(err.Error(), path) {
					t.Fatalf("error %q does not name %s", err, path)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer rc.Close()
			got, err := io.ReadAll(rc)
			if err != nil || string(got) != tt.wantBody {
				t.Fatalf("ReadAll() = %q, %v; want %q", got, err, tt.wantBody)
			}
		})
	}
}

func TestLocalStat(t *testing.T) {
	t.Parallel()

	p := writeFile(t, "CallNumber\n1\n")
	dir := filepath.Dir(p)
	st, err := NewLocal(p).Stat()
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if st.Size != 13 || st.ModTime.IsZero() {
		t.Fatalf("Stat() = %+v, want size 13 and a mod time", st)
	}
	if _, err := NewLocal(dir).Stat(); err == nil {
		t.Fatalf("Stat(dir) error = nil, want non-nil")
	}
	if NewLocal(p).Path() != p {
		t.Fatalf("Path() = %q, want %q", NewLocal(p).Path(), p)
	}
}
