package dataset

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// maxInflated caps decompressed uploads.
const maxInflated = 512 << 20

type gzipLoader struct{}

func (gzipLoader) CanLoad(name string) bool {
	return hasExt(name, ".gz")
}

func (gzipLoader) Load(name string, content []byte, opt Options) (*Table, error) {
	zr, err := gzip.NewReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer zr.Close()
	inner, err := io.ReadAll(io.LimitReader(zr, maxInflated+1))
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	if len(inner) > maxInflated {
		return nil, fmt.Errorf("inflate: content exceeds %d bytes", maxInflated)
	}
	innerName := name[:len(name)-len(".gz")]
	t, err := decode(innerName, inner, opt)
	if err != nil {
		return nil, err
	}
	t.Name = filepath.Base(name)
	return t, nil
}

// gzipWriter wraps w when name ends in .gz; the returned close func flushes it.
func gzipWriter(name string, w io.Writer) (io.Writer, func() error) {
	if !strings.HasSuffix(strings.ToLower(name), ".gz") {
		return w, func() error { return nil }
	}
	zw := gzip.NewWriter(w)
	return zw, zw.Close
}
