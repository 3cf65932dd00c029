package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/imgconv"
)

// ConvertHandler returns a Handler that reads a data URI from each file,
// converts it with c and writes the blob to outDir. The output keeps the
// input's base name with ext appended in place of its extension.
func ConvertHandler(c *imgconv.Converter, outDir, ext string) Handler {
	return func(ctx context.Context, path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		state := imgconv.NewImageState()
		state.Set(strings.TrimSpace(string(data)), filepath.Base(path))

		blob, err := c.ConvertState(ctx, state)
		if err != nil {
			return fmt.Errorf("failed to convert %s: %w", path, err)
		}

		out := OutputPath(outDir, path, ext)
		if err := writeFile(out, blob); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		return nil
	}
}

// OutputPath returns the file in outDir named after src with ext.
func OutputPath(outDir, src, ext string) string {
	base := filepath.Base(src)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, base+ext)
}

// writeFile writes blob through a temporary file so readers never see a
// partial image.
func writeFile(path string, blob *imgconv.Blob) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".imgconv-*")
	if err != nil {
		return err
	}
	if _, err := blob.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
