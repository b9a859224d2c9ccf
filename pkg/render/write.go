package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-docfmt/pkg/dsl"
)

// WriteFile renders doc and writes it to path atomically: the bytes go to a
// temporary file in the same directory which is renamed into place only
// after a successful write. A failure leaves no artifact at path.
func WriteFile(ctx context.Context, r Renderer, doc dsl.Document, path string) error {
	if r == nil {
		return fmt.Errorf("render: renderer is required")
	}
	data, err := r.Render(ctx, doc)
	if err != nil {
		return fmt.Errorf("render: %s: %w", r.Name(), err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return WriteBytes(path, data)
}

// WriteBytes writes already rendered output to path with the same
// temp-file-and-rename guarantee as WriteFile.
func WriteBytes(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("render: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("render: write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("render: sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("render: close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("render: chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("render: move into place: %w", err)
	}
	return nil
}
