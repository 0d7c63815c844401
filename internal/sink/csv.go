// CLAUDE:SUMMARY Writes a run as a two-column UTF-8 CSV, replacing the target file atomically.
package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hazyhaar/suaplinks/record"
)

// CSV column names.
const (
	ColumnIdentifier = "NumeroProcesso"
	ColumnLink       = "LinkProcesso"
)

// CSV writes the identifier and link columns to a file. The file is built
// next to its destination and renamed into place, so a failed write never
// leaves a truncated result behind.
type CSV struct {
	path string
}

// NewCSV creates a CSV sink writing to path.
func NewCSV(path string) *CSV {
	return &CSV{path: path}
}

// Path returns the destination file.
func (c *CSV) Path() string { return c.path }

func (c *CSV) Write(_ context.Context, run record.Run) error {
	dir := filepath.Dir(c.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("csv: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write([]string{ColumnIdentifier, ColumnLink}); err != nil {
		tmp.Close()
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, r := range run.Records {
		if err := w.Write([]string{r.Identifier, r.Outcome.Text()}); err != nil {
			tmp.Close()
			return fmt.Errorf("csv: write row %q: %w", r.Identifier, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("csv: flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("csv: close: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("csv: chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("csv: rename: %w", err)
	}
	return nil
}

func (c *CSV) Close() error { return nil }
