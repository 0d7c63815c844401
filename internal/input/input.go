// Package input loads the list of case numbers to look up.
package input

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
)

type file struct {
	Processos []string `json:"processos"`
}

// Load reads path, a JSON object whose "processos" key holds the ordered
// identifiers. It never fails: any problem is logged and an empty slice is
// returned, which callers treat as nothing to do. Identifiers are returned
// as written, empty and duplicate entries included.
func Load(path string, logger *slog.Logger) []string {
	if logger == nil {
		logger = slog.Default()
	}

	ids, err := read(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Error("input: file not found", "path", path)
		default:
			logger.Error("input: load failed", "path", path, "error", err)
		}
		return []string{}
	}

	logger.Info("input: loaded identifiers", "path", path, "count", len(ids))
	return ids
}

func read(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("input: decode: %w", err)
	}
	if f.Processos == nil {
		return []string{}, nil
	}
	return f.Processos, nil
}
