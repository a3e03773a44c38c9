package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spacesedan/swotflow/internal/models"
)

const FILE_TIMESTAMP_LAYOUT = "20060102_150405"

// FileStore writes each analysis as an indented JSON document under Dir.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (f *FileStore) Name() string { return "file" }

// SafeName replaces the characters that would break a flat file name.
func SafeName(productName string) string {
	return strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(productName)
}

// BaseName is "<safe product>_swot_<YYYYMMDD_HHMMSS>", shared by the JSON
// result and the PDF report of one analysis.
func BaseName(productName string, at time.Time) string {
	return fmt.Sprintf("%s_swot_%s", SafeName(productName), at.Format(FILE_TIMESTAMP_LAYOUT))
}

// Save writes the record and sets record.LocalFile to the path written.
func (f *FileStore) Save(ctx context.Context, record *models.AnalysisRecord) error {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("[FileStore] failed to create %s: %w", f.Dir, err)
	}

	at := record.CreatedAt
	if at.IsZero() {
		at = time.Now()
	}
	path := filepath.Join(f.Dir, BaseName(record.Product, at)+".json")
	record.LocalFile = path

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("[FileStore] failed to create %s: %w", path, err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(record); err != nil {
		return fmt.Errorf("[FileStore] failed to encode %s: %w", path, err)
	}

	slog.Info("[FileStore] Analysis saved",
		slog.String("product", record.Product),
		slog.String("path", path))
	return nil
}

// Latest picks the newest "<safe>_swot_*.json"; the timestamp layout sorts
// lexically.
func (f *FileStore) Latest(ctx context.Context, productName string) (*models.AnalysisRecord, error) {
	pattern := filepath.Join(f.Dir, globEscape(SafeName(productName))+"_swot_*.json")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("[FileStore] bad lookup pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, notFound(productName)
	}
	sort.Strings(matches)

	data, err := os.ReadFile(matches[len(matches)-1])
	if err != nil {
		return nil, fmt.Errorf("[FileStore] failed to read %s: %w", matches[len(matches)-1], err)
	}

	var record models.AnalysisRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("[FileStore] failed to decode %s: %w", matches[len(matches)-1], err)
	}
	return &record, nil
}

func globEscape(s string) string {
	return strings.NewReplacer("*", `\*`, "?", `\?`, "[", `\[`).Replace(s)
}
