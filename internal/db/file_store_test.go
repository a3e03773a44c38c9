package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spacesedan/swotflow/internal/apperrors"
	"github.com/spacesedan/swotflow/internal/models"
)

func TestSafeNameAndBaseName(t *testing.T) {
	tests := map[string]string{
		"Widget X":        "Widget_X",
		"AC/DC Headphone": "AC_DC_Headphone",
		"plain":           "plain",
	}
	for in, want := range tests {
		if got := SafeName(in); got != want {
			t.Errorf("SafeName(%q) = %q, want %q", in, got, want)
		}
	}

	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	if got := BaseName("Widget X", at); got != "Widget_X_swot_20240309_140507" {
		t.Errorf("BaseName() = %q", got)
	}
}

func TestFileStoreSaveAndLatest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	store := NewFileStore(dir)
	ctx := context.Background()

	older := testRecord("Widget X", time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC))
	newer := testRecord("Widget X", time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))
	other := testRecord("Widget Y", time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC))

	for _, record := range []*models.AnalysisRecord{older, newer, other} {
		if err := store.Save(ctx, record); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	wantPath := filepath.Join(dir, "Widget_X_swot_20240309_140507.json")
	if older.LocalFile != wantPath {
		t.Errorf("LocalFile = %q, want %q", older.LocalFile, wantPath)
	}

	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("result file missing: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"product\": \"Widget X\"") {
		t.Errorf("expected indented JSON, got:\n%s", data)
	}
	if !strings.Contains(string(data), "café") {
		t.Error("non-ASCII text should be written as-is")
	}

	latest, err := store.Latest(ctx, "Widget X")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.ID != newer.ID || !reflect.DeepEqual(latest.Analysis, newer.Analysis) {
		t.Errorf("Latest() = %+v, want the newer record", latest)
	}
	if !latest.CreatedAt.Equal(newer.CreatedAt) || string(latest.Chart) != string(newer.Chart) {
		t.Error("timestamp or chart lost in round trip")
	}

	if _, err := store.Latest(ctx, "Nothing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
