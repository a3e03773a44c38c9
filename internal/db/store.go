package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spacesedan/swotflow/internal/apperrors"
	"github.com/spacesedan/swotflow/internal/models"
)

// ResultStore persists completed analyses.
type ResultStore interface {
	Name() string
	Save(ctx context.Context, record *models.AnalysisRecord) error
}

// ResultReader returns the most recent analysis stored for a product, or an
// error matching apperrors.ErrNotFound.
type ResultReader interface {
	Latest(ctx context.Context, productName string) (*models.AnalysisRecord, error)
}

// MultiStore fans a record out to every configured backend in order.
type MultiStore struct {
	stores []ResultStore
}

func NewMultiStore(stores ...ResultStore) *MultiStore {
	return &MultiStore{stores: stores}
}

func (m *MultiStore) Name() string { return "multi" }

func (m *MultiStore) Stores() []ResultStore { return m.stores }

func (m *MultiStore) Save(ctx context.Context, record *models.AnalysisRecord) error {
	for _, s := range m.stores {
		if err := s.Save(ctx, record); err != nil {
			slog.Error("[ResultStore] Save failed",
				slog.String("store", s.Name()),
				slog.String("product", record.Product),
				slog.String("error", err.Error()))
			return fmt.Errorf("saving to %s: %w", s.Name(), err)
		}
	}
	return nil
}

// Latest asks each backend that can read, in order, and returns the first hit.
func (m *MultiStore) Latest(ctx context.Context, productName string) (*models.AnalysisRecord, error) {
	readers := 0
	for _, s := range m.stores {
		r, ok := s.(ResultReader)
		if !ok {
			continue
		}
		readers++

		record, err := r.Latest(ctx, productName)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("reading from %s: %w", s.Name(), err)
		}
	}

	if readers == 0 {
		slog.Warn("[ResultStore] No configured backend supports lookups")
	}
	return nil, notFound(productName)
}

// Close releases every backend that holds a connection.
func (m *MultiStore) Close() error {
	var errs []error
	for _, s := range m.stores {
		if c, ok := s.(interface{ Close() error }); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}

func notFound(productName string) error {
	return fmt.Errorf("no analysis stored for %q: %w", productName, apperrors.ErrNotFound)
}
