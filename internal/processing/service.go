package processing

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/spacesedan/swotflow/internal/apperrors"
	"github.com/spacesedan/swotflow/internal/db"
	"github.com/spacesedan/swotflow/internal/models"
)

type Analyzer interface {
	Analyze(ctx context.Context, productName string) (*models.AnalysisResult, error)
}

type ReportWriter interface {
	Write(record *models.AnalysisRecord, path string) error
}

type Publisher interface {
	Publish(ctx context.Context, record *models.AnalysisRecord) error
}

// Service turns an analysis into a persisted record: report, stores, event.
// Store, Reports and Publisher are optional.
type Service struct {
	Analyzer  Analyzer
	Store     db.ResultStore
	Reports   ReportWriter
	PDFDir    string
	Publisher Publisher

	now func() time.Time
}

func NewService(analyzer Analyzer, store db.ResultStore, reports ReportWriter, pdfDir string, publisher Publisher) *Service {
	return &Service{
		Analyzer:  analyzer,
		Store:     store,
		Reports:   reports,
		PDFDir:    pdfDir,
		Publisher: publisher,
		now:       time.Now,
	}
}

func (s *Service) Run(ctx context.Context, productName string) (*models.AnalysisRecord, error) {
	result, err := s.Analyzer.Analyze(ctx, productName)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	record := &models.AnalysisRecord{
		ID:             ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		CreatedAt:      now,
		AnalysisResult: *result,
	}

	if s.Reports != nil {
		path := filepath.Join(s.PDFDir, db.BaseName(record.Product, now)+".pdf")
		if err := s.Reports.Write(record, path); err != nil {
			return nil, fmt.Errorf("writing report for %q: %w", productName, err)
		}
		record.PDFFile = path
	}

	if s.Store != nil {
		if err := s.Store.Save(ctx, record); err != nil {
			s.discardReport(record)
			return nil, fmt.Errorf("storing analysis for %q: %w", productName, err)
		}
	}

	if s.Publisher != nil {
		if err := s.Publisher.Publish(ctx, record); err != nil {
			slog.Warn("[AnalysisService] Failed to publish analysis event",
				slog.String("id", record.ID),
				slog.String("error", err.Error()))
		}
	}

	slog.Info("[AnalysisService] Analysis recorded",
		slog.String("id", record.ID),
		slog.String("product", record.Product),
		slog.String("source", record.Source))
	return record, nil
}

// Latest returns the newest stored analysis for a product.
func (s *Service) Latest(ctx context.Context, productName string) (*models.AnalysisRecord, error) {
	reader, ok := s.Store.(db.ResultReader)
	if !ok {
		return nil, fmt.Errorf("no store supports lookups: %w", apperrors.ErrNotFound)
	}
	return reader.Latest(ctx, productName)
}

// discardReport removes a PDF whose record never made it into a store.
func (s *Service) discardReport(record *models.AnalysisRecord) {
	if record.PDFFile == "" {
		return
	}
	if err := os.Remove(record.PDFFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("[AnalysisService] Failed to remove orphaned report",
			slog.String("path", record.PDFFile),
			slog.String("error", err.Error()))
	}
	record.PDFFile = ""
}

func (s *Service) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
