package consumers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spacesedan/swotflow/internal/apperrors"
	"github.com/spacesedan/swotflow/internal/models"
)

type recordingRunner struct {
	products []string
	err      error
}

func (r *recordingRunner) Run(ctx context.Context, productName string) (*models.AnalysisRecord, error) {
	r.products = append(r.products, productName)
	if r.err != nil {
		return nil, r.err
	}
	return &models.AnalysisRecord{ID: "01", AnalysisResult: models.AnalysisResult{Product: productName, Source: models.SourceAPI}}, nil
}

func TestHandleMessage(t *testing.T) {
	runner := &recordingRunner{}
	c := NewAnalysisRequestConsumer(runner)

	if err := c.HandleMessage(context.Background(), []byte(`{"product_name": "  Widget X "}`)); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if len(runner.products) != 1 || runner.products[0] != "Widget X" {
		t.Errorf("runner saw %q", runner.products)
	}
}

func TestHandleMessageRejectsBadPayloads(t *testing.T) {
	tests := map[string]string{
		"not json":      `product=Widget`,
		"missing field": `{"name": "Widget X"}`,
		"blank product": `{"product_name": "   "}`,
	}
	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			runner := &recordingRunner{}
			err := NewAnalysisRequestConsumer(runner).HandleMessage(context.Background(), []byte(payload))
			if !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
			if len(runner.products) != 0 {
				t.Error("runner should not be called for a bad payload")
			}
		})
	}
}

func TestHandleMessageRunnerFailure(t *testing.T) {
	runner := &recordingRunner{err: &apperrors.SourceError{Source: "google", StatusCode: 500}}
	err := NewAnalysisRequestConsumer(runner).HandleMessage(context.Background(), []byte(`{"product_name": "Widget X"}`))
	if !errors.Is(err, apperrors.ErrSource) {
		t.Errorf("error = %v, want ErrSource", err)
	}
}

func TestWaitHealthy(t *testing.T) {
	ready := &atomic.Bool{}
	ready.Store(true)
	if !waitHealthy(context.Background(), "test", ready, nil) {
		t.Error("healthy flags should not block")
	}

	down := &atomic.Bool{}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if waitHealthy(ctx, "test", ready, down) {
		t.Error("expected waitHealthy to give up when ctx ends")
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		down.Store(true)
	}()
	if !waitHealthy(context.Background(), "test", down) {
		t.Error("expected waitHealthy to return once the flag flips")
	}
}
