package sentiment

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spacesedan/swotflow/config"
	"github.com/spacesedan/swotflow/internal/apperrors"
	"github.com/spacesedan/swotflow/internal/models"
)

// Classifier labels each text POSITIVE or NEGATIVE. The output has the same
// length and order as texts.
type Classifier interface {
	Classify(ctx context.Context, texts []string) ([]models.ClassifiedReview, error)
}

// Loader builds a classifier. It may be slow (model download) and may fail.
type Loader func(ctx context.Context) (Classifier, error)

type loaded struct {
	Classifier
}

// Lazy builds its classifier on first use and shares it afterwards.
// Construction is serialised by mu; once built, reads go through the atomic
// pointer without locking. A failed load leaves Lazy empty so the next call
// tries again.
type Lazy struct {
	backend string
	model   string
	load    Loader

	mu      sync.Mutex
	current atomic.Pointer[loaded]
}

func NewLazy(backend, model string, load Loader) *Lazy {
	return &Lazy{backend: backend, model: model, load: load}
}

func (l *Lazy) Get(ctx context.Context) (Classifier, error) {
	if c := l.current.Load(); c != nil {
		return c.Classifier, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if c := l.current.Load(); c != nil {
		return c.Classifier, nil
	}

	slog.Info("[SentimentClassifier] Loading model",
		slog.String("backend", l.backend),
		slog.String("model", l.model))
	start := time.Now()

	c, err := l.load(ctx)
	if err != nil {
		slog.Error("[SentimentClassifier] Failed to load model",
			slog.String("backend", l.backend),
			slog.String("error", err.Error()))
		return nil, &apperrors.ModelInitError{Backend: l.backend, Model: l.model, Err: err}
	}

	l.current.Store(&loaded{Classifier: c})
	slog.Info("[SentimentClassifier] Model ready",
		slog.String("backend", l.backend),
		slog.Duration("elapsed", time.Since(start)))
	return c, nil
}

// Ready reports whether the model has been loaded.
func (l *Lazy) Ready() bool {
	return l.current.Load() != nil
}

func (l *Lazy) Classify(ctx context.Context, texts []string) ([]models.ClassifiedReview, error) {
	if len(texts) == 0 {
		return []models.ClassifiedReview{}, nil
	}

	c, err := l.Get(ctx)
	if err != nil {
		return nil, err
	}
	return c.Classify(ctx, texts)
}

// Close releases the loaded model, if any.
func (l *Lazy) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	c := l.current.Swap(nil)
	if c == nil {
		return nil
	}
	if closer, ok := c.Classifier.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

var (
	sharedInstance *Lazy
	sharedOnce     sync.Once
)

// Shared returns the process-wide classifier. The configuration of the first
// call wins.
func Shared(cfg config.SentimentConfig) *Lazy {
	sharedOnce.Do(func() {
		sharedInstance = NewLazy(cfg.Backend, modelName(cfg), LoaderFor(cfg))
	})
	return sharedInstance
}

// Shutdown releases the shared classifier at process exit.
func Shutdown() {
	if sharedInstance == nil {
		return
	}
	if err := sharedInstance.Close(); err != nil {
		slog.Warn("[SentimentClassifier] Failed to release model",
			slog.String("error", err.Error()))
	}
}

func LoaderFor(cfg config.SentimentConfig) Loader {
	switch cfg.Backend {
	case "vader":
		return func(context.Context) (Classifier, error) {
			return NewVADERClassifier(), nil
		}
	case "openai":
		return func(context.Context) (Classifier, error) {
			return NewOpenAIClassifier(cfg.OpenAI, cfg.BatchSize)
		}
	case "hugot", "":
		return func(ctx context.Context) (Classifier, error) {
			return NewHugotClassifier(ctx, cfg)
		}
	default:
		return func(context.Context) (Classifier, error) {
			return nil, fmt.Errorf("unknown sentiment backend %q", cfg.Backend)
		}
	}
}

func modelName(cfg config.SentimentConfig) string {
	switch cfg.Backend {
	case "vader":
		return "vader-lexicon"
	case "openai":
		return cfg.OpenAI.Model
	default:
		return cfg.Model
	}
}
