package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/openai/openai-go"

	"github.com/spacesedan/swotflow/config"
	"github.com/spacesedan/swotflow/internal/clients"
	"github.com/spacesedan/swotflow/internal/models"
	"github.com/spacesedan/swotflow/internal/utils"
)

const openAISentimentPrompt = `Classify the sentiment of each product review in the JSON array you receive.
Every review is either POSITIVE or NEGATIVE; there is no neutral class.

Return only valid JSON, no markdown, in exactly this shape, with one entry per
input review and in the same order:
{"results": [{"label": "POSITIVE", "score": 0.97}]}

"score" is your confidence in the label, between 0 and 1.`

type openAISentimentResponse struct {
	Results []struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	} `json:"results"`
}

// OpenAIClassifier asks a chat model for labels. Batches are sent
// concurrently; results are reassembled in input order.
type OpenAIClassifier struct {
	client      *clients.OpenAIClient
	batchSize   int
	concurrency int
}

func NewOpenAIClassifier(cfg config.OpenAIConfig, batchSize int) (*OpenAIClassifier, error) {
	client, err := clients.GetOpenAIClient(cfg)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &OpenAIClassifier{client: client, batchSize: batchSize, concurrency: concurrency}, nil
}

func (o *OpenAIClassifier) Classify(ctx context.Context, texts []string) ([]models.ClassifiedReview, error) {
	batches := utils.Chunk(texts, o.batchSize)
	results := make([][]models.ClassifiedReview, len(batches))
	errs := make([]error, len(batches))

	sem := make(chan struct{}, o.concurrency)
	var wg sync.WaitGroup

	for i, batch := range batches {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, batch []string) {
			defer func() { <-sem; wg.Done() }()
			results[i], errs[i] = o.classifyBatch(ctx, batch)
		}(i, batch)
	}
	wg.Wait()

	out := make([]models.ClassifiedReview, 0, len(texts))
	for i := range batches {
		if errs[i] != nil {
			return nil, errs[i]
		}
		out = append(out, results[i]...)
	}
	return out, nil
}

func (o *OpenAIClassifier) classifyBatch(ctx context.Context, batch []string) ([]models.ClassifiedReview, error) {
	payload, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reviews: %w", err)
	}

	completion, err := o.client.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(openAISentimentPrompt),
			openai.UserMessage(string(payload)),
		}),
		Model:       openai.F(openai.ChatModel(o.client.Model)),
		Temperature: openai.Float(0),
	})
	if err != nil {
		slog.Error("[OpenAIClassifier] Chat completion failed",
			slog.Int("batch_size", len(batch)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("openai sentiment request failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	return parseOpenAIResults(batch, completion.Choices[0].Message.Content)
}

func parseOpenAIResults(batch []string, content string) ([]models.ClassifiedReview, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var parsed openAISentimentResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse openai sentiment response: %w", err)
	}
	if len(parsed.Results) != len(batch) {
		return nil, fmt.Errorf("openai returned %d labels for %d reviews", len(parsed.Results), len(batch))
	}

	out := make([]models.ClassifiedReview, len(batch))
	for i, r := range parsed.Results {
		label, err := models.ParseLabel(r.Label)
		if err != nil {
			return nil, err
		}
		out[i] = models.ClassifiedReview{Text: batch[i], Label: label, Score: clampScore(r.Score)}
	}
	return out, nil
}
