package rationale

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/example/foodshare-matching/internal/models"
)

const systemPrompt = "You are an expert food donation matching system. " +
	"You explain why a recipient organization is the best match for a donation. " +
	"Always return responses in valid JSON format."

// Client asks an Anthropic model to explain a ranked candidate list.
// Advisory only: callers validate the reply before trusting any field.
type Client struct {
	api       sdk.Client
	model     string
	maxTokens int64
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		api:       sdk.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: 1024,
	}
}

// Explain requests match reasoning for the already-ranked candidates. The
// context deadline set by the caller bounds the call; any transport, parse or
// format problem surfaces as an error so the caller can fall back.
func (c *Client) Explain(ctx context.Context, batch models.DonationBatch, candidates []models.RankedCandidate) (models.Explanation, error) {
	prompt, err := buildPrompt(batch, candidates)
	if err != nil {
		return models.Explanation{}, err
	}

	msg, err := c.api.Messages.New(ctx, sdk.MessageNewParams{
		Model:       sdk.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: sdk.Float(0.3),
		System:      []sdk.TextBlockParam{{Text: systemPrompt}},
		Messages:    []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(prompt))},
	})
	if err != nil {
		return models.Explanation{}, fmt.Errorf("rationale: create message: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		text.WriteString(block.Text)
	}
	return parseReply(text.String())
}

func buildPrompt(batch models.DonationBatch, candidates []models.RankedCandidate) (string, error) {
	ranked, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return "", fmt.Errorf("rationale: encode candidates: %w", err)
	}
	return fmt.Sprintf(`Explain the best recipient for this food donation.

DONATION:
- Food type: %s
- Quantity: %.1f kg
- Description: %s
- Pickup time: %s

RANKED CANDIDATES (best first, scored 0-100 on preference compatibility 40%%, distance 30%%, timing 20%%, current need 10%%):
%s

The first candidate was selected. Return JSON in exactly this format:
{
  "best_match": "<recipient_id of the selected candidate>",
  "match_score": <its score>,
  "reasoning": "short explanation of why this recipient fits best",
  "alternative_matches": ["<runner-up ids>"]
}`,
		batch.FoodType, batch.QuantityKg, batch.Description,
		batch.PickupTime.Format("2006-01-02 15:04"), ranked), nil
}

// parseReply decodes the model's JSON, tolerating a fenced code block around it.
func parseReply(raw string) (models.Explanation, error) {
	raw = strings.TrimSpace(raw)
	if i := strings.Index(raw, "{"); i > 0 {
		raw = raw[i:]
	}
	if i := strings.LastIndex(raw, "}"); i >= 0 {
		raw = raw[:i+1]
	}
	var exp models.Explanation
	if err := json.Unmarshal([]byte(raw), &exp); err != nil {
		return models.Explanation{}, fmt.Errorf("rationale: invalid JSON reply: %w", err)
	}
	if exp.BestMatchID == "" {
		return models.Explanation{}, fmt.Errorf("rationale: reply missing best_match")
	}
	return exp, nil
}
