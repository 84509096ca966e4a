package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"levelwatch/internal/domain"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/trace"
)

const analysisMaxTokens = 300

type completionClient interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Advisor turns an alert plus a market snapshot into a short desk-analyst
// style note via a single chat completion.
type Advisor struct {
	tracer      trace.Tracer
	completions completionClient
	model       string
}

func New(tracer trace.Tracer, apiKey, model string) *Advisor {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Advisor{
		tracer:      tracer,
		completions: &client.Chat.Completions,
		model:       model,
	}
}

// Generate builds the prompt and runs one bounded completion call. Any
// completion failure is a hard error; there is no local fallback text.
func (a *Advisor) Generate(ctx context.Context, payload domain.AlertPayload, snapshot domain.Snapshot, now time.Time) (string, error) {
	ctx, span := a.tracer.Start(ctx, "advisor.generate")
	defer span.End()

	completion, err := a.completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(a.model),
		MaxTokens: openai.Int(analysisMaxTokens),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(BuildPrompt(payload, snapshot, now)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

// BuildPrompt is deterministic for a given (payload, snapshot, now) triple.
func BuildPrompt(payload domain.AlertPayload, snapshot domain.Snapshot, now time.Time) string {
	note := payload.Note()
	if note == "" {
		note = "None"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "A TradingView price alert just fired for a futures trader at %s.\n\n", domain.FormatEastern(now))
	b.WriteString("ALERT DETAILS:\n")
	fmt.Fprintf(&b, "  Instrument: %s\n", payload.Ticker())
	fmt.Fprintf(&b, "  Price: %s\n", payload.Price())
	fmt.Fprintf(&b, "  Level hit: %s\n", payload.LevelName())
	fmt.Fprintf(&b, "  Direction: %s\n", payload.Direction())
	fmt.Fprintf(&b, "  Trader's note: %s\n\n", note)
	b.WriteString("CURRENT MARKET SNAPSHOT:\n")
	b.WriteString(formatSnapshot(snapshot))
	b.WriteString("\n\nWrite a sharp, 3-4 sentence alert analysis:\n")
	b.WriteString("1. Confirm what just happened (which level, which instrument)\n")
	b.WriteString("2. What it means for the trade — is the setup from this morning still valid?\n")
	b.WriteString("3. What ES and YM are doing RIGHT NOW relative to each other (diverging or confirming?)\n")
	b.WriteString("4. One specific thing to watch next (next level, confirmation needed, or invalidation point)\n\n")
	b.WriteString("Be direct. No filler. Write like a desk analyst texting a trader between positions.")
	return b.String()
}

func formatSnapshot(snapshot domain.Snapshot) string {
	if len(snapshot) == 0 {
		return "  Snapshot unavailable"
	}
	lines := make([]string, 0, len(snapshot))
	for _, e := range snapshot {
		lines = append(lines, fmt.Sprintf("  %s: $%s (%+.2f%% from open)", e.Instrument, domain.FormatPrice(e.Price), e.Pct))
	}
	return strings.Join(lines, "\n")
}
