package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	util "github.com/CodeAndHammer/venkovorto/internal/util"
)

// ErrUnavailable marks a transient oracle failure (timeout, quota, transport).
// The guess is not consumed and the same pair is safe to retry.
var ErrUnavailable = errors.New("verdict oracle unavailable")

// Judge decides whether candidate beats current. A nil error means the
// verdict is authoritative, including NO.
type Judge interface {
	Judge(ctx context.Context, candidate, current string) (bool, error)
}

const systemInstruction = "You are a game judge. Determine if concept X logically beats concept Y " +
	"in a creative guessing game like Rock Paper Scissors, but more abstract. " +
	"Respond ONLY with the word YES or the word NO. No explanations."

const (
	maxAttempts  = 3
	retryBackoff = time.Second
)

// GeminiJudge asks a Gemini model for a YES/NO verdict. Anything that is not
// a clear YES is treated as NO; transport failures are retried with doubling
// backoff before surfacing ErrUnavailable.
type GeminiJudge struct {
	client *genai.Client
	model  string
}

func NewGeminiJudge(ctx context.Context, apiKey, model string) (*GeminiJudge, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiJudge{client: client, model: model}, nil
}

func (j *GeminiJudge) Judge(ctx context.Context, candidate, current string) (bool, error) {
	prompt := fmt.Sprintf("X = %s\nY = %s\nDoes X beat Y? Answer YES or NO.", candidate, current)
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.1),
		MaxOutputTokens:   10,
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := retryBackoff << (attempt - 2)
			util.LogWarn("Retrying oracle call in %v (attempt %d/%d): %v", backoff, attempt, maxAttempts, lastErr)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return false, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
			}
		}

		resp, err := j.client.Models.GenerateContent(ctx, j.model, genai.Text(prompt), config)
		if err != nil {
			lastErr = err
			continue
		}
		return parseVerdict(resp.Text()), nil
	}
	return false, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

func parseVerdict(raw string) bool {
	text := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(text, "YES"):
		return true
	case strings.HasPrefix(text, "NO"):
		return false
	default:
		util.LogWarn("Oracle gave unexpected response %q, interpreting as NO", raw)
		return false
	}
}

// Offline always reports ErrUnavailable. It stands in when no API key is
// configured so the server still starts and every guess resolves to the
// recoverable oracle-down outcome.
type Offline struct{}

func (Offline) Judge(context.Context, string, string) (bool, error) {
	return false, ErrUnavailable
}
