package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"preggy/models"
	"preggy/utils"

	genai "google.golang.org/genai"
)

var ErrEmptyReply = errors.New("gemini: empty response from model")

const maxModelAttempts = 3

// retryBackoff is the sleep before the next attempt; zero after the last so
// a terminal failure returns immediately.
func retryBackoff(attempt, maxAttempts int) time.Duration {
	if attempt >= maxAttempts-1 {
		return 0
	}
	return time.Duration(300*(1<<attempt)) * time.Millisecond
}

// GeminiService wraps the official genai client for the two places the app
// talks to the model: the assistant chat and drafting safety records for
// foods missing from the catalog.
type GeminiService struct {
	cli   *genai.Client
	model string
}

func NewGeminiService(ctx context.Context) (*GeminiService, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiService{cli: cli, model: model}, nil
}

// buildChatPrompt is the system preamble for assistant replies. When the
// user's pregnancy week is known it is included so answers are stage-aware.
func buildChatPrompt(week *int) string {
	prompt := "You are a pregnancy nutrition assistant. Answer questions about " +
		"food safety and nutrition during pregnancy. Be concise, cite the safety " +
		"classification (safe, limit, or avoid) when discussing a specific food, " +
		"and recommend consulting a healthcare provider for medical decisions."
	if week != nil {
		prompt += fmt.Sprintf(" The user is currently in week %d of pregnancy (%s).",
			*week, utils.TrimesterLabel(utils.TrimesterForWeek(*week)))
	}
	return prompt
}

// Reply generates an assistant answer for the latest user message, with the
// recent conversation history as context. Retries transient failures with
// backoff before giving up.
func (g *GeminiService) Reply(ctx context.Context, week *int, history []models.ChatMessage, userMsg string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+2)
	contents = append(contents, &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: buildChatPrompt(week)}},
	})
	for _, m := range history {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: userMsg}},
	})

	var lastErr error
	for attempt := 0; attempt < maxModelAttempts; attempt++ {
		resp, err := g.cli.Models.GenerateContent(ctx, g.model, contents, nil)
		if err != nil {
			lastErr = err
		} else if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
			len(resp.Candidates[0].Content.Parts) == 0 {
			lastErr = ErrEmptyReply
		} else {
			return resp.Candidates[0].Content.Parts[0].Text, nil
		}
		if d := retryBackoff(attempt, maxModelAttempts); d > 0 {
			time.Sleep(d)
		}
	}
	return "", lastErr
}

// draftRecordPrompt asks for a catalog-shaped JSON record. The details keys
// must match the variant the model picks, which ClassifyRecord verifies.
func draftRecordPrompt(foodName string) string {
	return fmt.Sprintf(`Classify the pregnancy food safety of %q.
Respond with a single JSON object:
{"name": ..., "safety_type": "safe"|"limit"|"avoid", "details": {...}, "sources": ..., "verifiedDate": "YYYY-MM-DD"}
For "safe", details has "nutritionalBenefits" and "preparationGuidelines" (string arrays).
For "limit", details has "consumptionGuidelines", "healthConsiderations" and "saferAlternatives" (string arrays).
For "avoid", details has "whyAvoidRisk" (array of {"risk", "causesOfRisk"}), "cookingGuidelines" and "betterAlternatives".`, foodName)
}

// DraftSafetyRecord asks the model for a safety record for a food the catalog
// does not know. The draft is validated through the classifier before it is
// returned; a malformed draft is rejected rather than stored.
func (g *GeminiService) DraftSafetyRecord(ctx context.Context, foodName string) (*models.FoodSafetyRecord, error) {
	var lastErr error
	for attempt := 0; attempt < maxModelAttempts; attempt++ {
		resp, err := g.cli.Models.GenerateContent(ctx, g.model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: draftRecordPrompt(foodName)}}}},
			&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
		)
		if err != nil {
			lastErr = err
		} else if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
			len(resp.Candidates[0].Content.Parts) == 0 {
			lastErr = ErrEmptyReply
		} else {
			txt := resp.Candidates[0].Content.Parts[0].Text
			var rec models.FoodSafetyRecord
			if err := json.Unmarshal([]byte(txt), &rec); err != nil {
				lastErr = fmt.Errorf("gemini: invalid record JSON: %w", err)
			} else if _, err := utils.ClassifyRecord(rec); err != nil {
				lastErr = err
				log.Printf("gemini draft for %q rejected: %v", foodName, err)
			} else {
				return &rec, nil
			}
		}
		if d := retryBackoff(attempt, maxModelAttempts); d > 0 {
			time.Sleep(d)
		}
	}
	return nil, lastErr
}
