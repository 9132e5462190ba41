package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryBackoff(t *testing.T) {
	assert.Equal(t, 300*time.Millisecond, retryBackoff(0, maxModelAttempts))
	assert.Equal(t, 600*time.Millisecond, retryBackoff(1, maxModelAttempts))
	// the final attempt has nothing after it; no point sleeping
	assert.Equal(t, time.Duration(0), retryBackoff(2, maxModelAttempts))
}

func TestBuildChatPromptWithWeek(t *testing.T) {
	week := 25
	prompt := buildChatPrompt(&week)
	assert.Contains(t, prompt, "week 25")
	assert.Contains(t, prompt, "Second trimester")
	assert.Contains(t, prompt, "pregnancy nutrition assistant")
}

func TestBuildChatPromptWithoutWeek(t *testing.T) {
	prompt := buildChatPrompt(nil)
	assert.NotContains(t, prompt, "currently in week")
	assert.Contains(t, prompt, "safe, limit, or avoid")
}

func TestDraftRecordPromptNamesVariantKeys(t *testing.T) {
	prompt := draftRecordPrompt("soft cheese")
	assert.Contains(t, prompt, `"soft cheese"`)
	// every variant's required keys are spelled out for the model
	assert.Contains(t, prompt, "nutritionalBenefits")
	assert.Contains(t, prompt, "consumptionGuidelines")
	assert.Contains(t, prompt, "whyAvoidRisk")
	assert.Contains(t, prompt, "causesOfRisk")
}
