package utils

import (
	"encoding/json"
	"testing"

	"preggy/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(name, safetyType, details string) models.FoodSafetyRecord {
	return models.FoodSafetyRecord{
		Name:         name,
		SafetyType:   safetyType,
		Details:      json.RawMessage(details),
		Sources:      "NHS, FDA",
		VerifiedDate: "2026-01-15",
	}
}

func TestClassifySafeRecord(t *testing.T) {
	rec := record("Greek yogurt", "safe", `{
		"nutritionalBenefits": ["calcium", "protein"],
		"preparationGuidelines": ["choose pasteurized brands"]
	}`)

	v, err := ClassifyRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, models.SafetySafe, v.SafetyType)
	require.NotNil(t, v.Safe)
	assert.Nil(t, v.Limit)
	assert.Nil(t, v.Avoid)
	// no coercion: fields come through exactly as sent
	assert.Equal(t, []string{"calcium", "protein"}, v.Safe.NutritionalBenefits)
	assert.Equal(t, []string{"choose pasteurized brands"}, v.Safe.PreparationGuidelines)
	assert.Equal(t, "NHS, FDA", v.Sources)
}

func TestClassifyLimitRecord(t *testing.T) {
	rec := record("Tuna", "limit", `{
		"consumptionGuidelines": ["no more than 2 portions a week"],
		"healthConsiderations": ["mercury content"],
		"saferAlternatives": ["salmon", "sardines"]
	}`)

	v, err := ClassifyRecord(rec)
	require.NoError(t, err)
	require.NotNil(t, v.Limit)
	assert.Equal(t, []string{"salmon", "sardines"}, v.Limit.SaferAlternatives)
}

func TestClassifyAvoidRecord(t *testing.T) {
	rec := record("Raw oysters", "avoid", `{
		"whyAvoidRisk": [{"risk": "vibriosis", "causesOfRisk": ["raw shellfish bacteria"]}],
		"cookingGuidelines": ["cook until shells open"],
		"betterAlternatives": ["cooked mussels"]
	}`)

	v, err := ClassifyRecord(rec)
	require.NoError(t, err)
	require.NotNil(t, v.Avoid)
	assert.Len(t, v.Avoid.WhyAvoidRisk, 1)
}

func TestClassifyRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		rec  models.FoodSafetyRecord
	}{
		{"avoid with empty risk list", record("x", "avoid", `{
			"whyAvoidRisk": [],
			"cookingGuidelines": [],
			"betterAlternatives": []
		}`)},
		{"avoid risk entry missing causes", record("x", "avoid", `{
			"whyAvoidRisk": [{"risk": "listeria"}]
		}`)},
		{"limit payload under avoid tag", record("x", "avoid", `{
			"consumptionGuidelines": ["some"],
			"healthConsiderations": ["some"],
			"saferAlternatives": ["some"]
		}`)},
		{"avoid payload under safe tag", record("x", "safe", `{
			"whyAvoidRisk": [{"risk": "r", "causesOfRisk": []}]
		}`)},
		{"safe missing benefits", record("x", "safe", `{
			"preparationGuidelines": ["wash well"]
		}`)},
		{"limit missing alternatives", record("x", "limit", `{
			"consumptionGuidelines": ["some"],
			"healthConsiderations": ["some"]
		}`)},
		{"unknown safety type", record("x", "maybe", `{}`)},
		{"empty details", record("x", "safe", ``)},
		{"details not an object", record("x", "safe", `"just a string"`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ClassifyRecord(tt.rec)
			assert.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

// causesOfRisk may be empty on the wire, it just has to be there.
func TestClassifyAcceptsEmptyCauses(t *testing.T) {
	rec := record("Soft cheese", "avoid", `{
		"whyAvoidRisk": [{"risk": "listeria", "causesOfRisk": []}],
		"cookingGuidelines": [],
		"betterAlternatives": ["hard cheese"]
	}`)

	v, err := ClassifyRecord(rec)
	require.NoError(t, err)
	require.NotNil(t, v.Avoid)
	assert.NotNil(t, v.Avoid.WhyAvoidRisk[0].CausesOfRisk)
	assert.Empty(t, v.Avoid.WhyAvoidRisk[0].CausesOfRisk)
}
