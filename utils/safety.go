package utils

import (
	"encoding/json"
	"fmt"

	"preggy/models"
)

// ErrMalformedRecord means a food record's details payload does not match its
// declared safety type. The caller shows a "details unavailable" state and
// logs the record for backend investigation; nothing is partially rendered.
var ErrMalformedRecord = fmt.Errorf("food record details do not match safety type")

// FoodVerdict is the validated view-model handed to rendering. Exactly one of
// the three detail pointers is set, matching SafetyType.
type FoodVerdict struct {
	Name         string               `json:"name"`
	SafetyType   models.SafetyType    `json:"safety_type"`
	Safe         *models.SafeDetails  `json:"safe_details,omitempty"`
	Limit        *models.LimitDetails `json:"limit_details,omitempty"`
	Avoid        *models.AvoidDetails `json:"avoid_details,omitempty"`
	Sources      string               `json:"sources"`
	VerifiedDate string               `json:"verified_date"`
}

// ClassifyRecord validates an untrusted lookup result and selects the one
// rendering variant its tag declares. The tag alone is never trusted: the
// payload must decode into the matching variant and carry that variant's
// required fields. Pure and stateless, safe to call from any render pass.
func ClassifyRecord(rec models.FoodSafetyRecord) (*FoodVerdict, error) {
	v := &FoodVerdict{
		Name:         rec.Name,
		SafetyType:   models.SafetyType(rec.SafetyType),
		Sources:      rec.Sources,
		VerifiedDate: rec.VerifiedDate,
	}
	if len(rec.Details) == 0 {
		return nil, fmt.Errorf("%w: %q has no details payload", ErrMalformedRecord, rec.Name)
	}

	switch models.SafetyType(rec.SafetyType) {
	case models.SafetySafe:
		var d models.SafeDetails
		if err := json.Unmarshal(rec.Details, &d); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
		if len(d.NutritionalBenefits) == 0 || d.PreparationGuidelines == nil {
			return nil, fmt.Errorf("%w: safe record %q missing benefits or preparation guidelines", ErrMalformedRecord, rec.Name)
		}
		v.Safe = &d

	case models.SafetyLimit:
		var d models.LimitDetails
		if err := json.Unmarshal(rec.Details, &d); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
		if len(d.ConsumptionGuidelines) == 0 || d.HealthConsiderations == nil || d.SaferAlternatives == nil {
			return nil, fmt.Errorf("%w: limit record %q missing guideline fields", ErrMalformedRecord, rec.Name)
		}
		v.Limit = &d

	case models.SafetyAvoid:
		var d models.AvoidDetails
		if err := json.Unmarshal(rec.Details, &d); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
		if len(d.WhyAvoidRisk) == 0 {
			return nil, fmt.Errorf("%w: avoid record %q has an empty risk list", ErrMalformedRecord, rec.Name)
		}
		for i, r := range d.WhyAvoidRisk {
			// CausesOfRisk may be empty but must be present on the wire
			if r.Risk == "" || r.CausesOfRisk == nil {
				return nil, fmt.Errorf("%w: avoid record %q risk entry %d incomplete", ErrMalformedRecord, rec.Name, i)
			}
		}
		v.Avoid = &d

	default:
		return nil, fmt.Errorf("%w: unknown safety type %q", ErrMalformedRecord, rec.SafetyType)
	}

	return v, nil
}
