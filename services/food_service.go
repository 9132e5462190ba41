package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"preggy/config"
	"preggy/models"
	"preggy/utils"

	"gorm.io/gorm"
)

// FoodService answers the two lookup paths the app exposes: by name and by
// photo. Safety data always comes from the catalog; Edamam and Rekognition
// only help identify what the user is asking about.
type FoodService struct {
	db  *gorm.DB
	eda *EdamamService
	rek *RekognitionService
	gem *GeminiService // optional; nil disables drafting
}

func NewFoodService(eda *EdamamService, rek *RekognitionService, gem *GeminiService) *FoodService {
	return &FoodService{db: config.DB, eda: eda, rek: rek, gem: gem}
}

// Search looks up foods by name, catalog first. On a catalog miss the query
// goes through the Edamam parser so misspellings and brand names still
// resolve to known entries.
func (s *FoodService) Search(query string) ([]models.Food, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	var foods []models.Food
	if err := s.db.Where("name ILIKE ?", "%"+query+"%").Limit(20).Find(&foods).Error; err != nil {
		return nil, err
	}
	if len(foods) > 0 {
		return foods, nil
	}

	hints, err := s.eda.SearchFoods(query)
	if err != nil {
		return nil, err
	}
	for _, h := range hints {
		var f models.Food
		if err := s.db.Where("name ILIKE ?", h.Label).First(&f).Error; err == nil {
			foods = append(foods, f)
		}
	}
	if len(foods) > 0 {
		return foods, nil
	}

	// Unknown to both the catalog and the parser matches: draft a record.
	if s.gem != nil {
		name := query
		if len(hints) > 0 {
			name = hints[0].Label
		}
		if f, err := s.draftAndStore(context.Background(), name); err == nil {
			return []models.Food{*f}, nil
		}
	}
	return []models.Food{}, nil
}

// Recognize turns a base64 food photo into search results via detected labels.
func (s *FoodService) Recognize(dataURI string) ([]models.Food, error) {
	labels, err := s.rek.RecognizeLabels(dataURI)
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("no labels detected")
	}
	return s.Search(labels[0])
}

// Details loads a catalog entry and runs it through the classifier. A record
// whose payload does not match its tag comes back as utils.ErrMalformedRecord
// so the caller can show a "details unavailable" state.
func (s *FoodService) Details(id uint) (*utils.FoodVerdict, error) {
	var f models.Food
	if err := s.db.First(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("food not found")
		}
		return nil, err
	}

	verdict, err := utils.ClassifyRecord(f.Record())
	if err != nil {
		log.Printf("malformed food record id=%d name=%q: %v", f.ID, f.Name, err)
		return nil, err
	}
	return verdict, nil
}

func (s *FoodService) draftAndStore(ctx context.Context, name string) (*models.Food, error) {
	rec, err := s.gem.DraftSafetyRecord(ctx, name)
	if err != nil {
		return nil, err
	}
	f := models.Food{
		Name:         rec.Name,
		SafetyType:   rec.SafetyType,
		Details:      string(rec.Details),
		Sources:      rec.Sources,
		VerifiedDate: rec.VerifiedDate,
		Verified:     false,
	}
	if err := s.db.Create(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}
