package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// EdamamService identifies foods by free-text query via the Edamam Food
// Database parser. It is only used for identification; safety data comes
// from our own catalog.
type EdamamService struct {
	appID, appKey string
	baseURL       string
	client        *http.Client
}

func NewEdamamService() *EdamamService {
	return &EdamamService{
		appID:   os.Getenv("EDAMAM_APP_ID"),
		appKey:  os.Getenv("EDAMAM_APP_KEY"),
		baseURL: "https://api.edamam.com/api/food-database/v2/parser",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// FoodHint is one identification candidate from the parser.
type FoodHint struct {
	FoodID   string
	Label    string
	Category string
}

type foodParserResponse struct {
	Hints []struct {
		Food struct {
			FoodID   string `json:"foodId"`
			Label    string `json:"label"`
			Category string `json:"category"`
		} `json:"food"`
	} `json:"hints"`
}

func (s *EdamamService) SearchFoods(query string) ([]FoodHint, error) {
	u := fmt.Sprintf("%s?ingr=%s&app_id=%s&app_key=%s",
		s.baseURL, url.QueryEscape(query), s.appID, s.appKey)

	resp, err := s.client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("failed to call Edamam parser: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Edamam parser response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("edamam parser API error %d: %s", resp.StatusCode, string(body))
	}

	var pr foodParserResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("failed to parse Edamam parser JSON: %w", err)
	}

	hints := make([]FoodHint, 0, len(pr.Hints))
	for _, h := range pr.Hints {
		hints = append(hints, FoodHint{
			FoodID:   h.Food.FoodID,
			Label:    h.Food.Label,
			Category: h.Food.Category,
		})
	}
	return hints, nil
}
