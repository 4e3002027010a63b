package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/aadykin95/telegram-food-bot-render/models"
)

const edamamBaseURL = "https://api.edamam.com"

// NutritionProvider looks up macros for a single "<quantity> <food>" query.
type NutritionProvider interface {
	Lookup(ctx context.Context, query string) (*models.NutritionInfo, error)
}

type EdamamService struct {
	appID, appKey string
	baseURL       string
	client        *http.Client
}

// NewEdamamService initializes the EdamamService with credentials and HTTP client
func NewEdamamService(appID, appKey string) *EdamamService {
	return &EdamamService{
		appID:   appID,
		appKey:  appKey,
		baseURL: edamamBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL points the client at another host (tests, proxies).
func (s *EdamamService) WithBaseURL(u string) *EdamamService {
	s.baseURL = u
	return s
}

type nutritionDataResponse struct {
	Calories       float64 `json:"calories"`
	TotalWeight    float64 `json:"totalWeight"`
	TotalNutrients map[string]struct {
		Quantity float64 `json:"quantity"`
	} `json:"totalNutrients"`
	Ingredients []struct {
		Parsed []struct {
			Food string `json:"food"`
		} `json:"parsed"`
	} `json:"ingredients"`
}

// Lookup calls the Edamam Nutrition Analysis endpoint for one ingredient line.
func (s *EdamamService) Lookup(ctx context.Context, query string) (*models.NutritionInfo, error) {
	u := fmt.Sprintf(
		"%s/api/nutrition-data?app_id=%s&app_key=%s&nutrition-type=logging&ingr=%s",
		s.baseURL, url.QueryEscape(s.appID), url.QueryEscape(s.appKey), url.QueryEscape(query),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create nutrition request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Edamam nutrition API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read nutrition response: %w", err)
	}
	// Edamam answers 555 when it cannot parse the ingredient
	if resp.StatusCode == 555 {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("edamam nutrition API error %d: %s", resp.StatusCode, string(body))
	}

	var nr nutritionDataResponse
	if err := json.Unmarshal(body, &nr); err != nil {
		return nil, fmt.Errorf("failed to parse nutrition JSON: %w", err)
	}
	if nr.TotalWeight == 0 && nr.Calories == 0 {
		return nil, ErrNotFound
	}

	name := query
	if len(nr.Ingredients) > 0 && len(nr.Ingredients[0].Parsed) > 0 && nr.Ingredients[0].Parsed[0].Food != "" {
		name = nr.Ingredients[0].Parsed[0].Food
	}

	calories := nr.Calories
	if calories == 0 {
		calories = nr.TotalNutrients["ENERC_KCAL"].Quantity
	}
	return &models.NutritionInfo{
		Name: name,
		Nutrients: models.Nutrients{
			Grams:    nr.TotalWeight,
			Calories: calories,
			Protein:  nr.TotalNutrients["PROCNT"].Quantity,
			Fat:      nr.TotalNutrients["FAT"].Quantity,
			Carbs:    nr.TotalNutrients["CHOCDF"].Quantity,
		},
	}, nil
}
