package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aadykin95/telegram-food-bot-render/models"
)

const (
	openAIBaseURL      = "https://api.openai.com/v1"
	maxDetectedItems   = 6
	nutritionSystemMsg = "Ты эксперт по питанию и пищевой ценности продуктов. Твоя задача - точно определить калории, белки, жиры, углеводы и вес продуктов."
)

const nutritionPrompt = `Проанализируй следующий продукт питания и верни точную информацию о его пищевой ценности.

Продукт: %s

Верни ответ в строго определённом JSON формате:
{"name": "название продукта", "grams": число_граммов, "calories": число_калорий, "protein": число_граммов_белков, "fat": число_граммов_жиров, "carbs": число_граммов_углеводов}

Важные правила:
1. Если в запросе указано количество (например "150 г банана"), используй это количество
2. Если количество не указано, используй стандартную порцию (обычно 100 г)
3. Все числовые значения должны быть float
4. Название продукта должно быть на русском языке
5. Верни ТОЛЬКО JSON, без дополнительного текста`

const visionPrompt = `Проанализируй это изображение и определи, какие продукты питания на нём изображены, а также их примерное количество или вес.

Верни ответ в строго определённом JSON формате:
{"food_items": [{"name": "название продукта", "amount": "примерное количество или вес"}]}

Правила:
1. Верни только съедобные продукты питания
2. Используй русские названия продуктов
3. Максимум 6 продуктов
4. Если на фото нет еды, верни пустой массив
5. Игнорируй посуду, мебель, одежду и другие непищевые предметы
6. Для количества используй: "1 шт", "2 шт", "150 г", "200 мл", "1 стакан", "1 порция"
7. Если количество определить сложно, используй "1 порция"
8. Верни ТОЛЬКО JSON, без дополнительного текста`

// OpenAIService is the integrated provider: nutrition lookup and photo
// recognition through chat completions.
type OpenAIService struct {
	apiKey      string
	baseURL     string
	model       string
	visionModel string
	client      *http.Client
}

func NewOpenAIService(apiKey, baseURL, model, visionModel string) *OpenAIService {
	if baseURL == "" {
		baseURL = openAIBaseURL
	}
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	if visionModel == "" {
		visionModel = "gpt-4o"
	}
	return &OpenAIService{
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		visionModel: visionModel,
		client:      &http.Client{Timeout: 60 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (s *OpenAIService) chat(ctx context.Context, cr chatRequest) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not configured")
	}
	b, err := json.Marshal(cr)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, string(body))
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// flexFloat accepts 12.5, "12.5" and "12,5".
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", b)
	}
	*f = flexFloat(v)
	return nil
}

type nutritionAnswer struct {
	Name     string    `json:"name"`
	Grams    flexFloat `json:"grams"`
	Calories flexFloat `json:"calories"`
	Protein  flexFloat `json:"protein"`
	Fat      flexFloat `json:"fat"`
	Carbs    flexFloat `json:"carbs"`
}

func (s *OpenAIService) Lookup(ctx context.Context, query string) (*models.NutritionInfo, error) {
	content, err := s.chat(ctx, chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: nutritionSystemMsg},
			{Role: "user", Content: fmt.Sprintf(nutritionPrompt, query)},
		},
		MaxTokens:   200,
		Temperature: 0.1,
	})
	if err != nil {
		return nil, err
	}

	raw, ok := extractJSON(content)
	if !ok {
		return nil, fmt.Errorf("no JSON object in answer: %q", content)
	}
	var a nutritionAnswer
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, fmt.Errorf("failed to parse nutrition JSON: %w", err)
	}
	if a.Calories == 0 && a.Grams == 0 {
		return nil, ErrNotFound
	}

	name := strings.TrimSpace(a.Name)
	if name == "" {
		name = query
	}
	return &models.NutritionInfo{
		Name: name,
		Nutrients: models.Nutrients{
			Grams:    float64(a.Grams),
			Calories: float64(a.Calories),
			Protein:  float64(a.Protein),
			Fat:      float64(a.Fat),
			Carbs:    float64(a.Carbs),
		},
	}, nil
}

// DetectLabels asks the vision model for food on the image. Each label is
// "<name> <amount>" so the quantity parser can pick the amount up later.
func (s *OpenAIService) DetectLabels(ctx context.Context, image []byte) ([]models.Label, error) {
	dataURI := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)
	content, err := s.chat(ctx, chatRequest{
		Model: s.visionModel,
		Messages: []chatMessage{{
			Role: "user",
			Content: []map[string]any{
				{"type": "text", "text": visionPrompt},
				{"type": "image_url", "image_url": map[string]string{"url": dataURI}},
			},
		}},
		MaxTokens:   300,
		Temperature: 0.1,
	})
	if err != nil {
		return nil, err
	}

	raw, ok := extractJSON(content)
	if !ok {
		return nil, fmt.Errorf("no JSON object in vision answer: %q", content)
	}
	var answer struct {
		FoodItems []json.RawMessage `json:"food_items"`
	}
	if err := json.Unmarshal([]byte(raw), &answer); err != nil {
		return nil, fmt.Errorf("failed to parse vision JSON: %w", err)
	}

	seen := map[string]bool{}
	var labels []models.Label
	for _, it := range answer.FoodItems {
		name, amount := decodeVisionItem(it)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		labels = append(labels, models.Label{Name: name + " " + amount, Confidence: 1})
		if len(labels) == maxDetectedItems {
			break
		}
	}
	return labels, nil
}

func decodeVisionItem(raw json.RawMessage) (name, amount string) {
	var obj struct {
		Name   string `json:"name"`
		Amount string `json:"amount"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		// older answers are plain strings
		var plain string
		if json.Unmarshal(raw, &plain) != nil {
			return "", ""
		}
		obj.Name = plain
	}
	amount = strings.TrimSpace(obj.Amount)
	if amount == "" {
		amount = "1 порция"
	}
	return strings.ToLower(strings.TrimSpace(obj.Name)), amount
}

// extractJSON cuts the outermost {...} out of a model answer.
func extractJSON(content string) (string, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return content[start : end+1], true
}
