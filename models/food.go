package models

// FoodItem is one parsed entry of a user's message, e.g. "яблоко 150 г".
// It only lives for the duration of a single request.
type FoodItem struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// Nutrients are the tracked macro values; used for single items and for sums.
type Nutrients struct {
	Grams    float64 `json:"grams"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

func (n *Nutrients) Add(o Nutrients) {
	n.Grams += o.Grams
	n.Calories += o.Calories
	n.Protein += o.Protein
	n.Fat += o.Fat
	n.Carbs += o.Carbs
}

// NutritionInfo is what a nutrition provider returns for one query.
type NutritionInfo struct {
	Name string `json:"name"`
	Nutrients
}

// Label is a single vision result.
type Label struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}
