package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
)

type (
	// ReceiptExtraction is the JSON contract produced by the model.
	ReceiptExtraction struct {
		Merchant    Merchant    `json:"merchant"`
		Transaction Transaction `json:"transaction"`
		Items       []Item      `json:"items"`
		Total       Total       `json:"total"`
		Summary     string      `json:"summary"`
	}

	Merchant struct {
		Name    string `json:"name"`
		Address string `json:"address"`
		Contact string `json:"contact"`
	}

	Transaction struct {
		Date          string `json:"date"`
		ReceiptNumber string `json:"receiptNumber"`
		PaymentMethod string `json:"payment_method"`
	}

	Item struct {
		Name     string  `json:"name"`
		Quantity float64 `json:"quantity"`
		Price    float64 `json:"price"`
		Total    float64 `json:"total"`
	}

	Total struct {
		Subtotal float64 `json:"subtotal"`
		Tax      float64 `json:"tax"`
		Total    float64 `json:"total"`
		Currency string  `json:"currency"`
	}
)

// ParseExtraction pulls the JSON object out of the raw model response. Models
// tend to wrap the payload in markdown fences or surround it with prose.
func ParseExtraction(text string) (*ReceiptExtraction, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON object in response")
	}

	text = text[startIdx : endIdx+1]

	var result ReceiptExtraction
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	result.Merchant.Name = strings.TrimSpace(result.Merchant.Name)
	result.Summary = strings.TrimSpace(result.Summary)

	if result.Total.Currency == "" {
		result.Total.Currency = "USD"
	}

	return &result, nil
}
