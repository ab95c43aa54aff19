package extraction

import (
	"Receipt-Radar-Backend/internal/utils"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	maxAttempts = 3
	retryDelay  = time.Second

	// PDFs larger than this are refused before hitting the model.
	maxDocumentSize = 20 << 20
)

type (
	// ExtractionAgent issues a single structured-output request against a hosted
	// multimodal model for the PDF behind fileURL.
	ExtractionAgent interface {
		ExtractReceipt(ctx context.Context, fileURL string) (*ReceiptExtraction, error)
		Close() error
	}

	geminiAgent struct {
		client     *genai.Client
		model      *genai.GenerativeModel
		httpClient *http.Client
	}
)

func NewExtractionAgent() (ExtractionAgent, error) {
	apiKey := utils.GetConfig("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not configured")
	}

	modelName := utils.GetConfig("GEMINI_MODEL")
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.1)

	return &geminiAgent{
		client:     client,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (g *geminiAgent) ExtractReceipt(ctx context.Context, fileURL string) (*ReceiptExtraction, error) {
	document, err := g.fetchDocument(ctx, fileURL)
	if err != nil {
		return nil, fmt.Errorf("fetching receipt document: %w", err)
	}

	parts := []genai.Part{
		genai.Blob{MIMEType: "application/pdf", Data: document},
		genai.Text(receiptExtractionPrompt),
	}

	resp, err := g.generateWithRetry(ctx, parts)
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from gemini")
	}

	var responseText string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText += string(text)
		}
	}

	result, err := ParseExtraction(responseText)
	if err != nil {
		return nil, fmt.Errorf("parsing extraction response: %w", err)
	}

	return result, nil
}

// generateWithRetry retries transient provider failures with backoff. The
// caller's deadline still bounds the whole exchange.
func (g *geminiAgent) generateWithRetry(ctx context.Context, parts []genai.Part) (*genai.GenerateContentResponse, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay << (attempt - 1)):
			}
		}

		resp, err := g.model.GenerateContent(ctx, parts...)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (g *geminiAgent) fetchDocument(ctx context.Context, fileURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s fetching document", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("document exceeds %d bytes", maxDocumentSize)
	}

	return data, nil
}

func (g *geminiAgent) Close() error {
	return g.client.Close()
}
