package recipe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/socialchef/recipebook/internal/errors"
	"github.com/socialchef/recipebook/internal/httpclient"
	"github.com/socialchef/recipebook/internal/metrics"
	"github.com/socialchef/recipebook/internal/services/ai"
)

const openAIChatURL = "https://api.openai.com/v1/chat/completions"

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float32         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// OpenAIProvider extracts recipes through the chat completions API in JSON mode.
type OpenAIProvider struct {
	baseURL     string
	model       string
	temperature float32
	httpClient  *http.Client
}

// NewOpenAIProvider creates a new OpenAI recipe provider
func NewOpenAIProvider(model string, temperature float32, httpClient *http.Client) *OpenAIProvider {
	if httpClient == nil {
		httpClient = httpclient.New(0)
	}
	return &OpenAIProvider{
		baseURL:     openAIChatURL,
		model:       model,
		temperature: temperature,
		httpClient:  httpClient,
	}
}

// ExtractRecipe sends text to the chat completions endpoint and validates the answer.
func (p *OpenAIProvider) ExtractRecipe(ctx context.Context, apiKey, text string) (*Recipe, error) {
	raw, err := p.chat(ctx, apiKey, ai.RecipeExtractionPrompt, ai.BuildExtractionRequest(text))
	if err != nil {
		return nil, apperrors.NewExtractionError("OpenAI API Error", "EXTRACTION_PROVIDER_FAILED", err)
	}
	return ParseRecipe(raw)
}

func (p *OpenAIProvider) chat(ctx context.Context, apiKey, systemPrompt, userContent string) (content string, err error) {
	startTime := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.RecordGeneration(ctx, string(ProviderOpenAI), startTime)
		metrics.RecordExternalCall(ctx, string(ProviderOpenAI), outcome, startTime)
	}()

	req := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContent},
		},
		Temperature:    p.temperature,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(httpclient.WithTarget(ctx, "openai"), http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse chat response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", nil
	}

	return chatResp.Choices[0].Message.Content, nil
}
