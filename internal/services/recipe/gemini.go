package recipe

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	apperrors "github.com/socialchef/recipebook/internal/errors"
	"github.com/socialchef/recipebook/internal/metrics"
	"github.com/socialchef/recipebook/internal/services/ai"
)

// generativeModel is the part of *genai.GenerativeModel the provider uses.
type generativeModel interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type modelOptions struct {
	name              string
	systemInstruction string
}

// modelFactory opens a model bound to one API key. The returned closer
// releases the underlying client.
type modelFactory func(ctx context.Context, apiKey string, opts modelOptions) (generativeModel, io.Closer, error)

func newGenaiModel(ctx context.Context, apiKey string, opts modelOptions) (generativeModel, io.Closer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, nil, err
	}
	model := client.GenerativeModel(opts.name)
	if opts.systemInstruction != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(opts.systemInstruction)},
		}
	}
	return model, client, nil
}

// GeminiProvider extracts recipes from text and classifies uploaded files.
// It is the only provider with the FileClassifier capability.
type GeminiProvider struct {
	model    string
	newModel modelFactory
}

// NewGeminiProvider creates a new Gemini recipe provider
func NewGeminiProvider(model string) *GeminiProvider {
	return &GeminiProvider{
		model:    model,
		newModel: newGenaiModel,
	}
}

// ExtractRecipe asks Gemini for the recipe JSON, tolerating a markdown fence
// around the answer.
func (p *GeminiProvider) ExtractRecipe(ctx context.Context, apiKey, text string) (*Recipe, error) {
	raw, err := p.generate(ctx, apiKey, modelOptions{
		name:              p.model,
		systemInstruction: ai.RecipeExtractionPrompt,
	}, genai.Text(ai.BuildExtractionRequest(text)))
	if err != nil {
		return nil, apperrors.NewExtractionError("Gemini API Error", "EXTRACTION_PROVIDER_FAILED", err)
	}
	return ParseRecipe(ai.StripCodeFence(raw))
}

// ClassifyFile sends the file inline with the classification prompt.
func (p *GeminiProvider) ClassifyFile(ctx context.Context, apiKey string, data []byte, mimeType string) (*Classification, error) {
	raw, err := p.generate(ctx, apiKey, modelOptions{name: p.model},
		genai.Text(ai.FileClassificationPrompt),
		genai.Blob{MIMEType: mimeType, Data: data},
	)
	if err != nil {
		return nil, apperrors.NewClassificationError(msgClassifyFailed, "CLASSIFICATION_PROVIDER_FAILED", err)
	}

	result, err := parseClassification(raw)
	if err != nil {
		return nil, err
	}
	metrics.RecordClassification(ctx, string(result.Type))
	return result, nil
}

func (p *GeminiProvider) generate(ctx context.Context, apiKey string, opts modelOptions, parts ...genai.Part) (text string, err error) {
	startTime := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.RecordGeneration(ctx, string(ProviderGemini), startTime)
		metrics.RecordExternalCall(ctx, string(ProviderGemini), outcome, startTime)
	}()

	model, closer, err := p.newModel(ctx, apiKey, opts)
	if err != nil {
		return "", err
	}
	if closer != nil {
		defer closer.Close()
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", err
	}
	return responseText(resp), nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}
