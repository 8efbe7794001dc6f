package recipe

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/socialchef/recipebook/internal/errors"
	"github.com/socialchef/recipebook/internal/services/ai"
)

type MockModel struct {
	mock.Mock
}

func (m *MockModel) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, parts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*genai.GenerateContentResponse), args.Error(1)
}

type nopCloser struct{ closed bool }

func (c *nopCloser) Close() error {
	c.closed = true
	return nil
}

func textResponse(texts ...string) *genai.GenerateContentResponse {
	parts := make([]genai.Part, 0, len(texts))
	for _, t := range texts {
		parts = append(parts, genai.Text(t))
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Role: "model", Parts: parts}}},
	}
}

// newTestGeminiProvider returns a provider whose model factory records the
// options and key it was opened with.
func newTestGeminiProvider(model *MockModel) (*GeminiProvider, *modelOptions, *string, *nopCloser) {
	var gotOpts modelOptions
	var gotKey string
	closer := &nopCloser{}
	p := NewGeminiProvider("gemini-2.5-flash")
	p.newModel = func(ctx context.Context, apiKey string, opts modelOptions) (generativeModel, io.Closer, error) {
		gotOpts = opts
		gotKey = apiKey
		return model, closer, nil
	}
	return p, &gotOpts, &gotKey, closer
}

func TestGeminiProvider_ExtractRecipe_Fenced(t *testing.T) {
	model := &MockModel{}
	model.On("GenerateContent", mock.Anything, mock.Anything).
		Return(textResponse("```json\n{\"name\":\"味噌汁\",\"ingredients\":\"豆腐\\nわかめ\",\"instructions\":\"溶く\"}\n```"), nil)

	p, opts, key, closer := newTestGeminiProvider(model)

	r, err := p.ExtractRecipe(context.Background(), "gm-key", "味噌汁の作り方")
	require.NoError(t, err)

	assert.Equal(t, "味噌汁", r.Name)
	assert.Equal(t, "豆腐\nわかめ", r.Ingredients)
	assert.Equal(t, "gm-key", *key)
	assert.Equal(t, "gemini-2.5-flash", opts.name)
	assert.Equal(t, ai.RecipeExtractionPrompt, opts.systemInstruction)
	assert.True(t, closer.closed)

	parts := model.Calls[0].Arguments.Get(1).([]genai.Part)
	require.Len(t, parts, 1)
	assert.Equal(t, genai.Text(ai.BuildExtractionRequest("味噌汁の作り方")), parts[0])
}

func TestGeminiProvider_ExtractRecipe_FencedEqualsPlain(t *testing.T) {
	body := `{"name":"焼きそば","ingredients":"麺\nキャベツ","instructions":"炒める"}`

	plainModel := &MockModel{}
	plainModel.On("GenerateContent", mock.Anything, mock.Anything).Return(textResponse(body), nil)
	fencedModel := &MockModel{}
	fencedModel.On("GenerateContent", mock.Anything, mock.Anything).Return(textResponse("```json\n"+body+"\n```"), nil)

	plainProvider, _, _, _ := newTestGeminiProvider(plainModel)
	fencedProvider, _, _, _ := newTestGeminiProvider(fencedModel)

	a, err := plainProvider.ExtractRecipe(context.Background(), "k", "text")
	require.NoError(t, err)
	b, err := fencedProvider.ExtractRecipe(context.Background(), "k", "text")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGeminiProvider_ExtractRecipe_MultiPartText(t *testing.T) {
	model := &MockModel{}
	model.On("GenerateContent", mock.Anything, mock.Anything).
		Return(textResponse(`{"name":"a",`, `"ingredients":"b","instructions":"c"}`), nil)

	p, _, _, _ := newTestGeminiProvider(model)

	r, err := p.ExtractRecipe(context.Background(), "k", "text")
	require.NoError(t, err)
	assert.Equal(t, "c", r.Instructions)
}

func TestGeminiProvider_ExtractRecipe_CallFails(t *testing.T) {
	model := &MockModel{}
	model.On("GenerateContent", mock.Anything, mock.Anything).Return(nil, errors.New("googleapi: Error 429: quota"))

	p, _, _, _ := newTestGeminiProvider(model)

	_, err := p.ExtractRecipe(context.Background(), "k", "text")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExtraction))
	assert.Equal(t, ErrorClassRateLimit, ClassifyError(err, "gemini").Type)
}

func TestGeminiProvider_ExtractRecipe_NoCandidates(t *testing.T) {
	model := &MockModel{}
	model.On("GenerateContent", mock.Anything, mock.Anything).Return(&genai.GenerateContentResponse{}, nil)

	p, _, _, _ := newTestGeminiProvider(model)

	_, err := p.ExtractRecipe(context.Background(), "k", "text")
	require.Error(t, err)
	assert.Equal(t, "AI model did not return a result.", err.Error())
}

func TestGeminiProvider_ClassifyFile(t *testing.T) {
	model := &MockModel{}
	model.On("GenerateContent", mock.Anything, mock.Anything).
		Return(textResponse("Here is the result:\n{\"type\":\"url_list\",\"data\":[\"https://cookpad.com/recipe/1\",\"https://example.com/2\"]}"), nil)

	p, opts, _, _ := newTestGeminiProvider(model)
	data := []byte{0x89, 'P', 'N', 'G'}

	c, err := p.ClassifyFile(context.Background(), "gm-key", data, "image/png")
	require.NoError(t, err)

	assert.Equal(t, ClassificationURLList, c.Type)
	assert.Equal(t, []string{"https://cookpad.com/recipe/1", "https://example.com/2"}, c.URLs)
	assert.Empty(t, opts.systemInstruction)

	parts := model.Calls[0].Arguments.Get(1).([]genai.Part)
	require.Len(t, parts, 2)
	assert.Equal(t, genai.Text(ai.FileClassificationPrompt), parts[0])
	assert.Equal(t, genai.Blob{MIMEType: "image/png", Data: data}, parts[1])
}

func TestGeminiProvider_ClassifyFile_Failures(t *testing.T) {
	t.Run("call error", func(t *testing.T) {
		model := &MockModel{}
		model.On("GenerateContent", mock.Anything, mock.Anything).Return(nil, errors.New("deadline exceeded"))
		p, _, _, _ := newTestGeminiProvider(model)

		_, err := p.ClassifyFile(context.Background(), "k", []byte("%PDF"), "application/pdf")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeClassification))
	})

	t.Run("no json object", func(t *testing.T) {
		model := &MockModel{}
		model.On("GenerateContent", mock.Anything, mock.Anything).Return(textResponse("unreadable"), nil)
		p, _, _, _ := newTestGeminiProvider(model)

		_, err := p.ClassifyFile(context.Background(), "k", []byte("%PDF"), "application/pdf")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeClassification))
	})
}

func TestGeminiProvider_FactoryError(t *testing.T) {
	p := NewGeminiProvider("gemini-2.5-flash")
	p.newModel = func(ctx context.Context, apiKey string, opts modelOptions) (generativeModel, io.Closer, error) {
		return nil, nil, errors.New("invalid option")
	}

	_, err := p.ExtractRecipe(context.Background(), "k", "text")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExtraction))
}
