package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kdduha/kolam-knowledge/internal/config"
	"github.com/kdduha/kolam-knowledge/internal/models"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"
)

const (
	systemPromptKnowledge = `
You are a guide to Kolam, the traditional floor-pattern art of South India.
Answer the user's question briefly and clearly. Mention pattern types, materials
or rituals when they are relevant.`

	imagePromptTemplate = "A clean top-down kolam drawing in white rice flour on a dark floor, illustrating: %s"
)

// OpenAISource answers queries with an OpenAI-compatible model server.
type OpenAISource struct {
	logger     *zap.Logger
	client     openai.Client
	modelName  string
	imageModel string
}

func NewOpenAISource(logger *zap.Logger, cfg config.OpenAIConfig, opts ...option.RequestOption) *OpenAISource {
	opts = append([]option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
	}, opts...)
	return &OpenAISource{
		logger:     logger,
		client:     openai.NewClient(opts...),
		modelName:  cfg.Model,
		imageModel: cfg.ImageModel,
	}
}

func (o *OpenAISource) Query(ctx context.Context, req *models.KnowledgeRequest) (*models.KnowledgeResponse, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(o.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPromptKnowledge),
			openai.UserMessage(req.Query),
		},
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("OpenAI client error: %w", openAIError(err))
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrInvalidResponse)
	}

	out := &models.KnowledgeResponse{
		Explanation: resp.Choices[0].Message.Content,
	}

	if req.GenerateImage && o.imageModel != "" {
		img, err := o.generateImage(ctx, req.Query)
		if err != nil {
			o.logger.Warn("image generation failed", zap.Error(err))
		} else if img != "" {
			out.ImageBase64 = &img
		}
	}
	return out, nil
}

func (o *OpenAISource) generateImage(ctx context.Context, query string) (string, error) {
	resp, err := o.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         fmt.Sprintf(imagePromptTemplate, strings.TrimSpace(query)),
		Model:          openai.ImageModel(o.imageModel),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	})
	if err != nil {
		return "", openAIError(err)
	}
	if len(resp.Data) == 0 {
		return "", nil
	}
	return resp.Data[0].B64JSON, nil
}

func (o *OpenAISource) Health(ctx context.Context) (*models.HealthResponse, error) {
	page, err := o.client.Models.List(ctx)
	if err != nil {
		return nil, openAIError(err)
	}
	return &models.HealthResponse{
		Status: fmt.Sprintf("healthy, %d models", len(page.Data)),
	}, nil
}

func openAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &StatusError{Code: apiErr.StatusCode, Body: apiErr.Message}
	}
	return transportError(err)
}
