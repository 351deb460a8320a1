package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// DefaultModel is used when neither the prompt nor the config name one.
const DefaultModel = openai.GPT4oMini

// OpenAIGenerator calls an OpenAI-compatible chat completion endpoint.
type OpenAIGenerator struct {
	client       chatClient
	defaultModel string
	log          logrus.FieldLogger
}

type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewOpenAIGenerator creates a generator. baseURL may be empty for the
// public OpenAI API, or point at any compatible endpoint.
func NewOpenAIGenerator(apiKey, baseURL, defaultModel string, log logrus.FieldLogger) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return newOpenAIGenerator(openai.NewClientWithConfig(cfg), defaultModel, log), nil
}

func newOpenAIGenerator(client chatClient, defaultModel string, log logrus.FieldLogger) *OpenAIGenerator {
	if defaultModel == "" {
		defaultModel = DefaultModel
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &OpenAIGenerator{client: client, defaultModel: defaultModel, log: log}
}

// Generate sends the prompt as a system and a user message.
func (g *OpenAIGenerator) Generate(ctx context.Context, p Prompt) (Completion, error) {
	model := p.Model
	if model == "" {
		model = g.defaultModel
	}

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: p.System,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: p.User,
			},
		},
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
	}
	if p.Schema != nil {
		name := p.SchemaName
		if name == "" {
			name = "response"
		}
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   name,
				Schema: p.Schema,
				Strict: false,
			},
		}
	}

	log := g.log.WithFields(logrus.Fields{
		"model":       model,
		"prompt_len":  len(p.System) + len(p.User),
		"json_schema": p.Schema != nil,
	})
	log.Debug("Calling OpenAI chat completion")

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.WithError(err).Warn("OpenAI API error")
		return Completion{}, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Completion{}, errors.New("OpenAI returned no choices")
	}

	out := Completion{
		Text:             resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}
	log.WithFields(logrus.Fields{
		"response_len":      len(out.Text),
		"prompt_tokens":     out.PromptTokens,
		"completion_tokens": out.CompletionTokens,
		"total_tokens":      resp.Usage.TotalTokens,
	}).Info("OpenAI response received")
	return out, nil
}
