package stt

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

type transcriber interface {
	CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
}

// OpenAIProvider transcribes with the hosted Whisper model.
type OpenAIProvider struct {
	client   transcriber
	language string
	log      logrus.FieldLogger
}

// NewOpenAIProvider creates a Whisper provider. baseURL may be empty.
func NewOpenAIProvider(apiKey, baseURL, language string, log logrus.FieldLogger) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIProvider{client: openai.NewClientWithConfig(cfg), language: language, log: log}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Transcribe uploads the audio file to the transcription endpoint.
func (p *OpenAIProvider) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	startTime := time.Now()

	info, err := os.Stat(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}
	log := p.log.WithFields(logrus.Fields{"file": audioPath, "bytes": info.Size()})
	log.Info("Transcribing audio")

	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: audioPath,
		Language: p.language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		log.WithError(err).Error("Whisper transcription failed")
		return &Result{Provider: p.Name()}, fmt.Errorf("OpenAI transcription error: %w", err)
	}

	transcript := strings.TrimSpace(resp.Text)
	if transcript == "" {
		return &Result{Provider: p.Name()}, fmt.Errorf("empty transcript returned")
	}

	duration := time.Since(startTime)
	log.WithFields(logrus.Fields{"chars": len(transcript), "duration": duration.String()}).Info("Transcription successful")
	return &Result{
		Transcript: transcript,
		Language:   resp.Language,
		Provider:   p.Name(),
		Duration:   duration,
	}, nil
}
