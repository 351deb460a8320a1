package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// LocalProvider posts audio to a self-hosted Whisper server exposing
// POST /transcribe (multipart field "file") and answering {"text": ...}.
type LocalProvider struct {
	url    string
	client *http.Client
	log    logrus.FieldLogger
}

// NewLocalProvider creates a provider for the Whisper server at baseURL.
func NewLocalProvider(baseURL string, log logrus.FieldLogger) *LocalProvider {
	return &LocalProvider{
		url:    strings.TrimRight(baseURL, "/") + "/transcribe",
		client: &http.Client{Timeout: 10 * time.Minute},
		log:    log,
	}
}

// Name returns the provider name
func (p *LocalProvider) Name() string {
	return "local"
}

type localResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Transcribe sends the audio file to the local server and returns transcript
func (p *LocalProvider) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	startTime := time.Now()

	audio, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}
	defer audio.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	log := p.log.WithFields(logrus.Fields{"file": audioPath, "bytes": body.Len()})
	log.Info("Transcribing audio")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		log.WithError(err).Error("Local Whisper server unreachable")
		return nil, fmt.Errorf("local Whisper server is not reachable at %s: %w", p.url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.WithFields(logrus.Fields{"status": resp.StatusCode, "body": string(raw)}).Error("Local Whisper error")
		return &Result{Provider: p.Name(), RawResponse: string(raw)},
			fmt.Errorf("local Whisper server returned status %d: %s", resp.StatusCode, string(raw))
	}

	var out localResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return &Result{Provider: p.Name(), RawResponse: string(raw)},
			fmt.Errorf("failed to parse local Whisper response: %w", err)
	}

	transcript := strings.TrimSpace(out.Text)
	if transcript == "" {
		return &Result{Provider: p.Name(), RawResponse: string(raw)}, fmt.Errorf("empty transcript returned")
	}

	duration := time.Since(startTime)
	log.WithFields(logrus.Fields{"chars": len(transcript), "duration": duration.String()}).Info("Transcription successful")
	return &Result{
		Transcript:  transcript,
		Language:    out.Language,
		Provider:    p.Name(),
		Duration:    duration,
		RawResponse: string(raw),
	}, nil
}
