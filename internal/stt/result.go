package stt

import "time"

// Result represents the result of a speech-to-text transcription
type Result struct {
	Transcript  string        // The transcribed text
	Language    string        // Language reported by the provider, may be empty
	Provider    string        // The provider used (e.g., "openai", "local")
	Duration    time.Duration // Wall time spent transcribing
	RawResponse string        // Raw response from the provider (for debugging/logging)
}
