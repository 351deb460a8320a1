package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Job statuses.
const (
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// InspectionJob represents one pipeline run kept in the history
type InspectionJob struct {
	ID               uuid.UUID       `json:"id"`
	RecordingID      *string         `json:"recording_id,omitempty"`
	Status           string          `json:"status"`
	RawTranscript    string          `json:"raw_transcript"`
	CleanedText      *string         `json:"cleaned_text,omitempty"`
	StructuredData   json.RawMessage `json:"structured_data,omitempty"`
	ErrorMessage     *string         `json:"error_message,omitempty"`
	FailedStage      *string         `json:"failed_stage,omitempty"`
	ProcessingTimeMs *int            `json:"processing_time_ms,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}
