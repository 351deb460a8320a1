package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"inspectme/internal/storage"
	"inspectme/internal/utils"
)

// uploadRecording handles audio file upload
func (s *Server) uploadRecording(c *gin.Context) {
	file, err := c.FormFile("audio_file")
	if err != nil {
		// Try alternative field names
		if file, err = c.FormFile("audio"); err != nil {
			if file, err = c.FormFile("file"); err != nil {
				utils.Error(c, http.StatusBadRequest, "audio_file is required")
				return
			}
		}
	}

	rec, err := s.Recordings.SaveAudio(file)
	switch {
	case errors.Is(err, storage.ErrUnsupportedAudio), errors.Is(err, storage.ErrTooLarge):
		utils.Error(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.Log.WithError(err).Error("Failed to save audio")
		utils.Error(c, http.StatusInternalServerError, "failed to save audio file")
		return
	}

	s.Log.WithFields(logrus.Fields{"recording_id": rec.ID, "bytes": rec.Size}).Info("Audio uploaded")
	utils.Success(c, gin.H{
		"recording_id": rec.ID,
		"status":       rec.Status,
		"name":         rec.Name,
		"size_bytes":   rec.Size,
	})
}

// getRecording returns a recording and its transcript
func (s *Server) getRecording(c *gin.Context) {
	rec, ok := s.Recordings.GetRecording(c.Param("id"))
	if !ok {
		utils.Error(c, http.StatusNotFound, "recording not found")
		return
	}
	utils.Success(c, gin.H{"recording": rec})
}

// listRecordings returns the recording library, newest first
func (s *Server) listRecordings(c *gin.Context) {
	items := s.Recordings.List()
	utils.Success(c, gin.H{
		"items": items,
		"count": len(items),
	})
}

// RenameRecordingRequest represents the request body for renaming a recording
type RenameRecordingRequest struct {
	Name string `json:"name" binding:"required"`
}

// renameRecording changes the display name of a recording
func (s *Server) renameRecording(c *gin.Context) {
	var req RenameRecordingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "name is required")
		return
	}
	rec, err := s.Recordings.Rename(c.Param("id"), req.Name)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		utils.Error(c, http.StatusNotFound, "recording not found")
		return
	case err != nil:
		utils.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	utils.Success(c, gin.H{"recording": rec})
}

// deleteRecording removes a recording and its audio file
func (s *Server) deleteRecording(c *gin.Context) {
	id := c.Param("id")
	err := s.Recordings.Delete(id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		utils.Error(c, http.StatusNotFound, "recording not found")
		return
	case err != nil:
		s.Log.WithError(err).WithField("recording_id", id).Error("Failed to delete recording")
		utils.Error(c, http.StatusInternalServerError, "failed to delete recording")
		return
	}
	s.Log.WithField("recording_id", id).Info("Recording deleted")
	utils.Success(c, gin.H{"id": id, "deleted": true})
}

// transcribeRecording runs speech-to-text and appends the result to the
// recording transcript
func (s *Server) transcribeRecording(c *gin.Context) {
	if s.STT == nil {
		utils.Error(c, http.StatusServiceUnavailable, "speech-to-text is not configured")
		return
	}
	id := c.Param("id")
	rec, ok := s.Recordings.GetRecording(id)
	if !ok {
		utils.Error(c, http.StatusNotFound, "recording not found")
		return
	}
	if rec.Status == storage.StatusTranscribing {
		utils.Error(c, http.StatusConflict, "recording is already being transcribed")
		return
	}

	s.Recordings.UpdateStatus(id, storage.StatusTranscribing)
	ctx, cancel := s.requestContext(c)
	defer cancel()

	result, err := s.STT.Transcribe(ctx, rec.Path)
	if err != nil {
		s.Log.WithError(err).WithField("recording_id", id).Error("Transcription failed")
		s.Recordings.UpdateError(id, err.Error())
		utils.Error(c, http.StatusBadGateway, "transcription failed: "+err.Error())
		return
	}

	rec, err = s.Recordings.AppendTranscript(id, result.Transcript)
	if err != nil {
		utils.Error(c, http.StatusNotFound, err.Error())
		return
	}
	utils.Success(c, gin.H{
		"recording_id":       id,
		"status":             rec.Status,
		"provider":           result.Provider,
		"added_text":         result.Transcript,
		"transcript":         rec.Transcript,
		"processing_time_ms": result.Duration.Milliseconds(),
	})
}

// UpdateTranscriptRequest represents the request body for editing a transcript
type UpdateTranscriptRequest struct {
	Transcript *string `json:"transcript" binding:"required"`
}

// updateTranscript replaces the transcript with the user's edited version
func (s *Server) updateTranscript(c *gin.Context) {
	var req UpdateTranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "transcript is required")
		return
	}
	rec, err := s.Recordings.SetTranscript(c.Param("id"), *req.Transcript)
	if err != nil {
		utils.Error(c, http.StatusNotFound, "recording not found")
		return
	}
	utils.Success(c, gin.H{"recording": rec})
}
