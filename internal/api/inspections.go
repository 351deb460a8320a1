package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"inspectme/internal/export"
	"inspectme/internal/inspection"
	"inspectme/internal/model"
	"inspectme/internal/utils"
)

type CleanRequest struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

type StructureRequest struct {
	CleanedText string `json:"cleaned_text"`
	Model       string `json:"model"`
}

type ExportRequest struct {
	StructuredData json.RawMessage `json:"structured_data"`
}

type RunRequest struct {
	Text           string `json:"text"`
	RecordingID    string `json:"recording_id"`
	NormalizeModel string `json:"normalize_model"`
	StructureModel string `json:"structure_model"`
}

type workbook struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

func workbookPayload(files []export.File) []workbook {
	out := make([]workbook, len(files))
	for i, f := range files {
		out[i] = workbook{Name: f.Name, ContentType: export.ContentType, Data: f.Data}
	}
	return out
}

func (s *Server) requirePipeline(c *gin.Context) bool {
	if s.Pipeline == nil {
		utils.Error(c, http.StatusServiceUnavailable, "language model is not configured (OPENAI_API_KEY)")
		return false
	}
	return true
}

// cleanTranscript runs the normalize stage
func (s *Server) cleanTranscript(c *gin.Context) {
	var req CleanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if !s.requirePipeline(c) {
		return
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()

	narrative, err := s.Pipeline.Normalizer.NormalizeWithModel(ctx, req.Text, req.Model)
	if err != nil {
		respondStageError(c, err, nil)
		return
	}
	utils.Success(c, gin.H{"cleaned_text": narrative})
}

// structureNarrative runs the structure stage
func (s *Server) structureNarrative(c *gin.Context) {
	var req StructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if !s.requirePipeline(c) {
		return
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()

	rec, err := s.Pipeline.Structurer.StructureWithModel(ctx, inspection.Narrative(req.CleanedText), req.Model)
	if err != nil {
		respondStageError(c, err, nil)
		return
	}
	utils.Success(c, gin.H{"structured_data": rec})
}

// exportRecord tabulates a record and renders both workbooks
func (s *Server) exportRecord(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.StructuredData) == 0 || string(req.StructuredData) == "null" {
		utils.Error(c, http.StatusBadRequest, "structured_data is required")
		return
	}
	rec, err := inspection.DecodeRecord(req.StructuredData)
	if err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, "invalid structured_data: "+err.Error())
		return
	}

	rows := s.tabulator().Tabulate(rec)
	files, err := s.workbooks(rows)
	if err != nil {
		s.Log.WithError(err).Error("Workbook generation failed")
		utils.Error(c, http.StatusInternalServerError, "failed to generate workbooks")
		return
	}
	utils.Success(c, gin.H{
		"rows":  rows,
		"files": workbookPayload(files),
	})
}

// runInspection runs the whole pipeline on text or a recording transcript
// and records the job in the history
func (s *Server) runInspection(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	text := req.Text
	var recordingID *string
	if req.RecordingID != "" {
		rec, ok := s.Recordings.GetRecording(req.RecordingID)
		if !ok {
			utils.Error(c, http.StatusNotFound, "recording not found")
			return
		}
		if text == "" {
			text = rec.Transcript
		}
		recordingID = &req.RecordingID
	}
	if !s.requirePipeline(c) {
		return
	}

	job := &model.InspectionJob{
		ID:            uuid.New(),
		RecordingID:   recordingID,
		Status:        model.JobStatusProcessing,
		RawTranscript: text,
		CreatedAt:     time.Now().UTC(),
	}
	log := s.Log.WithField("job_id", job.ID)
	if err := s.Jobs.Create(c.Request.Context(), job); err != nil {
		log.WithError(err).Warn("Failed to record inspection job")
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	startTime := time.Now()
	result, err := s.Pipeline.Run(ctx, text,
		inspection.WithModels(req.NormalizeModel, req.StructureModel),
		inspection.WithProgress(func(stage inspection.Stage, elapsed time.Duration) {
			log.WithFields(logrus.Fields{"stage": stage, "elapsed": elapsed.String()}).Info("Stage finished")
		}),
	)
	elapsedMs := int(time.Since(startTime).Milliseconds())

	if err != nil {
		update := &model.InspectionJob{
			ID:               job.ID,
			Status:           model.JobStatusFailed,
			ProcessingTimeMs: &elapsedMs,
		}
		msg := err.Error()
		update.ErrorMessage = &msg
		var se *inspection.StageError
		if errors.As(err, &se) {
			stage := string(se.Stage)
			update.FailedStage = &stage
		}
		s.saveResult(c, update)
		respondStageError(c, err, gin.H{"job_id": job.ID})
		return
	}

	files, err := s.workbooks(result.Export)
	if err != nil {
		log.WithError(err).Error("Workbook generation failed")
		msg := "failed to generate workbooks: " + err.Error()
		s.saveResult(c, &model.InspectionJob{
			ID:               job.ID,
			Status:           model.JobStatusFailed,
			ErrorMessage:     &msg,
			ProcessingTimeMs: &elapsedMs,
		})
		utils.ErrorWithDetails(c, http.StatusInternalServerError, "failed to generate workbooks", gin.H{"job_id": job.ID})
		return
	}

	update := &model.InspectionJob{
		ID:               job.ID,
		Status:           model.JobStatusCompleted,
		ProcessingTimeMs: &elapsedMs,
	}
	cleaned := string(result.Narrative)
	update.CleanedText = &cleaned
	if data, err := json.Marshal(result.Record); err != nil {
		log.WithError(err).Error("Failed to encode structured record for history")
	} else {
		update.StructuredData = data
	}
	s.saveResult(c, update)

	log.WithFields(logrus.Fields{
		"rooms":    len(result.Record.Rooms),
		"elements": result.Record.ElementCount(),
		"ms":       elapsedMs,
	}).Info("Inspection completed")

	utils.Success(c, gin.H{
		"job_id":             job.ID,
		"cleaned_text":       result.Narrative,
		"structured_data":    result.Record,
		"rows":               result.Export,
		"files":              workbookPayload(files),
		"processing_time_ms": elapsedMs,
	})
}

func (s *Server) saveResult(c *gin.Context, update *model.InspectionJob) {
	if err := s.Jobs.UpdateResult(c.Request.Context(), update); err != nil {
		s.Log.WithError(err).WithField("job_id", update.ID).Warn("Failed to update inspection job")
	}
}
