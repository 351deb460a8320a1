package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"inspectme/internal/repository"
	"inspectme/internal/utils"
)

// listInspections handles GET /api/v1/inspections
func (s *Server) listInspections(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100 // Max limit
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	jobs, err := s.Jobs.List(c.Request.Context(), limit, offset)
	if err != nil {
		s.Log.WithError(err).Error("Error listing inspection history")
		utils.Error(c, http.StatusInternalServerError, "failed to retrieve history")
		return
	}

	items := make([]gin.H, 0, len(jobs))
	for _, job := range jobs {
		item := gin.H{
			"id":         job.ID.String(),
			"created_at": job.CreatedAt,
			"status":     job.Status,
		}
		if job.RecordingID != nil {
			item["recording_id"] = *job.RecordingID
		}
		if job.FailedStage != nil {
			item["failed_stage"] = *job.FailedStage
		}
		if job.ProcessingTimeMs != nil {
			item["processing_time_ms"] = *job.ProcessingTimeMs
		}
		// Transcript preview (first 100 runes)
		preview := []rune(job.RawTranscript)
		if len(preview) > 100 {
			item["transcript_preview"] = string(preview[:100]) + "..."
		} else {
			item["transcript_preview"] = job.RawTranscript
		}
		items = append(items, item)
	}

	utils.Success(c, gin.H{
		"items":  items,
		"limit":  limit,
		"offset": offset,
		"count":  len(items),
	})
}

func parseJobID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid id format")
		return uuid.Nil, false
	}
	return id, true
}

// getInspection handles GET /api/v1/inspections/:id
func (s *Server) getInspection(c *gin.Context) {
	id, ok := parseJobID(c)
	if !ok {
		return
	}
	job, err := s.Jobs.GetByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.Error(c, http.StatusNotFound, "inspection not found")
		return
	}
	if err != nil {
		s.Log.WithError(err).Error("Error getting inspection")
		utils.Error(c, http.StatusInternalServerError, "failed to retrieve inspection")
		return
	}
	utils.Success(c, gin.H{"inspection": job})
}

// deleteInspection handles DELETE /api/v1/inspections/:id
func (s *Server) deleteInspection(c *gin.Context) {
	id, ok := parseJobID(c)
	if !ok {
		return
	}
	err := s.Jobs.Delete(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.Error(c, http.StatusNotFound, "inspection not found")
		return
	}
	if err != nil {
		s.Log.WithError(err).Error("Error deleting inspection")
		utils.Error(c, http.StatusInternalServerError, "failed to delete inspection")
		return
	}
	utils.Success(c, gin.H{"id": id.String(), "deleted": true})
}
