// Package api exposes the inspection pipeline over HTTP.
package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"inspectme/internal/export"
	"inspectme/internal/inspection"
	"inspectme/internal/repository"
	"inspectme/internal/storage"
	"inspectme/internal/stt"
	"inspectme/internal/utils"
)

// Server holds the handler dependencies. Pipeline and STT may be nil when
// their credentials are not configured; the matching routes answer 503.
type Server struct {
	Pipeline   *inspection.Pipeline
	STT        stt.Provider
	Recordings *storage.Store
	Jobs       repository.InspectionRepository
	Timeout    time.Duration
	Log        logrus.FieldLogger

	// Workbooks renders export files; nil uses export.Workbooks.
	Workbooks func(inspection.Export) ([]export.File, error)
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	// Health check
	r.GET("/health", s.healthCheck)

	// API v1
	v1 := r.Group("/api/v1")
	{
		v1.POST("/recordings", s.uploadRecording)
		v1.GET("/recordings", s.listRecordings)
		v1.GET("/recordings/:id", s.getRecording)
		v1.PATCH("/recordings/:id", s.renameRecording)
		v1.DELETE("/recordings/:id", s.deleteRecording)
		v1.POST("/recordings/:id/transcribe", s.transcribeRecording)
		v1.PATCH("/recordings/:id/transcript", s.updateTranscript)

		v1.POST("/inspections/clean", s.cleanTranscript)
		v1.POST("/inspections/structure", s.structureNarrative)
		v1.POST("/inspections/export", s.exportRecord)
		v1.POST("/inspections/run", s.runInspection)

		v1.GET("/inspections", s.listInspections)
		v1.GET("/inspections/:id", s.getInspection)
		v1.DELETE("/inspections/:id", s.deleteInspection)
	}
}

// healthCheck returns server health status
func (s *Server) healthCheck(c *gin.Context) {
	sttName := ""
	if s.STT != nil {
		sttName = s.STT.Name()
	}
	utils.Success(c, gin.H{
		"status":       "ok",
		"service":      "inspectme",
		"llm_enabled":  s.Pipeline != nil,
		"stt_provider": sttName,
	})
}

// requestContext bounds a handler's upstream calls by the configured timeout.
func (s *Server) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), s.Timeout)
}

func (s *Server) tabulator() *inspection.Tabulator {
	if s.Pipeline != nil && s.Pipeline.Tabulator != nil {
		return s.Pipeline.Tabulator
	}
	return inspection.NewTabulator()
}

func (s *Server) workbooks(rows inspection.Export) ([]export.File, error) {
	if s.Workbooks != nil {
		return s.Workbooks(rows)
	}
	return export.Workbooks(rows)
}
