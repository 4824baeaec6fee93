package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/ecoscan/backend/internal/domain"
	"github.com/ecoscan/backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

// ScanRequest is the inbound trigger: a decoded barcode plus the symbology
// the scanner reported. Symbology is passed through, not interpreted.
type ScanRequest struct {
	Barcode   string `json:"barcode"`
	Symbology string `json:"symbology"`
}

// scanner is the slice of the scan service the handler needs.
type scanner interface {
	Scan(ctx context.Context, barcode, symbology string) (*usecase.ScanSession, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	scans   scanner
	history domain.HistoryRepository
}

// NewHandler creates a new HTTP handler
func NewHandler(scans scanner, history domain.HistoryRepository) *Handler {
	return &Handler{
		scans:   scans,
		history: history,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "ecoscan-backend",
		"version": "1.0.0",
	})
}

// Scan runs one assessment session for a scanned barcode and returns the
// terminal session. Clients only ever see the session states; no failure
// escapes as anything else.
func (h *Handler) Scan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session, err := h.scans.Scan(c.Request.Context(), req.Barcode, req.Symbology)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidBarcode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "barcode is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "scan failed"})
		return
	}

	switch session.State {
	case usecase.StateReady:
		c.JSON(http.StatusOK, session)
	case usecase.StateNotFound:
		c.JSON(http.StatusNotFound, session)
	default:
		c.JSON(http.StatusBadGateway, session)
	}
}

// History returns the stored scan history in scan order. Storage problems
// degrade to an empty list, so this endpoint never fails.
func (h *Handler) History(c *gin.Context) {
	records := h.history.Load(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"count": len(records),
		"items": records,
	})
}
