package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MAMIDISETTI/taskmanagers/internal/ingest"
	"github.com/MAMIDISETTI/taskmanagers/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResultHandler holds the result service dependency.
type ResultHandler struct {
	resultService service.ResultService
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(resultService service.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

type BulkResultsRequest struct {
	Results []ingest.Row `json:"results" binding:"required"`
}

type CorrectResultRequest struct {
	Score      *float64 `json:"score" binding:"required,gte=0"`
	TotalMarks *float64 `json:"total_marks" binding:"required,gte=0"`
}

// BulkUpload accepts a batch of raw result rows. One attempt per
// (authorId, exam); repeats are rejected per-row while the rest of the
// batch proceeds.
func (h *ResultHandler) BulkUpload(c *gin.Context) {
	var req BulkResultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	summary, err := h.resultService.BulkUpload(c.Request.Context(), req.Results)
	if err != nil {
		if errors.Is(err, service.ErrEmptyBatch) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to upload results")
		}
		return
	}

	respond(c, http.StatusOK, "result upload complete", gin.H{"summary": summary})
}

// Correct rewrites the score of one recorded attempt. Admin only.
func (h *ResultHandler) Correct(c *gin.Context) {
	resultID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid result ID format")
		return
	}
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user role from token")
		return
	}
	var req CorrectResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	result, err := h.resultService.Correct(c.Request.Context(), role, resultID, *req.Score, *req.TotalMarks)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrResultCorrection):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrResultNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to correct result")
		}
		return
	}

	respond(c, http.StatusOK, "result corrected", gin.H{"result": result})
}
