package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/MAMIDISETTI/taskmanagers/internal/domain"
	"github.com/MAMIDISETTI/taskmanagers/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DemoHandler holds the demo service dependency.
type DemoHandler struct {
	demoService service.DemoService
}

// NewDemoHandler creates a new DemoHandler.
func NewDemoHandler(demoService service.DemoService) *DemoHandler {
	return &DemoHandler{demoService: demoService}
}

// --- Request/Response Structs ---

type UploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type RegisterDemoRequest struct {
	Topic        string `json:"topic" binding:"required"`
	RecordingKey string `json:"recordingKey"`
}

type DemoReviewRequest struct {
	Status   domain.ReviewStatus `json:"status" binding:"required,oneof=approved rejected"`
	Feedback string              `json:"feedback"`
}

// --- Handler Methods ---

// RequestUploadURL returns a presigned PUT target for a recording.
func (h *DemoHandler) RequestUploadURL(c *gin.Context) {
	authorID, err := getAuthorIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get author ID from token")
		return
	}
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	target, err := h.demoService.RequestUploadURL(c.Request.Context(), authorID, req.ContentType)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL")
		return
	}
	respond(c, http.StatusOK, "upload URL generated", gin.H{"upload": target})
}

// Register creates the demo record after the recording is uploaded.
func (h *DemoHandler) Register(c *gin.Context) {
	authorID, err := getAuthorIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get author ID from token")
		return
	}
	var req RegisterDemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	demo, err := h.demoService.Register(c.Request.Context(), authorID, req.Topic, req.RecordingKey)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to register demo")
		return
	}
	respond(c, http.StatusCreated, "demo registered", gin.H{"demo": demo, "overallStatus": demo.OverallStatus()})
}

// ListMine returns the authenticated person's demos.
func (h *DemoHandler) ListMine(c *gin.Context) {
	authorID, err := getAuthorIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get author ID from token")
		return
	}
	demos, err := h.demoService.ListForAuthor(c.Request.Context(), authorID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list demos")
		return
	}
	respond(c, http.StatusOK, "demos fetched", gin.H{"demos": demos, "count": len(demos)})
}

// RecordingURL returns a presigned GET URL for a stored recording.
func (h *DemoHandler) RecordingURL(c *gin.Context) {
	demoID, ok := parseDemoID(c)
	if !ok {
		return
	}
	url, err := h.demoService.RecordingURL(c.Request.Context(), demoID)
	if err != nil {
		h.demoError(c, err)
		return
	}
	respond(c, http.StatusOK, "download URL generated", gin.H{"url": url})
}

// Review applies the caller's verdict to their own review track. Trainers
// fill the trainer track, master trainers the master-trainer track.
func (h *DemoHandler) Review(c *gin.Context) {
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user role from token")
		return
	}
	switch role {
	case domain.RoleTrainer:
		h.review(c, h.demoService.ReviewByTrainer)
	case domain.RoleMasterTrainer:
		h.review(c, h.demoService.ReviewByMasterTrainer)
	default:
		abortWithError(c, http.StatusForbidden, "You do not have permission to review demos")
	}
}

type demoReviewFunc func(ctx context.Context, id primitive.ObjectID, status domain.ReviewStatus, feedback string) (*domain.Demo, error)

func (h *DemoHandler) review(c *gin.Context, apply demoReviewFunc) {
	demoID, ok := parseDemoID(c)
	if !ok {
		return
	}
	var req DemoReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	demo, err := apply(c.Request.Context(), demoID, req.Status, req.Feedback)
	if err != nil {
		h.demoError(c, err)
		return
	}
	respond(c, http.StatusOK, "demo reviewed", gin.H{"demo": demo, "overallStatus": demo.OverallStatus()})
}

// Delete withdraws the caller's own demo while it is still unreviewed.
func (h *DemoHandler) Delete(c *gin.Context) {
	demoID, ok := parseDemoID(c)
	if !ok {
		return
	}
	authorID, err := getAuthorIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get author ID from token")
		return
	}

	if err := h.demoService.Delete(c.Request.Context(), demoID, authorID); err != nil {
		h.demoError(c, err)
		return
	}
	respond(c, http.StatusOK, "demo deleted", nil)
}

func (h *DemoHandler) demoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDemoNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotDemoOwner):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrDemoReviewed):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to process demo")
	}
}

func parseDemoID(c *gin.Context) (primitive.ObjectID, bool) {
	demoID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid demo ID format")
		return primitive.NilObjectID, false
	}
	return demoID, true
}
