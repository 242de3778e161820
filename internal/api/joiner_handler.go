package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MAMIDISETTI/taskmanagers/internal/domain"
	"github.com/MAMIDISETTI/taskmanagers/internal/ingest"
	"github.com/MAMIDISETTI/taskmanagers/internal/service"

	"github.com/gin-gonic/gin"
)

// JoinerHandler holds the joiner service dependency.
type JoinerHandler struct {
	joinerService service.JoinerService
}

// NewJoinerHandler creates a new JoinerHandler.
func NewJoinerHandler(joinerService service.JoinerService) *JoinerHandler {
	return &JoinerHandler{joinerService: joinerService}
}

// --- Request/Response Structs ---

type BulkJoinersRequest struct {
	JoinersData []ingest.Row `json:"joiners_data" binding:"required"`
}

type SheetSyncRequest struct {
	SheetURL string `json:"sheet_url" binding:"required,url"`
}

type CreateJoinerRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	RoleAssign string `json:"roleAssignment"`
	AuthorID   string `json:"authorId"`
}

type ChecklistRequest struct {
	WelcomeEmailSent  bool `json:"welcomeEmailSent"`
	CredentialsIssued bool `json:"credentialsIssued"`
	LaptopAssigned    bool `json:"laptopAssigned"`
	DocumentsVerified bool `json:"documentsVerified"`
}

// --- Handler Methods ---

// BulkIngest accepts a batch of raw joiner rows and runs the full
// normalize/dedup/insert pipeline. Partial success returns 200 with
// per-row errors in the summary.
func (h *JoinerHandler) BulkIngest(c *gin.Context) {
	var req BulkJoinersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	summary, err := h.joinerService.BulkIngest(c.Request.Context(), req.JoinersData)
	if err != nil {
		if errors.Is(err, service.ErrEmptyBatch) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to ingest joiners")
		}
		return
	}

	respond(c, http.StatusOK, "bulk ingestion complete", gin.H{"summary": summary})
}

// SheetSync pulls joiner rows from a spreadsheet source URL and feeds
// them through the same pipeline. A source that serves HTML (login
// redirect) maps to 502.
func (h *JoinerHandler) SheetSync(c *gin.Context) {
	var req SheetSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	summary, err := h.joinerService.SyncFromSheet(c.Request.Context(), req.SheetURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSheetFetch):
			abortWithError(c, http.StatusBadGateway, err.Error())
		case errors.Is(err, service.ErrEmptyBatch):
			abortWithError(c, http.StatusBadRequest, "spreadsheet source returned no rows")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to sync from sheet")
		}
		return
	}

	respond(c, http.StatusOK, "sheet sync complete", gin.H{"summary": summary})
}

// Create registers a single joiner.
func (h *JoinerHandler) Create(c *gin.Context) {
	var req CreateJoinerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	joiner := &domain.Joiner{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Department: req.Department,
		RoleAssign: req.RoleAssign,
		AuthorID:   req.AuthorID,
		Status:     domain.JoinerStatusPending,
	}
	created, err := h.joinerService.CreateJoiner(c.Request.Context(), joiner)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	respond(c, http.StatusCreated, "joiner created", gin.H{"joiner": created})
}

// List returns joiners, optionally filtered by ?status=.
func (h *JoinerHandler) List(c *gin.Context) {
	status := domain.JoinerStatus(c.Query("status"))
	joiners, err := h.joinerService.List(c.Request.Context(), status)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list joiners")
		return
	}
	respond(c, http.StatusOK, "joiners fetched", gin.H{"joiners": joiners, "count": len(joiners)})
}

// GetByAuthorID returns one joiner.
func (h *JoinerHandler) GetByAuthorID(c *gin.Context) {
	authorID := c.Param("authorId")
	joiner, err := h.joinerService.GetByAuthorID(c.Request.Context(), authorID)
	if err != nil {
		if errors.Is(err, service.ErrJoinerNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch joiner")
		}
		return
	}
	respond(c, http.StatusOK, "joiner fetched", gin.H{"joiner": joiner})
}

// UpdateChecklist updates onboarding progress on one joiner.
func (h *JoinerHandler) UpdateChecklist(c *gin.Context) {
	authorID := c.Param("authorId")
	var req ChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	joiner, err := h.joinerService.UpdateChecklist(c.Request.Context(), authorID, domain.OnboardingChecklist{
		WelcomeEmailSent:  req.WelcomeEmailSent,
		CredentialsIssued: req.CredentialsIssued,
		LaptopAssigned:    req.LaptopAssigned,
		DocumentsVerified: req.DocumentsVerified,
	})
	if err != nil {
		if errors.Is(err, service.ErrJoinerNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update checklist")
		}
		return
	}

	respond(c, http.StatusOK, "checklist updated", gin.H{"joiner": joiner})
}
