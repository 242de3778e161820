package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MAMIDISETTI/taskmanagers/internal/domain"
	"github.com/MAMIDISETTI/taskmanagers/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DayPlanHandler holds the day-plan service dependency.
type DayPlanHandler struct {
	planService service.DayPlanService
}

// NewDayPlanHandler creates a new DayPlanHandler.
func NewDayPlanHandler(planService service.DayPlanService) *DayPlanHandler {
	return &DayPlanHandler{planService: planService}
}

// --- Request/Response Structs ---

type PlanTaskRequest struct {
	TaskID           string `json:"taskId"`
	Title            string `json:"title" binding:"required"`
	TimeAllocatedMin int    `json:"timeAllocatedMin" binding:"min=0"`
	Status           string `json:"status"`
	Remarks          string `json:"remarks"`
}

type CreateDayPlanRequest struct {
	Date  string            `json:"date" binding:"required"` // YYYY-MM-DD
	Tasks []PlanTaskRequest `json:"tasks" binding:"required,min=1,dive"`
}

type ReviewRequest struct {
	Approve bool   `json:"approve"`
	Remarks string `json:"remarks"`
}

type EODRequest struct {
	TaskUpdates []PlanTaskRequest `json:"taskUpdates"`
	Summary     string            `json:"summary"`
}

// --- Handler Methods ---

// Create makes a draft plan for the authenticated trainee.
func (h *DayPlanHandler) Create(c *gin.Context) {
	authorID, err := getAuthorIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get author ID from token")
		return
	}

	var req CreateDayPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
		return
	}

	tasks := make([]domain.PlanTask, 0, len(req.Tasks))
	for _, t := range req.Tasks {
		tasks = append(tasks, domain.PlanTask{
			TaskID:           t.TaskID,
			Title:            t.Title,
			TimeAllocatedMin: t.TimeAllocatedMin,
			Status:           domain.TaskStatus(t.Status),
			Remarks:          t.Remarks,
		})
	}

	plan, err := h.planService.Create(c.Request.Context(), authorID, date, tasks)
	if err != nil {
		if errors.Is(err, service.ErrPlanExists) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create day plan")
		}
		return
	}

	respond(c, http.StatusCreated, "day plan created", gin.H{"plan": plan})
}

// List returns the authenticated trainee's plans in a date range.
func (h *DayPlanHandler) List(c *gin.Context) {
	authorID, err := getAuthorIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get author ID from token")
		return
	}
	from := parseDateQuery(c.Query("start_date"))
	to := parseDateQuery(c.Query("end_date"))

	plans, err := h.planService.GetForAuthor(c.Request.Context(), authorID, from, to)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list day plans")
		return
	}
	respond(c, http.StatusOK, "day plans fetched", gin.H{"plans": plans, "count": len(plans)})
}

// Get returns one plan by id.
func (h *DayPlanHandler) Get(c *gin.Context) {
	planID, ok := parsePlanID(c)
	if !ok {
		return
	}
	plan, err := h.planService.GetByID(c.Request.Context(), planID)
	if err != nil {
		h.planError(c, err)
		return
	}
	respond(c, http.StatusOK, "day plan fetched", gin.H{"plan": plan})
}

// Submit moves the caller's draft plan to in_progress.
func (h *DayPlanHandler) Submit(c *gin.Context) {
	planID, ok := parsePlanID(c)
	if !ok {
		return
	}
	authorID, err := getAuthorIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get author ID from token")
		return
	}

	plan, err := h.planService.Submit(c.Request.Context(), planID, authorID)
	if err != nil {
		h.planError(c, err)
		return
	}
	respond(c, http.StatusOK, "day plan submitted", gin.H{"plan": plan})
}

// Review resolves the trainer's initial review.
func (h *DayPlanHandler) Review(c *gin.Context) {
	planID, ok := parsePlanID(c)
	if !ok {
		return
	}
	trainerID, ok := callerObjectID(c)
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planService.Review(c.Request.Context(), planID, trainerID, req.Approve, req.Remarks)
	if err != nil {
		h.planError(c, err)
		return
	}
	respond(c, http.StatusOK, "day plan reviewed", gin.H{"plan": plan})
}

// SubmitEOD attaches the end-of-day update to an approved plan.
func (h *DayPlanHandler) SubmitEOD(c *gin.Context) {
	planID, ok := parsePlanID(c)
	if !ok {
		return
	}
	authorID, err := getAuthorIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get author ID from token")
		return
	}
	var req EODRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	update := domain.EODUpdate{Summary: req.Summary}
	for _, t := range req.TaskUpdates {
		update.TaskUpdates = append(update.TaskUpdates, domain.PlanTask{
			TaskID:           t.TaskID,
			Title:            t.Title,
			TimeAllocatedMin: t.TimeAllocatedMin,
			Status:           domain.TaskStatus(t.Status),
			Remarks:          t.Remarks,
		})
	}

	plan, err := h.planService.SubmitEOD(c.Request.Context(), planID, authorID, update)
	if err != nil {
		h.planError(c, err)
		return
	}
	respond(c, http.StatusOK, "EOD update submitted", gin.H{"plan": plan})
}

// ReviewEOD resolves the trainer's end-of-day review.
func (h *DayPlanHandler) ReviewEOD(c *gin.Context) {
	planID, ok := parsePlanID(c)
	if !ok {
		return
	}
	trainerID, ok := callerObjectID(c)
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planService.ReviewEOD(c.Request.Context(), planID, trainerID, req.Approve, req.Remarks)
	if err != nil {
		h.planError(c, err)
		return
	}
	respond(c, http.StatusOK, "EOD update reviewed", gin.H{"plan": plan})
}

// planError maps day-plan service errors onto HTTP status codes. A
// wrong actor is forbidden; a wrong current status is a conflict.
func (h *DayPlanHandler) planError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotPlanOwner), errors.Is(err, service.ErrNotPlanTrainer):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to update day plan")
	}
}

func parsePlanID(c *gin.Context) (primitive.ObjectID, bool) {
	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return primitive.NilObjectID, false
	}
	return planID, true
}

// callerObjectID converts the JWT user id into an ObjectID.
func callerObjectID(c *gin.Context) (primitive.ObjectID, bool) {
	userIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Invalid user ID in token")
		return primitive.NilObjectID, false
	}
	return userID, true
}
