package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MAMIDISETTI/taskmanagers/internal/service"

	"github.com/gin-gonic/gin"
)

// TrainerHandler holds the trainer service dependency.
type TrainerHandler struct {
	trainerService service.TrainerService
}

// NewTrainerHandler creates a new TrainerHandler.
func NewTrainerHandler(trainerService service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

type AssignTraineeRequest struct {
	TrainerAuthorID string `json:"trainer_author_id" binding:"required,uuid4"`
	TraineeAuthorID string `json:"trainee_author_id" binding:"required,uuid4"`
}

// AssignTrainee links a trainee to a trainer. Back-office only; until a
// trainee has a trainer, their day plans cannot be reviewed.
func (h *TrainerHandler) AssignTrainee(c *gin.Context) {
	var req AssignTraineeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	trainee, err := h.trainerService.AssignTrainee(c.Request.Context(), req.TrainerAuthorID, req.TraineeAuthorID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTraineeNotFound), errors.Is(err, service.ErrTrainerNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotTrainee), errors.Is(err, service.ErrNotTrainer):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrTraineeAlreadyAssigned):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to assign trainee")
		}
		return
	}

	respond(c, http.StatusOK, "trainee assigned", gin.H{"trainee": MapUserToResponse(trainee)})
}

// ListMine returns the trainees assigned to the calling trainer.
func (h *TrainerHandler) ListMine(c *gin.Context) {
	trainerID, ok := callerObjectID(c)
	if !ok {
		return
	}

	trainees, err := h.trainerService.Trainees(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list trainees")
		return
	}

	out := make([]UserResponse, 0, len(trainees))
	for i := range trainees {
		out = append(out, MapUserToResponse(&trainees[i]))
	}
	respond(c, http.StatusOK, "trainees fetched", gin.H{"trainees": out, "count": len(out)})
}
