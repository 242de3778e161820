package service

import (
	"context"
	"errors"

	"github.com/MAMIDISETTI/taskmanagers/internal/domain"
	"github.com/MAMIDISETTI/taskmanagers/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrTraineeNotFound        = errors.New("trainee not found")
	ErrTrainerNotFound        = errors.New("trainer not found")
	ErrNotTrainee             = errors.New("user found but is not a trainee")
	ErrNotTrainer             = errors.New("user found but is not a trainer")
	ErrTraineeAlreadyAssigned = errors.New("trainee is already assigned to a different trainer")
)

// TrainerService manages the trainer/trainee relation. Day-plan reviews
// are only open to the trainee's assigned trainer, so assignment is the
// step that makes the review workflow reachable.
type TrainerService interface {
	// AssignTrainee links a trainee to a trainer, by author id on both
	// sides. Re-assigning to the same trainer is a no-op; a trainee
	// already assigned elsewhere is rejected.
	AssignTrainee(ctx context.Context, trainerAuthorID, traineeAuthorID string) (*domain.User, error)
	// Trainees lists the trainees assigned to a trainer.
	Trainees(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
}

type trainerService struct {
	userRepo repository.UserRepository
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(userRepo repository.UserRepository) TrainerService {
	return &trainerService{userRepo: userRepo}
}

func (s *trainerService) AssignTrainee(ctx context.Context, trainerAuthorID, traineeAuthorID string) (*domain.User, error) {
	if trainerAuthorID == "" || traineeAuthorID == "" {
		return nil, errors.New("trainer and trainee author ids are required")
	}

	trainee, err := s.userRepo.GetByAuthorID(ctx, traineeAuthorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTraineeNotFound
		}
		return nil, err
	}
	if !trainee.IsTrainee() {
		return nil, ErrNotTrainee
	}

	trainer, err := s.userRepo.GetByAuthorID(ctx, trainerAuthorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	if !trainer.IsTrainer() {
		return nil, ErrNotTrainer
	}

	if trainee.TrainerID != nil && *trainee.TrainerID != primitive.NilObjectID {
		if *trainee.TrainerID == trainer.ID {
			return trainee, nil
		}
		return nil, ErrTraineeAlreadyAssigned
	}

	// Both sides of the relation are updated; the trainee record is the
	// authoritative one consulted by the day-plan workflow.
	if err := s.userRepo.AddTraineeToTrainer(ctx, trainer.ID, trainee.ID); err != nil {
		return nil, err
	}
	if err := s.userRepo.SetTrainerForTrainee(ctx, trainee.ID, trainer.ID); err != nil {
		return nil, err
	}

	trainee.TrainerID = &trainer.ID
	return trainee, nil
}

func (s *trainerService) Trainees(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}
	return s.userRepo.GetTraineesByTrainerID(ctx, trainerID)
}
