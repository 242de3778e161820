package service

import (
	"context"
	"testing"
	"time"

	"github.com/MAMIDISETTI/taskmanagers/internal/domain"
	"github.com/MAMIDISETTI/taskmanagers/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trainerFixture struct {
	svc      TrainerService
	userRepo *fakeUserRepo
	trainer  *domain.User
	trainee  *domain.User
}

// newTrainerFixture registers a trainer and a trainee through the real
// registration path, so neither carries any pre-seeded assignment.
func newTrainerFixture(t *testing.T) *trainerFixture {
	t.Helper()
	ctx := context.Background()
	userRepo := &fakeUserRepo{}
	auth := NewAuthService(userRepo, "test-secret", time.Hour)

	trainer, err := auth.Register(ctx, "Trainer", "trainer@example.com", "password123", domain.RoleTrainer)
	require.NoError(t, err)
	trainee, err := auth.Register(ctx, "Trainee", "trainee@example.com", "password123", domain.RoleTrainee)
	require.NoError(t, err)

	return &trainerFixture{
		svc:      NewTrainerService(userRepo),
		userRepo: userRepo,
		trainer:  trainer,
		trainee:  trainee,
	}
}

func TestAssignTrainee(t *testing.T) {
	f := newTrainerFixture(t)
	ctx := context.Background()

	assert.Nil(t, f.trainee.TrainerID)

	assigned, err := f.svc.AssignTrainee(ctx, f.trainer.AuthorID, f.trainee.AuthorID)
	require.NoError(t, err)
	require.NotNil(t, assigned.TrainerID)
	assert.Equal(t, f.trainer.ID, *assigned.TrainerID)

	// Both sides of the relation are persisted.
	stored, err := f.userRepo.GetByAuthorID(ctx, f.trainee.AuthorID)
	require.NoError(t, err)
	require.NotNil(t, stored.TrainerID)
	assert.Equal(t, f.trainer.ID, *stored.TrainerID)

	trainees, err := f.svc.Trainees(ctx, f.trainer.ID)
	require.NoError(t, err)
	require.Len(t, trainees, 1)
	assert.Equal(t, f.trainee.AuthorID, trainees[0].AuthorID)
}

func TestAssignTraineeIdempotent(t *testing.T) {
	f := newTrainerFixture(t)
	ctx := context.Background()

	_, err := f.svc.AssignTrainee(ctx, f.trainer.AuthorID, f.trainee.AuthorID)
	require.NoError(t, err)

	// Re-assigning to the same trainer is a no-op.
	_, err = f.svc.AssignTrainee(ctx, f.trainer.AuthorID, f.trainee.AuthorID)
	assert.NoError(t, err)
}

func TestAssignTraineeAlreadyAssigned(t *testing.T) {
	f := newTrainerFixture(t)
	ctx := context.Background()
	auth := NewAuthService(f.userRepo, "test-secret", time.Hour)

	other, err := auth.Register(ctx, "Other Trainer", "other@example.com", "password123", domain.RoleTrainer)
	require.NoError(t, err)

	_, err = f.svc.AssignTrainee(ctx, f.trainer.AuthorID, f.trainee.AuthorID)
	require.NoError(t, err)

	_, err = f.svc.AssignTrainee(ctx, other.AuthorID, f.trainee.AuthorID)
	assert.ErrorIs(t, err, ErrTraineeAlreadyAssigned)
}

func TestAssignTraineeRoleChecks(t *testing.T) {
	f := newTrainerFixture(t)
	ctx := context.Background()

	// The assignee must actually be a trainee, and the target a trainer.
	_, err := f.svc.AssignTrainee(ctx, f.trainer.AuthorID, f.trainer.AuthorID)
	assert.ErrorIs(t, err, ErrNotTrainee)
	_, err = f.svc.AssignTrainee(ctx, f.trainee.AuthorID, f.trainee.AuthorID)
	assert.ErrorIs(t, err, ErrNotTrainer)
}

func TestAssignTraineeNotFound(t *testing.T) {
	f := newTrainerFixture(t)
	ctx := context.Background()

	_, err := f.svc.AssignTrainee(ctx, f.trainer.AuthorID, "5b3e7c1a-9d2f-4e8b-a6c4-3f1d8e7b5a2c")
	assert.ErrorIs(t, err, ErrTraineeNotFound)
	_, err = f.svc.AssignTrainee(ctx, "5b3e7c1a-9d2f-4e8b-a6c4-3f1d8e7b5a2c", f.trainee.AuthorID)
	assert.ErrorIs(t, err, ErrTrainerNotFound)
}

// The review workflow must be reachable starting from registration:
// without an assignment no one can review, and once staff assign the
// trainer the full plan lifecycle runs end to end.
func TestAssignTraineeUnlocksReviewWorkflow(t *testing.T) {
	f := newTrainerFixture(t)
	ctx := context.Background()
	planSvc := NewDayPlanService(&fakeDayPlanRepo{}, f.userRepo, notify.NewInMemory(16))

	plan, err := planSvc.Create(ctx, f.trainee.AuthorID, time.Date(2025, 7, 7, 9, 0, 0, 0, time.UTC), []domain.PlanTask{
		{Title: "Build REST endpoints", TimeAllocatedMin: 180},
	})
	require.NoError(t, err)
	_, err = planSvc.Submit(ctx, plan.ID, f.trainee.AuthorID)
	require.NoError(t, err)

	// Unassigned trainee: the trainer is rejected.
	_, err = planSvc.Review(ctx, plan.ID, f.trainer.ID, true, "ok")
	assert.ErrorIs(t, err, ErrNotPlanTrainer)

	_, err = f.svc.AssignTrainee(ctx, f.trainer.AuthorID, f.trainee.AuthorID)
	require.NoError(t, err)

	// The pre-assignment plan picks up the trainer on review.
	plan, err = planSvc.Review(ctx, plan.ID, f.trainer.ID, true, "ok")
	require.NoError(t, err)
	assert.Equal(t, domain.DayPlanStatusApproved, plan.Status)
	assert.Equal(t, f.trainer.ID, plan.TrainerID)

	plan, err = planSvc.SubmitEOD(ctx, plan.ID, f.trainee.AuthorID, domain.EODUpdate{Summary: "done"})
	require.NoError(t, err)
	plan, err = planSvc.ReviewEOD(ctx, plan.ID, f.trainer.ID, true, "well done")
	require.NoError(t, err)
	assert.Equal(t, domain.DayPlanStatusCompleted, plan.Status)

	// Plans created after assignment pin the trainer up front.
	plan2, err := planSvc.Create(ctx, f.trainee.AuthorID, time.Date(2025, 7, 8, 9, 0, 0, 0, time.UTC), []domain.PlanTask{{Title: "x"}})
	require.NoError(t, err)
	assert.Equal(t, f.trainer.ID, plan2.TrainerID)
}
