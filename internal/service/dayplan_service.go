package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MAMIDISETTI/taskmanagers/internal/domain"
	"github.com/MAMIDISETTI/taskmanagers/internal/notify"
	"github.com/MAMIDISETTI/taskmanagers/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound      = errors.New("day plan not found")
	ErrPlanExists        = errors.New("a day plan already exists for this date")
	ErrNotPlanOwner      = errors.New("only the plan owner may perform this action")
	ErrNotPlanTrainer    = errors.New("only the assigned trainer may perform this action")
	ErrInvalidTransition = errors.New("day plan is not in the required state")
)

// DayPlanService drives the day-plan workflow. Every transition method
// authenticates the actor against the plan (owner or assigned trainer),
// verifies the exact current status, and persists the new state before
// any notification is queued. A failed check mutates nothing.
type DayPlanService interface {
	Create(ctx context.Context, authorID string, date time.Time, tasks []domain.PlanTask) (*domain.TraineeDayPlan, error)
	GetByID(ctx context.Context, planID primitive.ObjectID) (*domain.TraineeDayPlan, error)
	GetForAuthor(ctx context.Context, authorID string, from, to time.Time) ([]domain.TraineeDayPlan, error)
	Submit(ctx context.Context, planID primitive.ObjectID, actorAuthorID string) (*domain.TraineeDayPlan, error)
	Review(ctx context.Context, planID, trainerID primitive.ObjectID, approve bool, remarks string) (*domain.TraineeDayPlan, error)
	SubmitEOD(ctx context.Context, planID primitive.ObjectID, actorAuthorID string, update domain.EODUpdate) (*domain.TraineeDayPlan, error)
	ReviewEOD(ctx context.Context, planID, trainerID primitive.ObjectID, approve bool, remarks string) (*domain.TraineeDayPlan, error)
}

type dayPlanService struct {
	planRepo repository.DayPlanRepository
	userRepo repository.UserRepository
	notifier notify.Notifier
}

// NewDayPlanService creates a new instance of dayPlanService.
func NewDayPlanService(planRepo repository.DayPlanRepository, userRepo repository.UserRepository, notifier notify.Notifier) DayPlanService {
	return &dayPlanService{planRepo: planRepo, userRepo: userRepo, notifier: notifier}
}

// Create makes a draft plan for (authorID, date), pinned to the
// trainee's assigned trainer at creation time. The existence check
// here is advisory; the compound unique index on the collection is the
// authoritative guard against concurrent creates.
func (s *dayPlanService) Create(ctx context.Context, authorID string, date time.Time, tasks []domain.PlanTask) (*domain.TraineeDayPlan, error) {
	var trainerID primitive.ObjectID
	if owner, err := s.userRepo.GetByAuthorID(ctx, authorID); err == nil && owner.TrainerID != nil {
		trainerID = *owner.TrainerID
	}

	day := domain.PlanDate(date)
	if existing, err := s.planRepo.GetByAuthorAndDate(ctx, authorID, day); err == nil && existing != nil {
		return nil, ErrPlanExists
	}

	now := time.Now().UTC()
	for i := range tasks {
		if tasks[i].Status == "" {
			tasks[i].Status = domain.TaskStatusPlanned
		}
	}
	plan := &domain.TraineeDayPlan{
		AuthorID:  authorID,
		Date:      day,
		Tasks:     tasks,
		Status:    domain.DayPlanStatusDraft,
		TrainerID: trainerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrPlanExists
		}
		return nil, fmt.Errorf("failed to create day plan: %w", err)
	}
	plan.ID = id
	return plan, nil
}

func (s *dayPlanService) GetByID(ctx context.Context, planID primitive.ObjectID) (*domain.TraineeDayPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *dayPlanService) GetForAuthor(ctx context.Context, authorID string, from, to time.Time) ([]domain.TraineeDayPlan, error) {
	return s.planRepo.GetByAuthorID(ctx, authorID, from, to)
}

// Submit moves a draft plan to in_progress. Owner only.
func (s *dayPlanService) Submit(ctx context.Context, planID primitive.ObjectID, actorAuthorID string) (*domain.TraineeDayPlan, error) {
	plan, err := s.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.AuthorID != actorAuthorID {
		return nil, ErrNotPlanOwner
	}
	if err := s.transition(plan, domain.DayPlanStatusInProgress); err != nil {
		return nil, err
	}
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update day plan: %w", err)
	}
	s.notifyTrainer(plan, "dayplan.submitted", "Day plan submitted",
		fmt.Sprintf("%s submitted a day plan for %s", plan.AuthorID, plan.Date.Format("2006-01-02")))
	return plan, nil
}

// Review resolves the trainer's initial review: in_progress moves to
// approved or rejected. Assigned trainer only.
func (s *dayPlanService) Review(ctx context.Context, planID, trainerID primitive.ObjectID, approve bool, remarks string) (*domain.TraineeDayPlan, error) {
	plan, err := s.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeTrainer(ctx, plan, trainerID); err != nil {
		return nil, err
	}
	target := domain.DayPlanStatusApproved
	if !approve {
		target = domain.DayPlanStatusRejected
	}
	if plan.Status != domain.DayPlanStatusInProgress {
		return nil, transitionError(plan.Status, target)
	}
	if err := s.transition(plan, target); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	plan.ReviewRemarks = remarks
	plan.ReviewedAt = &now
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update day plan: %w", err)
	}
	s.notifyOwner(plan, "dayplan.reviewed", "Day plan reviewed",
		fmt.Sprintf("your day plan for %s was %s", plan.Date.Format("2006-01-02"), target))
	return plan, nil
}

// SubmitEOD attaches the end-of-day update and moves an approved plan
// to pending trainer review. Owner only; any other status, including a
// plan already pending or completed, is a conflict.
func (s *dayPlanService) SubmitEOD(ctx context.Context, planID primitive.ObjectID, actorAuthorID string, update domain.EODUpdate) (*domain.TraineeDayPlan, error) {
	plan, err := s.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.AuthorID != actorAuthorID {
		return nil, ErrNotPlanOwner
	}
	if plan.Status != domain.DayPlanStatusApproved {
		return nil, transitionError(plan.Status, domain.DayPlanStatusPending)
	}
	if err := s.transition(plan, domain.DayPlanStatusPending); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	update.SubmittedAt = &now
	update.ReviewedAt = nil
	update.ReviewRemarks = ""
	update.ReviewApproved = false
	plan.EOD = &update
	if len(update.TaskUpdates) > 0 {
		plan.Tasks = update.TaskUpdates
	}
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update day plan: %w", err)
	}
	s.notifyTrainer(plan, "dayplan.eod_submitted", "EOD update submitted",
		fmt.Sprintf("%s submitted an end-of-day update for %s", plan.AuthorID, plan.Date.Format("2006-01-02")))
	return plan, nil
}

// ReviewEOD resolves the trainer's end-of-day review: pending moves to
// completed or rejected, both terminal. Assigned trainer only.
func (s *dayPlanService) ReviewEOD(ctx context.Context, planID, trainerID primitive.ObjectID, approve bool, remarks string) (*domain.TraineeDayPlan, error) {
	plan, err := s.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeTrainer(ctx, plan, trainerID); err != nil {
		return nil, err
	}
	target := domain.DayPlanStatusCompleted
	if !approve {
		target = domain.DayPlanStatusRejected
	}
	if plan.Status != domain.DayPlanStatusPending {
		return nil, transitionError(plan.Status, target)
	}
	if err := s.transition(plan, target); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if plan.EOD != nil {
		plan.EOD.ReviewedAt = &now
		plan.EOD.ReviewRemarks = remarks
		plan.EOD.ReviewApproved = approve
	}
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update day plan: %w", err)
	}
	s.notifyOwner(plan, "dayplan.eod_reviewed", "EOD update reviewed",
		fmt.Sprintf("your end-of-day update for %s was marked %s", plan.Date.Format("2006-01-02"), target))
	return plan, nil
}

// authorizeTrainer checks the acting trainer against the plan. Plans
// created before the trainee had an assigned trainer carry a zero
// TrainerID; those resolve the trainer from the current user record
// and pin it, so a late assignment does not strand the plan.
func (s *dayPlanService) authorizeTrainer(ctx context.Context, plan *domain.TraineeDayPlan, trainerID primitive.ObjectID) error {
	if plan.TrainerID.IsZero() {
		owner, err := s.userRepo.GetByAuthorID(ctx, plan.AuthorID)
		if err != nil || owner.TrainerID == nil {
			return ErrNotPlanTrainer
		}
		plan.TrainerID = *owner.TrainerID
	}
	if plan.TrainerID != trainerID {
		return ErrNotPlanTrainer
	}
	return nil
}

// transition applies the status table, in memory only.
func (s *dayPlanService) transition(plan *domain.TraineeDayPlan, to domain.DayPlanStatus) error {
	if !domain.CanTransition(plan.Status, to) {
		return transitionError(plan.Status, to)
	}
	plan.Status = to
	plan.UpdatedAt = time.Now().UTC()
	return nil
}

func transitionError(from, to domain.DayPlanStatus) error {
	return fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidTransition, from, to)
}

func (s *dayPlanService) notifyTrainer(plan *domain.TraineeDayPlan, event, subject, body string) {
	notify.Dispatch(s.notifier, notify.Notification{
		Recipient: plan.TrainerID.Hex(),
		Role:      string(domain.RoleTrainer),
		Event:     event,
		Subject:   subject,
		Body:      body,
	})
}

func (s *dayPlanService) notifyOwner(plan *domain.TraineeDayPlan, event, subject, body string) {
	notify.Dispatch(s.notifier, notify.Notification{
		Recipient: plan.AuthorID,
		Role:      string(domain.RoleTrainee),
		Event:     event,
		Subject:   subject,
		Body:      body,
	})
}
