package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/MAMIDISETTI/taskmanagers/internal/domain"
	"github.com/MAMIDISETTI/taskmanagers/internal/notify"
	"github.com/MAMIDISETTI/taskmanagers/internal/repository"
	"github.com/MAMIDISETTI/taskmanagers/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrDemoNotFound = errors.New("demo not found")
	ErrNotDemoOwner = errors.New("only the demo owner may perform this action")
	ErrDemoReviewed = errors.New("demo already has a review verdict")
)

// UploadTarget is the presigned upload handed to the client. The key
// must be echoed back when the demo is registered.
type UploadTarget struct {
	ObjectKey string `json:"objectKey"`
	UploadURL string `json:"uploadUrl"`
}

// DemoService handles demo submission and the two-track review.
type DemoService interface {
	// RequestUploadURL returns a presigned PUT target for a recording.
	RequestUploadURL(ctx context.Context, authorID, contentType string) (*UploadTarget, error)
	// Register creates the demo record once the recording is uploaded.
	Register(ctx context.Context, authorID, topic, recordingKey string) (*domain.Demo, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Demo, error)
	ListForAuthor(ctx context.Context, authorID string) ([]domain.Demo, error)
	// RecordingURL returns a presigned GET URL for a stored recording.
	RecordingURL(ctx context.Context, id primitive.ObjectID) (string, error)
	// ReviewByTrainer / ReviewByMasterTrainer set one review track; the
	// overall status is recomposed from both on every read.
	ReviewByTrainer(ctx context.Context, id primitive.ObjectID, status domain.ReviewStatus, feedback string) (*domain.Demo, error)
	ReviewByMasterTrainer(ctx context.Context, id primitive.ObjectID, status domain.ReviewStatus, feedback string) (*domain.Demo, error)
	// Delete withdraws the caller's own demo while both review tracks
	// are still pending, removing the stored recording with it.
	Delete(ctx context.Context, id primitive.ObjectID, authorID string) error
}

type demoService struct {
	demoRepo    repository.DemoRepository
	fileStorage storage.FileStorage
	notifier    notify.Notifier
}

// NewDemoService creates a new instance of demoService.
func NewDemoService(demoRepo repository.DemoRepository, fileStorage storage.FileStorage, notifier notify.Notifier) DemoService {
	return &demoService{demoRepo: demoRepo, fileStorage: fileStorage, notifier: notifier}
}

func (s *demoService) RequestUploadURL(ctx context.Context, authorID, contentType string) (*UploadTarget, error) {
	objectKey := fmt.Sprintf("demos/%s/%s", authorID, uuid.NewString())
	url, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate upload URL: %w", err)
	}
	return &UploadTarget{ObjectKey: objectKey, UploadURL: url}, nil
}

func (s *demoService) Register(ctx context.Context, authorID, topic, recordingKey string) (*domain.Demo, error) {
	now := time.Now().UTC()
	demo := &domain.Demo{
		AuthorID:            authorID,
		Topic:               topic,
		RecordingKey:        recordingKey,
		TrainerStatus:       domain.ReviewStatusPending,
		MasterTrainerStatus: domain.ReviewStatusPending,
		SubmittedAt:         now,
		UpdatedAt:           now,
	}
	id, err := s.demoRepo.Create(ctx, demo)
	if err != nil {
		return nil, fmt.Errorf("failed to create demo: %w", err)
	}
	demo.ID = id
	notify.Dispatch(s.notifier, notify.Notification{
		Recipient: authorID,
		Role:      string(domain.RoleTrainer),
		Event:     "demo.submitted",
		Subject:   "Demo submitted",
		Body:      fmt.Sprintf("%s submitted a demo on %q", authorID, topic),
	})
	return demo, nil
}

func (s *demoService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Demo, error) {
	demo, err := s.demoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDemoNotFound
		}
		return nil, err
	}
	return demo, nil
}

func (s *demoService) ListForAuthor(ctx context.Context, authorID string) ([]domain.Demo, error) {
	return s.demoRepo.GetByAuthorID(ctx, authorID)
}

func (s *demoService) RecordingURL(ctx context.Context, id primitive.ObjectID) (string, error) {
	demo, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if demo.RecordingKey == "" {
		return "", ErrDemoNotFound
	}
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, demo.RecordingKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to generate download URL: %w", err)
	}
	return url, nil
}

func (s *demoService) ReviewByTrainer(ctx context.Context, id primitive.ObjectID, status domain.ReviewStatus, feedback string) (*domain.Demo, error) {
	return s.review(ctx, id, func(d *domain.Demo) {
		d.TrainerStatus = status
		d.TrainerFeedback = feedback
	})
}

func (s *demoService) ReviewByMasterTrainer(ctx context.Context, id primitive.ObjectID, status domain.ReviewStatus, feedback string) (*domain.Demo, error) {
	return s.review(ctx, id, func(d *domain.Demo) {
		d.MasterTrainerStatus = status
		d.MasterTrainerFeedback = feedback
	})
}

func (s *demoService) Delete(ctx context.Context, id primitive.ObjectID, authorID string) error {
	demo, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if demo.AuthorID != authorID {
		return ErrNotDemoOwner
	}
	if demo.TrainerStatus != domain.ReviewStatusPending || demo.MasterTrainerStatus != domain.ReviewStatusPending {
		return ErrDemoReviewed
	}
	if err := s.demoRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete demo: %w", err)
	}
	// The recording is cleaned up best-effort; an orphaned object is
	// preferable to a demo record pointing at nothing.
	if demo.RecordingKey != "" {
		if err := s.fileStorage.DeleteObject(ctx, demo.RecordingKey); err != nil {
			log.Printf("WARN: failed to delete recording %s: %v", demo.RecordingKey, err)
		}
	}
	return nil
}

func (s *demoService) review(ctx context.Context, id primitive.ObjectID, apply func(*domain.Demo)) (*domain.Demo, error) {
	demo, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(demo)
	demo.UpdatedAt = time.Now().UTC()
	if err := s.demoRepo.Update(ctx, demo); err != nil {
		return nil, fmt.Errorf("failed to update demo: %w", err)
	}
	notify.Dispatch(s.notifier, notify.Notification{
		Recipient: demo.AuthorID,
		Role:      string(domain.RoleTrainee),
		Event:     "demo.reviewed",
		Subject:   "Demo reviewed",
		Body:      fmt.Sprintf("your demo on %q is now %s", demo.Topic, demo.OverallStatus()),
	})
	return demo, nil
}
