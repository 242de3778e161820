package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/MAMIDISETTI/taskmanagers/internal/domain"
	"github.com/MAMIDISETTI/taskmanagers/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const dayPlanCollectionName = "day_plans"

// mongoDayPlanRepository implements repository.DayPlanRepository using MongoDB.
type mongoDayPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoDayPlanRepository creates a new instance of mongoDayPlanRepository.
func NewMongoDayPlanRepository(db *mongo.Database) repository.DayPlanRepository {
	return &mongoDayPlanRepository{
		collection: db.Collection(dayPlanCollectionName),
	}
}

// Create inserts a new day plan. The unique (authorId, date) index turns
// a lost creation race into ErrDuplicate rather than a second plan.
func (r *mongoDayPlanRepository) Create(ctx context.Context, plan *domain.TraineeDayPlan) (primitive.ObjectID, error) {
	if plan.AuthorID == "" || plan.Date.IsZero() {
		return primitive.NilObjectID, errors.New("day plan author id and date are required")
	}

	plan.ID = primitive.NewObjectID()
	plan.Date = domain.PlanDate(plan.Date)
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	if plan.Status == "" {
		plan.Status = domain.DayPlanStatusDraft
	}

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a day plan by ObjectID.
func (r *mongoDayPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TraineeDayPlan, error) {
	var plan domain.TraineeDayPlan
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetByAuthorAndDate retrieves the plan for a trainee on a given day.
func (r *mongoDayPlanRepository) GetByAuthorAndDate(ctx context.Context, authorID string, date time.Time) (*domain.TraineeDayPlan, error) {
	var plan domain.TraineeDayPlan
	filter := bson.M{"authorId": authorID, "date": domain.PlanDate(date)}
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetByAuthorID retrieves plans for a trainee within a date range.
func (r *mongoDayPlanRepository) GetByAuthorID(ctx context.Context, authorID string, from, to time.Time) ([]domain.TraineeDayPlan, error) {
	filter := bson.M{"authorId": authorID}
	if dateRange := rangeFilter(from, to); dateRange != nil {
		filter["date"] = dateRange
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []domain.TraineeDayPlan
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// Update replaces the mutable fields of a plan document.
func (r *mongoDayPlanRepository) Update(ctx context.Context, plan *domain.TraineeDayPlan) error {
	plan.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"tasks":         plan.Tasks,
			"status":        plan.Status,
			"eod":           plan.EOD,
			"reviewRemarks": plan.ReviewRemarks,
			"reviewedAt":    plan.ReviewedAt,
			"updatedAt":     plan.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": plan.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureDayPlanIndexes creates necessary indexes for the day_plans collection.
func EnsureDayPlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// At most one plan per (trainee, date).
			Keys:    bson.D{{Key: "authorId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
