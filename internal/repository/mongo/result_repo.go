package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MAMIDISETTI/taskmanagers/internal/domain"
	"github.com/MAMIDISETTI/taskmanagers/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const resultCollectionName = "results"

// mongoResultRepository implements repository.ResultRepository using MongoDB.
type mongoResultRepository struct {
	collection *mongo.Collection
}

// NewMongoResultRepository creates a new instance of mongoResultRepository.
func NewMongoResultRepository(db *mongo.Database) repository.ResultRepository {
	return &mongoResultRepository{
		collection: db.Collection(resultCollectionName),
	}
}

// Create inserts a single exam result.
func (r *mongoResultRepository) Create(ctx context.Context, result *domain.Result) (primitive.ObjectID, error) {
	if result.AuthorID == "" || result.Exam == "" {
		return primitive.NilObjectID, errors.New("result author id and exam are required")
	}

	result.ID = primitive.NewObjectID()
	if result.UploadedAt.IsZero() {
		result.UploadedAt = time.Now().UTC()
	}

	res, err := r.collection.InsertOne(ctx, result)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single result by ObjectID.
func (r *mongoResultRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Result, error) {
	var result domain.Result
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// Update rewrites the score fields of a result.
func (r *mongoResultRepository) Update(ctx context.Context, result *domain.Result) error {
	update := bson.M{
		"$set": bson.M{
			"score":      result.Score,
			"totalMarks": result.TotalMarks,
			"percentage": result.Percentage,
			"status":     result.Status,
		},
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": result.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// GetByAuthorID retrieves results for a person within a date range.
// Zero from/to values leave that side of the range open.
func (r *mongoResultRepository) GetByAuthorID(ctx context.Context, authorID string, from, to time.Time) ([]domain.Result, error) {
	filter := bson.M{"authorId": authorID}
	if dateRange := rangeFilter(from, to); dateRange != nil {
		filter["uploadedAt"] = dateRange
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []domain.Result
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// FindExamKeys checks which (authorId, exam) pairs already exist. One
// $or query covers the whole batch.
func (r *mongoResultRepository) FindExamKeys(ctx context.Context, keys []string) ([]string, error) {
	if len(keys) == 0 {
		return []string{}, nil
	}

	ors := make([]bson.M, 0, len(keys))
	for _, key := range keys {
		parts := strings.SplitN(key, "|", 2)
		if len(parts) != 2 {
			continue
		}
		ors = append(ors, bson.M{"authorId": parts[0], "exam": parts[1]})
	}
	if len(ors) == 0 {
		return []string{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"$or": ors},
		options.Find().SetProjection(bson.M{"authorId": 1, "exam": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []domain.Result
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	existing := make([]string, 0, len(docs))
	for _, d := range docs {
		existing = append(existing, repository.ExamKey(d.AuthorID, d.Exam))
	}
	return existing, nil
}

// InsertMany commits a result batch with an unordered insert, collecting
// row-level failures instead of aborting on the first one.
func (r *mongoResultRepository) InsertMany(ctx context.Context, results []domain.Result) (repository.BulkInsertResult, error) {
	if len(results) == 0 {
		return repository.BulkInsertResult{}, nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, len(results))
	for i := range results {
		results[i].ID = primitive.NewObjectID()
		if results[i].UploadedAt.IsZero() {
			results[i].UploadedAt = now
		}
		docs[i] = results[i]
	}

	res, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))

	out := repository.BulkInsertResult{}
	if res != nil {
		out.Inserted = len(res.InsertedIDs)
	}
	if err != nil {
		var bwe mongo.BulkWriteException
		if errors.As(err, &bwe) {
			for _, we := range bwe.WriteErrors {
				out.Failures = append(out.Failures, repository.BulkInsertFailure{
					Index:   we.Index,
					Message: we.Message,
				})
			}
			return out, nil
		}
		return out, err
	}
	return out, nil
}

// rangeFilter builds a $gte/$lte document, or nil when both ends are zero.
func rangeFilter(from, to time.Time) bson.M {
	f := bson.M{}
	if !from.IsZero() {
		f["$gte"] = from
	}
	if !to.IsZero() {
		f["$lte"] = to
	}
	if len(f) == 0 {
		return nil
	}
	return f
}

// EnsureResultIndexes creates necessary indexes for the results collection.
func EnsureResultIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// One attempt per (person, exam); duplicates are rejected
			// at the store even when the advisory check races.
			Keys:    bson.D{{Key: "authorId", Value: 1}, {Key: "exam", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "uploadedAt", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
