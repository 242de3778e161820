package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroomingScore is a discrete sub-rating on a daily observation.
type GroomingScore string

const (
	GroomingExcellent        GroomingScore = "excellent"
	GroomingGood             GroomingScore = "good"
	GroomingNeedsImprovement GroomingScore = "needs_improvement"
)

// Observation is a trainer's daily observation of a trainee, carrying
// the three grooming sub-ratings.
type Observation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID    string             `bson:"authorId" json:"authorId"`
	Date        time.Time          `bson:"date" json:"date"`
	DressCode   GroomingScore      `bson:"dressCode" json:"dressCode"`
	Neatness    GroomingScore      `bson:"neatness" json:"neatness"`
	Punctuality GroomingScore      `bson:"punctuality" json:"punctuality"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// GroomingRating rolls the three sub-ratings up into a day rating.
// Precedence is fixed: any needs_improvement collapses the day to
// "Average"; otherwise (all excellent/good, or anything unrecognized)
// the day is "Good".
func (o *Observation) GroomingRating() string {
	for _, s := range []GroomingScore{o.DressCode, o.Neatness, o.Punctuality} {
		if s == GroomingNeedsImprovement {
			return "Average"
		}
	}
	return "Good"
}
