package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentStatus tracks a timed assessment assignment.
type AssignmentStatus string

const (
	AssignmentStatusAssigned  AssignmentStatus = "assigned"
	AssignmentStatusCompleted AssignmentStatus = "completed"
)

// Assignment is a timed assessment given to a trainee. Per-question
// time (seconds) feeds the learning-hours total on the candidate
// dashboard.
type Assignment struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID string             `bson:"authorId" json:"authorId"`
	Title    string             `bson:"title" json:"title"`
	// QuestionTimeSec holds the time spent per question, in seconds.
	QuestionTimeSec []int            `bson:"questionTimeSec,omitempty" json:"questionTimeSec,omitempty"`
	Status          AssignmentStatus `bson:"status" json:"status"`
	AssignedAt      time.Time        `bson:"assignedAt" json:"assignedAt"`
	CompletedAt     *time.Time       `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// TotalSeconds sums the per-question time for the assignment.
func (a *Assignment) TotalSeconds() int {
	total := 0
	for _, s := range a.QuestionTimeSec {
		total += s
	}
	return total
}
