package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewStatus is one reviewer's verdict on a demo.
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// Demo is a submitted training demo. The source system embedded demos
// in the user document and mutated them by array index; here each demo
// is a child entity with its own identity and an authorId foreign key,
// updated by single-document writes.
type Demo struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID string             `bson:"authorId" json:"authorId"`
	Topic    string             `bson:"topic" json:"topic"`
	// RecordingKey is the durable object-storage key returned by the
	// upload collaborator. Only the key/URL string is stored.
	RecordingKey string `bson:"recordingKey,omitempty" json:"recordingKey,omitempty"`

	// Trainer and master trainer review independently; the overall
	// status is composed from the two.
	TrainerStatus         ReviewStatus `bson:"trainerStatus" json:"trainerStatus"`
	TrainerFeedback       string       `bson:"trainerFeedback,omitempty" json:"trainerFeedback,omitempty"`
	MasterTrainerStatus   ReviewStatus `bson:"masterTrainerStatus" json:"masterTrainerStatus"`
	MasterTrainerFeedback string       `bson:"masterTrainerFeedback,omitempty" json:"masterTrainerFeedback,omitempty"`

	SubmittedAt time.Time `bson:"submittedAt" json:"submittedAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// OverallStatus composes the two independent review tracks into one
// status: any rejection rejects the demo, both approvals approve it,
// anything else is still pending.
func (d *Demo) OverallStatus() ReviewStatus {
	if d.TrainerStatus == ReviewStatusRejected || d.MasterTrainerStatus == ReviewStatusRejected {
		return ReviewStatusRejected
	}
	if d.TrainerStatus == ReviewStatusApproved && d.MasterTrainerStatus == ReviewStatusApproved {
		return ReviewStatusApproved
	}
	return ReviewStatusPending
}
