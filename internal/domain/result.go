package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExamFamily distinguishes the three exam-type families. The full exam
// identifier is family + ordinal, e.g. "fortnight3".
type ExamFamily string

const (
	ExamFamilyDaily     ExamFamily = "daily"
	ExamFamilyFortnight ExamFamily = "fortnight"
	ExamFamilyCourse    ExamFamily = "course"
)

// ResultStatus is the derived pass/fail status of one attempt.
type ResultStatus string

const (
	ResultStatusPassed ResultStatus = "passed"
	ResultStatusFailed ResultStatus = "failed"
)

// PassPercentage is the threshold at which an attempt counts as passed.
const PassPercentage = 60

// Result is one exam/quiz attempt for a person. Created on upload,
// immutable except for administrative correction.
type Result struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID   string             `bson:"authorId" json:"authorId"`
	Exam       string             `bson:"exam" json:"exam"` // e.g. "fortnight3", "daily12"
	Family     ExamFamily         `bson:"family" json:"family"`
	Ordinal    int                `bson:"ordinal" json:"ordinal"`
	Score      float64            `bson:"score" json:"score"`
	TotalMarks float64            `bson:"totalMarks" json:"totalMarks"`
	Percentage int                `bson:"percentage" json:"percentage"`
	Status     ResultStatus       `bson:"status" json:"status"`
	// Denormalized for dashboard queries without a join.
	Trainer    string    `bson:"trainer,omitempty" json:"trainer,omitempty"`
	Department string    `bson:"department,omitempty" json:"department,omitempty"`
	UploadedAt time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

// ComputePercentage derives the rounded percentage for a score.
// A zero (or negative) total falls back to 0% rather than dividing.
func ComputePercentage(score, totalMarks float64) int {
	if totalMarks <= 0 {
		return 0
	}
	return int(math.Round(score / totalMarks * 100))
}

// StatusForPercentage applies the pass threshold.
func StatusForPercentage(pct int) ResultStatus {
	if pct >= PassPercentage {
		return ResultStatusPassed
	}
	return ResultStatusFailed
}

// ExamName formats the canonical exam identifier from family + ordinal.
func ExamName(family ExamFamily, ordinal int) string {
	return fmt.Sprintf("%s%d", family, ordinal)
}

// ParseExam splits an exam identifier like "fortnight3" into its family
// and ordinal. Unknown prefixes return ok=false.
func ParseExam(exam string) (family ExamFamily, ordinal int, ok bool) {
	exam = strings.ToLower(strings.TrimSpace(exam))
	for _, f := range []ExamFamily{ExamFamilyFortnight, ExamFamilyDaily, ExamFamilyCourse} {
		prefix := string(f)
		if strings.HasPrefix(exam, prefix) {
			n := 0
			digits := exam[len(prefix):]
			if digits == "" {
				return f, 0, true
			}
			for _, r := range digits {
				if r < '0' || r > '9' {
					return "", 0, false
				}
				n = n*10 + int(r-'0')
			}
			return f, n, true
		}
	}
	return "", 0, false
}
