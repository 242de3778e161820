package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputePercentage(t *testing.T) {
	assert.Equal(t, 75, ComputePercentage(15, 20))
	assert.Equal(t, 100, ComputePercentage(20, 20))
	assert.Equal(t, 0, ComputePercentage(0, 20))
	// Rounding, not truncation.
	assert.Equal(t, 67, ComputePercentage(2, 3))
	assert.Equal(t, 33, ComputePercentage(1, 3))
}

func TestComputePercentageZeroTotal(t *testing.T) {
	// A zero or negative total must not divide; it falls back to 0%.
	assert.Equal(t, 0, ComputePercentage(15, 0))
	assert.Equal(t, 0, ComputePercentage(15, -5))
}

func TestStatusForPercentage(t *testing.T) {
	assert.Equal(t, ResultStatusPassed, StatusForPercentage(60))
	assert.Equal(t, ResultStatusPassed, StatusForPercentage(100))
	assert.Equal(t, ResultStatusFailed, StatusForPercentage(59))
	assert.Equal(t, ResultStatusFailed, StatusForPercentage(0))
}

func TestParseExam(t *testing.T) {
	family, ordinal, ok := ParseExam("fortnight3")
	assert.True(t, ok)
	assert.Equal(t, ExamFamilyFortnight, family)
	assert.Equal(t, 3, ordinal)

	family, ordinal, ok = ParseExam("Daily12")
	assert.True(t, ok)
	assert.Equal(t, ExamFamilyDaily, family)
	assert.Equal(t, 12, ordinal)

	family, ordinal, ok = ParseExam("course1")
	assert.True(t, ok)
	assert.Equal(t, ExamFamilyCourse, family)
	assert.Equal(t, 1, ordinal)

	_, _, ok = ParseExam("midterm2")
	assert.False(t, ok)

	_, _, ok = ParseExam("fortnightX")
	assert.False(t, ok)
}

func TestExamName(t *testing.T) {
	assert.Equal(t, "fortnight3", ExamName(ExamFamilyFortnight, 3))
	assert.Equal(t, "daily1", ExamName(ExamFamilyDaily, 1))
}
