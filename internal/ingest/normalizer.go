package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/MAMIDISETTI/taskmanagers/internal/domain"

	"github.com/google/uuid"
)

// Row is one loosely-typed record from an external spreadsheet or a
// direct API payload. No schema is declared up front; every field is
// resolved by inspection.
type Row map[string]interface{}

// emailPattern is the required-field check for candidate emails.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// phoneDigits matches a bare 10-15 digit phone value, used when none of
// the known phone keys are present and all fields are scanned instead.
var phoneDigits = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// phoneKeyCandidates is the ordered list of key names tried before
// falling back to a full-row scan. Spreadsheet exports are wildly
// inconsistent about this column.
var phoneKeyCandidates = []string{
	"phone_number",
	"phone",
	"phoneNumber",
	"mobile_number",
	"mobile",
	"contact_number",
	"contact",
	"candidate_phone_number",
}

var nameKeyCandidates = []string{
	"candidate_name",
	"name",
	"full_name",
	"candidateName",
}

var emailKeyCandidates = []string{
	"candidate_personal_mail_id",
	"email",
	"mail_id",
	"personal_email",
	"candidate_email",
}

var authorIDKeyCandidates = []string{
	"author_id",
	"authorId",
	"uuid",
	"unique_id",
}

// NormalizedJoiner pairs a validated record with the 1-based number of
// the spreadsheet row it came from, so later stages (dedup, insert)
// can report errors against the caller's row numbering.
type NormalizedJoiner struct {
	RowNum int
	Joiner domain.Joiner
}

// NormalizedResult is the result-row counterpart of NormalizedJoiner.
type NormalizedResult struct {
	RowNum int
	Result domain.Result
}

// BatchResult is the outcome of normalizing one batch: validated
// records, human-readable error strings keyed by 1-based row number,
// and non-fatal warnings (e.g. a discarded malformed author id).
type BatchResult struct {
	Joiners  []NormalizedJoiner
	Errors   []string
	Warnings []string
}

// ResultBatch is the result-row counterpart of BatchResult.
type ResultBatch struct {
	Results  []NormalizedResult
	Errors   []string
	Warnings []string
}

// NormalizeJoiners cleans and maps a batch of joiner rows. A failed row
// is excluded and recorded; it never stops processing of later rows.
func NormalizeJoiners(rows []Row) BatchResult {
	out := BatchResult{}

	for i, row := range rows {
		rowNum := i + 1

		name := firstString(row, nameKeyCandidates)
		if name == "" {
			out.Errors = append(out.Errors, fmt.Sprintf("row %d: candidate name is required", rowNum))
			continue
		}

		email := strings.ToLower(firstString(row, emailKeyCandidates))
		if email == "" {
			out.Errors = append(out.Errors, fmt.Sprintf("row %d: email is required", rowNum))
			continue
		}
		if !emailPattern.MatchString(email) {
			out.Errors = append(out.Errors, fmt.Sprintf("row %d: invalid email %q", rowNum, email))
			continue
		}

		phone, phoneErr := ResolvePhone(row)
		if phoneErr != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("row %d: %v", rowNum, phoneErr))
			continue
		}

		authorID, warned := ResolveAuthorID(firstString(row, authorIDKeyCandidates))
		if warned {
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("row %d: supplied author id is not a valid UUID v4, generated a new one", rowNum))
		}

		out.Joiners = append(out.Joiners, NormalizedJoiner{
			RowNum: rowNum,
			Joiner: domain.Joiner{
				Name:       name,
				Email:      email,
				Phone:      phone,
				Department: firstString(row, []string{"department", "dept"}),
				RoleAssign: firstString(row, []string{"role_assignment", "role", "designation"}),
				AuthorID:   authorID,
				Status:     domain.JoinerStatusPending,
			},
		})
	}

	return out
}

// NormalizeResults cleans and maps a batch of exam result rows.
func NormalizeResults(rows []Row) ResultBatch {
	out := ResultBatch{}

	for i, row := range rows {
		rowNum := i + 1

		authorID := firstString(row, authorIDKeyCandidates)
		if authorID == "" {
			out.Errors = append(out.Errors, fmt.Sprintf("row %d: author id is required", rowNum))
			continue
		}
		if !IsUUIDv4(authorID) {
			out.Errors = append(out.Errors, fmt.Sprintf("row %d: author id %q is not a valid UUID v4", rowNum, authorID))
			continue
		}

		exam := strings.ToLower(firstString(row, []string{"exam", "exam_type", "examName"}))
		if exam == "" {
			out.Errors = append(out.Errors, fmt.Sprintf("row %d: exam type is required", rowNum))
			continue
		}
		family, ordinal, ok := domain.ParseExam(exam)
		if !ok {
			out.Errors = append(out.Errors, fmt.Sprintf("row %d: unrecognized exam type %q", rowNum, exam))
			continue
		}

		score, ok := asNumber(firstValue(row, []string{"score", "marks_obtained", "obtained"}))
		if !ok {
			out.Errors = append(out.Errors, fmt.Sprintf("row %d: score is missing or not numeric", rowNum))
			continue
		}
		total, ok := asNumber(firstValue(row, []string{"total_marks", "totalMarks", "total"}))
		if !ok {
			out.Errors = append(out.Errors, fmt.Sprintf("row %d: total marks is missing or not numeric", rowNum))
			continue
		}

		pct := domain.ComputePercentage(score, total)
		out.Results = append(out.Results, NormalizedResult{
			RowNum: rowNum,
			Result: domain.Result{
				AuthorID:   strings.ToLower(authorID),
				Exam:       domain.ExamName(family, ordinal),
				Family:     family,
				Ordinal:    ordinal,
				Score:      score,
				TotalMarks: total,
				Percentage: pct,
				Status:     domain.StatusForPercentage(pct),
				Trainer:    firstString(row, []string{"trainer", "trainer_name"}),
				Department: firstString(row, []string{"department", "dept"}),
			},
		})
	}

	return out
}

// ResolvePhone finds and normalizes the phone number in a row. The
// known key names are tried in order; if none hit, every field is
// scanned for a value matching the 10-15 digit pattern. A row with no
// phone at all is accepted (phone is optional); a present-but-malformed
// value under a known key is an error.
func ResolvePhone(row Row) (string, error) {
	for _, key := range phoneKeyCandidates {
		raw, present := lookupFold(row, key)
		if !present {
			continue
		}
		s := strings.TrimSpace(anyToString(raw))
		if s == "" {
			continue
		}
		normalized := NormalizePhone(s)
		if !phoneDigits.MatchString(normalized) {
			return "", fmt.Errorf("malformed phone number %q", s)
		}
		return normalized, nil
	}

	// Fallback: scan every field for a raw value that is already
	// phone-shaped. Matching the raw value keeps digit-heavy ids from
	// false-matching after normalization.
	for _, v := range row {
		s := strings.TrimSpace(anyToString(v))
		if s != "" && phoneDigits.MatchString(s) {
			return NormalizePhone(s), nil
		}
	}

	return "", nil
}

// NormalizePhone strips everything but digits, keeping one leading '+'.
func NormalizePhone(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ResolveAuthorID keeps a caller-supplied id only when it is a valid
// UUID v4; anything else is discarded and replaced with a fresh one.
// The returned flag reports that a supplied value was discarded.
func ResolveAuthorID(supplied string) (id string, discarded bool) {
	supplied = strings.TrimSpace(supplied)
	if supplied == "" {
		return uuid.NewString(), false
	}
	if IsUUIDv4(supplied) {
		return strings.ToLower(supplied), false
	}
	return uuid.NewString(), true
}

// IsUUIDv4 reports whether s parses as a version-4 UUID.
func IsUUIDv4(s string) bool {
	u, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return u.Version() == 4
}

// --- row access helpers ---

// lookupFold finds a key case-insensitively, also tolerating space/
// underscore variants ("Phone Number" vs "phone_number").
func lookupFold(row Row, key string) (interface{}, bool) {
	if v, ok := row[key]; ok {
		return v, true
	}
	canon := canonKey(key)
	for k, v := range row {
		if canonKey(k) == canon {
			return v, true
		}
	}
	return nil, false
}

func canonKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	k = strings.ReplaceAll(k, " ", "_")
	k = strings.ReplaceAll(k, "-", "_")
	return k
}

func firstValue(row Row, keys []string) interface{} {
	for _, key := range keys {
		if v, ok := lookupFold(row, key); ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(row Row, keys []string) string {
	return strings.TrimSpace(anyToString(firstValue(row, keys)))
}

func anyToString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; render integers cleanly.
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func asNumber(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
