package wizard

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"tedred-internship-api/internal/domain"
)

var (
	ErrJumpRejected       = errors.New("can only jump back to a completed step")
	ErrSubmitted          = errors.New("application has already been submitted")
	ErrNotSubmitted       = errors.New("application has not been submitted yet")
	ErrWrongStep          = errors.New("operation is not available on the current step")
	ErrWrongStage         = errors.New("operation is not available on the current assessment stage")
	ErrUnknownQuestion    = errors.New("unknown assessment question")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrResultsNotComputed = errors.New("assessment results have not been computed")
	ErrInvalidLanguage    = errors.New("language and proficiency level are required")
	ErrDuplicateLanguage  = errors.New("language has already been added")
	ErrInvalidIndex       = errors.New("entry index out of range")
	ErrUnknownTeam        = errors.New("unknown department")
	ErrUnknownInterest    = errors.New("interest is not offered by the selected department")
	ErrNoDepartment       = errors.New("select a department first")
	ErrEmptySkill         = errors.New("skill must not be empty")
	ErrInvalidDateField   = errors.New("date field must be start_date or end_date")
	ErrInterviewOnWeekend = errors.New("interviews can only be scheduled on weekdays")
	ErrInterviewInPast    = errors.New("interview date must not be in the past")
	ErrInvalidResumeName  = errors.New("resume file name is required")
	ErrMissingReference   = errors.New("reference number is required")
	ErrSubmissionInFlight = errors.New("submission already in progress")
)

// GateError is returned when the active step's completion predicate fails.
// Fields maps each blocking field to its error message.
type GateError struct {
	Step   domain.StepID
	Fields map[string]string
}

func (e *GateError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	name := ""
	if def, ok := StepByID(e.Step); ok {
		name = def.Name
	}
	return fmt.Sprintf("step %q is incomplete: %s", name, strings.Join(keys, ", "))
}
