package usecase

import (
	"errors"
	"net/http"

	"tedred-internship-api/internal/domain"
	"tedred-internship-api/internal/export"
	"tedred-internship-api/internal/ikigai"
	"tedred-internship-api/internal/wizard"
	"tedred-internship-api/pkg/apperror"
	"tedred-internship-api/pkg/security"
	"tedred-internship-api/pkg/security/antivirus"
)

// ErrResumeInfected is returned when the malware scan flags an upload
var ErrResumeInfected = errors.New("resume was rejected by the malware scan")

// GateDetails is the client payload of a blocked step
type GateDetails struct {
	Step     domain.StepID     `json:"step"`
	StepName string            `json:"step_name"`
	Fields   map[string]string `json:"fields"`
}

// conflictErrors are operations not allowed in the session's current state
var conflictErrors = []error{
	domain.ErrVersionConflict,
	wizard.ErrJumpRejected,
	wizard.ErrSubmitted,
	wizard.ErrNotSubmitted,
	wizard.ErrWrongStep,
	wizard.ErrWrongStage,
	wizard.ErrResultsNotComputed,
	wizard.ErrSubmissionInFlight,
}

// badInputErrors are rejected arguments
var badInputErrors = []error{
	wizard.ErrUnknownQuestion,
	wizard.ErrInvalidRating,
	wizard.ErrInvalidLanguage,
	wizard.ErrDuplicateLanguage,
	wizard.ErrInvalidIndex,
	wizard.ErrUnknownTeam,
	wizard.ErrUnknownInterest,
	wizard.ErrNoDepartment,
	wizard.ErrEmptySkill,
	wizard.ErrInvalidDateField,
	wizard.ErrInterviewOnWeekend,
	wizard.ErrInterviewInPast,
	wizard.ErrInvalidResumeName,
	wizard.ErrMissingReference,
	export.ErrUnsupportedFormat,
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// mapError translates domain and state-machine errors into AppErrors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var gate *wizard.GateError
	if errors.As(err, &gate) {
		return apperror.Unprocessable(gate.Error(), err).WithDetails(GateDetails{
			Step:     gate.Step,
			StepName: stepName(gate.Step),
			Fields:   gate.Fields,
		})
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperror.NotFound("Wizard session not found")
	case errors.Is(err, domain.ErrVersionConflict):
		return apperror.Conflict("Session was modified elsewhere, reload and try again", err)
	case isAny(err, conflictErrors):
		return apperror.Conflict(err.Error(), err)
	case isAny(err, badInputErrors):
		return apperror.New(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, ikigai.ErrIncompleteAnswers), errors.Is(err, ikigai.ErrInvalidRating):
		return apperror.Unprocessable(err.Error(), err)
	case errors.Is(err, ErrResumeInfected):
		return apperror.Unprocessable(err.Error(), err)
	case errors.Is(err, antivirus.ErrUnavailable):
		return apperror.ServiceUnavailable("Resume scanning is temporarily unavailable, please try again", err)
	case errors.Is(err, security.ErrFileTooLarge):
		return apperror.TooLarge("Resume must be 5MB or smaller")
	case errors.Is(err, security.ErrFileEmpty), errors.Is(err, security.ErrNoExtension):
		return apperror.BadRequest(err.Error())
	case errors.Is(err, security.ErrExtensionRejected),
		errors.Is(err, security.ErrContentMismatch),
		errors.Is(err, security.ErrMIMERejected):
		return apperror.UnsupportedMediaType("Resume must be a PDF, DOC or DOCX file")
	default:
		return apperror.Internal(err)
	}
}
