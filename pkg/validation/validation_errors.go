package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps wizard field and DTO struct names to user-facing labels
var FieldLabels = map[string]string{
	// Personal info
	"firstName": "First name",
	"lastName":  "Last name",
	"email":     "Email",
	"phone":     "Phone number",
	"FirstName": "First name",
	"LastName":  "Last name",
	"Email":     "Email",
	"Phone":     "Phone number",

	// Education
	"institution":    "Institution",
	"degree":         "Degree",
	"fieldOfStudy":   "Field of study",
	"graduationYear": "Graduation year",

	// Request payloads
	"QuestionID":  "Question",
	"Rating":      "Rating",
	"Language":    "Language",
	"Level":       "Proficiency level",
	"Department":  "Department",
	"Interest":    "Interest",
	"Skill":       "Skill",
	"Step":        "Step",
	"Fields":      "Fields",
	"ScheduledAt": "Interview date",
	"Index":       "Entry",
	"Version":     "Version",
}

// reason builds the inline message for a failed field rule
func (x *Validator) reason(field Field, tag string) string {
	label := getFieldLabel(string(field))

	switch tag {
	case "required":
		return label + " is required"
	case "min":
		return label + " is too short"
	case "wizard_email":
		return "Please enter a valid email address"
	case "wizard_phone":
		return "Please enter a valid phone number"
	case "four_digit_year":
		return "Please enter a valid year (e.g., 2023)"
	case "graduation_year":
		return fmt.Sprintf("Year must be between %d and %d", MinGraduationYear, x.MaxGraduationYear())
	default:
		return fmt.Sprintf("%s is invalid (%s)", label, tag)
	}
}

// VisibleErrors keeps only the failed outcomes whose key has been touched.
// Errors never display for a field the user has not blurred or submitted.
func VisibleErrors(touched map[string]bool, outcomes map[string]Outcome) map[string]string {
	visible := make(map[string]string)
	for key, outcome := range outcomes {
		if outcome.Valid || !touched[key] {
			continue
		}
		visible[key] = outcome.Reason
	}
	return visible
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// formatSingleError formats a single binding error
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at most %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s: must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "wizard_email", "email":
		return fmt.Sprintf("%s: invalid email format", label)
	case "wizard_phone":
		return fmt.Sprintf("%s: invalid phone number", label)
	case "gte", "lte":
		return fmt.Sprintf("%s: out of range (%s %s)", label, e.Tag(), param)
	default:
		return fmt.Sprintf("%s: validation failed (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
