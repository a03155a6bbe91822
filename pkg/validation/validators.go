package validation

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Graduation year bounds
const (
	MinGraduationYear = 1950
	MaxYearsAhead     = 10
)

// Regex patterns
var (
	// local@domain.tld, no whitespace and a single @ per side
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// digits plus + - ( ) and spaces, 7-20 characters
	phoneRegex = regexp.MustCompile(`^[\d+\-() ]{7,20}$`)

	yearRegex = regexp.MustCompile(`^\d{4}$`)
)

// Field identifies a validated wizard input
type Field string

const (
	FieldFirstName      Field = "firstName"
	FieldLastName       Field = "lastName"
	FieldEmail          Field = "email"
	FieldPhone          Field = "phone"
	FieldInstitution    Field = "institution"
	FieldDegree         Field = "degree"
	FieldFieldOfStudy   Field = "fieldOfStudy"
	FieldGraduationYear Field = "graduationYear"
)

// PersonalFields are the identity inputs gated on the first wizard step
var PersonalFields = []Field{FieldFirstName, FieldLastName, FieldEmail, FieldPhone}

// EducationFields are validated for every education entry
var EducationFields = []Field{FieldInstitution, FieldDegree, FieldFieldOfStudy, FieldGraduationYear}

// fieldRules holds the validator tag chain per field. Fields not listed are always valid.
var fieldRules = map[Field]string{
	FieldFirstName:      "required,min=2",
	FieldLastName:       "required,min=2",
	FieldEmail:          "required,wizard_email",
	FieldPhone:          "required,wizard_phone",
	FieldInstitution:    "required",
	FieldDegree:         "required",
	FieldFieldOfStudy:   "required",
	FieldGraduationYear: "required,four_digit_year,graduation_year",
}

// Outcome is the result of validating one field value
type Outcome struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

func valid() Outcome { return Outcome{Valid: true} }

func invalid(reason string) Outcome { return Outcome{Valid: false, Reason: reason} }

// Validator runs the per-field rules. It is safe for concurrent use.
type Validator struct {
	engine *validator.Validate
	now    func() time.Time
}

// New creates a Validator using the wall clock for year bounds
func New() *Validator {
	return NewWithClock(time.Now)
}

// NewWithClock creates a Validator whose graduation-year bound follows now
func NewWithClock(now func() time.Time) *Validator {
	v := validator.New()
	registerWizardValidators(v, now)
	return &Validator{engine: v, now: now}
}

// Engine exposes the underlying validator for struct validation
func (x *Validator) Engine() *validator.Validate {
	return x.engine
}

// Validate checks a raw value against the rules for field.
// Values are trimmed before checking; unknown fields are always valid.
func (x *Validator) Validate(field Field, raw string) Outcome {
	rule, ok := fieldRules[field]
	if !ok {
		return valid()
	}

	value := strings.TrimSpace(raw)
	if err := x.engine.Var(value, rule); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return invalid(x.reason(field, fieldErrs[0].Tag()))
		}
		return invalid(getFieldLabel(string(field)) + " is invalid")
	}
	return valid()
}

// MaxGraduationYear is the latest accepted graduation year right now
func (x *Validator) MaxGraduationYear() int {
	return x.now().Year() + MaxYearsAhead
}

// RegisterValidators registers the wizard's custom tags on an existing
// validator instance (used for gin's binding engine).
func RegisterValidators(v *validator.Validate) {
	registerWizardValidators(v, time.Now)
}

func registerWizardValidators(v *validator.Validate, now func() time.Time) {
	_ = v.RegisterValidation("wizard_email", ValidEmail)
	_ = v.RegisterValidation("wizard_phone", ValidPhone)
	_ = v.RegisterValidation("four_digit_year", FourDigitYear)
	_ = v.RegisterValidation("graduation_year", graduationYear(now))
}

// ValidEmail validates the local@domain.tld shape
func ValidEmail(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

// ValidPhone validates a loosely formatted phone number
func ValidPhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

// FourDigitYear accepts exactly four ASCII digits
func FourDigitYear(fl validator.FieldLevel) bool {
	return yearRegex.MatchString(fl.Field().String())
}

// graduationYear bounds the year between MinGraduationYear and now+MaxYearsAhead
func graduationYear(now func() time.Time) validator.Func {
	return func(fl validator.FieldLevel) bool {
		year, err := strconv.Atoi(fl.Field().String())
		if err != nil {
			return false
		}
		return year >= MinGraduationYear && year <= now().Year()+MaxYearsAhead
	}
}
