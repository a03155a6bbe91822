package domain

import (
	"context"
	"time"
)

// StepID is the 1-based position of a wizard step
type StepID int

const (
	StepPersonalInfo StepID = iota + 1
	StepDiscover
	StepDepartment
	StepEducation
	StepExperience
	StepReview
)

// Assessment sub-steps nested inside StepDiscover
const (
	AssessmentPassion = iota
	AssessmentMission
	AssessmentProfession
	AssessmentVocation
	AssessmentSoftSkills
	AssessmentLanguages
	AssessmentResults
)

// WizardSession owns exactly one ApplicationRecord for the lifetime of a wizard.
// Touched holds view state and is never copied into the record.
type WizardSession struct {
	ID                string            `json:"id"`
	Version           int64             `json:"version"`
	Step              StepID            `json:"step"`
	AssessmentStage   int               `json:"assessment_stage"`
	AssessmentSkipped bool              `json:"assessment_skipped"`
	ResultsComputed   bool              `json:"results_computed"`
	ResultsStale      bool              `json:"results_stale"`
	Submitted         bool              `json:"submitted"`
	SubmittedAt       *time.Time        `json:"submitted_at,omitempty"`
	SubmitError       string            `json:"submit_error,omitempty"`
	PendingReference  string            `json:"pending_reference,omitempty"` // reserved on the first submit attempt
	Touched           map[string]bool   `json:"touched"`
	Record            ApplicationRecord `json:"record"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// Clone deep-copies the session
func (s *WizardSession) Clone() *WizardSession {
	c := *s
	c.Record = s.Record.Clone()
	c.Touched = make(map[string]bool, len(s.Touched))
	for k, v := range s.Touched {
		c.Touched[k] = v
	}
	if s.SubmittedAt != nil {
		t := *s.SubmittedAt
		c.SubmittedAt = &t
	}
	return &c
}

// SubmittedApplication is what crosses the submission boundary
type SubmittedApplication struct {
	ReferenceNumber string            `json:"reference_number"`
	SessionID       string            `json:"session_id"`
	Record          ApplicationRecord `json:"record"`
	SubmittedAt     time.Time         `json:"submitted_at"`
}

// ============================================================================
// View DTOs
// ============================================================================

// StepStatus is "current", "completed" or "upcoming"
type StepStatus string

const (
	StepStatusCurrent   StepStatus = "current"
	StepStatusCompleted StepStatus = "completed"
	StepStatusUpcoming  StepStatus = "upcoming"
)

type StepView struct {
	ID        StepID     `json:"id"`
	Name      string     `json:"name"`
	Status    StepStatus `json:"status"`
	Skippable bool       `json:"skippable"`
}

type AssessmentView struct {
	Stage     int    `json:"stage"`
	Title     string `json:"title"`
	Skipped   bool   `json:"skipped"`
	Computed  bool   `json:"computed"`
	Stale     bool   `json:"stale"`
	CanSkip   bool   `json:"can_skip"`
	LastStage int    `json:"last_stage"`
}

// SubmissionSummary is shown once the wizard reaches the Submitted state
type SubmissionSummary struct {
	ReferenceNumber string     `json:"reference_number"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
	Email           string     `json:"email"`
	InterviewDate   *time.Time `json:"interview_date,omitempty"`
	ResumeName      string     `json:"resume_name,omitempty"`
	SkillCount      int        `json:"skill_count"`
}

// WizardView is the full state returned to the UI after every operation
type WizardView struct {
	SessionID              string             `json:"session_id"`
	Version                int64              `json:"version"`
	Step                   StepID             `json:"step"`
	StepName               string             `json:"step_name"`
	Steps                  []StepView         `json:"steps"`
	Progress               int                `json:"progress"`
	Assessment             AssessmentView     `json:"assessment"`
	Submitted              bool               `json:"submitted"`
	Summary                *SubmissionSummary `json:"summary,omitempty"`
	SubmitError            string             `json:"submit_error,omitempty"`
	ScrollToTop            bool               `json:"scroll_to_top"`
	FieldErrors            map[string]string  `json:"field_errors"`
	RecommendedTeamIDs     []string           `json:"recommended_team_ids"`
	RecommendedDepartments []string           `json:"recommended_departments"`
	InterestOptions        []string           `json:"interest_options"`
	Record                 ApplicationRecord  `json:"record"`
}

// ============================================================================
// Repository / boundary interfaces
// ============================================================================

// SessionRepository persists wizard sessions. Save is optimistic: it fails
// with ErrVersionConflict when the stored version differs from s.Version,
// and increments s.Version on success.
type SessionRepository interface {
	Create(ctx context.Context, s *WizardSession) error
	Get(ctx context.Context, id string) (*WizardSession, error)
	Save(ctx context.Context, s *WizardSession) error
	Delete(ctx context.Context, id string) error
}

// ApplicationSubmitter hands a finished application to the outside world
type ApplicationSubmitter interface {
	Submit(ctx context.Context, app *SubmittedApplication) error
}

// ApplicationNotifier informs the applicant after a successful submission
type ApplicationNotifier interface {
	NotifySubmitted(ctx context.Context, app *SubmittedApplication) error
}

// ExportFile is a rendered summary document ready for download
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ============================================================================
// Usecase Interface
// ============================================================================

type WizardUsecase interface {
	// Session lifecycle
	StartSession(ctx context.Context) (*WizardView, error)
	GetSession(ctx context.Context, id string) (*WizardView, error)
	Restart(ctx context.Context, id string) (*WizardView, error)

	// Aggregate updates
	UpdateRecord(ctx context.Context, id string, patch RecordPatch) (*WizardView, error)
	TouchFields(ctx context.Context, id string, fields []string) (*WizardView, error)

	// Outer step machine
	Advance(ctx context.Context, id string) (*WizardView, error)
	Retreat(ctx context.Context, id string) (*WizardView, error)
	JumpTo(ctx context.Context, id string, step StepID) (*WizardView, error)

	// Assessment
	AnswerQuestion(ctx context.Context, id, questionID string, rating int) (*WizardView, error)
	AssessmentNext(ctx context.Context, id string) (*WizardView, error)
	AssessmentBack(ctx context.Context, id string) (*WizardView, error)
	SkipAssessment(ctx context.Context, id string) (*WizardView, error)
	RecomputeAssessment(ctx context.Context, id string) (*WizardView, error)
	AddLanguage(ctx context.Context, id string, entry LanguageEntry) (*WizardView, error)
	RemoveLanguage(ctx context.Context, id string, index int) (*WizardView, error)

	// Department
	SelectDepartment(ctx context.Context, id, teamID string) (*WizardView, error)
	ToggleInterest(ctx context.Context, id, interest string) (*WizardView, error)

	// Education / experience / extras
	AddEducation(ctx context.Context, id string) (*WizardView, error)
	RemoveEducation(ctx context.Context, id string, index int) (*WizardView, error)
	AddExperience(ctx context.Context, id string) (*WizardView, error)
	RemoveExperience(ctx context.Context, id string, index int) (*WizardView, error)
	SetExperienceDate(ctx context.Context, id string, index int, field string, date time.Time) (*WizardView, error)
	SkipExperience(ctx context.Context, id string) (*WizardView, error)
	AddSkill(ctx context.Context, id, skill string) (*WizardView, error)
	RemoveSkill(ctx context.Context, id, skill string) (*WizardView, error)
	AttachResume(ctx context.Context, id, filename string, data []byte) (*WizardView, error)
	ScheduleInterview(ctx context.Context, id string, at time.Time) (*WizardView, error)

	// Terminal transitions
	Submit(ctx context.Context, id string) (*WizardView, error)
	Export(ctx context.Context, id, format string) (*ExportFile, error)
}
