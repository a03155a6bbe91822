// Package wizard implements the application wizard: the outer step machine,
// the assessment sub-stepper and the mutators of the application record.
package wizard

import (
	"fmt"
	"time"

	"tedred-internship-api/internal/catalog"
	"tedred-internship-api/internal/domain"
	"tedred-internship-api/internal/ikigai"
	"tedred-internship-api/pkg/validation"
)

// StepChange is emitted on every outer step change. The UI resets its
// viewport when ScrollToTop is set.
type StepChange struct {
	From        domain.StepID
	To          domain.StepID
	ScrollToTop bool
}

func changed(from, to domain.StepID) *StepChange {
	return &StepChange{From: from, To: to, ScrollToTop: true}
}

// Machine drives one session. It is not safe for concurrent use; callers
// serialise access per session.
type Machine struct {
	s        *domain.WizardSession
	validate *validation.Validator
	engine   *ikigai.Engine
	now      func() time.Time
}

type Option func(*Machine)

func WithValidator(v *validation.Validator) Option {
	return func(m *Machine) { m.validate = v }
}

func WithEngine(e *ikigai.Engine) Option {
	return func(m *Machine) { m.engine = e }
}

func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// New wraps s. The session is mutated in place.
func New(s *domain.WizardSession, opts ...Option) *Machine {
	m := &Machine{
		s:   s,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.validate == nil {
		m.validate = validation.NewWithClock(m.now)
	}
	if m.engine == nil {
		m.engine = ikigai.Default()
	}
	if m.s.Touched == nil {
		m.s.Touched = map[string]bool{}
	}
	return m
}

// NewSession creates a session on the first step with an empty record
func NewSession(id string, now time.Time) *domain.WizardSession {
	return &domain.WizardSession{
		ID:              id,
		Step:            FirstStep,
		AssessmentStage: domain.AssessmentPassion,
		Touched:         map[string]bool{},
		Record:          domain.NewApplicationRecord(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Session returns the wrapped session
func (m *Machine) Session() *domain.WizardSession {
	return m.s
}

// Record returns a copy of the application record
func (m *Machine) Record() domain.ApplicationRecord {
	return m.s.Record.Clone()
}

func (m *Machine) touch() {
	m.s.UpdatedAt = m.now()
}

func (m *Machine) ensureOpen() error {
	if m.s.Submitted {
		return ErrSubmitted
	}
	return nil
}

func (m *Machine) ensureStep(step domain.StepID) error {
	if err := m.ensureOpen(); err != nil {
		return err
	}
	if m.s.Step != step {
		return ErrWrongStep
	}
	return nil
}

// ============================================================================
// Outer step machine
// ============================================================================

// Advance moves to the next step when the active step is complete.
// On the last step it is a no-op.
func (m *Machine) Advance() (*StepChange, error) {
	if err := m.ensureOpen(); err != nil {
		return nil, err
	}
	if m.s.Step >= LastStep {
		return nil, nil
	}

	if gateErr := m.gate(m.s.Step); gateErr != nil {
		return nil, gateErr
	}
	return m.moveTo(m.s.Step + 1), nil
}

// Retreat moves to the previous step without any gate. On the first step it is a no-op.
func (m *Machine) Retreat() (*StepChange, error) {
	if err := m.ensureOpen(); err != nil {
		return nil, err
	}
	if m.s.Step <= FirstStep {
		return nil, nil
	}
	return m.moveTo(m.s.Step - 1), nil
}

// JumpTo moves back to a previously completed step. Any target at or
// beyond the current step is rejected and leaves the session unchanged.
func (m *Machine) JumpTo(step domain.StepID) (*StepChange, error) {
	if err := m.ensureOpen(); err != nil {
		return nil, err
	}
	if step < FirstStep || step >= m.s.Step {
		return nil, fmt.Errorf("%w: requested %d from %d", ErrJumpRejected, step, m.s.Step)
	}
	return m.moveTo(step), nil
}

func (m *Machine) moveTo(step domain.StepID) *StepChange {
	from := m.s.Step
	m.s.Step = step
	if step == domain.StepDepartment {
		m.preselectDepartment()
	}
	m.touch()
	return changed(from, step)
}

// gate evaluates the completion predicate of a step. Blocking fields are
// marked touched so their errors become visible.
func (m *Machine) gate(step domain.StepID) *GateError {
	fields := map[string]string{}

	switch step {
	case domain.StepPersonalInfo:
		for key, out := range m.personalOutcomes() {
			if !out.Valid {
				fields[key] = out.Reason
			}
		}
	case domain.StepDiscover:
		if !m.s.AssessmentSkipped && !(m.s.AssessmentStage == domain.AssessmentResults && m.s.ResultsComputed) {
			fields["assessment"] = "Complete the assessment or skip it"
		}
	case domain.StepDepartment:
		if _, _, ok := catalog.TeamByID(m.s.Record.Department); !ok {
			fields["department"] = "Please select a department"
		}
	case domain.StepEducation:
		for key, out := range m.educationOutcomes() {
			if !out.Valid {
				fields[key] = out.Reason
			}
		}
	}

	if len(fields) == 0 {
		return nil
	}
	for key := range fields {
		m.s.Touched[key] = true
	}
	m.touch()
	return &GateError{Step: step, Fields: fields}
}

// preselectDepartment picks a team when the Department step is entered with
// assessment results and nothing chosen yet
func (m *Machine) preselectDepartment() {
	r := &m.s.Record
	if r.Department != "" || m.s.AssessmentSkipped {
		return
	}
	top, ok := r.IkigaiResults.Top()
	if !ok {
		return
	}

	if ids := catalog.TeamIDsNamed(r.IkigaiResults.TeamSuggestions); len(ids) > 0 {
		r.Department = ids[0]
		return
	}
	if dept, ok := catalog.DepartmentByKey(top.Key); ok && len(dept.Teams) > 0 {
		r.Department = dept.Teams[0].ID
	}
}

// ============================================================================
// Submission
// ============================================================================

// ReadyToSubmit checks that the session sits on Review and every gated
// step still holds, since the record may have changed after each step
// was passed.
func (m *Machine) ReadyToSubmit() error {
	if err := m.ensureStep(domain.StepReview); err != nil {
		return err
	}
	for _, def := range steps {
		if def.ID == domain.StepReview {
			break
		}
		if gateErr := m.gate(def.ID); gateErr != nil {
			return gateErr
		}
	}
	return nil
}

// MarkSubmitted enters the terminal Submitted state
func (m *Machine) MarkSubmitted(reference string, at time.Time) error {
	if err := m.ensureStep(domain.StepReview); err != nil {
		return err
	}
	if reference == "" {
		return ErrMissingReference
	}
	m.s.Record.ReferenceNumber = reference
	m.s.Submitted = true
	m.s.SubmittedAt = &at
	m.s.SubmitError = ""
	m.touch()
	return nil
}

// MarkSubmitFailed keeps the session on Review with the record intact
func (m *Machine) MarkSubmitFailed(reason string) {
	m.s.SubmitError = reason
	m.touch()
}

// Reset discards the record and returns to the first step. It is the only
// way out of the Submitted state.
func (m *Machine) Reset() *StepChange {
	from := m.s.Step
	now := m.now()

	m.s.Step = FirstStep
	m.s.AssessmentStage = domain.AssessmentPassion
	m.s.AssessmentSkipped = false
	m.s.ResultsComputed = false
	m.s.ResultsStale = false
	m.s.Submitted = false
	m.s.SubmittedAt = nil
	m.s.SubmitError = ""
	m.s.PendingReference = ""
	m.s.Touched = map[string]bool{}
	m.s.Record = domain.NewApplicationRecord()
	m.s.UpdatedAt = now

	return changed(from, FirstStep)
}
