package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tedred-internship-api/internal/domain"
	"tedred-internship-api/internal/export"
	"tedred-internship-api/internal/ikigai"
	"tedred-internship-api/internal/wizard"
	"tedred-internship-api/pkg/apperror"
	"tedred-internship-api/pkg/audit"
	"tedred-internship-api/pkg/logger"
	"tedred-internship-api/pkg/metrics"
	"tedred-internship-api/pkg/security"
	"tedred-internship-api/pkg/security/antivirus"
	"tedred-internship-api/pkg/validation"
)

// ReferencePrefix starts every reference number
const ReferencePrefix = "TED-"

// submitFailedMessage is shown on the Review step after a failed submission
const submitFailedMessage = "We could not submit your application. Please try again."

type WizardConfig struct {
	ExportPrefix      string
	SubmitMaxAttempts int
	SubmitBackoffBase time.Duration
	MaxResumeBytes    int64
	NotifyTimeout     time.Duration
}

// Option customises the wizard usecase (clock, ids, sleeping) for tests
type Option func(*wizardUsecase)

func WithClock(now func() time.Time) Option {
	return func(u *wizardUsecase) { u.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(u *wizardUsecase) { u.newID = newID }
}

func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(u *wizardUsecase) { u.sleep = sleep }
}

// WithResumeScanner scans every resume before it is accepted
func WithResumeScanner(scanner antivirus.Scanner) Option {
	return func(u *wizardUsecase) { u.scanner = scanner }
}

type wizardUsecase struct {
	sessions  domain.SessionRepository
	submitter domain.ApplicationSubmitter
	notifier  domain.ApplicationNotifier
	audit     *audit.Logger
	cfg       WizardConfig

	engine   *ikigai.Engine
	validate *validation.Validator
	now      func() time.Time
	newID    func() string
	sleep    func(ctx context.Context, d time.Duration) error
	scanner  antivirus.Scanner

	// session ids with a submission running in this process
	inflight sync.Map
}

// NewWizardUsecase wires the wizard state machine to its stores. notifier
// may be nil when no confirmation e-mail should be sent.
func NewWizardUsecase(
	sessions domain.SessionRepository,
	submitter domain.ApplicationSubmitter,
	notifier domain.ApplicationNotifier,
	auditLogger *audit.Logger,
	cfg WizardConfig,
	opts ...Option,
) domain.WizardUsecase {
	if cfg.SubmitMaxAttempts < 1 {
		cfg.SubmitMaxAttempts = 1
	}
	if cfg.ExportPrefix == "" {
		cfg.ExportPrefix = export.DefaultPrefix
	}
	if cfg.MaxResumeBytes <= 0 {
		cfg.MaxResumeBytes = security.MaxResumeSize
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 15 * time.Second
	}

	u := &wizardUsecase{
		sessions:  sessions,
		submitter: submitter,
		notifier:  notifier,
		audit:     auditLogger,
		cfg:       cfg,
		engine:    ikigai.Default(),
		now:       time.Now,
		newID:     uuid.NewString,
		sleep:     sleepContext,
	}
	for _, opt := range opts {
		opt(u)
	}
	u.validate = validation.NewWithClock(u.now)
	return u
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ============================================================================
// Plumbing
// ============================================================================

func (u *wizardUsecase) machine(s *domain.WizardSession) *wizard.Machine {
	return wizard.New(s,
		wizard.WithEngine(u.engine),
		wizard.WithValidator(u.validate),
		wizard.WithClock(u.now),
	)
}

func (u *wizardUsecase) load(ctx context.Context, id string) (*domain.WizardSession, error) {
	s, err := u.sessions.Get(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return s, nil
}

func (u *wizardUsecase) save(ctx context.Context, s *domain.WizardSession) error {
	if err := u.sessions.Save(ctx, s); err != nil {
		return mapError(err)
	}
	return nil
}

// mutate runs op against a freshly loaded session and persists the result.
// Gate failures still persist, since they mark the blocking fields touched.
func (u *wizardUsecase) mutate(ctx context.Context, id string, op func(m *wizard.Machine) (*wizard.StepChange, error)) (*domain.WizardView, error) {
	s, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	m := u.machine(s)

	change, err := op(m)
	if err != nil {
		var gate *wizard.GateError
		if errors.As(err, &gate) {
			u.recordBlocked(ctx, s, gate)
			if saveErr := u.save(ctx, s); saveErr != nil {
				return nil, saveErr
			}
		}
		return nil, mapError(err)
	}

	if err := u.save(ctx, s); err != nil {
		return nil, err
	}
	if change != nil {
		u.recordTransition(ctx, s, change)
	}

	view := m.View(change)
	return &view, nil
}

// noChange adapts operations that never move the outer step
func noChange(op func(m *wizard.Machine) error) func(m *wizard.Machine) (*wizard.StepChange, error) {
	return func(m *wizard.Machine) (*wizard.StepChange, error) {
		return nil, op(m)
	}
}

func stepName(id domain.StepID) string {
	if def, ok := wizard.StepByID(id); ok {
		return def.Name
	}
	return fmt.Sprintf("step %d", id)
}

func (u *wizardUsecase) recordBlocked(ctx context.Context, s *domain.WizardSession, gate *wizard.GateError) {
	fields := make([]string, 0, len(gate.Fields))
	for k := range gate.Fields {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	metrics.StepBlocked.WithLabelValues(stepName(gate.Step)).Inc()
	u.audit.LogStepBlocked(ctx, s.ID, stepName(gate.Step), fields)
}

func (u *wizardUsecase) recordTransition(ctx context.Context, s *domain.WizardSession, change *wizard.StepChange) {
	metrics.StepTransitions.WithLabelValues(stepName(change.To)).Inc()
	u.audit.Log(ctx, audit.Event{
		Event:     audit.EventStepAdvanced,
		SessionID: s.ID,
		RequestID: audit.RequestIDFromContext(ctx),
		Details: map[string]interface{}{
			"from": stepName(change.From),
			"to":   stepName(change.To),
		},
	})
}

// ============================================================================
// Session lifecycle
// ============================================================================

func (u *wizardUsecase) StartSession(ctx context.Context) (*domain.WizardView, error) {
	s := wizard.NewSession(u.newID(), u.now())
	if err := u.sessions.Create(ctx, s); err != nil {
		return nil, mapError(err)
	}

	metrics.SessionsStarted.Inc()
	u.audit.Log(ctx, audit.Event{
		Event:     audit.EventSessionStarted,
		SessionID: s.ID,
		RequestID: audit.RequestIDFromContext(ctx),
	})

	view := u.machine(s).View(nil)
	return &view, nil
}

func (u *wizardUsecase) GetSession(ctx context.Context, id string) (*domain.WizardView, error) {
	s, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	view := u.machine(s).View(nil)
	return &view, nil
}

// Restart discards the record and starts over on the first step. It is
// also the only way out of the Submitted state.
func (u *wizardUsecase) Restart(ctx context.Context, id string) (*domain.WizardView, error) {
	view, err := u.mutate(ctx, id, func(m *wizard.Machine) (*wizard.StepChange, error) {
		return m.Reset(), nil
	})
	if err != nil {
		return nil, err
	}
	u.audit.Log(ctx, audit.Event{
		Event:     audit.EventSessionReset,
		SessionID: id,
		RequestID: audit.RequestIDFromContext(ctx),
	})
	return view, nil
}

// ============================================================================
// Aggregate updates
// ============================================================================

func (u *wizardUsecase) UpdateRecord(ctx context.Context, id string, patch domain.RecordPatch) (*domain.WizardView, error) {
	return u.mutate(ctx, id, noChange(func(m *wizard.Machine) error {
		return m.Update(patch)
	}))
}

func (u *wizardUsecase) TouchFields(ctx context.Context, id string, fields []string) (*domain.WizardView, error) {
	return u.mutate(ctx, id, noChange(func(m *wizard.Machine) error {
		m.Touch(fields...)
		return nil
	}))
}

// ============================================================================
// Outer step machine
// ============================================================================

func (u *wizardUsecase) Advance(ctx context.Context, id string) (*domain.WizardView, error) {
	return u.mutate(ctx, id, func(m *wizard.Machine) (*wizard.StepChange, error) {
		return m.Advance()
	})
}

func (u *wizardUsecase) Retreat(ctx context.Context, id string) (*domain.WizardView, error) {
	return u.mutate(ctx, id, func(m *wizard.Machine) (*wizard.StepChange, error) {
		return m.Retreat()
	})
}

func (u *wizardUsecase) JumpTo(ctx context.Context, id string, step domain.StepID) (*domain.WizardView, error) {
	return u.mutate(ctx, id, func(m *wizard.Machine) (*wizard.StepChange, error) {
		return m.JumpTo(step)
	})
}

// ============================================================================
// Assessment
// ============================================================================

func (u *wizardUsecase) AnswerQuestion(ctx context.Context, id, questionID string, rating int) (*domain.WizardView, error) {
	return u.mutate(ctx, id, noChange(func(m *wizard.Machine) error {
		return m.AnswerQuestion(questionID, rating)
	}))
}

func (u *wizardUsecase) AssessmentNext(ctx context.Context, id string) (*domain.WizardView, error) {
	view, err := u.mutate(ctx, id, noChange(func(m *wizard.Machine) error {
		return m.AssessmentNext()
	}))
	if err != nil {
		return nil, err
	}
	if view.Assessment.Stage == domain.AssessmentResults && view.Assessment.Computed {
		u.recordScored(ctx, id, view.Record.IkigaiResults)
	}
	return view, nil
}

func (u *wizardUsecase) recordScored(ctx context.Context, id string, result domain.IkigaiResult) {
	top, ok := result.Top()
	if !ok {
		return
	}
	metrics.AssessmentsScored.WithLabelValues(string(top.Key)).Inc()
	u.audit.Log(ctx, audit.Event{
		Event:     audit.EventAssessmentCompleted,
		SessionID: id,
		RequestID: audit.RequestIDFromContext(ctx),
		Details: map[string]interface{}{
			"top":   string(top.Key),
			"score": top.Score,
			"teams": result.TeamSuggestions,
		},
	})
}

func (u *wizardUsecase) AssessmentBack(ctx context.Context, id string) (*domain.WizardView, error) {
	return u.mutate(ctx, id, func(m *wizard.Machine) (*wizard.StepChange, error) {
		return m.AssessmentBack()
	})
}

func (u *wizardUsecase) SkipAssessment(ctx context.Context, id string) (*domain.WizardView, error) {
	view, err := u.mutate(ctx, id, func(m *wizard.Machine) (*wizard.StepChange, error) {
		return m.SkipAssessment()
	})
	if err != nil {
		return nil, err
	}
	u.audit.Log(ctx, audit.Event{
		Event:     audit.EventAssessmentSkipped,
		SessionID: id,
		RequestID: audit.RequestIDFromContext(ctx),
	})
	return view, nil
}

func (u *wizardUsecase) RecomputeAssessment(ctx context.Context, id string) (*domain.WizardView, error) {
	view, err := u.mutate(ctx, id, noChange(func(m *wizard.Machine) error {
		return m.RecomputeResults()
	}))
	if err != nil {
		return nil, err
	}
	u.recordScored(ctx, id, view.Record.IkigaiResults)
	return view, nil
}

func (u *wizardUsecase) AddLanguage(ctx context.Context, id string, entry domain.LanguageEntry) (*domain.WizardView, error) {
	return u.mutate(ctx, id, noChange(func(m *wizard.Machine) error {
		return m.AddLanguage(entry)
	}))
}

func (u *wizardUsecase) RemoveLanguage(ctx context.Context, id string, index int) (*domain.WizardView, error) {
	return u.mutate(ctx, id, noChange(func(m *wizard.Machine) error {
		return m.RemoveLanguage(index)
	}))
}

// ============================================================================
// Department
// ============================================================================

func (u *wizardUsecase) SelectDepartment(ctx context.Context, id, teamID string) (*domain.WizardView, error) {
	return u.mutate(ctx, id, noChange(func(m *wizard.Machine) error {
		return m.SelectDepartment(teamID)
	}))
}

func (u *wizardUsecase) ToggleInterest(ctx context.Context, id, interest string) (*domain.WizardView, error) {
	return u.mutate(ctx, id, noChange(func(m *wizard.Machine) error {
		return m.ToggleInterest(interest)
	}))
}

// ============================================================================
// Education / experience / extras
// ============================================================================

func (u *wizardUsecase) AddEducation(ctx context.Context, id string) (*domain.WizardView, error) {
	return u.mutate(ctx, id, noChange(func(m *wizard.Machine) error {
		return m.AddEducation()
	}))
}

func (u *wizardUsecase) RemoveEducation(ctx context.Context, id string, index int) (*domain.WizardView, error) {
	return u.mutate(ctx, id, noChange(func(m *wizard.Machine) error {
		return m.RemoveEducation(index)
	}))
}

func (u *wizardUsecase) AddExperience(ctx context.Context, id string) (*domain.WizardView, error) {
	return u.mutate(ctx, id, noChange(func(m *wizard.Machine) error {
		return m.AddExperience()
	}))
}

func (u *wizardUsecase) RemoveExperience(ctx context.Context, id string, index int) (*domain.WizardView, error) {
	return u.mutate(ctx, id, noChange(func(m *wizard.Machine) error {
		return m.RemoveExperience(index)
	}))
}

func (u *wizardUsecase) SetExperienceDate(ctx context.Context, id string, index int, field string, date time.Time) (*domain.WizardView, error) {
	return u.mutate(ctx, id, noChange(func(m *wizard.Machine) error {
		return m.SetExperienceDate(index, field, date)
	}))
}

func (u *wizardUsecase) SkipExperience(ctx context.Context, id string) (*domain.WizardView, error) {
	return u.mutate(ctx, id, func(m *wizard.Machine) (*wizard.StepChange, error) {
		return m.SkipExperience()
	})
}

func (u *wizardUsecase) AddSkill(ctx context.Context, id, skill string) (*domain.WizardView, error) {
	return u.mutate(ctx, id, noChange(func(m *wizard.Machine) error {
		return m.AddSkill(skill)
	}))
}

func (u *wizardUsecase) RemoveSkill(ctx context.Context, id, skill string) (*domain.WizardView, error) {
	return u.mutate(ctx, id, noChange(func(m *wizard.Machine) error {
		return m.RemoveSkill(skill)
	}))
}

// AttachResume validates the upload and keeps only its file name. The bytes
// are never stored or forwarded.
func (u *wizardUsecase) AttachResume(ctx context.Context, id, filename string, data []byte) (*domain.WizardView, error) {
	if _, err := security.ValidateResume(filename, data, u.cfg.MaxResumeBytes); err != nil {
		u.rejectResume(ctx, id, len(data), err.Error())
		return nil, mapError(err)
	}
	if err := u.scanResume(ctx, id, filename, data); err != nil {
		return nil, mapError(err)
	}
	return u.mutate(ctx, id, noChange(func(m *wizard.Machine) error {
		return m.AttachResume(filename)
	}))
}

func (u *wizardUsecase) rejectResume(ctx context.Context, id string, size int, reason string) {
	u.audit.Log(ctx, audit.Event{
		Event:     audit.EventResumeRejected,
		SessionID: id,
		RequestID: audit.RequestIDFromContext(ctx),
		Details:   map[string]interface{}{"reason": reason, "size": size},
	})
}

// scanResume fails closed: an unreachable scanner rejects the upload
func (u *wizardUsecase) scanResume(ctx context.Context, id, filename string, data []byte) error {
	if u.scanner == nil {
		return nil
	}
	result, err := u.scanner.Scan(ctx, filename, data)
	if err != nil {
		logger.Log.Error("Resume scan failed", "scanner", u.scanner.Name(), "session_id", id, "error", err)
		u.rejectResume(ctx, id, len(data), "scan failed")
		return fmt.Errorf("%w: %v", antivirus.ErrUnavailable, err)
	}
	if result.Infected {
		u.rejectResume(ctx, id, len(data), "infected: "+result.ThreatName)
		return ErrResumeInfected
	}
	return nil
}

func (u *wizardUsecase) ScheduleInterview(ctx context.Context, id string, at time.Time) (*domain.WizardView, error) {
	return u.mutate(ctx, id, noChange(func(m *wizard.Machine) error {
		return m.ScheduleInterview(at)
	}))
}

// ============================================================================
// Submission
// ============================================================================

// NewReference returns "TED-" followed by 8 uppercase hex characters
func NewReference(id string) string {
	hex := strings.ReplaceAll(id, "-", "")
	if len(hex) > 8 {
		hex = hex[:8]
	}
	return ReferencePrefix + strings.ToUpper(hex)
}

// Submit hands the record to the submission boundary. On failure the session
// stays on Review with its record intact and a visible submit error.
func (u *wizardUsecase) Submit(ctx context.Context, id string) (*domain.WizardView, error) {
	if _, busy := u.inflight.LoadOrStore(id, struct{}{}); busy {
		return nil, mapError(wizard.ErrSubmissionInFlight)
	}
	defer u.inflight.Delete(id)

	s, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	m := u.machine(s)

	if err := m.ReadyToSubmit(); err != nil {
		var gate *wizard.GateError
		if errors.As(err, &gate) {
			u.recordBlocked(ctx, s, gate)
			if saveErr := u.save(ctx, s); saveErr != nil {
				return nil, saveErr
			}
		}
		return nil, mapError(err)
	}

	// Reserved once and persisted before the first attempt. Later Submit calls
	// reuse it, so the submitter sees one reference per application.
	if s.PendingReference == "" {
		s.PendingReference = NewReference(u.newID())
		if err := u.save(ctx, s); err != nil {
			return nil, err
		}
	}

	at := u.now()
	app := &domain.SubmittedApplication{
		ReferenceNumber: s.PendingReference,
		SessionID:       s.ID,
		Record:          m.Record(),
		SubmittedAt:     at,
	}
	app.Record.ReferenceNumber = app.ReferenceNumber

	start := time.Now()
	attempts, err := u.submitWithRetry(ctx, app)
	metrics.SubmissionDuration.Observe(time.Since(start).Seconds())
	metrics.Submissions.WithLabelValues(metrics.Outcome(err)).Inc()
	u.audit.LogSubmission(ctx, s.ID, app.ReferenceNumber, app.Record.Email, attempts, err)

	if err != nil {
		logger.Log.Error("Application submission failed",
			"session_id", s.ID,
			"reference", app.ReferenceNumber,
			"attempts", attempts,
			"error", err,
		)
		m.MarkSubmitFailed(submitFailedMessage)
		if saveErr := u.sessions.Save(ctx, s); saveErr != nil {
			logger.Log.Error("Failed to store submit error", "session_id", s.ID, "error", saveErr)
		}
		return nil, apperror.BadGateway(submitFailedMessage, err)
	}

	if err := m.MarkSubmitted(app.ReferenceNumber, at); err != nil {
		return nil, mapError(err)
	}
	if err := u.save(ctx, s); err != nil {
		logger.Log.Error("Submitted application but failed to store session",
			"session_id", s.ID,
			"reference", app.ReferenceNumber,
			"error", err,
		)
		return nil, err
	}

	u.notify(ctx, app)

	view := m.View(nil)
	view.ScrollToTop = true
	return &view, nil
}

// submitWithRetry makes up to SubmitMaxAttempts attempts with exponential
// backoff. It returns the number of attempts made.
func (u *wizardUsecase) submitWithRetry(ctx context.Context, app *domain.SubmittedApplication) (int, error) {
	delay := u.cfg.SubmitBackoffBase
	var err error
	for attempt := 1; ; attempt++ {
		if err = u.submitter.Submit(ctx, app); err == nil {
			return attempt, nil
		}
		if attempt >= u.cfg.SubmitMaxAttempts || ctx.Err() != nil {
			return attempt, err
		}

		logger.Log.Warn("Submission attempt failed, retrying",
			"reference", app.ReferenceNumber,
			"attempt", attempt,
			"delay", delay.String(),
			"error", err,
		)
		if sleepErr := u.sleep(ctx, delay); sleepErr != nil {
			return attempt, err
		}
		delay *= 2
	}
}

// notify sends the confirmation e-mail in the background. Failures are
// logged and audited, never surfaced to the applicant.
func (u *wizardUsecase) notify(ctx context.Context, app *domain.SubmittedApplication) {
	if u.notifier == nil {
		return
	}
	requestID := audit.RequestIDFromContext(ctx)

	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.cfg.NotifyTimeout)
		defer cancel()

		if err := u.notifier.NotifySubmitted(ctx, app); err != nil {
			logger.Log.Warn("Failed to send confirmation email",
				"reference", app.ReferenceNumber,
				"error", err,
			)
			u.audit.Log(ctx, audit.Event{
				Event:     audit.EventNotificationFailed,
				SessionID: app.SessionID,
				Reference: app.ReferenceNumber,
				Subject:   audit.MaskEmail(app.Record.Email),
				RequestID: requestID,
				Details:   map[string]interface{}{"reason": err.Error()},
			})
		}
	}()
}

// ============================================================================
// Export
// ============================================================================

// Export renders the submitted record. It is repeatable and never changes
// the session.
func (u *wizardUsecase) Export(ctx context.Context, id, format string) (*domain.ExportFile, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, mapError(err)
	}

	s, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.Submitted {
		return nil, mapError(wizard.ErrNotSubmitted)
	}

	record := s.Record.Clone()
	data, err := export.Render(export.Generate(record), f)
	metrics.Exports.WithLabelValues(string(f), metrics.Outcome(err)).Inc()
	if err != nil {
		logger.Log.Error("Failed to render export", "session_id", id, "format", f, "error", err)
		u.audit.Log(ctx, audit.Event{
			Event:     audit.EventExportFailed,
			SessionID: id,
			Reference: record.ReferenceNumber,
			RequestID: audit.RequestIDFromContext(ctx),
			Details:   map[string]interface{}{"format": string(f), "reason": err.Error()},
		})
		return nil, apperror.New(http.StatusInternalServerError,
			"Could not generate the summary document. Your application was still submitted.", err)
	}

	u.audit.Log(ctx, audit.Event{
		Event:     audit.EventExportGenerated,
		SessionID: id,
		Reference: record.ReferenceNumber,
		RequestID: audit.RequestIDFromContext(ctx),
		Details:   map[string]interface{}{"format": string(f), "bytes": len(data)},
	})

	return &domain.ExportFile{
		Filename:    export.Filename(u.cfg.ExportPrefix, record.FirstName, record.LastName, f),
		ContentType: f.ContentType(),
		Data:        data,
	}, nil
}
