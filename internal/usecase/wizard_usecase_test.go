package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tedred-internship-api/internal/domain"
	"tedred-internship-api/internal/ikigai"
	"tedred-internship-api/internal/repository/memory"
	"tedred-internship-api/internal/usecase"
	"tedred-internship-api/pkg/apperror"
	"tedred-internship-api/pkg/security/antivirus"
)

// Monday
var clock = func() time.Time { return time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC) }

// Mock boundaries
type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) Submit(ctx context.Context, app *domain.SubmittedApplication) error {
	return m.Called(ctx, app).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifySubmitted(ctx context.Context, app *domain.SubmittedApplication) error {
	return m.Called(ctx, app).Error(0)
}

type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) Create(ctx context.Context, s *domain.WizardSession) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSessionRepo) Get(ctx context.Context, id string) (*domain.WizardSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WizardSession), args.Error(1)
}

func (m *MockSessionRepo) Save(ctx context.Context, s *domain.WizardSession) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSessionRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type fixture struct {
	uc        domain.WizardUsecase
	submitter *MockSubmitter
	notifier  *MockNotifier
	delays    []time.Duration
}

func sequentialIDs() func() string {
	var n int64
	return func() string {
		return fmt.Sprintf("%08x-0000-4000-8000-000000000000", atomic.AddInt64(&n, 1))
	}
}

func newFixture(t *testing.T, maxAttempts int) *fixture {
	t.Helper()
	f := &fixture{submitter: new(MockSubmitter), notifier: new(MockNotifier)}
	f.uc = usecase.NewWizardUsecase(
		memory.NewSessionRepository(time.Hour),
		f.submitter,
		f.notifier,
		nil,
		usecase.WizardConfig{SubmitMaxAttempts: maxAttempts, SubmitBackoffBase: 100 * time.Millisecond},
		usecase.WithClock(clock),
		usecase.WithIDGenerator(sequentialIDs()),
		usecase.WithSleeper(func(_ context.Context, d time.Duration) error {
			f.delays = append(f.delays, d)
			return nil
		}),
	)
	return f
}

func ptr(s string) *string { return &s }

func appErrorCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

func start(t *testing.T, f *fixture) string {
	t.Helper()
	view, err := f.uc.StartSession(context.Background())
	require.NoError(t, err)
	return view.SessionID
}

// toReview fills a complete record and walks the session to Review
func toReview(t *testing.T, f *fixture, id string) *domain.WizardView {
	t.Helper()
	ctx := context.Background()

	_, err := f.uc.UpdateRecord(ctx, id, domain.RecordPatch{
		FirstName: ptr("Ayesha"),
		LastName:  ptr("Khan"),
		Email:     ptr("ayesha@example.com"),
		Phone:     ptr("+92 300 1234567"),
		Education: []domain.Education{{Institution: "LUMS", Degree: "BSc", FieldOfStudy: "CS", GraduationYear: "2025"}},
	})
	require.NoError(t, err)
	_, err = f.uc.Advance(ctx, id)
	require.NoError(t, err)

	for _, q := range ikigai.RequiredQuestionIDs() {
		rating := 2
		if strings.HasSuffix(q, "_1") {
			rating = 5
		}
		_, err = f.uc.AnswerQuestion(ctx, id, q, rating)
		require.NoError(t, err)
	}
	var view *domain.WizardView
	for stage := domain.AssessmentPassion; stage < domain.AssessmentResults; stage++ {
		view, err = f.uc.AssessmentNext(ctx, id)
		require.NoError(t, err)
	}
	require.True(t, view.Assessment.Computed)

	for step := domain.StepDiscover; step < domain.StepReview; step++ {
		view, err = f.uc.Advance(ctx, id)
		require.NoError(t, err)
	}
	require.Equal(t, domain.StepReview, view.Step)
	return view
}

func TestStartSession(t *testing.T) {
	f := newFixture(t, 1)

	view, err := f.uc.StartSession(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.StepPersonalInfo, view.Step)
	assert.Equal(t, 0, view.Progress)
	assert.Len(t, view.Steps, 6)
	assert.Len(t, view.Record.Education, 1)
	assert.Empty(t, view.FieldErrors)
}

func TestGetSession_NotFound(t *testing.T) {
	f := newFixture(t, 1)
	_, err := f.uc.GetSession(context.Background(), "missing")
	assert.Equal(t, http.StatusNotFound, appErrorCode(t, err))
}

func TestAdvance_GateFailurePersistsTouchedFields(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	id := start(t, f)

	_, err := f.uc.Advance(ctx, id)
	assert.Equal(t, http.StatusUnprocessableEntity, appErrorCode(t, err))

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	details, ok := appErr.Details.(usecase.GateDetails)
	require.True(t, ok)
	assert.Equal(t, "Personal Info", details.StepName)
	assert.Contains(t, details.Fields, "email")

	view, err := f.uc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StepPersonalInfo, view.Step)
	assert.Contains(t, view.FieldErrors, "firstName")
}

func TestJumpForwardIsRejected(t *testing.T) {
	f := newFixture(t, 1)
	id := start(t, f)

	_, err := f.uc.JumpTo(context.Background(), id, domain.StepReview)
	assert.Equal(t, http.StatusConflict, appErrorCode(t, err))
}

func TestInvalidArgumentsAreBadRequests(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	id := start(t, f)

	_, err := f.uc.RemoveEducation(ctx, id, 5)
	assert.Equal(t, http.StatusBadRequest, appErrorCode(t, err))

	_, err = f.uc.AddSkill(ctx, id, "   ")
	assert.Equal(t, http.StatusBadRequest, appErrorCode(t, err))

	// Answers are only taken on the Discover step
	_, err = f.uc.AnswerQuestion(ctx, id, "passion_1", 3)
	assert.Equal(t, http.StatusConflict, appErrorCode(t, err))
}

func TestVersionConflictIs409(t *testing.T) {
	repo := new(MockSessionRepo)
	s := &domain.WizardSession{ID: "s-1", Step: domain.StepPersonalInfo, Touched: map[string]bool{}, Record: domain.NewApplicationRecord()}
	repo.On("Get", mock.Anything, "s-1").Return(s, nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(domain.ErrVersionConflict)

	uc := usecase.NewWizardUsecase(repo, new(MockSubmitter), nil, nil, usecase.WizardConfig{}, usecase.WithClock(clock))

	_, err := uc.AddSkill(context.Background(), "s-1", "Go")
	assert.Equal(t, http.StatusConflict, appErrorCode(t, err))
	repo.AssertExpectations(t)
}

func TestAttachResume(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	id := start(t, f)

	_, err := f.uc.AttachResume(ctx, id, "photo.png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	assert.Equal(t, http.StatusUnsupportedMediaType, appErrorCode(t, err))

	view, err := f.uc.AttachResume(ctx, id, "uploads/My CV.pdf", []byte("%PDF-1.4\n%%EOF\n"))
	require.NoError(t, err)
	assert.Equal(t, "My CV.pdf", view.Record.ResumeURL)
}

func TestScheduleInterviewOnWeekend(t *testing.T) {
	f := newFixture(t, 1)
	id := start(t, f)

	saturday := time.Date(2026, time.June, 6, 11, 0, 0, 0, time.UTC)
	_, err := f.uc.ScheduleInterview(context.Background(), id, saturday)
	assert.Equal(t, http.StatusBadRequest, appErrorCode(t, err))
}

func TestSubmitAndExport(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	id := start(t, f)
	toReview(t, f, id)

	_, err := f.uc.Export(ctx, id, "xlsx")
	assert.Equal(t, http.StatusConflict, appErrorCode(t, err), "export requires a submitted application")

	notified := make(chan *domain.SubmittedApplication, 1)
	f.submitter.On("Submit", mock.Anything, mock.AnythingOfType("*domain.SubmittedApplication")).Return(nil).Once()
	f.notifier.On("NotifySubmitted", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		notified <- args.Get(1).(*domain.SubmittedApplication)
	})

	view, err := f.uc.Submit(ctx, id)
	require.NoError(t, err)

	assert.True(t, view.Submitted)
	assert.Equal(t, 100, view.Progress)
	require.NotNil(t, view.Summary)
	assert.Regexp(t, `^TED-[0-9A-F]{8}$`, view.Summary.ReferenceNumber)
	assert.Equal(t, view.Summary.ReferenceNumber, view.Record.ReferenceNumber)
	assert.Equal(t, "ayesha@example.com", view.Summary.Email)
	f.submitter.AssertNumberOfCalls(t, "Submit", 1)

	select {
	case app := <-notified:
		assert.Equal(t, view.Summary.ReferenceNumber, app.ReferenceNumber)
	case <-time.After(time.Second):
		t.Fatal("confirmation was not sent")
	}

	// Submitted is terminal for edits
	_, err = f.uc.AddSkill(ctx, id, "Go")
	assert.Equal(t, http.StatusConflict, appErrorCode(t, err))
	_, err = f.uc.Submit(ctx, id)
	assert.Equal(t, http.StatusConflict, appErrorCode(t, err))

	file, err := f.uc.Export(ctx, id, "")
	require.NoError(t, err)
	assert.Equal(t, "TedRed_Application_Ayesha_Khan.xlsx", file.Filename)
	assert.NotEmpty(t, file.Data)

	csvFile, err := f.uc.Export(ctx, id, "csv")
	require.NoError(t, err)
	assert.Equal(t, "TedRed_Application_Ayesha_Khan.csv", csvFile.Filename)
	assert.Contains(t, string(csvFile.Data), view.Summary.ReferenceNumber)

	_, err = f.uc.Export(ctx, id, "pdf")
	assert.Equal(t, http.StatusBadRequest, appErrorCode(t, err))

	// Restart leaves the Submitted state with an empty record
	restarted, err := f.uc.Restart(ctx, id)
	require.NoError(t, err)
	assert.False(t, restarted.Submitted)
	assert.Equal(t, domain.StepPersonalInfo, restarted.Step)
	assert.Empty(t, restarted.Record.FirstName)
}

func TestSubmitRetriesWithBackoff(t *testing.T) {
	f := newFixture(t, 3)
	id := start(t, f)
	toReview(t, f, id)

	f.submitter.On("Submit", mock.Anything, mock.Anything).Return(errors.New("timeout")).Twice()
	f.submitter.On("Submit", mock.Anything, mock.Anything).Return(nil).Once()
	f.notifier.On("NotifySubmitted", mock.Anything, mock.Anything).Return(nil).Maybe()

	view, err := f.uc.Submit(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, view.Submitted)

	f.submitter.AssertNumberOfCalls(t, "Submit", 3)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, f.delays)

	// Every attempt carries the same reference
	first := f.submitter.Calls[0].Arguments.Get(1).(*domain.SubmittedApplication)
	last := f.submitter.Calls[2].Arguments.Get(1).(*domain.SubmittedApplication)
	assert.Equal(t, first.ReferenceNumber, last.ReferenceNumber)
}

func TestSubmitFailureKeepsRecordOnReview(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	id := start(t, f)
	before := toReview(t, f, id)

	f.submitter.On("Submit", mock.Anything, mock.Anything).Return(errors.New("upstream unavailable"))

	_, err := f.uc.Submit(ctx, id)
	assert.Equal(t, http.StatusBadGateway, appErrorCode(t, err))
	f.submitter.AssertNumberOfCalls(t, "Submit", 2)
	f.notifier.AssertNotCalled(t, "NotifySubmitted", mock.Anything, mock.Anything)

	view, err := f.uc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.False(t, view.Submitted)
	assert.Equal(t, domain.StepReview, view.Step)
	assert.NotEmpty(t, view.SubmitError)
	assert.Empty(t, view.Record.ReferenceNumber)
	assert.Equal(t, before.Record.Email, view.Record.Email)
	assert.Equal(t, before.Record.IkigaiResults, view.Record.IkigaiResults)
}

// lossySessionRepo drops the next Save with a version conflict once armed
type lossySessionRepo struct {
	*memory.SessionRepo
	failNextSave atomic.Bool
}

func (r *lossySessionRepo) Save(ctx context.Context, s *domain.WizardSession) error {
	if r.failNextSave.CompareAndSwap(true, false) {
		return domain.ErrVersionConflict
	}
	return r.SessionRepo.Save(ctx, s)
}

func TestSubmitRetryAfterLostSaveReusesReference(t *testing.T) {
	repo := &lossySessionRepo{SessionRepo: memory.NewSessionRepository(time.Hour)}
	f := &fixture{submitter: new(MockSubmitter), notifier: new(MockNotifier)}
	f.uc = usecase.NewWizardUsecase(repo, f.submitter, f.notifier, nil,
		usecase.WizardConfig{SubmitMaxAttempts: 1},
		usecase.WithClock(clock),
		usecase.WithIDGenerator(sequentialIDs()),
	)
	ctx := context.Background()
	id := start(t, f)
	toReview(t, f, id)

	// accepted upstream, then the session write is lost
	f.submitter.On("Submit", mock.Anything, mock.Anything).Return(nil).Once().Run(func(mock.Arguments) {
		repo.failNextSave.Store(true)
	})
	f.submitter.On("Submit", mock.Anything, mock.Anything).Return(nil).Once()
	f.notifier.On("NotifySubmitted", mock.Anything, mock.Anything).Return(nil).Maybe()

	_, err := f.uc.Submit(ctx, id)
	assert.Equal(t, http.StatusConflict, appErrorCode(t, err))

	view, err := f.uc.Submit(ctx, id)
	require.NoError(t, err)
	assert.True(t, view.Submitted)

	f.submitter.AssertNumberOfCalls(t, "Submit", 2)
	first := f.submitter.Calls[0].Arguments.Get(1).(*domain.SubmittedApplication)
	second := f.submitter.Calls[1].Arguments.Get(1).(*domain.SubmittedApplication)
	assert.Equal(t, first.ReferenceNumber, second.ReferenceNumber)
	assert.Equal(t, first.ReferenceNumber, view.Summary.ReferenceNumber)
}

func TestSubmitRequiresReview(t *testing.T) {
	f := newFixture(t, 1)
	id := start(t, f)

	_, err := f.uc.Submit(context.Background(), id)
	assert.Equal(t, http.StatusConflict, appErrorCode(t, err))
	f.submitter.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestNewReference(t *testing.T) {
	assert.Equal(t, "TED-1A2B3C4D", usecase.NewReference("1a2b3c4d-0000-4000-8000-000000000000"))
	assert.Equal(t, "TED-AB", usecase.NewReference("ab"))
}

type stubScanner struct {
	result antivirus.ScanResult
	err    error
}

func (s stubScanner) Scan(context.Context, string, []byte) (antivirus.ScanResult, error) {
	return s.result, s.err
}

func (s stubScanner) Name() string { return "stub" }

func (s stubScanner) Ping(context.Context) error { return s.err }

func TestAttachResume_MalwareScan(t *testing.T) {
	pdf := []byte("%PDF-1.4\n%%EOF\n")
	cases := []struct {
		name    string
		scanner stubScanner
		code    int
	}{
		{"infected", stubScanner{result: antivirus.ScanResult{Infected: true, ThreatName: "Eicar"}}, http.StatusUnprocessableEntity},
		{"scanner down", stubScanner{err: errors.New("connection refused")}, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := memory.NewSessionRepository(time.Hour)
			uc := usecase.NewWizardUsecase(repo, new(MockSubmitter), nil, nil, usecase.WizardConfig{},
				usecase.WithClock(clock), usecase.WithResumeScanner(tc.scanner))

			view, err := uc.StartSession(context.Background())
			require.NoError(t, err)

			_, err = uc.AttachResume(context.Background(), view.SessionID, "cv.pdf", pdf)
			assert.Equal(t, tc.code, appErrorCode(t, err))

			after, err := uc.GetSession(context.Background(), view.SessionID)
			require.NoError(t, err)
			assert.Empty(t, after.Record.ResumeURL)
		})
	}

	uc := usecase.NewWizardUsecase(memory.NewSessionRepository(time.Hour), new(MockSubmitter), nil, nil,
		usecase.WizardConfig{}, usecase.WithClock(clock), usecase.WithResumeScanner(stubScanner{}))
	view, err := uc.StartSession(context.Background())
	require.NoError(t, err)
	view, err = uc.AttachResume(context.Background(), view.SessionID, "cv.pdf", pdf)
	require.NoError(t, err)
	assert.Equal(t, "cv.pdf", view.Record.ResumeURL)
}
