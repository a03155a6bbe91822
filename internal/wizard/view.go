package wizard

import (
	"tedred-internship-api/internal/catalog"
	"tedred-internship-api/internal/domain"
	"tedred-internship-api/internal/ikigai"
)

// View renders the session for the UI. change is the step change caused by
// the operation that produced this view, if any.
func (m *Machine) View(change *StepChange) domain.WizardView {
	s := m.s
	r := s.Record.Clone()

	view := domain.WizardView{
		SessionID:              s.ID,
		Version:                s.Version,
		Step:                   s.Step,
		Steps:                  StepViews(s.Step, s.Submitted),
		Progress:               Progress(s.Step),
		Assessment:             m.assessmentView(),
		Submitted:              s.Submitted,
		SubmitError:            s.SubmitError,
		ScrollToTop:            change != nil && change.ScrollToTop,
		FieldErrors:            m.FieldErrors(),
		RecommendedTeamIDs:     []string{},
		RecommendedDepartments: []string{},
		InterestOptions:        catalog.InterestsFor(r.Department),
		Record:                 r,
	}
	if def, ok := StepByID(s.Step); ok {
		view.StepName = def.Name
	}

	if !s.AssessmentSkipped && r.IkigaiResults.HasRecommendations() {
		view.RecommendedTeamIDs = catalog.TeamIDsNamed(r.IkigaiResults.TeamSuggestions)
		view.RecommendedDepartments = topDepartments(r.IkigaiResults)
	}

	if s.Submitted {
		view.Progress = 100
		view.Summary = &domain.SubmissionSummary{
			ReferenceNumber: r.ReferenceNumber,
			SubmittedAt:     s.SubmittedAt,
			Email:           r.Email,
			InterviewDate:   r.InterviewDate,
			ResumeName:      r.ResumeURL,
			SkillCount:      len(r.Skills),
		}
	}
	return view
}

// topDepartments names every department sharing the highest score
func topDepartments(result domain.IkigaiResult) []string {
	top, ok := result.Top()
	if !ok {
		return []string{}
	}
	names := []string{}
	for _, rec := range result.DepartmentRecommendations {
		if rec.Score == top.Score {
			names = append(names, rec.Department)
		}
	}
	return names
}

func (m *Machine) assessmentView() domain.AssessmentView {
	s := m.s
	v := domain.AssessmentView{
		Stage:     s.AssessmentStage,
		Skipped:   s.AssessmentSkipped,
		Computed:  s.ResultsComputed,
		Stale:     s.ResultsStale,
		CanSkip:   s.Step == domain.StepDiscover && s.AssessmentStage == domain.AssessmentPassion && !s.Submitted,
		LastStage: domain.AssessmentResults,
	}
	if section, ok := ikigai.SectionAt(s.AssessmentStage); ok {
		v.Title = section.Title
	}
	return v
}
