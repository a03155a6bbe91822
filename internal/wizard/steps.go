package wizard

import (
	"tedred-internship-api/internal/domain"
)

// StepDef describes one outer wizard step
type StepDef struct {
	ID        domain.StepID
	Name      string
	Skippable bool
}

var steps = []StepDef{
	{ID: domain.StepPersonalInfo, Name: "Personal Info"},
	{ID: domain.StepDiscover, Name: "Discover", Skippable: true},
	{ID: domain.StepDepartment, Name: "Department"},
	{ID: domain.StepEducation, Name: "Education"},
	{ID: domain.StepExperience, Name: "Experience"},
	{ID: domain.StepReview, Name: "Review"},
}

// Steps returns the step definitions in order
func Steps() []StepDef {
	return steps
}

// FirstStep and LastStep bound the step index
const (
	FirstStep = domain.StepPersonalInfo
	LastStep  = domain.StepReview
)

// StepByID returns the definition of a step
func StepByID(id domain.StepID) (StepDef, bool) {
	if id < FirstStep || id > LastStep {
		return StepDef{}, false
	}
	return steps[id-1], true
}

// Progress is the percentage of the way from the first to the last step
func Progress(current domain.StepID) int {
	if current <= FirstStep {
		return 0
	}
	if current >= LastStep {
		return 100
	}
	return int(current-FirstStep) * 100 / int(LastStep-FirstStep)
}

// StepViews marks every step relative to the current one. After submission
// all steps are completed.
func StepViews(current domain.StepID, submitted bool) []domain.StepView {
	views := make([]domain.StepView, 0, len(steps))
	for _, s := range steps {
		status := domain.StepStatusUpcoming
		switch {
		case submitted || s.ID < current:
			status = domain.StepStatusCompleted
		case s.ID == current:
			status = domain.StepStatusCurrent
		}
		views = append(views, domain.StepView{
			ID:        s.ID,
			Name:      s.Name,
			Status:    status,
			Skippable: s.Skippable,
		})
	}
	return views
}
