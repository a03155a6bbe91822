package wizard

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"tedred-internship-api/internal/catalog"
	"tedred-internship-api/internal/domain"
	"tedred-internship-api/internal/ikigai"
	"tedred-internship-api/pkg/validation"
)

// ExperienceDateLayout is the "MM/YYYY" format of experience dates
const ExperienceDateLayout = "01/2006"

// Update shallow-merges patch into the record. Empty education or
// experience lists are ignored so the record always keeps one entry.
func (m *Machine) Update(patch domain.RecordPatch) error {
	if err := m.ensureOpen(); err != nil {
		return err
	}
	for id, rating := range patch.IkigaiAnswers {
		if !ikigai.IsQuestionID(id) {
			return fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
		}
		if rating < ikigai.MinRating || rating > ikigai.MaxRating {
			return fmt.Errorf("%w: %s=%d", ErrInvalidRating, id, rating)
		}
	}
	if patch.Department != nil && *patch.Department != "" {
		if _, _, ok := catalog.TeamByID(*patch.Department); !ok {
			return ErrUnknownTeam
		}
	}

	r := &m.s.Record

	setString(&r.FirstName, patch.FirstName)
	setString(&r.LastName, patch.LastName)
	setString(&r.Email, patch.Email)
	setString(&r.Phone, patch.Phone)
	setString(&r.OtherLanguage, patch.OtherLanguage)
	setString(&r.Portfolio, patch.Portfolio)
	setString(&r.CoverLetter, patch.CoverLetter)

	if patch.IkigaiAnswers != nil {
		r.IkigaiAnswers = copyAnswers(patch.IkigaiAnswers)
		m.markStale()
	}
	if patch.LanguageAnswers != nil {
		r.LanguageAnswers = make(map[string]string, len(patch.LanguageAnswers))
		for k, v := range patch.LanguageAnswers {
			r.LanguageAnswers[k] = v
		}
		m.markStale()
	}
	if patch.OtherLanguage != nil {
		m.markStale()
	}

	if patch.Department != nil {
		r.Department = *patch.Department
	}
	if patch.Interests != nil {
		r.Interests = append([]string{}, patch.Interests...)
	}
	if patch.Department != nil || patch.Interests != nil {
		r.Interests = filterInterests(r.Department, r.Interests)
	}

	if len(patch.Education) > 0 {
		r.Education = append([]domain.Education{}, patch.Education...)
		m.pruneTouched("education[", len(r.Education))
	}
	if len(patch.Experience) > 0 {
		r.Experience = append([]domain.Experience{}, patch.Experience...)
	}
	if patch.Skills != nil {
		r.Skills = uniqueSkills(patch.Skills)
	}

	m.touch()
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func copyAnswers(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// filterInterests keeps the interests offered by team, preserving order
func filterInterests(teamID string, interests []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, i := range interests {
		if seen[i] || !catalog.IsInterestOf(teamID, i) {
			continue
		}
		seen[i] = true
		out = append(out, i)
	}
	return out
}

func uniqueSkills(skills []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Touch marks fields as touched so their validation errors become visible
func (m *Machine) Touch(fields ...string) {
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			m.s.Touched[f] = true
		}
	}
	m.touch()
}

// pruneTouched drops touched keys of list entries that no longer exist
func (m *Machine) pruneTouched(prefix string, n int) {
	for key := range m.s.Touched {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		var idx int
		if _, err := fmt.Sscanf(strings.TrimPrefix(key, prefix), "%d]", &idx); err != nil || idx >= n {
			delete(m.s.Touched, key)
		}
	}
}

// ============================================================================
// Department & interests
// ============================================================================

// SelectDepartment chooses a team. Interests not offered by the new team are dropped.
func (m *Machine) SelectDepartment(teamID string) error {
	if err := m.ensureOpen(); err != nil {
		return err
	}
	if _, _, ok := catalog.TeamByID(teamID); !ok {
		return ErrUnknownTeam
	}
	r := &m.s.Record
	if r.Department != teamID {
		r.Department = teamID
		r.Interests = filterInterests(teamID, r.Interests)
	}
	m.touch()
	return nil
}

// ToggleInterest adds or removes one of the selected team's interests
func (m *Machine) ToggleInterest(interest string) error {
	if err := m.ensureOpen(); err != nil {
		return err
	}
	r := &m.s.Record
	if r.Department == "" {
		return ErrNoDepartment
	}
	if !catalog.IsInterestOf(r.Department, interest) {
		return ErrUnknownInterest
	}

	for i, existing := range r.Interests {
		if existing == interest {
			r.Interests = append(append([]string{}, r.Interests[:i]...), r.Interests[i+1:]...)
			m.touch()
			return nil
		}
	}
	r.Interests = append(r.Interests, interest)
	m.touch()
	return nil
}

// ============================================================================
// Education & experience
// ============================================================================

func (m *Machine) AddEducation() error {
	if err := m.ensureOpen(); err != nil {
		return err
	}
	m.s.Record.Education = append(m.s.Record.Education, domain.Education{})
	m.touch()
	return nil
}

// RemoveEducation removes the entry at index. Removing the last remaining
// entry is a no-op.
func (m *Machine) RemoveEducation(index int) error {
	if err := m.ensureOpen(); err != nil {
		return err
	}
	list := m.s.Record.Education
	if index < 0 || index >= len(list) {
		return ErrInvalidIndex
	}
	if len(list) <= 1 {
		return nil
	}

	m.s.Record.Education = append(append([]domain.Education{}, list[:index]...), list[index+1:]...)
	m.shiftTouched("education[", index)
	m.touch()
	return nil
}

// shiftTouched re-indexes touched keys after the entry at removed is deleted
func (m *Machine) shiftTouched(prefix string, removed int) {
	shifted := make(map[string]bool, len(m.s.Touched))
	for key, v := range m.s.Touched {
		var idx int
		var rest string
		if strings.HasPrefix(key, prefix) {
			if n, _ := fmt.Sscanf(strings.TrimPrefix(key, prefix), "%d]%s", &idx, &rest); n == 2 {
				switch {
				case idx == removed:
					continue
				case idx > removed:
					key = fmt.Sprintf("%s%d]%s", prefix, idx-1, rest)
				}
			}
		}
		shifted[key] = v
	}
	m.s.Touched = shifted
}

func (m *Machine) AddExperience() error {
	if err := m.ensureOpen(); err != nil {
		return err
	}
	m.s.Record.Experience = append(m.s.Record.Experience, domain.Experience{})
	m.touch()
	return nil
}

// RemoveExperience removes the entry at index. Removing the last remaining
// entry is a no-op.
func (m *Machine) RemoveExperience(index int) error {
	if err := m.ensureOpen(); err != nil {
		return err
	}
	list := m.s.Record.Experience
	if index < 0 || index >= len(list) {
		return ErrInvalidIndex
	}
	if len(list) <= 1 {
		return nil
	}

	m.s.Record.Experience = append(append([]domain.Experience{}, list[:index]...), list[index+1:]...)
	m.touch()
	return nil
}

// SetExperienceDate stores date as "MM/YYYY" in start_date or end_date
func (m *Machine) SetExperienceDate(index int, field string, date time.Time) error {
	if err := m.ensureOpen(); err != nil {
		return err
	}
	if index < 0 || index >= len(m.s.Record.Experience) {
		return ErrInvalidIndex
	}

	entry := &m.s.Record.Experience[index]
	switch field {
	case "start_date":
		entry.StartDate = date.Format(ExperienceDateLayout)
	case "end_date":
		entry.EndDate = date.Format(ExperienceDateLayout)
	default:
		return ErrInvalidDateField
	}
	m.touch()
	return nil
}

// SkipExperience resets experience to one blank entry and advances
func (m *Machine) SkipExperience() (*StepChange, error) {
	if err := m.ensureStep(domain.StepExperience); err != nil {
		return nil, err
	}
	m.s.Record.Experience = []domain.Experience{{}}
	return m.Advance()
}

// ============================================================================
// Extras
// ============================================================================

// AddSkill appends a trimmed skill; duplicates are ignored
func (m *Machine) AddSkill(skill string) error {
	if err := m.ensureOpen(); err != nil {
		return err
	}
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return ErrEmptySkill
	}
	m.s.Record.Skills = uniqueSkills(append(m.s.Record.Skills, skill))
	m.touch()
	return nil
}

func (m *Machine) RemoveSkill(skill string) error {
	if err := m.ensureOpen(); err != nil {
		return err
	}
	skill = strings.TrimSpace(skill)
	out := make([]string, 0, len(m.s.Record.Skills))
	for _, s := range m.s.Record.Skills {
		if s != skill {
			out = append(out, s)
		}
	}
	m.s.Record.Skills = out
	m.touch()
	return nil
}

// AttachResume stores only the base name of an already accepted file
func (m *Machine) AttachResume(filename string) error {
	if err := m.ensureOpen(); err != nil {
		return err
	}
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return ErrInvalidResumeName
	}
	m.s.Record.ResumeURL = name
	m.touch()
	return nil
}

// ScheduleInterview accepts a weekday that is today or later
func (m *Machine) ScheduleInterview(at time.Time) error {
	if err := m.ensureOpen(); err != nil {
		return err
	}
	if wd := at.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return ErrInterviewOnWeekend
	}

	now := m.now().In(at.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, at.Location())
	if at.Before(today) {
		return ErrInterviewInPast
	}

	m.s.Record.InterviewDate = &at
	m.touch()
	return nil
}

// ============================================================================
// Derived validation state
// ============================================================================

func (m *Machine) personalOutcomes() map[string]validation.Outcome {
	r := m.s.Record
	values := map[validation.Field]string{
		validation.FieldFirstName: r.FirstName,
		validation.FieldLastName:  r.LastName,
		validation.FieldEmail:     r.Email,
		validation.FieldPhone:     r.Phone,
	}
	out := make(map[string]validation.Outcome, len(values))
	for _, f := range validation.PersonalFields {
		out[string(f)] = m.validate.Validate(f, values[f])
	}
	return out
}

// EducationKey is the touched/error key of one education entry field
func EducationKey(index int, field validation.Field) string {
	return fmt.Sprintf("education[%d].%s", index, field)
}

func (m *Machine) educationOutcomes() map[string]validation.Outcome {
	out := map[string]validation.Outcome{}
	for i, e := range m.s.Record.Education {
		values := map[validation.Field]string{
			validation.FieldInstitution:    e.Institution,
			validation.FieldDegree:         e.Degree,
			validation.FieldFieldOfStudy:   e.FieldOfStudy,
			validation.FieldGraduationYear: e.GraduationYear,
		}
		for _, f := range validation.EducationFields {
			out[EducationKey(i, f)] = m.validate.Validate(f, values[f])
		}
	}
	return out
}

// FieldErrors derives the visible errors from the record and touched set.
// Nothing is stored.
func (m *Machine) FieldErrors() map[string]string {
	all := m.personalOutcomes()
	for k, v := range m.educationOutcomes() {
		all[k] = v
	}
	if _, _, ok := catalog.TeamByID(m.s.Record.Department); !ok {
		all["department"] = validation.Outcome{Valid: false, Reason: "Please select a department"}
	}
	if !m.s.AssessmentSkipped && !m.s.ResultsComputed {
		all["assessment"] = validation.Outcome{Valid: false, Reason: "Complete the assessment or skip it"}
	}
	return validation.VisibleErrors(m.s.Touched, all)
}
