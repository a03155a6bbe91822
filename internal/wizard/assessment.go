package wizard

import (
	"strings"

	"tedred-internship-api/internal/catalog"
	"tedred-internship-api/internal/domain"
	"tedred-internship-api/internal/ikigai"
)

const otherLanguageID = "lang_oth"

// AnswerQuestion records a 1..5 rating. Changing answers after results were
// computed marks the results stale; they are not recomputed automatically.
func (m *Machine) AnswerQuestion(questionID string, rating int) error {
	if err := m.ensureStep(domain.StepDiscover); err != nil {
		return err
	}
	if !ikigai.IsQuestionID(questionID) {
		return ErrUnknownQuestion
	}
	if rating < ikigai.MinRating || rating > ikigai.MaxRating {
		return ErrInvalidRating
	}

	if m.s.Record.IkigaiAnswers == nil {
		m.s.Record.IkigaiAnswers = map[string]int{}
	}
	if prev, ok := m.s.Record.IkigaiAnswers[questionID]; ok && prev == rating {
		return nil
	}
	m.s.Record.IkigaiAnswers[questionID] = rating
	m.markStale()
	m.touch()
	return nil
}

// AssessmentNext moves to the next sub-step once every question of the
// current one is answered. Reaching the results sub-step computes the
// results the first time.
func (m *Machine) AssessmentNext() error {
	if err := m.ensureStep(domain.StepDiscover); err != nil {
		return err
	}
	if m.s.AssessmentStage >= domain.AssessmentResults {
		return ErrWrongStage
	}

	section, _ := ikigai.SectionAt(m.s.AssessmentStage)
	fields := map[string]string{}
	for _, q := range section.Questions {
		if _, ok := m.s.Record.IkigaiAnswers[q.ID]; !ok {
			fields[q.ID] = "Please answer this question"
		}
	}
	if len(fields) > 0 {
		return &GateError{Step: domain.StepDiscover, Fields: fields}
	}

	m.s.AssessmentStage++
	if m.s.AssessmentStage == domain.AssessmentResults && !m.s.ResultsComputed {
		if err := m.computeResults(); err != nil {
			m.s.AssessmentStage--
			return err
		}
	}
	m.touch()
	return nil
}

// AssessmentBack moves to the previous sub-step; on the first sub-step it
// retreats the outer machine instead.
func (m *Machine) AssessmentBack() (*StepChange, error) {
	if err := m.ensureStep(domain.StepDiscover); err != nil {
		return nil, err
	}
	if m.s.AssessmentStage <= domain.AssessmentPassion {
		return m.Retreat()
	}
	m.s.AssessmentStage--
	m.touch()
	return nil, nil
}

// SkipAssessment bypasses the whole assessment from its first sub-step.
// Any earlier results are dropped so no recommendation is shown.
func (m *Machine) SkipAssessment() (*StepChange, error) {
	if err := m.ensureStep(domain.StepDiscover); err != nil {
		return nil, err
	}
	if def, _ := StepByID(domain.StepDiscover); !def.Skippable {
		return nil, ErrWrongStep
	}
	if m.s.AssessmentStage != domain.AssessmentPassion {
		return nil, ErrWrongStage
	}

	m.s.AssessmentSkipped = true
	m.s.ResultsComputed = false
	m.s.ResultsStale = false
	m.s.Record.IkigaiResults = domain.NewApplicationRecord().IkigaiResults
	return m.Advance()
}

// RecomputeResults rescores the current answers on request
func (m *Machine) RecomputeResults() error {
	if err := m.ensureOpen(); err != nil {
		return err
	}
	if !m.s.ResultsComputed {
		return ErrResultsNotComputed
	}
	if err := m.computeResults(); err != nil {
		return err
	}
	m.touch()
	return nil
}

func (m *Machine) computeResults() error {
	result, err := m.engine.Score(m.s.Record.IkigaiAnswers, m.scoringLanguages())
	if err != nil {
		return err
	}
	m.s.Record.IkigaiResults = result
	m.s.ResultsComputed = true
	m.s.ResultsStale = false
	m.s.AssessmentSkipped = false
	return nil
}

func (m *Machine) markStale() {
	if m.s.ResultsComputed {
		m.s.ResultsStale = true
	}
}

// scoringLanguages merges the entered language list with the per-language
// proficiency answers, list entries first
func (m *Machine) scoringLanguages() []domain.LanguageEntry {
	r := m.s.Record
	out := append([]domain.LanguageEntry{}, r.Languages...)

	for _, lang := range catalog.Languages() {
		if level := strings.TrimSpace(r.LanguageAnswers[lang.ID]); level != "" {
			out = append(out, domain.LanguageEntry{Language: lang.Name, Level: level})
		}
	}
	if level := strings.TrimSpace(r.LanguageAnswers[otherLanguageID]); level != "" && strings.TrimSpace(r.OtherLanguage) != "" {
		out = append(out, domain.LanguageEntry{Language: strings.TrimSpace(r.OtherLanguage), Level: level})
	}
	return out
}

// AddLanguage appends a language to the assessment list. Both name and a
// known proficiency level are required.
func (m *Machine) AddLanguage(entry domain.LanguageEntry) error {
	if err := m.ensureStep(domain.StepDiscover); err != nil {
		return err
	}
	name := strings.TrimSpace(entry.Language)
	level := strings.TrimSpace(entry.Level)
	if name == "" || !catalog.IsProficiencyLevel(level) {
		return ErrInvalidLanguage
	}
	for _, l := range m.s.Record.Languages {
		if strings.EqualFold(l.Language, name) {
			return ErrDuplicateLanguage
		}
	}

	m.s.Record.Languages = append(m.s.Record.Languages, domain.LanguageEntry{Language: name, Level: level})
	m.markStale()
	m.touch()
	return nil
}

// RemoveLanguage drops the language at index
func (m *Machine) RemoveLanguage(index int) error {
	if err := m.ensureStep(domain.StepDiscover); err != nil {
		return err
	}
	langs := m.s.Record.Languages
	if index < 0 || index >= len(langs) {
		return ErrInvalidIndex
	}

	m.s.Record.Languages = append(append([]domain.LanguageEntry{}, langs[:index]...), langs[index+1:]...)
	m.markStale()
	m.touch()
	return nil
}
