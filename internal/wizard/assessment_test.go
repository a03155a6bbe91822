package wizard_test

import (
	"errors"
	"testing"

	"tedred-internship-api/internal/domain"
	"tedred-internship-api/internal/ikigai"
	"tedred-internship-api/internal/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onDiscover(t *testing.T) *wizard.Machine {
	t.Helper()
	m := newMachine()
	toStep(t, m, domain.StepDiscover)
	return m
}

func TestAssessmentRequiresAnswersPerSection(t *testing.T) {
	m := onDiscover(t)

	err := m.AssessmentNext()
	var gateErr *wizard.GateError
	require.True(t, errors.As(err, &gateErr))
	assert.Len(t, gateErr.Fields, 4)
	assert.Contains(t, gateErr.Fields, "passion_1")

	for _, id := range []string{"passion_1", "passion_2", "passion_3"} {
		require.NoError(t, m.AnswerQuestion(id, 4))
	}
	require.True(t, errors.As(m.AssessmentNext(), &gateErr))
	assert.Equal(t, map[string]string{"passion_4": "Please answer this question"}, gateErr.Fields)

	require.NoError(t, m.AnswerQuestion("passion_4", 2))
	require.NoError(t, m.AssessmentNext())
	assert.Equal(t, domain.AssessmentMission, m.Session().AssessmentStage)
}

func TestAnswerQuestionValidation(t *testing.T) {
	m := onDiscover(t)

	assert.True(t, errors.Is(m.AnswerQuestion("passion_7", 3), wizard.ErrUnknownQuestion))
	assert.True(t, errors.Is(m.AnswerQuestion("passion_1", 0), wizard.ErrInvalidRating))
	assert.True(t, errors.Is(m.AnswerQuestion("passion_1", 6), wizard.ErrInvalidRating))

	other := newMachine()
	assert.True(t, errors.Is(other.AnswerQuestion("passion_1", 3), wizard.ErrWrongStep))
}

func TestAssessmentComputesResultsOnceOnReachingResults(t *testing.T) {
	m := onDiscover(t)
	answerAll(t, m, map[string]int{"passion_1": 5, "mission_1": 5, "profession_1": 5, "vocation_1": 5})

	for i := 0; i < domain.AssessmentLanguages; i++ {
		require.NoError(t, m.AssessmentNext())
	}
	assert.False(t, m.Session().ResultsComputed)

	require.NoError(t, m.AddLanguage(domain.LanguageEntry{Language: "English", Level: "Advanced / C1-C2"}))
	require.NoError(t, m.AddLanguage(domain.LanguageEntry{Language: "Urdu", Level: "Native/Fluent"}))
	require.NoError(t, m.AssessmentNext())

	s := m.Session()
	assert.Equal(t, domain.AssessmentResults, s.AssessmentStage)
	assert.True(t, s.ResultsComputed)
	top, ok := s.Record.IkigaiResults.Top()
	require.True(t, ok)
	assert.Equal(t, domain.CategoryTech, top.Key)
	assert.Equal(t, 21, top.Score)
	assert.Contains(t, top.Enhancements, "Language diversity")
	assert.Len(t, s.Record.IkigaiResults.Languages, 2)

	assert.True(t, errors.Is(m.AssessmentNext(), wizard.ErrWrongStage))

	// going back and forth does not recompute
	_, err := m.AssessmentBack()
	require.NoError(t, err)
	require.NoError(t, m.AnswerQuestion("passion_2", 5))
	assert.True(t, m.Session().ResultsStale)
	require.NoError(t, m.AssessmentNext())
	after, _ := m.Session().Record.IkigaiResults.Top()
	assert.Equal(t, top, after)
	assert.True(t, m.Session().ResultsStale)

	require.NoError(t, m.RecomputeResults())
	assert.False(t, m.Session().ResultsStale)
}

func TestLanguageAnswersFeedScoring(t *testing.T) {
	m := onDiscover(t)
	answerAll(t, m, map[string]int{"passion_3": 5, "mission_3": 5, "profession_3": 5, "vocation_3": 5})
	require.NoError(t, m.Update(domain.RecordPatch{
		LanguageAnswers: map[string]string{"lang_arabic": "Intermediate / B1-B2", "lang_oth": "Beginner / A1-A2"},
		OtherLanguage:   ptr("Turkish"),
	}))
	finishAssessment(t, m)

	result := m.Session().Record.IkigaiResults
	assert.Equal(t, []domain.LanguageEntry{
		{Language: "Arabic", Level: "Intermediate / B1-B2"},
		{Language: "Turkish", Level: "Beginner / A1-A2"},
	}, result.Languages)

	top, _ := result.Top()
	assert.Equal(t, domain.CategoryMarketing, top.Key)
	assert.Equal(t, 25, top.Score)
	assert.Equal(t, []string{"Multilingual skills", "Arabic language skills"}, top.Enhancements)
}

func TestLanguageList(t *testing.T) {
	m := onDiscover(t)

	assert.True(t, errors.Is(m.AddLanguage(domain.LanguageEntry{Language: "English"}), wizard.ErrInvalidLanguage))
	assert.True(t, errors.Is(m.AddLanguage(domain.LanguageEntry{Level: "Native/Fluent"}), wizard.ErrInvalidLanguage))
	assert.True(t, errors.Is(m.AddLanguage(domain.LanguageEntry{Language: "English", Level: "Expert"}), wizard.ErrInvalidLanguage))

	require.NoError(t, m.AddLanguage(domain.LanguageEntry{Language: " English ", Level: "Native/Fluent"}))
	assert.True(t, errors.Is(m.AddLanguage(domain.LanguageEntry{Language: "english", Level: "Native/Fluent"}), wizard.ErrDuplicateLanguage))
	require.NoError(t, m.AddLanguage(domain.LanguageEntry{Language: "Pashto", Level: "Beginner / A1-A2"}))

	assert.True(t, errors.Is(m.RemoveLanguage(2), wizard.ErrInvalidIndex))
	require.NoError(t, m.RemoveLanguage(0))
	assert.Equal(t, []domain.LanguageEntry{{Language: "Pashto", Level: "Beginner / A1-A2"}}, m.Record().Languages)
}

func TestAssessmentBackAtFirstStageRetreats(t *testing.T) {
	m := onDiscover(t)

	change, err := m.AssessmentBack()
	require.NoError(t, err)
	require.NotNil(t, change)
	assert.Equal(t, domain.StepPersonalInfo, m.Session().Step)
}

func TestSkipAssessment(t *testing.T) {
	t.Run("only from the first stage", func(t *testing.T) {
		m := onDiscover(t)
		for _, id := range []string{"passion_1", "passion_2", "passion_3", "passion_4"} {
			require.NoError(t, m.AnswerQuestion(id, 3))
		}
		require.NoError(t, m.AssessmentNext())

		_, err := m.SkipAssessment()
		assert.True(t, errors.Is(err, wizard.ErrWrongStage))
		assert.Equal(t, domain.StepDiscover, m.Session().Step)
	})

	t.Run("drops earlier results and advances", func(t *testing.T) {
		m := onDiscover(t)
		answerAll(t, m, nil)
		finishAssessment(t, m)
		for m.Session().AssessmentStage > domain.AssessmentPassion {
			_, err := m.AssessmentBack()
			require.NoError(t, err)
		}

		change, err := m.SkipAssessment()
		require.NoError(t, err)
		assert.Equal(t, domain.StepDepartment, change.To)

		s := m.Session()
		assert.True(t, s.AssessmentSkipped)
		assert.False(t, s.Record.IkigaiResults.HasRecommendations())
		assert.Empty(t, s.Record.Department)

		view := m.View(change)
		assert.True(t, view.ScrollToTop)
		assert.Empty(t, view.RecommendedTeamIDs)
		assert.True(t, view.Assessment.Skipped)
	})

	t.Run("recompute needs results", func(t *testing.T) {
		m := onDiscover(t)
		assert.True(t, errors.Is(m.RecomputeResults(), wizard.ErrResultsNotComputed))
	})
}

func TestSectionsCoverAllRequiredQuestions(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range ikigai.Sections() {
		for _, q := range s.Questions {
			seen[q.ID] = true
		}
	}
	for _, id := range ikigai.RequiredQuestionIDs() {
		assert.True(t, seen[id], id)
	}
}
