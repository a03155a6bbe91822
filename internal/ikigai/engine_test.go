package ikigai_test

import (
	"errors"
	"math/rand"
	"testing"

	"tedred-internship-api/internal/domain"
	"tedred-internship-api/internal/ikigai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// answersWith rates every required question `base`, then applies overrides
func answersWith(base int, overrides map[string]int) map[string]int {
	answers := make(map[string]int)
	for _, id := range ikigai.RequiredQuestionIDs() {
		answers[id] = base
	}
	for id, r := range overrides {
		answers[id] = r
	}
	return answers
}

func techAllFives() map[string]int {
	return answersWith(1, map[string]int{
		"passion_1": 5, "mission_1": 5, "profession_1": 5, "vocation_1": 5,
	})
}

func keys(recs []domain.DepartmentRecommendation) []domain.CategoryKey {
	out := make([]domain.CategoryKey, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Key)
	}
	return out
}

func TestScoreTopCategoryWithAllFives(t *testing.T) {
	engine := ikigai.Default()

	for _, key := range domain.Categories() {
		t.Run(string(key), func(t *testing.T) {
			overrides := map[string]int{}
			for _, id := range ikigai.DefaultMapping()[key] {
				overrides[id] = 5
			}
			// other categories stay strictly below the maximum
			answers := answersWith(4, overrides)
			for _, s := range ikigai.SoftSkills() {
				answers[s.ID] = 1
			}

			result, err := engine.Score(answers, nil)
			require.NoError(t, err)

			top, ok := result.Top()
			require.True(t, ok)
			assert.Equal(t, key, top.Key)
			assert.Equal(t, 20, top.Score)
		})
	}
}

func TestScoreIsOrderIndependent(t *testing.T) {
	engine := ikigai.Default()
	ids := ikigai.RequiredQuestionIDs()

	rng := rand.New(rand.NewSource(42))
	ratings := make(map[string]int, len(ids))
	for _, id := range ids {
		ratings[id] = 1 + rng.Intn(5)
	}

	langs := []domain.LanguageEntry{{Language: "English", Level: "Native/Fluent"}, {Language: "Urdu", Level: "Native/Fluent"}}
	expected, err := engine.Score(ratings, langs)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		shuffled := append([]string{}, ids...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		answers := make(map[string]int, len(shuffled))
		for _, id := range shuffled {
			answers[id] = ratings[id]
		}

		got, err := engine.Score(answers, langs)
		require.NoError(t, err)
		assert.Equal(t, expected, got)
	}
}

func TestScoreWithoutEnhancementsKeepsBaseRanking(t *testing.T) {
	engine := ikigai.Default()

	answers := answersWith(3, map[string]int{
		"passion_2": 5, "mission_2": 4, "profession_3": 1, "vocation_4": 2,
		"soft_1": 3, "soft_2": 2, "soft_3": 1, "soft_4": 3,
	})

	result, err := engine.Score(answers, nil)
	require.NoError(t, err)

	assert.Equal(t, []domain.DepartmentRecommendation{
		{Department: "Creative Division", Score: 15, Key: domain.CategoryCreative},
		{Department: "Tech Division", Score: 12, Key: domain.CategoryTech},
		{Department: "Business Operations", Score: 11, Key: domain.CategoryOperations},
		{Department: "Marketing Division", Score: 10, Key: domain.CategoryMarketing},
	}, result.DepartmentRecommendations)
	assert.Empty(t, result.SoftSkills)
	assert.Empty(t, result.Languages)
}

func TestScoreTechScenario(t *testing.T) {
	result, err := ikigai.Default().Score(techAllFives(), nil)
	require.NoError(t, err)

	top, _ := result.Top()
	assert.Equal(t, "Tech Division", top.Department)
	assert.Equal(t, 20, top.Score)
	assert.Empty(t, top.Enhancements)
	assert.Equal(t, []domain.CategoryKey{
		domain.CategoryTech, domain.CategoryCreative, domain.CategoryMarketing, domain.CategoryOperations,
	}, keys(result.DepartmentRecommendations))
	assert.Equal(t, []string{"AI & Automation", "Cloud Solutions"}, result.TeamSuggestions)
}

func TestScoreTechScenarioWithTwoLanguages(t *testing.T) {
	engine := ikigai.Default()

	base, err := engine.Score(techAllFives(), nil)
	require.NoError(t, err)

	langs := []domain.LanguageEntry{
		{Language: "English", Level: "Advanced / C1-C2"},
		{Language: "French", Level: "Beginner / A1-A2"},
	}
	result, err := engine.Score(techAllFives(), langs)
	require.NoError(t, err)

	baseTop, _ := base.Top()
	top, _ := result.Top()
	assert.Equal(t, domain.CategoryTech, top.Key)
	assert.Equal(t, baseTop.Score+1, top.Score)
	assert.Contains(t, top.Enhancements, "Language diversity")
	assert.Equal(t, langs, result.Languages)
}

func TestScoreSoftSkillBonuses(t *testing.T) {
	answers := answersWith(3, map[string]int{"soft_1": 5, "soft_2": 4, "soft_3": 5, "soft_4": 4})

	result, err := ikigai.Default().Score(answers, nil)
	require.NoError(t, err)

	assert.Equal(t, []domain.DepartmentRecommendation{
		{Department: "Tech Division", Score: 16, Key: domain.CategoryTech,
			Enhancements: []string{"Team collaboration", "Adaptability", "Critical thinking"}},
		{Department: "Creative Division", Score: 16, Key: domain.CategoryCreative,
			Enhancements: []string{"Strong communication skills", "Team collaboration", "Critical thinking"}},
		{Department: "Marketing Division", Score: 16, Key: domain.CategoryMarketing,
			Enhancements: []string{"Strong communication skills", "Team collaboration", "Critical thinking"}},
		{Department: "Business Operations", Score: 15, Key: domain.CategoryOperations,
			Enhancements: []string{"Team collaboration", "Critical thinking"}},
	}, result.DepartmentRecommendations)
	assert.Equal(t, []string{"Communication", "Teamwork", "Adaptability", "Critical Thinking"}, result.SoftSkills)
}

func TestScoreLanguageFamilies(t *testing.T) {
	engine := ikigai.Default()

	t.Run("urdu and arabic", func(t *testing.T) {
		langs := []domain.LanguageEntry{{Language: "Urdu"}, {Language: "arabic"}}
		result, err := engine.Score(answersWith(3, map[string]int{"soft_1": 1, "soft_2": 1, "soft_3": 1, "soft_4": 1}), langs)
		require.NoError(t, err)

		assert.Equal(t, []domain.CategoryKey{
			domain.CategoryMarketing, domain.CategoryTech, domain.CategoryCreative, domain.CategoryOperations,
		}, keys(result.DepartmentRecommendations))

		top := result.DepartmentRecommendations[0]
		assert.Equal(t, 20, top.Score)
		assert.Equal(t, []string{
			"Multilingual skills", "South Asian language skills", "Pakistani language skills", "Arabic language skills",
		}, top.Enhancements)

		for _, rec := range result.DepartmentRecommendations[1:] {
			assert.Equal(t, 13, rec.Score, rec.Key)
			assert.Equal(t, []string{"Language diversity"}, rec.Enhancements, rec.Key)
		}
		assert.Equal(t, []string{"SEO", "Email Marketing"}, result.TeamSuggestions)
	})

	t.Run("operations only gets the diversity point", func(t *testing.T) {
		langs := []domain.LanguageEntry{
			{Language: "Urdu", Level: "Native/Fluent"},
			{Language: "Arabic", Level: "Advanced / C1-C2"},
		}
		result, err := engine.Score(answersWith(1, nil), langs)
		require.NoError(t, err)

		var ops domain.DepartmentRecommendation
		for _, rec := range result.DepartmentRecommendations {
			if rec.Key == domain.CategoryOperations {
				ops = rec
			}
		}
		assert.Equal(t, 5, ops.Score)
		assert.Equal(t, []string{"Language diversity"}, ops.Enhancements)
		assert.Equal(t, domain.CategoryMarketing, result.DepartmentRecommendations[0].Key)
	})

	t.Run("hindi alone is south asian but not pakistani", func(t *testing.T) {
		result, err := engine.Score(answersWith(3, map[string]int{"soft_1": 1, "soft_2": 1, "soft_3": 1, "soft_4": 1}),
			[]domain.LanguageEntry{{Language: "Hindi"}})
		require.NoError(t, err)

		top := result.DepartmentRecommendations[0]
		assert.Equal(t, domain.CategoryMarketing, top.Key)
		assert.Equal(t, 14, top.Score)
		assert.Equal(t, []string{"South Asian language skills"}, top.Enhancements)
	})

	t.Run("duplicate names count once", func(t *testing.T) {
		result, err := engine.Score(techAllFives(), []domain.LanguageEntry{{Language: "English"}, {Language: " english "}})
		require.NoError(t, err)

		top, _ := result.Top()
		assert.Equal(t, 20, top.Score)
		assert.Empty(t, top.Enhancements)
		assert.Len(t, result.Languages, 1)
	})
}

func TestScoreTeamRules(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]int
		want      []string
	}{
		{"tech mission", map[string]int{"passion_1": 3, "mission_1": 5, "profession_1": 5, "vocation_1": 5}, []string{"Web Development", "Mobile Development"}},
		{"tech fallback", map[string]int{"passion_1": 2, "mission_1": 2, "profession_1": 5, "vocation_1": 5}, []string{"ERP Solutions", "No-Code Development"}},
		{"creative strong", map[string]int{"passion_2": 5, "mission_2": 5, "profession_2": 4, "vocation_2": 5}, []string{"UI/UX Design", "Brand Identity"}},
		{"creative fallback", map[string]int{"passion_2": 3, "mission_2": 5, "profession_2": 5, "vocation_2": 5}, []string{"Graphic Design", "Video Production"}},
		{"marketing strong", map[string]int{"passion_3": 4, "mission_3": 4, "profession_3": 5, "vocation_3": 5}, []string{"Digital Marketing", "Market Research"}},
		{"operations strong", map[string]int{"passion_4": 5, "mission_4": 5, "profession_4": 5, "vocation_4": 5}, []string{"Finance & Accounting", "Admin Operations"}},
		{"operations fallback", map[string]int{"passion_4": 5, "mission_4": 5, "profession_4": 3, "vocation_4": 5}, []string{"Human Resources", "Business Development"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ikigai.Default().Score(answersWith(1, tt.overrides), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.TeamSuggestions)
		})
	}
}

func TestScoreRejectsIncompleteAnswers(t *testing.T) {
	answers := techAllFives()
	delete(answers, "soft_4")

	_, err := ikigai.Default().Score(answers, nil)
	assert.True(t, errors.Is(err, ikigai.ErrIncompleteAnswers))
	assert.Contains(t, err.Error(), "soft_4")

	_, err = ikigai.Default().Score(map[string]int{}, nil)
	assert.True(t, errors.Is(err, ikigai.ErrIncompleteAnswers))
}

func TestScoreRejectsOutOfRangeRatings(t *testing.T) {
	_, err := ikigai.Default().Score(answersWith(3, map[string]int{"mission_2": 6}), nil)
	assert.True(t, errors.Is(err, ikigai.ErrInvalidRating))

	_, err = ikigai.Default().Score(answersWith(3, map[string]int{"soft_1": 0}), nil)
	assert.True(t, errors.Is(err, ikigai.ErrInvalidRating))
}

func TestScoreDoesNotMutateInputs(t *testing.T) {
	answers := techAllFives()
	before := make(map[string]int, len(answers))
	for k, v := range answers {
		before[k] = v
	}
	langs := []domain.LanguageEntry{{Language: " Urdu ", Level: "Native/Fluent"}, {Language: "English"}}

	_, err := ikigai.Default().Score(answers, langs)
	require.NoError(t, err)

	assert.Equal(t, before, answers)
	assert.Equal(t, " Urdu ", langs[0].Language)
}

func TestNewEngineValidatesMapping(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m ikigai.Mapping)
	}{
		{"missing category", func(m ikigai.Mapping) { delete(m, domain.CategoryCreative) }},
		{"short list", func(m ikigai.Mapping) { m[domain.CategoryTech] = m[domain.CategoryTech][:3] }},
		{"unknown question", func(m ikigai.Mapping) { m[domain.CategoryTech] = []string{"passion_9", "mission_1", "profession_1", "vocation_1"} }},
		{"wrong dimension", func(m ikigai.Mapping) { m[domain.CategoryTech] = []string{"mission_1", "passion_1", "profession_1", "vocation_1"} }},
		{"reused question", func(m ikigai.Mapping) { m[domain.CategoryCreative] = []string{"passion_1", "mission_2", "profession_2", "vocation_2"} }},
		{"extra category", func(m ikigai.Mapping) { m["legal"] = []string{"passion_4", "mission_4", "profession_4", "vocation_4"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ikigai.DefaultMapping()
			tt.mutate(m)

			_, err := ikigai.NewEngine(m)
			assert.True(t, errors.Is(err, ikigai.ErrInvalidMapping), "got %v", err)
		})
	}

	t.Run("default mapping is valid", func(t *testing.T) {
		_, err := ikigai.NewEngine(ikigai.DefaultMapping())
		assert.NoError(t, err)
	})

	t.Run("must panics", func(t *testing.T) {
		assert.Panics(t, func() { ikigai.MustNewEngine(ikigai.Mapping{}) })
	})
}

func TestSections(t *testing.T) {
	sections := ikigai.Sections()
	require.Len(t, sections, domain.AssessmentResults+1)

	for i, s := range sections {
		assert.Equal(t, i, s.Stage)
	}
	assert.Len(t, sections[domain.AssessmentPassion].Questions, 4)
	assert.Len(t, sections[domain.AssessmentSoftSkills].Questions, 4)
	assert.True(t, sections[domain.AssessmentLanguages].Languages)
	assert.Empty(t, sections[domain.AssessmentResults].Questions)

	_, ok := ikigai.SectionAt(7)
	assert.False(t, ok)
	assert.Len(t, ikigai.RequiredQuestionIDs(), 20)
}
