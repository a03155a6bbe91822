// Package ikigai turns assessment ratings into ranked department
// recommendations.
package ikigai

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"tedred-internship-api/internal/catalog"
	"tedred-internship-api/internal/domain"
)

var (
	ErrIncompleteAnswers = errors.New("assessment answers are incomplete")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrInvalidMapping    = errors.New("invalid question mapping")
)

// teamRule recommends Teams when every listed dimension question of the
// category is rated strong. A rule without dimensions always matches.
type teamRule struct {
	when  []Dimension
	teams []string
}

var teamRules = map[domain.CategoryKey][]teamRule{
	domain.CategoryTech: {
		{when: []Dimension{DimensionPassion, DimensionProfession}, teams: []string{"AI & Automation", "Cloud Solutions"}},
		{when: []Dimension{DimensionMission}, teams: []string{"Web Development", "Mobile Development"}},
		{teams: []string{"ERP Solutions", "No-Code Development"}},
	},
	domain.CategoryCreative: {
		{when: []Dimension{DimensionPassion, DimensionProfession}, teams: []string{"UI/UX Design", "Brand Identity"}},
		{teams: []string{"Graphic Design", "Video Production"}},
	},
	domain.CategoryMarketing: {
		{when: []Dimension{DimensionPassion, DimensionMission}, teams: []string{"Digital Marketing", "Market Research"}},
		{teams: []string{"SEO", "Email Marketing"}},
	},
	domain.CategoryOperations: {
		{when: []Dimension{DimensionProfession}, teams: []string{"Finance & Accounting", "Admin Operations"}},
		{teams: []string{"Human Resources", "Business Development"}},
	},
}

// Engine scores answers against a validated mapping table. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	mapping Mapping
	index   map[domain.CategoryKey]map[Dimension]string
}

// NewEngine validates mapping and builds an engine. Every category must map
// exactly one question of each dimension and no question may be reused.
func NewEngine(mapping Mapping) (*Engine, error) {
	known := make(map[string]Dimension)
	for d, qs := range dimensionQuestions {
		for _, q := range qs {
			known[q.ID] = d
		}
	}

	if len(mapping) != len(domain.Categories()) {
		return nil, fmt.Errorf("%w: expected %d categories, got %d", ErrInvalidMapping, len(domain.Categories()), len(mapping))
	}

	used := make(map[string]domain.CategoryKey)
	index := make(map[domain.CategoryKey]map[Dimension]string, len(mapping))

	for _, key := range domain.Categories() {
		ids, ok := mapping[key]
		if !ok {
			return nil, fmt.Errorf("%w: category %q has no questions", ErrInvalidMapping, key)
		}
		if len(ids) != len(Dimensions()) {
			return nil, fmt.Errorf("%w: category %q maps %d questions, want %d", ErrInvalidMapping, key, len(ids), len(Dimensions()))
		}

		index[key] = make(map[Dimension]string, len(ids))
		for i, id := range ids {
			want := Dimensions()[i]
			got, ok := known[id]
			if !ok {
				return nil, fmt.Errorf("%w: unknown question %q", ErrInvalidMapping, id)
			}
			if got != want {
				return nil, fmt.Errorf("%w: question %q is a %s question, expected %s for %q", ErrInvalidMapping, id, got, want, key)
			}
			if owner, dup := used[id]; dup {
				return nil, fmt.Errorf("%w: question %q mapped to both %q and %q", ErrInvalidMapping, id, owner, key)
			}
			used[id] = key
			index[key][want] = id
		}
	}

	return &Engine{mapping: mapping, index: index}, nil
}

// MustNewEngine is NewEngine that panics on an invalid mapping
func MustNewEngine(mapping Mapping) *Engine {
	e, err := NewEngine(mapping)
	if err != nil {
		panic(err)
	}
	return e
}

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns the engine built from DefaultMapping
func Default() *Engine {
	defaultOnce.Do(func() {
		defaultEngine = MustNewEngine(DefaultMapping())
	})
	return defaultEngine
}

// Missing returns the required question ids that have no rating, in questionnaire order
func Missing(answers map[string]int) []string {
	missing := []string{}
	for _, id := range RequiredQuestionIDs() {
		if _, ok := answers[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// Score computes the recommendation. It never mutates its inputs and
// returns ErrIncompleteAnswers unless every required question is rated.
func (e *Engine) Score(answers map[string]int, languages []domain.LanguageEntry) (domain.IkigaiResult, error) {
	if missing := Missing(answers); len(missing) > 0 {
		return domain.IkigaiResult{}, fmt.Errorf("%w: %s", ErrIncompleteAnswers, strings.Join(missing, ", "))
	}
	for _, id := range RequiredQuestionIDs() {
		if r := answers[id]; r < MinRating || r > MaxRating {
			return domain.IkigaiResult{}, fmt.Errorf("%w: %s=%d", ErrInvalidRating, id, r)
		}
	}

	ranked := e.baseScores(answers)
	langs := normalizeLanguages(languages)

	applySoftSkills(ranked, answers)
	applyLanguages(ranked, langs)
	sortRanked(ranked)

	return domain.IkigaiResult{
		DepartmentRecommendations: ranked,
		TeamSuggestions:           e.teams(ranked[0].Key, answers),
		SoftSkills:                strongSoftSkills(answers),
		Languages:                 langs,
	}, nil
}

// baseScores sums each category's four mapped ratings and ranks them.
// Ties keep category enumeration order.
func (e *Engine) baseScores(answers map[string]int) []domain.DepartmentRecommendation {
	ranked := make([]domain.DepartmentRecommendation, 0, len(domain.Categories()))
	for _, key := range domain.Categories() {
		score := 0
		for _, id := range e.mapping[key] {
			score += answers[id]
		}
		ranked = append(ranked, domain.DepartmentRecommendation{
			Department: catalog.DepartmentName(key),
			Score:      score,
			Key:        key,
		})
	}
	sortRanked(ranked)
	return ranked
}

func sortRanked(ranked []domain.DepartmentRecommendation) {
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
}

// teams picks the first matching team pair for the category
func (e *Engine) teams(key domain.CategoryKey, answers map[string]int) []string {
	for _, rule := range teamRules[key] {
		matched := true
		for _, d := range rule.when {
			if answers[e.index[key][d]] < StrongRating {
				matched = false
				break
			}
		}
		if matched {
			return append([]string{}, rule.teams...)
		}
	}
	return []string{}
}

func strongSoftSkills(answers map[string]int) []string {
	labels := []string{}
	for _, s := range softSkills {
		if answers[s.ID] >= StrongRating {
			labels = append(labels, s.Label)
		}
	}
	return labels
}

func applySoftSkills(ranked []domain.DepartmentRecommendation, answers map[string]int) {
	for i := range ranked {
		for _, s := range softSkills {
			if answers[s.ID] < StrongRating {
				continue
			}
			if bonus := s.Bonus(ranked[i].Key); bonus > 0 {
				ranked[i].Score += bonus
				ranked[i].Enhancements = append(ranked[i].Enhancements, s.Tag)
			}
		}
	}
}
