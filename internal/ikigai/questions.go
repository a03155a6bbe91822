package ikigai

import (
	"tedred-internship-api/internal/domain"
)

// Dimension is one of the four Ikigai circles
type Dimension string

const (
	DimensionPassion    Dimension = "passion"
	DimensionMission    Dimension = "mission"
	DimensionProfession Dimension = "profession"
	DimensionVocation   Dimension = "vocation"
)

// Dimensions returns the dimensions in questionnaire order
func Dimensions() []Dimension {
	return []Dimension{DimensionPassion, DimensionMission, DimensionProfession, DimensionVocation}
}

// Rating bounds and the threshold above which a rating counts as strong
const (
	MinRating    = 1
	MaxRating    = 5
	StrongRating = 4
)

type Question struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Section is what one assessment sub-step shows
type Section struct {
	Stage       int        `json:"stage"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Dimension   Dimension  `json:"dimension,omitempty"`
	Questions   []Question `json:"questions"`
	Languages   bool       `json:"languages,omitempty"`
}

var dimensionQuestions = map[Dimension][]Question{
	DimensionPassion: {
		{ID: "passion_1", Text: "I enjoy solving complex problems and finding innovative solutions."},
		{ID: "passion_2", Text: "I find joy in creating visual content and expressing ideas through design."},
		{ID: "passion_3", Text: "I love analyzing data and uncovering meaningful insights."},
		{ID: "passion_4", Text: "I am passionate about understanding people and helping them achieve their goals."},
	},
	DimensionMission: {
		{ID: "mission_1", Text: "I want to build technologies that make people's lives easier."},
		{ID: "mission_2", Text: "I believe effective communication and storytelling can change perspectives."},
		{ID: "mission_3", Text: "I aim to help organizations grow and reach their full potential."},
		{ID: "mission_4", Text: "I want to create systems that make businesses run more efficiently."},
	},
	DimensionProfession: {
		{ID: "profession_1", Text: "I have strong technical and logical thinking skills."},
		{ID: "profession_2", Text: "I have a good eye for aesthetics and creativity."},
		{ID: "profession_3", Text: "I excel at strategic thinking and planning."},
		{ID: "profession_4", Text: "I am good at organizing information and managing tasks."},
	},
	DimensionVocation: {
		{ID: "vocation_1", Text: "I believe technical skills will be increasingly valuable in the future."},
		{ID: "vocation_2", Text: "I think creative roles offer fulfilling career opportunities."},
		{ID: "vocation_3", Text: "I see growth potential in marketing and business development."},
		{ID: "vocation_4", Text: "I value stability and essential operational functions."},
	},
}

// SoftSkill is a rated soft-skill question and the bonus it grants when strong
type SoftSkill struct {
	Question
	Label string
	Tag   string
	bonus func(domain.CategoryKey) int
}

// Bonus returns the points the skill adds to a category when rated strong
func (s SoftSkill) Bonus(key domain.CategoryKey) int {
	return s.bonus(key)
}

var softSkills = []SoftSkill{
	{
		Question: Question{ID: "soft_1", Text: "I have excellent written and verbal communication skills."},
		Label:    "Communication",
		Tag:      "Strong communication skills",
		bonus: func(k domain.CategoryKey) int {
			if k == domain.CategoryCreative || k == domain.CategoryMarketing {
				return 2
			}
			return 0
		},
	},
	{
		Question: Question{ID: "soft_2", Text: "I work well in a team and can collaborate effectively with others."},
		Label:    "Teamwork",
		Tag:      "Team collaboration",
		bonus:    func(domain.CategoryKey) int { return 1 },
	},
	{
		Question: Question{ID: "soft_3", Text: "I am adaptable and can quickly adjust to new situations and challenges."},
		Label:    "Adaptability",
		Tag:      "Adaptability",
		bonus: func(k domain.CategoryKey) int {
			if k == domain.CategoryTech {
				return 2
			}
			return 0
		},
	},
	{
		Question: Question{ID: "soft_4", Text: "I have strong problem-solving abilities and critical thinking skills."},
		Label:    "Critical Thinking",
		Tag:      "Critical thinking",
		bonus: func(k domain.CategoryKey) int {
			if k == domain.CategoryOperations {
				return 2
			}
			return 1
		},
	},
}

// SoftSkills returns the soft-skill questions in order
func SoftSkills() []SoftSkill {
	return softSkills
}

// Mapping assigns each category one question per dimension, in Dimensions() order
type Mapping map[domain.CategoryKey][]string

// DefaultMapping is the fixed question to category assignment: suffix _N
// belongs to the Nth category.
func DefaultMapping() Mapping {
	return Mapping{
		domain.CategoryTech:       {"passion_1", "mission_1", "profession_1", "vocation_1"},
		domain.CategoryCreative:   {"passion_2", "mission_2", "profession_2", "vocation_2"},
		domain.CategoryMarketing:  {"passion_3", "mission_3", "profession_3", "vocation_3"},
		domain.CategoryOperations: {"passion_4", "mission_4", "profession_4", "vocation_4"},
	}
}

// Sections returns every assessment sub-step in order (0..6)
func Sections() []Section {
	sections := make([]Section, 0, domain.AssessmentResults+1)

	titles := map[Dimension][2]string{
		DimensionPassion:    {"What you love", "Select how much you agree with each statement about your passions"},
		DimensionMission:    {"What the world needs", "Select how much you agree with each statement about your mission"},
		DimensionProfession: {"What you're good at", "Select how much you agree with each statement about your skills"},
		DimensionVocation:   {"What you can be paid for", "Select how much you agree with each statement about career opportunities"},
	}
	for i, d := range Dimensions() {
		sections = append(sections, Section{
			Stage:       i,
			Title:       titles[d][0],
			Description: titles[d][1],
			Dimension:   d,
			Questions:   append([]Question{}, dimensionQuestions[d]...),
		})
	}

	soft := make([]Question, 0, len(softSkills))
	for _, s := range softSkills {
		soft = append(soft, s.Question)
	}
	sections = append(sections,
		Section{
			Stage:       domain.AssessmentSoftSkills,
			Title:       "Soft Skills",
			Description: "Rate your interpersonal abilities and adaptability skills",
			Questions:   soft,
		},
		Section{
			Stage:       domain.AssessmentLanguages,
			Title:       "Language Proficiency",
			Description: "Add your language proficiencies",
			Questions:   []Question{},
			Languages:   true,
		},
		Section{
			Stage:       domain.AssessmentResults,
			Title:       "Your Ikigai Results",
			Description: "Based on your responses, here are your recommended departments",
			Questions:   []Question{},
		},
	)
	return sections
}

// SectionAt returns the section for a sub-step
func SectionAt(stage int) (Section, bool) {
	all := Sections()
	if stage < 0 || stage >= len(all) {
		return Section{}, false
	}
	return all[stage], true
}

// RequiredQuestionIDs lists every question that must be rated before scoring
func RequiredQuestionIDs() []string {
	ids := make([]string, 0, 20)
	for _, d := range Dimensions() {
		for _, q := range dimensionQuestions[d] {
			ids = append(ids, q.ID)
		}
	}
	for _, s := range softSkills {
		ids = append(ids, s.ID)
	}
	return ids
}

// IsQuestionID reports whether id names a rated question
func IsQuestionID(id string) bool {
	for _, q := range RequiredQuestionIDs() {
		if q == id {
			return true
		}
	}
	return false
}
