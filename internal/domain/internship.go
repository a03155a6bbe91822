package domain

import (
	"strings"
	"time"
)

// ============================================================================
// Assessment categories
// ============================================================================

// CategoryKey identifies one of the four scored departments
type CategoryKey string

const (
	CategoryTech       CategoryKey = "tech"
	CategoryCreative   CategoryKey = "creative"
	CategoryMarketing  CategoryKey = "marketing"
	CategoryOperations CategoryKey = "operations"
)

// Categories returns the categories in enumeration order (also the tie-break order)
func Categories() []CategoryKey {
	return []CategoryKey{CategoryTech, CategoryCreative, CategoryMarketing, CategoryOperations}
}

// IsValid checks if the category key is known
func (k CategoryKey) IsValid() bool {
	for _, valid := range Categories() {
		if k == valid {
			return true
		}
	}
	return false
}

// ============================================================================
// Application record entries
// ============================================================================

type Education struct {
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	FieldOfStudy   string `json:"field_of_study"`
	GraduationYear string `json:"graduation_year"`
}

// Experience dates are "MM/YYYY" strings
type Experience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
}

type LanguageEntry struct {
	Language string `json:"language"`
	Level    string `json:"level"`
}

// DepartmentRecommendation is one ranked entry of the assessment result
type DepartmentRecommendation struct {
	Department   string      `json:"department"`
	Score        int         `json:"score"`
	Key          CategoryKey `json:"key"`
	Enhancements []string    `json:"enhancements,omitempty"`
}

// IkigaiResult is computed by the scoring engine, never entered by the user
type IkigaiResult struct {
	DepartmentRecommendations []DepartmentRecommendation `json:"department_recommendations"`
	TeamSuggestions           []string                   `json:"team_suggestions"`
	SoftSkills                []string                   `json:"soft_skills"`
	Languages                 []LanguageEntry            `json:"languages"`
}

// HasRecommendations reports whether the assessment produced a ranking
func (r IkigaiResult) HasRecommendations() bool {
	return len(r.DepartmentRecommendations) > 0
}

// Top returns the highest ranked recommendation
func (r IkigaiResult) Top() (DepartmentRecommendation, bool) {
	if !r.HasRecommendations() {
		return DepartmentRecommendation{}, false
	}
	return r.DepartmentRecommendations[0], true
}

// ============================================================================
// ApplicationRecord (the aggregate)
// ============================================================================

// ApplicationRecord accumulates everything entered across the wizard steps.
// Education and Experience always hold at least one entry.
type ApplicationRecord struct {
	// Personal info
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`

	// Assessment
	IkigaiAnswers   map[string]int    `json:"ikigai_answers"`
	LanguageAnswers map[string]string `json:"language_answers"`
	OtherLanguage   string            `json:"other_language"`
	Languages       []LanguageEntry   `json:"languages"`
	IkigaiResults   IkigaiResult      `json:"ikigai_results"`

	// Department selection
	Department string   `json:"department"`
	Interests  []string `json:"interests"`

	Education  []Education  `json:"education"`
	Experience []Experience `json:"experience"`

	// Extras
	Skills        []string   `json:"skills"`
	Portfolio     string     `json:"portfolio"`
	ResumeURL     string     `json:"resume_url"`
	CoverLetter   string     `json:"cover_letter"`
	InterviewDate *time.Time `json:"interview_date,omitempty"`

	// Assigned once at submission
	ReferenceNumber string `json:"reference_number,omitempty"`
}

// NewApplicationRecord returns the all-empty record a wizard session starts with
func NewApplicationRecord() ApplicationRecord {
	return ApplicationRecord{
		IkigaiAnswers:   map[string]int{},
		LanguageAnswers: map[string]string{},
		Languages:       []LanguageEntry{},
		IkigaiResults: IkigaiResult{
			DepartmentRecommendations: []DepartmentRecommendation{},
			TeamSuggestions:           []string{},
			SoftSkills:                []string{},
			Languages:                 []LanguageEntry{},
		},
		Interests:  []string{},
		Education:  []Education{{}},
		Experience: []Experience{{}},
		Skills:     []string{},
	}
}

// FullName joins the trimmed first and last names
func (r ApplicationRecord) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
}

// Clone returns a deep copy so readers can never mutate the owner's record
func (r ApplicationRecord) Clone() ApplicationRecord {
	c := r

	c.IkigaiAnswers = make(map[string]int, len(r.IkigaiAnswers))
	for k, v := range r.IkigaiAnswers {
		c.IkigaiAnswers[k] = v
	}
	c.LanguageAnswers = make(map[string]string, len(r.LanguageAnswers))
	for k, v := range r.LanguageAnswers {
		c.LanguageAnswers[k] = v
	}

	c.Languages = append([]LanguageEntry{}, r.Languages...)
	c.Interests = append([]string{}, r.Interests...)
	c.Education = append([]Education{}, r.Education...)
	c.Experience = append([]Experience{}, r.Experience...)
	c.Skills = append([]string{}, r.Skills...)

	c.IkigaiResults = r.IkigaiResults.Clone()

	if r.InterviewDate != nil {
		d := *r.InterviewDate
		c.InterviewDate = &d
	}
	return c
}

// Clone deep-copies the result including enhancement slices
func (r IkigaiResult) Clone() IkigaiResult {
	c := IkigaiResult{
		DepartmentRecommendations: make([]DepartmentRecommendation, len(r.DepartmentRecommendations)),
		TeamSuggestions:           append([]string{}, r.TeamSuggestions...),
		SoftSkills:                append([]string{}, r.SoftSkills...),
		Languages:                 append([]LanguageEntry{}, r.Languages...),
	}
	for i, rec := range r.DepartmentRecommendations {
		rec.Enhancements = append([]string(nil), rec.Enhancements...)
		c.DepartmentRecommendations[i] = rec
	}
	return c
}

// RecordPatch is a shallow-merge update. Nil fields are left unchanged;
// a non-nil field replaces the record's value wholesale.
type RecordPatch struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`

	IkigaiAnswers   map[string]int    `json:"ikigai_answers,omitempty"`
	LanguageAnswers map[string]string `json:"language_answers,omitempty"`
	OtherLanguage   *string           `json:"other_language,omitempty"`

	Department *string  `json:"department,omitempty"`
	Interests  []string `json:"interests,omitempty"`

	Education  []Education  `json:"education,omitempty"`
	Experience []Experience `json:"experience,omitempty"`

	Skills      []string `json:"skills,omitempty"`
	Portfolio   *string  `json:"portfolio,omitempty"`
	CoverLetter *string  `json:"cover_letter,omitempty"`
}
