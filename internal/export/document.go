// Package export builds the application summary document and renders it
// as XLSX or CSV.
package export

import (
	"fmt"
	"strings"

	"tedred-internship-api/internal/catalog"
	"tedred-internship-api/internal/domain"
)

// SectionID names a document section
type SectionID string

const (
	SectionBasicInfo   SectionID = "basic_info"
	SectionAssessment  SectionID = "assessment"
	SectionEducation   SectionID = "education"
	SectionExperience  SectionID = "experience"
	SectionSkills      SectionID = "skills"
	SectionCoverLetter SectionID = "cover_letter"
)

const (
	DocumentTitle    = "TedRed Internship Application"
	DocumentSubtitle = "Application Summary"
	FooterLine       = "Keep this summary for your records. Our team will contact you by email about next steps."

	interviewLayout = "Monday, January 2, 2006 - 3:04 PM"
)

type Table struct {
	Headers []string
	Rows    [][]string
}

// Section is one block of the document. Lines are free text printed after
// the table, if any.
type Section struct {
	ID    SectionID
	Title string
	Table *Table
	Lines []string
}

// Height is the number of rows the section occupies, title included
func (s Section) Height() int {
	h := 1 + len(s.Lines)
	if s.Table != nil {
		h += 1 + len(s.Table.Rows)
	}
	return h
}

type Document struct {
	Title     string
	Subtitle  string
	Reference string
	Sections  []Section
	Footer    string
}

// Section returns the section with id, if present
func (d Document) Section(id SectionID) (Section, bool) {
	for _, s := range d.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Generate builds the summary of r. Optional sections without content are
// omitted entirely. r is never modified.
func Generate(r domain.ApplicationRecord) Document {
	doc := Document{
		Title:     DocumentTitle,
		Subtitle:  DocumentSubtitle,
		Reference: r.ReferenceNumber,
		Footer:    FooterLine,
	}

	doc.Sections = append(doc.Sections, basicInfo(r))
	for _, build := range []func(domain.ApplicationRecord) (Section, bool){
		assessment, education, experience, skills, coverLetter,
	} {
		if s, ok := build(r); ok {
			doc.Sections = append(doc.Sections, s)
		}
	}
	return doc
}

func basicInfo(r domain.ApplicationRecord) Section {
	rows := [][]string{
		{"Full Name", r.FullName()},
		{"Email", strings.TrimSpace(r.Email)},
		{"Phone", strings.TrimSpace(r.Phone)},
	}
	if dept := departmentLabel(r.Department); dept != "" {
		rows = append(rows, []string{"Department", dept})
	}
	if r.InterviewDate != nil {
		rows = append(rows, []string{"Interview", r.InterviewDate.Format(interviewLayout)})
	}
	if r.ResumeURL != "" {
		rows = append(rows, []string{"Resume", r.ResumeURL})
	}
	if p := strings.TrimSpace(r.Portfolio); p != "" {
		rows = append(rows, []string{"Portfolio", p})
	}
	if r.ReferenceNumber != "" {
		rows = append(rows, []string{"Reference Number", r.ReferenceNumber})
	}

	return Section{
		ID:    SectionBasicInfo,
		Title: "Basic Information",
		Table: &Table{Headers: []string{"Field", "Value"}, Rows: rows},
	}
}

func departmentLabel(teamID string) string {
	team, dept, ok := catalog.TeamByID(teamID)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s (%s)", team.Name, dept.Name)
}

func assessment(r domain.ApplicationRecord) (Section, bool) {
	res := r.IkigaiResults
	if !res.HasRecommendations() {
		return Section{}, false
	}

	rows := make([][]string, 0, len(res.DepartmentRecommendations))
	for i, rec := range res.DepartmentRecommendations {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			rec.Department,
			fmt.Sprintf("%d", rec.Score),
			strings.Join(rec.Enhancements, ", "),
		})
	}

	var lines []string
	if len(res.TeamSuggestions) > 0 {
		lines = append(lines, "Recommended teams: "+strings.Join(res.TeamSuggestions, ", "))
	}
	if len(res.SoftSkills) > 0 {
		lines = append(lines, "Soft skills: "+strings.Join(res.SoftSkills, ", "))
	}
	if len(res.Languages) > 0 {
		langs := make([]string, 0, len(res.Languages))
		for _, l := range res.Languages {
			if l.Level != "" {
				langs = append(langs, fmt.Sprintf("%s (%s)", l.Language, l.Level))
			} else {
				langs = append(langs, l.Language)
			}
		}
		lines = append(lines, "Languages: "+strings.Join(langs, ", "))
	}

	return Section{
		ID:    SectionAssessment,
		Title: "Ikigai Assessment Results",
		Table: &Table{Headers: []string{"Rank", "Department", "Score", "Strengths"}, Rows: rows},
		Lines: lines,
	}, true
}

func education(r domain.ApplicationRecord) (Section, bool) {
	rows := [][]string{}
	for _, e := range r.Education {
		row := []string{
			strings.TrimSpace(e.Institution),
			strings.TrimSpace(e.Degree),
			strings.TrimSpace(e.FieldOfStudy),
			strings.TrimSpace(e.GraduationYear),
		}
		if strings.Join(row, "") == "" {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return Section{}, false
	}
	return Section{
		ID:    SectionEducation,
		Title: "Education",
		Table: &Table{Headers: []string{"Institution", "Degree", "Field of Study", "Graduation Year"}, Rows: rows},
	}, true
}

// experience is omitted whenever the first entry has no company
func experience(r domain.ApplicationRecord) (Section, bool) {
	if len(r.Experience) == 0 || strings.TrimSpace(r.Experience[0].Company) == "" {
		return Section{}, false
	}

	rows := [][]string{}
	for _, e := range r.Experience {
		company := strings.TrimSpace(e.Company)
		if company == "" {
			continue
		}
		rows = append(rows, []string{company, strings.TrimSpace(e.Position), period(e), strings.TrimSpace(e.Description)})
	}
	return Section{
		ID:    SectionExperience,
		Title: "Work Experience",
		Table: &Table{Headers: []string{"Company", "Position", "Period", "Description"}, Rows: rows},
	}, true
}

func period(e domain.Experience) string {
	switch {
	case e.StartDate == "" && e.EndDate == "":
		return ""
	case e.EndDate == "":
		return e.StartDate + " - Present"
	case e.StartDate == "":
		return "Until " + e.EndDate
	default:
		return e.StartDate + " - " + e.EndDate
	}
}

func skills(r domain.ApplicationRecord) (Section, bool) {
	rows := [][]string{}
	if len(r.Skills) > 0 {
		rows = append(rows, []string{"Skills", strings.Join(r.Skills, ", ")})
	}
	if len(r.Interests) > 0 {
		rows = append(rows, []string{"Interests", strings.Join(r.Interests, ", ")})
	}
	if len(rows) == 0 {
		return Section{}, false
	}
	return Section{
		ID:    SectionSkills,
		Title: "Skills & Interests",
		Table: &Table{Headers: []string{"Category", "Details"}, Rows: rows},
	}, true
}

func coverLetter(r domain.ApplicationRecord) (Section, bool) {
	text := strings.TrimSpace(r.CoverLetter)
	if text == "" {
		return Section{}, false
	}
	lines := []string{}
	for _, l := range strings.Split(text, "\n") {
		lines = append(lines, strings.TrimRight(l, "\r "))
	}
	return Section{ID: SectionCoverLetter, Title: "Cover Letter", Lines: lines}, true
}

// HeaderRows is the height of the banner on the first page
const HeaderRows = 4

// Paginate assigns sections to pages of at most rowsPerPage rows, counting
// one spacer row after each section. A section taller than a page gets a
// page of its own.
func Paginate(d Document, rowsPerPage int) [][]Section {
	if rowsPerPage <= 0 {
		return [][]Section{d.Sections}
	}

	pages := [][]Section{}
	var current []Section
	used := HeaderRows
	for _, s := range d.Sections {
		h := s.Height() + 1
		if len(current) > 0 && used+h > rowsPerPage {
			pages = append(pages, current)
			current, used = nil, 0
		}
		current = append(current, s)
		used += h
	}
	if len(current) > 0 {
		pages = append(pages, current)
	}
	return pages
}
