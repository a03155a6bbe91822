// Package catalog holds the fixed organisational data the wizard offers:
// departments, their teams, each team's interest areas and the language list.
package catalog

import (
	"strings"

	"tedred-internship-api/internal/domain"
)

type Team struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Interests   []string `json:"interests"`
}

type Department struct {
	Key   domain.CategoryKey `json:"key"`
	Name  string             `json:"name"`
	Teams []Team             `json:"teams"`
}

var departments = []Department{
	{
		Key:  domain.CategoryTech,
		Name: "Tech Division",
		Teams: []Team{
			{ID: "ai_automation", Name: "AI & Automation", Description: "Develop intelligent solutions that automate business processes",
				Interests: []string{"Machine Learning", "Natural Language Processing", "Computer Vision", "Chatbots", "Workflow Automation", "Process Optimization"}},
			{ID: "erp_solutions", Name: "ERP Solutions", Description: "Build and implement enterprise resource planning systems",
				Interests: []string{"Financial Systems", "Inventory Management", "CRM Integration", "Business Process Design", "Custom Module Development"}},
			{ID: "web_dev", Name: "Web Development", Description: "Create responsive web applications and sites",
				Interests: []string{"Frontend Development", "Backend Development", "Full-stack Development", "E-commerce", "Progressive Web Apps", "API Design"}},
			{ID: "mobile_dev", Name: "Mobile Development", Description: "Develop native and cross-platform mobile apps",
				Interests: []string{"iOS Development", "Android Development", "Cross-platform Apps", "Mobile UI/UX", "App Store Optimization"}},
			{ID: "cloud_solutions", Name: "Cloud Solutions", Description: "Architect scalable cloud infrastructure",
				Interests: []string{"Cloud Architecture", "DevOps", "Serverless Computing", "Microservices", "Cloud Security", "Migration Strategies"}},
			{ID: "no_code", Name: "No-Code Development", Description: "Build applications using visual development platforms",
				Interests: []string{"Visual App Development", "Database Design", "Workflow Automation", "API Integration", "Plugin Development"}},
		},
	},
	{
		Key:  domain.CategoryCreative,
		Name: "Creative Division",
		Teams: []Team{
			{ID: "ui_ux", Name: "UI/UX Design", Description: "Design intuitive user interfaces and experiences",
				Interests: []string{"User Research", "Wireframing", "Prototyping", "Interaction Design", "User Testing", "Design Systems"}},
			{ID: "brand_identity", Name: "Brand Identity", Description: "Create comprehensive visual brand identities",
				Interests: []string{"Logo Design", "Visual Identity", "Brand Guidelines", "Brand Strategy", "Marketing Collateral"}},
			{ID: "graphic_design", Name: "Graphic Design", Description: "Produce visual content for digital and print media",
				Interests: []string{"Digital Graphics", "Print Design", "Illustration", "Packaging Design", "Infographics"}},
			{ID: "video_production", Name: "Video Production", Description: "Create engaging video content and motion graphics",
				Interests: []string{"Video Editing", "Animation", "Motion Graphics", "Product Videos", "Event Coverage"}},
		},
	},
	{
		Key:  domain.CategoryMarketing,
		Name: "Marketing Division",
		Teams: []Team{
			{ID: "digital_marketing", Name: "Digital Marketing", Description: "Develop and execute online marketing campaigns",
				Interests: []string{"PPC Advertising", "Social Media Marketing", "Content Marketing", "Analytics & Reporting", "Campaign Management"}},
			{ID: "market_research", Name: "Market Research", Description: "Analyze markets, competitors, and customer needs",
				Interests: []string{"Competitor Analysis", "Consumer Behavior", "Market Trends", "Data Analysis", "Focus Groups"}},
			{ID: "seo", Name: "SEO", Description: "Optimize digital content for search engines",
				Interests: []string{"Technical SEO", "On-page Optimization", "Link Building", "Content Strategy", "Local SEO"}},
			{ID: "email_marketing", Name: "Email Marketing", Description: "Design and implement email marketing strategies",
				Interests: []string{"Campaign Strategy", "Email Automation", "A/B Testing", "List Management", "Performance Analytics"}},
		},
	},
	{
		Key:  domain.CategoryOperations,
		Name: "Business Operations",
		Teams: []Team{
			{ID: "finance", Name: "Finance & Accounting", Description: "Manage financial records, reporting, and budgeting",
				Interests: []string{"Accounting", "Financial Analysis", "Budgeting", "Accounts Payable", "Tax Planning"}},
			{ID: "hr", Name: "Human Resources", Description: "Oversee recruitment, employee relations, and development",
				Interests: []string{"Recruitment", "Employee Relations", "Benefits Administration", "Training & Development", "HR Policy"}},
			{ID: "business_dev", Name: "Business Development", Description: "Identify growth opportunities and build partnerships",
				Interests: []string{"Lead Generation", "Partnership Building", "Market Expansion", "Sales Strategy", "Client Relations"}},
			{ID: "admin", Name: "Admin Operations", Description: "Support day-to-day operations and logistics",
				Interests: []string{"Office Management", "Document Management", "Process Improvement", "Vendor Management", "Resource Coordination"}},
			{ID: "customer_support", Name: "Customer Support", Description: "Provide assistance and resolve client issues",
				Interests: []string{"Customer Service", "Technical Support", "Client Onboarding", "Problem Resolution", "Knowledge Base Creation"}},
		},
	},
}

// Departments returns every department in display order
func Departments() []Department {
	return departments
}

// DepartmentByKey looks a department up by its category key
func DepartmentByKey(key domain.CategoryKey) (Department, bool) {
	for _, d := range departments {
		if d.Key == key {
			return d, true
		}
	}
	return Department{}, false
}

// DepartmentName returns the display name of a category, or "" if unknown
func DepartmentName(key domain.CategoryKey) string {
	d, ok := DepartmentByKey(key)
	if !ok {
		return ""
	}
	return d.Name
}

// TeamByID finds a team and the department it belongs to
func TeamByID(id string) (Team, Department, bool) {
	for _, d := range departments {
		for _, t := range d.Teams {
			if t.ID == id {
				return t, d, true
			}
		}
	}
	return Team{}, Department{}, false
}

// InterestsFor returns the interest options of a team, empty for unknown ids
func InterestsFor(teamID string) []string {
	t, _, ok := TeamByID(teamID)
	if !ok {
		return []string{}
	}
	return append([]string{}, t.Interests...)
}

// IsInterestOf reports whether interest belongs to the team's option set
func IsInterestOf(teamID, interest string) bool {
	for _, i := range InterestsFor(teamID) {
		if i == interest {
			return true
		}
	}
	return false
}

// TeamIDsNamed maps team names to ids in catalog order
func TeamIDsNamed(names []string) []string {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	ids := []string{}
	for _, d := range departments {
		for _, t := range d.Teams {
			if wanted[t.Name] {
				ids = append(ids, t.ID)
			}
		}
	}
	return ids
}

// ============================================================================
// Languages
// ============================================================================

type Language struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var languages = []Language{
	{ID: "lang_eng", Name: "English"},
	{ID: "lang_urdu", Name: "Urdu"},
	{ID: "lang_pashto", Name: "Pashto"},
	{ID: "lang_punjabi", Name: "Punjabi"},
	{ID: "lang_sindhi", Name: "Sindhi"},
	{ID: "lang_balochi", Name: "Balochi"},
	{ID: "lang_saraiki", Name: "Saraiki"},
	{ID: "lang_kashmiri", Name: "Kashmiri"},
	{ID: "lang_arabic", Name: "Arabic"},
	{ID: "lang_hindi", Name: "Hindi"},
}

// ProficiencyLevels are the selectable levels, lowest first
var ProficiencyLevels = []string{
	"Beginner / A1-A2",
	"Intermediate / B1-B2",
	"Advanced / C1-C2",
	"Native/Fluent",
}

// Languages returns the predefined language list
func Languages() []Language {
	return languages
}

// LanguageName resolves "lang_urdu" to "Urdu"; unknown ids lose their prefix
func LanguageName(id string) string {
	for _, l := range languages {
		if l.ID == id {
			return l.Name
		}
	}
	return strings.TrimPrefix(id, "lang_")
}

// IsProficiencyLevel checks a level against ProficiencyLevels
func IsProficiencyLevel(level string) bool {
	for _, l := range ProficiencyLevels {
		if l == level {
			return true
		}
	}
	return false
}
