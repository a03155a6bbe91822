package domain

import "time"

// ============================================================================
// Wizard request DTOs
// ============================================================================

type TouchFieldsRequest struct {
	Fields []string `json:"fields" binding:"required,min=1,dive,required,max=64"`
}

type JumpRequest struct {
	Step StepID `json:"step" binding:"required,min=1,max=6"`
}

type AnswerRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

type LanguageRequest struct {
	Language string `json:"language" binding:"required,max=64"`
	Level    string `json:"level" binding:"required"`
}

type SelectDepartmentRequest struct {
	TeamID string `json:"team_id" binding:"required"`
}

type ToggleInterestRequest struct {
	Interest string `json:"interest" binding:"required"`
}

// ExperienceDateRequest carries a "MM/YYYY" month
type ExperienceDateRequest struct {
	Field string `json:"field" binding:"required,oneof=start_date end_date"`
	Month string `json:"month" binding:"required"`
}

type SkillRequest struct {
	Skill string `json:"skill" binding:"required,max=64"`
}

type InterviewRequest struct {
	InterviewDate time.Time `json:"interview_date" binding:"required"`
}
