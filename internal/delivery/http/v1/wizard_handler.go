package v1

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"tedred-internship-api/internal/delivery/http/response"
	"tedred-internship-api/internal/domain"
	"tedred-internship-api/internal/wizard"
	"tedred-internship-api/pkg/apperror"
	"tedred-internship-api/pkg/security"
	"tedred-internship-api/pkg/validation"

	"github.com/gin-gonic/gin"
)

// multipartOverhead covers the boundary and part headers around the resume
const multipartOverhead = 64 << 10

type WizardHandler struct {
	wizardUC       domain.WizardUsecase
	maxResumeBytes int64
}

// NewWizardHandler registers the wizard session routes. submitLimit guards
// the upload, submit and export endpoints and may be nil.
func NewWizardHandler(public *gin.RouterGroup, wizardUC domain.WizardUsecase, maxResumeBytes int64, submitLimit gin.HandlerFunc) {
	if maxResumeBytes <= 0 {
		maxResumeBytes = security.MaxResumeSize
	}
	handler := &WizardHandler{
		wizardUC:       wizardUC,
		maxResumeBytes: maxResumeBytes,
	}

	sessions := public.Group("/wizard/sessions")
	{
		sessions.POST("", handler.StartSession)
		sessions.GET("/:id", handler.GetSession)
		sessions.POST("/:id/restart", handler.Restart)
		sessions.PATCH("/:id/record", handler.UpdateRecord)
		sessions.POST("/:id/touch", handler.TouchFields)

		sessions.POST("/:id/advance", handler.Advance)
		sessions.POST("/:id/retreat", handler.Retreat)
		sessions.POST("/:id/jump", handler.JumpTo)

		assessment := sessions.Group("/:id/assessment")
		assessment.PUT("/answers/:questionId", handler.AnswerQuestion)
		assessment.POST("/next", handler.AssessmentNext)
		assessment.POST("/back", handler.AssessmentBack)
		assessment.POST("/skip", handler.SkipAssessment)
		assessment.POST("/recompute", handler.RecomputeAssessment)
		assessment.POST("/languages", handler.AddLanguage)
		assessment.DELETE("/languages/:index", handler.RemoveLanguage)

		sessions.PUT("/:id/department", handler.SelectDepartment)
		sessions.POST("/:id/interests/toggle", handler.ToggleInterest)

		sessions.POST("/:id/education", handler.AddEducation)
		sessions.DELETE("/:id/education/:index", handler.RemoveEducation)
		sessions.POST("/:id/experience", handler.AddExperience)
		sessions.DELETE("/:id/experience/:index", handler.RemoveExperience)
		sessions.PUT("/:id/experience/:index/dates", handler.SetExperienceDate)
		sessions.POST("/:id/experience/skip", handler.SkipExperience)

		sessions.POST("/:id/skills", handler.AddSkill)
		sessions.DELETE("/:id/skills/:skill", handler.RemoveSkill)
		sessions.PUT("/:id/interview", handler.ScheduleInterview)

		sessions.POST("/:id/resume", limited(submitLimit, handler.AttachResume)...)
		sessions.POST("/:id/submit", limited(submitLimit, handler.Submit)...)
		sessions.GET("/:id/export", limited(submitLimit, handler.Export)...)
	}
}

func limited(limit gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	if limit == nil {
		return []gin.HandlerFunc{handler}
	}
	return []gin.HandlerFunc{limit, handler}
}

func (h *WizardHandler) respond(c *gin.Context, code int, message string, view *domain.WizardView, err error) {
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, code, message, view)
}

// bindError reports a rejected request body with per-field messages
func bindError(c *gin.Context, err error) {
	c.Error(apperror.New(http.StatusBadRequest, "Invalid request body", err).
		WithDetails(validation.FormatValidationErrors(err)))
}

func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.Error(apperror.BadRequest("index must be a non-negative integer"))
		return 0, false
	}
	return index, true
}

// ============================================================================
// Session lifecycle
// ============================================================================

// StartSession godoc
// @Summary      Start Wizard Session
// @Description  Create a new application wizard positioned on Personal Info
// @Tags         wizard
// @Produce      json
// @Success      201  {object}  response.Response{data=domain.WizardView}
// @Router       /wizard/sessions [post]
func (h *WizardHandler) StartSession(c *gin.Context) {
	view, err := h.wizardUC.StartSession(c.Request.Context())
	h.respond(c, http.StatusCreated, "Wizard session started", view, err)
}

// GetSession godoc
// @Summary      Get Wizard Session
// @Tags         wizard
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.Response{data=domain.WizardView}
// @Failure      404  {object}  response.Response
// @Router       /wizard/sessions/{id} [get]
func (h *WizardHandler) GetSession(c *gin.Context) {
	view, err := h.wizardUC.GetSession(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, "Wizard session retrieved", view, err)
}

// Restart godoc
// @Summary      Restart Wizard
// @Description  Discard the application and return to Personal Info
// @Tags         wizard
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.Response{data=domain.WizardView}
// @Router       /wizard/sessions/{id}/restart [post]
func (h *WizardHandler) Restart(c *gin.Context) {
	view, err := h.wizardUC.Restart(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, "Wizard restarted", view, err)
}

// UpdateRecord godoc
// @Summary      Update Application Record
// @Description  Shallow-merge the given fields into the application record
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        id     path      string              true  "Session ID"
// @Param        patch  body      domain.RecordPatch  true  "Fields to replace"
// @Success      200    {object}  response.Response{data=domain.WizardView}
// @Failure      409    {object}  response.Response
// @Router       /wizard/sessions/{id}/record [patch]
func (h *WizardHandler) UpdateRecord(c *gin.Context) {
	var patch domain.RecordPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, err)
		return
	}
	view, err := h.wizardUC.UpdateRecord(c.Request.Context(), c.Param("id"), patch)
	h.respond(c, http.StatusOK, "Application updated", view, err)
}

// TouchFields godoc
// @Summary      Mark Fields Touched
// @Description  Reveal validation errors for fields the applicant has left
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        id    path      string                     true  "Session ID"
// @Param        body  body      domain.TouchFieldsRequest  true  "Field names"
// @Success      200   {object}  response.Response{data=domain.WizardView}
// @Router       /wizard/sessions/{id}/touch [post]
func (h *WizardHandler) TouchFields(c *gin.Context) {
	var req domain.TouchFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	view, err := h.wizardUC.TouchFields(c.Request.Context(), c.Param("id"), req.Fields)
	h.respond(c, http.StatusOK, "Fields touched", view, err)
}

// ============================================================================
// Step navigation
// ============================================================================

// Advance godoc
// @Summary      Next Step
// @Description  Validate the current step and move forward. A blocked step returns 422 with the failing fields.
// @Tags         wizard
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.Response{data=domain.WizardView}
// @Failure      422  {object}  response.Response{error=usecase.GateDetails}
// @Router       /wizard/sessions/{id}/advance [post]
func (h *WizardHandler) Advance(c *gin.Context) {
	view, err := h.wizardUC.Advance(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, "Step advanced", view, err)
}

// Retreat godoc
// @Summary      Previous Step
// @Tags         wizard
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.Response{data=domain.WizardView}
// @Router       /wizard/sessions/{id}/retreat [post]
func (h *WizardHandler) Retreat(c *gin.Context) {
	view, err := h.wizardUC.Retreat(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, "Step retreated", view, err)
}

// JumpTo godoc
// @Summary      Jump To Completed Step
// @Description  Only steps before the current one can be targeted
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Session ID"
// @Param        body  body      domain.JumpRequest  true  "Target step"
// @Success      200   {object}  response.Response{data=domain.WizardView}
// @Failure      409   {object}  response.Response
// @Router       /wizard/sessions/{id}/jump [post]
func (h *WizardHandler) JumpTo(c *gin.Context) {
	var req domain.JumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	view, err := h.wizardUC.JumpTo(c.Request.Context(), c.Param("id"), req.Step)
	h.respond(c, http.StatusOK, "Jumped to step", view, err)
}

// ============================================================================
// Assessment
// ============================================================================

// AnswerQuestion godoc
// @Summary      Rate Assessment Question
// @Tags         assessment
// @Accept       json
// @Produce      json
// @Param        id          path      string                true  "Session ID"
// @Param        questionId  path      string                true  "Question ID"
// @Param        body        body      domain.AnswerRequest  true  "Rating 1-5"
// @Success      200         {object}  response.Response{data=domain.WizardView}
// @Router       /wizard/sessions/{id}/assessment/answers/{questionId} [put]
func (h *WizardHandler) AnswerQuestion(c *gin.Context) {
	var req domain.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	view, err := h.wizardUC.AnswerQuestion(c.Request.Context(), c.Param("id"), c.Param("questionId"), req.Rating)
	h.respond(c, http.StatusOK, "Answer recorded", view, err)
}

// AssessmentNext godoc
// @Summary      Next Assessment Section
// @Description  Leaving the Languages section computes the Ikigai results
// @Tags         assessment
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.Response{data=domain.WizardView}
// @Failure      422  {object}  response.Response
// @Router       /wizard/sessions/{id}/assessment/next [post]
func (h *WizardHandler) AssessmentNext(c *gin.Context) {
	view, err := h.wizardUC.AssessmentNext(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, "Assessment advanced", view, err)
}

// AssessmentBack godoc
// @Summary      Previous Assessment Section
// @Tags         assessment
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.Response{data=domain.WizardView}
// @Router       /wizard/sessions/{id}/assessment/back [post]
func (h *WizardHandler) AssessmentBack(c *gin.Context) {
	view, err := h.wizardUC.AssessmentBack(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, "Assessment moved back", view, err)
}

// SkipAssessment godoc
// @Summary      Skip Assessment
// @Tags         assessment
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.Response{data=domain.WizardView}
// @Router       /wizard/sessions/{id}/assessment/skip [post]
func (h *WizardHandler) SkipAssessment(c *gin.Context) {
	view, err := h.wizardUC.SkipAssessment(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, "Assessment skipped", view, err)
}

// RecomputeAssessment godoc
// @Summary      Recompute Ikigai Results
// @Description  Refresh results that went stale after answers changed
// @Tags         assessment
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.Response{data=domain.WizardView}
// @Router       /wizard/sessions/{id}/assessment/recompute [post]
func (h *WizardHandler) RecomputeAssessment(c *gin.Context) {
	view, err := h.wizardUC.RecomputeAssessment(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, "Assessment recomputed", view, err)
}

// AddLanguage godoc
// @Summary      Add Language
// @Tags         assessment
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true  "Session ID"
// @Param        body  body      domain.LanguageRequest  true  "Language and level"
// @Success      200   {object}  response.Response{data=domain.WizardView}
// @Router       /wizard/sessions/{id}/assessment/languages [post]
func (h *WizardHandler) AddLanguage(c *gin.Context) {
	var req domain.LanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	entry := domain.LanguageEntry{Language: req.Language, Level: req.Level}
	view, err := h.wizardUC.AddLanguage(c.Request.Context(), c.Param("id"), entry)
	h.respond(c, http.StatusOK, "Language added", view, err)
}

// RemoveLanguage godoc
// @Summary      Remove Language
// @Tags         assessment
// @Produce      json
// @Param        id     path      string  true  "Session ID"
// @Param        index  path      int     true  "Language index"
// @Success      200    {object}  response.Response{data=domain.WizardView}
// @Router       /wizard/sessions/{id}/assessment/languages/{index} [delete]
func (h *WizardHandler) RemoveLanguage(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	view, err := h.wizardUC.RemoveLanguage(c.Request.Context(), c.Param("id"), index)
	h.respond(c, http.StatusOK, "Language removed", view, err)
}

// ============================================================================
// Department
// ============================================================================

// SelectDepartment godoc
// @Summary      Select Team
// @Description  Changing the team clears interests that do not belong to it
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        id    path      string                          true  "Session ID"
// @Param        body  body      domain.SelectDepartmentRequest  true  "Team"
// @Success      200   {object}  response.Response{data=domain.WizardView}
// @Router       /wizard/sessions/{id}/department [put]
func (h *WizardHandler) SelectDepartment(c *gin.Context) {
	var req domain.SelectDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	view, err := h.wizardUC.SelectDepartment(c.Request.Context(), c.Param("id"), req.TeamID)
	h.respond(c, http.StatusOK, "Department selected", view, err)
}

// ToggleInterest godoc
// @Summary      Toggle Interest Area
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        id    path      string                        true  "Session ID"
// @Param        body  body      domain.ToggleInterestRequest  true  "Interest"
// @Success      200   {object}  response.Response{data=domain.WizardView}
// @Router       /wizard/sessions/{id}/interests/toggle [post]
func (h *WizardHandler) ToggleInterest(c *gin.Context) {
	var req domain.ToggleInterestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	view, err := h.wizardUC.ToggleInterest(c.Request.Context(), c.Param("id"), req.Interest)
	h.respond(c, http.StatusOK, "Interest toggled", view, err)
}

// ============================================================================
// Education / experience
// ============================================================================

// AddEducation godoc
// @Summary      Add Education Entry
// @Tags         wizard
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.Response{data=domain.WizardView}
// @Router       /wizard/sessions/{id}/education [post]
func (h *WizardHandler) AddEducation(c *gin.Context) {
	view, err := h.wizardUC.AddEducation(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, "Education entry added", view, err)
}

// RemoveEducation godoc
// @Summary      Remove Education Entry
// @Description  The last remaining entry cannot be removed
// @Tags         wizard
// @Produce      json
// @Param        id     path      string  true  "Session ID"
// @Param        index  path      int     true  "Entry index"
// @Success      200    {object}  response.Response{data=domain.WizardView}
// @Router       /wizard/sessions/{id}/education/{index} [delete]
func (h *WizardHandler) RemoveEducation(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	view, err := h.wizardUC.RemoveEducation(c.Request.Context(), c.Param("id"), index)
	h.respond(c, http.StatusOK, "Education entry removed", view, err)
}

// AddExperience godoc
// @Summary      Add Experience Entry
// @Tags         wizard
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.Response{data=domain.WizardView}
// @Router       /wizard/sessions/{id}/experience [post]
func (h *WizardHandler) AddExperience(c *gin.Context) {
	view, err := h.wizardUC.AddExperience(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, "Experience entry added", view, err)
}

// RemoveExperience godoc
// @Summary      Remove Experience Entry
// @Tags         wizard
// @Produce      json
// @Param        id     path      string  true  "Session ID"
// @Param        index  path      int     true  "Entry index"
// @Success      200    {object}  response.Response{data=domain.WizardView}
// @Router       /wizard/sessions/{id}/experience/{index} [delete]
func (h *WizardHandler) RemoveExperience(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	view, err := h.wizardUC.RemoveExperience(c.Request.Context(), c.Param("id"), index)
	h.respond(c, http.StatusOK, "Experience entry removed", view, err)
}

// SetExperienceDate godoc
// @Summary      Set Experience Month
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        id     path      string                        true  "Session ID"
// @Param        index  path      int                           true  "Entry index"
// @Param        body   body      domain.ExperienceDateRequest  true  "Field and MM/YYYY month"
// @Success      200    {object}  response.Response{data=domain.WizardView}
// @Router       /wizard/sessions/{id}/experience/{index}/dates [put]
func (h *WizardHandler) SetExperienceDate(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	var req domain.ExperienceDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	month, err := time.Parse(wizard.ExperienceDateLayout, req.Month)
	if err != nil {
		c.Error(apperror.BadRequest("month must be formatted as MM/YYYY"))
		return
	}
	view, err := h.wizardUC.SetExperienceDate(c.Request.Context(), c.Param("id"), index, req.Field, month)
	h.respond(c, http.StatusOK, "Experience date set", view, err)
}

// SkipExperience godoc
// @Summary      Skip Experience
// @Description  Clear all experience entries and move on to Review
// @Tags         wizard
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.Response{data=domain.WizardView}
// @Router       /wizard/sessions/{id}/experience/skip [post]
func (h *WizardHandler) SkipExperience(c *gin.Context) {
	view, err := h.wizardUC.SkipExperience(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, "Experience skipped", view, err)
}

// ============================================================================
// Extras
// ============================================================================

// AddSkill godoc
// @Summary      Add Skill
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Session ID"
// @Param        body  body      domain.SkillRequest  true  "Skill"
// @Success      200   {object}  response.Response{data=domain.WizardView}
// @Router       /wizard/sessions/{id}/skills [post]
func (h *WizardHandler) AddSkill(c *gin.Context) {
	var req domain.SkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	view, err := h.wizardUC.AddSkill(c.Request.Context(), c.Param("id"), req.Skill)
	h.respond(c, http.StatusOK, "Skill added", view, err)
}

// RemoveSkill godoc
// @Summary      Remove Skill
// @Tags         wizard
// @Produce      json
// @Param        id     path      string  true  "Session ID"
// @Param        skill  path      string  true  "Skill"
// @Success      200    {object}  response.Response{data=domain.WizardView}
// @Router       /wizard/sessions/{id}/skills/{skill} [delete]
func (h *WizardHandler) RemoveSkill(c *gin.Context) {
	view, err := h.wizardUC.RemoveSkill(c.Request.Context(), c.Param("id"), c.Param("skill"))
	h.respond(c, http.StatusOK, "Skill removed", view, err)
}

// AttachResume godoc
// @Summary      Upload Resume
// @Description  Accepts a single PDF, DOC or DOCX file up to 5MB
// @Tags         wizard
// @Accept       multipart/form-data
// @Produce      json
// @Param        id      path      string  true  "Session ID"
// @Param        resume  formData  file    true  "Resume file"
// @Success      200     {object}  response.Response{data=domain.WizardView}
// @Failure      413     {object}  response.Response
// @Failure      415     {object}  response.Response
// @Router       /wizard/sessions/{id}/resume [post]
func (h *WizardHandler) AttachResume(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxResumeBytes+multipartOverhead)

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.Error(apperror.TooLarge("Resume must be 5MB or smaller"))
			return
		}
		c.Error(apperror.BadRequest("resume file is required"))
		return
	}
	if fileHeader.Size > h.maxResumeBytes {
		c.Error(apperror.TooLarge("Resume must be 5MB or smaller"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.BadRequest("could not read resume file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxResumeBytes+1))
	if err != nil {
		c.Error(apperror.BadRequest("could not read resume file"))
		return
	}

	view, err := h.wizardUC.AttachResume(c.Request.Context(), c.Param("id"), fileHeader.Filename, data)
	h.respond(c, http.StatusOK, "Resume attached", view, err)
}

// ScheduleInterview godoc
// @Summary      Schedule Interview
// @Description  Weekdays only, and not in the past
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true  "Session ID"
// @Param        body  body      domain.InterviewRequest  true  "RFC3339 date and time"
// @Success      200   {object}  response.Response{data=domain.WizardView}
// @Router       /wizard/sessions/{id}/interview [put]
func (h *WizardHandler) ScheduleInterview(c *gin.Context) {
	var req domain.InterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	view, err := h.wizardUC.ScheduleInterview(c.Request.Context(), c.Param("id"), req.InterviewDate)
	h.respond(c, http.StatusOK, "Interview scheduled", view, err)
}

// ============================================================================
// Submission / export
// ============================================================================

// Submit godoc
// @Summary      Submit Application
// @Description  Re-validates every step, then hands the application to the submission service
// @Tags         wizard
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.Response{data=domain.WizardView}
// @Failure      409  {object}  response.Response
// @Failure      422  {object}  response.Response{error=usecase.GateDetails}
// @Failure      429  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /wizard/sessions/{id}/submit [post]
func (h *WizardHandler) Submit(c *gin.Context) {
	view, err := h.wizardUC.Submit(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, "Application submitted successfully", view, err)
}

// Export godoc
// @Summary      Download Application Summary
// @Description  Available once the application is submitted
// @Tags         wizard
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Param        id      path   string  true   "Session ID"
// @Param        format  query  string  false  "xlsx (default) or csv"
// @Success      200     {file}    file
// @Failure      409     {object}  response.Response
// @Router       /wizard/sessions/{id}/export [get]
func (h *WizardHandler) Export(c *gin.Context) {
	file, err := h.wizardUC.Export(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
