package v1

import (
	"net/http"

	"tedred-internship-api/internal/catalog"
	"tedred-internship-api/internal/delivery/http/response"
	"tedred-internship-api/internal/ikigai"
	"tedred-internship-api/internal/wizard"

	"github.com/gin-gonic/gin"
)

type StepInfo struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Skippable bool   `json:"skippable"`
}

// WizardCatalog is the fixed content the UI renders the wizard from
type WizardCatalog struct {
	Steps             []StepInfo           `json:"steps"`
	Departments       []catalog.Department `json:"departments"`
	AssessmentStages  []ikigai.Section     `json:"assessment_stages"`
	Languages         []catalog.Language   `json:"languages"`
	ProficiencyLevels []string             `json:"proficiency_levels"`
}

type CatalogHandler struct {
	catalog WizardCatalog
}

// NewCatalogHandler registers the read-only catalog route
func NewCatalogHandler(public *gin.RouterGroup) {
	handler := &CatalogHandler{catalog: BuildCatalog()}
	public.GET("/wizard/catalog", handler.GetCatalog)
}

// BuildCatalog assembles the catalog from the static department, question
// and language tables
func BuildCatalog() WizardCatalog {
	defs := wizard.Steps()
	steps := make([]StepInfo, 0, len(defs))
	for _, d := range defs {
		steps = append(steps, StepInfo{ID: int(d.ID), Name: d.Name, Skippable: d.Skippable})
	}

	return WizardCatalog{
		Steps:             steps,
		Departments:       catalog.Departments(),
		AssessmentStages:  ikigai.Sections(),
		Languages:         catalog.Languages(),
		ProficiencyLevels: catalog.ProficiencyLevels,
	}
}

// GetCatalog godoc
// @Summary      Wizard Catalog
// @Description  Steps, departments with their teams, assessment questions and languages
// @Tags         wizard
// @Produce      json
// @Success      200  {object}  response.Response{data=WizardCatalog}
// @Router       /wizard/catalog [get]
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=300")
	response.Success(c, http.StatusOK, "Catalog retrieved", h.catalog)
}
