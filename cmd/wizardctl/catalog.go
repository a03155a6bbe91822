package main

import (
	"tedred-internship-api/internal/catalog"
	"tedred-internship-api/internal/ikigai"

	"github.com/spf13/cobra"
)

var catalogSection string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print departments, languages or assessment questions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch catalogSection {
		case "languages":
			return printResult(cmd.OutOrStdout(), map[string]interface{}{
				"languages":          catalog.Languages(),
				"proficiency_levels": catalog.ProficiencyLevels,
			})
		case "questions":
			return printResult(cmd.OutOrStdout(), ikigai.Sections())
		default:
			return printResult(cmd.OutOrStdout(), catalog.Departments())
		}
	},
}

func init() {
	catalogCmd.Flags().StringVarP(&catalogSection, "section", "s", "departments", "departments, languages or questions")
}
