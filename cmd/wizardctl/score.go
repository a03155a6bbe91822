package main

import (
	"fmt"

	"tedred-internship-api/internal/domain"
	"tedred-internship-api/internal/ikigai"

	"github.com/spf13/cobra"
)

// scoreInput is the answers file:
//
//	answers:
//	  passion_1: 5
//	  ...
//	languages:
//	  - language: lang_urdu
//	    level: Native/Fluent
type scoreInput struct {
	Answers   map[string]int `yaml:"answers"`
	Languages []struct {
		Language string `yaml:"language"`
		Level    string `yaml:"level"`
	} `yaml:"languages"`
}

type scoreOutput struct {
	TopCategory     string                            `json:"top_category" yaml:"top_category"`
	Recommendations []domain.DepartmentRecommendation `json:"recommendations" yaml:"recommendations"`
	TeamSuggestions []string                          `json:"team_suggestions" yaml:"team_suggestions"`
	SoftSkills      []string                          `json:"soft_skills" yaml:"soft_skills"`
}

var scoreCmd = &cobra.Command{
	Use:   "score <answers.yaml|->",
	Short: "Score an Ikigai questionnaire",
	Long:  `Reads the 20 ratings and optional languages from a YAML or JSON file and prints the ranked departments.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
	var in scoreInput
	if err := readDocument(args[0], &in); err != nil {
		return err
	}

	langs := make([]domain.LanguageEntry, 0, len(in.Languages))
	for _, l := range in.Languages {
		langs = append(langs, domain.LanguageEntry{Language: l.Language, Level: l.Level})
	}

	result, err := ikigai.Default().Score(in.Answers, langs)
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}

	out := scoreOutput{
		Recommendations: result.DepartmentRecommendations,
		TeamSuggestions: result.TeamSuggestions,
		SoftSkills:      result.SoftSkills,
	}
	if top, ok := result.Top(); ok {
		out.TopCategory = string(top.Key)
	}
	return printResult(cmd.OutOrStdout(), out)
}
