package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/jasonhulbert/specgen/models"
	"github.com/jasonhulbert/specgen/scoring"
)

var (
	genProject      string
	genTitle        string
	genDescription  string
	genMode         string
	genInherit      bool
	genStakeholders []string
	genConstraints  []string
	genNFR          []string
	genSkipGate     bool
	genOutputFile   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a structured specification from a feature description",
	Long: `Generate drafts a structured specification from a short feature
description. When the description scores as ambiguous, clarifying
questions are asked first and the answers are folded into the request.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if genDescription == "" && len(args) > 0 {
			genDescription = strings.Join(args, " ")
		}

		input := models.FeatureInput{
			ProjectID:   genProject,
			Title:       genTitle,
			Description: genDescription,
			Context: models.InputContext{
				Stakeholders:       genStakeholders,
				Constraints:        genConstraints,
				NonFunctional:      genNFR,
				InheritFromProject: genInherit,
			},
		}
		if input.Title == "" || input.Description == "" {
			return fmt.Errorf("both --title and a description are required")
		}

		res, err := GetResolver()
		if err != nil {
			return err
		}
		rc, err := res.Resolve(input.ProjectID, &input.Context)
		if err != nil {
			return fmt.Errorf("failed to resolve project context: %w", err)
		}

		eng, err := GetEngine()
		if err != nil {
			return err
		}
		flow := eng.NewFlow()
		ctx := cmd.Context()

		score := scoring.Score(input)
		LogError(fmt.Sprintf("ambiguity score: %.2f", score), nil)

		threshold := GetConfig().Generation.GateThreshold
		if !genSkipGate && score >= threshold {
			fmt.Fprintf(os.Stderr, "The description looks ambiguous (score %.2f). Answer a few questions to improve the result, or re-run with --skip-questions.\n", score)
			set, err := flow.GenerateClarifyingQuestions(ctx, input, rc)
			if err != nil {
				return fmt.Errorf("failed to generate clarifying questions: %w", err)
			}
			answers := collectAnswers(set.Questions)
			if block := clarificationBlock(answers); block != "" {
				input.Description += block
			}
		}

		mode := genMode
		if mode == "" {
			mode = GetConfig().Generation.Mode
		}
		spec, err := flow.GenerateSpec(ctx, input, rc, mode)
		if err != nil {
			return fmt.Errorf("failed to generate specification: %w", err)
		}

		path, err := writeSpec(spec)
		if err != nil {
			return err
		}
		fmt.Printf("Specification %s written to %s\n", spec.ID, path)
		if spec.Summary != "" && GetConfig().Verbose {
			fmt.Println(spec.Summary)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&genProject, "project", "p", "default", "project the feature belongs to")
	generateCmd.Flags().StringVarP(&genTitle, "title", "t", "", "short feature title")
	generateCmd.Flags().StringVarP(&genDescription, "description", "d", "", "feature description (or pass it as arguments)")
	generateCmd.Flags().StringVarP(&genMode, "mode", "m", "", "generation mode (standard or detailed)")
	generateCmd.Flags().BoolVar(&genInherit, "inherit", true, "merge feature context on top of the project context")
	generateCmd.Flags().StringSliceVar(&genStakeholders, "stakeholder", nil, "stakeholder name (repeatable)")
	generateCmd.Flags().StringSliceVar(&genConstraints, "constraint", nil, "constraint (repeatable)")
	generateCmd.Flags().StringSliceVar(&genNFR, "nfr", nil, "non-functional requirement (repeatable)")
	generateCmd.Flags().BoolVar(&genSkipGate, "skip-questions", false, "skip the clarifying-question round even for ambiguous input")
	generateCmd.Flags().StringVarP(&genOutputFile, "output", "o", "", "write the artifact to this file instead of the output directory")
}

// collectAnswers prompts for each clarifying question. Empty answers are
// allowed; the question is then dropped rather than sent unanswered.
func collectAnswers(questions []models.Clarification) []models.ClarificationAnswer {
	var answers []models.ClarificationAnswer
	for _, q := range questions {
		label := q.Question
		if q.Topic != "" {
			label = fmt.Sprintf("[%s] %s", q.Topic, q.Question)
		}
		prompt := promptui.Prompt{Label: label}
		answer, err := prompt.Run()
		if err != nil || strings.TrimSpace(answer) == "" {
			continue
		}
		answers = append(answers, models.ClarificationAnswer{Question: q.Question, Answer: answer})
	}
	return answers
}

// clarificationBlock folds answered questions into the description so
// the drafting prompt sees them alongside the original text.
func clarificationBlock(answers []models.ClarificationAnswer) string {
	if len(answers) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n\nClarifications:\n")
	for _, a := range answers {
		fmt.Fprintf(&sb, "- Q: %s\n  A: %s\n", a.Question, a.Answer)
	}
	return sb.String()
}

// writeSpec stores the artifact as indented JSON, either at the explicit
// --output path or under the configured output directory.
func writeSpec(spec *models.SpecOutput) (string, error) {
	raw, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal specification: %w", err)
	}

	path := genOutputFile
	if path == "" {
		config := GetConfig()
		dir := filepath.Join(config.Project.RootDir, config.Project.OutputDir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
		path = filepath.Join(dir, spec.ID+".json")
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write specification to %s: %w", path, err)
	}
	return path, nil
}
