package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/jasonhulbert/specgen/models"
)

var refineOutputFile string

var refineCmd = &cobra.Command{
	Use:   "refine <spec-file>",
	Short: "Refine an existing specification with answered clarifications",
	Long: `Refine loads a previously generated specification, walks through its
open clarifying questions, and asks the backend to revise only the
affected fields. The revised artifact is written back.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		specPath := args[0]
		raw, err := os.ReadFile(specPath)
		if err != nil {
			return fmt.Errorf("failed to read specification %s: %w", specPath, err)
		}
		var original models.SpecOutput
		if err := json.Unmarshal(raw, &original); err != nil {
			return fmt.Errorf("%s is not a specification artifact: %w", specPath, err)
		}

		if len(original.NeedsClarification) == 0 {
			fmt.Println("Specification has no open clarifications; nothing to refine.")
			return nil
		}

		var answers []models.ClarificationAnswer
		for _, c := range original.NeedsClarification {
			prompt := promptui.Prompt{Label: c.Question}
			answer, err := prompt.Run()
			if err != nil || strings.TrimSpace(answer) == "" {
				continue
			}
			answers = append(answers, models.ClarificationAnswer{Question: c.Question, Answer: answer})
		}
		if len(answers) == 0 {
			fmt.Println("No answers given; specification left unchanged.")
			return nil
		}

		eng, err := GetEngine()
		if err != nil {
			return err
		}
		flow := eng.NewFlow()
		patch, err := flow.RefineSpec(cmd.Context(), original, answers)
		if err != nil {
			return fmt.Errorf("failed to refine specification: %w", err)
		}
		if patch.IsEmpty() {
			fmt.Println("Backend reported no changes; specification left unchanged.")
			return nil
		}

		merged := models.MergeSpec(original, *patch)
		out, err := json.MarshalIndent(merged, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal refined specification: %w", err)
		}

		outPath := refineOutputFile
		if outPath == "" {
			outPath = specPath
		}
		if err := os.WriteFile(outPath, out, 0o644); err != nil {
			return fmt.Errorf("failed to write refined specification to %s: %w", outPath, err)
		}
		fmt.Printf("Refined specification %s written to %s\n", merged.ID, outPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refineCmd)
	refineCmd.Flags().StringVarP(&refineOutputFile, "output", "o", "", "write the refined artifact here instead of overwriting the input")
}
