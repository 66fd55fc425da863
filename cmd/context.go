package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jasonhulbert/specgen/models"
)

var contextProject string

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage versioned project contexts",
}

var contextShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective context for a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := GetResolver()
		if err != nil {
			return err
		}
		rc, err := res.Resolve(contextProject, nil)
		if err != nil {
			return fmt.Errorf("failed to resolve context: %w", err)
		}
		raw, err := json.MarshalIndent(rc, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(raw))
		return nil
	},
}

var contextSaveCmd = &cobra.Command{
	Use:   "save <context-file>",
	Short: "Save a new context version for a project and activate it",
	Long: `Save reads a context document (JSON) and stores it as the project's
next context version. Versions are append-only; the new version becomes
active and earlier ones are kept for history.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read context file %s: %w", args[0], err)
		}
		var ctx models.ResolvedContext
		if err := json.Unmarshal(raw, &ctx); err != nil {
			return fmt.Errorf("%s is not a context document: %w", args[0], err)
		}

		res, err := GetResolver()
		if err != nil {
			return err
		}
		version, err := res.SaveVersion(contextProject, ctx)
		if err != nil {
			return fmt.Errorf("failed to save context version: %w", err)
		}
		fmt.Printf("Context version %d saved for project %q (id %s).\n", version.Version, contextProject, version.ID)
		return nil
	},
}

var contextHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show a project's context versions and what each changed",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := GetResolver()
		if err != nil {
			return err
		}
		entries, err := res.History(contextProject)
		if err != nil {
			return fmt.Errorf("failed to load context history: %w", err)
		}
		if len(entries) == 0 {
			fmt.Printf("Project %q has no stored context.\n", contextProject)
			return nil
		}

		for _, e := range entries {
			marker := " "
			if e.Version.IsActive {
				marker = "*"
			}
			fmt.Printf("%s v%d  %s  %s\n", marker, e.Version.Version, e.Version.CreatedAt.Format("2006-01-02 15:04"), e.Version.ID)
			for _, d := range e.Changes {
				fmt.Printf("    %s: %s -> %s\n", d.Field, compactJSON(d.Before), compactJSON(d.After))
			}
		}
		return nil
	},
}

func compactJSON(raw json.RawMessage) string {
	const limit = 60
	s := string(raw)
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

func init() {
	rootCmd.AddCommand(contextCmd)
	contextCmd.AddCommand(contextShowCmd)
	contextCmd.AddCommand(contextSaveCmd)
	contextCmd.AddCommand(contextHistoryCmd)

	contextCmd.PersistentFlags().StringVarP(&contextProject, "project", "p", "default", "project the context belongs to")
}
