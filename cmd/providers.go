package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/jasonhulbert/specgen/llm"
	"github.com/jasonhulbert/specgen/types"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Manage completion backend configurations",
}

var providersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored provider configurations",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := GetManager()
		if err != nil {
			return err
		}
		recs, err := manager.List()
		if err != nil {
			return fmt.Errorf("failed to list configurations: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tKIND\tMODEL\tENDPOINT\tACTIVE")
		for _, rec := range recs {
			active := ""
			if rec.Active {
				active = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", rec.ID, rec.Kind, rec.Model, rec.Endpoint, active)
		}
		return w.Flush()
	},
}

var (
	addKind     string
	addEndpoint string
	addModel    string
	addAPIKey   string
	addOrg      string
	addActivate bool
)

var providersAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add a provider configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := GetManager()
		if err != nil {
			return err
		}
		cfg := types.ProviderConfig{
			ID:           args[0],
			Kind:         types.ProviderKind(addKind),
			Endpoint:     addEndpoint,
			Model:        addModel,
			APIKey:       addAPIKey,
			Organization: addOrg,
		}
		if err := manager.AddConfiguration(cfg, addActivate); err != nil {
			return fmt.Errorf("failed to add configuration: %w", err)
		}
		fmt.Printf("Configuration %q added.\n", cfg.ID)
		return nil
	},
}

var providersUseCmd = &cobra.Command{
	Use:   "use [id]",
	Short: "Activate a provider configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := GetManager()
		if err != nil {
			return err
		}

		var id string
		if len(args) == 1 {
			id = args[0]
		} else {
			id, err = selectConfiguration(manager, "Activate configuration")
			if err != nil {
				return err
			}
		}

		if err := manager.SetActive(id); err != nil {
			return fmt.Errorf("failed to activate %q: %w", id, err)
		}
		fmt.Printf("Configuration %q is now active.\n", id)
		return nil
	},
}

var providersRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a provider configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := GetManager()
		if err != nil {
			return err
		}
		if err := manager.RemoveConfiguration(args[0]); err != nil {
			return fmt.Errorf("failed to remove %q: %w", args[0], err)
		}
		fmt.Printf("Configuration %q removed.\n", args[0])
		if id, err := manager.ActiveID(); err == nil {
			fmt.Printf("Active configuration is now %q.\n", id)
		}
		return nil
	},
}

var providersTestCmd = &cobra.Command{
	Use:   "test [id]",
	Short: "Send a minimal request to verify a backend is reachable",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := GetManager()
		if err != nil {
			return err
		}

		var provider llm.Provider
		if len(args) == 1 {
			provider, err = manager.Provider(args[0])
		} else {
			provider, err = manager.Active()
		}
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()
		if llm.TestConnection(ctx, provider) {
			fmt.Println("Connection OK.")
			return nil
		}
		return fmt.Errorf("backend did not respond with usable content")
	},
}

var providersValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every stored configuration for missing required fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := GetManager()
		if err != nil {
			return err
		}
		problems, err := manager.ValidateAll()
		if err != nil {
			return fmt.Errorf("failed to validate configurations: %w", err)
		}
		if len(problems) == 0 {
			fmt.Println("All configurations are complete.")
			return nil
		}

		ids := make([]string, 0, len(problems))
		for id := range problems {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Printf("%s: missing %v\n", id, problems[id])
		}
		return fmt.Errorf("%d configuration(s) incomplete", len(problems))
	},
}

// selectConfiguration presents an interactive list of stored configurations.
func selectConfiguration(manager *llm.Manager, label string) (string, error) {
	recs, err := manager.List()
	if err != nil {
		return "", fmt.Errorf("failed to list configurations: %w", err)
	}
	if len(recs) == 0 {
		return "", fmt.Errorf("no configurations stored")
	}

	items := make([]string, len(recs))
	for i, rec := range recs {
		marker := " "
		if rec.Active {
			marker = "*"
		}
		items[i] = fmt.Sprintf("%s %s (%s, %s)", marker, rec.ID, rec.Kind, rec.Model)
	}
	prompt := promptui.Select{Label: label, Items: items}
	idx, _, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return recs[idx].ID, nil
}

func init() {
	rootCmd.AddCommand(providersCmd)
	providersCmd.AddCommand(providersListCmd)
	providersCmd.AddCommand(providersAddCmd)
	providersCmd.AddCommand(providersUseCmd)
	providersCmd.AddCommand(providersRemoveCmd)
	providersCmd.AddCommand(providersTestCmd)
	providersCmd.AddCommand(providersValidateCmd)

	providersAddCmd.Flags().StringVar(&addKind, "kind", string(types.KindOpenAICompatible), "wire format: openai-compatible, anthropic-style, local-http, local-generate-endpoint")
	providersAddCmd.Flags().StringVar(&addEndpoint, "endpoint", "", "backend base URL (required for local kinds)")
	providersAddCmd.Flags().StringVar(&addModel, "model", "", "model name")
	providersAddCmd.Flags().StringVar(&addAPIKey, "api-key", "", "API key (required for cloud kinds)")
	providersAddCmd.Flags().StringVar(&addOrg, "organization", "", "organization header for openai-compatible backends")
	providersAddCmd.Flags().BoolVar(&addActivate, "activate", false, "make this the active configuration")
}
