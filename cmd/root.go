package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jasonhulbert/specgen/engine"
	"github.com/jasonhulbert/specgen/llm"
	"github.com/jasonhulbert/specgen/resolver"
	"github.com/jasonhulbert/specgen/store"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// version is the application version.
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "specgen",
	Short: "specgen turns short feature descriptions into structured specifications.",
	Long: `specgen is a CLI that drafts structured feature specifications from a
short natural-language description, using a configurable completion
backend. It manages provider configurations, versioned project contexts,
and an ambiguity gate that asks clarifying questions before drafting.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.specgen/.specgen.yaml or $HOME/.specgen.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// GetProvidersFilePath returns the full path to the provider configurations file.
func GetProvidersFilePath() string {
	config := GetConfig()
	return filepath.Join(config.Project.RootDir, config.Project.ProvidersFile)
}

// GetContextsFilePath returns the full path to the project contexts file.
func GetContextsFilePath() string {
	config := GetConfig()
	return filepath.Join(config.Project.RootDir, config.Project.ContextsFile)
}

// GetConfigStore initializes and returns the provider configuration store.
func GetConfigStore() (store.ConfigStore, error) {
	config := GetConfig()
	path := GetProvidersFilePath()
	s, err := store.NewFileConfigStore(path, config.Project.DataFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize configuration store at %s: %w", path, err)
	}
	return s, nil
}

// GetContextStore initializes and returns the project context store.
func GetContextStore() (store.ContextStore, error) {
	config := GetConfig()
	path := GetContextsFilePath()
	s, err := store.NewFileContextStore(path, config.Project.DataFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize context store at %s: %w", path, err)
	}
	return s, nil
}

// GetManager initializes the provider configuration manager.
func GetManager() (*llm.Manager, error) {
	cs, err := GetConfigStore()
	if err != nil {
		return nil, err
	}
	return llm.NewManager(cs, GetConfig().Generation.Debug), nil
}

// GetResolver initializes the context resolver.
func GetResolver() (*resolver.Resolver, error) {
	cs, err := GetContextStore()
	if err != nil {
		return nil, err
	}
	return resolver.New(cs), nil
}

// GetEngine wires the generation engine from the current configuration.
func GetEngine() (*engine.Engine, error) {
	manager, err := GetManager()
	if err != nil {
		return nil, err
	}
	config := GetConfig()
	templatesDir := filepath.Join(config.Project.RootDir, config.Project.TemplatesDir)
	return engine.New(manager, templatesDir, config.Generation), nil
}
