package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jasonhulbert/specgen/scoring"
	"github.com/jasonhulbert/specgen/types"
)

const (
	configName = ".specgen"
	envPrefix  = "SPECGEN"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single instance; it caches struct info.
var validate = validator.New()

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// Load .env first if present; a missing .env is fine.
	_ = godotenv.Load()

	// Environment variable handling must be set up before reading the
	// config file so env vars can influence loading, e.g. SPECGEN_VERBOSE.
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfgFileFlag := viper.GetString("config")

	projectConfigDir := viper.GetString("project.rootDir")
	if projectConfigDir == "" {
		projectConfigDir = ".specgen"
	}

	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else if _, err := os.Stat(projectConfigDir); !os.IsNotExist(err) {
		// Project-local config directory exists; prioritize it.
		viper.AddConfigPath(projectConfigDir)
		viper.SetConfigName(configName)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(configName)
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFileFlag != "" {
				fmt.Fprintln(os.Stderr, "Error: Specified config file not found:", cfgFileFlag)
			} else if viper.GetBool("verbose") {
				fmt.Fprintln(os.Stderr, "No config file found. Using defaults and environment variables.")
			}
		} else {
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
	}

	viper.SetDefault("project.rootDir", ".specgen")
	viper.SetDefault("project.providersFile", "providers.json")
	viper.SetDefault("project.contextsFile", "contexts.json")
	viper.SetDefault("project.templatesDir", "templates")
	viper.SetDefault("project.outputDir", "specs")
	viper.SetDefault("project.dataFormat", "json")

	viper.SetDefault("generation.mode", "standard")
	viper.SetDefault("generation.temperature", types.DefaultTemperature)
	viper.SetDefault("generation.maxOutputTokens", types.DefaultMaxTokens)
	viper.SetDefault("generation.requestTimeoutSeconds", 60)
	viper.SetDefault("generation.gateThreshold", scoring.GateThreshold)
	viper.SetDefault("generation.debug", false)

	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshaling config: %s\n", err)
		os.Exit(1)
	}

	if err := validate.Struct(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation error: %s\n", err)
		os.Exit(1)
	}

	// The adapters emit request/latency lines at debug level; without a
	// debug-level handler the default logger drops them.
	if GlobalAppConfig.Generation.Debug {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
}

// GetConfig returns a pointer to the global types.AppConfig instance.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}
