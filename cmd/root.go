// Package cmd provides the command-line interface for the auditor.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "CRO"

var (
	cfgFile   string
	envFile   string
	version   string
	buildTime string
)

var rootCmd = &cobra.Command{
	Use:   "cro-ux-auditor",
	Short: "Audit web pages for conversion and usability issues",
	Long: `cro-ux-auditor fetches web pages, extracts their conversion-relevant
features, asks a language model to answer a fixed CRO and UX checklist
and renders the answers as PDF reports.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets version information for the CLI
func SetVersionInfo(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./cro-auditor.yml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text or json)")
	rootCmd.PersistentFlags().String("provider", "", "language model provider (openai, anthropic, ollama)")
	rootCmd.PersistentFlags().String("model", "", "language model name")
	rootCmd.PersistentFlags().String("backend", "", "plain fetch backend (http or colly)")

	bindFlags := []struct {
		viperKey string
		flagName string
	}{
		{"logging.level", "log-level"},
		{"logging.format", "log-format"},
		{"ai.provider", "provider"},
		{"ai.model", "model"},
		{"fetcher.backend", "backend"},
	}
	for _, bind := range bindFlags {
		if err := viper.BindPFlag(bind.viperKey, rootCmd.PersistentFlags().Lookup(bind.flagName)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind flag %s: %v\n", bind.flagName, err)
		}
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newPagesCmd(),
		newSiteCmd(),
		newCrawlCmd(),
		newStatusCmd(),
		newExtractCmd(),
		newServeCmd(),
		newConfigCmd(),
	)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("cro-auditor")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}
