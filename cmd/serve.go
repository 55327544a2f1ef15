package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"cro-ux-auditor/config"
	"cro-ux-auditor/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := signalContext()
			defer cancel()

			srv := server.New(server.Deps{
				Settings: a.settings,
				Analyzer: a.analyzer,
				Plain:    a.plain,
				Rendered: a.rendered,
				Status:   a.status,
				Store:    a.store,
				Logger:   a.logger,
			})
			return srv.Run(ctx)
		},
	}
	cmd.Flags().String("port", "", "listen port (overrides PORT)")
	if err := viper.BindPFlag("server.port", cmd.Flags().Lookup("port")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind flag port: %v\n", err)
	}
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(envFile)
			if err != nil {
				return err
			}
			applyOverrides(settings, viper.GetViper())
			return showConfig(cmd.OutOrStdout(), settings)
		},
	})
	return cmd
}

func showConfig(w io.Writer, settings *config.Settings) error {
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(w, "# Warning: configuration validation failed: %v\n", err)
	}

	redacted := settings.Redacted()
	data, err := yaml.Marshal(&redacted)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration to YAML: %w", err)
	}

	fmt.Fprintf(w, "# Current cro-ux-auditor configuration\n")
	fmt.Fprintf(w, "# Generated at: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "# Environment variables prefix for overrides: %s_\n\n", envPrefix)
	_, err = w.Write(data)
	return err
}
