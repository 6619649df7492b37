package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tagedge/internal/app"
	"tagedge/internal/config"
)

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:           "tagedge-viewer [image]",
		Short:         "Interactive viewer for the tagedge threshold engine",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			opts := app.Options{Config: cfg}
			if len(args) == 1 {
				opts.ImagePath = args[0]
			}

			application, err := app.NewApplication(opts)
			if err != nil {
				return fmt.Errorf("create application: %w", err)
			}
			return application.Run()
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML file applied over the defaults")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tagedge-viewer:", err)
		os.Exit(1)
	}
}
