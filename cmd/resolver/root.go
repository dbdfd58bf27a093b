package main

import (
	"os"

	"github.com/nguyenvanvutlv/resolver/internal/config"
	"github.com/nguyenvanvutlv/resolver/internal/logger"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "resolver",
		Short:         "Stremio addon that finds streams in your debrid account",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(configFlag); err != nil {
				return err
			}
			logger.Setup(os.Stderr, config.Log.Level, config.Log.Format)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (TOML)")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newResolveCommand())

	return rootCmd
}
