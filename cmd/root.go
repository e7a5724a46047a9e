/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/biobalance/admin/config"
	"github.com/biobalance/admin/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "biobalance",
	Short: "Admin backend for the biobalance nutrition app",
	Long: `Admin backend for the biobalance nutrition app: a session-guarded
JSON API over users, meals, recipes, chats and daily stats, plus
engagement insights and dataset exports.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// bootstrap loads the configuration and builds the process logger.
func bootstrap() (config.Config, *zap.Logger, error) {
	cfg := config.LoadConfig()
	logger, err := logging.New(cfg.Env)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}
