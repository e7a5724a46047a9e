/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/biobalance/admin/internal/mq"
	"github.com/biobalance/admin/internal/services"
	"github.com/biobalance/admin/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// auditCmd groups audit-channel tooling.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect admin audit events",
}

var auditTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Log audit events as they are published",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		broker, err := mq.Open(ctx, cfg.MQ)
		if err != nil {
			return err
		}
		audit := services.NewAuditService(broker, cfg.MQ.AuditChannel, logger)
		defer func() { _ = audit.Close() }()

		logger.Info("tailing audit events", zap.String("channel", cfg.MQ.AuditChannel), zap.String("backend", cfg.MQ.Backend))
		err = audit.Tail(ctx, func(e types.AuditEvent) {
			logger.Info("audit event",
				zap.String("id", e.ID),
				zap.String("kind", string(e.Kind)),
				zap.String("actor", e.Actor),
				zap.Time("at", e.At),
				zap.Any("details", e.Details))
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditTailCmd)
}
