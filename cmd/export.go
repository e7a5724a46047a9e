/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/biobalance/admin/internal/db"
	"github.com/biobalance/admin/internal/server"
	"github.com/biobalance/admin/internal/services"
	"github.com/biobalance/admin/internal/store"
	"github.com/biobalance/admin/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func datasetNames() string {
	names := make([]string, 0, len(types.ExportDatasets))
	for _, d := range types.ExportDatasets {
		names = append(names, string(d))
	}
	return strings.Join(names, ", ")
}

// exportCmd writes one dataset snapshot to object storage.
var exportCmd = &cobra.Command{
	Use:   "export <dataset>",
	Short: "Export a dataset to object storage",
	Long:  "Export a dataset to object storage. Datasets: " + datasetNames() + ".",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		dataset := types.ExportDataset(strings.ToLower(args[0]))
		if !dataset.Valid() {
			return fmt.Errorf("unknown dataset %q (want one of %s)", args[0], datasetNames())
		}

		ctx := cmd.Context()
		dbConn, err := db.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		objects := server.OpenStorage(ctx, cfg.Storage, logger)
		exports := services.NewExportService(
			objects,
			store.NewUserRepository(dbConn),
			store.NewMealRepository(dbConn),
			store.NewRecipeRepository(dbConn),
			store.NewStatRepository(dbConn),
			store.NewChatRepository(dbConn),
		)
		result, err := exports.Export(ctx, dataset)
		if err != nil {
			return err
		}

		audit := services.NewAuditService(server.OpenBroker(ctx, cfg.MQ, logger), cfg.MQ.AuditChannel, logger)
		defer func() { _ = audit.Close() }()
		audit.Record(ctx, types.AuditExportWritten, "cli", map[string]string{
			"dataset": string(result.Dataset),
			"key":     result.Key,
		})

		logger.Info("export written",
			zap.String("bucket", result.Bucket),
			zap.String("key", result.Key),
			zap.Int("rows", result.Rows),
			zap.Int("bytes", result.Bytes))
		fmt.Fprintf(cmd.OutOrStdout(), "%s/%s (%d rows)\n", result.Bucket, result.Key, result.Rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
