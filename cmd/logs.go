package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"transease/core/storage"
	"transease/feature/logarchive"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// logsCmd represents the logs command
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Manage archived log files",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// logsArchiveCmd represents the logs archive command
var logsArchiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Upload the log file and its backups to object storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newArchiveService()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(commandContext(cmd), 5*time.Minute)
		defer cancel()

		archives, err := svc.Archive(ctx)
		if errors.Is(err, logarchive.ErrNoLogs) {
			fmt.Fprintln(cmd.OutOrStdout(), "No log files to archive. Enable save_log first.")
			return nil
		}
		for _, a := range archives {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d bytes\n", a.Key, a.Size)
		}
		return err
	},
}

// logsListCmd represents the logs list command
var logsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived log files of this host",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newArchiveService()
		if err != nil {
			return err
		}
		archives, err := svc.List(commandContext(cmd))
		if err != nil {
			return err
		}
		for _, a := range archives {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d bytes\t%s\n", a.Key, a.Size, a.LastModified.Format(time.RFC3339))
		}
		return nil
	},
}

func newArchiveService() (*logarchive.Service, error) {
	cfg, logg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Storage.Enabled {
		return nil, errors.New("log archiving is disabled, set STORAGE_ENABLED=true")
	}
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	logPath, err := logFilePath(cfg.Settings)
	if err != nil {
		return nil, err
	}
	return logarchive.NewService(client, cfg.Storage, logPath, afero.NewOsFs(), logg.Named("logarchive")), nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	logsCmd.AddCommand(logsArchiveCmd, logsListCmd)
	RootCmd.AddCommand(logsCmd)
}
