package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"transease/core/database"
	"transease/feature/history"

	"github.com/spf13/cobra"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent server sessions",
	Long:  `Lists the server instances recorded in the history database, newest first. Outputs a table by default or JSON with --json flag.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, logg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.Database.Enabled {
			return errors.New("session history is disabled, set DATABASE_ENABLED=true")
		}
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		svc := history.NewService(db, logg.Named("history"))
		if err := svc.Migrate(); err != nil {
			return err
		}
		sessions, err := svc.List(commandContext(cmd), limit)
		if err != nil {
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(sessions)
		}
		return printSessions(cmd.OutOrStdout(), sessions)
	},
}

func printSessions(w io.Writer, sessions []history.Session) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tSTOPPED\tADDRESS\tROOT\tENCODING\tPEAK\tERROR")
	for _, s := range sessions {
		stopped := "running"
		if s.StoppedAt != nil {
			stopped = s.StoppedAt.Local().Format(time.DateTime)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d/%d\t%s\n",
			s.StartedAt.Local().Format(time.DateTime), stopped, s.Address, s.Root, s.Encoding,
			s.PeakConnections, s.MaxConnections, s.Error)
	}
	return tw.Flush()
}

func init() {
	historyCmd.Flags().Bool("json", false, "output sessions as JSON")
	historyCmd.Flags().Int("limit", history.DefaultLimit, "maximum number of sessions")
	RootCmd.AddCommand(historyCmd)
}
