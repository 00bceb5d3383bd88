package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"glob-sweep/internal/config"
	"glob-sweep/internal/database"
	"glob-sweep/internal/exitcodes"
)

func newHistoryCommand() *cobra.Command {
	var (
		flagLimit  int
		flagAction string
		flagSince  string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Query the deletion history database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(exitcodes.InvalidConfig)
			}
			if cfg.DatabasePath == "" {
				return fmt.Errorf("no database_path configured, history is disabled")
			}

			filter := database.Filter{Limit: flagLimit, Action: flagAction}
			if flagSince != "" {
				d, err := time.ParseDuration(flagSince)
				if err != nil {
					return fmt.Errorf("invalid --since duration: %w", err)
				}
				filter.Since = time.Now().Add(-d)
			}

			history, err := database.Open(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer history.Close()

			records, err := history.Query(filter)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIMESTAMP\tACTION\tTYPE\tPATH\tERROR")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					r.Timestamp.Local().Format(time.RFC3339),
					r.Action, r.ObjectType, r.Path, r.Error)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&flagLimit, "limit", "n", 50, "maximum number of records")
	cmd.Flags().StringVar(&flagAction, "action", "", "filter by action (DELETE, DRY_RUN, MISSING, ERROR)")
	cmd.Flags().StringVar(&flagSince, "since", "", "only records newer than this duration (e.g. 24h)")
	return cmd
}
