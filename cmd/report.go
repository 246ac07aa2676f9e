package cmd

import (
	"fmt"
	"io"

	"github.com/jsphweid/harmonycheck/report"
	"github.com/jsphweid/harmonycheck/store"
	"github.com/spf13/cobra"
)

var reportFormat string

func init() {
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "text", "output format: text or json")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report [id]",
	Short: "Reads stored reports",
	Long: `Without an id, prints how many reports the store holds. With an id,
prints that report.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg)
		if err != nil {
			return err
		}
		if st == nil {
			return fmt.Errorf("no report store configured")
		}
		defer st.Close()

		if len(args) == 0 {
			return reportCount(cmd.OutOrStdout(), st)
		}
		return reportShow(cmd.OutOrStdout(), st, args[0], reportFormat)
	},
}

func reportCount(w io.Writer, st store.Store) error {
	n, err := st.Count()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "stored reports: %d\n", n)
	return nil
}

func reportShow(w io.Writer, st store.Store, id, format string) error {
	r, ok, err := st.Get(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no report with id %s", id)
	}
	if format == "json" {
		return report.WriteJSON(w, r)
	}
	return report.WriteText(w, r.Source, r.Report)
}
