package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ntkit/ntsolve/internal/model"
	"github.com/ntkit/ntsolve/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent solves",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := initStore(cmd)
		if err != nil {
			return eris.Wrap(err, "open history store")
		}
		if st == nil {
			return eris.New("history requires store.path to be configured")
		}
		defer st.Close() //nolint:errcheck

		solves, err := st.List(cmd.Context(), historyLimit)
		if err != nil {
			return eris.Wrap(err, "list history")
		}

		if len(solves) == 0 {
			fmt.Fprintln(os.Stderr, "No solves recorded.")
			return nil
		}

		formatHistory(cmd.OutOrStdout(), solves)
		return nil
	},
}

// formatHistory renders one line per solve with a compact summary of what
// was asked and what was derived.
func formatHistory(w io.Writer, solves []store.Solve) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tSOURCE\tKNOWN\tDERIVED")
	for _, sv := range solves {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n",
			sv.ID[:8],
			sv.CreatedAt.Local().Format(time.DateTime),
			sv.Source,
			knownCount(sv.Input),
			knownCount(sv.Output)-knownCount(sv.Input),
		)
	}
	tw.Flush()
}

// knownCount counts the numeric quantities present in a scenario.
func knownCount(s model.Scenario) int {
	n := 0
	for _, f := range s.Fields() {
		if f.Kind == model.KindNumber && f.Num != nil {
			n++
		}
	}
	return n
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "max solves to list")
	rootCmd.AddCommand(historyCmd)
}
