package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sarchlab/wavesim/datarecording"
	"github.com/sarchlab/wavesim/tracing"
	"github.com/spf13/cobra"
)

func newShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <db-file> [table]",
		Short: "Print a trace recorded with --db.",
		Long: "`show <db-file>` lists the recorded tables. " +
			"`show <db-file> <table>` prints the trace stored in the table.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err != nil {
				return errors.Wrap(err, "cannot open trace database")
			}

			reader := datarecording.NewReader(args[0])
			defer reader.Close()

			out := cmd.OutOrStdout()

			if len(args) == 1 {
				tables, err := reader.StoredTables(cmd.Context())
				if err != nil {
					return err
				}

				for _, t := range tables {
					fmt.Fprintln(out, t)
				}

				return nil
			}

			trace, err := tracing.LoadTrace(cmd.Context(), reader, args[1])
			if err != nil {
				return err
			}

			_, err = trace.WriteTo(out)

			return err
		},
	}

	return cmd
}
