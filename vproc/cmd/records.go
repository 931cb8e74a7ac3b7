package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/vproc/datarecording"
	"github.com/sarchlab/vproc/tracing"
)

type recordsOptions struct {
	process string
	kind    string
	limit   int
}

var recordsOpts recordsOptions

var recordsCmd = &cobra.Command{
	Use:   "records [database]",
	Short: "Print recorded lifecycle events.",
	Long: "`records run` prints the lifecycle events stored in run.sqlite3 " +
		"by `run --record run`.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printRecords(cmd.Context(), cmd.OutOrStdout(), args[0], recordsOpts)
	},
}

func init() {
	rootCmd.AddCommand(recordsCmd)

	recordsCmd.Flags().StringVar(&recordsOpts.process, "process", "",
		"Only show events of this process")
	recordsCmd.Flags().StringVar(&recordsOpts.kind, "kind", "",
		"Only show events of this kind (start, continue, stop, complete)")
	recordsCmd.Flags().IntVar(&recordsOpts.limit, "limit", 0,
		"Maximum number of events to show")
}

func printRecords(
	ctx context.Context,
	out io.Writer,
	path string,
	opts recordsOptions,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	reader, err := datarecording.NewReader(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	reader.MapTable(tracing.LifecycleTable, tracing.LifecycleEntry{})

	params := datarecording.QueryParams{
		OrderBy: "Time, ID",
		Limit:   opts.limit,
	}

	var where []string
	if opts.process != "" {
		where = append(where, "Process = ?")
		params.Args = append(params.Args, opts.process)
	}
	if opts.kind != "" {
		where = append(where, "Kind = ?")
		params.Args = append(params.Args, opts.kind)
	}
	params.Where = strings.Join(where, " AND ")

	rows, total, err := reader.Query(ctx, tracing.LifecycleTable, params)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tPROCESS\tKIND\tSTATE\tELAPSED\tRETURN")

	for _, row := range rows {
		e := row.(*tracing.LifecycleEntry)
		fmt.Fprintf(w, "%.9f\t%s\t%s\t%s\t%.6f\t%d\n",
			e.Time, e.Process, e.Kind, e.State, e.ElapsedSec, e.ReturnCode)
	}

	_ = w.Flush()

	fmt.Fprintf(out, "%d of %d events\n", len(rows), total)

	return nil
}
