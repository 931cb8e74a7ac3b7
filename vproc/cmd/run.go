package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarchlab/vproc/config"
	"github.com/sarchlab/vproc/cpu"
	"github.com/sarchlab/vproc/sim"
	"github.com/sarchlab/vproc/simulation"
)

type runOptions struct {
	configPath string
	record     string
	noMonitor  bool
	measureCPU bool
}

var runOpts runOptions

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation described by a config file.",
	Long: "`run --config sim.yaml` builds the hosts and processes in the " +
		"config file and runs them until the stop time.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSimulation(cmd.OutOrStdout(), runOpts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runOpts.configPath, "config", "c", "vproc.yaml",
		"Path to the simulation config file")
	runCmd.Flags().StringVar(&runOpts.record, "record", "",
		"Record lifecycle events into this sqlite database "+
			"(without the .sqlite3 suffix)")
	runCmd.Flags().BoolVar(&runOpts.noMonitor, "no-monitor", false,
		"Do not start the monitoring server")
	runCmd.Flags().BoolVar(&runOpts.measureCPU, "measure-cpu", false,
		"Use the frequency of the machine running the simulation as the raw "+
			"CPU frequency")
}

func runSimulation(out io.Writer, opts runOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	if logLevel == "" {
		if err := setLogLevel(cfg.General.LogLevel); err != nil {
			return err
		}
	}

	if cfg.General.ParallelIDs {
		sim.UseParallelIDGenerator()
	}

	if opts.measureCPU {
		cfg.CPU.RawFrequencyKHz = cpu.RawFrequencyKHz()
		logrus.Infof("raw cpu frequency %d KHz", cfg.CPU.RawFrequencyKHz)
	}

	b := simulation.MakeBuilder().WithConfig(cfg)
	if opts.record != "" {
		b = b.WithOutputFileName(opts.record)
	}
	if opts.noMonitor {
		b = b.WithoutMonitoring()
	}

	s, err := b.Build()
	if err != nil {
		return fmt.Errorf("building simulation: %w", err)
	}

	runErr := s.Run()
	termErr := s.Terminate()

	printSummary(out, s)

	switch {
	case runErr != nil:
		return runErr
	case termErr != nil:
		return termErr
	case len(s.Leaks()) > 0:
		return fmt.Errorf("simulation leaked objects: %v", s.Leaks())
	}

	return nil
}

func printSummary(out io.Writer, s *simulation.Simulation) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROCESS\tHOST\tBURSTS\tELAPSED\tCOMPLETED\tRETURN")
	fmt.Fprintln(w, "-------\t----\t------\t-------\t---------\t------")

	for _, p := range s.GetExecutionTimeTracer().Summaries() {
		rc := "-"
		if p.Completed {
			rc = fmt.Sprint(p.ReturnCode)
		}

		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%t\t%s\n",
			p.Process, p.Host, p.Bursts, p.Elapsed, p.Completed, rc)
	}

	_ = w.Flush()

	fmt.Fprintf(out, "plugin errors: %d\n", s.PluginErrors())
}
