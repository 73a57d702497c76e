package commands

import (
	"github.com/spf13/cobra"

	"github.com/penwyp/go-sched-timeline/internal/presentation/formatter"
)

var statsOutput string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print per-process scheduling statistics",
	Long: `Prints arrival, burst, completion, turnaround and waiting times for every
process in a scheduler payload, with run-wide averages. The CPU idle
sentinel is never listed.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVarP(&statsOutput, "output", "o", formatter.FormatTable,
		"Output format (table, json, csv, summary)")
}

func runStats(cmd *cobra.Command, args []string) error {
	f, err := formatter.NewFormatter(statsOutput)
	if err != nil {
		return err
	}

	trace, err := loadTrace(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	return f.FormatStats(cmd.OutOrStdout(), formatter.NewReport(trace, nil))
}
