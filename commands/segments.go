package commands

import (
	"github.com/spf13/cobra"

	"github.com/penwyp/go-sched-timeline/internal/core/timeline"
	"github.com/penwyp/go-sched-timeline/internal/presentation/formatter"
	"github.com/penwyp/go-sched-timeline/internal/presentation/interaction"
)

var (
	segmentsOutput string
	segmentsSort   string
	segmentsDesc   bool
)

var segmentsCmd = &cobra.Command{
	Use:   "segments",
	Short: "List the merged execution segments of a timeline",
	Long: `Normalizes a scheduler payload, merges consecutive entries of the same process
and queue level, and prints the resulting segments.`,
	RunE: runSegments,
}

func init() {
	rootCmd.AddCommand(segmentsCmd)

	segmentsCmd.Flags().StringVarP(&segmentsOutput, "output", "o", formatter.FormatTable,
		"Output format (table, json, csv, summary)")
	segmentsCmd.Flags().StringVar(&segmentsSort, "sort", "start",
		"Sort field (start, duration, process)")
	segmentsCmd.Flags().BoolVar(&segmentsDesc, "desc", false,
		"Sort in descending order")
}

func runSegments(cmd *cobra.Command, args []string) error {
	f, err := formatter.NewFormatter(segmentsOutput)
	if err != nil {
		return err
	}
	field, err := interaction.ParseSortField(segmentsSort)
	if err != nil {
		return err
	}

	trace, err := loadTrace(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	sorter := interaction.NewSegmentSorter()
	sorter.SetField(field)
	if segmentsDesc {
		sorter.SetOrder(interaction.SortDescending)
	}
	segments := sorter.Sort(timeline.BuildSegments(trace.Entries))

	return f.FormatSegments(cmd.OutOrStdout(), formatter.NewReport(trace, segments))
}
