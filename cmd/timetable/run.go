package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/service"
	"github.com/noah-isme/sma-timetable/internal/timetable"
	"github.com/noah-isme/sma-timetable/pkg/export"
)

type runOptions struct {
	subjects  string
	locks     string
	buildings string
	format    string
	group     string
	order     []string
	out       string
	fontPath  string
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Schedule every group of a subject sheet and write the tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchedule(cmd, opts, root.logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.subjects, "subjects", "s", "", "subject sheet exported as CSV")
	flags.StringVar(&opts.locks, "locks", "", "YAML file of lock specs")
	flags.StringVar(&opts.buildings, "buildings", "", "number,letter CSV of building order")
	flags.StringVarP(&opts.format, "format", "f", "csv", "output format (csv, pdf or xlsx)")
	flags.StringVarP(&opts.group, "group", "g", "", "only write this group")
	flags.StringSliceVar(&opts.order, "order", nil, "schedule groups in this order instead of room order")
	flags.StringVarP(&opts.out, "out", "o", "", "output file (default stdout)")
	flags.StringVar(&opts.fontPath, "font", "", "TTF font for PDF output")
	_ = cmd.MarkFlagRequired("subjects")
	return cmd
}

func runSchedule(cmd *cobra.Command, opts *runOptions, l *zap.Logger) error {
	format := strings.ToLower(opts.format)
	if format != service.FormatCSV && format != service.FormatPDF && format != service.FormatXLSX {
		return fmt.Errorf("unsupported format %q", opts.format)
	}

	subjects, err := loadSubjects(opts.subjects, l)
	if err != nil {
		return err
	}
	locks, err := loadLocks(opts.locks)
	if err != nil {
		return err
	}
	buildings, err := loadBuildings(opts.buildings)
	if err != nil {
		return err
	}

	order, err := timetable.Order(subjects, opts.order)
	if err != nil {
		return err
	}
	result, err := timetable.ScheduleAllContext(cmd.Context(), order, subjects, locks, buildings)
	if err != nil {
		return fmt.Errorf("run interrupted: %w", err)
	}

	for _, gs := range result.Groups {
		l.Info("group scheduled",
			zap.String("group", gs.Group),
			zap.Float64("total_credit", gs.TotalCredit),
			zap.Int("placed", len(gs.Table.Placements())),
			zap.Int("unplaced", len(gs.Unplaced)),
		)
		for _, task := range gs.Unplaced {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s (%s) not placed\n", gs.Group, task.Code, task.Teacher)
		}
	}

	grids, err := service.GridsFor(result, opts.group)
	if err != nil {
		return err
	}
	file, err := service.RenderGrids(grids, format, service.Renderers{PDF: export.NewPDFExporter(opts.fontPath)})
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), opts.out, file.Payload)
}

func writeOutput(stdout io.Writer, path string, payload []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(payload)
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}
