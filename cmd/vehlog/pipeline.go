package main

import (
	"fmt"
	"io"
	"os"
	"vehlog/internal/activity"
	"vehlog/internal/models"

	"github.com/spf13/cobra"
)

type parseOutput struct {
	Count     int              `json:"count"`
	FileStats models.FileStats `json:"file_stats"`
	Records   []models.Record  `json:"records"`
}

// pipelineCmd builds a command that loads the given files and hands the
// records to run. Every pipeline command accepts --clean.
func pipelineCmd(use, short string, run func(cmd *cobra.Command, records []models.Record) error) *cobra.Command {
	var clean bool
	cmd := &cobra.Command{
		Use:   use + " [file...]",
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := loadRecords(cmd.Context(), cmd.InOrStdin(), args, clean)
			if err != nil {
				return codeError(3, "%s", err)
			}
			return run(cmd, records)
		},
	}
	cmd.Flags().BoolVar(&clean, "clean", false, "Normalize records before processing")
	return cmd
}

func newParseCmd() *cobra.Command {
	return pipelineCmd("parse", "Parse logs and print the records as JSON", func(cmd *cobra.Command, records []models.Record) error {
		return writeJSON(cmd.OutOrStdout(), parseOutput{
			Count:     len(records),
			FileStats: activity.FileStats(records),
			Records:   records,
		})
	})
}

func newCategorizeCmd() *cobra.Command {
	return pipelineCmd("categorize", "Split records into IB, OB, ATSEU and OTHER", func(cmd *cobra.Command, records []models.Record) error {
		return writeJSON(cmd.OutOrStdout(), activity.Categorize(records))
	})
}

func newGroupCmd() *cobra.Command {
	return pipelineCmd("group", "Print the user activity and VRID/SCAC views", func(cmd *cobra.Command, records []models.Record) error {
		return writeJSON(cmd.OutOrStdout(), activity.BuildGroupedViews(records).Rows())
	})
}

func newStatsCmd() *cobra.Command {
	return pipelineCmd("stats", "Print summary statistics", func(cmd *cobra.Command, records []models.Record) error {
		return writeJSON(cmd.OutOrStdout(), activity.ComputeStats(records))
	})
}

func newValidateCmd() *cobra.Command {
	var strict bool
	cmd := pipelineCmd("validate", "Report format problems", func(cmd *cobra.Command, records []models.Record) error {
		result := activity.Validate(records)
		if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
		if strict && len(result.Errors) > 0 {
			return codeError(2, "%d validation errors", len(result.Errors))
		}
		return nil
	})
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit 2 when errors are found")
	return cmd
}

func newFilterCmd() *cobra.Command {
	var (
		criteria models.Criteria
		sep      string
	)
	cmd := pipelineCmd("filter", "Print the records matching the criteria", func(cmd *cobra.Command, records []models.Record) error {
		if err := activity.ValidateCriteria(criteria); err != nil {
			return codeError(3, "%s", err)
		}
		sep, err := activity.ParseSeparator(sep)
		if err != nil {
			return codeError(3, "%s", err)
		}
		_, err = io.WriteString(cmd.OutOrStdout(), activity.Export(activity.Filter(records, criteria), sep))
		return err
	})
	f := cmd.Flags()
	f.StringVar(&criteria.DateFrom, "date-from", "", "Earliest timestamp, inclusive")
	f.StringVar(&criteria.DateTo, "date-to", "", "Latest timestamp, inclusive")
	f.StringVar(&criteria.User, "user", "", "User substring")
	f.StringVar(&criteria.Vehicle, "vehicle", "", "Tractor or trailer substring")
	f.StringVar(&criteria.SCAC, "scac", "", "SCAC substring")
	f.StringVar(&criteria.VRID, "vrid", "", "VRID substring")
	f.StringVar(&sep, "sep", activity.DefaultSeparator, "Output separator: comma, semicolon or tab")
	return cmd
}

func newPeriodsCmd() *cobra.Command {
	var period string
	cmd := pipelineCmd("periods", "Group records by hour, day, week or month", func(cmd *cobra.Command, records []models.Record) error {
		groups, err := activity.GroupByPeriod(records, period)
		if err != nil {
			return codeError(3, "%s", err)
		}
		return writeJSON(cmd.OutOrStdout(), groups)
	})
	cmd.Flags().StringVar(&period, "period", activity.PeriodDay, "hour, day, week or month")
	return cmd
}

func newExportCmd() *cobra.Command {
	var sep, format, out string
	cmd := pipelineCmd("export", "Write records as delimited text or an XLSX workbook", func(cmd *cobra.Command, records []models.Record) error {
		switch format {
		case "csv":
			sep, err := activity.ParseSeparator(sep)
			if err != nil {
				return codeError(3, "%s", err)
			}
			if out == "" {
				_, err := io.WriteString(cmd.OutOrStdout(), activity.Export(records, sep))
				return err
			}
			return os.WriteFile(out, []byte(activity.Export(records, sep)), 0644)
		case "xlsx":
			if out == "" {
				return codeError(3, "--out is required for xlsx")
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := activity.WriteXLSX(f, records, activity.Categorize(records)); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		default:
			return codeError(3, "unsupported format %q", format)
		}
	})
	f := cmd.Flags()
	f.StringVar(&sep, "sep", activity.DefaultSeparator, "Field separator for csv: comma, semicolon or tab")
	f.StringVar(&format, "format", "csv", "csv or xlsx")
	f.StringVarP(&out, "out", "o", "", "Output file, stdout when empty")
	return cmd
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
