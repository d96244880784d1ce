package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"csvinsights/internal/model"
	"csvinsights/internal/profile"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats of the profile command
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

type profileOutput struct {
	FileName    string                 `json:"fileName"`
	RowCount    int                    `json:"rowCount"`
	ColumnCount int                    `json:"columnCount"`
	Profile     profile.DatasetProfile `json:"profile"`
	InsightsMd  string                 `json:"insightsMd"`
}

func newProfileCmd(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "profile FILE",
		Short: "Print the profile and narrative of a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := loadReport(args[0], opts)
			if err != nil {
				return err
			}
			return writeProfile(cmd.OutOrStdout(), report, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", FormatTable, "output format: table, json or yaml")
	return cmd
}

func writeProfile(w io.Writer, report *model.Report, format string) error {
	out := profileOutput{
		FileName:    report.FileName,
		RowCount:    report.RowCount,
		ColumnCount: report.ColumnCount,
		Profile:     report.Profile,
		InsightsMd:  report.InsightsMd,
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case FormatYAML:
		// go through JSON so the keys keep their camelCase names
		data, err := json.Marshal(out)
		if err != nil {
			return err
		}
		var doc map[string]interface{}
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatTable:
		fmt.Fprintf(w, "%s: %s rows, %d columns (profiled %s rows)\n\n",
			report.FileName,
			humanize.Comma(int64(report.RowCount)),
			report.ColumnCount,
			humanize.Comma(int64(report.Profile.RowCount)))
		fmt.Fprintln(w, columnTable(report.Profile))
		fmt.Fprintln(w)
		fmt.Fprint(w, report.InsightsMd)
		return nil
	}
	return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
}

func columnTable(p profile.DatasetProfile) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Column", "Type", "Missing", "Distinct", "Min", "Median", "Max", "Outliers", "Top value"})
	for _, c := range p.Columns {
		minV, median, maxV, outliers := "", "", "", ""
		if c.Stats != nil {
			minV = formatNumber(c.Stats.Min)
			maxV = formatNumber(c.Stats.Max)
			if c.Stats.Median != nil {
				median = formatNumber(*c.Stats.Median)
			}
			if c.Stats.OutlierCount != nil {
				outliers = strconv.Itoa(*c.Stats.OutlierCount)
			}
		}
		top := ""
		if len(c.TopValues) > 0 {
			top = fmt.Sprintf("%s (%d)", c.TopValues[0].Value, c.TopValues[0].Count)
		}
		t.AppendRow(table.Row{
			c.Name,
			string(c.Type),
			fmt.Sprintf("%d (%.1f%%)", c.Missing, c.MissingRate*100),
			c.DistinctApprox,
			minV, median, maxV, outliers,
			top,
		})
	}
	t.SetStyle(table.StyleLight)
	return t.Render()
}

func formatNumber(f float64) string {
	return humanize.CommafWithDigits(f, 2)
}
