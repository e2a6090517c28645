package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/professional-hubs/conflicts/internal/model"
)

var (
	highStyle   = color.New(color.FgRed, color.Bold)
	mediumStyle = color.New(color.FgYellow)
	cleanStyle  = color.New(color.FgGreen, color.Bold)
	dimStyle    = color.New(color.Faint)
)

func checkFormat(format string) error {
	switch format {
	case "json", "yaml", "text", "":
		return nil
	}
	return fmt.Errorf("unknown output format %q (want json, yaml or text)", format)
}

// writeReport renders a conflict report as json, yaml or text.
func writeReport(w io.Writer, report model.ConflictReport, format string) error {
	switch format {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		return writeReportText(w, report)
	default:
		return checkFormat(format)
	}
}

func writeReportText(w io.Writer, report model.ConflictReport) error {
	if _, err := fmt.Fprintf(w, "Search: %s\n", report.SearchTerm); err != nil {
		return err
	}
	if report.TotalMatches == 0 {
		_, err := cleanStyle.Fprintln(w, report.Message)
		return err
	}
	if _, err := fmt.Fprintln(w, report.Message); err != nil {
		return err
	}
	for _, m := range report.Matches {
		style := mediumStyle
		if m.Confidence == model.ConfidenceHigh {
			style = highStyle
		}
		if _, err := style.Fprintf(w, "  %-6s %5.1f", m.Confidence, m.Score); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  %s  matter %d %q [%s]\n", m.ClientName, m.MatterID, m.MatterName, m.MatterStatus); err != nil {
			return err
		}
		if _, err := dimStyle.Fprintf(w, "         %s\n", m.MatchedField); err != nil {
			return err
		}
	}
	return nil
}
