package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

var errUnknownOutput = errors.New("unknown output format")

func validOutput(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "table", "json", "yaml":
		return true
	}
	return false
}

// render writes v as JSON or YAML, or calls table for the table format.
func render(w io.Writer, format string, v any, table func(tw *tabwriter.Writer) error) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "", "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		if err := table(tw); err != nil {
			return err
		}
		return tw.Flush()
	}
	return fmt.Errorf("%w: %q", errUnknownOutput, format)
}

// rows writes tab separated rows.
func rows(tw *tabwriter.Writer, rs ...[]string) error {
	for _, r := range rs {
		if _, err := fmt.Fprintln(tw, strings.Join(r, "\t")); err != nil {
			return err
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func num(v float64) string {
	return fmt.Sprintf("%.4g", v)
}
