package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"domain-finder/finder/domain"

	"gopkg.in/yaml.v3"
)

func printDomains(w io.Writer, format string, results ...domain.DomainResult) error {
	switch format {
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "DOMAIN\tSTATUS")
		for _, r := range results {
			fmt.Fprintf(tw, "%s.%s\t%s\n", r.Name, r.Label, status(r.Registered))
		}
		return tw.Flush()
	default:
		if len(results) == 1 {
			return encode(w, format, results[0])
		}
		return encode(w, format, results)
	}
}

func printSimilar(w io.Writer, format string, res domain.SimilarResult) error {
	if format != "table" && format != "" {
		if res.Similar == nil {
			res.Similar = []domain.DomainResult{}
		}
		return encode(w, format, res)
	}
	if res.Primary == nil {
		fmt.Fprintf(w, "lookup failed for the queried domain: %s\n", res.PrimaryError)
		return printDomains(w, format, res.Similar...)
	}
	all := append([]domain.DomainResult{*res.Primary}, res.Similar...)
	return printDomains(w, format, all...)
}

func printHistory(w io.Writer, format string, entries []domain.HistoryEntry) error {
	if format != "table" && format != "" {
		if entries == nil {
			entries = []domain.HistoryEntry{}
		}
		return encode(w, format, entries)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "AT\tOPERATION\tDOMAIN")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.At.UTC().Format(time.RFC3339), e.Operation, e.Domain)
	}
	return tw.Flush()
}

func encode(w io.Writer, format string, v any) error {
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
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func status(registered bool) string {
	if registered {
		return "registered"
	}
	return "available"
}
