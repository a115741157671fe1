package commands

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"sunscrape/internal/enrich"
	"sunscrape/internal/transactions"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// columns orders the record fields alphabetically with the enrichment fields
// last, in their own order.
func columns(records []transactions.Record) []string {
	entityFields := map[string]bool{}
	for _, f := range enrich.EntityFields {
		entityFields[f] = true
	}

	seen := map[string]bool{}
	var base []string
	hasEntity := false
	for _, record := range records {
		for k := range record {
			if entityFields[k] {
				hasEntity = true
				continue
			}
			if !seen[k] {
				seen[k] = true
				base = append(base, k)
			}
		}
	}
	sort.Strings(base)
	if hasEntity {
		base = append(base, enrich.EntityFields...)
	}
	return base
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return fmt.Sprint(v)
}

func writeTSV(w io.Writer, records []transactions.Record) error {
	cols := columns(records)
	out := csv.NewWriter(w)
	out.Comma = '\t'

	err := out.Write(cols)
	if err != nil {
		return err
	}
	row := make([]string, len(cols))
	for _, record := range records {
		for i, c := range cols {
			row[i] = formatValue(record[c])
		}
		err = out.Write(row)
		if err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}

// writeRecords writes to `path`, or stdout when it is empty.
func writeRecords(path string, records []transactions.Record) error {
	if path == "" {
		return writeTSV(os.Stdout, records)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = writeTSV(f, records)
	closeErr := f.Close()
	if err != nil {
		return err
	}
	return closeErr
}
