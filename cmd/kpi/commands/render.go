package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/wonny/tradejournal/internal/api/handlers"
	"github.com/wonny/tradejournal/internal/kpi"
)

// Output formats
const (
	outputTable = "table"
	outputJSON  = "json"
	outputCSV   = "csv"
)

const (
	kpiColWidth   = 34
	valueColWidth = 16
	groupColMin   = 12
)

// formatValue renders a KPI value with its unit; nil renders as "n/a"
func formatValue(v *float64, unit kpi.Unit) string {
	if v == nil {
		return "n/a"
	}
	switch unit {
	case kpi.UnitCurrency:
		return fmt.Sprintf("%.2f", *v)
	case kpi.UnitPercent:
		return fmt.Sprintf("%.2f%%", *v)
	case kpi.UnitBps:
		return fmt.Sprintf("%.1f bps", *v)
	case kpi.UnitCount:
		return fmt.Sprintf("%.0f", *v)
	case kpi.UnitDays:
		return fmt.Sprintf("%.1f d", *v)
	case kpi.UnitMinutes:
		return fmt.Sprintf("%.1f min", *v)
	case kpi.UnitMillis:
		return fmt.Sprintf("%.1f ms", *v)
	default:
		return fmt.Sprintf("%.4f", *v)
	}
}

// rawValue is the CSV rendering: full precision, empty when not computed
func rawValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// =============================================================================
// Result sets
// =============================================================================

// renderResults prints one result set
func renderResults(w io.Writer, title string, fields []Field, resp handlers.ComputeResponse) error {
	switch output {
	case outputJSON:
		return writeJSON(w, resp)
	case outputCSV:
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"id", "name", "category", "unit", "value", "reason"})
		for _, r := range resp.Results {
			_ = cw.Write([]string{r.ID.String(), r.Name, string(r.Category), string(r.Unit), rawValue(r.Value), r.Reason})
		}
		cw.Flush()
		return cw.Error()
	}

	PrintReportHeader(w, title, fields)

	widths := []int{kpiColWidth, valueColWidth, 0}
	var current kpi.Category
	for _, r := range resp.Results {
		if r.Category != current {
			current = r.Category
			PrintSection(w, string(current))
			PrintTableHeader(w, []string{"KPI", "VALUE", "NOTE"}, []int{kpiColWidth, valueColWidth, 20})
		}
		PrintTableRow(w, []string{r.ID.String(), formatValue(r.Value, r.Unit), r.Reason}, widths)
	}

	fmt.Fprintln(w)
	PrintSeparator(w)
	PrintSuccess(w, fmt.Sprintf("%d/%d KPIs computed", resp.Computed, len(resp.Results)))
	if resp.Cached {
		PrintInfo(w, "served from cache")
	}
	return nil
}

// =============================================================================
// Grouped result sets
// =============================================================================

// renderGroups prints one column per partition; ids restricts the rows (nil = full catalog)
func renderGroups(w io.Writer, title string, fields []Field, resp handlers.GroupResponse, ids []kpi.KPIId) error {
	if len(ids) > 0 {
		resp.Groups = selectGroups(resp.Groups, ids)
	}

	keys := make([]string, 0, len(resp.Groups))
	for k := range resp.Groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	switch output {
	case outputJSON:
		return writeJSON(w, resp)
	case outputCSV:
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{resp.By, "id", "unit", "value", "reason"})
		for _, k := range keys {
			for _, r := range resp.Groups[k] {
				_ = cw.Write([]string{k, r.ID.String(), string(r.Unit), rawValue(r.Value), r.Reason})
			}
		}
		cw.Flush()
		return cw.Error()
	}

	PrintReportHeader(w, title, fields)
	if len(keys) == 0 {
		PrintWarning(w, "no trades to group")
		return nil
	}

	columns := append([]string{"KPI"}, keys...)
	widths := []int{kpiColWidth}
	for _, k := range keys {
		width := groupColMin
		if len(k) > width {
			width = len(k)
		}
		widths = append(widths, width)
	}
	PrintTableHeader(w, columns, widths)

	// every partition carries the same ids in the same order
	rows := resp.Groups[keys[0]]
	for i, r := range rows {
		values := []string{r.ID.String()}
		for _, k := range keys {
			values = append(values, formatValue(resp.Groups[k][i].Value, r.Unit))
		}
		PrintTableRow(w, values, widths)
	}

	fmt.Fprintln(w)
	PrintSeparator(w)
	PrintSuccess(w, fmt.Sprintf("%d groups by %s", len(keys), resp.By))
	return nil
}

// selectGroups keeps the requested ids, in request order
func selectGroups(groups map[string][]kpi.KPIResult, ids []kpi.KPIId) map[string][]kpi.KPIResult {
	out := make(map[string][]kpi.KPIResult, len(groups))
	for k, results := range groups {
		byID := make(map[kpi.KPIId]kpi.KPIResult, len(results))
		for _, r := range results {
			byID[r.ID] = r
		}
		picked := make([]kpi.KPIResult, 0, len(ids))
		for _, id := range ids {
			if r, ok := byID[id]; ok {
				picked = append(picked, r)
			}
		}
		out[k] = picked
	}
	return out
}

// =============================================================================
// Catalog
// =============================================================================

func renderDefinitions(w io.Writer, defs []kpi.KPIDefinition) error {
	switch output {
	case outputJSON:
		return writeJSON(w, map[string]interface{}{
			"count":       len(defs),
			"definitions": defs,
		})
	case outputCSV:
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"id", "name", "category", "unit", "direction"})
		for _, d := range defs {
			_ = cw.Write([]string{d.ID.String(), d.Name, string(d.Category), string(d.Unit), string(d.Direction)})
		}
		cw.Flush()
		return cw.Error()
	}

	PrintReportHeader(w, "KPI Catalog", []Field{{"Count", strconv.Itoa(len(defs))}})
	widths := []int{kpiColWidth, 20, 12, 9, 0}
	PrintTableHeader(w, []string{"ID", "CATEGORY", "UNIT", "BETTER", "NAME"}, []int{kpiColWidth, 20, 12, 9, 20})
	for _, d := range defs {
		PrintTableRow(w, []string{d.ID.String(), string(d.Category), string(d.Unit), string(d.Direction), d.Name}, widths)
	}
	return nil
}

func renderDefinition(w io.Writer, d kpi.KPIDefinition) error {
	if output == outputJSON {
		return writeJSON(w, d)
	}
	if output == outputCSV {
		return renderDefinitions(w, []kpi.KPIDefinition{d})
	}

	inputs := make([]string, len(d.RequiredInputs))
	for i, in := range d.RequiredInputs {
		inputs[i] = string(in)
	}

	PrintReportHeader(w, d.Name, []Field{
		{"ID", d.ID.String()},
		{"Category", string(d.Category)},
		{"Unit", string(d.Unit)},
		{"Better", string(d.Direction)},
	})
	PrintKeyValue(w, "Formula", d.Formula, 10)
	PrintKeyValue(w, "Edge cases", d.EdgeCases, 10)
	PrintKeyValue(w, "Example", d.Example, 10)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "   Required inputs:")
	PrintList(w, inputs)
	return nil
}
