package perf

import "strconv"

// Dashboard is the data the interactive report page is built from.
type Dashboard struct {
	Title                string
	Records              []map[string]interface{}
	ParamNames           []string
	MetricNames          []string
	DefaultVisibleMetric string
	Markers              []string
}

// BuildDashboard splits the table's columns into sweep parameters and
// mean(...) metrics. std(...) columns are carried in the records but are
// neither. Numeric cells become numbers so the chart can plot them.
func BuildDashboard(title string, t *Table) *Dashboard {
	d := &Dashboard{
		Title:       title,
		Records:     make([]map[string]interface{}, 0, len(t.Rows)),
		ParamNames:  []string{},
		MetricNames: []string{},
		Markers:     []string{},
	}
	for _, h := range t.Header {
		switch {
		case isMetricColumn(h):
			d.MetricNames = append(d.MetricNames, h)
		case isStatColumn(h), h == markerColumn:
		default:
			d.ParamNames = append(d.ParamNames, h)
		}
	}
	if len(d.MetricNames) > 0 {
		d.DefaultVisibleMetric = d.MetricNames[0]
	}

	marker := t.Column(markerColumn)
	seen := map[string]struct{}{}
	for _, row := range t.Rows {
		record := make(map[string]interface{}, len(t.Header))
		for i, h := range t.Header {
			record[h] = cellValue(h, row[i])
		}
		d.Records = append(d.Records, record)

		if marker < 0 {
			continue
		}
		if _, ok := seen[row[marker]]; !ok {
			seen[row[marker]] = struct{}{}
			d.Markers = append(d.Markers, row[marker])
		}
	}
	return d
}

// cellValue keeps parameters as text so dropdown selections match them
// exactly, and turns statistics into numbers.
func cellValue(column, cell string) interface{} {
	if !isStatColumn(column) {
		return cell
	}
	if v, err := strconv.ParseFloat(cell, 64); err == nil {
		return v
	}
	return nil
}
