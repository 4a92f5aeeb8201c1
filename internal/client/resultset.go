package client

// ResultSet is the positional table shape the NBA stats API returns:
// column names in Headers, values in parallel positional arrays in
// RowSet. All knowledge of this coupling stays inside this file so an
// upstream schema change is a one-function fix.
type ResultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

// Rows zips Headers with each positional row to produce named records.
// Rows shorter than the header list yield partial records; extra values
// are dropped.
func (rs *ResultSet) Rows() []map[string]any {
	rows := make([]map[string]any, 0, len(rs.RowSet))
	for _, raw := range rs.RowSet {
		row := make(map[string]any, len(rs.Headers))
		for i, h := range rs.Headers {
			if i >= len(raw) {
				break
			}
			row[h] = raw[i]
		}
		rows = append(rows, row)
	}
	return rows
}

// asFloat coerces a JSON cell value to float64. Missing or
// non-numeric cells come back as 0, matching how the upstream rows mix
// nulls into numeric columns.
func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

// asString coerces a JSON cell value to string, empty when absent.
func asString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
