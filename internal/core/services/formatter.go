package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"factory-gpt-service/internal/core/domain"
)

// FormatAnswer renders a result set as a conversational reply, phrased by
// the metric the question was about.
func FormatAnswer(question string, rs *domain.ResultSet) string {
	q := strings.ToLower(question)

	if rs != nil && len(rs.Rows) > 0 {
		switch {
		case len(rs.Rows) == 1 && len(rs.Columns) == 1:
			return formatScalar(q, rs)
		case len(rs.Rows) == 1 && len(rs.Columns) > 1:
			if answer, ok := formatMachineRow(q, rs.Rows[0]); ok {
				return answer
			}
		case len(rs.Rows) > 1:
			return formatRowList(rs)
		}
	}

	// Fallback: dump whatever came back.
	raw, err := json.MarshalIndent(rs.Rows, "", "  ")
	if err != nil {
		return fmt.Sprintf("Here's what I found: %v", rs.Rows)
	}
	return fmt.Sprintf("Here's what I found:\n```\n%s\n```", raw)
}

func formatScalar(q string, rs *domain.ResultSet) string {
	value := rs.Rows[0][rs.Columns[0]]
	num, ok := toFloat(value)
	if !ok {
		return fmt.Sprintf("The result is: %v", value)
	}

	switch {
	case strings.Contains(q, "production") || strings.Contains(q, "count"):
		return fmt.Sprintf("The total production count is **%s units**.", formatNumber(num, 0))
	case strings.Contains(q, "downtime"):
		switch {
		case strings.Contains(q, "average") || strings.Contains(q, "avg"):
			return fmt.Sprintf("The average downtime is **%s**.", HumanizeDuration(num))
		case strings.Contains(q, "total") || strings.Contains(q, "sum"):
			return fmt.Sprintf("The total downtime is **%s**.", HumanizeDuration(num))
		default:
			return fmt.Sprintf("The most recent downtime is **%s**.", HumanizeDuration(num))
		}
	case strings.Contains(q, "cycletime") || strings.Contains(q, "cycle time"):
		if strings.Contains(q, "average") || strings.Contains(q, "avg") {
			return fmt.Sprintf("The average cycle time is **%s seconds**.", formatNumber(num, 2))
		}
		return fmt.Sprintf("The most recent cycle time is **%s seconds**.", formatNumber(num, 2))
	default:
		return fmt.Sprintf("The result is **%s**.", formatNumber(num, 2))
	}
}

// formatMachineRow handles the "which machine has the highest X" shape:
// one row with a machine name plus a metric column.
func formatMachineRow(q string, row domain.Row) (string, bool) {
	machine := stringValue(row, "machine_name")
	if machine == "" {
		machine = stringValue(row, "machine_group")
	}

	var metricKey string
	for k := range row {
		lk := strings.ToLower(k)
		if lk != "machine_name" && lk != "machine_group" {
			metricKey = k
			break
		}
	}
	if machine == "" || metricKey == "" {
		return "", false
	}

	num, ok := toFloat(row[metricKey])
	if !ok {
		return fmt.Sprintf("Found data for **%s**: %v", machine, row[metricKey]), true
	}

	operation := "highest"
	if strings.Contains(q, "lowest") {
		operation = "lowest"
	}

	switch {
	case strings.Contains(q, "downtime"):
		return fmt.Sprintf("The machine with the %s downtime is **%s** with **%s**.", operation, machine, HumanizeDuration(num)), true
	case strings.Contains(q, "cycletime") || strings.Contains(q, "cycle time"):
		return fmt.Sprintf("The machine with the %s cycle time is **%s** with **%s seconds**.", operation, machine, formatNumber(num, 2)), true
	case strings.Contains(q, "production"):
		return fmt.Sprintf("The machine with the %s production is **%s** with **%s units**.", operation, machine, formatNumber(num, 0)), true
	}
	return "", false
}

func formatRowList(rs *domain.ResultSet) string {
	const maxListed = 5
	n := len(rs.Rows)
	limit := n
	if limit > maxListed {
		limit = maxListed
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d results. Here are the top %d:\n\n", n, limit)
	for i := 0; i < limit; i++ {
		parts := make([]string, 0, len(rs.Columns))
		for _, col := range rs.Columns {
			parts = append(parts, fmt.Sprintf("%s: %v", col, rs.Rows[i][col]))
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, strings.Join(parts, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

// HumanizeDuration renders seconds with an approximate hour/minute hint.
func HumanizeDuration(seconds float64) string {
	switch {
	case seconds > 3600:
		return fmt.Sprintf("%s seconds (~%.1f hours)", formatNumber(seconds, 0), seconds/3600)
	case seconds > 60:
		return fmt.Sprintf("%s seconds (~%.1f minutes)", formatNumber(seconds, 0), seconds/60)
	default:
		return fmt.Sprintf("%s seconds", formatNumber(seconds, 0))
	}
}

// formatNumber renders a float with thousands separators.
func formatNumber(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)

	intPart := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}

	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func stringValue(row domain.Row, key string) string {
	for k, v := range row {
		if strings.EqualFold(k, key) {
			if s, ok := v.(string); ok {
				return s
			}
			if v != nil {
				return fmt.Sprintf("%v", v)
			}
		}
	}
	return ""
}
