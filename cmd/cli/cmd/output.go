// Package cmd - output helpers
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"glazeworks/core/types"
)

const boxWidth = 60

// row is one label/value line in a summary box
type row struct {
	label string
	value string
}

func printBox(w io.Writer, title string, rows []row) {
	rule := strings.Repeat("─", boxWidth+2)
	fmt.Fprintf(w, "┌%s┐\n", rule)
	fmt.Fprintf(w, "│ %-*s │\n", boxWidth, centre(title, boxWidth))
	fmt.Fprintf(w, "├%s┤\n", rule)
	for _, r := range rows {
		if r.label == "" && r.value == "" {
			fmt.Fprintf(w, "├%s┤\n", rule)
			continue
		}
		fmt.Fprintf(w, "│ %-38s %21s │\n", truncate(r.label, 38), truncate(r.value, 21))
	}
	fmt.Fprintf(w, "└%s┘\n", rule)
}

// separator renders as a horizontal rule inside printBox
var separator = row{}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func wantJSON() (bool, error) {
	switch output {
	case "json":
		return true, nil
	case "text", "cli", "":
		return false, nil
	}
	return false, fmt.Errorf("unknown output format %q (text, json)", output)
}

func usd(d decimal.Decimal) string {
	return types.FormatMoney(d)
}

func percent(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).StringFixed(0) + "%"
}

func centre(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return strings.Repeat(" ", (width-n)/2) + s
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
