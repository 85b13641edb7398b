// Package report formats the console output of the scripts: rules, headed
// sections, pass/fail marks and grouped byte counts.
package report

import (
	"io"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RuleWidth is the width of the "=" rule lines.
const RuleWidth = 60

// Rule returns a line of "=".
func Rule() string { return strings.Repeat("=", RuleWidth) }

var printer = message.NewPrinter(language.English)

// Bytes formats n with thousands separators, e.g. 1,234,567.
func Bytes(n int64) string { return printer.Sprintf("%d", n) }

// Seconds formats d as seconds with one decimal.
func Seconds(d time.Duration) string { return printer.Sprintf("%.1fs", d.Seconds()) }

// Styler colors status marks for a terminal. The zero value prints plain text.
type Styler struct {
	out *termenv.Output
}

// NewStyler detects the color profile of w. Non-terminals get plain text.
func NewStyler(w io.Writer) Styler {
	return Styler{out: termenv.NewOutput(w)}
}

// Plain returns a styler that never emits escape codes.
func Plain() Styler {
	return Styler{out: termenv.NewOutput(io.Discard, termenv.WithProfile(termenv.Ascii))}
}

// Status renders "[PASS]" or "[FAIL]", green or red when supported.
func (s Styler) Status(pass bool) string {
	label, color := "FAIL", "1"
	if pass {
		label, color = "PASS", "2"
	}
	text := "[" + label + "]"
	if s.out == nil {
		return text
	}
	return s.out.String(text).Foreground(s.out.Color(color)).Bold().String()
}

// Title renders a heading in bold when supported.
func (s Styler) Title(text string) string {
	if s.out == nil {
		return text
	}
	return s.out.String(text).Bold().String()
}
