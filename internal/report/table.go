package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/xtding233/gacha-calc/internal/pricing"
)

// Printer formats summaries as terminal tables for one locale.
type Printer struct {
	p *message.Printer
}

func NewPrinter(tag language.Tag) *Printer {
	return &Printer{p: message.NewPrinter(tag)}
}

// Write renders s as a key/value block followed by the quantile grid.
func (pr *Printer) Write(w io.Writer, s Summary) error {
	p := pr.p
	na := func(v *float64, format string) string {
		if v == nil {
			return "n/a"
		}
		return p.Sprintf(format, *v)
	}
	keys := []string{"Pool", "Model", "Items", "Mass", "Mean", "Std Dev"}
	msg := map[string]string{
		"Pool":    s.Title,
		"Model":   s.Kind,
		"Items":   p.Sprintf("%d", s.Items),
		"Mass":    p.Sprintf("%.9f", s.Mass),
		"Mean":    na(s.Mean, "%.2f"),
		"Std Dev": na(s.StdDev, "%.2f"),
	}
	if sim := s.Simulation; sim != nil {
		keys = append(keys, "MC Trials", "MC Mean", "MC P50/P90/P99")
		msg["MC Trials"] = p.Sprintf("%d", sim.Trials)
		msg["MC Mean"] = p.Sprintf("%.2f ± %.2f", sim.Mean, sim.StdDev)
		msg["MC P50/P90/P99"] = p.Sprintf("%.0f / %.0f / %.0f", sim.P50, sim.P90, sim.P99)
	}
	if _, err := io.WriteString(w, fmtTable(s.Title, keys, msg)); err != nil {
		return err
	}

	header := []string{"Quantile", "Pulls"}
	if len(s.Projections) > 0 {
		header = append(header, s.TokenName)
		if s.Currency != "" {
			header = append(header, "Cost")
		}
	}
	rows := make([][]string, len(s.Quantiles))
	for i, q := range s.Quantiles {
		rows[i] = []string{p.Sprintf("%.0f%%", 100*q.Q), p.Sprintf("%d", q.Pulls)}
		if i < len(s.Projections) {
			pj := s.Projections[i]
			rows[i] = append(rows[i], p.Sprintf("%d", pj.Tokens))
			if s.Currency != "" {
				rows[i] = append(rows[i], pr.money(s.Currency, pj.Plan))
			}
		}
	}
	_, err := io.WriteString(w, fmtGrid(header, rows))
	return err
}

func (pr *Printer) money(code string, plan *pricing.Plan) string {
	if plan == nil {
		return "-"
	}
	amount := float64(plan.TotalCents) / 100
	unit, err := currency.ParseISO(code)
	if err != nil {
		return pr.p.Sprintf("%.2f %s", amount, code)
	}
	return pr.p.Sprint(currency.Symbol(unit.Amount(amount)))
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	maxKeyLen, maxValLen := 0, 0
	for _, k := range keys {
		maxKeyLen = max(maxKeyLen, runewidth.StringWidth(k))
		maxValLen = max(maxValLen, runewidth.StringWidth(msg[k]))
	}
	maxKeyLen += 2
	maxValLen += 2

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	if titleW > totalInner {
		maxValLen += titleW - totalInner
		totalInner = titleW
	}
	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", totalInner) + "+\n"
	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var b strings.Builder
	b.WriteString(top)
	fmt.Fprintf(&b, "|%s%s%s|\n", blank(left), title, blank(right))
	b.WriteString(divider)
	for _, k := range keys {
		fmt.Fprintf(&b, "| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k])))
	}
	b.WriteString(divider)
	return b.String()
}

// fmtGrid right-aligns every column under a header row.
func fmtGrid(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, r := range rows {
		for i, c := range r {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}
	var divider strings.Builder
	divider.WriteString("+")
	for _, w := range widths {
		divider.WriteString(strings.Repeat("-", w+2) + "+")
	}
	divider.WriteString("\n")

	line := func(cells []string) string {
		var b strings.Builder
		b.WriteString("|")
		for i, w := range widths {
			c := ""
			if i < len(cells) {
				c = cells[i]
			}
			fmt.Fprintf(&b, " %s%s |", blank(w-runewidth.StringWidth(c)), c)
		}
		return b.String() + "\n"
	}

	var b strings.Builder
	b.WriteString(divider.String())
	b.WriteString(line(header))
	b.WriteString(divider.String())
	for _, r := range rows {
		b.WriteString(line(r))
	}
	b.WriteString(divider.String())
	return b.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
