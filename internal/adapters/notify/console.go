package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/kalshiarb/internal/domain"
)

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// Notify imprime el resultado del evento en el modo configurado.
func (c *Console) Notify(_ context.Context, r domain.EventReport) error {
	if c.table {
		c.printFull(r)
	} else {
		c.printCompact(r)
	}

	if !r.BetAttempted() && !r.Aborted() {
		fmt.Fprintf(c.out, "> %s NO BET ATTEMPTED\n", clock(r.CheckedAt))
	}
	return nil
}

// printCompact imprime una línea por evento con sumas, disparos y sweeps.
func (c *Console) printCompact(r domain.EventReport) {
	s, th := r.Sums, r.Thresholds

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s n=%d | yes ask %d/%d bid %d/%d | no ask %d/%d bid %d/%d",
		clock(r.CheckedAt), r.EventTicker, r.Markets,
		s.YesAsk, th.YesAsk, s.YesBid, th.YesBid,
		s.NoAsk, th.NoAsk, s.NoBid, th.NoBid,
	)
	for _, sw := range r.Sweeps {
		fmt.Fprintf(&sb, " | %s %d/%d %s", sw.Label(), sw.Placed(), len(sw.Legs), sw.Status)
	}
	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime sumas contra disparos y el detalle de cada leg.
func (c *Console) printFull(r domain.EventReport) {
	fmt.Fprintf(c.out, "\n[%s] %s: %d markets, margin %d\n",
		clock(r.CheckedAt), r.EventTicker, r.Markets, r.Thresholds.Margin)

	s, th := r.Sums, r.Thresholds
	table := tablewriter.NewWriter(c.out)
	table.Header("Sum", "Value", "Trigger", "Crossed")
	table.Append("YES ask", fmt.Sprint(s.YesAsk), "<= "+fmt.Sprint(th.YesAsk), mark(th.BuyYes(s)))
	table.Append("YES bid", fmt.Sprint(s.YesBid), ">= "+fmt.Sprint(th.YesBid), mark(th.SellYes(s)))
	table.Append("NO ask", fmt.Sprint(s.NoAsk), "<= "+fmt.Sprint(th.NoAsk), mark(th.BuyNo(s)))
	table.Append("NO bid", fmt.Sprint(s.NoBid), ">= "+fmt.Sprint(th.NoBid), mark(th.SellNo(s)))
	table.Render()

	for _, sw := range r.Sweeps {
		fmt.Fprintf(c.out, "  %s %s (%d/%d legs placed)\n", sw.Label(), sw.Status, sw.Placed(), len(sw.Legs))
		printLegs(c.out, sw.Legs)
	}
}

// PrintSweeps imprime un resumen de sweeps del journal, más recientes primero.
func PrintSweeps(w io.Writer, sweeps []domain.Sweep) {
	if len(sweeps) == 0 {
		fmt.Fprintln(w, "no sweeps recorded in range")
		return
	}

	table := tablewriter.NewWriter(w)
	table.Header("Started", "Event", "Sweep", "Status", "Placed", "Legs", "Duration")
	for _, sw := range sweeps {
		table.Append(
			sw.StartedAt.Local().Format("2006-01-02 15:04:05"),
			sw.EventTicker,
			sw.Label(),
			string(sw.Status),
			fmt.Sprint(sw.Placed()),
			fmt.Sprint(len(sw.Legs)),
			sw.FinishedAt.Sub(sw.StartedAt).Round(time.Millisecond).String(),
		)
	}
	table.Render()

	aborted := 0
	for _, sw := range sweeps {
		if sw.Aborted() {
			aborted++
		}
	}
	fmt.Fprintf(w, "  %d sweeps, %d aborted\n", len(sweeps), aborted)
}

// --- helpers ---

func printLegs(w io.Writer, legs []domain.Leg) {
	if len(legs) == 0 {
		return
	}
	table := tablewriter.NewWriter(w)
	table.Header("#", "Market", "Price", "Outcome", "Order", "Error")
	for i, leg := range legs {
		table.Append(
			fmt.Sprint(i+1),
			leg.MarketTicker,
			fmt.Sprintf("%d¢", leg.PriceCents),
			string(leg.Outcome),
			leg.OrderID,
			truncate(leg.Error, 40),
		)
	}
	table.Render()
}

func mark(b bool) string {
	if b {
		return "YES"
	}
	return "-"
}

func clock(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Local().Format("15:04:05")
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
