package domain

import (
	"strings"
	"time"
)

// LegOutcome es el resultado de un leg dentro de un sweep.
type LegOutcome string

const (
	LegPlaced          LegOutcome = "placed"
	LegSkipped         LegOutcome = "skipped" // precio fuera de (1, 100)
	LegTransportFailed LegOutcome = "transport_failed"
	LegRejected        LegOutcome = "rejected"
)

// Failed devuelve true si el leg aborta el sweep.
func (o LegOutcome) Failed() bool {
	return o == LegTransportFailed || o == LegRejected
}

// Leg es la orden de un mercado dentro de un sweep.
type Leg struct {
	MarketTicker  string
	PriceCents    int
	Outcome       LegOutcome
	OrderID       string
	ClientOrderID string
	Error         string
}

// SweepStatus indica si el sweep recorrió todos los mercados.
type SweepStatus string

const (
	SweepCompleted SweepStatus = "completed"
	SweepAborted   SweepStatus = "aborted"
)

// Sweep es el conjunto de legs intentados para una decisión side/action
// sobre un evento en un ciclo. Los legs ya colocados antes de un abort no
// se compensan.
type Sweep struct {
	ID          string
	EventTicker string
	Side        Side
	Action      Action
	Legs        []Leg
	Status      SweepStatus
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Aborted devuelve true si un leg falló y los restantes no se enviaron.
func (s Sweep) Aborted() bool {
	return s.Status == SweepAborted
}

// Placed devuelve cuántos legs fueron aceptados por el exchange.
func (s Sweep) Placed() int {
	n := 0
	for _, l := range s.Legs {
		if l.Outcome == LegPlaced {
			n++
		}
	}
	return n
}

// Label devuelve "BUY YES", "SELL NO", etc.
func (s Sweep) Label() string {
	return strings.ToUpper(string(s.Action)) + " " + strings.ToUpper(string(s.Side))
}

// EventReport resume lo que pasó con un evento en un ciclo.
type EventReport struct {
	EventTicker string
	Markets     int
	Sums        Sums
	Thresholds  Thresholds
	Sweeps      []Sweep
	CheckedAt   time.Time
}

// Aborted devuelve true si algún sweep del evento abortó.
func (r EventReport) Aborted() bool {
	for _, s := range r.Sweeps {
		if s.Aborted() {
			return true
		}
	}
	return false
}

// BetAttempted devuelve true si al menos un leg fue colocado en el ciclo.
func (r EventReport) BetAttempted() bool {
	for _, s := range r.Sweeps {
		if s.Placed() > 0 {
			return true
		}
	}
	return false
}
