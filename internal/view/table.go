package view

import (
	"time"

	"bot-console/internal/model"
)

// CellKind selects how a table cell renders. Text cells are escaped by the
// template engine; badge variants map to pre-approved markup only.
type CellKind string

const (
	CellText    CellKind = "text"
	CellLink    CellKind = "link"
	CellBadge   CellKind = "badge"
	CellCount   CellKind = "count"
	CellTime    CellKind = "time"
	CellActions CellKind = "actions"
)

// BadgeVariant is a fixed visual style; values outside this set fall back to
// the neutral variant so entity data can never pick arbitrary markup.
type BadgeVariant string

const (
	BadgeNeutral BadgeVariant = "secondary"
	BadgeSuccess BadgeVariant = "success"
	BadgeDanger  BadgeVariant = "danger"
	BadgeWarning BadgeVariant = "warning"
	BadgeInfo    BadgeVariant = "info"
)

type Cell struct {
	Kind    CellKind
	Text    string
	Href    string
	Count   int
	Time    *time.Time
	Variant BadgeVariant
	Actions []Action
}

// Action is one row-level control. Destructive actions carry a confirmation
// prompt that must be acknowledged before the mutation request fires.
type Action struct {
	Name        string
	Label       string
	Target      string
	Destructive bool
	Confirm     string
}

type Row struct {
	Key   string
	Cells []Cell
}

// Table is one fully prepared list render: header labels, rows, pagination
// state and the page-number window. It is what a ListController hands to the
// template layer, and what the controller retains as its last good render.
type Table struct {
	View    string
	Columns []string
	Rows    []Row
	Meta    model.Meta
	Window  []int
}

// Empty reports whether the table should render its single "no data" row.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

func TextCell(text string) Cell {
	return Cell{Kind: CellText, Text: text}
}

// LinkCell renders as a detail-opening link; the page script intercepts the
// click and loads the href as a modal fragment.
func LinkCell(text string, href string) Cell {
	return Cell{Kind: CellLink, Text: text, Href: href}
}

func CountCell(n int) Cell {
	return Cell{Kind: CellCount, Count: n}
}

func TimeCell(t *time.Time) Cell {
	return Cell{Kind: CellTime, Time: t}
}

func BadgeCell(text string, variant BadgeVariant) Cell {
	switch variant {
	case BadgeNeutral, BadgeSuccess, BadgeDanger, BadgeWarning, BadgeInfo:
	default:
		variant = BadgeNeutral
	}

	return Cell{Kind: CellBadge, Text: text, Variant: variant}
}

func ActionsCell(actions ...Action) Cell {
	return Cell{Kind: CellActions, Actions: actions}
}

// EnabledBadge is the shared enabled/disabled state badge.
func EnabledBadge(enabled bool) Cell {
	if enabled {
		return BadgeCell("enabled", BadgeSuccess)
	}

	return BadgeCell("disabled", BadgeDanger)
}

// BannedBadge is the shared banned/active state badge.
func BannedBadge(banned bool) Cell {
	if banned {
		return BadgeCell("banned", BadgeDanger)
	}

	return BadgeCell("active", BadgeSuccess)
}
