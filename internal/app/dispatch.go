package service

import (
	"strings"

	"github.com/okian/trackboard/internal/domain/schema"
	"github.com/okian/trackboard/internal/domain/table"
	"github.com/okian/trackboard/pkg/metrics"
)

// ActionTag names a table action.
type ActionTag string

// Action tags.
const (
	ActionDuplicate    ActionTag = "duplicate"
	ActionDelete       ActionTag = "delete"
	ActionEdit         ActionTag = "edit"
	ActionSort         ActionTag = "sort"
	ActionToggleColumn ActionTag = "toggle-column"
)

// Action is one user action on the table. Row applies to duplicate, delete
// and edit; Column to edit, sort and toggle-column; Value to edit.
type Action struct {
	Tag    ActionTag `json:"action"`
	Row    int       `json:"row"`
	Column int       `json:"column"`
	Value  string    `json:"value"`
}

// Result reports what an action did.
type Result struct {
	Action ActionTag `json:"action"`
	// Stored is the value kept by an edit, after coercion.
	Stored  string `json:"stored,omitempty"`
	Coerced bool   `json:"coerced,omitempty"`
	// Direction is the order a sort used.
	Direction string `json:"direction,omitempty"`
	// Hidden is the column state after toggle-column.
	Hidden bool `json:"hidden,omitempty"`
	View   View `json:"view"`
}

// handler mutates t for a and reports whether the rows must be persisted.
type handler func(t *table.Table, a Action, res *Result) (persist bool, err error)

// handlers is the dispatch table from tag to handler.
var handlers = map[ActionTag]handler{ //nolint:gochecknoglobals // static dispatch table
	ActionDuplicate:    duplicateRow,
	ActionDelete:       deleteRow,
	ActionEdit:         editCell,
	ActionSort:         sortColumn,
	ActionToggleColumn: toggleColumn,
}

// ParseActionTag normalizes a tag read from a request.
func ParseActionTag(s string) (ActionTag, bool) {
	tag := ActionTag(strings.ToLower(strings.TrimSpace(s)))
	_, ok := handlers[tag]
	return tag, ok
}

// ActionTags lists the known tags.
func ActionTags() []ActionTag {
	return []ActionTag{ActionDuplicate, ActionDelete, ActionEdit, ActionSort, ActionToggleColumn}
}

func duplicateRow(t *table.Table, a Action, _ *Result) (bool, error) {
	return true, t.Duplicate(a.Row)
}

func deleteRow(t *table.Table, a Action, _ *Result) (bool, error) {
	return true, t.Delete(a.Row)
}

func editCell(t *table.Table, a Action, res *Result) (bool, error) {
	stored, coerced, err := t.Edit(a.Row, a.Column, a.Value)
	if err != nil {
		return false, err
	}
	res.Stored, res.Coerced = stored, coerced
	if coerced {
		c, _ := schema.Lookup(a.Column)
		metrics.RecordCellCoerced(c.Kind.String())
	}
	return true, nil
}

// sortColumn reorders rows in memory only; the next mutation persists them.
func sortColumn(t *table.Table, a Action, res *Result) (bool, error) {
	dir, err := t.Sort(a.Column)
	if err != nil {
		return false, err
	}
	res.Direction = dir.String()
	c, _ := schema.Lookup(a.Column)
	metrics.RecordSort(c.Field, dir.String())
	return false, nil
}

func toggleColumn(t *table.Table, a Action, res *Result) (bool, error) {
	hidden, err := t.ToggleColumn(a.Column)
	if err != nil {
		return false, err
	}
	res.Hidden = hidden
	metrics.UpdateHiddenColumns(len(t.HiddenColumns()))
	return false, nil
}
