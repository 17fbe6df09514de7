package service

import (
	"github.com/okian/trackboard/internal/domain/model"
	"github.com/okian/trackboard/internal/domain/stats"
	"github.com/okian/trackboard/internal/domain/table"
)

// View is a read-only snapshot of the table and its page state.
type View struct {
	Caption          string        `json:"caption"`
	NumberOfAthletes int           `json:"number_of_athletes"`
	State            string        `json:"state"`
	Initialized      bool          `json:"initialized"`
	SportOptions     []string      `json:"sport_options"`
	Headers          []HeaderView  `json:"headers"`
	Rows             []model.Row   `json:"rows"`
	HiddenColumns    []int         `json:"hidden_columns"`
	Summary          stats.Summary `json:"summary"`
}

// HeaderView is one column header.
type HeaderView struct {
	Column   int    `json:"column"`
	Field    string `json:"field"`
	Label    string `json:"label"`
	Order    string `json:"order"`
	Active   bool   `json:"active"`
	Hidden   bool   `json:"hidden"`
	Hideable bool   `json:"hideable"`
}

func viewOf(t *table.Table, sports []string) View {
	s := t.Session()
	rows := s.Rows
	if rows == nil {
		rows = []model.Row{}
	}
	headers := t.Headers()
	hv := make([]HeaderView, len(headers))
	for i, h := range headers {
		hv[i] = HeaderView{
			Column:   h.Column.Index,
			Field:    h.Column.Field,
			Label:    h.Column.Label,
			Order:    h.Order.String(),
			Active:   h.Active,
			Hidden:   h.Hidden,
			Hideable: h.Column.Hideable,
		}
	}
	opts := make([]string, len(sports))
	copy(opts, sports)
	return View{
		Caption:          s.Caption,
		NumberOfAthletes: s.NumberOfAthletes,
		State:            t.State().String(),
		Initialized:      t.State() == table.Initialized,
		SportOptions:     opts,
		Headers:          hv,
		Rows:             rows,
		HiddenColumns:    t.HiddenColumns(),
		Summary:          t.Summary(),
	}
}
