// Package persistence maps the table session onto fixed keys of a key-value
// store.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/okian/trackboard/internal/adapters/kvstore"
	"github.com/okian/trackboard/internal/domain/model"
	"github.com/okian/trackboard/pkg/metrics"
)

// Storage keys.
const (
	KeyCaption          = "caption"
	KeyNumberOfAthletes = "number_of_athletes"
	KeySetupComplete    = "setup_init_complete"
	KeyTableData        = "table_data"
)

const setupCompleteValue = "true"

// Repository reads and writes the session.
type Repository struct {
	store kvstore.Store
}

// New returns a repository over store.
func New(store kvstore.Store) *Repository {
	return &Repository{store: store}
}

// SaveSetup writes every key of a freshly created session.
func (r *Repository) SaveSetup(ctx context.Context, s model.Session) error {
	data, err := encodeRows(s.Rows)
	if err != nil {
		return err
	}
	return r.observe("save_setup", func() error {
		return r.store.SetMany(ctx, map[string]string{
			KeyCaption:          s.Caption,
			KeyNumberOfAthletes: strconv.Itoa(s.NumberOfAthletes),
			KeySetupComplete:    setupCompleteValue,
			KeyTableData:        data,
		})
	})
}

// SaveRows rewrites the row data only.
func (r *Repository) SaveRows(ctx context.Context, rows []model.Row) error {
	data, err := encodeRows(rows)
	if err != nil {
		return err
	}
	return r.observe("save_rows", func() error {
		return r.store.Set(ctx, KeyTableData, data)
	})
}

// Load reads the persisted session. The boolean is false when no table was
// ever created. A present session without readable rows is ErrMalformedSession.
func (r *Repository) Load(ctx context.Context) (model.Session, bool, error) {
	var (
		s     model.Session
		found bool
	)
	err := r.observe("load", func() error {
		if _, ok, err := r.store.Get(ctx, KeySetupComplete); err != nil || !ok {
			return err
		}
		found = true

		caption, _, err := r.store.Get(ctx, KeyCaption)
		if err != nil {
			return err
		}
		count, _, err := r.store.Get(ctx, KeyNumberOfAthletes)
		if err != nil {
			return err
		}
		data, ok, err := r.store.Get(ctx, KeyTableData)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s is missing", ErrMalformedSession, KeyTableData)
		}
		rows, err := decodeRows(data)
		if err != nil {
			return err
		}
		n, _ := strconv.Atoi(count)
		s = model.Session{
			Caption:          caption,
			NumberOfAthletes: n,
			SetupComplete:    true,
			Rows:             rows,
		}
		return nil
	})
	if err != nil {
		return model.Session{}, false, err
	}
	return s, found, nil
}

func (r *Repository) observe(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStoreOperation(op, float64(time.Since(start).Microseconds())/1000, err != nil)
	if err != nil {
		return fmt.Errorf("persistence %s: %w", op, err)
	}
	return nil
}

func encodeRows(rows []model.Row) (string, error) {
	if rows == nil {
		rows = []model.Row{}
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", KeyTableData, err)
	}
	return string(b), nil
}

func decodeRows(data string) ([]model.Row, error) {
	var rows []model.Row
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedSession, KeyTableData, err)
	}
	if rows == nil {
		return nil, fmt.Errorf("%w: %s is null", ErrMalformedSession, KeyTableData)
	}
	return rows, nil
}
