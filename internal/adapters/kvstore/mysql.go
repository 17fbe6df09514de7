package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

// MySQL stores values in a two-column MySQL table.
type MySQL struct {
	db    *sql.DB
	table string
}

// NewMySQL opens dsn and creates the table if needed.
func NewMySQL(ctx context.Context, dsn string, opts ...Option) (*MySQL, error) {
	if dsn == "" {
		return nil, ErrMissingDSN
	}
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	s := &MySQL{db: db, table: o.table}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *MySQL) migrate(ctx context.Context) error {
	q := fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` ("+
		"kv_key VARCHAR(191) NOT NULL PRIMARY KEY, "+
		"kv_value LONGTEXT NOT NULL"+
		") DEFAULT CHARSET=utf8mb4", s.table)
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

func (s *MySQL) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	q := fmt.Sprintf("SELECT kv_value FROM `%s` WHERE kv_key = ?", s.table)
	err := s.db.QueryRowContext(ctx, q, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *MySQL) Set(ctx context.Context, key, value string) error {
	return s.SetMany(ctx, map[string]string{key: value})
}

func (s *MySQL) SetMany(ctx context.Context, values map[string]string) error {
	for k := range values {
		if err := checkKey(k); err != nil {
			return err
		}
	}
	q := fmt.Sprintf("INSERT INTO `%s` (kv_key, kv_value) VALUES (?, ?) "+
		"ON DUPLICATE KEY UPDATE kv_value = VALUES(kv_value)", s.table)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for k, v := range values {
		if _, err := tx.ExecContext(ctx, q, k, v); err != nil {
			return fmt.Errorf("upsert %s: %w", k, err)
		}
	}
	return tx.Commit()
}

func (s *MySQL) Close() error { return s.db.Close() }
