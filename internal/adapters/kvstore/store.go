// Package kvstore provides the string key-value stores the results table is
// persisted in.
package kvstore

import (
	"context"
	"fmt"
	"regexp"
)

// Store is a persistent string-to-string map.
type Store interface {
	// Get returns the value stored under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// SetMany stores every pair of values in one write.
	SetMany(ctx context.Context, values map[string]string) error
	// Close releases the resources held by the store.
	Close() error
}

// Backend names a Store implementation.
type Backend string

// Supported backends.
const (
	BackendMemory   Backend = "memory"
	BackendFile     Backend = "file"
	BackendPostgres Backend = "postgres"
	BackendMySQL    Backend = "mysql"
)

// Params selects and configures a backend for Open.
type Params struct {
	Backend Backend
	Path    string // file backend
	DSN     string // sql backends
	Table   string // sql backends
}

// Open builds the store described by p.
func Open(ctx context.Context, p Params) (Store, error) {
	switch p.Backend {
	case BackendMemory, "":
		return NewMemory(), nil
	case BackendFile:
		return NewFile(p.Path)
	case BackendPostgres:
		return NewPostgres(ctx, p.DSN, WithTable(p.Table))
	case BackendMySQL:
		return NewMySQL(ctx, p.DSN, WithTable(p.Table))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, p.Backend)
	}
}

const defaultTable = "trackboard_kv"

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

type sqlOptions struct {
	table string
}

// Option configures the sql backends.
type Option func(*sqlOptions)

// WithTable sets the table holding the key-value pairs. Empty names are ignored.
func WithTable(name string) Option {
	return func(o *sqlOptions) {
		if name != "" {
			o.table = name
		}
	}
}

func buildOptions(opts []Option) (sqlOptions, error) {
	o := sqlOptions{table: defaultTable}
	for _, opt := range opts {
		opt(&o)
	}
	if !identRe.MatchString(o.table) {
		return o, fmt.Errorf("%w: %q", ErrInvalidTable, o.table)
	}
	return o, nil
}

func checkKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}
