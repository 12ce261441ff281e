// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/blockwise/internal/blocking"
)

var (
	// ErrUnknownFormat is returned for files that are neither CSV nor Parquet.
	ErrUnknownFormat = errors.New("unknown dataset format")

	// ErrMissingColumn is returned when a configured column is not in the file.
	ErrMissingColumn = errors.New("column not found")

	// ErrNoAttributes is returned when every column is excluded.
	ErrNoAttributes = errors.New("no attribute columns")
)

// Options selects the roles of the columns of a record file.
type Options struct {
	// LabelColumn names the entity column. Empty loads unlabeled records.
	LabelColumn string

	// IDColumn names an optional record identifier column.
	IDColumn string

	// Exclude lists columns that are not attributes.
	Exclude []string

	// Nominal lists text columns to type as nominal.
	Nominal []string
}

// isAttribute reports whether column is neither a role column nor excluded.
func (o Options) isAttribute(column string) bool {
	return column != o.LabelColumn && column != o.IDColumn && !slices.Contains(o.Exclude, column)
}

func (o Options) textType(column string) blocking.AttributeType {
	if slices.Contains(o.Nominal, column) {
		return blocking.AttributeNominal
	}
	return blocking.AttributeString
}

// Loader reads record files through an in-memory DuckDB database.
type Loader struct {
	conn   *sql.DB
	logger zerolog.Logger
}

// Open starts an in-memory DuckDB database for loading.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(logger zerolog.Logger) (*Loader, error) {
	conn, err := sql.Open("duckdb", ":memory:?autoinstall_known_extensions=false&autoload_known_extensions=false")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to ping: %w", err)
	}
	return &Loader{
		conn:   conn,
		logger: logger.With().Str("component", "dataset").Logger(),
	}, nil
}

// Close releases the database.
func (l *Loader) Close() error {
	return l.conn.Close()
}

func closeQuietly(conn *sql.DB) {
	_ = conn.Close() //nolint:errcheck // best-effort cleanup on failed open
}

// LoadFile loads a CSV or Parquet file, chosen by extension.
func (l *Loader) LoadFile(ctx context.Context, path string, opts Options) (*blocking.Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return l.LoadCSV(ctx, path, opts)
	case ".parquet", ".pq":
		return l.LoadParquet(ctx, path, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// LoadCSV loads a delimited text file with a header row.
func (l *Loader) LoadCSV(ctx context.Context, path string, opts Options) (*blocking.Dataset, error) {
	return l.load(ctx, path, fmt.Sprintf("read_csv_auto(%s, header=true)", quoteLiteral(path)), opts)
}

// LoadParquet loads a Parquet file.
func (l *Loader) LoadParquet(ctx context.Context, path string, opts Options) (*blocking.Dataset, error) {
	return l.load(ctx, path, fmt.Sprintf("read_parquet(%s)", quoteLiteral(path)), opts)
}

type column struct {
	name    string
	numeric bool
}

func (l *Loader) load(ctx context.Context, path, source string, opts Options) (*blocking.Dataset, error) {
	start := time.Now()

	columns, err := l.describe(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to describe %s: %w", path, err)
	}
	for _, role := range []string{opts.LabelColumn, opts.IDColumn} {
		if role != "" && !slices.ContainsFunc(columns, func(c column) bool { return c.name == role }) {
			return nil, fmt.Errorf("%w: %q in %s", ErrMissingColumn, role, path)
		}
	}

	ds := &blocking.Dataset{Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	var attrs []column
	for _, c := range columns {
		if !opts.isAttribute(c.name) {
			continue
		}
		typ := opts.textType(c.name)
		if c.numeric {
			typ = blocking.AttributeNumeric
		}
		ds.Attributes = append(ds.Attributes, blocking.Attribute{Name: c.name, Type: typ})
		attrs = append(attrs, c)
	}
	if len(attrs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoAttributes, path)
	}

	if err := l.readRecords(ctx, source, attrs, opts, ds); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	l.logger.Info().
		Str("path", path).
		Int("records", ds.Len()).
		Int("attributes", len(ds.Attributes)).
		Dur("duration", time.Since(start)).
		Msg("dataset loaded")
	return ds, nil
}

// describe returns the columns of source with DuckDB's inferred types.
func (l *Loader) describe(ctx context.Context, source string) ([]column, error) {
	rows, err := l.conn.QueryContext(ctx, "DESCRIBE SELECT * FROM "+source)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []column
	for rows.Next() {
		// column_name, column_type, null, key, default, extra
		dest := make([]any, len(names))
		var name, typ sql.NullString
		dest[0], dest[1] = &name, &typ
		for i := 2; i < len(dest); i++ {
			dest[i] = new(sql.NullString)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, column{name: name.String, numeric: isNumericType(typ.String)})
	}
	return out, rows.Err()
}

func (l *Loader) readRecords(ctx context.Context, source string, attrs []column, opts Options, ds *blocking.Dataset) error {
	exprs := make([]string, 0, len(attrs)+2)
	for _, c := range attrs {
		if c.numeric {
			exprs = append(exprs, "CAST("+quoteIdent(c.name)+" AS DOUBLE)")
		} else {
			exprs = append(exprs, "CAST("+quoteIdent(c.name)+" AS VARCHAR)")
		}
	}
	exprs = append(exprs, roleExpr(opts.LabelColumn), roleExpr(opts.IDColumn))

	//nolint:gosec // identifiers and paths are quoted
	rows, err := l.conn.QueryContext(ctx, "SELECT "+strings.Join(exprs, ", ")+" FROM "+source)
	if err != nil {
		return err
	}
	defer rows.Close()

	nums := make([]sql.NullFloat64, len(attrs))
	strs := make([]sql.NullString, len(attrs))
	dest := make([]any, len(attrs)+2)
	for i, c := range attrs {
		if c.numeric {
			dest[i] = &nums[i]
		} else {
			dest[i] = &strs[i]
		}
	}
	var label, id sql.NullString
	dest[len(attrs)], dest[len(attrs)+1] = &label, &id

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return err
		}
		rec := blocking.Record{Values: make([]blocking.Value, len(attrs))}
		for i, c := range attrs {
			switch {
			case c.numeric && nums[i].Valid:
				rec.Values[i] = blocking.NumericValue(nums[i].Float64)
			case !c.numeric && strs[i].Valid:
				rec.Values[i] = blocking.StringValue(strs[i].String)
			default:
				rec.Values[i] = blocking.MissingValue()
			}
		}
		if label.Valid && label.String != "" {
			rec.Label, rec.HasLabel = label.String, true
		}
		if id.Valid {
			rec.ID = id.String
		}
		ds.Records = append(ds.Records, rec)
	}
	return rows.Err()
}

// roleExpr selects a role column as text, or NULL when it is not configured.
func roleExpr(name string) string {
	if name == "" {
		return "CAST(NULL AS VARCHAR)"
	}
	return "CAST(" + quoteIdent(name) + " AS VARCHAR)"
}

// isNumericType reports whether a DuckDB type name holds numbers.
func isNumericType(typ string) bool {
	typ = strings.ToUpper(typ)
	if strings.HasPrefix(typ, "DECIMAL") {
		return true
	}
	switch typ {
	case "TINYINT", "SMALLINT", "INTEGER", "BIGINT", "HUGEINT",
		"UTINYINT", "USMALLINT", "UINTEGER", "UBIGINT", "UHUGEINT",
		"FLOAT", "DOUBLE", "REAL":
		return true
	default:
		return false
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
