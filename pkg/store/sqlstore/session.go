// Package sqlstore implements store.Session over database/sql. Statements use
// quoted identifiers and positional placeholders, so any driver that accepts
// `?` or `$n` parameters and RETURNING clauses (DuckDB, PostgreSQL, SQLite)
// can back the CRUD views.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/goliatone/go-modelform/pkg/log"
	"github.com/goliatone/go-modelform/pkg/schema"
	"github.com/goliatone/go-modelform/pkg/store"
)

// Placeholder selects the bind parameter syntax.
type Placeholder int

const (
	// Question renders `?` parameters.
	Question Placeholder = iota
	// Dollar renders `$1`, `$2`, ... parameters.
	Dollar
)

// Option configures a Session.
type Option func(*Session)

// WithPlaceholder sets the bind parameter syntax. Defaults to Question.
func WithPlaceholder(p Placeholder) Option {
	return func(s *Session) {
		s.placeholder = p
	}
}

// WithLogger logs every statement at debug level.
func WithLogger(logger log.Logger) Option {
	return func(s *Session) {
		s.logger = log.OrNop(logger)
	}
}

// Session executes model CRUD statements against a *sql.DB it does not own.
type Session struct {
	db          *sql.DB
	placeholder Placeholder
	logger      log.Logger
}

var _ store.Session = (*Session)(nil)

// New returns a Session bound to db.
func New(db *sql.DB, opts ...Option) *Session {
	s := &Session{
		db:          db,
		placeholder: Question,
		logger:      log.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateTable creates the model's table when it does not exist yet. An
// Integer primary key draws its default from a sequence named
// <table>_<column>_seq so inserts may omit it.
func (s *Session) CreateTable(ctx context.Context, m schema.Model) error {
	if err := m.Validate(); err != nil {
		return err
	}

	table := m.TableName()
	defs := make([]string, 0, len(m.Columns))
	for _, column := range m.Columns {
		sqlType, err := columnType(column)
		if err != nil {
			return fmt.Errorf("sqlstore: table %s: %w", table, err)
		}

		def := quote(column.Name) + " " + sqlType
		switch {
		case column.PrimaryKey && column.Type == schema.TypeInteger:
			seq := sequenceName(table, column.Name)
			if err := s.exec(ctx, "CREATE SEQUENCE IF NOT EXISTS "+quote(seq)); err != nil {
				return err
			}
			def += " PRIMARY KEY DEFAULT nextval('" + strings.ReplaceAll(seq, "'", "''") + "')"
		case column.PrimaryKey:
			def += " PRIMARY KEY"
		default:
			if !column.Nullable {
				def += " NOT NULL"
			}
			if column.Default != nil {
				lit, err := literal(column.Default)
				if err != nil {
					return fmt.Errorf("sqlstore: default for %s.%s: %w", table, column.Name, err)
				}
				def += " DEFAULT " + lit
			}
		}
		defs = append(defs, def)
	}

	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quote(table), strings.Join(defs, ", "))
	return s.exec(ctx, stmt)
}

// List returns every record, ordered by primary key when the model has one.
func (s *Session) List(ctx context.Context, m schema.Model) ([]store.Record, error) {
	stmt := fmt.Sprintf("SELECT %s FROM %s", columnList(m), quote(m.TableName()))
	if pk, err := m.PrimaryKey(); err == nil {
		stmt += " ORDER BY " + quote(pk.Name)
	}

	s.logger.Debug("sqlstore query", "sql", stmt)
	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list %s: %w", m.Name, err)
	}
	defer rows.Close()

	var records []store.Record
	for rows.Next() {
		rec, err := scanRecord(rows, m)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: list %s: %w", m.Name, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: list %s: %w", m.Name, err)
	}
	return records, nil
}

// Get returns the record whose primary key equals key.
func (s *Session) Get(ctx context.Context, m schema.Model, key any) (store.Record, error) {
	pk, err := m.PrimaryKey()
	if err != nil {
		return nil, err
	}

	stmt := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		columnList(m), quote(m.TableName()), quote(pk.Name), s.param(1))

	s.logger.Debug("sqlstore query", "sql", stmt, "key", key)
	rows, err := s.db.QueryContext(ctx, stmt, key)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: get %s: %w", m.Name, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("sqlstore: get %s: %w", m.Name, err)
		}
		return nil, fmt.Errorf("%w: %s %v", store.ErrNotFound, m.Name, key)
	}
	rec, err := scanRecord(rows, m)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: get %s: %w", m.Name, err)
	}
	return rec, nil
}

// Insert stores record and returns the stored row, including generated keys
// and column defaults. Keys not naming a model column are ignored.
func (s *Session) Insert(ctx context.Context, m schema.Model, record store.Record) (store.Record, error) {
	names, args, err := s.assignments(m, record)
	if err != nil {
		return nil, err
	}

	var stmt string
	if len(names) == 0 {
		stmt = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", quote(m.TableName()))
	} else {
		params := make([]string, len(names))
		for i := range names {
			params[i] = s.param(i + 1)
		}
		stmt = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			quote(m.TableName()), quoteAll(names), strings.Join(params, ", "))
	}
	stmt += " RETURNING " + columnList(m)

	s.logger.Debug("sqlstore exec", "sql", stmt)
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: insert %s: %w", m.Name, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("sqlstore: insert %s: %w", m.Name, err)
		}
		return nil, fmt.Errorf("sqlstore: insert %s: no row returned", m.Name)
	}
	rec, err := scanRecord(rows, m)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: insert %s: %w", m.Name, err)
	}
	return rec, nil
}

// Update writes the columns present in record to the row identified by key.
// The primary key itself is never rewritten.
func (s *Session) Update(ctx context.Context, m schema.Model, key any, record store.Record) error {
	pk, err := m.PrimaryKey()
	if err != nil {
		return err
	}

	names, args, err := s.assignments(m, record)
	if err != nil {
		return err
	}

	sets := make([]string, 0, len(names))
	values := make([]any, 0, len(args)+1)
	for i, name := range names {
		if name == pk.Name {
			continue
		}
		values = append(values, args[i])
		sets = append(sets, quote(name)+" = "+s.param(len(values)))
	}
	if len(sets) == 0 {
		_, err := s.Get(ctx, m, key)
		return err
	}
	values = append(values, key)

	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		quote(m.TableName()), strings.Join(sets, ", "), quote(pk.Name), s.param(len(values)))
	return s.affectOne(ctx, m, stmt, key, values...)
}

// Delete removes the row identified by key.
func (s *Session) Delete(ctx context.Context, m schema.Model, key any) error {
	pk, err := m.PrimaryKey()
	if err != nil {
		return err
	}

	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = %s", quote(m.TableName()), quote(pk.Name), s.param(1))
	return s.affectOne(ctx, m, stmt, key, key)
}

func (s *Session) affectOne(ctx context.Context, m schema.Model, stmt string, key any, args ...any) error {
	s.logger.Debug("sqlstore exec", "sql", stmt, "key", key)
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("sqlstore: %s: %w", m.Name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlstore: %s: %w", m.Name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %v", store.ErrNotFound, m.Name, key)
	}
	return nil
}

func (s *Session) exec(ctx context.Context, stmt string) error {
	s.logger.Debug("sqlstore exec", "sql", stmt)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("sqlstore: %w", err)
	}
	return nil
}

// assignments returns the record's model columns in declared order with
// their bind values.
func (s *Session) assignments(m schema.Model, record store.Record) ([]string, []any, error) {
	var names []string
	var args []any
	for _, column := range m.Columns {
		value, ok := record[column.Name]
		if !ok {
			continue
		}
		bound, err := bindValue(column, value)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlstore: %s.%s: %w", m.Name, column.Name, err)
		}
		names = append(names, column.Name)
		args = append(args, bound)
	}
	return names, args, nil
}

func (s *Session) param(n int) string {
	if s.placeholder == Dollar {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

func columnType(column schema.Column) (string, error) {
	switch column.Type {
	case schema.TypeString:
		if column.Length > 0 {
			return fmt.Sprintf("VARCHAR(%d)", column.Length), nil
		}
		return "VARCHAR", nil
	case schema.TypeEnum:
		return "VARCHAR", nil
	case schema.TypeInteger:
		return "BIGINT", nil
	case schema.TypeBoolean:
		return "BOOLEAN", nil
	case schema.TypeDateTime:
		return "TIMESTAMP", nil
	case schema.TypeDate:
		return "DATE", nil
	case schema.TypeTime:
		return "TIME", nil
	default:
		return "", fmt.Errorf("unsupported column type %q for %q", column.Type, column.Name)
	}
}

func bindValue(column schema.Column, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch column.Type {
	case schema.TypeInteger:
		return cast.ToInt64E(value)
	case schema.TypeBoolean:
		return cast.ToBoolE(value)
	case schema.TypeString, schema.TypeEnum:
		return cast.ToStringE(value)
	case schema.TypeTime:
		if t, ok := value.(time.Time); ok {
			return t.Format("15:04:05"), nil
		}
		return cast.ToStringE(value)
	default:
		return value, nil
	}
}

func scanRecord(rows *sql.Rows, m schema.Model) (store.Record, error) {
	values := make([]any, len(m.Columns))
	targets := make([]any, len(m.Columns))
	for i := range values {
		targets[i] = &values[i]
	}
	if err := rows.Scan(targets...); err != nil {
		return nil, err
	}

	rec := make(store.Record, len(m.Columns))
	for i, column := range m.Columns {
		value, err := normalize(column, values[i])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", column.Name, err)
		}
		rec[column.Name] = value
	}
	return rec, nil
}

// normalize maps driver values onto the Go types the logical type implies.
func normalize(column schema.Column, value any) (any, error) {
	if b, ok := value.([]byte); ok {
		value = string(b)
	}
	if value == nil {
		return nil, nil
	}
	switch column.Type {
	case schema.TypeInteger:
		return cast.ToInt64E(value)
	case schema.TypeBoolean:
		return cast.ToBoolE(value)
	case schema.TypeString, schema.TypeEnum:
		return cast.ToStringE(value)
	case schema.TypeDateTime, schema.TypeDate, schema.TypeTime:
		if t, ok := value.(time.Time); ok {
			return t, nil
		}
		return cast.ToTimeE(value)
	default:
		return value, nil
	}
}

func literal(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'", nil
	case bool:
		if v {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int, int32, int64, uint, uint32, uint64, float32, float64:
		return cast.ToStringE(v)
	default:
		return "", fmt.Errorf("unsupported default literal of type %T", value)
	}
}

func columnList(m schema.Model) string {
	return quoteAll(m.ColumnNames())
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = quote(name)
	}
	return strings.Join(quoted, ", ")
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func sequenceName(table, column string) string {
	return table + "_" + column + "_seq"
}
