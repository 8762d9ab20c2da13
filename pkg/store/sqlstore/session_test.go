package sqlstore_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-modelform/pkg/schema"
	"github.com/goliatone/go-modelform/pkg/store"
	"github.com/goliatone/go-modelform/pkg/store/sqlstore"
)

func noteModel() schema.Model {
	m := schema.NewModel("Note",
		schema.Integer("id").Key(),
		schema.String("title", 100),
		schema.Enum("status", "draft", "published").WithDefault("draft"),
		schema.Integer("views").Null(),
		schema.Of("featured", schema.TypeBoolean).Null(),
		schema.Of("published_on", schema.TypeDate).Null(),
	)
	m.Table = "notes"
	return m
}

func openSession(t *testing.T) (*sqlstore.Session, schema.Model) {
	t.Helper()

	db, err := sql.Open("duckdb", "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	session := sqlstore.New(db)
	m := noteModel()
	require.NoError(t, session.CreateTable(context.Background(), m))
	return session, m
}

func TestSession_InsertAppliesDefaultsAndKeys(t *testing.T) {
	session, m := openSession(t)
	ctx := context.Background()

	first, err := session.Insert(ctx, m, store.Record{"title": "Hello", "views": "3", "ignored": true})
	require.NoError(t, err)
	second, err := session.Insert(ctx, m, store.Record{"title": "World", "status": "published"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first["id"])
	assert.Equal(t, "draft", first["status"])
	assert.Equal(t, int64(3), first["views"])
	assert.Nil(t, first["featured"])
	assert.Equal(t, int64(2), second["id"])
	assert.Equal(t, "published", second["status"])
	assert.NotContains(t, first, "ignored")
}

func TestSession_ListOrdersByKey(t *testing.T) {
	session, m := openSession(t)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		_, err := session.Insert(ctx, m, store.Record{"title": title})
		require.NoError(t, err)
	}

	records, err := session.List(ctx, m)
	require.NoError(t, err)
	require.Len(t, records, 3)

	var titles []string
	for _, rec := range records {
		titles = append(titles, rec["title"].(string))
	}
	assert.Equal(t, []string{"a", "b", "c"}, titles)
}

func TestSession_GetUpdateDelete(t *testing.T) {
	session, m := openSession(t)
	ctx := context.Background()

	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	created, err := session.Insert(ctx, m, store.Record{"title": "Draft", "published_on": day})
	require.NoError(t, err)
	key := created["id"]

	got, err := session.Get(ctx, m, key)
	require.NoError(t, err)
	assert.Equal(t, "Draft", got["title"])
	publishedOn, ok := got["published_on"].(time.Time)
	require.True(t, ok, "published_on is %T", got["published_on"])
	assert.Equal(t, "2024-05-01", publishedOn.Format("2006-01-02"))

	err = session.Update(ctx, m, key, store.Record{"id": int64(99), "title": "Final", "featured": true})
	require.NoError(t, err)

	got, err = session.Get(ctx, m, key)
	require.NoError(t, err)
	assert.Equal(t, "Final", got["title"])
	assert.Equal(t, true, got["featured"])
	assert.Equal(t, key, got["id"])

	require.NoError(t, session.Delete(ctx, m, key))
	_, err = session.Get(ctx, m, key)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestSession_MissingRowsReportNotFound(t *testing.T) {
	session, m := openSession(t)
	ctx := context.Background()

	err := session.Update(ctx, m, int64(404), store.Record{"title": "x"})
	assert.True(t, errors.Is(err, store.ErrNotFound))

	err = session.Delete(ctx, m, int64(404))
	assert.True(t, errors.Is(err, store.ErrNotFound))

	err = session.Update(ctx, m, int64(404), store.Record{})
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestSession_CreateTableRejectsUnknownTypes(t *testing.T) {
	db, err := sql.Open("duckdb", "")
	require.NoError(t, err)
	defer db.Close()

	m := schema.NewModel("Odd", schema.Integer("id").Key(), schema.Of("ratio", "Float"))
	err = sqlstore.New(db).CreateTable(context.Background(), m)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Float"))
}

type recordingLogger struct {
	statements []string
}

func (l *recordingLogger) Debug(msg string, kv ...any) {
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i] == "sql" {
			l.statements = append(l.statements, kv[i+1].(string))
		}
	}
}
func (l *recordingLogger) Info(string, ...any)  {}
func (l *recordingLogger) Warn(string, ...any)  {}
func (l *recordingLogger) Error(string, ...any) {}

func TestSession_DollarPlaceholders(t *testing.T) {
	db, err := sql.Open("duckdb", "")
	require.NoError(t, err)
	defer db.Close()

	logger := &recordingLogger{}
	session := sqlstore.New(db, sqlstore.WithPlaceholder(sqlstore.Dollar), sqlstore.WithLogger(logger))
	m := noteModel()
	ctx := context.Background()
	require.NoError(t, session.CreateTable(ctx, m))

	rec, err := session.Insert(ctx, m, store.Record{"title": "One", "views": 1})
	require.NoError(t, err)
	require.NoError(t, session.Update(ctx, m, rec["id"], store.Record{"title": "Two", "views": 2}))

	last := logger.statements[len(logger.statements)-1]
	assert.Equal(t, `UPDATE "notes" SET "title" = $1, "views" = $2 WHERE "id" = $3`, last)
}
