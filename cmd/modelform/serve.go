package main

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/iancoleman/strcase"
	"github.com/julienschmidt/httprouter"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-modelform/pkg/log"
	"github.com/goliatone/go-modelform/pkg/orchestrator"
	"github.com/goliatone/go-modelform/pkg/render"
	"github.com/goliatone/go-modelform/pkg/render/template"
	"github.com/goliatone/go-modelform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-modelform/pkg/renderers/vanilla"
	"github.com/goliatone/go-modelform/pkg/schema"
	"github.com/goliatone/go-modelform/pkg/store"
	"github.com/goliatone/go-modelform/pkg/store/sqlstore"
	"github.com/goliatone/go-modelform/pkg/views"
)

//go:embed templates/*.tmpl
var pageFS embed.FS

const shutdownTimeout = 5 * time.Second

func (a *app) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve CRUD pages for every model backed by DuckDB",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.requireModels(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			db, err := sql.Open("duckdb", a.cfg.Database)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			handler, err := a.handler(ctx, db)
			if err != nil {
				return err
			}
			return a.listenAndServe(ctx, handler)
		},
	}

	flags := cmd.Flags()
	flags.String("database", "", "DuckDB database file (in-memory when empty)")
	flags.String("templates", "", "directory with page templates overriding the built-in ones")
	flags.String("addr", ":8080", "address to listen on")
	flags.Duration("read-timeout", 10*time.Second, "HTTP read timeout")
	flags.Bool("request-logging", false, "log every request")
	return cmd
}

// handler creates the tables for every model and mounts its CRUD views.
func (a *app) handler(ctx context.Context, db *sql.DB) (http.Handler, error) {
	forms, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	orch, err := a.orchestrator(ctx, forms)
	if err != nil {
		return nil, err
	}
	pages, err := a.pageTemplates()
	if err != nil {
		return nil, err
	}
	session := sqlstore.New(db, sqlstore.WithLogger(a.logger))

	router := httprouter.New()
	var links []map[string]string
	for _, m := range orch.Catalog().Models() {
		routes, err := a.mountModel(ctx, router, orch, pages, forms, session, m)
		if err != nil {
			return nil, err
		}
		if routes == "" {
			continue
		}
		links = append(links, map[string]string{"name": m.Name, "path": routes})
	}
	router.Handler(http.MethodGet, "/", &views.TemplateView{
		Templates:    pages,
		TemplateName: "index",
		Context:      map[string]any{"models": links},
		Logger:       a.logger,
	})

	var h http.Handler = router
	if a.cfg.RequestLogging {
		h = log.NewLoggingHandler(h, a.logger)
	}
	return h, nil
}

// mountModel registers the list, detail, create, update and delete views of
// m and returns the list path. Models without a primary key or with columns
// no form can represent are skipped.
func (a *app) mountModel(
	ctx context.Context,
	router *httprouter.Router,
	orch *orchestrator.Orchestrator,
	pages template.TemplateRenderer,
	forms render.Renderer,
	session *sqlstore.Session,
	m schema.Model,
) (string, error) {
	pk, err := m.PrimaryKey()
	if err != nil {
		a.logger.Warn("model skipped", "model", m.Name, "error", err)
		return "", nil
	}
	form, err := orch.Form(ctx, orchestrator.Request{Model: m, Fields: editableColumns(m)})
	if err != nil {
		a.logger.Warn("model skipped", "model", m.Name, "error", err)
		return "", nil
	}
	if err := session.CreateTable(ctx, m); err != nil {
		return "", err
	}

	base := "/" + strcase.ToKebab(m.TableName())
	createPath := "/create" + base
	pageContext := map[string]any{
		"model":       m.Name,
		"columns":     m.ColumnNames(),
		"primary_key": pk.Name,
		"base_path":   base,
		"create_path": createPath,
	}
	page := func(name string, extra map[string]any) views.TemplateView {
		ctx := make(map[string]any, len(pageContext)+len(extra))
		for key, value := range pageContext {
			ctx[key] = value
		}
		for key, value := range extra {
			ctx[key] = value
		}
		return views.TemplateView{Templates: pages, TemplateName: name, Context: ctx, Logger: a.logger}
	}

	mv := views.ModelView{Session: session, Model: m}
	byKey := views.InstanceByParam{ModelView: mv}
	detailURL := func(_ *http.Request, record store.Record) string {
		return fmt.Sprintf("%s/%v", base, record[pk.Name])
	}

	router.Handler(http.MethodGet, base, &views.ReadModelView{
		TemplateView: page("list", nil),
		Instances:    views.AllInstances{ModelView: mv},
	})
	router.Handler(http.MethodGet, base+"/:id", &views.ReadOneModelView{
		TemplateView: page("detail", nil),
		Instance:     byKey,
	})

	create := &views.CreateModelView{
		FormView: views.FormView{
			TemplateView:   page("form", map[string]any{"heading": "New " + m.Name}),
			Form:           form,
			Renderer:       forms,
			SuccessURLFunc: detailURL,
		},
		ModelView: mv,
	}
	update := &views.UpdateModelView{
		FormView: views.FormView{
			TemplateView:   page("form", map[string]any{"heading": "Edit " + m.Name}),
			Form:           form,
			Renderer:       forms,
			SuccessURLFunc: detailURL,
		},
		ModelView: mv,
		Instance:  byKey,
	}
	remove := &views.DeleteModelView{
		TemplateView: page("confirm", nil),
		ModelView:    mv,
		Instance:     byKey,
		SuccessURL:   base,
	}
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		router.Handler(method, createPath, create)
		router.Handler(method, base+"/:id/edit", update)
		router.Handler(method, base+"/:id/delete", remove)
	}

	a.logger.Debug("model mounted", "model", m.Name, "path", base)
	return base, nil
}

// editableColumns excludes integer primary keys, which the database assigns.
func editableColumns(m schema.Model) []string {
	names := make([]string, 0, len(m.Columns))
	for _, column := range m.Columns {
		if column.PrimaryKey && column.Type == schema.TypeInteger {
			continue
		}
		names = append(names, column.Name)
	}
	return names
}

// pageTemplates serves pages from the --templates directory first and falls
// back to the embedded defaults.
func (a *app) pageTemplates() (*gotemplate.Engine, error) {
	embedded, err := fs.Sub(pageFS, "templates")
	if err != nil {
		return nil, err
	}
	options := []gotemplate.Option{
		gotemplate.WithFS(embedded),
		gotemplate.WithFilters(map[string]gotemplate.FilterFunc{"field": fieldFilter}),
	}
	if a.cfg.Templates != "" {
		options = append(options, gotemplate.WithBaseDir(a.cfg.Templates))
		if a.cfg.Debug {
			options = append(options, gotemplate.WithoutCache())
		}
	}
	return gotemplate.New(options...)
}

// fieldFilter looks a column up in a record: {{ instance|field:column }}.
func fieldFilter(input any, param any) (any, error) {
	record, ok := input.(map[string]any)
	if !ok {
		return "", nil
	}
	name, ok := param.(string)
	if !ok {
		return nil, fmt.Errorf("field filter expects a column name, got %T", param)
	}
	if value, ok := record[name]; ok && value != nil {
		return value, nil
	}
	return "", nil
}

func (a *app) listenAndServe(ctx context.Context, handler http.Handler) error {
	server := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           handler,
		ReadTimeout:       a.cfg.ReadTimeout,
		ReadHeaderTimeout: a.cfg.ReadTimeout,
	}

	errs := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", "addr", a.cfg.Addr)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", a.cfg.Addr, err)
	case <-ctx.Done():
		a.logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
