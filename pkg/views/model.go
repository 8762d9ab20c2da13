package views

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/goliatone/go-modelform/pkg/schema"
	"github.com/goliatone/go-modelform/pkg/store"
)

// ModelView binds a model to the session that persists it. It holds
// references only; the session belongs to the host application.
type ModelView struct {
	Session store.Session
	Model   schema.Model
}

// InstancesGetter supplies the instances a list view shows.
type InstancesGetter interface {
	ModelInstances(r *http.Request) ([]store.Record, error)
}

// InstanceGetter supplies the single instance a detail, update or delete view
// works on. Implementations report a missing instance with store.ErrNotFound.
type InstanceGetter interface {
	ModelInstance(r *http.Request) (store.Record, error)
}

// AllInstances lists every stored instance of the model.
type AllInstances struct {
	ModelView
}

func (g AllInstances) ModelInstances(r *http.Request) ([]store.Record, error) {
	if g.Session == nil {
		return nil, fmt.Errorf("%w: session", ErrNotImplemented)
	}
	return g.Session.List(r.Context(), g.Model)
}

// ParamFunc reads a named URL parameter from a request.
type ParamFunc func(r *http.Request, name string) string

// RouterParam reads parameters stored by httprouter.
func RouterParam(r *http.Request, name string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(name)
}

// InstanceByParam loads the instance whose primary key is the URL parameter
// named Param ("id" when empty).
type InstanceByParam struct {
	ModelView
	Param  string
	Params ParamFunc
}

func (g InstanceByParam) ModelInstance(r *http.Request) (store.Record, error) {
	if g.Session == nil {
		return nil, fmt.Errorf("%w: session", ErrNotImplemented)
	}
	name := g.Param
	if name == "" {
		name = "id"
	}
	params := g.Params
	if params == nil {
		params = RouterParam
	}

	raw := params(r, name)
	if raw == "" {
		return nil, fmt.Errorf("%w: missing %q parameter", store.ErrNotFound, name)
	}
	key, err := store.ParseKey(g.Model, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}
	return g.Session.Get(r.Context(), g.Model, key)
}

// ReadModelView renders a template with every instance under "instances"
// (or ContextName).
type ReadModelView struct {
	TemplateView
	Instances   InstancesGetter
	ContextName string
}

func (v *ReadModelView) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if v.Instances == nil {
		fail(w, r, v.Logger, http.StatusInternalServerError, fmt.Errorf("%w: instances getter", ErrNotImplemented))
		return
	}

	name, ctx, err := v.RenderContext(r)
	if err != nil {
		fail(w, r, v.Logger, http.StatusInternalServerError, err)
		return
	}
	instances, err := v.Instances.ModelInstances(r)
	if err != nil {
		fail(w, r, v.Logger, http.StatusInternalServerError, err)
		return
	}
	if instances == nil {
		instances = []store.Record{}
	}

	ctx[orDefault(v.ContextName, "instances")] = instances
	v.render(w, r, name, ctx, http.StatusOK)
}

// ReadOneModelView renders a template with one instance under "instance"
// (or ContextName). A missing instance answers 404.
type ReadOneModelView struct {
	TemplateView
	Instance    InstanceGetter
	ContextName string
}

func (v *ReadOneModelView) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	instance, ok := loadInstance(w, r, v.Instance, &v.TemplateView)
	if !ok {
		return
	}

	name, ctx, err := v.RenderContext(r)
	if err != nil {
		fail(w, r, v.Logger, http.StatusInternalServerError, err)
		return
	}
	ctx[orDefault(v.ContextName, "instance")] = instance
	v.render(w, r, name, ctx, http.StatusOK)
}

// loadInstance resolves the instance for r, answering the request itself when
// that is impossible.
func loadInstance(w http.ResponseWriter, r *http.Request, getter InstanceGetter, view *TemplateView) (store.Record, bool) {
	if getter == nil {
		fail(w, r, view.Logger, http.StatusInternalServerError, fmt.Errorf("%w: instance getter", ErrNotImplemented))
		return nil, false
	}
	instance, err := getter.ModelInstance(r)
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.NotFound(w, r)
		return nil, false
	case err != nil:
		fail(w, r, view.Logger, http.StatusInternalServerError, err)
		return nil, false
	}
	return instance, true
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
