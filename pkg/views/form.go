package views

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/goliatone/go-modelform/pkg/model"
	"github.com/goliatone/go-modelform/pkg/render"
	"github.com/goliatone/go-modelform/pkg/store"
	"github.com/goliatone/go-modelform/pkg/validation"
)

// SaveFunc persists a valid submission and returns the stored record, if any.
type SaveFunc func(r *http.Request, result validation.Result) (store.Record, error)

// FormView shows a derived form on GET and validates it on POST.
//
// The form HTML produced by Renderer is placed in the template context under
// "form" (templates print it with the safe filter) next to "errors" and
// "values". Without a template name the form HTML is written as the whole
// response. An invalid submission re-renders with 422; a valid one calls
// OnValid and redirects with 303 to SuccessURLFunc, SuccessURL, or the
// request path.
type FormView struct {
	TemplateView
	Form           model.Form
	Renderer       render.Renderer
	Validator      *validation.Validator
	RenderOptions  render.RenderOptions
	OnValid        SaveFunc
	SuccessURL     string
	SuccessURLFunc func(r *http.Request, record store.Record) string
}

func (v *FormView) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	v.serve(w, r, nil, v.OnValid)
}

func (v *FormView) serve(w http.ResponseWriter, r *http.Request, initial store.Record, save SaveFunc) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		values := make(map[string]any, len(initial))
		for key, value := range initial {
			values[key] = value
		}
		v.renderForm(w, r, values, nil, http.StatusOK)

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		result := v.validate(r.PostForm)
		if !result.Valid() {
			v.logger().Debug("form submission rejected", "form", v.Form.Name, "errors", result.Errors)
			v.renderForm(w, r, submitted(r.PostForm), result.Errors, http.StatusUnprocessableEntity)
			return
		}

		var record store.Record
		if save != nil {
			var err error
			record, err = save(r, result)
			switch {
			case errors.Is(err, store.ErrNotFound):
				http.NotFound(w, r)
				return
			case err != nil:
				fail(w, r, v.Logger, http.StatusInternalServerError, fmt.Errorf("views: save %s: %w", v.Form.Name, err))
				return
			}
		}
		http.Redirect(w, r, v.successURL(r, record), http.StatusSeeOther)

	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (v *FormView) validate(values url.Values) validation.Result {
	if v.Validator != nil {
		return v.Validator.Validate(v.Form, values)
	}
	return validation.Validate(v.Form, values)
}

func (v *FormView) renderForm(w http.ResponseWriter, r *http.Request, values map[string]any, errs map[string][]string, status int) {
	if v.Renderer == nil {
		fail(w, r, v.Logger, http.StatusInternalServerError, fmt.Errorf("%w: form renderer", ErrNotImplemented))
		return
	}

	opts := v.RenderOptions
	opts.Values = values
	opts.Errors = errs
	if len(v.RenderOptions.Hidden) > 0 {
		opts.Hidden = make(map[string]string, len(v.RenderOptions.Hidden))
		for key, value := range v.RenderOptions.Hidden {
			opts.Hidden[key] = value
		}
	}

	html, err := v.Renderer.Render(r.Context(), v.Form, opts)
	if err != nil {
		fail(w, r, v.Logger, http.StatusInternalServerError, fmt.Errorf("views: render form %s: %w", v.Form.Name, err))
		return
	}

	name, ctx, err := v.RenderContext(r)
	if err != nil {
		fail(w, r, v.Logger, http.StatusInternalServerError, err)
		return
	}
	if name == "" {
		writeBody(w, v.Renderer.ContentType(), status, string(html))
		return
	}

	ctx["form"] = string(html)
	ctx["errors"] = errs
	ctx["values"] = values
	v.render(w, r, name, ctx, status)
}

func (v *FormView) successURL(r *http.Request, record store.Record) string {
	if v.SuccessURLFunc != nil {
		if target := v.SuccessURLFunc(r, record); target != "" {
			return target
		}
	}
	if v.SuccessURL != "" {
		return v.SuccessURL
	}
	return r.URL.Path
}

// submitted keeps the first value of each submitted key so a rejected form
// shows what the user typed.
func submitted(values url.Values) map[string]any {
	out := make(map[string]any, len(values))
	for key, items := range values {
		if len(items) > 0 {
			out[key] = items[0]
		}
	}
	return out
}

// CreateModelView inserts a new instance from a valid submission.
type CreateModelView struct {
	FormView
	ModelView
}

func (v *CreateModelView) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if v.Session == nil {
		fail(w, r, v.Logger, http.StatusInternalServerError, fmt.Errorf("%w: session", ErrNotImplemented))
		return
	}
	v.serve(w, r, nil, func(r *http.Request, result validation.Result) (store.Record, error) {
		record, err := v.Session.Insert(r.Context(), v.Model, store.Record(result.Values))
		if err != nil {
			return nil, err
		}
		v.logger().Info("instance created", "model", v.Model.Name)
		if v.OnValid != nil {
			if _, err := v.OnValid(r, result); err != nil {
				return nil, err
			}
		}
		return record, nil
	})
}

// UpdateModelView edits the instance supplied by Instance. GET prefills the
// form from the stored values.
type UpdateModelView struct {
	FormView
	ModelView
	Instance InstanceGetter
}

func (v *UpdateModelView) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if v.Session == nil {
		fail(w, r, v.Logger, http.StatusInternalServerError, fmt.Errorf("%w: session", ErrNotImplemented))
		return
	}
	instance, ok := loadInstance(w, r, v.Instance, &v.TemplateView)
	if !ok {
		return
	}

	v.serve(w, r, instance, func(r *http.Request, result validation.Result) (store.Record, error) {
		key, err := instance.Key(v.Model)
		if err != nil {
			return nil, err
		}
		if err := v.Session.Update(r.Context(), v.Model, key, store.Record(result.Values)); err != nil {
			return nil, err
		}
		v.logger().Info("instance updated", "model", v.Model.Name, "key", key)

		updated := instance.Clone()
		for name, value := range result.Values {
			updated[name] = value
		}
		if v.OnValid != nil {
			if _, err := v.OnValid(r, result); err != nil {
				return nil, err
			}
		}
		return updated, nil
	})
}

// DeleteModelView deletes the instance supplied by Instance on POST. GET
// renders the confirmation template with the instance under "instance".
type DeleteModelView struct {
	TemplateView
	ModelView
	Instance       InstanceGetter
	SuccessURL     string
	SuccessURLFunc func(r *http.Request, record store.Record) string
}

func (v *DeleteModelView) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if v.Session == nil {
		fail(w, r, v.Logger, http.StatusInternalServerError, fmt.Errorf("%w: session", ErrNotImplemented))
		return
	}
	instance, ok := loadInstance(w, r, v.Instance, &v.TemplateView)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		name, ctx, err := v.RenderContext(r)
		if err != nil {
			fail(w, r, v.Logger, http.StatusInternalServerError, err)
			return
		}
		ctx["instance"] = instance
		v.render(w, r, name, ctx, http.StatusOK)

	case http.MethodPost:
		key, err := instance.Key(v.Model)
		if err != nil {
			fail(w, r, v.Logger, http.StatusInternalServerError, err)
			return
		}
		err = v.Session.Delete(r.Context(), v.Model, key)
		switch {
		case errors.Is(err, store.ErrNotFound):
			http.NotFound(w, r)
			return
		case err != nil:
			fail(w, r, v.Logger, http.StatusInternalServerError, err)
			return
		}
		v.logger().Info("instance deleted", "model", v.Model.Name, "key", key)

		target := v.SuccessURL
		if v.SuccessURLFunc != nil {
			target = v.SuccessURLFunc(r, instance)
		}
		if target == "" {
			target = "/"
		}
		http.Redirect(w, r, target, http.StatusSeeOther)

	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}
