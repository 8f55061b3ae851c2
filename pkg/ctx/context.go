// Package ctx provides the request context handed to controllers. Instead of
// (http.ResponseWriter, *http.Request), a handler receives a single *Context
// with helpers for binding, params, the authenticated caller, and the JSON
// response envelope:
//
//	func (c *OrderController) Show(cx *ctx.Context) {
//	    id, _ := cx.ParamUint("id")
//	    ...
//	    cx.Success("Orden obtenida exitosamente", order)
//	}
//
// Register with ctx.Wrap:
//
//	r.Get("/orders/{id}", "orders.show", ctx.Wrap(controller.Show))
package ctx

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/hbdiaz/ferremat/pkg/auth"
	"github.com/hbdiaz/ferremat/pkg/bind"
	"github.com/hbdiaz/ferremat/pkg/response"
	"github.com/hbdiaz/ferremat/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W http.ResponseWriter
	R *http.Request
}

// pool recycles Context objects to reduce GC pressure.
var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter (e.g. "/orders/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a URL path parameter as an unsigned integer id.
func (c *Context) ParamUint(key string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	return uint(n), err
}

// Query returns a query-string value. Returns "" if not present.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// FormFile returns the uploaded file for a multipart form field.
func (c *Context) FormFile(key string) (multipart.File, *multipart.FileHeader, error) {
	return c.R.FormFile(key)
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Caller returns the authenticated caller placed in the request context by
// the auth middleware. ok is false on unauthenticated routes.
func (c *Context) Caller() (auth.Caller, bool) {
	return auth.CallerFromCtx(c.R.Context())
}

// ─── Binding ──────────────────────────────────────────────────────────────────

// BindJSON decodes the JSON body into dest and runs validation.
// On failure it writes the error response and returns false; the handler
// should return immediately.
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if validate.HasErrors(errs) {
		response.ValidationError(c.W, errs)
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes an arbitrary JSON body with the given status code.
func (c *Context) JSON(code int, v any) {
	response.Write(c.W, code, response.Envelope{Status: code, Data: v})
}

// Success sends a 200 envelope with message and data.
func (c *Context) Success(message string, data any) {
	response.Success(c.W, message, data)
}

// Created sends a 201 envelope with message and data.
func (c *Context) Created(message string, data any) {
	response.Created(c.W, message, data)
}

// Error sends an error envelope with the given status and message.
func (c *Context) Error(code int, message string, details ...any) {
	response.Error(c.W, code, message, details...)
}

// NotFound sends a 404 with the given message.
func (c *Context) NotFound(message string) {
	c.Error(http.StatusNotFound, message)
}

// Forbidden sends a 403 with the given message.
func (c *Context) Forbidden(message string) {
	c.Error(http.StatusForbidden, message)
}
