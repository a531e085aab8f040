// Package ctx provides a gin.Context-inspired request context for handlers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context with helper methods:
//
//	func (ctl *CartController) Show(c *ctx.Context) {
//	    items, err := ctl.cart.GetCart(c.Context(), c.Identity())
//	    if err != nil {
//	        c.Fail(err)
//	        return
//	    }
//	    c.Success(items)
//	}
//
//	router.Get("/cart", "cart.show", ctx.Wrap(ctl.Show))
package ctx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/shirtshop/config"
	"github.com/shashiranjanraj/shirtshop/pkg/apperr"
	"github.com/shashiranjanraj/shirtshop/pkg/auth"
	"github.com/shashiranjanraj/shirtshop/pkg/response"
	"github.com/shashiranjanraj/shirtshop/pkg/validate"
)

// defaultMaxBody caps JSON request bodies when MAX_BODY_BYTES is unset.
const defaultMaxBody = 1 << 20

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

// ─── Context ──────────────────────────────────────────────────────────────────

// Context wraps a request/response pair and provides a rich helper API.
type Context struct {
	W http.ResponseWriter
	R *http.Request
}

var pool = sync.Pool{
	New: func() any { return new(Context) },
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

// ParamUint parses a numeric path parameter. A missing, zero or malformed
// value is reported as a validation error naming the parameter.
func (c *Context) ParamUint(key string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		return 0, apperr.Validation(fmt.Sprintf("invalid %s", key))
	}
	return uint(n), nil
}

// Query returns a query-string value. Returns "" if not present.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Identity returns the authenticated caller. Handlers mounted behind
// middleware.Authenticate always have one; elsewhere the zero Identity is
// returned.
func (c *Context) Identity() auth.Identity {
	id, _ := auth.FromContext(c.R.Context())
	return id
}

// ─── Binding / Validation ─────────────────────────────────────────────────────

// BindJSON decodes the JSON body into dest and runs validation.
// On failure it writes a 400 response and returns false.
//
//	var input addItemInput
//	if !c.BindJSON(&input) {
//	    return // response already sent
//	}
func (c *Context) BindJSON(dest any) bool {
	limit := int64(config.Int("MAX_BODY_BYTES", defaultMaxBody))
	if limit <= 0 {
		limit = defaultMaxBody
	}
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, limit)

	dec := json.NewDecoder(c.R.Body)
	if err := dec.Decode(dest); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			c.Error(http.StatusRequestEntityTooLarge, fmt.Sprintf("request body too large (max %d bytes)", tooLarge.Limit))
		case errors.Is(err, io.EOF):
			c.Error(http.StatusBadRequest, "request body is empty")
		default:
			c.Error(http.StatusBadRequest, "invalid JSON: "+err.Error())
		}
		return false
	}
	if dec.More() {
		c.Error(http.StatusBadRequest, "invalid JSON: unexpected data after the object")
		return false
	}

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// SetCookie sets an HttpOnly, SameSite=Lax cookie on the response.
// A negative maxAge deletes the cookie.
func (c *Context) SetCookie(name, value string, maxAge int, secure bool) {
	http.SetCookie(c.W, &http.Cookie{
		Name:     name,
		Value:    value,
		MaxAge:   maxAge,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// JSON writes an envelope with the given status code.
func (c *Context) JSON(code int, body response.Envelope) { response.Write(c.W, code, body) }

// Success sends a 200 envelope: {"status":200,"data":...}
func (c *Context) Success(data any) { response.Data(c.W, http.StatusOK, data) }

func (c *Context) Created(data any) { response.Data(c.W, http.StatusCreated, data) }

// Message sends a 200 envelope carrying only a message.
func (c *Context) Message(message string) {
	c.JSON(http.StatusOK, response.Envelope{Message: message})
}

func (c *Context) Error(code int, message string) { response.Error(c.W, code, message) }

// ValidationError sends a 400 with field-level errors.
func (c *Context) ValidationError(errs map[string]string) { response.Invalid(c.W, errs) }

// Fail writes err using its apperr kind. Internal errors are logged and
// never echoed to the client.
func (c *Context) Fail(err error) { response.FromError(c.Context(), c.W, err) }
