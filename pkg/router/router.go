// Package router wraps chi with named routes and middleware groups.
//
//	r := router.New()
//	api := r.Group("/api", middleware.Authenticate)
//	api.Post("/checkout", "cart.checkout", handler)
//	url, _ := r.URL("cart.checkout", nil)
package router

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

type Middleware func(http.Handler) http.Handler

// Route describes one registered endpoint, for route:list.
type Route struct {
	Method string
	Path   string
	Name   string
}

// Router is a root group plus the table of everything mounted on it.
type Router struct {
	base  *Group
	mux   chi.Router
	mu    sync.RWMutex
	names map[string]string
	table []Route
}

// Group mounts routes under a prefix behind a fixed middleware chain.
type Group struct {
	root   *Router
	prefix string
	mws    []Middleware
}

func New() *Router {
	r := &Router{mux: chi.NewRouter(), names: make(map[string]string)}
	r.base = &Group{root: r, prefix: "/"}
	return r
}

func (r *Router) Handler() http.Handler { return r.mux }

func (r *Router) Group(prefix string, mws ...Middleware) *Group { return r.base.Group(prefix, mws...) }

func (r *Router) Get(path, name string, h http.HandlerFunc, mws ...Middleware) {
	r.base.Get(path, name, h, mws...)
}

func (r *Router) Post(path, name string, h http.HandlerFunc, mws ...Middleware) {
	r.base.Post(path, name, h, mws...)
}

func (r *Router) Put(path, name string, h http.HandlerFunc, mws ...Middleware) {
	r.base.Put(path, name, h, mws...)
}

func (r *Router) Delete(path, name string, h http.HandlerFunc, mws ...Middleware) {
	r.base.Delete(path, name, h, mws...)
}

// Use adds global middleware. chi requires it before any route is mounted.
func (r *Router) Use(mws ...Middleware) {
	for _, mw := range mws {
		r.mux.Use(mw)
	}
}

// Handle mounts a plain http.Handler for every method (e.g. /metrics).
func (r *Router) Handle(path string, h http.Handler) {
	p := joinPath(path)
	r.mux.Handle(p, h)
	r.record(Route{Method: "*", Path: p})
}

// Routes returns every registered route sorted by path then method.
func (r *Router) Routes() []Route {
	r.mu.RLock()
	out := append([]Route(nil), r.table...)
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

func (r *Router) Path(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.names[name]
	return p, ok
}

// URL fills the {param} placeholders of a named route.
func (r *Router) URL(name string, params map[string]string) (string, error) {
	p, ok := r.Path(name)
	if !ok {
		return "", fmt.Errorf("router: route %q not found", name)
	}
	for k, v := range params {
		p = strings.ReplaceAll(p, "{"+k+"}", v)
	}
	if strings.Contains(p, "{") {
		return "", fmt.Errorf("router: missing parameters for route %q", name)
	}
	return p, nil
}

func (r *Router) record(rt Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table = append(r.table, rt)
	if rt.Name != "" {
		r.names[rt.Name] = rt.Path
	}
}

// Group returns a child group; its middleware runs after the parent's.
func (g *Group) Group(prefix string, mws ...Middleware) *Group {
	return &Group{root: g.root, prefix: joinPath(g.prefix, prefix), mws: g.with(mws)}
}

func (g *Group) Get(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.mount(http.MethodGet, path, name, h, mws)
}

func (g *Group) Post(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.mount(http.MethodPost, path, name, h, mws)
}

func (g *Group) Put(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.mount(http.MethodPut, path, name, h, mws)
}

func (g *Group) Delete(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.mount(http.MethodDelete, path, name, h, mws)
}

func (g *Group) with(extra []Middleware) []Middleware {
	return append(append([]Middleware(nil), g.mws...), extra...)
}

func (g *Group) mount(method, path, name string, h http.Handler, extra []Middleware) {
	p := joinPath(g.prefix, path)
	mws := g.with(extra)
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	g.root.mux.Method(method, p, h)
	g.root.record(Route{Method: method, Path: p, Name: name})
}

// joinPath joins segments into a clean absolute path; "" and "/" vanish.
func joinPath(parts ...string) string {
	segs := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := strings.Trim(part, "/"); s != "" {
			segs = append(segs, s)
		}
	}
	return "/" + strings.Join(segs, "/")
}
