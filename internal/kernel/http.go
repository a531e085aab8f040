// Package kernel assembles the storefront's HTTP handler: the global
// middleware stack, the metrics endpoint, uploaded image serving and the
// API routes.
package kernel

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shashiranjanraj/shirtshop/app/routes"
	"github.com/shashiranjanraj/shirtshop/config"
	"github.com/shashiranjanraj/shirtshop/pkg/metrics"
	"github.com/shashiranjanraj/shirtshop/pkg/middleware"
	"github.com/shashiranjanraj/shirtshop/pkg/reqid"
	"github.com/shashiranjanraj/shirtshop/pkg/router"
	"github.com/shashiranjanraj/shirtshop/pkg/storage"
)

// NewRouter builds the router with every route registered. disk is the
// image disk; when it is a local disk its files are served as well.
func NewRouter(s *routes.Services, disk storage.Disk) *router.Router {
	r := router.New()

	// Outermost first:
	//  1. metrics    total latency per route pattern
	//  2. request id before anything logs
	//  3. logger     injects the request-scoped logger
	//  4. recovery   logs panics through that logger
	//  5. CORS
	//  6. rate limit
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.CORSOrigins())))
	r.Use(middleware.RateLimit(config.RateLimit(), time.Minute))

	r.Handle("/metrics", metrics.Handler())

	if local, ok := disk.(*storage.LocalDisk); ok {
		prefix := storagePrefix(config.StorageURL())
		r.Handle(prefix+"/*", http.StripPrefix(prefix, local.Handler()))
	}

	routes.RegisterAPI(r, s)
	return r
}

// NewHandler is NewRouter's http.Handler.
func NewHandler(s *routes.Services, disk storage.Disk) http.Handler {
	return NewRouter(s, disk).Handler()
}

// storagePrefix is the path part of the public storage URL, "/storage" by
// default.
func storagePrefix(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || strings.Trim(u.Path, "/") == "" {
		return "/storage"
	}
	return "/" + strings.Trim(u.Path, "/")
}
