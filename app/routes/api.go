package routes

import (
	"github.com/shashiranjanraj/shirtshop/app/controllers"
	"github.com/shashiranjanraj/shirtshop/app/repositories"
	"github.com/shashiranjanraj/shirtshop/app/services"
	"github.com/shashiranjanraj/shirtshop/config"
	"github.com/shashiranjanraj/shirtshop/pkg/auth"
	"github.com/shashiranjanraj/shirtshop/pkg/ctx"
	"github.com/shashiranjanraj/shirtshop/pkg/middleware"
	"github.com/shashiranjanraj/shirtshop/pkg/rbac"
	"github.com/shashiranjanraj/shirtshop/pkg/router"
	"github.com/shashiranjanraj/shirtshop/pkg/storage"
	"github.com/shashiranjanraj/shirtshop/pkg/ws"
)

// Services is the set of application services the API is built on.
type Services struct {
	Auth        *services.AuthService
	Catalog     *services.CatalogService
	Cart        *services.CartService
	Fulfillment *services.FulfillmentService
	Address     *services.AddressService
	Stream      *ws.Hub
}

// NewServices builds every service over repo. disk receives uploaded
// images; nil disables uploads. Stream accepts browser origins from
// CORS_ORIGINS.
func NewServices(repo *repositories.Repository, disk storage.Disk) *Services {
	return &Services{
		Auth:        services.NewAuthService(repo),
		Catalog:     services.NewCatalogService(repo, disk),
		Cart:        services.NewCartService(repo),
		Fulfillment: services.NewFulfillmentService(repo),
		Address:     services.NewAddressService(repo),
		Stream:      ws.NewHub(middleware.DefaultCORSOptions(config.CORSOrigins()).AllowedOrigins),
	}
}

func RegisterAPI(r *router.Router, s *Services) {
	authController := controllers.NewAuthController(s.Auth)
	shirtController := controllers.NewShirtController(s.Catalog)
	addressController := controllers.NewAddressController(s.Address)
	cartController := controllers.NewCartController(s.Cart)
	adminController := controllers.NewAdminController(s.Fulfillment)
	streamController := controllers.NewStreamController(s.Stream)

	api := r.Group("/api")

	// ── Public ───────────────────────────────────────────────
	api.Post("/register", "auth.register", ctx.Wrap(authController.Register))
	api.Post("/login", "auth.login", ctx.Wrap(authController.Login))
	api.Post("/logout", "auth.logout", ctx.Wrap(authController.Logout))

	catalog := api.Group("", middleware.OptionalAuth)
	catalog.Get("/shirts", "shirts.index", ctx.Wrap(shirtController.Index))
	catalog.Get("/shirts/{id}", "shirts.show", ctx.Wrap(shirtController.Show))

	// ── Authenticated ────────────────────────────────────────
	user := api.Group("", middleware.Authenticate)
	user.Get("/check-session", "auth.session", ctx.Wrap(authController.CheckSession))

	user.Get("/address", "address.show", ctx.Wrap(addressController.Show))
	user.Put("/address", "address.update", ctx.Wrap(addressController.Update))

	user.Post("/cart/items", "cart.items.store", ctx.Wrap(cartController.AddItem))
	user.Get("/cart", "cart.show", ctx.Wrap(cartController.Show))
	user.Delete("/cart/items/{id}", "cart.items.destroy", ctx.Wrap(cartController.RemoveItem))
	user.Post("/checkout", "cart.checkout", ctx.Wrap(cartController.Checkout))
	user.Get("/orders/history", "orders.history", ctx.Wrap(cartController.History))
	user.Get("/orders/stream", "orders.stream", ctx.Wrap(streamController.Orders))

	// ── Admin ────────────────────────────────────────────────
	admin := api.Group("", middleware.Authenticate, rbac.HasRole(auth.RoleAdmin))
	admin.Post("/shirts", "shirts.store", ctx.Wrap(shirtController.Store))
	admin.Put("/shirts/{id}", "shirts.update", ctx.Wrap(shirtController.Update))
	admin.Delete("/shirts/{id}", "shirts.destroy", ctx.Wrap(shirtController.Destroy))
	admin.Post("/shirts/{id}/image", "shirts.image", ctx.Wrap(shirtController.UploadImage))

	admin.Get("/admin/orders", "admin.orders.index", ctx.Wrap(adminController.Orders))
	admin.Put("/admin/orders/{id}/status", "admin.orders.status", ctx.Wrap(adminController.UpdateStatus))
	admin.Get("/admin/address/{userId}", "admin.address.show", ctx.Wrap(adminController.Address))
}
