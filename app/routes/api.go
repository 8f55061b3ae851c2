// Package routes registers the HTTP surface under /api.
package routes

import (
	"github.com/hbdiaz/ferremat/app/controllers"
	"github.com/hbdiaz/ferremat/app/models"
	"github.com/hbdiaz/ferremat/app/services"
	"github.com/hbdiaz/ferremat/pkg/ctx"
	"github.com/hbdiaz/ferremat/pkg/metrics"
	"github.com/hbdiaz/ferremat/pkg/middleware"
	"github.com/hbdiaz/ferremat/pkg/rbac"
	"github.com/hbdiaz/ferremat/pkg/router"
	"gorm.io/gorm"
)

// RegisterAPI wires controllers onto the router. db may be nil for dry
// registrations (route:list) where handlers are never invoked.
func RegisterAPI(r *router.Router, db *gorm.DB) {
	authCtrl := controllers.NewAuthController(services.NewAuthService(db))
	userCtrl := controllers.NewUserController(services.NewUserService(db))
	productCtrl := controllers.NewProductController(services.NewProductService(db))
	reviewCtrl := controllers.NewReviewController(services.NewReviewService(db))
	orderCtrl := controllers.NewOrderController(services.NewOrderService(db))

	admin := rbac.HasRole(models.RolAdministrador)

	api := r.Group("/api")

	// Auth (public)
	api.Post("/auth/register", "auth.register", ctx.Wrap(authCtrl.Register))
	api.Post("/auth/login", "auth.login", ctx.Wrap(authCtrl.Login))

	// Products: catalogue is public, mutations are admin-only.
	api.Get("/products", "products.index", ctx.Wrap(productCtrl.Index))
	api.Get("/products/{id}", "products.show", ctx.Wrap(productCtrl.Show))

	productsAdmin := api.Group("/products", middleware.Auth, admin)
	productsAdmin.Post("", "products.store", ctx.Wrap(productCtrl.Store))
	productsAdmin.Patch("/{id}", "products.update", ctx.Wrap(productCtrl.Update))
	productsAdmin.Delete("/{id}", "products.destroy", ctx.Wrap(productCtrl.Destroy))
	productsAdmin.Post("/{id}/imagen", "products.imagen", ctx.Wrap(productCtrl.UploadImage))

	// Reviews: listing is public, writing needs auth.
	api.Get("/reviews/product/{productId}", "reviews.byProduct", ctx.Wrap(reviewCtrl.ByProduct))

	reviews := api.Group("/reviews", middleware.Auth)
	reviews.Get("/product/{productId}/mine", "reviews.mine", ctx.Wrap(reviewCtrl.Mine))
	reviews.Post("", "reviews.store", ctx.Wrap(reviewCtrl.Store))
	reviews.Patch("/{id}", "reviews.update", ctx.Wrap(reviewCtrl.Update))
	reviews.Delete("/{id}", "reviews.destroy", ctx.Wrap(reviewCtrl.Destroy))

	// Orders (auth). /stats is registered before /{id} so "stats" never
	// parses as an order id.
	orders := api.Group("/orders", middleware.Auth)
	orders.Get("/stats", "orders.stats", ctx.Wrap(orderCtrl.Stats), admin)
	orders.Post("", "orders.store", ctx.Wrap(orderCtrl.Store))
	orders.Get("", "orders.index", ctx.Wrap(orderCtrl.Index))
	orders.Get("/{id}", "orders.show", ctx.Wrap(orderCtrl.Show))
	orders.Patch("/{id}/status", "orders.updateStatus", ctx.Wrap(orderCtrl.UpdateStatus), admin)
	orders.Delete("/{id}", "orders.cancel", ctx.Wrap(orderCtrl.Cancel))

	// Users (auth; list/delete admin-guarded in the service).
	users := api.Group("/users", middleware.Auth)
	users.Get("", "users.index", ctx.Wrap(userCtrl.Index), admin)
	users.Get("/{id}", "users.show", ctx.Wrap(userCtrl.Show))
	users.Patch("/{id}", "users.update", ctx.Wrap(userCtrl.Update))
	users.Delete("/{id}", "users.destroy", ctx.Wrap(userCtrl.Destroy), admin)

	// Prometheus scrape endpoint.
	r.HandleFunc("/metrics", metrics.Handler())
}
