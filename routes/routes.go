package routes

import (
	"net/http"

	"solemart/admin"
	"solemart/auth"
	"solemart/brands"
	"solemart/cart"
	"solemart/checkout"
	"solemart/middleware"
	"solemart/orders"
	"solemart/products"
	"solemart/ratelim"
	"solemart/wishlist"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/productpic/*filepath", http.Dir("static/productpic"))
	router.ServeFiles("/static/brandpic/*filepath", http.Dir("static/brandpic"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
}

func AddProductRoutes(router *httprouter.Router) {
	router.GET("/api/products", products.GetProducts)
	router.GET("/api/products/:id", products.GetProduct)
	router.POST("/api/products", middleware.AdminOnly(products.CreateProduct))
	router.PUT("/api/products/:id", middleware.AdminOnly(products.EditProduct))
	router.DELETE("/api/products/:id", middleware.AdminOnly(products.DeleteProduct))
	router.POST("/api/products/:id/image", middleware.AdminOnly(products.UploadProductImage))
}

func AddBrandRoutes(router *httprouter.Router) {
	router.GET("/api/brands", brands.GetBrands)
	router.GET("/api/brands/admin", middleware.AdminOnly(brands.GetBrandsAdmin))
	router.POST("/api/brands", middleware.AdminOnly(brands.CreateBrand))
	router.PUT("/api/brands/:id", middleware.AdminOnly(brands.UpdateBrand))
	router.DELETE("/api/brands/:id", middleware.AdminOnly(brands.DeleteBrand))
}

func AddCartRoutes(router *httprouter.Router) {
	router.GET("/api/cart", middleware.Authenticate(cart.GetCart))
	router.GET("/api/cart/totals", middleware.Authenticate(cart.GetCartTotals))
	router.POST("/api/cart", middleware.Authenticate(cart.AddToCart))
	router.POST("/api/cart/select-all", middleware.Authenticate(cart.ToggleSelectAllLines))
	router.DELETE("/api/cart/:productid/:size", middleware.Authenticate(cart.RemoveFromCart))
	router.PUT("/api/cart/:productid/:size/quantity", middleware.Authenticate(cart.UpdateCartQuantity))
	router.PUT("/api/cart/:productid/:size/select", middleware.Authenticate(cart.ToggleSelectLine))
}

func AddWishlistRoutes(router *httprouter.Router) {
	router.GET("/api/wishlist", middleware.Authenticate(wishlist.GetWishlist))
	router.POST("/api/wishlist/:productid", middleware.Authenticate(wishlist.AddToWishlist))
	router.DELETE("/api/wishlist/:productid", middleware.Authenticate(wishlist.RemoveFromWishlist))
}

func AddCheckoutRoutes(router *httprouter.Router, h *checkout.Handlers, rl *ratelim.RateLimiter) {
	router.GET("/api/shipping-options", checkout.ShippingOptionsHandler)
	router.POST("/api/checkout", rl.Limit(middleware.Authenticate(h.Checkout)))
}

func AddOrderRoutes(router *httprouter.Router, h *orders.Handlers, hub *orders.Hub, rl *ratelim.RateLimiter) {
	router.POST("/api/orders", rl.Limit(middleware.Authenticate(h.CreateOrder)))

	// httprouter cannot mix static and wildcard segments at the same level,
	// so /myorders and /admin/... are dispatched inside the wildcard.
	router.GET("/api/orders/:id", func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if ps.ByName("id") == "myorders" {
			middleware.Authenticate(h.MyOrders)(w, r, ps)
			return
		}
		middleware.Authenticate(h.GetOrder)(w, r, ps)
	})
	router.GET("/api/orders/:id/:action", func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if ps.ByName("id") == "admin" {
			switch ps.ByName("action") {
			case "all":
				middleware.AdminOnly(h.ListAll)(w, r, ps)
			case "stats":
				middleware.AdminOnly(h.Stats)(w, r, ps)
			case "updates":
				orders.LiveUpdates(hub)(w, r, ps)
			default:
				http.NotFound(w, r)
			}
			return
		}
		if ps.ByName("action") == "receipt" {
			middleware.Authenticate(h.Receipt)(w, r, ps)
			return
		}
		http.NotFound(w, r)
	})

	router.PUT("/api/orders/:id/status", middleware.AdminOnly(h.UpdateStatus))
	router.PUT("/api/orders/:id/cancel", middleware.Authenticate(h.CancelOrder))
}

func AddAdminRoutes(router *httprouter.Router) {
	router.GET("/api/admin/users", middleware.AdminOnly(admin.GetUsers))
	router.GET("/api/admin/users/:id", middleware.AdminOnly(admin.GetUser))
	router.PUT("/api/admin/users/:id/role", middleware.AdminOnly(admin.UpdateUserRole))
	router.DELETE("/api/admin/users/:id", middleware.AdminOnly(admin.DeleteUser))
	router.GET("/api/admin/stats", middleware.AdminOnly(admin.GetDashboardStats))
}
