package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solemart/cart"
	"solemart/checkout"
	"solemart/db"
	"solemart/orders"
	"solemart/products"
	"solemart/ratelim"
	"solemart/rdx"
	"solemart/routes"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

func setupRouter(rateLimiter *ratelim.RateLimiter, orderHandlers *orders.Handlers, checkoutHandlers *checkout.Handlers, hub *orders.Hub) *httprouter.Router {
	router := httprouter.New()

	routes.AddStaticRoutes(router)
	routes.AddAuthRoutes(router, rateLimiter)
	routes.AddProductRoutes(router)
	routes.AddBrandRoutes(router)
	routes.AddCartRoutes(router)
	routes.AddWishlistRoutes(router)
	routes.AddCheckoutRoutes(router, checkoutHandlers, rateLimiter)
	routes.AddOrderRoutes(router, orderHandlers, hub, rateLimiter)
	routes.AddAdminRoutes(router)

	router.GET("/health", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return router
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, proceeding with environment variables")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	store := orders.NewMongoStore(db.OrderCollection)
	if err := store.InitIndexes(context.Background()); err != nil {
		log.Printf("order index init failed: %v", err)
	}

	ledger := orders.NewLedger(store, &orders.RedisSequencer{Conn: rdx.Conn}, products.NewMongoCatalog())

	hub := orders.NewHub()
	go hub.Run()
	ledger.SetHub(hub)

	cart.DefaultPersister = &cart.RedisPersister{Conn: rdx.Conn}

	orderHandlers := orders.NewHandlers(ledger)
	checkoutHandlers := checkout.NewHandlers(checkout.NewOrchestrator(ledger))
	rateLimiter := ratelim.NewRateLimiter()

	router := setupRouter(rateLimiter, orderHandlers, checkoutHandlers, hub)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	handler := securityHeaders(loggingMiddleware(c.Handler(router)))

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	server.RegisterOnShutdown(hub.Stop)

	go func() {
		log.Printf("Server started on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited cleanly")
}
