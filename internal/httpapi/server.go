package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/tablebook/internal/catalog"
	"github.com/MarkoPoloResearchLab/tablebook/internal/identity"
	"github.com/MarkoPoloResearchLab/tablebook/pkg/booking"
)

// Dependencies carries the wired services the HTTP facade routes to.
type Dependencies struct {
	Logger   *zap.Logger
	Bookings *booking.Service
	Catalog  *catalog.Service
	Identity *identity.Service
	Provider identity.Provider
	Tokens   *identity.TokenIssuer
}

// Run boots the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func Run(ctx context.Context, cfg Config, deps Dependencies) error {
	router := NewRouter(cfg, deps)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		deps.Logger.Info("tablebook api listening", zap.String("addr", cfg.ListenAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
			deps.Logger.Warn("server shutdown error", zap.Error(shutdownErr))
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// NewRouter assembles the gin engine with middleware and all routes.
func NewRouter(cfg Config, deps Dependencies) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Origin", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handler := &apiHandler{
		logger:   deps.Logger,
		cfg:      cfg,
		bookings: deps.Bookings,
		catalog:  deps.Catalog,
		identity: deps.Identity,
		provider: deps.Provider,
		tokens:   deps.Tokens,
	}

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := router.Group("/auth")
	auth.GET("/google", handler.handleGoogleLogin)
	auth.GET("/google/callback", handler.handleGoogleCallback)
	auth.POST("/logout", handler.handleLogout)
	auth.GET("/user", handler.authRequired(), handler.handleCurrentUser)

	api := router.Group("/api")
	api.GET("/restaurants", handler.handleBrowseRestaurants)
	api.GET("/restaurants/:id", handler.handleRestaurantDetail)
	api.GET("/restaurants/:id/available-tables", handler.handleAvailableTables)

	authorized := api.Group("")
	authorized.Use(handler.authRequired())
	authorized.POST("/reservations", handler.handleCreateReservation)
	authorized.GET("/reservations", handler.handleListReservations)
	authorized.GET("/reservations/:id", handler.handleReservationDetail)
	authorized.PUT("/reservations/:id/cancel", handler.handleCancelReservation)
	authorized.PATCH("/users/profile", handler.handleUpdateProfile)

	admin := authorized.Group("/admin")
	admin.Use(handler.requireAdmin())
	admin.GET("/stats", handler.handleAdminStats)
	admin.GET("/reservations", handler.handleAdminListReservations)
	admin.GET("/reservations/:id", handler.handleAdminReservationDetail)
	admin.PUT("/reservations/:id/status", handler.handleAdminUpdateStatus)
	admin.PUT("/reservations/bulk-status", handler.handleAdminBulkStatus)
	admin.GET("/restaurants", handler.handleAdminListRestaurants)
	admin.POST("/restaurants", handler.handleAdminCreateRestaurant)
	admin.PUT("/restaurants/:id", handler.handleAdminUpdateRestaurant)
	admin.GET("/restaurants/:id/tables", handler.handleAdminListTables)
	admin.POST("/restaurants/:id/tables", handler.handleAdminAddTable)
	admin.GET("/my-restaurants", handler.handleAdminMyRestaurants)
	admin.DELETE("/tables/:id", handler.handleAdminDeleteTable)
	admin.GET("/users", handler.handleAdminListUsers)

	return router
}

type apiHandler struct {
	logger   *zap.Logger
	cfg      Config
	bookings *booking.Service
	catalog  *catalog.Service
	identity *identity.Service
	provider identity.Provider
	tokens   *identity.TokenIssuer
}
