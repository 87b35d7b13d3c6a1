package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/tablebook/internal/catalog"
	"github.com/MarkoPoloResearchLab/tablebook/internal/httpapi"
	"github.com/MarkoPoloResearchLab/tablebook/internal/identity"
	"github.com/MarkoPoloResearchLab/tablebook/internal/store/gormstore"
	"github.com/MarkoPoloResearchLab/tablebook/pkg/booking"
)

const (
	flagDatabaseURL        = "database-url"
	flagListenAddr         = "listen-addr"
	flagClientOrigin       = "client-origin"
	configKeyDatabaseURL   = "database_url"
	configKeyListenAddr    = "listen_addr"
	configKeySigningKey    = "session_signing_key"
	configKeyGoogleID      = "google_client_id"
	configKeyGoogleSecret  = "google_client_secret"
	configKeyRedirectURL   = "oauth_redirect_url"
	configKeyClientOrigin  = "client_origin"
	configKeyOrigins       = "allowed_origins"
	configKeyDebugErrors   = "debug_errors"
	defaultDatabaseURL     = "sqlite:///tmp/tablebook.db"
	defaultHTTPListenAddr  = ":8080"
	defaultClientOriginURL = "http://localhost:3000"
)

type runtimeConfig struct {
	DatabaseURL        string
	ListenAddr         string
	SessionSigningKey  string
	GoogleClientID     string
	GoogleClientSecret string
	OAuthRedirectURL   string
	ClientOrigin       string
	AllowedOrigins     []string
	DebugErrors        bool
}

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tablebookd: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := &runtimeConfig{}
	cmd := &cobra.Command{
		Use:           "tablebookd",
		Short:         "Table reservation HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd, cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg)
		},
	}

	cmd.Flags().String(flagDatabaseURL, defaultDatabaseURL, "PostgreSQL connection string or sqlite path")
	cmd.Flags().String(flagListenAddr, defaultHTTPListenAddr, "HTTP listen address")
	cmd.Flags().String(flagClientOrigin, defaultClientOriginURL, "Frontend origin for redirects")

	return cmd
}

func loadConfig(cmd *cobra.Command, cfg *runtimeConfig) error {
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	bindings := map[string]string{
		configKeyDatabaseURL:  "DATABASE_URL",
		configKeyListenAddr:   "LISTEN_ADDR",
		configKeySigningKey:   "SESSION_SIGNING_KEY",
		configKeyGoogleID:     "GOOGLE_CLIENT_ID",
		configKeyGoogleSecret: "GOOGLE_CLIENT_SECRET",
		configKeyRedirectURL:  "OAUTH_REDIRECT_URL",
		configKeyClientOrigin: "CLIENT_ORIGIN",
		configKeyOrigins:      "ALLOWED_ORIGINS",
		configKeyDebugErrors:  "DEBUG_ERRORS",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			return err
		}
	}

	if err := viper.BindPFlag(configKeyDatabaseURL, cmd.Flags().Lookup(flagDatabaseURL)); err != nil {
		return err
	}
	if err := viper.BindPFlag(configKeyListenAddr, cmd.Flags().Lookup(flagListenAddr)); err != nil {
		return err
	}
	if err := viper.BindPFlag(configKeyClientOrigin, cmd.Flags().Lookup(flagClientOrigin)); err != nil {
		return err
	}

	cfg.DatabaseURL = viper.GetString(configKeyDatabaseURL)
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = defaultDatabaseURL
	}
	cfg.ListenAddr = viper.GetString(configKeyListenAddr)
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultHTTPListenAddr
	}
	cfg.SessionSigningKey = viper.GetString(configKeySigningKey)
	cfg.GoogleClientID = viper.GetString(configKeyGoogleID)
	cfg.GoogleClientSecret = viper.GetString(configKeyGoogleSecret)
	cfg.OAuthRedirectURL = viper.GetString(configKeyRedirectURL)
	cfg.ClientOrigin = viper.GetString(configKeyClientOrigin)
	if cfg.ClientOrigin == "" {
		cfg.ClientOrigin = defaultClientOriginURL
	}
	cfg.AllowedOrigins = httpapi.ParseAllowedOrigins(viper.GetString(configKeyOrigins))
	cfg.DebugErrors = viper.GetBool(configKeyDebugErrors)

	if cfg.SessionSigningKey == "" {
		return fmt.Errorf("session signing key is required")
	}
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		return fmt.Errorf("google client credentials are required")
	}
	if cfg.OAuthRedirectURL == "" {
		return fmt.Errorf("oauth redirect url is required")
	}
	return nil
}

func runServer(ctx context.Context, cfg *runtimeConfig) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	gormDB, cleanup, driver, err := openDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database open: %w", err)
	}
	defer cleanup()

	if err := prepareSchema(gormDB, driver); err != nil {
		return err
	}

	store := gormstore.New(gormDB)
	clock := func() time.Time { return time.Now().UTC() }

	bookingService, err := booking.NewService(store, clock, booking.WithOperationLogger(zapOperationLogger{logger: logger.Named("booking")}))
	if err != nil {
		return fmt.Errorf("booking service init: %w", err)
	}
	catalogService, err := catalog.NewService(store, clock)
	if err != nil {
		return fmt.Errorf("catalog service init: %w", err)
	}
	identityService, err := identity.NewService(store)
	if err != nil {
		return fmt.Errorf("identity service init: %w", err)
	}
	provider, err := identity.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectURL)
	if err != nil {
		return fmt.Errorf("google provider init: %w", err)
	}

	serverConfig := httpapi.Config{
		ListenAddr:        cfg.ListenAddr,
		AllowedOrigins:    cfg.AllowedOrigins,
		ClientOrigin:      cfg.ClientOrigin,
		SessionSigningKey: cfg.SessionSigningKey,
		DebugErrors:       cfg.DebugErrors,
	}
	if err := serverConfig.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	tokens, err := identity.NewTokenIssuer(serverConfig.SessionSigningKey, serverConfig.SessionIssuer, serverConfig.SessionTokenTTL, nil)
	if err != nil {
		return fmt.Errorf("token issuer init: %w", err)
	}

	return httpapi.Run(ctx, serverConfig, httpapi.Dependencies{
		Logger:   logger,
		Bookings: bookingService,
		Catalog:  catalogService,
		Identity: identityService,
		Provider: provider,
		Tokens:   tokens,
	})
}

type zapOperationLogger struct {
	logger *zap.Logger
}

func (adapter zapOperationLogger) LogOperation(_ context.Context, entry booking.OperationLog) {
	fields := []zap.Field{
		zap.String("operation", entry.Operation),
		zap.String("user_id", entry.UserID.String()),
		zap.String("reservation_id", entry.ReservationID.String()),
		zap.String("table_id", entry.TableID.String()),
		zap.String("date", entry.Date.String()),
		zap.String("time", entry.Time.String()),
		zap.String("status", entry.Status.String()),
	}
	if entry.Error != nil {
		adapter.logger.Warn("booking operation failed", append(fields, zap.Error(entry.Error))...)
		return
	}
	adapter.logger.Info("booking operation", fields...)
}

func openDatabase(ctx context.Context, dsn string) (*gorm.DB, func() error, string, error) {
	driver, sqlitePath, err := resolveDriver(dsn)
	if err != nil {
		return nil, nil, "", err
	}

	var db *gorm.DB
	gormConfig := &gorm.Config{}
	switch driver {
	case "postgres":
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(sqlitePath), gormConfig)
	default:
		return nil, nil, "", fmt.Errorf("unsupported database scheme %q", driver)
	}
	if err != nil {
		return nil, nil, "", err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, "", err
	}
	cleanup := func() error { return sqlDB.Close() }
	return db.WithContext(ctx), cleanup, driver, nil
}

func resolveDriver(dsn string) (string, string, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres", "", nil
	}
	if strings.HasPrefix(dsn, "sqlite://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", "", fmt.Errorf("parse sqlite url: %w", err)
		}
		path := u.Path
		if path == "" {
			path = u.Host
		}
		if path == "" || path == "/" {
			path = "tablebook.db"
		}
		sqlitePath, err := normalizeSQLitePath(path)
		return "sqlite", sqlitePath, err
	}
	// Treat everything else as a direct sqlite path.
	sqlitePath, err := normalizeSQLitePath(dsn)
	return "sqlite", sqlitePath, err
}

func normalizeSQLitePath(path string) (string, error) {
	if path == ":memory:" {
		return path, nil
	}
	if strings.HasPrefix(path, "/") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", err
		}
		return path, nil
	}
	abs := filepath.Join(".", path)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", err
	}
	return abs, nil
}

func prepareSchema(db *gorm.DB, driver string) error {
	if driver != "sqlite" {
		return nil
	}
	if err := db.AutoMigrate(
		&gormstore.UserModel{},
		&gormstore.RestaurantModel{},
		&gormstore.TableModel{},
		&gormstore.ReservationModel{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
