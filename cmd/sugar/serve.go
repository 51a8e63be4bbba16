package sugar

import (
	"amiigo/internal/common"
	"amiigo/internal/security"
	"amiigo/internal/services/api"
	"amiigo/internal/services/api/handlers"
	"amiigo/internal/services/api/store"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

type ServeCmd struct {
	cmd *cobra.Command
}

func newServeCmd(root *rootCmd) *ServeCmd {
	serve := &ServeCmd{}
	cmd := &cobra.Command{
		Use:           "serve",
		Short:         "Run the HTTP API",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := root.cfg
			loggerInstance := root.loggerInstance

			if cfg.UsesDefaultSecret() {
				loggerInstance.Warn().Msg("SECRET_KEY is the development default, set it before deploying")
			}

			db, err := root.openDatabase(ctx)
			if err != nil {
				return err
			}
			defer closeDatabase(db, loggerInstance)

			var tokens store.TokenStore
			if cfg.RedisURI != "" {
				var redisConn *redis.Client
				redisConn, err = common.NewRedisStore(cfg.RedisURI)
				if err != nil {
					return fmt.Errorf("failed to connect to redis: %w", err)
				}
				defer redisConn.Close()

				tokens = &store.RedisTokenStorage{Redis: redisConn}
			} else {
				loggerInstance.Warn().Msg("REDIS_URI is not set, revoked tokens are kept in memory")
				tokens = store.NewMemoryTokenStorage()
			}

			issuer, err := security.NewTokenIssuer(cfg.SecretKey, cfg.Algorithm, cfg.AccessTokenTTL())
			if err != nil {
				return err
			}

			origins, err := cfg.CORSOrigins()
			if err != nil {
				return err
			}

			serverInstance := echo.New()
			serverInstance.HideBanner = true
			serverInstance.HidePort = true
			serverInstance.Validator = common.NewValidator()
			serverInstance.HTTPErrorHandler = common.HTTPErrorHandler(loggerInstance)

			serverInstance.Use(middleware.RequestID())
			serverInstance.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
				LogURI:       true,
				LogStatus:    true,
				LogMethod:    true,
				LogLatency:   true,
				LogRequestID: true,
				LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
					loggerInstance.Info().
						Str("method", v.Method).
						Str("URI", v.URI).
						Int("status", v.Status).
						Dur("latency", v.Latency).
						Str("request_id", v.RequestID).
						Msg("request")

					return nil
				},
			}))
			serverInstance.Use(middleware.Recover())
			if len(origins) > 0 {
				serverInstance.Use(middleware.CORSWithConfig(middleware.CORSConfig{
					AllowOrigins: origins,
					AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
					AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderAccept},
				}))
			}
			serverInstance.Use(echoprometheus.NewMiddleware("amiigo"))

			handle := &handlers.ServerHandle{
				Store:   &store.Storage{DB: db},
				Tokens:  tokens,
				Issuer:  issuer,
				Metrics: handlers.NewPromMetrics(prometheus.DefaultRegisterer),
				Logger:  loggerInstance,
			}

			server := api.NewServer(cfg.Addr(), cfg.APIV1, serverInstance, handle)

			errCh := make(chan error, 1)
			go func() {
				loggerInstance.Info().Str("addr", cfg.Addr()).Str("app", cfg.AppName).Msg("starting server")
				errCh <- server.Run()
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("failed to start the server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := serverInstance.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to gracefully shutdown the server: %w", err)
			}

			loggerInstance.Info().Msg("server stopped")

			return nil
		},
	}

	serve.cmd = cmd
	return serve
}
