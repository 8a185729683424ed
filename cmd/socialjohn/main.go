package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/socialjohn/internal/config"
	"github.com/dropDatabas3/socialjohn/internal/http/server"
	jwtx "github.com/dropDatabas3/socialjohn/internal/jwt"
	"github.com/dropDatabas3/socialjohn/internal/observability/logger"
	"github.com/dropDatabas3/socialjohn/internal/store/pg"
	"github.com/dropDatabas3/socialjohn/migrations"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "socialjohn",
		Short:         "Backend de login local + OAuth2 (Google, Facebook, GitHub)",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", os.Getenv("SOCIALJOHN_CONFIG"), "Path al YAML de config (env SOCIALJOHN_CONFIG)")

	loadConfig := func() (*config.Config, error) {
		// .env es opcional
		_ = godotenv.Load()
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, err
		}
		if cfg.App.Version == "" {
			cfg.App.Version = version
		}
		logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "socialjohn", Version: cfg.App.Version})
		return cfg, nil
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Levanta el servidor HTTP",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				if err := cfg.Validate(); err != nil {
					return fmt.Errorf("config inválida: %w", err)
				}
				defer logger.Sync()
				return serve(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Aplica las migraciones de Postgres pendientes",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				if cfg.Storage.DSN == "" {
					return errors.New("storage.dsn es requerido (env SOCIALJOHN_STORAGE_DSN)")
				}
				s, err := pg.Open(cmd.Context(), pg.Config{DSN: cfg.Storage.DSN, MaxConns: cfg.Storage.MaxConns})
				if err != nil {
					return err
				}
				defer s.Close()
				res, err := pg.NewMigrator(migrations.PostgresFS, migrations.PostgresDir).Run(cmd.Context(), s.Pool())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "applied=%v skipped=%v (%s)\n", res.Applied, res.Skipped, res.Duration)
				return nil
			},
		},
		&cobra.Command{
			Use:   "gen-secret",
			Short: "Genera un token_secret aleatorio (64 bytes, base64)",
			RunE: func(cmd *cobra.Command, args []string) error {
				b := make([]byte, 64)
				if _, err := rand.Read(b); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(b))
				return nil
			},
		},
		&cobra.Command{
			Use:   "token <user-id>",
			Short: "Firma un bearer token para un user id (debug)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("user id inválido: %w", err)
				}
				tok, err := jwtx.NewTokenService(cfg.Auth.TokenSecret, cfg.TokenTTL()).Issue(id)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), tok)
				return nil
			},
		},
	)
	return root
}

func serve(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.L()
	for _, w := range cfg.Warnings() {
		log.Warn("config warning", logger.String("detail", w))
	}
	app, err := server.Build(logger.ToContext(ctx, log), cfg)
	if err != nil {
		return fmt.Errorf("wiring: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("cleanup error", logger.Err(err))
		}
	}()

	srv := server.NewHTTPServer(cfg, app.Handler)
	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", logger.String("addr", cfg.Server.Addr), logger.String("version", cfg.App.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shCtx)
}
