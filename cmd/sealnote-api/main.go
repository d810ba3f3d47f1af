package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sealnote/sealnote/internal/config"
	"github.com/sealnote/sealnote/internal/database"
	"github.com/sealnote/sealnote/internal/logging"
	"github.com/sealnote/sealnote/internal/notes"
	"github.com/sealnote/sealnote/internal/ratelimit"
	"github.com/sealnote/sealnote/internal/server"
	"github.com/sealnote/sealnote/internal/summarize"
)

var (
	cfgFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sealnote-api",
		Short: "Sealnote self-destructing notes backend service",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("base-url", defaults.GetString("http.base_url"), "Public base URL used in shareable note links")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().Duration("sweep-interval", defaults.GetDuration("database.sweep_interval"), "Interval between expired note sweeps")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("gemini-model", defaults.GetString("gemini.model"), "Gemini model used for note summaries")
	cmd.PersistentFlags().String("ratelimit-backend", defaults.GetString("ratelimit.backend"), "Rate limiter backend (memory or redis)")
	cmd.PersistentFlags().String("redis-address", defaults.GetString("redis.address"), "Redis address for shared rate limit counters")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "http.base_url", "base-url")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "database.sweep_interval", "sweep-interval")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "gemini.model", "gemini-model")
	bindFlag(cmd, "ratelimit.backend", "ratelimit-backend")
	bindFlag(cmd, "redis.address", "redis-address")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.OpenSQLite(appConfig.DatabasePath, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	store, err := notes.NewGormStore(db)
	if err != nil {
		return err
	}

	limiter, err := buildLimiter(appConfig)
	if err != nil {
		return err
	}
	defer limiter.Close() //nolint:errcheck

	notesService, err := notes.NewService(notes.ServiceConfig{
		Store:       store,
		Credentials: notes.NewCredentialProvider(),
		Hasher:      notes.NewPasswordHasher(),
		Summarizer:  summarize.NewSummarizer(appConfig.GeminiAPIKey, appConfig.GeminiModel),
		Clock:       time.Now,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	sweeper, err := notes.NewSweeper(notes.SweeperConfig{
		Store:    store,
		Interval: appConfig.SweepInterval,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	handler, err := server.NewHTTPHandler(server.Dependencies{
		NotesService: notesService,
		Limiter:      limiter,
		BaseURL:      appConfig.BaseURL,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sweeper.Run(signalCtx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", appConfig.HTTPAddress))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func buildLimiter(appConfig config.AppConfig) (ratelimit.Limiter, error) {
	if appConfig.UseRedisLimiter() {
		return ratelimit.NewRedisLimiter(&redis.Options{
			Addr:     appConfig.RedisAddress,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		})
	}
	return ratelimit.NewMemoryLimiter(), nil
}
