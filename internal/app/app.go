package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/GlebRadaev/afriart/internal/config"
	"github.com/GlebRadaev/afriart/internal/handlers"
	"github.com/GlebRadaev/afriart/internal/pg"
	"github.com/GlebRadaev/afriart/internal/reconcile"
	"github.com/GlebRadaev/afriart/internal/repo"
	tokenrepo "github.com/GlebRadaev/afriart/internal/repo/token-repo"
	"github.com/GlebRadaev/afriart/internal/service"
	"github.com/GlebRadaev/afriart/internal/service/paymentservice"
	"github.com/GlebRadaev/afriart/pkg/auth"
	"github.com/GlebRadaev/afriart/pkg/clients"
	"github.com/GlebRadaev/afriart/pkg/images"
	"github.com/GlebRadaev/afriart/pkg/logger"
	"github.com/GlebRadaev/afriart/pkg/mpesa"
	"github.com/GlebRadaev/afriart/pkg/mq"
)

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg  *config.Config
	api  *handlers.Handlers
	srv  *service.Services
	repo *repo.Repositories
	ext  *reconcile.Service

	closers []func() error
	errCh   chan error
	wg      sync.WaitGroup
	ready   bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	cfg := config.New()

	err := logger.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}

	if err := a.start(ctx, cfg); err != nil {
		a.close()
		return err
	}

	a.ready = true
	zap.L().Info("all systems started successfully")
	return nil
}

// start acquires every backend. Whatever it opened before failing is left in
// closers for the caller to release.
func (a *Application) start(ctx context.Context, cfg *config.Config) error {
	redis := a.getRedis(ctx, cfg)

	pool, err := getPgxpool(ctx, cfg)
	if err != nil {
		zap.L().Error("build pgx pool failed: ", zap.Error(err))
		return fmt.Errorf("can't build pgx pool: %w", err)
	}
	a.closers = append(a.closers, func() error { pool.Close(); return nil })
	if err := pg.RunMigrations(pool); err != nil {
		zap.L().Error("migrations failed: ", zap.Error(err))
		return fmt.Errorf("can't run migrations: %w", err)
	}
	txManager := pg.NewTXManager(pool)

	publisher, err := a.getPublisher(cfg)
	if err != nil {
		return fmt.Errorf("can't connect to rabbitmq: %w", err)
	}
	store, err := images.NewStore(cfg.UploadDir)
	if err != nil {
		return fmt.Errorf("can't prepare upload dir: %w", err)
	}
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	conn := pg.New(pool)
	a.cfg = cfg
	a.repo = repo.New(conn, txManager, redis)
	a.srv = service.New(a.repo, service.Deps{
		JWT:       jwtService,
		TokenTTL:  cfg.TokenTTL,
		Images:    store,
		Gateway:   getGateway(cfg),
		Publisher: publisher,
	})
	a.api = handlers.New(a.srv, jwtService, cfg.UploadDir, cfg.Mpesa.CallbackToken)
	a.ext = reconcile.New(cfg, a.srv.Reconciler)

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}

	a.startReconciler(ctx)
	return nil
}

func getPgxpool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	cfgpool, err := pgxpool.ParseConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, cfgpool)
	if err != nil {
		return nil, err
	}
	if err = dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, err
	}
	return dbpool, nil
}

// getRedis returns nil when no address is configured, which disables the
// token denylist.
func (a *Application) getRedis(ctx context.Context, cfg *config.Config) tokenrepo.Client {
	if cfg.Redis.Addr == "" {
		zap.L().Info("redis not configured, logout will not revoke tokens")
		return nil
	}
	client := tokenrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	a.closers = append(a.closers, client.Close)

	pCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pCtx).Err(); err != nil {
		zap.L().Warn("redis unreachable, token denylist fails open", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}
	return client
}

func (a *Application) getPublisher(cfg *config.Config) (paymentservice.Publisher, error) {
	if cfg.Events.RabbitURL == "" {
		zap.L().Info("rabbitmq not configured, payment events are dropped")
		return mq.NoopPublisher{}, nil
	}
	publisher, err := mq.NewPublisher(cfg.Events.RabbitURL, cfg.Events.Exchange)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, publisher.Close)
	return publisher, nil
}

func getGateway(cfg *config.Config) *mpesa.Client {
	return mpesa.New(mpesa.Config{
		BaseURL:        cfg.Mpesa.BaseURL,
		ConsumerKey:    cfg.Mpesa.ConsumerKey,
		ConsumerSecret: cfg.Mpesa.ConsumerSecret,
		ShortCode:      cfg.Mpesa.ShortCode,
		PassKey:        cfg.Mpesa.PassKey,
		CallbackURL:    cfg.Mpesa.CallbackURL,
	}, clients.NewHTTPClientWithTimeout(cfg.Mpesa.Timeout))
}

func (a *Application) startHTTPServer(ctx context.Context) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	server := http.Server{
		Addr:              a.cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(sCtx); err != nil {
			zap.L().Error("http server shutdown failed", zap.Error(err))
		}
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("starting http server on port", zap.String("port", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.errCh <- fmt.Errorf("http server exited with error: %w", err)
		}
	}()

	return nil
}

func (a *Application) startReconciler(ctx context.Context) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.ext.Start(ctx)
	}()
}

func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	var appErr error

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for err := range a.errCh {
			cancel()
			zap.L().Error(err.Error())
			appErr = err
		}
	}()

	<-ctx.Done()
	a.wg.Wait()
	close(a.errCh)
	wg.Wait()

	a.close()
	return appErr
}

// close releases resources in reverse order of acquisition.
func (a *Application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			zap.L().Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
}
