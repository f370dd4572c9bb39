package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/GlebRadaev/afriart/internal/config"
	"github.com/GlebRadaev/afriart/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultBatch   = 100
	defaultWorkers = 5
)

// Resolver finds pending payments and settles them against the provider.
type Resolver interface {
	ListStale(ctx context.Context, olderThan time.Duration, limit int) ([]domain.Transaction, error)
	CheckStatus(ctx context.Context, checkoutRequestID string) (*domain.Transaction, error)
}

// Service periodically asks the provider about transactions whose callback
// never arrived.
type Service struct {
	resolver   Resolver
	workerPool WorkerPoolI
	interval   time.Duration
	after      time.Duration
	limit      int

	inFlight sync.Map
}

func New(cfg *config.Config, resolver Resolver) *Service {
	return &Service{
		resolver:   resolver,
		workerPool: NewWorkerPool(defaultWorkers),
		interval:   cfg.Reconcile.Interval,
		after:      cfg.Reconcile.After,
		limit:      defaultBatch,
	}
}

// Start blocks until ctx is cancelled. A zero interval disables polling.
func (s *Service) Start(ctx context.Context) {
	defer s.workerPool.Close()

	if s.interval <= 0 {
		zap.L().Info("payment reconciliation disabled")
		return
	}
	zap.L().Info("payment reconciliation started",
		zap.Duration("interval", s.interval),
		zap.Duration("after", s.after),
	)
	s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("context canceled, stopping reconciliation")
			return
		case <-ticker.C:
			s.reconcile(ctx)
		}
	}
}

func (s *Service) reconcile(ctx context.Context) {
	stale, err := s.resolver.ListStale(ctx, s.after, s.limit)
	if err != nil {
		zap.L().Error("failed to fetch pending transactions", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, tx := range stale {
		id := tx.CheckoutRequestID

		if _, loaded := s.inFlight.LoadOrStore(id, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer s.inFlight.Delete(id)
				return s.resolve(ctx, id)
			})
			if err != nil {
				s.inFlight.Delete(id)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("error scheduling reconciliation", zap.Error(err))
	}
}

func (s *Service) resolve(ctx context.Context, checkoutRequestID string) error {
	tx, err := s.resolver.CheckStatus(ctx, checkoutRequestID)
	if err != nil {
		return err
	}
	if tx.IsFinal() {
		zap.L().Info("transaction reconciled",
			zap.String("checkoutRequestID", checkoutRequestID),
			zap.String("status", tx.Status),
		)
	}
	return nil
}
