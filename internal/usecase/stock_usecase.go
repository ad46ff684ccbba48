package usecase

import (
	"context"

	"bloodbank-inventory/internal/converter"
	"bloodbank-inventory/internal/delivery/dto"
	"bloodbank-inventory/internal/domain/entity"
	"bloodbank-inventory/internal/domain/repository"
	"bloodbank-inventory/internal/infrastructure/metrics"
	"bloodbank-inventory/internal/service"
	"bloodbank-inventory/pkg/apperror"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type StockUsecase interface {
	GetStockSummary(ctx context.Context) (*dto.StockSummaryResponse, error)
	ReconcileAll(ctx context.Context) (*dto.StockSummaryResponse, error)
}

type stockUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	stock        service.StockAggregator
	summaryRepo  repository.StockSummaryRepository
	auditService service.AuditService
	metrics      *metrics.Metrics
}

func NewStockUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	stock service.StockAggregator,
	summaryRepo repository.StockSummaryRepository,
	auditService service.AuditService,
	metrics *metrics.Metrics,
) StockUsecase {
	return &stockUsecase{
		db:           db,
		log:          log,
		stock:        stock,
		summaryRepo:  summaryRepo,
		auditService: auditService,
		metrics:      metrics,
	}
}

// GetStockSummary returns available units for all eight groups
func (u *stockUsecase) GetStockSummary(ctx context.Context) (*dto.StockSummaryResponse, error) {
	summaries, err := u.stock.Summary(ctx, u.db)
	if err != nil {
		return nil, err
	}
	return converter.StockToResponse(summaries, u.stock.LowStockThreshold()), nil
}

// ReconcileAll recounts every group, each in its own transaction, and audits
// any drift between the cached and the live count
func (u *stockUsecase) ReconcileAll(ctx context.Context) (*dto.StockSummaryResponse, error) {
	results := make([]entity.StockSummary, len(entity.BloodGroups))

	g, gctx := errgroup.WithContext(ctx)
	for i, group := range entity.BloodGroups {
		i, group := i, group
		g.Go(func() error {
			summary, err := u.reconcile(gctx, group)
			if err != nil {
				return err
			}
			results[i] = *summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range results {
		u.metrics.ObserveStock(&results[i])
	}
	return converter.StockToResponse(results, u.stock.LowStockThreshold()), nil
}

func (u *stockUsecase) reconcile(ctx context.Context, group entity.BloodGroup) (*entity.StockSummary, error) {
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperror.Storage("begin transaction", tx.Error)
	}
	defer tx.Rollback()

	cached, err := u.summaryRepo.LockGroup(ctx, tx, group)
	if err != nil {
		u.log.Warnf("Failed to lock stock summary for %s: %+v", group, err)
		return nil, apperror.Storage("lock stock summary", err)
	}
	before := cached.Units

	summary, err := u.stock.Recount(ctx, tx, group)
	if err != nil {
		return nil, err
	}

	if summary.Units != before {
		u.log.Warnf("Stock drift for %s: cached=%d, live=%d", group, before, summary.Units)
		if err := u.auditService.LogUpdate(ctx, tx, operatorFromContext(ctx), entity.AuditActionStockReconcile, entity.AuditEntityStock, group.String(),
			map[string]interface{}{"units": before},
			map[string]interface{}{"units": summary.Units},
		); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit reconcile of %s: %+v", group, err)
		return nil, apperror.Storage("commit stock reconcile", err)
	}
	return summary, nil
}
