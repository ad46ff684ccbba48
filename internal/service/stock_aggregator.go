package service

import (
	"context"
	"time"

	"bloodbank-inventory/internal/domain/entity"
	"bloodbank-inventory/internal/domain/repository"
	"bloodbank-inventory/pkg/apperror"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// StockAggregator maintains stock_summaries as a materialized view over
// blood_bags. Recount only ever runs on the caller's transaction so the
// summary commits together with the bag change that caused it.
type StockAggregator interface {
	Recount(ctx context.Context, tx *gorm.DB, group entity.BloodGroup) (*entity.StockSummary, error)
	Summary(ctx context.Context, db *gorm.DB) ([]entity.StockSummary, error)
	LowStockThreshold() int
}

type stockAggregator struct {
	log               *logrus.Logger
	bagRepo           repository.BloodBagRepository
	summaryRepo       repository.StockSummaryRepository
	lowStockThreshold int
}

func NewStockAggregator(
	log *logrus.Logger,
	bagRepo repository.BloodBagRepository,
	summaryRepo repository.StockSummaryRepository,
	lowStockThreshold int,
) StockAggregator {
	if lowStockThreshold <= 0 {
		lowStockThreshold = entity.DefaultLowStockThreshold
	}
	return &stockAggregator{
		log:               log,
		bagRepo:           bagRepo,
		summaryRepo:       summaryRepo,
		lowStockThreshold: lowStockThreshold,
	}
}

// Recount locks the group's summary row, counts available bags and
// overwrites the row. The lock is taken before counting so two transactions
// on the same group serialize and the later one counts the earlier's commit.
func (s *stockAggregator) Recount(ctx context.Context, tx *gorm.DB, group entity.BloodGroup) (*entity.StockSummary, error) {
	summary, err := s.summaryRepo.LockGroup(ctx, tx, group)
	if err != nil {
		s.log.Warnf("Failed to lock stock summary for %s: %+v", group, err)
		return nil, apperror.Storage("lock stock summary", err)
	}

	units, err := s.bagRepo.CountAvailable(ctx, tx, group)
	if err != nil {
		s.log.Warnf("Failed to count available bags for %s: %+v", group, err)
		return nil, apperror.Storage("count available bags", err)
	}

	summary.Units = units
	summary.LastUpdated = time.Now().UTC()
	if err := s.summaryRepo.Save(ctx, tx, summary); err != nil {
		s.log.Warnf("Failed to save stock summary for %s: %+v", group, err)
		return nil, apperror.Storage("save stock summary", err)
	}

	s.log.Debugf("Recounted stock for %s: units=%d", group, units)
	return summary, nil
}

// Summary returns one row per blood group; groups never recounted read as zero
func (s *stockAggregator) Summary(ctx context.Context, db *gorm.DB) ([]entity.StockSummary, error) {
	rows, err := s.summaryRepo.FindAll(ctx, db)
	if err != nil {
		s.log.Warnf("Failed to load stock summaries: %+v", err)
		return nil, apperror.Storage("load stock summary", err)
	}

	byGroup := make(map[entity.BloodGroup]entity.StockSummary, len(rows))
	for _, row := range rows {
		byGroup[row.BloodGroup] = row
	}

	summaries := make([]entity.StockSummary, len(entity.BloodGroups))
	for i, group := range entity.BloodGroups {
		if row, ok := byGroup[group]; ok {
			summaries[i] = row
			continue
		}
		summaries[i] = entity.StockSummary{BloodGroup: group}
	}
	return summaries, nil
}

func (s *stockAggregator) LowStockThreshold() int {
	return s.lowStockThreshold
}
