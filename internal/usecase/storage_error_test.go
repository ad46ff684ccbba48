package usecase

import (
	"context"
	"errors"
	"testing"

	"bloodbank-inventory/internal/delivery/dto"
	"bloodbank-inventory/internal/domain/entity"
	"bloodbank-inventory/internal/repository"
	"bloodbank-inventory/internal/service"
	"bloodbank-inventory/internal/testutil"
	"bloodbank-inventory/pkg/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockBagUsecase(t *testing.T) (sqlmock.Sqlmock, BagUsecase) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	log := testutil.NewLogger()
	bagRepo := repository.NewBloodBagRepository()
	stock := service.NewStockAggregator(log, bagRepo, repository.NewStockSummaryRepository(), 10)
	ledger := service.NewBagLedger(log, bagRepo, stock)
	auditService := service.NewAuditService(log, repository.NewAuditLogRepository())

	return mock, NewBagUsecase(db, log, ledger, repository.NewDonorProfileRepository(), auditService, nil)
}

func TestListBagsStorageError(t *testing.T) {
	mock, uc := setupMockBagUsecase(t)

	mock.ExpectQuery(`SELECT \* FROM "blood_bags"`).
		WillReturnError(errors.New("connection reset by peer"))

	_, err := uc.ListBags(context.Background(), &dto.BagFilterRequest{BloodGroup: string(entity.BloodGroupAPositive)})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrStorage)
	assert.NotErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, "Failed to list blood bags", apperror.Message(err, "Failed to list blood bags"))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStatusBeginError(t *testing.T) {
	mock, uc := setupMockBagUsecase(t)

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	_, err := uc.SetStatus(context.Background(), uuid.New(), &dto.UpdateBagStatusRequest{Status: string(entity.BagStatusQuarantined)})
	assert.ErrorIs(t, err, apperror.ErrStorage)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStatusLostRace(t *testing.T) {
	mock, uc := setupMockBagUsecase(t)
	bagID := uuid.New()
	collected := entity.Today().AddDate(0, 0, -3)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "blood_bags" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "bag_code", "blood_group", "status", "collection_date", "expiry_date"}).
			AddRow(bagID.String(), "BAG-20240101-00C0FFEE", string(entity.BloodGroupAPositive), string(entity.BagStatusAvailable), collected, collected.AddDate(0, 0, 42)))
	// another writer moved the bag between the lock and the update
	mock.ExpectExec(`UPDATE "blood_bags" SET "status"=\$1.*WHERE .*id = \$\d+ AND status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := uc.SetStatus(context.Background(), bagID, &dto.UpdateBagStatusRequest{Status: string(entity.BagStatusQuarantined)})
	assert.ErrorIs(t, err, service.ErrBagStatusChanged)
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
	assert.NotErrorIs(t, err, apperror.ErrStorage)

	require.NoError(t, mock.ExpectationsWereMet())
}
