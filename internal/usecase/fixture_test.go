package usecase

import (
	"context"
	"testing"
	"time"

	"bloodbank-inventory/internal/converter"
	"bloodbank-inventory/internal/delivery/dto"
	"bloodbank-inventory/internal/delivery/http/middleware"
	"bloodbank-inventory/internal/domain/entity"
	"bloodbank-inventory/internal/repository"
	"bloodbank-inventory/internal/service"
	"bloodbank-inventory/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db          *gorm.DB
	bags        BagUsecase
	fulfillment FulfillmentUsecase
	requests    RequestUsecase
	donors      DonorUsecase
	stock       StockUsecase
	auditLogs   AuditLogUsecase
	operatorID  uuid.UUID
	ctx         context.Context
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	log := testutil.NewLogger()

	bagRepo := repository.NewBloodBagRepository()
	summaryRepo := repository.NewStockSummaryRepository()
	donorRepo := repository.NewDonorProfileRepository()
	requestRepo := repository.NewBloodRequestRepository()
	issuanceRepo := repository.NewBloodIssuanceRepository()
	auditRepo := repository.NewAuditLogRepository()

	stock := service.NewStockAggregator(log, bagRepo, summaryRepo, 2)
	ledger := service.NewBagLedger(log, bagRepo, stock)
	auditService := service.NewAuditService(log, auditRepo)

	operatorID := uuid.New()
	return &fixture{
		db:          db,
		bags:        NewBagUsecase(db, log, ledger, donorRepo, auditService, nil),
		fulfillment: NewFulfillmentUsecase(db, log, ledger, issuanceRepo, requestRepo, donorRepo, auditService, nil),
		requests:    NewRequestUsecase(db, log, requestRepo, ledger, auditService),
		donors:      NewDonorUsecase(db, log, donorRepo, auditService),
		stock:       NewStockUsecase(db, log, stock, summaryRepo, auditService, nil),
		auditLogs:   NewAuditLogUsecase(db, log, auditRepo),
		operatorID:  operatorID,
		ctx:         middleware.WithOperator(context.Background(), operatorID, entity.RoleIDStaff),
	}
}

func day(offset int) string {
	return converter.FormatDate(entity.Today().AddDate(0, 0, offset))
}

func (f *fixture) addBag(t *testing.T, group entity.BloodGroup, collected string) *dto.BagResponse {
	t.Helper()
	bag, err := f.bags.AddBag(f.ctx, &dto.AddBagRequest{
		BloodGroup:     string(group),
		CollectionDate: collected,
	})
	require.NoError(t, err)
	return bag
}

func (f *fixture) createRequest(t *testing.T, group entity.BloodGroup, urgency entity.Urgency) *dto.RequestResponse {
	t.Helper()
	request, err := f.requests.CreateRequest(f.ctx, &dto.CreateBloodRequestRequest{
		PatientName: "Rina Wijaya",
		BloodGroup:  string(group),
		Hospital:    "RS Harapan",
		Urgency:     string(urgency),
	})
	require.NoError(t, err)
	return request
}

func (f *fixture) createDonor(t *testing.T, group entity.BloodGroup, lastDonation string) *dto.DonorResponse {
	t.Helper()
	donor, err := f.donors.CreateDonor(f.ctx, &dto.CreateDonorRequest{
		FullName:         "Budi Santoso",
		BloodGroup:       string(group),
		LastDonationDate: lastDonation,
	})
	require.NoError(t, err)
	return donor
}

func (f *fixture) units(t *testing.T, group entity.BloodGroup) int64 {
	t.Helper()
	summary, err := f.stock.GetStockSummary(context.Background())
	require.NoError(t, err)
	return summary.Units[string(group)]
}

func (f *fixture) liveCount(t *testing.T, group entity.BloodGroup) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&entity.BloodBag{}).
		Where("blood_group = ? AND status = ?", group, entity.BagStatusAvailable).
		Count(&count).Error)
	return count
}

func (f *fixture) auditActions(t *testing.T) []string {
	t.Helper()
	var logs []entity.AuditLog
	require.NoError(t, f.db.Order("id ASC").Find(&logs).Error)
	actions := make([]string, len(logs))
	for i, l := range logs {
		actions[i] = l.Action
	}
	return actions
}

func patient() dto.PatientRequest {
	return dto.PatientRequest{
		Name:     "Rina Wijaya",
		Age:      34,
		Gender:   entity.GenderFemale,
		Hospital: "RS Harapan",
		Ward:     "ICU",
	}
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := converter.ParseDate("date", value)
	require.NoError(t, err)
	return parsed
}
