package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/internal/app/repository"
	"github.com/ikkim/shopmall-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUploader struct {
	uploads []string
}

func (u *fakeUploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	u.uploads = append(u.uploads, key)
	return "https://cdn.example.com/" + key, nil
}

type paymentServiceFixture struct {
	paymentService PaymentService
	uploader       *fakeUploader
	user           *model.User
	order          *model.Order
	db             *gorm.DB
}

func setupPaymentServiceTest(t *testing.T) *paymentServiceFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	channelRepo := repository.NewPaymentChannelRepository(testDB)
	notifier := NewNotificationService(repository.NewNotificationRepository(testDB), nil)
	uploader := &fakeUploader{}
	paymentService := NewPaymentService(orderRepo, channelRepo, notifier, uploader, testDB)

	user := &model.User{
		Email:        "payer@example.com",
		PasswordHash: "hash",
		FirstName:    "Payer",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	order := &model.Order{
		UserID:      user.ID,
		CartID:      1,
		AddressID:   1,
		TotalPrice:  250,
		TotalAmount: 2,
		Status:      model.OrderStatusPending,
	}
	require.NoError(t, orderRepo.Create(testDB, order))

	return &paymentServiceFixture{
		paymentService: paymentService,
		uploader:       uploader,
		user:           user,
		order:          order,
		db:             testDB,
	}
}

func TestPaymentService_SubmitClaim(t *testing.T) {
	f := setupPaymentServiceTest(t)

	claim, err := f.paymentService.SubmitClaim(context.Background(), f.user.ID, f.order.ID, PaymentClaimInput{
		TransferDate: "2026-09-01",
		TransferTime: "14:30",
	})
	require.NoError(t, err)

	// Amount defaults to the order total
	assert.Equal(t, 250.0, claim.Amount)
	assert.Equal(t, "2026-09-01", claim.TransferDate)
	assert.Equal(t, "14:30", claim.TransferTime)
	assert.Empty(t, claim.SlipURL)

	var order model.Order
	require.NoError(t, f.db.First(&order, f.order.ID).Error)
	assert.Equal(t, model.OrderStatusPaid, order.Status)
	require.NotNil(t, order.PaymentID)
	assert.Equal(t, claim.ID, *order.PaymentID)
}

func TestPaymentService_SubmitClaim_WithSlip(t *testing.T) {
	f := setupPaymentServiceTest(t)

	claim, err := f.paymentService.SubmitClaim(context.Background(), f.user.ID, f.order.ID, PaymentClaimInput{
		Amount:          250,
		TransferDate:    "2026-09-01",
		TransferTime:    "14:30",
		Slip:            strings.NewReader("slip bytes"),
		SlipName:        "slip.jpg",
		SlipContentType: "image/jpeg",
	})
	require.NoError(t, err)
	assert.Contains(t, claim.SlipURL, "https://cdn.example.com/")
	assert.Len(t, f.uploader.uploads, 1)
}

func TestPaymentService_SubmitClaim_AtMostOnce(t *testing.T) {
	f := setupPaymentServiceTest(t)

	_, err := f.paymentService.SubmitClaim(context.Background(), f.user.ID, f.order.ID, PaymentClaimInput{
		TransferDate: "2026-09-01",
		TransferTime: "14:30",
	})
	require.NoError(t, err)

	_, err = f.paymentService.SubmitClaim(context.Background(), f.user.ID, f.order.ID, PaymentClaimInput{
		TransferDate: "2026-09-01",
		TransferTime: "15:00",
	})
	assert.ErrorIs(t, err, ErrPaymentAlreadyClaimed)

	// Exactly one claim row exists
	var count int64
	f.db.Model(&model.PaymentClaim{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestPaymentService_SubmitClaim_StorageErrorSurfaces(t *testing.T) {
	f := setupPaymentServiceTest(t)

	// A genuine storage failure must not be reported as a duplicate claim
	require.NoError(t, f.db.Migrator().DropTable(&model.PaymentClaim{}))

	_, err := f.paymentService.SubmitClaim(context.Background(), f.user.ID, f.order.ID, PaymentClaimInput{
		TransferDate: "2026-09-01",
		TransferTime: "14:30",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPaymentAlreadyClaimed)
}

func TestPaymentService_SubmitClaim_OrderNotPending(t *testing.T) {
	f := setupPaymentServiceTest(t)

	f.db.Model(&model.Order{}).Where("id = ?", f.order.ID).Update("status", model.OrderStatusCancel)

	_, err := f.paymentService.SubmitClaim(context.Background(), f.user.ID, f.order.ID, PaymentClaimInput{
		TransferDate: "2026-09-01",
		TransferTime: "14:30",
	})
	assert.ErrorIs(t, err, ErrPaymentOrderNotPending)
}

func TestPaymentService_SubmitClaim_ForeignOrder(t *testing.T) {
	f := setupPaymentServiceTest(t)

	_, err := f.paymentService.SubmitClaim(context.Background(), f.user.ID+1, f.order.ID, PaymentClaimInput{
		TransferDate: "2026-09-01",
		TransferTime: "14:30",
	})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestPaymentService_SubmitClaim_BadTransferStamp(t *testing.T) {
	f := setupPaymentServiceTest(t)

	cases := []struct {
		date string
		time string
	}{
		{"01-09-2026", "14:30"},
		{"2026-09-01", "2pm"},
		{"", "14:30"},
		{"2026-09-01", ""},
	}
	for _, tc := range cases {
		_, err := f.paymentService.SubmitClaim(context.Background(), f.user.ID, f.order.ID, PaymentClaimInput{
			TransferDate: tc.date,
			TransferTime: tc.time,
		})
		assert.ErrorIs(t, err, ErrInvalidTransferStamp)
	}
}

func TestPaymentService_Channels(t *testing.T) {
	f := setupPaymentServiceTest(t)

	channel, err := f.paymentService.CreateChannel(PaymentChannelInput{
		BankName:      "Kasikorn Bank",
		AccountName:   "Shopmall Co., Ltd.",
		AccountNumber: "123-4-56789-0",
	})
	require.NoError(t, err)
	assert.True(t, channel.IsActive)

	inactive := false
	_, err = f.paymentService.UpdateChannel(channel.ID, PaymentChannelInput{
		BankName:      channel.BankName,
		AccountName:   channel.AccountName,
		AccountNumber: channel.AccountNumber,
		IsActive:      &inactive,
	})
	require.NoError(t, err)

	active, err := f.paymentService.ListChannels(true)
	require.NoError(t, err)
	assert.Len(t, active, 0)

	all, err := f.paymentService.ListChannels(false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
