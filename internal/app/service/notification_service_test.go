package service

import (
	"testing"

	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/internal/app/repository"
	"github.com/ikkim/shopmall-backend/internal/db"
	"github.com/ikkim/shopmall-backend/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupNotificationServiceTest(t *testing.T) (NotificationService, *model.User, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	notificationRepo := repository.NewNotificationRepository(testDB)
	notificationService := NewNotificationService(notificationRepo, nil)

	user := &model.User{
		Email:        "notify@example.com",
		PasswordHash: "hash",
		FirstName:    "Notify",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	return notificationService, user, testDB
}

func TestNotificationService_Notify(t *testing.T) {
	notificationService, user, _ := setupNotificationServiceTest(t)

	notificationService.Notify(user.ID, model.NotificationOrderStatus, "Order updated", "Order #1 is now paid.")

	notifications, err := notificationService.List(user.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Order updated", notifications[0].Title)
	assert.False(t, notifications[0].IsRead)

	count, err := notificationService.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNotificationService_Notify_OfflineUserStoredOnly(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	hub := websocket.NewHub()
	go hub.Run()

	notificationRepo := repository.NewNotificationRepository(testDB)
	notificationService := NewNotificationService(notificationRepo, hub)

	user := &model.User{Email: "offline@example.com", PasswordHash: "hash", FirstName: "Offline"}
	testDB.Create(user)

	// No open connection; the notification lands in storage without a push
	notificationService.Notify(user.ID, model.NotificationOrderStatus, "Order updated", "Order #1 is now paid.")

	notifications, err := notificationService.List(user.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
}

func TestNotificationService_Notify_MutedTypeDropped(t *testing.T) {
	notificationService, user, _ := setupNotificationServiceTest(t)

	muted := []string{string(model.NotificationPromotion)}
	_, err := notificationService.UpdateSettings(user.ID, NotificationSettingsInput{MutedTypes: &muted})
	require.NoError(t, err)

	notificationService.Notify(user.ID, model.NotificationPromotion, "Sale", "Everything half price.")
	notificationService.Notify(user.ID, model.NotificationOrderStatus, "Order updated", "Order #1 shipped.")

	notifications, err := notificationService.List(user.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationOrderStatus, notifications[0].Type)
}

func TestNotificationService_MarkRead(t *testing.T) {
	notificationService, user, _ := setupNotificationServiceTest(t)

	notificationService.Notify(user.ID, model.NotificationSystem, "Welcome", "Thanks for joining.")

	notifications, err := notificationService.List(user.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	require.NoError(t, notificationService.MarkRead(user.ID, notifications[0].ID))

	count, err := notificationService.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestNotificationService_MarkRead_ForeignNotification(t *testing.T) {
	notificationService, user, _ := setupNotificationServiceTest(t)

	notificationService.Notify(user.ID, model.NotificationSystem, "Welcome", "Thanks for joining.")

	notifications, err := notificationService.List(user.ID)
	require.NoError(t, err)

	err = notificationService.MarkRead(user.ID+1, notifications[0].ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	notificationService, user, _ := setupNotificationServiceTest(t)

	notificationService.Notify(user.ID, model.NotificationSystem, "One", "First.")
	notificationService.Notify(user.ID, model.NotificationSystem, "Two", "Second.")

	require.NoError(t, notificationService.MarkAllRead(user.ID))

	count, err := notificationService.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestNotificationService_SettingsDefaults(t *testing.T) {
	notificationService, user, _ := setupNotificationServiceTest(t)

	settings, err := notificationService.GetSettings(user.ID)
	require.NoError(t, err)
	assert.True(t, settings.PushEnable)
	assert.Empty(t, settings.MutedTypes)
}

func TestNotificationService_UpdateSettings(t *testing.T) {
	notificationService, user, _ := setupNotificationServiceTest(t)

	pushOff := false
	muted := []string{string(model.NotificationPromotion), string(model.NotificationSystem)}
	settings, err := notificationService.UpdateSettings(user.ID, NotificationSettingsInput{
		PushEnable: &pushOff,
		MutedTypes: &muted,
	})
	require.NoError(t, err)
	assert.False(t, settings.PushEnable)
	assert.Len(t, settings.MutedTypes, 2)

	// Persisted
	reloaded, err := notificationService.GetSettings(user.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.PushEnable)
	assert.True(t, reloaded.Muted(model.NotificationPromotion))
	assert.False(t, reloaded.Muted(model.NotificationOrderStatus))
}
