package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/ikkim/shopmall-backend/internal/app/service"
	apperrors "github.com/ikkim/shopmall-backend/internal/errors"
	"github.com/ikkim/shopmall-backend/internal/middleware"
	"github.com/ikkim/shopmall-backend/internal/websocket"
)

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS is enforced at the router; the socket accepts any origin
	// that got this far.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type NotificationController struct {
	notificationService service.NotificationService
	hub                 *websocket.Hub
}

func NewNotificationController(notificationService service.NotificationService, hub *websocket.Hub) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
		hub:                 hub,
	}
}

type NotificationSettingsRequest struct {
	PushEnable *bool     `json:"push_enable"`
	MutedTypes *[]string `json:"muted_types"`
}

// List returns the latest notifications
// GET /api/v1/notifications
func (ctrl *NotificationController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	notifications, err := ctrl.notificationService.List(userID)
	if err != nil {
		log.Error("Failed to list notifications", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	unread, err := ctrl.notificationService.UnreadCount(userID)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unread":        unread,
	})
}

// MarkRead marks one notification as read
// POST /api/v1/notifications/:id/read
func (ctrl *NotificationController) MarkRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid notification ID")
		return
	}

	if err := ctrl.notificationService.MarkRead(userID, uint(id)); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			apperrors.NotFound(c, apperrors.NotificationNotFound, "Notification not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked read"})
}

// MarkAllRead marks every notification as read
// POST /api/v1/notifications/read-all
func (ctrl *NotificationController) MarkAllRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.notificationService.MarkAllRead(userID); err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked read"})
}

// GetSettings returns notification preferences
// GET /api/v1/notifications/settings
func (ctrl *NotificationController) GetSettings(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	settings, err := ctrl.notificationService.GetSettings(userID)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings edits notification preferences
// PUT /api/v1/notifications/settings
func (ctrl *NotificationController) UpdateSettings(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req NotificationSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid settings data")
		return
	}

	settings, err := ctrl.notificationService.UpdateSettings(userID, service.NotificationSettingsInput{
		PushEnable: req.PushEnable,
		MutedTypes: req.MutedTypes,
	})
	if err != nil {
		log.Error("Failed to update notification settings", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// Connect upgrades to a WebSocket for live pushes
// GET /api/v1/notifications/ws
func (ctrl *NotificationController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade WebSocket connection", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	client := &websocket.Client{
		Hub:    ctrl.hub,
		Conn:   &websocket.Conn{Conn: conn},
		UserID: userID,
		Send:   make(chan []byte, 64),
	}
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
