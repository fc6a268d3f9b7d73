package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/internal/app/service"
	apperrors "github.com/ikkim/shopmall-backend/internal/errors"
	"github.com/ikkim/shopmall-backend/internal/middleware"
	"github.com/ikkim/shopmall-backend/internal/storage"
)

const maxSlipSize = 5 * 1024 * 1024 // 5MB

var allowedSlipTypes = []string{"image/jpeg", "image/png", "image/webp", "application/pdf"}

type PaymentController struct {
	paymentService service.PaymentService
	auditService   service.AuditService
}

func NewPaymentController(paymentService service.PaymentService, auditService service.AuditService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		auditService:   auditService,
	}
}

type PaymentChannelRequest struct {
	BankName      string  `json:"bank_name" binding:"required"`
	AccountName   string  `json:"account_name" binding:"required"`
	AccountNumber string  `json:"account_number" binding:"required"`
	QRImageURL    *string `json:"qr_image_url"`
	IsActive      *bool   `json:"is_active"`
}

// SubmitClaim records a transfer report for an order. Multipart form:
// amount, transfer_date, transfer_time, slip (optional file).
// POST /api/v1/orders/:id/payment
func (ctrl *PaymentController) SubmitClaim(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	transferDate := c.PostForm("transfer_date")
	transferTime := c.PostForm("transfer_time")
	if transferDate == "" || transferTime == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Transfer date and time are required")
		return
	}

	amount := 0.0
	if v := c.PostForm("amount"); v != "" {
		amount, err = strconv.ParseFloat(v, 64)
		if err != nil || amount < 0 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Invalid amount")
			return
		}
	}

	input := service.PaymentClaimInput{
		Amount:       amount,
		TransferDate: transferDate,
		TransferTime: transferTime,
	}

	if fileHeader, err := c.FormFile("slip"); err == nil {
		if err := storage.ValidateFileSize(fileHeader.Size, maxSlipSize); err != nil {
			apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "Slip file is too large")
			return
		}
		contentType := fileHeader.Header.Get("Content-Type")
		if err := storage.ValidateContentType(contentType, allowedSlipTypes); err != nil {
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Slip must be an image or PDF")
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			log.Error("Failed to open slip upload", err, nil)
			apperrors.InternalError(c, "")
			return
		}
		defer file.Close()

		input.Slip = file
		input.SlipName = fileHeader.Filename
		input.SlipContentType = contentType
	}

	claim, err := ctrl.paymentService.SubmitClaim(c.Request.Context(), userID, uint(orderID), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		case errors.Is(err, service.ErrInvalidTransferStamp):
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Transfer date must be YYYY-MM-DD and time HH:MM")
		case errors.Is(err, service.ErrPaymentAlreadyClaimed):
			apperrors.Conflict(c, apperrors.PaymentAlreadyClaimed, "A payment has already been recorded for this order")
		case errors.Is(err, service.ErrPaymentOrderNotPending):
			apperrors.Conflict(c, apperrors.PaymentOrderNotPending, "Order is not awaiting payment")
		default:
			log.Error("Failed to submit payment claim", err, map[string]interface{}{
				"order_id": orderID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	ctrl.auditService.Record(model.ActorUser, userID, "payment.claim",
		"payment recorded for order "+strconv.FormatUint(orderID, 10))

	c.JSON(http.StatusCreated, gin.H{"payment": claim})
}

// ListChannels returns bank accounts to transfer to
// GET /api/v1/payment-channels
func (ctrl *PaymentController) ListChannels(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	role, _ := middleware.GetUserRole(c)
	activeOnly := role != "admin"

	channels, err := ctrl.paymentService.ListChannels(activeOnly)
	if err != nil {
		log.Error("Failed to list payment channels", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

// CreateChannel adds a bank account (admin)
// POST /api/v1/admin/payment-channels
func (ctrl *PaymentController) CreateChannel(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PaymentChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Bank name, account name and number are required")
		return
	}

	channel, err := ctrl.paymentService.CreateChannel(service.PaymentChannelInput{
		BankName:      req.BankName,
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
		QRImageURL:    req.QRImageURL,
		IsActive:      req.IsActive,
	})
	if err != nil {
		log.Error("Failed to create payment channel", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"channel": channel})
}

// UpdateChannel edits a bank account (admin)
// PUT /api/v1/admin/payment-channels/:id
func (ctrl *PaymentController) UpdateChannel(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid channel ID")
		return
	}

	var req PaymentChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid channel data")
		return
	}

	channel, err := ctrl.paymentService.UpdateChannel(uint(id), service.PaymentChannelInput{
		BankName:      req.BankName,
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
		QRImageURL:    req.QRImageURL,
		IsActive:      req.IsActive,
	})
	if err != nil {
		if errors.Is(err, service.ErrChannelNotFound) {
			apperrors.NotFound(c, apperrors.PaymentChannelNotFound, "Payment channel not found")
			return
		}
		log.Error("Failed to update payment channel", err, map[string]interface{}{
			"channel_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"channel": channel})
}

// DeleteChannel removes a bank account (admin)
// DELETE /api/v1/admin/payment-channels/:id
func (ctrl *PaymentController) DeleteChannel(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid channel ID")
		return
	}

	if err := ctrl.paymentService.DeleteChannel(uint(id)); err != nil {
		if errors.Is(err, service.ErrChannelNotFound) {
			apperrors.NotFound(c, apperrors.PaymentChannelNotFound, "Payment channel not found")
			return
		}
		log.Error("Failed to delete payment channel", err, map[string]interface{}{
			"channel_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment channel deleted"})
}
