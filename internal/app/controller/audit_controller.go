package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/internal/app/repository"
	"github.com/ikkim/shopmall-backend/internal/app/service"
	apperrors "github.com/ikkim/shopmall-backend/internal/errors"
	"github.com/ikkim/shopmall-backend/internal/middleware"
)

type AuditController struct {
	auditService service.AuditService
}

func NewAuditController(auditService service.AuditService) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// List returns audit entries (admin)
// GET /api/v1/admin/logs?actor_kind=&action=&page=&limit=
func (ctrl *AuditController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.AuditLogFilter{
		ActorKind: model.ActorKind(c.Query("actor_kind")),
		Action:    c.Query("action"),
		Page:      parsePositiveInt(c.Query("page"), 1),
		Limit:     parsePositiveInt(c.Query("limit"), 50),
	}

	entries, total, err := ctrl.auditService.List(filter)
	if err != nil {
		log.Error("Failed to list audit logs", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  entries,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}
