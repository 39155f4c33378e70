package controller

import (
	"net/http"

	"github.com/adeliap/rotiku-backend/internal/app/service"
	"github.com/adeliap/rotiku-backend/internal/errors"
	"github.com/adeliap/rotiku-backend/internal/middleware"
	"github.com/adeliap/rotiku-backend/internal/websocket"
	"github.com/gin-gonic/gin"
)

type StoreController struct {
	storeStatus service.StoreStatusService
	hub         *websocket.Hub
}

func NewStoreController(storeStatus service.StoreStatusService, hub *websocket.Hub) *StoreController {
	return &StoreController{
		storeStatus: storeStatus,
		hub:         hub,
	}
}

type SetClosureRequest struct {
	Closed  *bool  `json:"closed" binding:"required"`
	Message string `json:"message"`
}

// GetStatus returns the public store status. The storefront polls this
// before letting a customer build a cart.
// GET /api/v1/store/status
func (ctrl *StoreController) GetStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	setting, err := ctrl.storeStatus.GetSetting()
	if err != nil {
		log.Error("Failed to fetch store status", err, nil)
		errors.Internal(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"closed":  setting.Closed,
		"message": setting.ClosedMessage,
	})
}

// SetClosure flips the closure flag (kasir and admin).
// PUT /api/v1/kasir/store/closure
func (ctrl *StoreController) SetClosure(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SetClosureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Data permintaan tidak valid")
		return
	}

	setting, err := ctrl.storeStatus.SetClosed(c.Request.Context(), *req.Closed, req.Message)
	if err != nil {
		log.Error("Failed to update store closure", err, nil)
		errors.Internal(c, "")
		return
	}

	if ctrl.hub != nil {
		ctrl.hub.NotifyStoreClosure(setting.Closed, setting.ClosedMessage)
	}

	log.Info("Store closure updated", map[string]interface{}{
		"closed": setting.Closed,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Status toko diperbarui",
		"closed":  setting.Closed,
	})
}
