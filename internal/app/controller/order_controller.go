package controller

import (
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/internal/app/service"
	"github.com/adeliap/rotiku-backend/internal/errors"
	"github.com/adeliap/rotiku-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService  service.OrderService
	reportService service.ReportService
}

func NewOrderController(orderService service.OrderService, reportService service.ReportService) *OrderController {
	return &OrderController{
		orderService:  orderService,
		reportService: reportService,
	}
}

type CheckoutRequest struct {
	PaymentMethod   string  `json:"payment_method" binding:"required"`
	ReceivedAmount  float64 `json:"received_amount"`
	FulfillmentType string  `json:"fulfillment_type"`
	DeliveryAddress string  `json:"delivery_address"`
	VoucherCode     string  `json:"voucher_code"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func respondCheckoutError(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, service.ErrEmptyCart):
		errors.BadRequest(c, errors.CartEmpty, "Keranjang masih kosong")
	case stderrors.Is(err, service.ErrStoreClosed):
		errors.RespondWithError(c, http.StatusConflict, errors.CartStoreClosed, "Toko sedang tutup")
	case stderrors.Is(err, service.ErrAddressRequired):
		errors.BadRequest(c, errors.OrderAddressRequired, "Alamat pengiriman wajib diisi")
	case stderrors.Is(err, service.ErrInvalidPayment):
		errors.BadRequest(c, errors.ValidationInvalidInput, "Metode pembayaran tidak valid")
	case stderrors.Is(err, service.ErrCashInsufficient):
		errors.BadRequest(c, errors.OrderCashInsufficient, "Uang yang diterima kurang dari total")
	case stderrors.Is(err, service.ErrInsufficientStock):
		errors.BadRequest(c, errors.CartInsufficientStock, "Stok tidak mencukupi")
	case stderrors.Is(err, service.ErrProductNotFound):
		errors.NotFound(c, errors.ProductNotFound, "Produk tidak ditemukan")
	case stderrors.Is(err, service.ErrVoucherNotFound):
		errors.NotFound(c, errors.VoucherNotFound, "Voucher tidak ditemukan")
	case stderrors.Is(err, service.ErrVoucherInactive):
		errors.BadRequest(c, errors.VoucherInactive, "Voucher tidak aktif")
	case stderrors.Is(err, service.ErrVoucherExpired):
		errors.BadRequest(c, errors.VoucherExpired, "Voucher sudah kedaluwarsa")
	case stderrors.Is(err, service.ErrVoucherExhausted):
		errors.BadRequest(c, errors.VoucherExhausted, "Kuota voucher sudah habis")
	case stderrors.Is(err, service.ErrVoucherMinPurchase):
		errors.BadRequest(c, errors.VoucherMinPurchase, "Belanja belum mencapai minimum voucher")
	default:
		errors.Internal(c, "")
	}
}

// Checkout places an order from the user's cart.
// POST /api/v1/orders/checkout
func (ctrl *OrderController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Data permintaan tidak valid")
		return
	}

	order, err := ctrl.orderService.Checkout(c.Request.Context(), userID, service.CheckoutInput{
		PaymentMethod:   model.PaymentMethod(req.PaymentMethod),
		ReceivedAmount:  req.ReceivedAmount,
		FulfillmentType: model.FulfillmentType(req.FulfillmentType),
		DeliveryAddress: req.DeliveryAddress,
		VoucherCode:     req.VoucherCode,
	})
	if err != nil {
		log.Warn("Checkout rejected", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		respondCheckoutError(c, err)
		return
	}

	log.Info("Checkout completed", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"total_amount": order.TotalAmount,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Pesanan berhasil dibuat",
		"order":   order,
	})
}

// GetMyOrders returns the authenticated user's order history.
// GET /api/v1/orders
func (ctrl *OrderController) GetMyOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		log.Error("Failed to fetch orders", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.Internal(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder returns one of the user's orders.
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "ID pesanan tidak valid")
		return
	}

	order, err := ctrl.orderService.GetOrderByID(userID, uint(id))
	if err != nil {
		if stderrors.Is(err, service.ErrOrderNotFound) {
			errors.NotFound(c, errors.OrderNotFound, "Pesanan tidak ditemukan")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": id,
		})
		errors.Internal(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// ListStaffOrders returns the order board, optionally filtered by status.
// GET /api/v1/kasir/orders
func (ctrl *OrderController) ListStaffOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orders, err := ctrl.orderService.ListOrders(model.OrderStatus(c.Query("status")))
	if err != nil {
		log.Error("Failed to list orders for staff", err, map[string]interface{}{
			"status": c.Query("status"),
		})
		errors.Internal(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetStaffOrder returns any order by ID for the back office.
// GET /api/v1/kasir/orders/:id
func (ctrl *OrderController) GetStaffOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "ID pesanan tidak valid")
		return
	}

	order, err := ctrl.orderService.GetOrderForStaff(uint(id))
	if err != nil {
		if stderrors.Is(err, service.ErrOrderNotFound) {
			errors.NotFound(c, errors.OrderNotFound, "Pesanan tidak ditemukan")
			return
		}
		log.Error("Failed to fetch order for staff", err, map[string]interface{}{
			"order_id": id,
		})
		errors.Internal(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// UpdateOrderStatus moves an order along the fulfillment flow.
// PATCH /api/v1/kasir/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "ID pesanan tidak valid")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Data permintaan tidak valid")
		return
	}

	if err := ctrl.orderService.UpdateOrderStatus(uint(id), model.OrderStatus(req.Status)); err != nil {
		if stderrors.Is(err, service.ErrOrderNotFound) {
			errors.NotFound(c, errors.OrderNotFound, "Pesanan tidak ditemukan")
			return
		}
		log.Warn("Order status update rejected", map[string]interface{}{
			"order_id": id,
			"status":   req.Status,
			"error":    err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Status pesanan tidak valid")
		return
	}

	log.Info("Order status updated", map[string]interface{}{
		"order_id": id,
		"status":   req.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Status pesanan diperbarui",
	})
}

// UpdatePaymentStatus records a payment state change.
// PATCH /api/v1/kasir/orders/:id/payment
func (ctrl *OrderController) UpdatePaymentStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "ID pesanan tidak valid")
		return
	}

	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Data permintaan tidak valid")
		return
	}

	if err := ctrl.orderService.UpdatePaymentStatus(uint(id), model.PaymentStatus(req.Status)); err != nil {
		if stderrors.Is(err, service.ErrOrderNotFound) {
			errors.NotFound(c, errors.OrderNotFound, "Pesanan tidak ditemukan")
			return
		}
		log.Warn("Payment status update rejected", map[string]interface{}{
			"order_id": id,
			"status":   req.Status,
			"error":    err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Status pembayaran tidak valid")
		return
	}

	log.Info("Payment status updated", map[string]interface{}{
		"order_id": id,
		"status":   req.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Status pembayaran diperbarui",
	})
}

// parseReportRange reads from/to query params (YYYY-MM-DD). Default is
// the current day; the "to" date is inclusive.
func parseReportRange(c *gin.Context) (time.Time, time.Time, error) {
	const layout = "2006-01-02"

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)

	if v := c.Query("from"); v != "" {
		parsed, err := time.ParseInLocation(layout, v, now.Location())
		if err != nil {
			return from, to, err
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.ParseInLocation(layout, v, now.Location())
		if err != nil {
			return from, to, err
		}
		to = parsed.AddDate(0, 0, 1)
	}
	return from, to, nil
}

// GetSalesSummary aggregates orders in a date range.
// GET /api/v1/kasir/reports/summary
func (ctrl *OrderController) GetSalesSummary(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	from, to, err := parseReportRange(c)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Format tanggal tidak valid")
		return
	}

	summary, err := ctrl.reportService.Summary(from, to)
	if err != nil {
		log.Error("Failed to build sales summary", err, nil)
		errors.Internal(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
	})
}

// ExportOrders streams an XLSX of orders in a date range.
// GET /api/v1/kasir/reports/orders.xlsx
func (ctrl *OrderController) ExportOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	from, to, err := parseReportRange(c)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Format tanggal tidak valid")
		return
	}

	data, err := ctrl.reportService.ExportOrdersXLSX(from, to)
	if err != nil {
		log.Error("Failed to export orders", err, nil)
		errors.Internal(c, "")
		return
	}

	filename := "pesanan-" + from.Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
