package controller

import (
	stderrors "errors"
	"net/http"

	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/internal/app/service"
	"github.com/adeliap/rotiku-backend/internal/errors"
	"github.com/adeliap/rotiku-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	OrderDay  string `json:"order_day" binding:"required"`
	AddonIDs  []uint `json:"addon_ids"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type EditCartItemRequest struct {
	OrderDay string `json:"order_day" binding:"required"`
	AddonIDs []uint `json:"addon_ids"`
}

// respondCartError maps cart service sentinels onto HTTP responses.
func respondCartError(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, service.ErrProductNotFound):
		errors.NotFound(c, errors.ProductNotFound, "Produk tidak ditemukan")
	case stderrors.Is(err, service.ErrCartItemNotFound):
		errors.NotFound(c, errors.CartItemNotFound, "Item keranjang tidak ditemukan")
	case stderrors.Is(err, service.ErrInvalidAddon):
		errors.BadRequest(c, errors.ProductAddonInvalid, "Tambahan tidak valid untuk produk ini")
	case stderrors.Is(err, service.ErrDayUnavailable):
		errors.BadRequest(c, errors.CartDayUnavailable, "Produk tidak tersedia pada hari tersebut")
	case stderrors.Is(err, service.ErrInsufficientStock):
		errors.BadRequest(c, errors.CartInsufficientStock, "Stok tidak mencukupi")
	case stderrors.Is(err, service.ErrStoreClosed):
		errors.RespondWithError(c, http.StatusConflict, errors.CartStoreClosed, "Toko sedang tutup")
	case stderrors.Is(err, service.ErrInvalidQuantity):
		errors.BadRequest(c, errors.ValidationInvalidInput, "Jumlah harus lebih dari nol")
	default:
		errors.Internal(c, "")
	}
}

// GetCart returns the user's cart with its subtotal.
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	cartItems, err := ctrl.cartService.GetUserCart(userID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.Internal(c, "")
		return
	}

	subtotal := ctrl.cartService.Subtotal(cartItems)

	log.Info("Cart fetched successfully", map[string]interface{}{
		"user_id":  userID,
		"count":    len(cartItems),
		"subtotal": subtotal,
	})

	c.JSON(http.StatusOK, gin.H{
		"cart_items": cartItems,
		"count":      len(cartItems),
		"subtotal":   subtotal,
	})
}

// AddToCart adds an item to the cart. A request matching an existing
// line's product, day, and addon set merges into that line.
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Data permintaan tidak valid")
		return
	}

	item, err := ctrl.cartService.AddToCart(
		c.Request.Context(),
		userID,
		req.ProductID,
		model.OrderDay(req.OrderDay),
		req.AddonIDs,
		req.Quantity,
	)
	if err != nil {
		log.Warn("Add to cart rejected", map[string]interface{}{
			"user_id":    userID,
			"product_id": req.ProductID,
			"error":      err.Error(),
		})
		respondCartError(c, err)
		return
	}

	log.Info("Item added to cart successfully", map[string]interface{}{
		"user_id":  userID,
		"cart_key": item.CartKey,
		"quantity": item.Quantity,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Item ditambahkan ke keranjang",
		"cart_item": item,
	})
}

// UpdateQuantity sets a cart line's quantity. Zero or a negative value
// removes the line.
// PUT /api/v1/cart/:cartKey
func (ctrl *CartController) UpdateQuantity(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	cartKey := c.Param("cartKey")

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update quantity request", map[string]interface{}{
			"user_id":  userID,
			"cart_key": cartKey,
			"error":    err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Data permintaan tidak valid")
		return
	}

	if err := ctrl.cartService.UpdateQuantity(c.Request.Context(), userID, cartKey, req.Quantity); err != nil {
		log.Warn("Quantity update rejected", map[string]interface{}{
			"user_id":  userID,
			"cart_key": cartKey,
			"quantity": req.Quantity,
			"error":    err.Error(),
		})
		respondCartError(c, err)
		return
	}

	log.Info("Cart quantity updated successfully", map[string]interface{}{
		"user_id":  userID,
		"cart_key": cartKey,
		"quantity": req.Quantity,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Keranjang diperbarui",
	})
}

// EditCartItem rewrites a line's order day and addon set. When the new
// combination matches another line, the two merge.
// PATCH /api/v1/cart/:cartKey
func (ctrl *CartController) EditCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	cartKey := c.Param("cartKey")

	var req EditCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid edit cart item request", map[string]interface{}{
			"user_id":  userID,
			"cart_key": cartKey,
			"error":    err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Data permintaan tidak valid")
		return
	}

	item, err := ctrl.cartService.EditItem(userID, cartKey, model.OrderDay(req.OrderDay), req.AddonIDs)
	if err != nil {
		log.Warn("Cart item edit rejected", map[string]interface{}{
			"user_id":  userID,
			"cart_key": cartKey,
			"error":    err.Error(),
		})
		respondCartError(c, err)
		return
	}

	log.Info("Cart item edited successfully", map[string]interface{}{
		"user_id":  userID,
		"cart_key": item.CartKey,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":   "Item keranjang diperbarui",
		"cart_item": item,
	})
}

// RemoveFromCart removes a line. Removing a line that is already gone is
// still a success.
// DELETE /api/v1/cart/:cartKey
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	cartKey := c.Param("cartKey")

	if err := ctrl.cartService.RemoveFromCart(userID, cartKey); err != nil {
		log.Error("Failed to remove cart item", err, map[string]interface{}{
			"user_id":  userID,
			"cart_key": cartKey,
		})
		errors.Internal(c, "")
		return
	}

	log.Info("Cart item removed successfully", map[string]interface{}{
		"user_id":  userID,
		"cart_key": cartKey,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Item dihapus dari keranjang",
	})
}

// ClearCart removes every line in the user's cart.
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	if err := ctrl.cartService.ClearCart(userID); err != nil {
		log.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.Internal(c, "")
		return
	}

	log.Info("Cart cleared successfully", map[string]interface{}{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Keranjang dikosongkan",
	})
}
