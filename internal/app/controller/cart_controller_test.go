package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/internal/app/repository"
	"github.com/adeliap/rotiku-backend/internal/app/service"
	"github.com/adeliap/rotiku-backend/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartControllerTest(t *testing.T) (*CartController, *gin.Engine, *gorm.DB, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	addonRepo := repository.NewAddonRepository(testDB)
	settingRepo := repository.NewSettingRepository(testDB)
	storeStatus := service.NewStoreStatusService(settingRepo)
	cartService := service.NewCartService(cartRepo, productRepo, addonRepo, storeStatus)
	cartController := NewCartController(cartService)

	user := &model.User{
		Email:        "pelanggan@example.com",
		PasswordHash: "hash",
		Name:         "Pelanggan Uji",
		Role:         model.RoleCustomer,
	}
	require.NoError(t, testDB.Create(user).Error)

	product := &model.Product{
		Name:          "Roti Sobek Coklat",
		Price:         25000,
		StockQuantity: 5,
	}
	product.SetAvailableDays([]model.OrderDay{
		model.DayMonday, model.DayTuesday, model.DayWednesday,
		model.DayThursday, model.DayFriday,
	})
	require.NoError(t, testDB.Create(product).Error)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return cartController, router, testDB, user, product
}

// setUserIDInContext mimics what the auth middleware does after a valid token.
func setUserIDInContext(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
	}
}

func TestCartController_AddToCart_Success(t *testing.T) {
	controller, router, _, user, product := setupCartControllerTest(t)
	router.POST("/cart", setUserIDInContext(user.ID), controller.AddToCart)

	body, _ := json.Marshal(AddToCartRequest{
		ProductID: product.ID,
		OrderDay:  "monday",
		Quantity:  2,
	})
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Message  string         `json:"message"`
		CartItem model.CartItem `json:"cart_item"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Item ditambahkan ke keranjang", resp.Message)
	assert.NotEmpty(t, resp.CartItem.CartKey)
	assert.Equal(t, 2, resp.CartItem.Quantity)
	assert.Equal(t, float64(25000), resp.CartItem.UnitPrice)
}

func TestCartController_AddToCart_InsufficientStock(t *testing.T) {
	controller, router, _, user, product := setupCartControllerTest(t)
	router.POST("/cart", setUserIDInContext(user.ID), controller.AddToCart)

	body, _ := json.Marshal(AddToCartRequest{
		ProductID: product.ID,
		OrderDay:  "monday",
		Quantity:  6, // stock is 5
	})
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CART_INSUFFICIENT_STOCK", resp.Error)
	assert.Equal(t, "Stok tidak mencukupi", resp.Message)
}

func TestCartController_AddToCart_DayUnavailable(t *testing.T) {
	controller, router, _, user, product := setupCartControllerTest(t)
	router.POST("/cart", setUserIDInContext(user.ID), controller.AddToCart)

	body, _ := json.Marshal(AddToCartRequest{
		ProductID: product.ID,
		OrderDay:  "sunday",
		Quantity:  1,
	})
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CART_DAY_UNAVAILABLE", resp.Error)
}

func TestCartController_AddToCart_ProductNotFound(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)
	router.POST("/cart", setUserIDInContext(user.ID), controller.AddToCart)

	body, _ := json.Marshal(AddToCartRequest{
		ProductID: 9999,
		OrderDay:  "monday",
		Quantity:  1,
	})
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_AddToCart_Unauthenticated(t *testing.T) {
	controller, router, _, _, product := setupCartControllerTest(t)
	router.POST("/cart", controller.AddToCart)

	body, _ := json.Marshal(AddToCartRequest{
		ProductID: product.ID,
		OrderDay:  "monday",
		Quantity:  1,
	})
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCartController_GetCart(t *testing.T) {
	controller, router, _, user, product := setupCartControllerTest(t)
	router.GET("/cart", setUserIDInContext(user.ID), controller.GetCart)
	router.POST("/cart", setUserIDInContext(user.ID), controller.AddToCart)

	body, _ := json.Marshal(AddToCartRequest{
		ProductID: product.ID,
		OrderDay:  "tuesday",
		Quantity:  3,
	})
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		CartItems []model.CartItem `json:"cart_items"`
		Count     int              `json:"count"`
		Subtotal  float64          `json:"subtotal"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, float64(75000), resp.Subtotal)
}

func TestCartController_UpdateQuantity(t *testing.T) {
	controller, router, testDB, user, product := setupCartControllerTest(t)
	router.POST("/cart", setUserIDInContext(user.ID), controller.AddToCart)
	router.PUT("/cart/:cartKey", setUserIDInContext(user.ID), controller.UpdateQuantity)

	body, _ := json.Marshal(AddToCartRequest{
		ProductID: product.ID,
		OrderDay:  "monday",
		Quantity:  1,
	})
	addReq := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewReader(body))
	addReq.Header.Set("Content-Type", "application/json")
	addW := httptest.NewRecorder()
	router.ServeHTTP(addW, addReq)
	require.Equal(t, http.StatusCreated, addW.Code)

	var added struct {
		CartItem model.CartItem `json:"cart_item"`
	}
	require.NoError(t, json.Unmarshal(addW.Body.Bytes(), &added))

	body, _ = json.Marshal(UpdateQuantityRequest{Quantity: 4})
	req := httptest.NewRequest(http.MethodPut, "/cart/"+added.CartItem.CartKey, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var stored model.CartItem
	require.NoError(t, testDB.Where("cart_key = ?", added.CartItem.CartKey).First(&stored).Error)
	assert.Equal(t, 4, stored.Quantity)
}

func TestCartController_UpdateQuantity_NotFound(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)
	router.PUT("/cart/:cartKey", setUserIDInContext(user.ID), controller.UpdateQuantity)

	body, _ := json.Marshal(UpdateQuantityRequest{Quantity: 2})
	req := httptest.NewRequest(http.MethodPut, "/cart/tidak-ada", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CART_ITEM_NOT_FOUND", resp.Error)
}

func TestCartController_RemoveFromCart_MissingLineStillOK(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)
	router.DELETE("/cart/:cartKey", setUserIDInContext(user.ID), controller.RemoveFromCart)

	// Removal is idempotent: deleting a line that never existed succeeds.
	req := httptest.NewRequest(http.MethodDelete, "/cart/sudah-hilang", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartController_ClearCart(t *testing.T) {
	controller, router, testDB, user, product := setupCartControllerTest(t)
	router.POST("/cart", setUserIDInContext(user.ID), controller.AddToCart)
	router.DELETE("/cart", setUserIDInContext(user.ID), controller.ClearCart)

	body, _ := json.Marshal(AddToCartRequest{
		ProductID: product.ID,
		OrderDay:  "monday",
		Quantity:  1,
	})
	addReq := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewReader(body))
	addReq.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), addReq)

	req := httptest.NewRequest(http.MethodDelete, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	testDB.Model(&model.CartItem{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCartController_StoreClosedConflict(t *testing.T) {
	controller, router, testDB, user, product := setupCartControllerTest(t)
	router.POST("/cart", setUserIDInContext(user.ID), controller.AddToCart)

	settingRepo := repository.NewSettingRepository(testDB)
	storeStatus := service.NewStoreStatusService(settingRepo)
	_, err := storeStatus.SetClosed(context.Background(), true, "Libur lebaran")
	require.NoError(t, err)

	body, _ := json.Marshal(AddToCartRequest{
		ProductID: product.ID,
		OrderDay:  "monday",
		Quantity:  1,
	})
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CART_STORE_CLOSED", resp.Error)
}
