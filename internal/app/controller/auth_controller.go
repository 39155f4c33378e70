package controller

import (
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/internal/app/service"
	"github.com/adeliap/rotiku-backend/internal/errors"
	"github.com/adeliap/rotiku-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService  service.AuthService
	accessExpiry time.Duration
}

func NewAuthController(authService service.AuthService, accessExpiry time.Duration) *AuthController {
	return &AuthController{
		authService:  authService,
		accessExpiry: accessExpiry,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type CreateStaffRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

func userResponse(user *model.User) gin.H {
	return gin.H{
		"id":      user.ID,
		"email":   user.Email,
		"name":    user.Name,
		"phone":   user.Phone,
		"address": user.Address,
		"role":    user.Role,
	}
}

// Register handles customer registration.
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Data pendaftaran tidak valid")
		return
	}

	user, tokens, err := ctrl.authService.Register(req.Email, req.Password, req.Name, req.Phone)
	if err != nil {
		if stderrors.Is(err, service.ErrEmailAlreadyExists) {
			log.Warn("Registration failed: email already exists", map[string]interface{}{
				"email": req.Email,
			})
			errors.Conflict(c, errors.AuthEmailAlreadyExists, "Email sudah terdaftar")
			return
		}
		log.Error("Registration failed", err, map[string]interface{}{
			"email": req.Email,
		})
		errors.Internal(c, "")
		return
	}

	log.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Pendaftaran berhasil",
		"user":    userResponse(user),
		"tokens":  tokens,
	})
}

// Login handles user login.
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Data login tidak valid")
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		if stderrors.Is(err, service.ErrInvalidCredentials) {
			log.Warn("Login failed: invalid credentials", map[string]interface{}{
				"email": req.Email,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthInvalidCredentials, "Email atau kata sandi salah")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"email": req.Email,
		})
		errors.Internal(c, "")
		return
	}

	log.Info("Login successful", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Login berhasil",
		"user":    userResponse(user),
		"tokens":  tokens,
	})
}

// Logout revokes the presented access token.
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		errors.Unauthorized(c, "")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), parts[1], ctrl.accessExpiry); err != nil {
		log.Error("Logout failed", err, nil)
		errors.Internal(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logout berhasil",
	})
}

// GetMe returns the current user.
// GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if stderrors.Is(err, service.ErrUserNotFound) {
			errors.NotFound(c, errors.ValidationInvalidID, "Pengguna tidak ditemukan")
			return
		}
		log.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.Internal(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": userResponse(user),
	})
}

// UpdateProfile updates the current user's profile.
// PUT /api/v1/auth/me
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Data permintaan tidak valid")
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, req.Name, req.Phone, req.Address)
	if err != nil {
		if stderrors.Is(err, service.ErrUserNotFound) {
			errors.NotFound(c, errors.ValidationInvalidID, "Pengguna tidak ditemukan")
			return
		}
		log.Error("Failed to update profile", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.Internal(c, "")
		return
	}

	log.Info("Profile updated", map[string]interface{}{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Profil diperbarui",
		"user":    userResponse(user),
	})
}

// CreateStaff provisions a kasir or admin account (admin only).
// POST /api/v1/admin/staff
func (ctrl *AuthController) CreateStaff(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Data permintaan tidak valid")
		return
	}

	role := model.UserRole(req.Role)
	if role != model.RoleKasir && role != model.RoleAdmin {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Peran harus kasir atau admin")
		return
	}

	user, err := ctrl.authService.CreateStaff(req.Email, req.Password, req.Name, role)
	if err != nil {
		if stderrors.Is(err, service.ErrEmailAlreadyExists) {
			errors.Conflict(c, errors.AuthEmailAlreadyExists, "Email sudah terdaftar")
			return
		}
		log.Error("Failed to create staff account", err, map[string]interface{}{
			"email": req.Email,
		})
		errors.Internal(c, "")
		return
	}

	log.Info("Staff account created", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Akun staf berhasil dibuat",
		"user":    userResponse(user),
	})
}

// ListStaff returns all kasir and admin accounts (admin only).
// GET /api/v1/admin/staff
func (ctrl *AuthController) ListStaff(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	staff, err := ctrl.authService.ListStaff()
	if err != nil {
		log.Error("Failed to list staff", err, nil)
		errors.Internal(c, "")
		return
	}

	users := make([]gin.H, 0, len(staff))
	for i := range staff {
		users = append(users, userResponse(&staff[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"staff": users,
		"count": len(users),
	})
}
