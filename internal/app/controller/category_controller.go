package controller

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/internal/app/service"
	"github.com/adeliap/rotiku-backend/internal/errors"
	"github.com/adeliap/rotiku-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
	}
}

type JenisRequest struct {
	Name   string `json:"name" binding:"required"`
	NameEn string `json:"name_en"`
}

type SubJenisRequest struct {
	JenisID uint   `json:"jenis_id" binding:"required"`
	Name    string `json:"name" binding:"required"`
	NameEn  string `json:"name_en"`
}

// ListJenis returns every jenis with its sub jenis.
// GET /api/v1/jenis
func (ctrl *CategoryController) ListJenis(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	jenis, err := ctrl.categoryService.ListJenis()
	if err != nil {
		log.Error("Failed to list jenis", err, nil)
		errors.Internal(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jenis": jenis,
		"count": len(jenis),
	})
}

// CreateJenis adds a category (admin only).
// POST /api/v1/admin/jenis
func (ctrl *CategoryController) CreateJenis(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req JenisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Data permintaan tidak valid")
		return
	}

	jenis := &model.Jenis{Name: req.Name, NameEn: req.NameEn}
	if err := ctrl.categoryService.CreateJenis(jenis); err != nil {
		if stderrors.Is(err, service.ErrInvalidCategory) {
			errors.BadRequest(c, errors.ValidationInvalidInput, "Nama jenis wajib diisi")
			return
		}
		log.Error("Failed to create jenis", err, map[string]interface{}{
			"name": req.Name,
		})
		errors.Internal(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Jenis berhasil dibuat",
		"jenis":   jenis,
	})
}

// UpdateJenis renames a category (admin only).
// PUT /api/v1/admin/jenis/:id
func (ctrl *CategoryController) UpdateJenis(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "ID jenis tidak valid")
		return
	}

	var req JenisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Data permintaan tidak valid")
		return
	}

	jenis := &model.Jenis{ID: uint(id), Name: req.Name, NameEn: req.NameEn}
	if err := ctrl.categoryService.UpdateJenis(jenis); err != nil {
		switch {
		case stderrors.Is(err, service.ErrCategoryNotFound):
			errors.NotFound(c, errors.CategoryNotFound, "Jenis tidak ditemukan")
		case stderrors.Is(err, service.ErrInvalidCategory):
			errors.BadRequest(c, errors.ValidationInvalidInput, "Nama jenis wajib diisi")
		default:
			log.Error("Failed to update jenis", err, map[string]interface{}{
				"jenis_id": id,
			})
			errors.Internal(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Jenis berhasil diperbarui",
		"jenis":   jenis,
	})
}

// DeleteJenis removes an empty category (admin only).
// DELETE /api/v1/admin/jenis/:id
func (ctrl *CategoryController) DeleteJenis(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "ID jenis tidak valid")
		return
	}

	if err := ctrl.categoryService.DeleteJenis(uint(id)); err != nil {
		switch {
		case stderrors.Is(err, service.ErrCategoryNotFound):
			errors.NotFound(c, errors.CategoryNotFound, "Jenis tidak ditemukan")
		case stderrors.Is(err, service.ErrCategoryInUse):
			errors.Conflict(c, errors.CategoryInUse, "Jenis masih memiliki produk")
		default:
			log.Error("Failed to delete jenis", err, map[string]interface{}{
				"jenis_id": id,
			})
			errors.Internal(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Jenis berhasil dihapus",
	})
}

// ListSubJenis returns the sub jenis under one jenis.
// GET /api/v1/jenis/:id/sub
func (ctrl *CategoryController) ListSubJenis(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "ID jenis tidak valid")
		return
	}

	subs, err := ctrl.categoryService.ListSubJenis(uint(id))
	if err != nil {
		log.Error("Failed to list sub jenis", err, map[string]interface{}{
			"jenis_id": id,
		})
		errors.Internal(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sub_jenis": subs,
		"count":     len(subs),
	})
}

// CreateSubJenis adds a sub category (admin only).
// POST /api/v1/admin/sub-jenis
func (ctrl *CategoryController) CreateSubJenis(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SubJenisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Data permintaan tidak valid")
		return
	}

	sub := &model.SubJenis{JenisID: req.JenisID, Name: req.Name, NameEn: req.NameEn}
	if err := ctrl.categoryService.CreateSubJenis(sub); err != nil {
		switch {
		case stderrors.Is(err, service.ErrCategoryNotFound):
			errors.NotFound(c, errors.CategoryNotFound, "Jenis induk tidak ditemukan")
		case stderrors.Is(err, service.ErrInvalidCategory):
			errors.BadRequest(c, errors.ValidationInvalidInput, "Nama sub jenis wajib diisi")
		default:
			log.Error("Failed to create sub jenis", err, map[string]interface{}{
				"jenis_id": req.JenisID,
			})
			errors.Internal(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Sub jenis berhasil dibuat",
		"sub_jenis": sub,
	})
}

// UpdateSubJenis renames a sub category (admin only).
// PUT /api/v1/admin/sub-jenis/:id
func (ctrl *CategoryController) UpdateSubJenis(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "ID sub jenis tidak valid")
		return
	}

	var req JenisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Data permintaan tidak valid")
		return
	}

	sub := &model.SubJenis{ID: uint(id), Name: req.Name, NameEn: req.NameEn}
	if err := ctrl.categoryService.UpdateSubJenis(sub); err != nil {
		switch {
		case stderrors.Is(err, service.ErrCategoryNotFound):
			errors.NotFound(c, errors.CategoryNotFound, "Sub jenis tidak ditemukan")
		case stderrors.Is(err, service.ErrInvalidCategory):
			errors.BadRequest(c, errors.ValidationInvalidInput, "Nama sub jenis wajib diisi")
		default:
			log.Error("Failed to update sub jenis", err, map[string]interface{}{
				"sub_jenis_id": id,
			})
			errors.Internal(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Sub jenis berhasil diperbarui",
		"sub_jenis": sub,
	})
}

// DeleteSubJenis removes a sub category (admin only).
// DELETE /api/v1/admin/sub-jenis/:id
func (ctrl *CategoryController) DeleteSubJenis(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "ID sub jenis tidak valid")
		return
	}

	if err := ctrl.categoryService.DeleteSubJenis(uint(id)); err != nil {
		if stderrors.Is(err, service.ErrCategoryNotFound) {
			errors.NotFound(c, errors.CategoryNotFound, "Sub jenis tidak ditemukan")
			return
		}
		log.Error("Failed to delete sub jenis", err, map[string]interface{}{
			"sub_jenis_id": id,
		})
		errors.Internal(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sub jenis berhasil dihapus",
	})
}
