package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/veltagrid/appointments-api/internal/httperr"
	"github.com/veltagrid/appointments-api/internal/httpresp"
	"github.com/veltagrid/appointments-api/internal/middleware"
	"github.com/veltagrid/appointments-api/internal/models"
	"github.com/veltagrid/appointments-api/internal/timezone"
)

type BranchHandler struct {
	db *gorm.DB
}

func NewBranchHandler(db *gorm.DB) *BranchHandler {
	return &BranchHandler{db: db}
}

type UpdateBranchRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Timezone *string `json:"timezone"`
	Active   *bool   `json:"active"`
}

func (h *BranchHandler) List(c *gin.Context) {
	var branches []models.Branch
	if err := h.db.Order("id ASC").Find(&branches).Error; err != nil {
		httperr.Internal(c, "failed_to_list_branches", "Error al listar sucursales.")
		return
	}

	httpresp.List(c, branches)
}

func (h *BranchHandler) GetMine(c *gin.Context) {
	branchID := c.MustGet(middleware.ContextBranchID).(uint)

	var branch models.Branch
	if err := h.db.First(&branch, branchID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "branch_not_found", "Sucursal no encontrada.")
			return
		}
		httperr.Internal(c, "failed_to_get_branch", "Error al consultar la sucursal.")
		return
	}

	c.JSON(http.StatusOK, branch)
}

func (h *BranchHandler) Update(c *gin.Context) {
	branchID := c.MustGet(middleware.ContextBranchID).(uint)

	var branch models.Branch
	if err := h.db.First(&branch, branchID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "branch_not_found", "Sucursal no encontrada.")
			return
		}
		httperr.Internal(c, "failed_to_get_branch", "Error al consultar la sucursal.")
		return
	}

	var req UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	if req.Name != nil {
		branch.Name = *req.Name
	}
	if req.Phone != nil {
		branch.Phone = *req.Phone
	}
	if req.Address != nil {
		branch.Address = *req.Address
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Zona horaria inválida.")
			return
		}
		branch.Timezone = *req.Timezone
	}
	if req.Active != nil {
		branch.Active = *req.Active
	}

	if err := h.db.Save(&branch).Error; err != nil {
		httperr.Internal(c, "failed_to_update_branch", "Error al guardar la sucursal.")
		return
	}

	c.JSON(http.StatusOK, branch)
}
