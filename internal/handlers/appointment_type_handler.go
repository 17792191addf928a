package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/veltagrid/appointments-api/internal/httperr"
	"github.com/veltagrid/appointments-api/internal/models"
)

type AppointmentTypeHandler struct {
	db *gorm.DB
}

func NewAppointmentTypeHandler(db *gorm.DB) *AppointmentTypeHandler {
	return &AppointmentTypeHandler{db: db}
}

type AppointmentTypeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateAppointmentTypeRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

func (h *AppointmentTypeHandler) List(c *gin.Context) {
	q := h.db.Order("id ASC")

	if c.Query("include_inactive") != "true" {
		q = q.Where("active = true")
	}

	var types []models.AppointmentType
	if err := q.Find(&types).Error; err != nil {
		httperr.Internal(c, "failed_to_list_types", "Error al listar tipos de cita.")
		return
	}

	c.JSON(http.StatusOK, types)
}

func (h *AppointmentTypeHandler) Create(c *gin.Context) {
	var req AppointmentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	atype := models.AppointmentType{
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	}

	if err := h.db.Create(&atype).Error; err != nil {
		httperr.Internal(c, "failed_to_create_type", "Error al crear el tipo de cita.")
		return
	}

	c.JSON(http.StatusCreated, atype)
}

func (h *AppointmentTypeHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var atype models.AppointmentType
	if err := h.db.First(&atype, id).Error; err != nil {
		httperr.NotFound(c, "type_not_found", "Tipo de cita no encontrado.")
		return
	}

	var req UpdateAppointmentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	if req.Name != nil {
		atype.Name = *req.Name
	}
	if req.Description != nil {
		atype.Description = *req.Description
	}
	if req.Active != nil {
		atype.Active = *req.Active
	}

	if err := h.db.Save(&atype).Error; err != nil {
		httperr.Internal(c, "failed_to_update_type", "Error al guardar el tipo de cita.")
		return
	}

	c.JSON(http.StatusOK, atype)
}

// Delete deactivates: appointments keep referencing the type.
func (h *AppointmentTypeHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	var atype models.AppointmentType
	if err := h.db.First(&atype, id).Error; err != nil {
		httperr.NotFound(c, "type_not_found", "Tipo de cita no encontrado.")
		return
	}

	atype.Active = false
	if err := h.db.Save(&atype).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_type", "Error al desactivar el tipo de cita.")
		return
	}

	c.Status(http.StatusNoContent)
}
