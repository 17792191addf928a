package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/veltagrid/appointments-api/internal/httperr"
	"github.com/veltagrid/appointments-api/internal/models"
)

// AssignmentHandler manages which appointment types a staff user may see.
type AssignmentHandler struct {
	db *gorm.DB
}

func NewAssignmentHandler(db *gorm.DB) *AssignmentHandler {
	return &AssignmentHandler{db: db}
}

type AssignTypeRequest struct {
	AppointmentTypeID uint `json:"appointment_type_id" binding:"required"`
}

func (h *AssignmentHandler) List(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_user_id", "Usuario inválido.")
		return
	}

	var assignments []models.UserAppointmentType
	if err := h.db.
		Where("user_id = ?", userID).
		Order("appointment_type_id ASC").
		Find(&assignments).Error; err != nil {
		httperr.Internal(c, "failed_to_list_assignments", "Error al listar asignaciones.")
		return
	}

	c.JSON(http.StatusOK, assignments)
}

func (h *AssignmentHandler) Assign(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_user_id", "Usuario inválido.")
		return
	}

	var req AssignTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "Usuario no encontrado.")
		return
	}

	var atype models.AppointmentType
	if err := h.db.First(&atype, req.AppointmentTypeID).Error; err != nil {
		httperr.NotFound(c, "type_not_found", "Tipo de cita no encontrado.")
		return
	}

	assignment := models.UserAppointmentType{
		UserID:            uint(userID),
		AppointmentTypeID: req.AppointmentTypeID,
	}

	if err := h.db.Create(&assignment).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "already_assigned", "El tipo ya está asignado al usuario.")
			return
		}
		httperr.Internal(c, "failed_to_assign", "Error al asignar el tipo de cita.")
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

func (h *AssignmentHandler) Unassign(c *gin.Context) {
	userID, err1 := strconv.ParseUint(c.Param("userId"), 10, 64)
	typeID, err2 := strconv.ParseUint(c.Param("typeId"), 10, 64)
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, "invalid_params", "Parámetros inválidos.")
		return
	}

	res := h.db.
		Where("user_id = ? AND appointment_type_id = ?", userID, typeID).
		Delete(&models.UserAppointmentType{})

	if res.Error != nil {
		httperr.Internal(c, "failed_to_unassign", "Error al quitar la asignación.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "assignment_not_found", "Asignación no encontrada.")
		return
	}

	c.Status(http.StatusNoContent)
}

// assignedTypeIDs resolves the type filter for a staff user. No rows means
// the user sees every type.
func assignedTypeIDs(db *gorm.DB, userID uint) []uint {
	var ids []uint
	db.Model(&models.UserAppointmentType{}).
		Where("user_id = ?", userID).
		Pluck("appointment_type_id", &ids)
	return ids
}
