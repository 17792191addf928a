package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/veltagrid/appointments-api/internal/cache"
	domain "github.com/veltagrid/appointments-api/internal/domain/scheduling"
	"github.com/veltagrid/appointments-api/internal/httperr"
	"github.com/veltagrid/appointments-api/internal/models"
	ucScheduling "github.com/veltagrid/appointments-api/internal/usecase/scheduling"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves the client self-booking flow: no login, the branch
// is addressed by its public code.
type PublicHandler struct {
	db           *gorm.DB
	availability *ucScheduling.GetAvailability
	create       *ucScheduling.CreateAppointment
	cache        *cache.AvailabilityCache
}

func NewPublicHandler(
	db *gorm.DB,
	availability *ucScheduling.GetAvailability,
	create *ucScheduling.CreateAppointment,
	availCache *cache.AvailabilityCache,
) *PublicHandler {
	return &PublicHandler{
		db:           db,
		availability: availability,
		create:       create,
		cache:        availCache,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	AppointmentTypeID uint   `json:"appointment_type_id" binding:"required"`
	ClientName        string `json:"client_name" binding:"required"`
	ClientPhone       string `json:"client_phone" binding:"required"`
	ClientEmail       string `json:"client_email"`
	Date              string `json:"date" binding:"required"` // YYYY-MM-DD
	Time              string `json:"time" binding:"required"` // HH:mm
	Notes             string `json:"notes"`
}

////////////////////////////////////////////////////////
// APPOINTMENT TYPES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListTypes(c *gin.Context) {
	code := c.Param("branch")

	var branch models.Branch
	if err := h.db.Where("code = ? AND active = true", code).First(&branch).Error; err != nil {
		httperr.NotFound(c, "branch_not_found", "Sucursal no encontrada.")
		return
	}

	var types []models.AppointmentType
	if err := h.db.
		Where("active = true").
		Order("id ASC").
		Find(&types).Error; err != nil {
		httperr.Internal(c, "failed_to_list_types", "Error al listar tipos de cita.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"branch": branch,
		"types":  types,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	code := c.Param("branch")
	dateStr := c.Query("date")
	typeIDStr := c.Query("type_id")

	if dateStr == "" || typeIDStr == "" {
		httperr.BadRequest(c, "missing_params", "Fecha y tipo obligatorios.")
		return
	}

	typeID, err := strconv.ParseUint(typeIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_type_id", "Tipo de cita inválido.")
		return
	}

	var branch models.Branch
	if err := h.db.Where("code = ? AND active = true", code).First(&branch).Error; err != nil {
		httperr.NotFound(c, "branch_not_found", "Sucursal no encontrada.")
		return
	}

	date, err := parseDateInBranch(&branch, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Fecha inválida.")
		return
	}

	ctx := c.Request.Context()

	if times, ok := h.cache.Get(ctx, branch.ID, uint(typeID), dateStr); ok {
		c.JSON(http.StatusOK, gin.H{"date": dateStr, "times": times})
		return
	}

	times, err := h.availability.Execute(ctx, domain.AvailabilityInput{
		BranchID:          branch.ID,
		AppointmentTypeID: uint(typeID),
		Date:              date,
	})
	if err != nil {
		mapBusinessError(c, err, "Error al calcular horarios disponibles.")
		return
	}

	h.cache.Set(ctx, branch.ID, uint(typeID), dateStr, times)

	c.JSON(http.StatusOK, gin.H{"date": dateStr, "times": times})
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	code := c.Param("branch")

	var branch models.Branch
	if err := h.db.Where("code = ? AND active = true", code).First(&branch).Error; err != nil {
		httperr.NotFound(c, "branch_not_found", "Sucursal no encontrada.")
		return
	}

	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucScheduling.CreateAppointmentInput{
		BranchID:          branch.ID,
		AppointmentTypeID: req.AppointmentTypeID,
		ClientName:        req.ClientName,
		ClientPhone:       req.ClientPhone,
		ClientEmail:       req.ClientEmail,
		Date:              req.Date,
		Time:              req.Time,
		Notes:             req.Notes,
	})
	if err != nil {
		mapBusinessError(c, err, "Error al crear la cita.")
		return
	}

	h.cache.Invalidate(c.Request.Context(), branch.ID, req.AppointmentTypeID, req.Date)

	c.JSON(http.StatusCreated, ap)
}
