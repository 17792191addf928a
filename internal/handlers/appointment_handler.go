package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/veltagrid/appointments-api/internal/cache"
	"github.com/veltagrid/appointments-api/internal/httperr"
	"github.com/veltagrid/appointments-api/internal/middleware"
	"github.com/veltagrid/appointments-api/internal/models"
	ucScheduling "github.com/veltagrid/appointments-api/internal/usecase/scheduling"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db *gorm.DB

	create   *ucScheduling.CreateAppointment
	confirm  *ucScheduling.ConfirmAppointment
	cancel   *ucScheduling.CancelAppointment
	complete *ucScheduling.CompleteAppointment
	delete   *ucScheduling.DeleteAppointment

	listByDate  *ucScheduling.ListAppointmentsByDate
	listByMonth *ucScheduling.ListAppointmentsByMonth

	cache *cache.AvailabilityCache
}

func NewAppointmentHandler(
	db *gorm.DB,
	create *ucScheduling.CreateAppointment,
	confirm *ucScheduling.ConfirmAppointment,
	cancel *ucScheduling.CancelAppointment,
	complete *ucScheduling.CompleteAppointment,
	del *ucScheduling.DeleteAppointment,
	listByDate *ucScheduling.ListAppointmentsByDate,
	listByMonth *ucScheduling.ListAppointmentsByMonth,
	availCache *cache.AvailabilityCache,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:          db,
		create:      create,
		confirm:     confirm,
		cancel:      cancel,
		complete:    complete,
		delete:      del,
		listByDate:  listByDate,
		listByMonth: listByMonth,
		cache:       availCache,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	AppointmentTypeID uint `json:"appointment_type_id" binding:"required"`

	ClientID    uint   `json:"client_id"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
	ClientEmail string `json:"client_email"`

	Date  string `json:"date" binding:"required"` // YYYY-MM-DD
	Time  string `json:"time" binding:"required"` // HH:mm
	Notes string `json:"notes"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	branchID := c.MustGet(middleware.ContextBranchID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucScheduling.CreateAppointmentInput{
		BranchID:          branchID,
		AppointmentTypeID: req.AppointmentTypeID,
		ClientID:          req.ClientID,
		ClientName:        req.ClientName,
		ClientPhone:       req.ClientPhone,
		ClientEmail:       req.ClientEmail,
		Date:              req.Date,
		Time:              req.Time,
		Notes:             req.Notes,
		ActorUserID:       &userID,
	})
	if err != nil {
		mapBusinessError(c, err, "Error al crear la cita.")
		return
	}

	h.cache.Invalidate(c.Request.Context(), branchID, req.AppointmentTypeID, req.Date)

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// GET
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	branchID := c.MustGet(middleware.ContextBranchID).(uint)
	id := c.Param("id")

	var ap models.Appointment
	if err := h.db.
		Preload("Client").
		Preload("AppointmentType").
		Where("id = ? AND branch_id = ? AND is_active = true", id, branchID).
		First(&ap).Error; err != nil {
		httperr.NotFound(c, "appointment_not_found", "Cita no encontrada.")
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	branchID := c.MustGet(middleware.ContextBranchID).(uint)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Fecha obligatoria.")
		return
	}

	var branch models.Branch
	if err := h.db.First(&branch, branchID).Error; err != nil {
		httperr.Internal(c, "branch_not_found", "Sucursal no encontrada.")
		return
	}

	date, err := parseDateInBranch(&branch, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Fecha inválida.")
		return
	}

	out, err := h.listByDate.Execute(
		c.Request.Context(),
		branchID,
		date,
		assignedTypeIDs(h.db, userID),
	)
	if err != nil {
		mapBusinessError(c, err, "Error al listar citas.")
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	branchID := c.MustGet(middleware.ContextBranchID).(uint)

	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Año y mes obligatorios.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Año inválido.")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Mes inválido.")
		return
	}

	out, err := h.listByMonth.Execute(
		c.Request.Context(),
		branchID,
		year,
		month,
		assignedTypeIDs(h.db, userID),
	)
	if err != nil {
		mapBusinessError(c, err, "Error al listar citas.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": out,
	})
}

// ======================================================
// STATE CHANGES
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Cita inválida.")
		return
	}

	ap, err := h.confirm.Execute(c.Request.Context(), uint(id), &userID)
	if err != nil {
		mapBusinessError(c, err, "La cita no puede ser confirmada.")
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Cita inválida.")
		return
	}

	var req CancelAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "missing_reason", "Motivo de cancelación obligatorio.")
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), uint(id), req.Reason, &userID)
	if err != nil {
		mapBusinessError(c, err, "La cita no puede ser cancelada.")
		return
	}

	h.invalidateDay(c, ap)

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Cita inválida.")
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), uint(id), &userID)
	if err != nil {
		mapBusinessError(c, err, "La cita no puede ser completada.")
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Cita inválida.")
		return
	}

	ap, err := h.delete.Execute(c.Request.Context(), uint(id), &userID)
	if err != nil {
		mapBusinessError(c, err, "Error al eliminar la cita.")
		return
	}

	h.invalidateDay(c, ap)

	c.Status(http.StatusNoContent)
}

// Cancelling or deleting frees a slot, so the cached day must go.
func (h *AppointmentHandler) invalidateDay(c *gin.Context, ap *models.Appointment) {
	var branch models.Branch
	if err := h.db.First(&branch, ap.BranchID).Error; err != nil {
		return
	}

	day := ap.AppointmentDate.In(locationFromBranch(&branch)).Format("2006-01-02")
	h.cache.Invalidate(c.Request.Context(), ap.BranchID, ap.AppointmentTypeID, day)
}
