package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/veltagrid/appointments-api/internal/httperr"
	"github.com/veltagrid/appointments-api/internal/middleware"
	ucCatalog "github.com/veltagrid/appointments-api/internal/usecase/catalog"
)

type TimeSlotHandler struct {
	getSlots       *ucCatalog.GetSlots
	configureSlots *ucCatalog.ConfigureSlots
}

func NewTimeSlotHandler(
	getSlots *ucCatalog.GetSlots,
	configureSlots *ucCatalog.ConfigureSlots,
) *TimeSlotHandler {
	return &TimeSlotHandler{
		getSlots:       getSlots,
		configureSlots: configureSlots,
	}
}

type ConfigureSlotsRequest struct {
	Times []string `json:"times" binding:"required"`
}

func (h *TimeSlotHandler) Get(c *gin.Context) {
	branchID := c.MustGet(middleware.ContextBranchID).(uint)

	typeID, err := strconv.ParseUint(c.Param("typeId"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_type_id", "Tipo de cita inválido.")
		return
	}

	slots, err := h.getSlots.Execute(c.Request.Context(), branchID, uint(typeID))
	if err != nil {
		mapBusinessError(c, err, "Error al consultar los horarios.")
		return
	}

	c.JSON(http.StatusOK, slots)
}

func (h *TimeSlotHandler) Configure(c *gin.Context) {
	branchID := c.MustGet(middleware.ContextBranchID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	typeID, err := strconv.ParseUint(c.Param("typeId"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_type_id", "Tipo de cita inválido.")
		return
	}

	var req ConfigureSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	slots, err := h.configureSlots.Execute(
		c.Request.Context(),
		branchID,
		uint(typeID),
		req.Times,
		&userID,
	)
	if err != nil {
		mapBusinessError(c, err, "Error al configurar los horarios.")
		return
	}

	c.JSON(http.StatusOK, slots)
}
