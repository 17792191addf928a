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

type AvailabilityHandler struct {
	db           *gorm.DB
	availability *ucScheduling.GetAvailability
	cache        *cache.AvailabilityCache
}

func NewAvailabilityHandler(
	db *gorm.DB,
	availability *ucScheduling.GetAvailability,
	availCache *cache.AvailabilityCache,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		db:           db,
		availability: availability,
		cache:        availCache,
	}
}

// Get answers "which times are open" for a branch, type and date.
func (h *AvailabilityHandler) Get(c *gin.Context) {
	branchIDStr := c.Query("branch_id")
	typeIDStr := c.Query("type_id")
	dateStr := c.Query("date")

	if branchIDStr == "" || typeIDStr == "" || dateStr == "" {
		httperr.BadRequest(c, "missing_params", "Sucursal, tipo y fecha obligatorios.")
		return
	}

	branchID, err1 := strconv.ParseUint(branchIDStr, 10, 64)
	typeID, err2 := strconv.ParseUint(typeIDStr, 10, 64)
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, "invalid_params", "Parámetros inválidos.")
		return
	}

	var branch models.Branch
	if err := h.db.First(&branch, branchID).Error; err != nil {
		httperr.NotFound(c, "branch_not_found", "Sucursal no encontrada.")
		return
	}

	date, err := parseDateInBranch(&branch, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Fecha inválida.")
		return
	}

	ctx := c.Request.Context()

	if times, ok := h.cache.Get(ctx, uint(branchID), uint(typeID), dateStr); ok {
		c.JSON(http.StatusOK, gin.H{"date": dateStr, "times": times})
		return
	}

	times, err := h.availability.Execute(ctx, domain.AvailabilityInput{
		BranchID:          uint(branchID),
		AppointmentTypeID: uint(typeID),
		Date:              date,
	})
	if err != nil {
		mapBusinessError(c, err, "Error al calcular horarios disponibles.")
		return
	}

	h.cache.Set(ctx, uint(branchID), uint(typeID), dateStr, times)

	c.JSON(http.StatusOK, gin.H{"date": dateStr, "times": times})
}
