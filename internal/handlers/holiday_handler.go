package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/veltagrid/appointments-api/internal/httperr"
	"github.com/veltagrid/appointments-api/internal/httpresp"
	"github.com/veltagrid/appointments-api/internal/models"
	ucScheduling "github.com/veltagrid/appointments-api/internal/usecase/scheduling"
)

type HolidayHandler struct {
	db           *gorm.DB
	listHolidays *ucScheduling.ListHolidays
}

func NewHolidayHandler(db *gorm.DB, listHolidays *ucScheduling.ListHolidays) *HolidayHandler {
	return &HolidayHandler{db: db, listHolidays: listHolidays}
}

type CreateHolidayRequest struct {
	Date     string `json:"date" binding:"required"` // YYYY-MM-DD
	Name     string `json:"name"`
	BranchID *uint  `json:"branch_id"` // null = toda la compañía
}

func (h *HolidayHandler) List(c *gin.Context) {
	holidays, err := h.listHolidays.Execute(
		c.Request.Context(),
		c.Query("from"),
		c.Query("to"),
	)
	if err != nil {
		mapBusinessError(c, err, "Error al listar festivos.")
		return
	}

	httpresp.List(c, holidays)
}

func (h *HolidayHandler) Create(c *gin.Context) {
	var req CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Fecha inválida.")
		return
	}

	holiday := models.Holiday{
		Date:     date,
		Name:     req.Name,
		BranchID: req.BranchID,
	}

	if err := h.db.Create(&holiday).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "holiday_exists", "El festivo ya existe para esa fecha.")
			return
		}
		httperr.Internal(c, "failed_to_create_holiday", "Error al crear el festivo.")
		return
	}

	c.JSON(http.StatusCreated, holiday)
}

func (h *HolidayHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	res := h.db.Delete(&models.Holiday{}, id)
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_holiday", "Error al eliminar el festivo.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "holiday_not_found", "Festivo no encontrado.")
		return
	}

	c.Status(http.StatusNoContent)
}
