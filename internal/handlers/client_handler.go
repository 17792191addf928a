package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/veltagrid/appointments-api/internal/httperr"
	"github.com/veltagrid/appointments-api/internal/httpresp"
	"github.com/veltagrid/appointments-api/internal/models"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

func (h *ClientHandler) List(c *gin.Context) {
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.Order("name ASC")

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, like)
	}

	var clients []models.Client
	if err := q.Limit(200).Find(&clients).Error; err != nil {
		httperr.Internal(c, "failed_to_list_clients", "Error al listar clientes.")
		return
	}

	httpresp.List(c, clients)
}
