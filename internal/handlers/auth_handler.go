package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/veltagrid/appointments-api/internal/config"
	"github.com/veltagrid/appointments-api/internal/httperr"
	"github.com/veltagrid/appointments-api/internal/models"
	"github.com/veltagrid/appointments-api/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, config: cfg}
}

// --------- Requests ---------

type RegisterRequest struct {
	BranchName    string `json:"branch_name" binding:"required"`
	BranchCode    string `json:"branch_code" binding:"required"`
	BranchPhone   string `json:"branch_phone"`
	BranchAddress string `json:"branch_address"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// Register bootstraps a branch together with its first admin user.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "Dominio de correo inválido.")
		return
	}

	var existing models.User
	if err := h.db.Where("email = ?", email).First(&existing).Error; err == nil {
		httperr.BadRequest(c, "email_taken", "El correo ya está registrado.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "hash_failed", "Error al procesar la contraseña.")
		return
	}

	var user models.User

	err = h.db.Transaction(func(tx *gorm.DB) error {
		branch := models.Branch{
			Name:    req.BranchName,
			Code:    strings.ToLower(strings.TrimSpace(req.BranchCode)),
			Phone:   req.BranchPhone,
			Address: req.BranchAddress,
			Active:  true,
		}
		if err := tx.Create(&branch).Error; err != nil {
			return err
		}

		user = models.User{
			BranchID:     branch.ID,
			Name:         req.Name,
			Email:        email,
			PasswordHash: string(hash),
			Phone:        req.Phone,
			Role:         "admin",
		}
		return tx.Create(&user).Error
	})

	if err != nil {
		httperr.Internal(c, "register_failed", "Error al registrar la sucursal.")
		return
	}

	token, err := h.issueToken(&user)
	if err != nil {
		httperr.Internal(c, "token_failed", "Error al generar el token.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Credenciales inválidas.")
		return
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(user.PasswordHash),
		[]byte(req.Password),
	); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Credenciales inválidas.")
		return
	}

	token, err := h.issueToken(&user)
	if err != nil {
		httperr.Internal(c, "token_failed", "Error al generar el token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *AuthHandler) issueToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      float64(user.ID),
		"branchId": float64(user.BranchID),
		"role":     user.Role,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
