package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"marketplace-admin/dtos"
	"marketplace-admin/middleware"
	"marketplace-admin/models"
	"marketplace-admin/utils"
)

type AuthHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error; err != nil {
		detail(c, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		detail(c, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	if !user.IsActive {
		detail(c, http.StatusForbidden, "Account is deactivated")
		return
	}

	if user.Role != models.RoleAdmin && user.Role != models.RoleSeller {
		detail(c, http.StatusForbidden, "Only admins and sellers can sign in to the panel")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		nopIfNil(h.Log).Error("failed to generate token", zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	if user.Role == models.RoleSeller {
		var seller models.Seller
		if err := h.DB.Where("user_id = ?", user.ID).First(&seller).Error; err == nil {
			user.Seller = &seller
		}
	}

	c.JSON(http.StatusOK, dtos.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		detail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var user models.User
	if err := h.DB.Preload("Seller").First(&user, "id = ?", userID).Error; err != nil {
		detail(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	if !user.IsActive {
		detail(c, http.StatusForbidden, "Account is deactivated")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) emailTaken(email string) bool {
	var count int64
	h.DB.Model(&models.User{}).Unscoped().Where("email = ?", email).Count(&count)
	return count > 0
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hashed), err
}

func (h *AuthHandler) RegisterSeller(c *gin.Context) {
	var req dtos.RegisterSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	email := strings.ToLower(req.Email)

	if h.emailTaken(email) {
		detail(c, http.StatusBadRequest, "Email already registered")
		return
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := models.User{
		Email:     email,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      models.RoleSeller,
		IsActive:  true,
	}
	seller := models.Seller{
		BusinessName: req.BusinessName,
		BusinessType: req.BusinessType,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		Pincode:      req.Pincode,
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		seller.UserID = user.ID
		return tx.Create(&seller).Error
	})
	if err != nil {
		nopIfNil(h.Log).Error("seller registration failed", zap.String("email", email), zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to register seller")
		return
	}

	user.Seller = &seller
	utils.SendSellerWelcomeEmail(h.Log, user.Email, user.FullName(), seller.BusinessName)
	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) RegisterAdmin(c *gin.Context) {
	var req dtos.RegisterAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	email := strings.ToLower(req.Email)

	if h.emailTaken(email) {
		detail(c, http.StatusBadRequest, "Email already registered")
		return
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := models.User{
		Email:      email,
		Password:   hashed,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Role:       models.RoleAdmin,
		IsActive:   true,
		IsVerified: true,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		nopIfNil(h.Log).Error("admin registration failed", zap.String("email", email), zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to create admin")
		return
	}

	c.JSON(http.StatusCreated, user)
}
