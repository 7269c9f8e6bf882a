package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"marketplace-admin/dtos"
	"marketplace-admin/middleware"
	"marketplace-admin/models"
	"marketplace-admin/utils"
)

// UserHandler manages users and seller accounts for admins.
type UserHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func (h *UserHandler) GetUsers(c *gin.Context) {
	query := h.DB.Preload("Seller").Order("created_at DESC")

	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	active, ok := queryBool(c, "is_active")
	if !ok {
		return
	}
	if active != nil {
		query = query.Where("is_active = ?", *active)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like, like)
	}

	var users []models.User
	if err := paginate(c, query).Find(&users).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) userStats() (dtos.UserStats, error) {
	var stats dtos.UserStats
	count := func(dst *int64, model interface{}, where string, args ...interface{}) error {
		q := h.DB.Model(model)
		if where != "" {
			q = q.Where(where, args...)
		}
		return q.Count(dst).Error
	}
	steps := []error{
		count(&stats.TotalUsers, &models.User{}, ""),
		count(&stats.ActiveUsers, &models.User{}, "is_active = ?", true),
		count(&stats.Admins, &models.User{}, "role = ?", models.RoleAdmin),
		count(&stats.Sellers, &models.User{}, "role = ?", models.RoleSeller),
		count(&stats.Customers, &models.User{}, "role = ?", models.RoleCustomer),
		count(&stats.VerifiedSellers, &models.Seller{}, "is_verified = ?", true),
		count(&stats.ApprovedSellers, &models.Seller{}, "is_approved = ?", true),
	}
	for _, err := range steps {
		if err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func (h *UserHandler) GetUserStats(c *gin.Context) {
	stats, err := h.userStats()
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to compute user stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *UserHandler) GetSellers(c *gin.Context) {
	query := h.DB.Preload("User").Order("created_at DESC")

	approved, ok := queryBool(c, "is_approved")
	if !ok {
		return
	}
	if approved != nil {
		query = query.Where("is_approved = ?", *approved)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("LOWER(business_name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var sellers []models.Seller
	if err := paginate(c, query).Find(&sellers).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to fetch sellers")
		return
	}
	c.JSON(http.StatusOK, sellers)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id", "user")
	if !ok {
		return
	}

	var user models.User
	if err := h.DB.Preload("Seller").First(&user, "id = ?", id).Error; err != nil {
		detail(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateUserStatus(c *gin.Context) {
	id, ok := pathID(c, "id", "user")
	if !ok {
		return
	}

	var req dtos.UserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if self, _ := middleware.CurrentUserID(c); self == id && !*req.IsActive {
		detail(c, http.StatusBadRequest, "You cannot deactivate your own account")
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", id).Error; err != nil {
		detail(c, http.StatusNotFound, "User not found")
		return
	}

	if err := h.DB.Model(&user).Update("is_active", *req.IsActive).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to update user status")
		return
	}
	user.IsActive = *req.IsActive

	nopIfNil(h.Log).Info("user status changed", zap.String("user_id", id.String()), zap.Bool("is_active", user.IsActive))
	c.JSON(http.StatusOK, user)
}

// UpdateSellerStatus changes verification and approval of a seller; is_active
// applies to the seller's user account.
func (h *UserHandler) UpdateSellerStatus(c *gin.Context) {
	id, ok := pathID(c, "id", "seller")
	if !ok {
		return
	}

	var req dtos.SellerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var seller models.Seller
	if err := h.DB.Preload("User").First(&seller, "id = ?", id).Error; err != nil {
		detail(c, http.StatusNotFound, "Seller not found")
		return
	}

	newlyApproved := false
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if req.IsVerified != nil {
			updates["is_verified"] = *req.IsVerified
			seller.IsVerified = *req.IsVerified
		}
		if req.IsApproved != nil {
			updates["is_approved"] = *req.IsApproved
			if *req.IsApproved && !seller.IsApproved {
				now := time.Now()
				updates["approval_date"] = &now
				seller.ApprovalDate = &now
				newlyApproved = true
			}
			seller.IsApproved = *req.IsApproved
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.Seller{}).Where("id = ?", seller.ID).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.IsActive != nil && seller.User != nil {
			if err := tx.Model(seller.User).Update("is_active", *req.IsActive).Error; err != nil {
				return err
			}
			seller.User.IsActive = *req.IsActive
		}
		return nil
	})
	if err != nil {
		nopIfNil(h.Log).Error("failed to update seller status", zap.String("seller_id", id.String()), zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to update seller status")
		return
	}

	if newlyApproved && seller.User != nil {
		utils.SendSellerApprovalEmail(h.Log, seller.User.Email, seller.User.FullName(), seller.BusinessName)
	}
	c.JSON(http.StatusOK, seller)
}

// DeleteUser deactivates the account; user rows are never removed.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id", "user")
	if !ok {
		return
	}

	if self, _ := middleware.CurrentUserID(c); self == id {
		detail(c, http.StatusBadRequest, "You cannot delete your own account")
		return
	}

	res := h.DB.Model(&models.User{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		detail(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	if res.RowsAffected == 0 {
		detail(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, dtos.MessageResponse{Message: "User deactivated successfully"})
}
