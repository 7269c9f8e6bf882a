package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"marketplace-admin/dtos"
	"marketplace-admin/firebase"
	"marketplace-admin/middleware"
	"marketplace-admin/models"
	"marketplace-admin/utils"
)

// ProfileHandler lets a seller manage their own account and business profile.
type ProfileHandler struct {
	DB      *gorm.DB
	Storage firebase.StorageClient
	Log     *zap.Logger
}

func (h *ProfileHandler) currentUser(c *gin.Context) (*models.User, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		detail(c, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}
	var user models.User
	if err := h.DB.Preload("Seller").First(&user, "id = ?", userID).Error; err != nil {
		detail(c, http.StatusNotFound, "User not found")
		return nil, false
	}
	if user.Seller == nil {
		detail(c, http.StatusNotFound, "Seller profile not found")
		return nil, false
	}
	return &user, true
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

// deletePicture removes a hosted profile picture; failures are only logged.
func (h *ProfileHandler) deletePicture(ctx context.Context, url string) {
	if h.Storage == nil || url == "" || !firebase.IsHosted(url) {
		return
	}
	objectPath, ok := firebase.ObjectPath(url)
	if !ok {
		return
	}
	if err := h.Storage.DeleteFile(ctx, objectPath); err != nil {
		nopIfNil(h.Log).Warn("failed to delete profile picture", zap.String("url", url), zap.Error(err))
	}
}

// UpdateProfile accepts a multipart form. Only submitted fields change.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	userUpdates := map[string]interface{}{}
	sellerUpdates := map[string]interface{}{}
	formField := func(name string, dst map[string]interface{}) {
		if v, ok := c.GetPostForm(name); ok {
			dst[name] = strings.TrimSpace(v)
		}
	}
	formField("first_name", userUpdates)
	formField("last_name", userUpdates)
	formField("phone", userUpdates)
	for _, f := range []string{"business_name", "business_type", "address", "city", "state", "pincode"} {
		formField(f, sellerUpdates)
	}

	if name, ok := sellerUpdates["business_name"]; ok && name == "" {
		detail(c, http.StatusBadRequest, "business_name cannot be empty")
		return
	}
	if pin, ok := sellerUpdates["pincode"].(string); ok && len(pin) > 10 {
		detail(c, http.StatusBadRequest, "pincode must be at most 10 characters")
		return
	}

	if email, ok := c.GetPostForm("email"); ok {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != user.Email {
			var count int64
			h.DB.Model(&models.User{}).Where("email = ? AND id <> ?", email, user.ID).Count(&count)
			if count > 0 {
				detail(c, http.StatusBadRequest, "Email already registered")
				return
			}
			userUpdates["email"] = email
		}
	}

	oldPicture := ""
	if fh, err := c.FormFile("profile_picture"); err == nil {
		if h.Storage == nil {
			detail(c, http.StatusServiceUnavailable, "Image storage is not configured")
			return
		}
		if err := utils.ValidateProfilePicture(fh); err != nil {
			detail(c, http.StatusBadRequest, err.Error())
			return
		}
		file, err := fh.Open()
		if err != nil {
			detail(c, http.StatusBadRequest, "Failed to read profile picture")
			return
		}
		defer file.Close()

		url, err := h.Storage.UploadProfilePicture(c.Request.Context(), user.ID.String(), file, fh.Filename, fh.Header.Get("Content-Type"))
		if err != nil {
			nopIfNil(h.Log).Error("profile picture upload failed", zap.String("user_id", user.ID.String()), zap.Error(err))
			detail(c, http.StatusInternalServerError, "Failed to upload profile picture")
			return
		}
		oldPicture = user.ProfilePictureURL
		userUpdates["profile_picture_url"] = url
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if len(userUpdates) > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(userUpdates).Error; err != nil {
				return err
			}
		}
		if len(sellerUpdates) > 0 {
			if err := tx.Model(&models.Seller{}).Where("id = ?", user.Seller.ID).Updates(sellerUpdates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		nopIfNil(h.Log).Error("failed to update profile", zap.String("user_id", user.ID.String()), zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	if oldPicture != "" {
		h.deletePicture(c.Request.Context(), oldPicture)
	}

	var updated models.User
	if err := h.DB.Preload("Seller").First(&updated, "id = ?", user.ID).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req dtos.PasswordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		detail(c, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	if req.CurrentPassword == req.NewPassword {
		detail(c, http.StatusBadRequest, "New password must differ from the current password")
		return
	}

	hashed, err := hashPassword(req.NewPassword)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}
	if err := h.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("password", hashed).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to update password")
		return
	}
	c.JSON(http.StatusOK, dtos.MessageResponse{Message: "Password updated successfully"})
}

func (h *ProfileHandler) DeleteProfilePicture(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if user.ProfilePictureURL == "" {
		detail(c, http.StatusNotFound, "No profile picture to delete")
		return
	}

	if err := h.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("profile_picture_url", "").Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to remove profile picture")
		return
	}
	h.deletePicture(c.Request.Context(), user.ProfilePictureURL)
	c.JSON(http.StatusOK, dtos.MessageResponse{Message: "Profile picture deleted successfully"})
}
