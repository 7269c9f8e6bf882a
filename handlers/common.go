package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"marketplace-admin/middleware"
	"marketplace-admin/models"
	"marketplace-admin/utils"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

func nopIfNil(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

func detail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"detail": message})
}

func bindError(c *gin.Context, err error) {
	detail(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
}

// pathID parses a uuid path parameter, answering 400 when it is malformed.
func pathID(c *gin.Context, name, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		detail(c, http.StatusBadRequest, "Invalid "+what+" id")
		return uuid.Nil, false
	}
	return id, true
}

// queryID parses an optional uuid query parameter.
func queryID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		detail(c, http.StatusBadRequest, "Invalid "+name)
		return nil, false
	}
	return &id, true
}

// queryBool parses an optional boolean query parameter.
func queryBool(c *gin.Context, name string) (*bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		detail(c, http.StatusBadRequest, "Invalid "+name)
		return nil, false
	}
	return &v, true
}

// paginate applies skip and limit query parameters.
func paginate(c *gin.Context, query *gorm.DB) *gorm.DB {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return query.Offset(skip).Limit(limit)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// currentSeller loads the seller profile of the authenticated user.
func currentSeller(c *gin.Context, db *gorm.DB) (*models.Seller, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		detail(c, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}
	var seller models.Seller
	if err := db.Where("user_id = ?", userID).First(&seller).Error; err != nil {
		if isNotFound(err) {
			detail(c, http.StatusNotFound, "Seller profile not found")
		} else {
			detail(c, http.StatusInternalServerError, "Failed to load seller profile")
		}
		return nil, false
	}
	return &seller, true
}
