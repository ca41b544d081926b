package handler

import (
	"github.com/attarhouse/attarhouse-api/internal/application/service"
	"github.com/attarhouse/attarhouse-api/internal/presentation/http/dto/request"
	"github.com/attarhouse/attarhouse-api/internal/presentation/http/dto/response"
	"github.com/attarhouse/attarhouse-api/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// SettingsHandler handles settings-related HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetStoreSettings returns the settings the order engine is using
func (h *SettingsHandler) GetStoreSettings(c *gin.Context) {
	settings, err := h.settingsService.StoreSettings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings retrieved successfully", settings)
}

// UpdateStoreSettings handles PUT /settings/store
func (h *SettingsHandler) UpdateStoreSettings(c *gin.Context) {
	var req request.UpdateStoreSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if req.GSTRate == nil {
		response.ValidationError(c, []apperror.FieldError{{Field: "gst_rate", Message: "gst_rate is required"}})
		return
	}

	settings, err := h.settingsService.UpdateGSTRate(c.Request.Context(), *req.GSTRate)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", settings)
}
