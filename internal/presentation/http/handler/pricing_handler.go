package handler

import (
	"github.com/attarhouse/attarhouse-api/internal/application/service"
	"github.com/attarhouse/attarhouse-api/internal/domain/entity"
	"github.com/attarhouse/attarhouse-api/internal/domain/enum"
	"github.com/attarhouse/attarhouse-api/internal/presentation/http/dto/request"
	"github.com/attarhouse/attarhouse-api/internal/presentation/http/dto/response"
	"github.com/attarhouse/attarhouse-api/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PricingHandler quotes the unit price a party pays for an item
type PricingHandler struct {
	pricingService *service.PricingService
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(pricingService *service.PricingService) *PricingHandler {
	return &PricingHandler{pricingService: pricingService}
}

// Quote handles GET /pricing/quote
func (h *PricingHandler) Quote(c *gin.Context) {
	var req request.PriceQuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "party_id, kind and item_id are required")
		return
	}

	var fieldErrs []apperror.FieldError
	partyID, err := uuid.Parse(req.PartyID)
	if err != nil {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "party_id", Message: "party_id must be a UUID"})
	}
	kind, err := enum.ParseItemKind(req.Kind)
	if err != nil {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "kind", Message: err.Error()})
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "item_id", Message: "item_id must be a UUID"})
	}
	if len(fieldErrs) > 0 {
		response.ValidationError(c, fieldErrs)
		return
	}

	quote, err := h.pricingService.ResolvePrice(c.Request.Context(), partyID, entity.NewItemRef(kind, itemID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Price resolved successfully", quote)
}
