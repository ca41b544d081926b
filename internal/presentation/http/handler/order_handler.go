package handler

import (
	"fmt"

	"github.com/attarhouse/attarhouse-api/internal/application/service"
	"github.com/attarhouse/attarhouse-api/internal/presentation/http/dto/request"
	"github.com/attarhouse/attarhouse-api/internal/presentation/http/dto/response"
	"github.com/attarhouse/attarhouse-api/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create handles placing an order
func (h *OrderHandler) Create(c *gin.Context) {
	var req request.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var fieldErrs []apperror.FieldError
	orderDate, err := req.Date()
	if err != nil {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "order_date", Message: "order_date must be YYYY-MM-DD"})
	}

	items := make([]service.OrderItemInput, 0, len(req.Items))
	for i, item := range req.Items {
		ref, err := item.ItemRef()
		if err != nil {
			fieldErrs = append(fieldErrs, apperror.FieldError{Field: fmt.Sprintf("items[%d]", i), Message: err.Error()})
			continue
		}
		items = append(items, service.OrderItemInput{
			Ref:       ref,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	if len(fieldErrs) > 0 {
		response.ValidationError(c, fieldErrs)
		return
	}

	result, err := h.orderService.CreateOrder(c.Request.Context(), &service.CreateOrderInput{
		PartyID:   req.PartyID,
		OrderDate: orderDate,
		Type:      req.Type,
		Message:   req.Message,
		Items:     items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	logWarnings(c, result.Warnings)
	response.Created(c, "Order created successfully", result)
}

// Get handles getting a single order
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// Update handles amending an order
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdateOrderInput{
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
		Message:       req.Message,
	}
	if req.Items != nil {
		input.Items = make([]service.OrderItemUpdate, len(req.Items))
		for i, item := range req.Items {
			input.Items[i] = service.OrderItemUpdate{
				ID:        item.ID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			}
		}
	}

	result, err := h.orderService.UpdateOrder(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	logWarnings(c, result.Warnings)
	response.OK(c, "Order updated successfully", result)
}
