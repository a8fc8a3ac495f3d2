package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/dishboard/console/api/transport"
	"github.com/dishboard/console/domain"
	"github.com/dishboard/console/internal/upstream"
	"github.com/dishboard/console/pkg/httpcontext"
)

type OrderHandler struct {
	baseHandler
	client *upstream.Client
}

func NewOrderHandler(client *upstream.Client, adapter *httpcontext.Adapter, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		baseHandler: newBaseHandler(adapter, logger),
		client:      client,
	}
}

// List returns orders, optionally filtered by ?status and capped by ?limit.
func (h *OrderHandler) List(ctx *fasthttp.RequestCtx) {
	filter := domain.OrderFilter{
		Status: string(ctx.QueryArgs().Peek("status")),
	}
	if raw := string(ctx.QueryArgs().Peek("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			h.respondInvalid(ctx, "limit must be a non-negative integer")
			return
		}
		filter.Limit = limit
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	orders, err := h.client.Orders(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, orders)
}

// Get returns one order by id.
func (h *OrderHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := ctx.UserValue("id").(string)
	if !ok || id == "" {
		h.respondInvalid(ctx, "order id is required")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	order, err := h.client.OrderByID(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, order)
}

// UpdateStatus moves an order through the delivery pipeline.
func (h *OrderHandler) UpdateStatus(ctx *fasthttp.RequestCtx) {
	id, ok := ctx.UserValue("id").(string)
	if !ok || id == "" {
		h.respondInvalid(ctx, "order id is required")
		return
	}

	var req transport.OrderStatusRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || !domain.ValidOrderStatus(req.Status) {
		h.respondInvalid(ctx, "status must be a valid order status")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	order, err := h.client.UpdateOrderStatus(stdCtx, id, req.Status)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, order)
}
