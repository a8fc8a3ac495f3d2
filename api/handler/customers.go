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

type CustomerHandler struct {
	baseHandler
	client *upstream.Client
}

func NewCustomerHandler(client *upstream.Client, adapter *httpcontext.Adapter, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		baseHandler: newBaseHandler(adapter, logger),
		client:      client,
	}
}

// List returns one page of customers (?page, ?limit, ?status).
func (h *CustomerHandler) List(ctx *fasthttp.RequestCtx) {
	filter := domain.CustomerFilter{
		Status: string(ctx.QueryArgs().Peek("status")),
	}
	if raw := string(ctx.QueryArgs().Peek("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			h.respondInvalid(ctx, "page must be a positive integer")
			return
		}
		filter.Page = page
	}
	if raw := string(ctx.QueryArgs().Peek("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			h.respondInvalid(ctx, "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	page, err := h.client.Customers(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, page)
}

// Get returns one customer by id.
func (h *CustomerHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := ctx.UserValue("id").(string)
	if !ok || id == "" {
		h.respondInvalid(ctx, "customer id is required")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	customer, err := h.client.CustomerByID(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, customer)
}

// UpdateStatus toggles a customer between active and inactive.
func (h *CustomerHandler) UpdateStatus(ctx *fasthttp.RequestCtx) {
	id, ok := ctx.UserValue("id").(string)
	if !ok || id == "" {
		h.respondInvalid(ctx, "customer id is required")
		return
	}

	var req transport.CustomerStatusRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil ||
		(req.Status != domain.CustomerActive && req.Status != domain.CustomerInactive) {
		h.respondInvalid(ctx, "status must be active or inactive")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	customer, err := h.client.UpdateCustomerStatus(stdCtx, id, req.Status)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, customer)
}
