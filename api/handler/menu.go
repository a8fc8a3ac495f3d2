package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/dishboard/console/domain"
	"github.com/dishboard/console/internal/upstream"
	"github.com/dishboard/console/pkg/httpcontext"
)

type MenuHandler struct {
	baseHandler
	client *upstream.Client
}

func NewMenuHandler(client *upstream.Client, adapter *httpcontext.Adapter, logger *zap.Logger) *MenuHandler {
	return &MenuHandler{
		baseHandler: newBaseHandler(adapter, logger),
		client:      client,
	}
}

// List returns menu items, optionally for one ?category.
func (h *MenuHandler) List(ctx *fasthttp.RequestCtx) {
	category := domain.MenuCategory(ctx.QueryArgs().Peek("category"))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	items, err := h.client.MenuItems(stdCtx, category)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, items)
}

// Create adds a new menu item.
func (h *MenuHandler) Create(ctx *fasthttp.RequestCtx) {
	var patch domain.MenuItemPatch
	if err := json.Unmarshal(ctx.PostBody(), &patch); err != nil {
		h.respondInvalid(ctx, "invalid menu item payload")
		return
	}
	if patch.Name == nil || *patch.Name == "" {
		h.respondInvalid(ctx, "menu item name is required")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	item, err := h.client.AddMenuItem(stdCtx, patch)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, item)
}

// Update applies a partial update to a menu item.
func (h *MenuHandler) Update(ctx *fasthttp.RequestCtx) {
	id, ok := ctx.UserValue("id").(string)
	if !ok || id == "" {
		h.respondInvalid(ctx, "menu item id is required")
		return
	}

	var patch domain.MenuItemPatch
	if err := json.Unmarshal(ctx.PostBody(), &patch); err != nil {
		h.respondInvalid(ctx, "invalid menu item payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	item, err := h.client.UpdateMenuItem(stdCtx, id, patch)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, item)
}

// Delete removes a menu item.
func (h *MenuHandler) Delete(ctx *fasthttp.RequestCtx) {
	id, ok := ctx.UserValue("id").(string)
	if !ok || id == "" {
		h.respondInvalid(ctx, "menu item id is required")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.client.DeleteMenuItem(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"id": id})
}
