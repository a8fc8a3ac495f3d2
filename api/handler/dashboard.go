package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/dishboard/console/domain"
	"github.com/dishboard/console/internal/upstream"
	"github.com/dishboard/console/pkg/httpcontext"
)

type DashboardHandler struct {
	baseHandler
	client *upstream.Client
}

func NewDashboardHandler(client *upstream.Client, adapter *httpcontext.Adapter, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		baseHandler: newBaseHandler(adapter, logger),
		client:      client,
	}
}

// Stats returns the landing-view KPI block.
func (h *DashboardHandler) Stats(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	stats, err := h.client.DashboardStats(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, stats)
}

// Feedback returns customer reviews.
func (h *DashboardHandler) Feedback(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	feedback, err := h.client.Feedback(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, feedback)
}

// SalesReports returns the sales report for ?startDate / ?endDate.
func (h *DashboardHandler) SalesReports(ctx *fasthttp.RequestCtx) {
	reportRange := domain.ReportRange{
		StartDate: string(ctx.QueryArgs().Peek("startDate")),
		EndDate:   string(ctx.QueryArgs().Peek("endDate")),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	report, err := h.client.SalesReports(stdCtx, reportRange)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, report)
}
