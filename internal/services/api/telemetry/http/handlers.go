// Package http provides http transport for telemetry events
package http

import (
	stdhttp "net/http"
	"strconv"

	"printfarm/internal/modkit/httpkit"
	"printfarm/internal/services/api/telemetry/domain"
	svc "printfarm/internal/services/api/telemetry/service"
)

// Register mounts telemetry endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// hardware event ingress
	httpkit.PostJSON[domain.EventInput](r, "/events", h.reconcile)

	// columnar audit trail
	httpkit.Get(r, "/events/recent", h.recent)
}

type handlers struct{ svc svc.Service }

// @Summary Report a printer lifecycle event
// @Tags Telemetry
// @Accept json
// @Produce json
// @Param payload body domain.EventInput true "Hardware event"
// @Success 200 {object} domain.EventResult "ok"
// @Router /telemetry/events [post]
func (h *handlers) reconcile(r *stdhttp.Request, in domain.EventInput) (any, error) {
	return h.svc.Reconcile(r.Context(), in)
}

// @Summary Recent event audit trail
// @Tags Telemetry
// @Produce json
// @Param limit query int false "Max rows, default 50"
// @Success 200 {array} domain.AuditRow "ok"
// @Router /telemetry/events/recent [get]
func (h *handlers) recent(r *stdhttp.Request) (any, error) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}
	return h.svc.RecentEvents(r.Context(), domain.RecentInput{Limit: limit})
}
