// Package http provides http transport for the cycle feed
package http

import (
	stdhttp "net/http"

	"printfarm/internal/modkit/httpkit"
	"printfarm/internal/services/api/cycles/domain"
	svc "printfarm/internal/services/api/cycles/service"
)

// Register mounts cycle feed endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// filters are all optional; an empty POST lists the first page
	httpkit.PostJSONOptional[domain.ListInput](r, "/list", h.list)
}

type handlers struct{ svc svc.Service }

// @Summary List cycles
// @Tags Cycles
// @Accept json
// @Produce json
// @Param payload body domain.ListInput false "Filter and paging"
// @Success 200 {array} domain.Cycle "ok"
// @Router /cycles/list [post]
func (h *handlers) list(r *stdhttp.Request, in domain.ListInput) (any, error) {
	res, err := h.svc.List(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.List(res.Items, res.Total, res.Page, res.Size, ""), nil
}
