// Package http provides http transport for the night preload planner
package http

import (
	stdhttp "net/http"
	"time"

	"printfarm/internal/modkit/httpkit"
	ptime "printfarm/internal/platform/time"
	"printfarm/internal/services/api/nightplan/domain"
	svc "printfarm/internal/services/api/nightplan/service"
)

// Register mounts nightplan endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// body is entirely optional; an empty POST previews "now"
	httpkit.PostJSONOptional[domain.PreviewInput](r, "/preview", h.preview)
}

type handlers struct{ svc svc.Service }

// timeNow is a seam for tests
var timeNow = time.Now

// @Summary Preview tonight's preload plan
// @Tags Nightplan
// @Accept json
// @Produce json
// @Param payload body domain.PreviewInput false "Reference instant, defaults to now"
// @Success 200 {object} domain.Plan "ok"
// @Router /nightplan/preview [post]
func (h *handlers) preview(r *stdhttp.Request, in domain.PreviewInput) (any, error) {
	ref := timeNow()
	if t := ptime.Deref(in.ReferenceTime); !t.IsZero() {
		ref = t
	}
	return h.svc.ComputeNightPlan(r.Context(), ref)
}
