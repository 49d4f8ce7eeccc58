// Package http provides http transport for printer management
package http

import (
	stdhttp "net/http"

	"printfarm/internal/modkit/httpkit"
	"printfarm/internal/services/api/printers/domain"
	svc "printfarm/internal/services/api/printers/service"
)

// Register mounts printer endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/{id}", h.get)
	httpkit.PatchJSON[domain.AssignSerialInput](r, "/{id}/serial", h.assignSerial)
}

type handlers struct{ svc svc.Service }

// @Summary List printers
// @Tags Printers
// @Produce json
// @Success 200 {array} domain.Printer "ok"
// @Router /printers [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context())
}

// @Summary Get one printer
// @Tags Printers
// @Produce json
// @Param id path string true "Printer id"
// @Success 200 {object} domain.Printer "ok"
// @Router /printers/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), httpkit.PathParam(r, "id"))
}

// @Summary Assign the hardware serial to a printer
// @Tags Printers
// @Accept json
// @Produce json
// @Param id path string true "Printer id"
// @Param payload body domain.AssignSerialInput true "Serial assignment"
// @Success 200 {object} domain.Printer "ok"
// @Router /printers/{id}/serial [patch]
func (h *handlers) assignSerial(r *stdhttp.Request, in domain.AssignSerialInput) (any, error) {
	return h.svc.AssignSerial(r.Context(), httpkit.PathParam(r, "id"), in)
}
