package domain

import "context"

// ServicePort is the module-facing cycle feed surface
type ServicePort interface {
	// List returns one page of cycles matching the filter
	List(ctx context.Context, in ListInput) (ListResult, error)
}
