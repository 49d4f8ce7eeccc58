// Package domain holds DTOs for the cycle presentation feed
package domain

import "time"

// ListInput filters the cycle feed. Zero values mean "no filter"
type ListInput struct {
	PrinterID string `json:"printer_id,omitempty"`
	Status    string `json:"status,omitempty" validate:"omitempty,oneof=planned scheduled in_progress completed" example:"in_progress"`
	Page      int    `json:"page,omitempty" validate:"omitempty,min=1" example:"1"`
	PageSize  int    `json:"page_size,omitempty" validate:"omitempty,min=1,max=200" example:"50"`
}

// Cycle is the feed view of one production run
type Cycle struct {
	ID            string     `json:"id"`
	PrinterID     string     `json:"printer_id"`
	PrinterName   string     `json:"printer_name" example:"X1C rack 2"`
	ProjectID     string     `json:"project_id"`
	ProjectName   string     `json:"project_name" example:"Benchy fleet"`
	Color         string     `json:"color,omitempty" example:"#ff0000"`
	Status        string     `json:"status" example:"in_progress"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	CycleHours    float64    `json:"cycle_hours,omitempty"`
	GramsPlanned  *float64   `json:"grams_planned,omitempty"`
	GramsConsumed *float64   `json:"grams_consumed,omitempty"`
}

// ListResult carries one page of the feed plus the unfiltered total
type ListResult struct {
	Items []Cycle
	Total int
	Page  int
	Size  int
}
