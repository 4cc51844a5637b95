// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/unifiedui/variables-service/internal/domain/models"
)

// UpdateVariableRequest represents the request body for overwriting one
// variable of the default secret. A null value stores an empty string.
type UpdateVariableRequest struct {
	Value *string `json:"value"`
}

// DeleteVariablesRequest represents the request body for deleting variables
// from several secrets at once, keyed by secret name.
type DeleteVariablesRequest struct {
	Variables map[string][]string `json:"variables" binding:"required,min=1"`
}

// ActionLogFilterRequest narrows a search to one column value.
type ActionLogFilterRequest struct {
	Column string `json:"column" binding:"required"`
	Value  string `json:"value"`
}

// SearchActionLogsRequest represents the request body for searching action logs.
// Times are epoch milliseconds. A zero offset means now.
type SearchActionLogsRequest struct {
	OffsetTime int64                    `json:"offsetTime" binding:"omitempty,min=0"`
	RangeTime  int64                    `json:"rangeTime" binding:"required,min=1"`
	Filters    []ActionLogFilterRequest `json:"filters" binding:"omitempty,dive"`
}

// ToCriteria converts the request into search criteria.
func (r *SearchActionLogsRequest) ToCriteria() models.ActionLogSearchCriteria {
	criteria := models.ActionLogSearchCriteria{
		Range: time.Duration(r.RangeTime) * time.Millisecond,
	}
	if r.OffsetTime > 0 {
		criteria.OffsetTime = time.UnixMilli(r.OffsetTime).UTC()
	}
	for _, f := range r.Filters {
		criteria.Filters = append(criteria.Filters, models.ActionLogFilter{Column: f.Column, Value: f.Value})
	}
	return criteria
}
