// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"strings"
	"time"

	"varibulk/internal/core/apperror"
)

// FormatXLSX asks a report endpoint for a workbook instead of JSON.
const FormatXLSX = "xlsx"

// --- Success Response ---

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// --- Common Filters ---

// PeriodQuery is a date range in YYYY-MM-DD form.
type PeriodQuery struct {
	FromDate string `form:"fromDate"`
	ToDate   string `form:"toDate"`
}

// Parse returns the bounds; an empty bound is nil.
func (p PeriodQuery) Parse() (from, to *time.Time, err error) {
	if from, err = parseDate("fromDate", p.FromDate); err != nil {
		return nil, nil, err
	}
	if to, err = parseDate("toDate", p.ToDate); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func parseDate(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, apperror.NewValidation("invalid "+field+" format, expected YYYY-MM-DD").
			WithDetail("field", field).
			WithDetail("value", s)
	}
	return &t, nil
}

// FormatQuery selects the response format of report endpoints.
type FormatQuery struct {
	Format string `form:"format"`
}

// IsXLSX reports whether a workbook was requested.
func (f FormatQuery) IsXLSX() bool {
	return strings.EqualFold(strings.TrimSpace(f.Format), FormatXLSX)
}
