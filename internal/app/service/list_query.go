package service

import (
	"fmt"
	"math"
	"time"

	"github.com/ikkim/daily-report-backend/internal/app/model"
	apperrors "github.com/ikkim/daily-report-backend/internal/errors"
	"github.com/ikkim/daily-report-backend/pkg/util"
)

// pageRequest is a validated page window.
type pageRequest struct {
	Page    int
	PerPage int
}

func (p pageRequest) Offset() int {
	return model.Offset(p.Page, p.PerPage)
}

func (p pageRequest) Pagination(total int64) model.Pagination {
	return model.NewPagination(p.Page, p.PerPage, total)
}

// resolvePage applies defaults and rejects out-of-range values rather than
// clamping them.
func resolvePage(page, perPage *int) (pageRequest, error) {
	req := pageRequest{Page: model.DefaultPage, PerPage: model.DefaultPerPage}

	if page != nil {
		if *page < 1 {
			return pageRequest{}, apperrors.Validation(apperrors.ValidationInvalidRange, "page must be at least 1")
		}
		req.Page = *page
	}
	if perPage != nil {
		if *perPage < 1 || *perPage > model.MaxPerPage {
			return pageRequest{}, apperrors.Validation(apperrors.ValidationInvalidRange,
				fmt.Sprintf("per_page must be between 1 and %d", model.MaxPerPage))
		}
		req.PerPage = *perPage
	}
	if req.Page-1 > math.MaxInt/req.PerPage {
		return pageRequest{}, apperrors.Validation(apperrors.ValidationInvalidRange, "page is out of range")
	}
	return req, nil
}

// resolveDateRange turns YYYY-MM-DD bounds into inclusive local-day
// boundaries.
func resolveDateRange(start, end *string) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if start != nil && *start != "" {
		d, err := util.ParseDate(*start)
		if err != nil {
			return nil, nil, apperrors.Validation(apperrors.ValidationInvalidInput, "start_date must be formatted as YYYY-MM-DD")
		}
		s := util.StartOfDay(d)
		from = &s
	}
	if end != nil && *end != "" {
		d, err := util.ParseDate(*end)
		if err != nil {
			return nil, nil, apperrors.Validation(apperrors.ValidationInvalidInput, "end_date must be formatted as YYYY-MM-DD")
		}
		e := util.EndOfDay(d)
		to = &e
	}

	if from != nil && to != nil && from.After(*to) {
		return nil, nil, apperrors.Validation(apperrors.ValidationInvalidRange, "start_date must be on or before end_date")
	}
	return from, to, nil
}
