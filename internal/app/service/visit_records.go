package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/daily-report-backend/internal/app/model"
	"github.com/ikkim/daily-report-backend/internal/app/repository"
	apperrors "github.com/ikkim/daily-report-backend/internal/errors"
)

const visitTimeLayout = "15:04"

// visitInput is a submitted visit row after normalization.
type visitInput struct {
	id         *uint
	customerID uint
	visitTime  *string
	content    string
}

func (v visitInput) toRecord(reportID uint, sortOrder int) model.VisitRecord {
	rec := model.VisitRecord{
		DailyReportID: reportID,
		CustomerID:    v.customerID,
		VisitTime:     v.visitTime,
		Content:       v.content,
		SortOrder:     sortOrder,
	}
	if v.id != nil {
		rec.ID = *v.id
	}
	return rec
}

func prepareVisitInputs(inputs []model.VisitRecordInput) ([]visitInput, error) {
	out := make([]visitInput, 0, len(inputs))
	for i, in := range inputs {
		if in.CustomerID == 0 {
			return nil, apperrors.Validation(apperrors.ValidationRequired,
				fmt.Sprintf("visit_records[%d].customer_id is required", i))
		}
		if strings.TrimSpace(in.Content) == "" {
			return nil, apperrors.Validation(apperrors.ValidationRequired,
				fmt.Sprintf("visit_records[%d].content is required", i))
		}

		var visitTime *string
		if in.VisitTime != nil {
			if t := strings.TrimSpace(*in.VisitTime); t != "" {
				if _, err := time.Parse(visitTimeLayout, t); err != nil {
					return nil, apperrors.Validation(apperrors.ValidationInvalidInput,
						fmt.Sprintf("visit_records[%d].visit_time must be formatted as HH:MM", i))
				}
				visitTime = &t
			}
		}

		out = append(out, visitInput{
			id:         in.ID,
			customerID: in.CustomerID,
			visitTime:  visitTime,
			content:    in.Content,
		})
	}
	return out, nil
}

// ensureActiveCustomers fails on the first visit, in submission order, whose
// customer is missing or inactive.
func ensureActiveCustomers(ctx context.Context, customers repository.CustomerRepository, visits []visitInput) error {
	ids := make([]uint, 0, len(visits))
	seen := make(map[uint]struct{}, len(visits))
	for _, v := range visits {
		if _, ok := seen[v.customerID]; ok {
			continue
		}
		seen[v.customerID] = struct{}{}
		ids = append(ids, v.customerID)
	}

	active, err := customers.FindActiveIDs(ctx, ids)
	if err != nil {
		return err
	}
	activeSet := make(map[uint]struct{}, len(active))
	for _, id := range active {
		activeSet[id] = struct{}{}
	}

	for _, id := range ids {
		if _, ok := activeSet[id]; !ok {
			return apperrors.Validation(apperrors.ReportInactiveCustomer,
				fmt.Sprintf("customer %d does not exist or is inactive", id))
		}
	}
	return nil
}

type visitRecordDiff struct {
	toUpdate []model.VisitRecord
	toInsert []model.VisitRecord
	toDelete []uint
}

// diffVisitRecords reconciles the stored visit ids of a report with the
// submitted list. Entries with an id update that row, entries without one are
// inserted, and stored rows missing from the list are deleted. Sort order is
// the submitted position.
func diffVisitRecords(reportID uint, existingIDs []uint, visits []visitInput) (visitRecordDiff, error) {
	existing := make(map[uint]struct{}, len(existingIDs))
	for _, id := range existingIDs {
		existing[id] = struct{}{}
	}

	var diff visitRecordDiff
	kept := make(map[uint]struct{}, len(visits))
	for i, v := range visits {
		rec := v.toRecord(reportID, i)
		if v.id == nil {
			diff.toInsert = append(diff.toInsert, rec)
			continue
		}

		id := *v.id
		if _, ok := existing[id]; !ok {
			return visitRecordDiff{}, apperrors.Validation(apperrors.ReportUnknownVisitEntry,
				fmt.Sprintf("visit record %d does not belong to this report", id))
		}
		if _, dup := kept[id]; dup {
			return visitRecordDiff{}, apperrors.Validation(apperrors.ReportUnknownVisitEntry,
				fmt.Sprintf("visit record %d appears more than once", id))
		}
		kept[id] = struct{}{}
		diff.toUpdate = append(diff.toUpdate, rec)
	}

	for _, id := range existingIDs {
		if _, ok := kept[id]; !ok {
			diff.toDelete = append(diff.toDelete, id)
		}
	}
	return diff, nil
}
