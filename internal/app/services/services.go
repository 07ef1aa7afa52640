package services

import (
	"context"
	"time"

	"github.com/gamage-recruiters/platform/internal/db"
)

// Transactor runs a unit of work inside one database transaction.
// Repository calls made with the context passed to fn join that transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// Activity descriptions written to the activity log
const (
	ActivityUpdatedProfile  = "Updated Profile Details"
	ActivityUpdatedImage    = "Updated User Image"
	ActivityUpdatedCV       = "Updated User CV"
	ActivityChangedPassword = "Changed Password"
	ActivityAppliedForJob   = "Applied For a Job"
)

// Number of entries returned by the "latest" listings
const latestLimit = 3

const dateLayout = "2006-01-02"

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
