package doctor

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("doctor not found")
	ErrNameTaken = errors.New("a doctor with this name already exists")
)

type Repository interface {
	List(ctx context.Context, limit, offset int) ([]Doctor, error)
	GetByID(ctx context.Context, id string) (*Doctor, error)
	Create(ctx context.Context, d *Doctor) error
	UpdateAvailability(ctx context.Context, id string, a Availability) error
	Delete(ctx context.Context, id string) error
	// ListAvailableOn returns doctors whose weekly template has a bucket
	// for the named weekday.
	ListAvailableOn(ctx context.Context, weekday string) ([]Doctor, error)
}
