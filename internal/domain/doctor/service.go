package doctor

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ValidationError reports a rejected doctor payload.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Doctor, error) {
	return s.repo.List(ctx, limit, offset)
}

type AddInput struct {
	Name           string       `json:"doctor_name"`
	Specialisation string       `json:"specialisation"`
	Availability   Availability `json:"availability"`
}

// Add registers a new doctor. Names are unique across the clinic.
func (s *Service) Add(ctx context.Context, in AddInput) (*Doctor, error) {
	if in.Name == "" || in.Specialisation == "" || in.Availability.WeeklySchedule == nil {
		return nil, &ValidationError{Message: "All fields are required"}
	}
	if err := in.Availability.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	d := &Doctor{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Specialisation: in.Specialisation,
		Availability:   in.Availability,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	s.log.Info().Str("doctor_id", d.ID).Str("name", d.Name).Msg("doctor added")
	return d, nil
}

// UpdateAvailability replaces a doctor's availability template wholesale.
func (s *Service) UpdateAvailability(ctx context.Context, id string, a Availability) error {
	if a.WeeklySchedule == nil {
		return &ValidationError{Message: "Availability is required"}
	}
	if err := a.Validate(); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	if err := s.repo.UpdateAvailability(ctx, id, a); err != nil {
		return err
	}
	s.log.Info().Str("doctor_id", id).Msg("doctor availability updated")
	return nil
}

// Delete removes a doctor. Existing appointments for the doctor are removed
// by the store's cascading foreign key.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("doctor_id", id).Msg("doctor deleted")
	return nil
}
