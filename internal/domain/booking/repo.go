package booking

import "context"

// Repository is the appointment store. Implementations must enforce slot
// uniqueness per doctor and per patient among booked/updated rows and
// surface violations as ErrSlotTaken.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id string) error

	// GetOwned returns the appointment only when it belongs to the given
	// patient; otherwise ErrNotFound.
	GetOwned(ctx context.Context, id, patientID string) (*Appointment, error)

	DoctorSlotTaken(ctx context.Context, doctorID, date, startTime string) (bool, error)
	// PatientConflict checks the patient's other appointments at the same
	// date and time across all doctors. excludeID may be empty.
	PatientConflict(ctx context.Context, patientID, date, startTime, excludeID string) (bool, error)
	CountFutureByPatient(ctx context.Context, patientID, today string) (int, error)

	// BookedTimes returns the start times already occupied for a doctor
	// on a date.
	BookedTimes(ctx context.Context, doctorID, date string) ([]string, error)
	// ListBookedJoined returns every booked/updated appointment with
	// doctor and patient names, ordered by doctor name, date, time.
	ListBookedJoined(ctx context.Context) ([]BookedRow, error)
}
