package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/torildhov/sandefjord-legesenter-booking-system/internal/domain/doctor"
	"github.com/torildhov/sandefjord-legesenter-booking-system/internal/platform/auth"
	"github.com/torildhov/sandefjord-legesenter-booking-system/pkg/timegrid"
)

// maxFutureAppointments caps how many future appointments a patient may
// hold at once.
const maxFutureAppointments = 3

type Service struct {
	repo         Repository
	doctors      doctor.Repository
	cancelWindow int
	log          zerolog.Logger

	// now is swapped out in tests.
	now func() time.Time
}

func NewService(repo Repository, doctors doctor.Repository, cancelWindowHours int, log zerolog.Logger) *Service {
	return &Service{
		repo:         repo,
		doctors:      doctors,
		cancelWindow: cancelWindowHours,
		log:          log,
		now:          time.Now,
	}
}

type BookInput struct {
	DoctorID  string `json:"doctor_id"`
	Date      string `json:"appointment_date"`
	StartTime string `json:"start_time"`
}

// Confirmation carries the created or changed appointment together with the
// doctor's name for the response message.
type Confirmation struct {
	Appointment *Appointment
	DoctorName  string
}

// Book creates a new appointment for the caller. Every precondition is
// checked in order and the first violation aborts with no mutation; the
// store's uniqueness constraint closes the remaining race at insert time.
func (s *Service) Book(ctx context.Context, p auth.Principal, in BookInput) (*Confirmation, error) {
	if in.DoctorID == "" || in.Date == "" || in.StartTime == "" {
		return nil, &ValidationError{Message: "All fields are required"}
	}
	date, err := timegrid.ParseDate(in.Date)
	if err != nil {
		return nil, &ValidationError{Message: "Invalid date format"}
	}
	if !timegrid.IsValidSlot(in.StartTime) {
		return nil, &ValidationError{Message: "Invalid appointment time"}
	}

	now := s.now()
	if timegrid.IsPastDate(date, now) {
		return nil, &RuleError{Message: "Cannot book appointments for past dates"}
	}
	if timegrid.WithinMinimumBuffer(date, in.StartTime, now) {
		return nil, &RuleError{Message: "Appointments must be booked at least one hour before the start time"}
	}
	if !timegrid.WithinBookingHorizon(date, now) {
		return nil, &RuleError{Message: "Appointments can only be booked up to 4 weeks in advance"}
	}
	weekday := timegrid.Weekday(date)
	if !timegrid.IsBusinessDay(weekday) {
		return nil, &RuleError{Message: "No appointments available for the specified date"}
	}

	count, err := s.repo.CountFutureByPatient(ctx, p.UserID, s.today(now))
	if err != nil {
		return nil, err
	}
	if count >= maxFutureAppointments {
		return nil, &RuleError{Message: "You can only have a maximum of three future appointments"}
	}

	taken, err := s.repo.DoctorSlotTaken(ctx, in.DoctorID, in.Date, in.StartTime)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &RuleError{Message: "This time slot is not available"}
	}

	conflict, err := s.repo.PatientConflict(ctx, p.UserID, in.Date, in.StartTime, "")
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, &RuleError{Message: "You already have an appointment booked with another doctor at this time"}
	}

	doc, err := s.doctors.GetByID(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}
	if !contains(doc.Availability.OpenSlots(weekday, in.Date), in.StartTime) {
		return nil, &RuleError{Message: "The selected time slot is not available"}
	}

	appt := &Appointment{
		ID:        uuid.NewString(),
		DoctorID:  in.DoctorID,
		PatientID: p.UserID,
		Date:      in.Date,
		Day:       weekday,
		StartTime: in.StartTime,
		Status:    StatusBooked,
	}
	if err := s.repo.Create(ctx, appt); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			// Lost the race against a concurrent booking.
			return nil, &RuleError{Message: "This time slot is not available"}
		}
		return nil, err
	}

	s.log.Info().
		Str("appointment_id", appt.ID).
		Str("doctor_id", appt.DoctorID).
		Str("patient_id", appt.PatientID).
		Str("date", appt.Date).
		Str("start_time", appt.StartTime).
		Msg("appointment booked")
	return &Confirmation{Appointment: appt, DoctorName: doc.Name}, nil
}

// Change reschedules an existing appointment in place. The new triple of
// doctor, date and time must differ from the current one, and the same
// temporal and conflict rules apply as for booking.
func (s *Service) Change(ctx context.Context, p auth.Principal, appointmentID string, in BookInput) (*Confirmation, error) {
	if in.DoctorID == "" || in.Date == "" || in.StartTime == "" {
		return nil, &ValidationError{Message: "All fields are required"}
	}
	date, err := timegrid.ParseDate(in.Date)
	if err != nil {
		return nil, &ValidationError{Message: "Invalid date format"}
	}
	if !timegrid.IsValidSlot(in.StartTime) {
		return nil, &ValidationError{Message: "Invalid appointment time"}
	}

	now := s.now()
	if timegrid.IsPastDate(date, now) {
		return nil, &RuleError{Message: "Choose today's date or a future date"}
	}
	if timegrid.WithinMinimumBuffer(date, in.StartTime, now) {
		return nil, &RuleError{Message: "Appointments must be booked at least one hour in advance"}
	}
	if !timegrid.WithinBookingHorizon(date, now) {
		return nil, &RuleError{Message: "Appointments can only be booked up to four weeks in advance"}
	}
	weekday := timegrid.Weekday(date)
	if !timegrid.IsBusinessDay(weekday) {
		return nil, &RuleError{Message: "No appointments available for the specified date"}
	}

	current, err := s.repo.GetOwned(ctx, appointmentID, p.UserID)
	if err != nil {
		return nil, err
	}

	if current.DoctorID == in.DoctorID && current.Date == in.Date && current.StartTime == in.StartTime {
		return nil, &RuleError{Message: "You have already booked this appointment with the same doctor, date, and time"}
	}

	conflict, err := s.repo.PatientConflict(ctx, p.UserID, in.Date, in.StartTime, current.ID)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, &RuleError{Message: "You already have an appointment booked with another doctor at this time"}
	}

	taken, err := s.repo.DoctorSlotTaken(ctx, in.DoctorID, in.Date, in.StartTime)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &RuleError{Message: "The selected time slot is not available"}
	}

	doc, err := s.doctors.GetByID(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}
	if !contains(doc.Availability.OpenSlots(weekday, in.Date), in.StartTime) {
		return nil, &RuleError{Message: "The selected time slot is not available"}
	}

	updated := *current
	updated.DoctorID = in.DoctorID
	updated.Date = in.Date
	updated.Day = weekday
	updated.StartTime = in.StartTime
	updated.Status = StatusUpdated
	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			return nil, &RuleError{Message: "The selected time slot is not available"}
		}
		return nil, err
	}

	s.log.Info().
		Str("appointment_id", updated.ID).
		Str("doctor_id", updated.DoctorID).
		Str("date", updated.Date).
		Str("start_time", updated.StartTime).
		Msg("appointment changed")
	return &Confirmation{Appointment: &updated, DoctorName: doc.Name}, nil
}

// Cancel removes a booked or updated appointment. The notice requirement is
// measured against the appointment date's midnight, not the slot itself.
func (s *Service) Cancel(ctx context.Context, p auth.Principal, appointmentID string) error {
	appt, err := s.repo.GetOwned(ctx, appointmentID, p.UserID)
	if err != nil {
		return err
	}

	date, err := timegrid.ParseDate(appt.Date)
	if err != nil {
		return err
	}
	now := s.now()
	if !timegrid.IsFutureOrToday(date, now) {
		return &RuleError{Message: "Cannot cancel past appointments"}
	}
	if !timegrid.WithinCancellationWindow(date, s.cancelWindow, now) {
		return &RuleError{Message: "Appointments can only be cancelled at least 24 hours in advance"}
	}
	if appt.Status != StatusBooked && appt.Status != StatusUpdated {
		return &RuleError{Message: "Only booked or updated appointments can be deleted"}
	}

	if err := s.repo.Delete(ctx, appt.ID); err != nil {
		return err
	}
	s.log.Info().Str("appointment_id", appt.ID).Str("patient_id", p.UserID).Msg("appointment cancelled")
	return nil
}

// ListOpenSlots resolves, for every doctor working on the requested date's
// weekday, the slots still bookable: the weekly bucket minus exceptions,
// minus already-booked times, minus slots inside the one-hour buffer.
// An empty date defaults to today. Availability is re-resolved on every
// call; nothing is cached.
func (s *Service) ListOpenSlots(ctx context.Context, rawDate string) ([]OpenSlotsEntry, error) {
	now := s.now()
	if rawDate == "" {
		rawDate = s.today(now)
	}
	date, err := timegrid.ParseDate(rawDate)
	if err != nil {
		return nil, &ValidationError{Message: "Invalid date format"}
	}
	if timegrid.IsPastDate(date, now) {
		return nil, &RuleError{Message: "No appointments available for past dates"}
	}
	weekday := timegrid.Weekday(date)
	if !timegrid.IsBusinessDay(weekday) {
		return nil, &RuleError{Message: "No appointments available for the specified date"}
	}

	doctors, err := s.doctors.ListAvailableOn(ctx, weekday)
	if err != nil {
		return nil, err
	}

	entries := make([]OpenSlotsEntry, 0, len(doctors))
	for _, doc := range doctors {
		open := doc.Availability.OpenSlots(weekday, rawDate)

		booked, err := s.repo.BookedTimes(ctx, doc.ID, rawDate)
		if err != nil {
			return nil, err
		}
		bookedSet := make(map[string]bool, len(booked))
		for _, t := range booked {
			bookedSet[t] = true
		}

		available := make([]string, 0, len(open))
		for _, slot := range open {
			if bookedSet[slot] {
				continue
			}
			if timegrid.WithinMinimumBuffer(date, slot, now) {
				continue
			}
			available = append(available, slot)
		}
		entries = append(entries, OpenSlotsEntry{
			DoctorID:       doc.ID,
			DoctorName:     doc.Name,
			Date:           rawDate,
			AvailableSlots: available,
		})
	}
	return entries, nil
}

// ListBookedByDoctor returns all booked and updated appointments grouped
// per doctor, ordered by doctor name, then date, then time.
func (s *Service) ListBookedByDoctor(ctx context.Context) ([]DoctorAppointments, error) {
	rows, err := s.repo.ListBookedJoined(ctx)
	if err != nil {
		return nil, err
	}
	var out []DoctorAppointments
	for _, row := range rows {
		if len(out) == 0 || out[len(out)-1].DoctorID != row.DoctorID {
			out = append(out, DoctorAppointments{
				DoctorID:   row.DoctorID,
				DoctorName: row.DoctorName,
			})
		}
		group := &out[len(out)-1]
		group.Appointments = append(group.Appointments, BookedEntry{
			Date:        row.Date,
			StartTime:   row.StartTime,
			PatientID:   row.PatientID,
			PatientName: row.PatientName,
		})
	}
	return out, nil
}

func (s *Service) today(now time.Time) string {
	return now.Format(timegrid.DateLayout)
}

func contains(slots []string, slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}
