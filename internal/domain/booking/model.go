// Package booking implements the appointment lifecycle: slot listing,
// booking, rescheduling and cancellation, with the temporal and conflict
// rules evaluated on every transition.
package booking

const (
	StatusBooked  = "booked"
	StatusUpdated = "updated"
)

// Appointment is a single booked slot. Dates are ISO calendar dates and
// times are HH:MM grid times; Day is the weekday name denormalized from
// Date at write time.
type Appointment struct {
	ID        string `json:"id"`
	DoctorID  string `json:"doctor_id"`
	PatientID string `json:"patient_id"`
	Date      string `json:"appointment_date"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	Status    string `json:"status"`
}

// OpenSlotsEntry is one doctor's open slots for a requested date.
type OpenSlotsEntry struct {
	DoctorID       string   `json:"doctor_id"`
	DoctorName     string   `json:"doctor_name"`
	Date           string   `json:"date"`
	AvailableSlots []string `json:"available_slots"`
}

// BookedRow is one appointment joined with its doctor and patient names,
// as read from the store in listing order.
type BookedRow struct {
	DoctorID    string
	DoctorName  string
	Date        string
	StartTime   string
	PatientID   string
	PatientName string
}

// BookedEntry is one appointment as rendered in the admin listing.
type BookedEntry struct {
	Date        string `json:"appointment_date"`
	StartTime   string `json:"start_time"`
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
}

// DoctorAppointments groups the admin listing per doctor.
type DoctorAppointments struct {
	DoctorID     string        `json:"doctor_id"`
	DoctorName   string        `json:"doctor_name"`
	Appointments []BookedEntry `json:"appointments"`
}
