package doctor

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/rs/zerolog"
)

type mockRepo struct {
	byID map[string]*Doctor
}

func newMockRepo() *mockRepo {
	return &mockRepo{byID: make(map[string]*Doctor)}
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]Doctor, error) {
	var out []Doctor
	for _, d := range m.byID {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Doctor, error) {
	d, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockRepo) Create(_ context.Context, d *Doctor) error {
	for _, existing := range m.byID {
		if existing.Name == d.Name {
			return ErrNameTaken
		}
	}
	cp := *d
	m.byID[d.ID] = &cp
	return nil
}

func (m *mockRepo) UpdateAvailability(_ context.Context, id string, a Availability) error {
	d, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	d.Availability = a
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *mockRepo) ListAvailableOn(_ context.Context, weekday string) ([]Doctor, error) {
	var out []Doctor
	for _, d := range m.byID {
		if d.Availability.HasWeekday(weekday) {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func validInput() AddInput {
	return AddInput{
		Name:           "Dr. Hansen",
		Specialisation: "Allmennmedisin",
		Availability: Availability{
			WeeklySchedule: WeeklySchedule{"Monday": {"09:00", "09:30"}},
		},
	}
}

func TestAddDoctor(t *testing.T) {
	svc := NewService(newMockRepo(), zerolog.Nop())
	d, err := svc.Add(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if d.ID == "" {
		t.Error("doctor id not assigned")
	}
}

func TestAddDoctorDuplicateName(t *testing.T) {
	svc := NewService(newMockRepo(), zerolog.Nop())
	ctx := context.Background()
	if _, err := svc.Add(ctx, validInput()); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add(ctx, validInput()); !errors.Is(err, ErrNameTaken) {
		t.Fatalf("err = %v, want ErrNameTaken", err)
	}
}

func TestAddDoctorValidation(t *testing.T) {
	svc := NewService(newMockRepo(), zerolog.Nop())
	ctx := context.Background()

	in := validInput()
	in.Specialisation = ""
	if _, err := svc.Add(ctx, in); err == nil {
		t.Error("missing specialisation accepted")
	}

	in = validInput()
	in.Availability.WeeklySchedule = WeeklySchedule{"Sunday": {"09:00"}}
	var ve *ValidationError
	if _, err := svc.Add(ctx, in); !errors.As(err, &ve) {
		t.Errorf("weekend schedule: err = %v, want ValidationError", err)
	}
}

func TestUpdateAvailability(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, zerolog.Nop())
	ctx := context.Background()

	d, err := svc.Add(ctx, validInput())
	if err != nil {
		t.Fatal(err)
	}

	next := Availability{WeeklySchedule: WeeklySchedule{"Friday": {"12:00"}}}
	if err := svc.UpdateAvailability(ctx, d.ID, next); err != nil {
		t.Fatalf("UpdateAvailability: %v", err)
	}
	stored, err := repo.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !stored.Availability.HasWeekday("Friday") || stored.Availability.HasWeekday("Monday") {
		t.Errorf("availability not replaced: %+v", stored.Availability)
	}

	if err := svc.UpdateAvailability(ctx, "missing-id", next); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteDoctor(t *testing.T) {
	svc := NewService(newMockRepo(), zerolog.Nop())
	ctx := context.Background()

	d, err := svc.Add(ctx, validInput())
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, d.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, d.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}
