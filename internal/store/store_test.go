package store_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"go-healthcare-records/internal/domain/entity"
	"go-healthcare-records/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newStore(opts ...store.Option) *store.Store {
	return store.New(append([]store.Option{store.WithClock(func() time.Time { return fixedNow })}, opts...)...)
}

func mustCreate(t *testing.T, s *store.Store, rec entity.Record) int64 {
	t.Helper()
	id, err := s.Create(context.Background(), rec)
	require.NoError(t, err)
	return id
}

func createUser(t *testing.T, s *store.Store, username string, role entity.Role) int64 {
	return mustCreate(t, s, &entity.User{Username: username, Password: "hash", Role: role})
}

func createDoctor(t *testing.T, s *store.Store, userID int64) int64 {
	return mustCreate(t, s, &entity.Doctor{UserID: userID, FullName: "Dr. Smith", Specialization: "Cardiology"})
}

func createPatient(t *testing.T, s *store.Store, userID int64) int64 {
	return mustCreate(t, s, &entity.Patient{
		UserID:   userID,
		FullName: "John Doe",
		DOB:      entity.NewDate(1990, time.May, 15),
		Gender:   entity.GenderMale,
	})
}

func createAppointment(t *testing.T, s *store.Store, patientID, doctorID int64) int64 {
	return mustCreate(t, s, &entity.Appointment{PatientID: patientID, DoctorID: doctorID, AppointmentDate: fixedNow.Add(24 * time.Hour)})
}

func createMedicine(t *testing.T, s *store.Store, name string) int64 {
	return mustCreate(t, s, &entity.Medicine{
		Name:       name,
		Quantity:   100,
		Price:      decimal.RequireFromString("5.50"),
		ExpiryDate: entity.NewDate(2030, time.January, 1),
	})
}

func collect(s *store.Store, kind entity.Kind) []entity.Record {
	return slices.Collect(s.List(kind, nil))
}

func TestCreate_AssignsIncreasingIDs(t *testing.T) {
	s := newStore()

	a := createUser(t, s, "alice", entity.RoleAdmin)
	b := createUser(t, s, "bob", entity.RolePatient)

	assert.Equal(t, int64(1), a)
	assert.Equal(t, int64(2), b)

	m := createMedicine(t, s, "Aspirin")
	assert.Equal(t, int64(1), m, "sequences are per kind")
}

func TestCreate_IgnoresCallerID(t *testing.T) {
	s := newStore()

	id := mustCreate(t, s, &entity.User{ID: 42, Username: "alice", Password: "hash", Role: entity.RoleAdmin})

	assert.Equal(t, int64(1), id)
	_, err := s.Get(entity.KindUser, 42)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreate_DoesNotRetainCallerRecord(t *testing.T) {
	s := newStore()
	u := &entity.User{Username: "alice", Password: "hash", Role: entity.RoleAdmin}
	id := mustCreate(t, s, u)

	u.Username = "mallory"

	got, err := s.Get(entity.KindUser, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.(*entity.User).Username)
}

func TestCreate_AppliesDefaults(t *testing.T) {
	s := newStore()
	userID := createUser(t, s, "doc", entity.RoleDoctor)
	patientUser := createUser(t, s, "pat", entity.RolePatient)
	doctorID := createDoctor(t, s, userID)
	patientID := createPatient(t, s, patientUser)
	apptID := createAppointment(t, s, patientID, doctorID)
	billID := mustCreate(t, s, &entity.Billing{AppointmentID: apptID, TotalAmount: decimal.NewFromInt(10)})

	u, _ := s.Get(entity.KindUser, userID)
	assert.Equal(t, fixedNow, u.(*entity.User).CreatedAt)

	d, _ := s.Get(entity.KindDoctor, doctorID)
	assert.Equal(t, entity.AvailabilityAvailable, d.(*entity.Doctor).AvailabilityStatus)

	a, _ := s.Get(entity.KindAppointment, apptID)
	assert.Equal(t, entity.AppointmentScheduled, a.(*entity.Appointment).Status)

	b, _ := s.Get(entity.KindBilling, billID)
	assert.Equal(t, entity.PaymentPending, b.(*entity.Billing).PaymentStatus)
}

func TestCreate_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		rec   entity.Record
		field string
	}{
		{"missing username", &entity.User{Password: "x", Role: entity.RoleAdmin}, "username"},
		{"bad role", &entity.User{Username: "a", Password: "x", Role: "nurse"}, "role"},
		{"bad availability", &entity.Doctor{UserID: 1, FullName: "a", Specialization: "b", AvailabilityStatus: "asleep"}, "availability_status"},
		{"bad gender", &entity.Patient{UserID: 1, FullName: "a", DOB: entity.NewDate(2000, 1, 1), Gender: "unknown"}, "gender"},
		{"missing dob", &entity.Patient{UserID: 1, FullName: "a", Gender: entity.GenderFemale}, "dob"},
		{"negative quantity", &entity.Medicine{Name: "a", Quantity: -1, ExpiryDate: entity.NewDate(2030, 1, 1)}, "quantity"},
		{"negative price", &entity.Medicine{Name: "a", Price: decimal.NewFromInt(-1), ExpiryDate: entity.NewDate(2030, 1, 1)}, "price"},
		{"bad resource type", &entity.HospitalResource{ResourceName: "a", ResourceType: "car"}, "resource_type"},
		{"rating zero", &entity.Feedback{PatientID: 1, Rating: 0}, "rating"},
		{"rating six", &entity.Feedback{PatientID: 1, Rating: 6}, "rating"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore()

			_, err := s.Create(context.Background(), tt.rec)

			var verr *store.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.ErrorIs(t, err, store.ErrValidation)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, 0, s.Count(tt.rec.Kind()))
		})
	}
}

func TestCreate_RatingBoundsAccepted(t *testing.T) {
	s := newStore()
	patientID := createPatient(t, s, createUser(t, s, "pat", entity.RolePatient))

	for _, rating := range []int{1, 5} {
		_, err := s.Create(context.Background(), &entity.Feedback{PatientID: patientID, Rating: rating})
		assert.NoError(t, err, "rating %d", rating)
	}
}

func TestCreate_ReferenceError(t *testing.T) {
	s := newStore()

	_, err := s.Create(context.Background(), &entity.Doctor{UserID: 99, FullName: "a", Specialization: "b"})

	var rerr *store.ReferenceError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "user_id", rerr.Field)
	assert.Equal(t, entity.KindUser, rerr.Target)
	assert.Equal(t, int64(99), rerr.ID)
	assert.Equal(t, 0, s.Count(entity.KindDoctor))
}

func TestCreate_OptionalReferenceChecked(t *testing.T) {
	s := newStore()
	patientID := createPatient(t, s, createUser(t, s, "pat", entity.RolePatient))
	missing := int64(7)

	_, err := s.Create(context.Background(), &entity.Feedback{PatientID: patientID, DoctorID: &missing, Rating: 3})

	assert.ErrorIs(t, err, store.ErrReference)
}

func TestCreate_UniquenessErrors(t *testing.T) {
	s := newStore()
	userID := createUser(t, s, "alice", entity.RoleDoctor)
	createDoctor(t, s, userID)

	_, err := s.Create(context.Background(), &entity.User{Username: "alice", Password: "x", Role: entity.RoleAdmin})
	var uerr *store.UniquenessError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "username", uerr.Field)
	assert.Equal(t, "alice", uerr.Value)

	_, err = s.Create(context.Background(), &entity.Doctor{UserID: userID, FullName: "Other", Specialization: "ENT"})
	assert.ErrorIs(t, err, store.ErrUniqueness)

	assert.Equal(t, 1, s.Count(entity.KindUser))
	assert.Equal(t, 1, s.Count(entity.KindDoctor))
}

func TestCreate_UsernameNotReusedAfterDelete(t *testing.T) {
	ctx := context.Background()
	var last entity.Batch
	s := newStore(store.WithCommitter(store.CommitterFunc(func(_ context.Context, b entity.Batch) error {
		last = b
		return nil
	})))
	userID := createUser(t, s, "alice", entity.RoleDoctor)
	createDoctor(t, s, userID)

	_, err := s.Delete(ctx, entity.KindUser, userID)
	require.NoError(t, err)
	assert.Equal(t, []entity.RetiredKey{{Kind: "users", Field: "username", Value: "alice"}}, last.Retired)

	_, err = s.Create(ctx, &entity.User{Username: "alice", Password: "x", Role: entity.RoleAdmin})
	var uerr *store.UniquenessError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "username", uerr.Field)
	assert.Equal(t, 0, s.Count(entity.KindUser))
}

func TestUpdate_RenamedUsernameNotReused(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	userID := createUser(t, s, "alice", entity.RoleAdmin)

	_, err := s.Update(ctx, entity.KindUser, userID, func(r entity.Record) error {
		r.(*entity.User).Username = "alice2"
		return nil
	})
	require.NoError(t, err)

	_, err = s.Create(ctx, &entity.User{Username: "alice", Password: "x", Role: entity.RoleAdmin})
	assert.ErrorIs(t, err, store.ErrUniqueness)

	// unrelated updates keep the current name
	_, err = s.Update(ctx, entity.KindUser, userID, func(r entity.Record) error {
		r.(*entity.User).Role = entity.RoleDoctor
		return nil
	})
	assert.NoError(t, err)
}

func TestCreate_ZeroForeignKeyIsReferenceError(t *testing.T) {
	s := newStore()
	patientID := createPatient(t, s, createUser(t, s, "pat", entity.RolePatient))

	_, err := s.Create(context.Background(), &entity.Feedback{PatientID: 0, Rating: 4})
	var rerr *store.ReferenceError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "patient_id", rerr.Field)
	assert.Equal(t, int64(0), rerr.ID)

	_, err = s.Create(context.Background(), &entity.LabTest{PatientID: patientID, DoctorID: 0, TestName: "CBC", TestDate: entity.NewDate(2024, 3, 1)})
	assert.ErrorIs(t, err, store.ErrReference)
}

func TestCreate_FailureDoesNotConsumeID(t *testing.T) {
	s := newStore()
	createUser(t, s, "alice", entity.RoleAdmin)

	_, err := s.Create(context.Background(), &entity.User{Username: "alice", Password: "x", Role: entity.RoleAdmin})
	require.Error(t, err)

	assert.Equal(t, int64(2), createUser(t, s, "bob", entity.RoleAdmin))
}

func TestIDs_NotReusedAfterDelete(t *testing.T) {
	s := newStore()
	createUser(t, s, "a", entity.RoleAdmin)
	second := createUser(t, s, "b", entity.RoleAdmin)

	_, err := s.Delete(context.Background(), entity.KindUser, second)
	require.NoError(t, err)

	assert.Equal(t, int64(3), createUser(t, s, "c", entity.RoleAdmin))
}

func TestUpdate(t *testing.T) {
	s := newStore()
	userID := createUser(t, s, "doc", entity.RoleDoctor)
	doctorID := createDoctor(t, s, userID)

	got, err := s.Update(context.Background(), entity.KindDoctor, doctorID, func(r entity.Record) error {
		d := r.(*entity.Doctor)
		d.AvailabilityStatus = entity.AvailabilityBusy
		d.ID = 500
		return nil
	})
	require.NoError(t, err)

	d := got.(*entity.Doctor)
	assert.Equal(t, doctorID, d.ID, "id is immutable")
	assert.Equal(t, entity.AvailabilityBusy, d.AvailabilityStatus)

	stored, err := s.Get(entity.KindDoctor, doctorID)
	require.NoError(t, err)
	assert.Equal(t, entity.AvailabilityBusy, stored.(*entity.Doctor).AvailabilityStatus)
}

func TestUpdate_InvalidLeavesRecordUnchanged(t *testing.T) {
	s := newStore()
	userID := createUser(t, s, "doc", entity.RoleDoctor)
	doctorID := createDoctor(t, s, userID)

	_, err := s.Update(context.Background(), entity.KindDoctor, doctorID, func(r entity.Record) error {
		r.(*entity.Doctor).AvailabilityStatus = "vacation"
		return nil
	})
	assert.ErrorIs(t, err, store.ErrValidation)

	stored, _ := s.Get(entity.KindDoctor, doctorID)
	assert.Equal(t, entity.AvailabilityAvailable, stored.(*entity.Doctor).AvailabilityStatus)
}

func TestUpdate_ChangedReferenceChecked(t *testing.T) {
	s := newStore()
	userID := createUser(t, s, "doc", entity.RoleDoctor)
	doctorID := createDoctor(t, s, userID)

	_, err := s.Update(context.Background(), entity.KindDoctor, doctorID, func(r entity.Record) error {
		r.(*entity.Doctor).UserID = 77
		return nil
	})

	assert.ErrorIs(t, err, store.ErrReference)
}

func TestUpdate_UniquenessExcludesSelf(t *testing.T) {
	s := newStore()
	alice := createUser(t, s, "alice", entity.RoleAdmin)
	createUser(t, s, "bob", entity.RoleAdmin)

	_, err := s.Update(context.Background(), entity.KindUser, alice, func(r entity.Record) error {
		r.(*entity.User).Role = entity.RoleDoctor
		return nil
	})
	require.NoError(t, err)

	_, err = s.Update(context.Background(), entity.KindUser, alice, func(r entity.Record) error {
		r.(*entity.User).Username = "bob"
		return nil
	})
	assert.ErrorIs(t, err, store.ErrUniqueness)
}

func TestUpdate_PatchError(t *testing.T) {
	s := newStore()
	id := createUser(t, s, "alice", entity.RoleAdmin)
	boom := errors.New("boom")

	_, err := s.Update(context.Background(), entity.KindUser, id, func(r entity.Record) error {
		r.(*entity.User).Username = "changed"
		return boom
	})

	assert.ErrorIs(t, err, boom)
	got, _ := s.Get(entity.KindUser, id)
	assert.Equal(t, "alice", got.(*entity.User).Username)
}

func TestNotFound(t *testing.T) {
	s := newStore()
	ctx := context.Background()

	_, err := s.Get(entity.KindPatient, 1)
	var nf *store.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, entity.KindPatient, nf.Kind)

	_, err = s.Update(ctx, entity.KindPatient, 1, func(entity.Record) error { return nil })
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Delete(ctx, entity.KindPatient, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUnknownKind(t *testing.T) {
	s := newStore()

	_, err := s.Get("nurses", 1)
	assert.ErrorIs(t, err, entity.ErrUnknownKind)

	_, err = s.Delete(context.Background(), "nurses", 1)
	assert.ErrorIs(t, err, entity.ErrUnknownKind)
}

func TestGet_ReturnsCopy(t *testing.T) {
	s := newStore()
	id := createUser(t, s, "alice", entity.RoleAdmin)

	got, _ := s.Get(entity.KindUser, id)
	got.(*entity.User).Username = "mutated"

	again, _ := s.Get(entity.KindUser, id)
	assert.Equal(t, "alice", again.(*entity.User).Username)
}

func TestList_AscendingAndFiltered(t *testing.T) {
	s := newStore()
	for _, name := range []string{"c", "a", "b"} {
		createUser(t, s, name, entity.RoleAdmin)
	}
	createUser(t, s, "d", entity.RolePatient)

	var ids []int64
	for rec := range s.List(entity.KindUser, nil) {
		ids = append(ids, rec.GetID())
	}
	assert.Equal(t, []int64{1, 2, 3, 4}, ids)

	admins := slices.Collect(s.List(entity.KindUser, func(r entity.Record) bool {
		return r.(*entity.User).Role == entity.RoleAdmin
	}))
	assert.Len(t, admins, 3)
}

func TestList_IsRestartable(t *testing.T) {
	s := newStore()
	createUser(t, s, "a", entity.RoleAdmin)
	createUser(t, s, "b", entity.RoleAdmin)

	seq := s.List(entity.KindUser, nil)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)

	createUser(t, s, "c", entity.RoleAdmin)
	assert.Len(t, slices.Collect(seq), 3, "a new iteration sees the current state")
}

func TestList_EarlyStop(t *testing.T) {
	s := newStore()
	for _, name := range []string{"a", "b", "c"} {
		createUser(t, s, name, entity.RoleAdmin)
	}

	n := 0
	for range s.List(entity.KindUser, nil) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestSnapshot_IsolatedFromLaterWrites(t *testing.T) {
	s := newStore()
	createUser(t, s, "a", entity.RoleAdmin)

	snap := s.Snapshot()
	createUser(t, s, "b", entity.RoleAdmin)

	assert.Equal(t, 1, snap.Count(entity.KindUser))
	assert.Equal(t, int64(1), snap.LastID(entity.KindUser))
	assert.Equal(t, 2, s.Count(entity.KindUser))
}

func TestCommitter_ReceivesBatch(t *testing.T) {
	var batches []entity.Batch
	s := newStore(store.WithCommitter(store.CommitterFunc(func(_ context.Context, b entity.Batch) error {
		batches = append(batches, b)
		return nil
	})))

	id := createUser(t, s, "alice", entity.RoleAdmin)

	require.Len(t, batches, 1)
	b := batches[0]
	require.Len(t, b.Changes, 1)
	assert.Equal(t, entity.OpInsert, b.Changes[0].Op)
	assert.Equal(t, id, b.Changes[0].ID)
	assert.Equal(t, map[entity.Kind]int64{entity.KindUser: 1}, b.Sequences)
}

func TestCommitter_FailureDiscardsCreate(t *testing.T) {
	fail := errors.New("disk full")
	s := newStore(store.WithCommitter(store.CommitterFunc(func(context.Context, entity.Batch) error {
		return fail
	})))

	_, err := s.Create(context.Background(), &entity.User{Username: "alice", Password: "x", Role: entity.RoleAdmin})

	assert.ErrorIs(t, err, fail)
	assert.Equal(t, 0, s.Count(entity.KindUser))
	assert.Equal(t, int64(0), s.Snapshot().LastID(entity.KindUser))
}

func TestRestore(t *testing.T) {
	s := newStore()

	err := s.Restore(entity.Dump{
		Records: []entity.Record{
			&entity.User{ID: 3, Username: "alice", Password: "x", Role: entity.RoleAdmin},
			&entity.User{ID: 7, Username: "bob", Password: "x", Role: entity.RoleAdmin},
		},
		LastIDs: map[entity.Kind]int64{entity.KindUser: 9, entity.KindMedicine: 4},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, s.Count(entity.KindUser))
	assert.Equal(t, int64(10), createUser(t, s, "carol", entity.RoleAdmin))
	assert.Equal(t, int64(5), createMedicine(t, s, "Aspirin"))
}

func TestRestore_SequenceNeverBelowMaxID(t *testing.T) {
	s := newStore()

	require.NoError(t, s.Restore(entity.Dump{Records: []entity.Record{
		&entity.User{ID: 12, Username: "alice", Password: "x", Role: entity.RoleAdmin},
	}}))

	assert.Equal(t, int64(13), createUser(t, s, "bob", entity.RoleAdmin))
}

func TestRestore_RetiredUsernamesStayTaken(t *testing.T) {
	s := newStore()
	require.NoError(t, s.Restore(entity.Dump{
		Retired: []entity.RetiredKey{{Kind: string(entity.KindUser), Field: "username", Value: "alice"}},
	}))

	_, err := s.Create(context.Background(), &entity.User{Username: "alice", Password: "x", Role: entity.RoleAdmin})

	assert.ErrorIs(t, err, store.ErrUniqueness)
}

func TestConcurrentCreates(t *testing.T) {
	s := newStore()
	const workers = 8
	const perWorker = 25

	var wg sync.WaitGroup
	ids := make(chan int64, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id, err := s.Create(context.Background(), &entity.Medicine{
					Name:       "Paracetamol",
					Quantity:   i,
					ExpiryDate: entity.NewDate(2030, 1, 1),
				})
				if err == nil {
					ids <- id
				}
				for range s.List(entity.KindMedicine, nil) {
				}
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "id %d handed out twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers*perWorker)
	assert.Equal(t, workers*perWorker, s.Count(entity.KindMedicine))

	listed := collect(s, entity.KindMedicine)
	assert.True(t, slices.IsSortedFunc(listed, func(a, b entity.Record) int {
		return int(a.GetID() - b.GetID())
	}))
}
