package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-healthcare-records/internal/domain/entity"
	"go-healthcare-records/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type graphIDs struct {
	doctorUser, patientUser int64
	doctor, patient         int64
	medicine                int64
	appointment             int64
	prescription            int64
	billing                 int64
	labTest                 int64
	feedback                int64
	anonFeedback            int64
}

// buildGraph creates one record of every dependent kind hanging off a single
// doctor and patient, plus a feedback row with no doctor.
func buildGraph(t *testing.T, s *store.Store) graphIDs {
	t.Helper()
	var g graphIDs
	g.doctorUser = createUser(t, s, "dr_smith", entity.RoleDoctor)
	g.patientUser = createUser(t, s, "john_doe", entity.RolePatient)
	g.doctor = createDoctor(t, s, g.doctorUser)
	g.patient = createPatient(t, s, g.patientUser)
	g.medicine = createMedicine(t, s, "Amoxicillin")
	g.appointment = createAppointment(t, s, g.patient, g.doctor)
	g.prescription = mustCreate(t, s, &entity.Prescription{AppointmentID: g.appointment, MedID: g.medicine, Dosage: "500mg"})
	g.billing = mustCreate(t, s, &entity.Billing{AppointmentID: g.appointment, TotalAmount: decimal.NewFromInt(25)})
	g.labTest = mustCreate(t, s, &entity.LabTest{PatientID: g.patient, DoctorID: g.doctor, TestName: "CBC", TestDate: entity.NewDate(2024, time.March, 2)})
	doctorID := g.doctor
	g.feedback = mustCreate(t, s, &entity.Feedback{PatientID: g.patient, DoctorID: &doctorID, Rating: 5})
	g.anonFeedback = mustCreate(t, s, &entity.Feedback{PatientID: g.patient, Rating: 4})
	return g
}

func exists(s *store.Store, kind entity.Kind, id int64) bool {
	_, err := s.Get(kind, id)
	return err == nil
}

func TestDelete_DoctorCascadesAndNullifiesFeedback(t *testing.T) {
	s := newStore()
	g := buildGraph(t, s)

	_, err := s.Delete(context.Background(), entity.KindDoctor, g.doctor)
	require.NoError(t, err)

	assert.False(t, exists(s, entity.KindDoctor, g.doctor))
	assert.False(t, exists(s, entity.KindAppointment, g.appointment))
	assert.False(t, exists(s, entity.KindPrescription, g.prescription))
	assert.False(t, exists(s, entity.KindBilling, g.billing))
	assert.False(t, exists(s, entity.KindLabTest, g.labTest))

	fb, err := s.Get(entity.KindFeedback, g.feedback)
	require.NoError(t, err, "feedback survives its doctor")
	assert.Nil(t, fb.(*entity.Feedback).DoctorID)
	assert.Equal(t, 5, fb.(*entity.Feedback).Rating)

	assert.True(t, exists(s, entity.KindUser, g.doctorUser), "cascade does not flow upwards")
	assert.True(t, exists(s, entity.KindPatient, g.patient))
	assert.True(t, exists(s, entity.KindMedicine, g.medicine))
}

func TestDelete_PatientCascades(t *testing.T) {
	s := newStore()
	g := buildGraph(t, s)

	_, err := s.Delete(context.Background(), entity.KindPatient, g.patient)
	require.NoError(t, err)

	assert.Equal(t, 0, s.Count(entity.KindAppointment))
	assert.Equal(t, 0, s.Count(entity.KindPrescription))
	assert.Equal(t, 0, s.Count(entity.KindBilling))
	assert.Equal(t, 0, s.Count(entity.KindLabTest))
	assert.Equal(t, 0, s.Count(entity.KindFeedback))
	assert.True(t, exists(s, entity.KindDoctor, g.doctor))
	assert.True(t, exists(s, entity.KindMedicine, g.medicine))
}

func TestDelete_UserRemovesOwnedProfile(t *testing.T) {
	s := newStore()
	g := buildGraph(t, s)

	changes, err := s.Delete(context.Background(), entity.KindUser, g.patientUser)
	require.NoError(t, err)

	assert.False(t, exists(s, entity.KindPatient, g.patient))
	assert.Equal(t, 0, s.Count(entity.KindFeedback))
	assert.Equal(t, 0, s.Count(entity.KindAppointment))
	assert.True(t, exists(s, entity.KindDoctor, g.doctor))

	last := changes[len(changes)-1]
	assert.Equal(t, entity.OpDelete, last.Op)
	assert.Equal(t, entity.KindUser, last.Kind)
	assert.Equal(t, g.patientUser, last.ID)
	for _, c := range changes {
		assert.Equal(t, entity.OpDelete, c.Op, "no feedback is nullified when it is deleted anyway")
	}
}

func TestDelete_DoctorUserNullifiesFeedback(t *testing.T) {
	s := newStore()
	g := buildGraph(t, s)

	changes, err := s.Delete(context.Background(), entity.KindUser, g.doctorUser)
	require.NoError(t, err)

	require.NotEmpty(t, changes)
	assert.Equal(t, entity.OpUpdate, changes[0].Op)
	assert.Equal(t, entity.KindFeedback, changes[0].Kind)
	assert.Equal(t, g.feedback, changes[0].ID)
	assert.NotNil(t, changes[0].Before.(*entity.Feedback).DoctorID)
	assert.Nil(t, changes[0].After.(*entity.Feedback).DoctorID)

	assert.Equal(t, 2, s.Count(entity.KindFeedback))
	assert.Equal(t, 0, s.Count(entity.KindLabTest))
}

func TestDelete_AppointmentCascades(t *testing.T) {
	s := newStore()
	g := buildGraph(t, s)

	_, err := s.Delete(context.Background(), entity.KindAppointment, g.appointment)
	require.NoError(t, err)

	assert.Equal(t, 0, s.Count(entity.KindPrescription))
	assert.Equal(t, 0, s.Count(entity.KindBilling))
	assert.True(t, exists(s, entity.KindLabTest, g.labTest))
	assert.True(t, exists(s, entity.KindMedicine, g.medicine))
}

func TestDelete_MedicineCascadesPrescriptions(t *testing.T) {
	s := newStore()
	g := buildGraph(t, s)

	changes, err := s.Delete(context.Background(), entity.KindMedicine, g.medicine)
	require.NoError(t, err)

	require.Len(t, changes, 2)
	assert.Equal(t, entity.KindPrescription, changes[0].Kind)
	assert.Equal(t, entity.KindMedicine, changes[1].Kind)
	assert.True(t, exists(s, entity.KindAppointment, g.appointment))
	assert.True(t, exists(s, entity.KindBilling, g.billing))
}

func TestDelete_LeafHasNoSideEffects(t *testing.T) {
	s := newStore()
	g := buildGraph(t, s)

	changes, err := s.Delete(context.Background(), entity.KindBilling, g.billing)
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.Equal(t, 1, s.Count(entity.KindAppointment))
}

func TestDelete_Deterministic(t *testing.T) {
	run := func() []entity.Change {
		s := newStore()
		g := buildGraph(t, s)
		createAppointment(t, s, g.patient, g.doctor)
		changes, err := s.Delete(context.Background(), entity.KindUser, g.doctorUser)
		require.NoError(t, err)
		return changes
	}

	type step struct {
		Op   entity.Op
		Kind entity.Kind
		ID   int64
	}
	flatten := func(cs []entity.Change) []step {
		out := make([]step, len(cs))
		for i, c := range cs {
			out[i] = step{c.Op, c.Kind, c.ID}
		}
		return out
	}

	first := flatten(run())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, flatten(run()))
	}
}

func TestDelete_CommitFailureLeavesStateUntouched(t *testing.T) {
	fail := errors.New("connection reset")
	armed := false
	s := newStore(store.WithCommitter(store.CommitterFunc(func(_ context.Context, b entity.Batch) error {
		if armed {
			return fail
		}
		return nil
	})))
	g := buildGraph(t, s)

	before := map[entity.Kind]int{}
	for _, k := range entity.Kinds() {
		before[k] = s.Count(k)
	}

	armed = true
	_, err := s.Delete(context.Background(), entity.KindDoctor, g.doctor)
	require.ErrorIs(t, err, fail)

	for _, k := range entity.Kinds() {
		assert.Equal(t, before[k], s.Count(k), "kind %s", k)
	}
	fb, err := s.Get(entity.KindFeedback, g.feedback)
	require.NoError(t, err)
	require.NotNil(t, fb.(*entity.Feedback).DoctorID)
	assert.Equal(t, g.doctor, *fb.(*entity.Feedback).DoctorID)
}

func TestDelete_ReadersNeverSeePartialCascade(t *testing.T) {
	s := newStore()
	g := buildGraph(t, s)

	snap := s.Snapshot()
	_, err := s.Delete(context.Background(), entity.KindPatient, g.patient)
	require.NoError(t, err)

	assert.Equal(t, 1, snap.Count(entity.KindPatient))
	assert.Equal(t, 1, snap.Count(entity.KindAppointment))
	assert.Equal(t, 2, snap.Count(entity.KindFeedback))
}
