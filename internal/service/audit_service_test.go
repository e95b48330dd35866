package service

import (
	"context"
	"testing"

	"go-healthcare-records/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_LogChangesWithoutDatabase(t *testing.T) {
	log, hook := test.NewNullLogger()
	svc := NewAuditService(nil, log, nil)
	actor := int64(1)

	svc.LogChanges(context.Background(), &actor, []entity.Change{
		{Op: entity.OpUpdate, Kind: entity.KindFeedback, ID: 4},
		{Op: entity.OpDelete, Kind: entity.KindDoctor, ID: 2},
	})

	require.Len(t, hook.Entries, 2)
	first := hook.Entries[0]
	assert.Equal(t, logrus.InfoLevel, first.Level)
	assert.Equal(t, "feedback.update", first.Data["action"])
	assert.Equal(t, "4", first.Data["entity_id"])
	assert.Equal(t, int64(1), first.Data["actor_id"])
	assert.Equal(t, "doctors.delete", hook.LastEntry().Data["action"])
}

func TestAuditService_LogAuth(t *testing.T) {
	log, hook := test.NewNullLogger()
	svc := NewAuditService(nil, log, nil)

	svc.LogAuth(context.Background(), 9, entity.AuditActionUserLogin)

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, entity.AuditActionUserLogin, hook.LastEntry().Data["action"])
	assert.Equal(t, "users", hook.LastEntry().Data["entity"])
	assert.Equal(t, int64(9), hook.LastEntry().Data["actor_id"])
}

func TestAuditValue_HidesPassword(t *testing.T) {
	v := auditValue(&entity.User{ID: 1, Username: "admin", Password: "$2a$hash", Role: entity.RoleAdmin})

	u, ok := v.(*entity.User)
	require.True(t, ok)
	assert.Empty(t, u.Password)
	assert.Nil(t, auditValue(nil))
}
