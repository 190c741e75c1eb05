package notify

import (
	"testing"

	"unitask-api/internal/models"
	"unitask-api/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestNotify_PersistsWithoutEmailTransport(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	user := models.User{ID: "u-1", Name: "Alice", Email: "alice@example.com", Password: "x", EmailNotificationsEnabled: true}
	require.NoError(t, db.Create(&user).Error)

	SetEmailService(nil)
	Notify(db, user.ID, "Task assigned", "")

	notifications, err := ListForUser(db, user.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, "Task assigned", notifications[0].Message)
	require.Equal(t, "info", notifications[0].Type)
	require.False(t, notifications[0].IsRead)
}

func TestMarkRead_OwnershipEnforced(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	owner := models.User{ID: "u-1", Name: "Alice", Email: "alice@example.com", Password: "x"}
	other := models.User{ID: "u-2", Name: "Bob", Email: "bob@example.com", Password: "x"}
	require.NoError(t, db.Create(&owner).Error)
	require.NoError(t, db.Create(&other).Error)

	SetEmailService(nil)
	Notify(db, owner.ID, "hello", "info")

	notifications, err := ListForUser(db, owner.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	id := notifications[0].ID

	// Someone else's notification reads as not found
	require.ErrorIs(t, MarkRead(db, id, other.ID), ErrNotificationNotFound)

	require.NoError(t, MarkRead(db, id, owner.ID))
	notifications, err = ListForUser(db, owner.ID)
	require.NoError(t, err)
	require.True(t, notifications[0].IsRead)

	// Marking again stays read
	require.NoError(t, MarkRead(db, id, owner.ID))
}
