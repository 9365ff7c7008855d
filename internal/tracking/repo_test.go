package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/zapshift/parcel-backend/pkg/db/models"
	"github.com/zapshift/parcel-backend/pkg/enums"
)

func setupTrackingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS tracking_events (
  id TEXT PRIMARY KEY,
  parcel_id TEXT NOT NULL,
  event_type TEXT NOT NULL,
  message TEXT NOT NULL,
  actor_email TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func TestRepositoryListForParcelOldestFirst(t *testing.T) {
	db := setupTrackingTestDB(t)
	repo := NewRepository(db)
	parcelID := uuid.New()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	types := []enums.TrackingEventType{
		enums.TrackingEventParcelCreated,
		enums.TrackingEventPaymentRecorded,
		enums.TrackingEventRiderAssigned,
	}
	// Insert newest first to prove ordering comes from the query.
	for i := len(types) - 1; i >= 0; i-- {
		require.NoError(t, repo.Append(context.Background(), &models.TrackingEvent{
			ID:         uuid.New(),
			ParcelID:   parcelID,
			EventType:  types[i],
			Message:    "step",
			ActorEmail: "a@x.com",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}
	// Noise for another parcel.
	require.NoError(t, repo.Append(context.Background(), &models.TrackingEvent{
		ID:         uuid.New(),
		ParcelID:   uuid.New(),
		EventType:  enums.TrackingEventParcelCreated,
		Message:    "other",
		ActorEmail: "b@x.com",
		CreatedAt:  base,
	}))

	rows, err := repo.ListForParcel(context.Background(), parcelID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i, want := range types {
		assert.Equal(t, want, rows[i].EventType)
	}
}
