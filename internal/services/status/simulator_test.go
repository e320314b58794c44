package status

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lesotho-epassport/backend/internal/models"
	"github.com/lesotho-epassport/backend/internal/records"
)

// simulatedStore reproduces the original prototype's mock status backend:
// the status is not read from stored data but recomputed from the current
// wall clock, cycling through four stages once per second. It exists only
// as a fixture here; the real service always reads persisted status.
type simulatedStore struct {
	*records.MemoryStore
	now func() time.Time
}

var simulatedCycle = []models.ApplicationStatus{
	"RECEIVED",
	"IN_REVIEW",
	"APPROVED",
	"ISSUED",
}

func (s *simulatedStore) GetApplicationByReference(ctx context.Context, ref string) (*models.Application, error) {
	app, err := s.MemoryStore.GetApplicationByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	app.Status = simulatedCycle[s.now().Unix()%int64(len(simulatedCycle))]
	return app, nil
}

func TestSimulatedStatusCyclesWithClock(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	store := &simulatedStore{
		MemoryStore: records.NewMemoryStore(),
		now:         func() time.Time { return clock },
	}
	seedApplication(t, store.MemoryStore, "LS-SIM22222", models.StatusProcessing)
	svc := NewService(store, store.MemoryStore, false)

	// The same reference reports a different stage as time passes: the
	// simulation derives status from elapsed time, not stored state.
	var seen []models.ApplicationStatus
	for i := 0; i < 4; i++ {
		clock = base.Add(time.Duration(i) * time.Second)
		view, err := svc.Lookup(context.Background(), "LS-SIM22222")
		require.NoError(t, err)
		seen = append(seen, view.Status)
	}
	assert.ElementsMatch(t, simulatedCycle, seen)

	// And one full cycle later it repeats
	clock = base.Add(4 * time.Second)
	view, err := svc.Lookup(context.Background(), "LS-SIM22222")
	require.NoError(t, err)
	assert.Equal(t, seen[0], view.Status)

	// Simulated stages are outside the real vocabulary, so the message
	// mapping falls back to the generic one rather than failing.
	assert.Equal(t, models.StatusProcessing.Message(), view.Message)
}
