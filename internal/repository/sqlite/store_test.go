package sqlite

import (
	"context"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/codec"
	"task-manager/internal/domain"
)

func TestStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	store, err := NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	once, err := domain.NewOneShotTask(`Say "hi"`, time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	daily, err := domain.NewRecurringTask("Daily",
		time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC), 86400)
	require.NoError(t, err)
	daily.SetActive(true)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, slices.Values([]*domain.Task{once, daily})))

	var got []*domain.Task
	require.NoError(t, store.Load(ctx, codec.SinkFunc(func(task *domain.Task) error {
		got = append(got, task)
		return nil
	})))

	require.Len(t, got, 2)
	assert.True(t, once.Equal(got[0]))
	assert.True(t, daily.Equal(got[1]))
	assert.Equal(t, path, store.Location())
}
