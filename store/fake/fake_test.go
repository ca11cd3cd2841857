package fake

import (
	"testing"
	"time"

	"github.com/imagespy/freshness/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckStore(t *testing.T) {
	s := NewStore()
	defer s.Close()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	checks := []*store.Check{
		{CheckedAt: base, ContainerName: "sonarr", ImageRef: "lscr.io/linuxserver/sonarr:latest", Repository: "lscr.io/linuxserver/sonarr"},
		{CheckedAt: base.Add(time.Hour), ContainerName: "sonarr", ImageRef: "lscr.io/linuxserver/sonarr:latest", Repository: "lscr.io/linuxserver/sonarr", UpdateAvailable: true},
		{CheckedAt: base, ContainerName: "db", ImageRef: "postgres:15-alpine", Repository: "registry-1.docker.io/library/postgres"},
	}
	for _, c := range checks {
		require.NoError(t, s.Checks().Create(c))
	}

	assert.Equal(t, 1, checks[0].ID)
	assert.Equal(t, 3, checks[2].ID)

	c, err := s.Checks().Get(store.CheckGetOptions{ContainerName: "sonarr"})
	require.NoError(t, err)
	assert.Equal(t, 2, c.ID)

	c, err = s.Checks().Get(store.CheckGetOptions{ID: 3})
	require.NoError(t, err)
	assert.Equal(t, "db", c.ContainerName)

	_, err = s.Checks().Get(store.CheckGetOptions{ContainerName: "unknown"})
	assert.Equal(t, store.ErrDoesNotExist, err)

	list, err := s.Checks().List(store.CheckListOptions{Repository: "lscr.io/linuxserver/sonarr"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 2, list[0].ID)
	assert.Equal(t, 1, list[1].ID)

	b := true
	list, err = s.Checks().List(store.CheckListOptions{UpdateAvailable: &b})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].ID)

	list, err = s.Checks().List(store.CheckListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
