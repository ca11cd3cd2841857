package fake

import (
	"sort"
	"sync"

	"github.com/imagespy/freshness/store"
)

type fakeStore struct {
	cs *checkStore
}

func (fs *fakeStore) Checks() store.CheckStore {
	return fs.cs
}

func (fs *fakeStore) Close() error {
	return nil
}

func NewStore() store.Store {
	return &fakeStore{cs: &checkStore{}}
}

type checkStore struct {
	checks []*store.Check
	mu     sync.Mutex
	nextID int
}

func (cs *checkStore) Create(c *store.Check) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.nextID++
	c.ID = cs.nextID
	copy := *c
	cs.checks = append(cs.checks, &copy)
	return nil
}

func (cs *checkStore) Get(o store.CheckGetOptions) (*store.Check, error) {
	if o.ID != 0 {
		cs.mu.Lock()
		defer cs.mu.Unlock()
		for _, c := range cs.checks {
			if c.ID == o.ID {
				copy := *c
				return &copy, nil
			}
		}

		return nil, store.ErrDoesNotExist
	}

	result, _ := cs.List(store.CheckListOptions{ContainerName: o.ContainerName, ImageRef: o.ImageRef, Limit: 1})
	if len(result) == 0 {
		return nil, store.ErrDoesNotExist
	}

	return result[0], nil
}

func (cs *checkStore) List(o store.CheckListOptions) ([]*store.Check, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	result := []*store.Check{}
	for _, c := range cs.checks {
		if o.ContainerName != "" && c.ContainerName != o.ContainerName {
			continue
		}

		if o.ImageRef != "" && c.ImageRef != o.ImageRef {
			continue
		}

		if o.Repository != "" && c.Repository != o.Repository {
			continue
		}

		if o.UpdateAvailable != nil && c.UpdateAvailable != *o.UpdateAvailable {
			continue
		}

		copy := *c
		result = append(result, &copy)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CheckedAt.Equal(result[j].CheckedAt) {
			return result[i].ID > result[j].ID
		}

		return result[i].CheckedAt.After(result[j].CheckedAt)
	})

	if o.Limit > 0 && len(result) > o.Limit {
		result = result[:o.Limit]
	}

	return result, nil
}
