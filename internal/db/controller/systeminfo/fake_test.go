package systeminfo

import (
	"context"

	"github.com/GoPowerDNS-Admin/systeminfo/internal/db/models"
)

// fakeSession records the calls made by the store. findErrs are returned by
// consecutive FindByKey calls before the stored entries are consulted.
type fakeSession struct {
	entries   map[string]*models.SystemInfo
	findErrs  []error
	commitErr error
	calls     []string
	nextID    uint64
}

func newFakeSession(entries ...*models.SystemInfo) *fakeSession {
	f := &fakeSession{entries: map[string]*models.SystemInfo{}}
	for _, e := range entries {
		f.nextID++
		e.ID = f.nextID
		f.entries[e.Key] = e
	}

	return f
}

func (f *fakeSession) FindByKey(_ context.Context, key string) (*models.SystemInfo, error) {
	f.calls = append(f.calls, "find")

	if len(f.findErrs) > 0 {
		err := f.findErrs[0]
		f.findErrs = f.findErrs[1:]

		if err != nil {
			return nil, err
		}
	}

	entry, ok := f.entries[key]
	if !ok {
		return nil, nil //nolint:nilnil
	}

	out := *entry

	return &out, nil
}

func (f *fakeSession) FindAll(_ context.Context) ([]models.SystemInfo, error) {
	f.calls = append(f.calls, "find_all")

	out := make([]models.SystemInfo, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, *e)
	}

	return out, nil
}

func (f *fakeSession) Insert(_ context.Context, entry *models.SystemInfo) error {
	f.calls = append(f.calls, "insert")
	f.nextID++
	entry.ID = f.nextID
	f.entries[entry.Key] = entry

	return nil
}

func (f *fakeSession) Update(_ context.Context, entry *models.SystemInfo) error {
	f.calls = append(f.calls, "update")
	f.entries[entry.Key] = entry

	return nil
}

func (f *fakeSession) Remove(_ context.Context, entry *models.SystemInfo) error {
	f.calls = append(f.calls, "remove")
	delete(f.entries, entry.Key)

	return nil
}

func (f *fakeSession) Commit() error {
	f.calls = append(f.calls, "commit")

	return f.commitErr
}

func (f *fakeSession) Rollback() error {
	f.calls = append(f.calls, "rollback")

	return nil
}
