// Package history keeps a record of every mashup produced on this machine.
package history

import (
	"slices"
	"time"

	"github.com/mashup-cli/mashup/filesystem"
	"github.com/mashup-cli/mashup/where"
	"github.com/metafates/gache"
)

// Record describes one finished run.
type Record struct {
	ID          string        `json:"id"`
	Singer      string        `json:"singer"`
	Clips       int           `json:"clips"`
	Seconds     int           `json:"seconds"`
	Duration    time.Duration `json:"duration"`
	Destination string        `json:"destination"`
	CreatedAt   time.Time     `json:"created_at"`
}

var cacher = gache.New[map[string]*Record](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns every stored record keyed by its ID.
func Get() (map[string]*Record, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Record), nil
	}
	return cached, nil
}

// List returns the stored records, newest first.
func List() ([]*Record, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(saved))
	for _, record := range saved {
		records = append(records, record)
	}

	slices.SortFunc(records, func(a, b *Record) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return records, nil
}

// Save stores record, replacing any previous record with the same ID.
func Save(record *Record) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	saved[record.ID] = record
	return cacher.Set(saved)
}

// Remove deletes the record with the given ID.
func Remove(id string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, id)
	return cacher.Set(saved)
}

// Clear forgets every record.
func Clear() error {
	return cacher.Set(make(map[string]*Record))
}
