package gigs

import (
	"context"
	"errors"
	"sync"
)

// memoryStore is an in-memory sheets.Repository.
type memoryStore struct {
	mu       sync.Mutex
	rows     [][]interface{}
	ranges   []string
	reads    int
	writeErr error
	readErr  error
}

func (m *memoryStore) WriteRow(_ context.Context, sheetRange string, values []interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.ranges = append(m.ranges, sheetRange)
	m.rows = append(m.rows, values)
	return nil
}

func (m *memoryStore) ReadRange(_ context.Context, sheetRange string) ([][]interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	m.ranges = append(m.ranges, sheetRange)
	if m.readErr != nil {
		return nil, m.readErr
	}
	out := make([][]interface{}, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

var errStoreDown = errors.New("store down")
