// Package chartstore persists whole chart documents so that charts can be
// shared between machines.
package chartstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ha1tch/bubblechart/pkg/chartfile"
)

var ErrChartNotFound = errors.New("chartstore: chart not found")

// Summary describes a stored chart without loading it.
type Summary struct {
	ID        uuid.UUID
	Name      string
	Nodes     int
	Arcs      int
	UpdatedAt time.Time
}

// Store defines the contract for persisting and retrieving charts.
type Store interface {
	// Schema
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error

	// Put inserts doc or replaces the chart with the same ID.
	Put(ctx context.Context, doc *chartfile.Document) error
	// Get returns ErrChartNotFound for an unknown ID.
	Get(ctx context.Context, id uuid.UUID) (*chartfile.Document, error)
	// Delete returns ErrChartNotFound for an unknown ID.
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns all charts, most recently updated first.
	List(ctx context.Context) ([]Summary, error)
}

// Memory is an in-process Store. It keeps charts as encoded JSON so that
// callers never share storage with it.
type Memory struct {
	mu     sync.Mutex
	charts map[uuid.UUID]memChart
	now    func() time.Time
}

type memChart struct {
	summary Summary
	data    []byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{charts: make(map[uuid.UUID]memChart), now: time.Now}
}

func (m *Memory) CreateSchema(context.Context) error { return nil }

func (m *Memory) DropSchema(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.charts = make(map[uuid.UUID]memChart)
	return nil
}

func (m *Memory) Put(_ context.Context, doc *chartfile.Document) error {
	data, err := chartfile.ToJSON(doc, false)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.charts[doc.ID] = memChart{
		summary: summarize(doc, m.now()),
		data:    data,
	}
	return nil
}

func (m *Memory) Get(_ context.Context, id uuid.UUID) (*chartfile.Document, error) {
	m.mu.Lock()
	c, ok := m.charts[id]
	m.mu.Unlock()
	if !ok {
		return nil, ErrChartNotFound
	}
	return chartfile.ParseJSON(c.data)
}

func (m *Memory) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.charts[id]; !ok {
		return ErrChartNotFound
	}
	delete(m.charts, id)
	return nil
}

func (m *Memory) List(context.Context) ([]Summary, error) {
	m.mu.Lock()
	out := make([]Summary, 0, len(m.charts))
	for _, c := range m.charts {
		out = append(out, c.summary)
	}
	m.mu.Unlock()
	SortSummaries(out)
	return out, nil
}

// SortSummaries orders summaries most recently updated first, then by name.
func SortSummaries(s []Summary) {
	sort.Slice(s, func(i, j int) bool {
		if !s[i].UpdatedAt.Equal(s[j].UpdatedAt) {
			return s[i].UpdatedAt.After(s[j].UpdatedAt)
		}
		return s[i].Name < s[j].Name
	})
}

func summarize(doc *chartfile.Document, at time.Time) Summary {
	return Summary{
		ID:        doc.ID,
		Name:      doc.Name,
		Nodes:     len(doc.Nodes),
		Arcs:      len(doc.Arcs),
		UpdatedAt: at,
	}
}
