package redis

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/nfvri/star-ris-simulator/pkg/simulation"
	"github.com/onosproject/onos-lib-go/pkg/errors"
)

// MockedRedisStore keeps serialized results in memory
type MockedRedisStore struct {
	mu      sync.Mutex
	results map[string][]byte
}

func (m *MockedRedisStore) AddResults(ctx context.Context, runID string, results *simulation.Results) error {
	b, err := json.Marshal(results)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.results == nil {
		m.results = make(map[string][]byte)
	}
	m.results[resultsKey(runID)] = b
	return nil
}

func (m *MockedRedisStore) GetResults(ctx context.Context, runID string) (*simulation.Results, error) {
	m.mu.Lock()
	b, ok := m.results[resultsKey(runID)]
	m.mu.Unlock()
	if !ok {
		return nil, errors.New(errors.NotFound, "results for run id %s do not exist", runID)
	}
	results := &simulation.Results{}
	if err := json.Unmarshal(b, results); err != nil {
		return nil, err
	}
	return results, nil
}

func (m *MockedRedisStore) DeleteResults(ctx context.Context, runID string) (*simulation.Results, error) {
	results, err := m.GetResults(ctx, runID)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	delete(m.results, resultsKey(runID))
	m.mu.Unlock()
	return results, nil
}

func (m *MockedRedisStore) ListRuns(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	runs := make([]string, 0, len(m.results))
	for key := range m.results {
		runs = append(runs, RunIDFromKey(key))
	}
	sort.Strings(runs)
	return runs, nil
}
