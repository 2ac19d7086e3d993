package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
	"github.com/brianjleepub/diablo4-item-comparer/internal/service"
)

// mockStorage is an in-memory service.Storage for engine tests.
type mockStorage struct {
	mu          sync.Mutex
	affixes     []model.ReferenceAffix
	aspects     []model.ReferenceAspect
	itemTypes   []model.ItemType
	classes     []model.Class
	builds      map[int]*model.BuildWeightProfile
	items       map[string]*model.StructuredItem
	comparisons []model.ComparisonResult
	saveItemErr error
	nextBuildID int
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		builds:      make(map[int]*model.BuildWeightProfile),
		items:       make(map[string]*model.StructuredItem),
		nextBuildID: 1,
	}
}

func (m *mockStorage) SaveItemTypes(_ context.Context, types []model.ItemType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.itemTypes = types
	return nil
}

func (m *mockStorage) GetItemTypes(_ context.Context) ([]model.ItemType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.itemTypes, nil
}

func (m *mockStorage) SaveClasses(_ context.Context, classes []model.Class) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classes = classes
	return nil
}

func (m *mockStorage) GetClasses(_ context.Context) ([]model.Class, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.classes, nil
}

func (m *mockStorage) SaveAffixes(_ context.Context, affixes []model.ReferenceAffix) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.affixes = affixes
	return nil
}

func (m *mockStorage) GetAffixes(_ context.Context) ([]model.ReferenceAffix, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.affixes, nil
}

func (m *mockStorage) SaveAspects(_ context.Context, aspects []model.ReferenceAspect) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aspects = aspects
	return nil
}

func (m *mockStorage) GetAspects(_ context.Context) ([]model.ReferenceAspect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.aspects, nil
}

func (m *mockStorage) CreateBuild(_ context.Context, name, description string, classID int) (*model.BuildWeightProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &model.BuildWeightProfile{
		BuildID:     m.nextBuildID,
		Name:        name,
		Description: description,
		ClassID:     classID,
		Weights:     make(map[int]model.AffixWeight),
	}
	m.builds[p.BuildID] = p
	m.nextBuildID++
	return p, nil
}

func (m *mockStorage) GetBuilds(_ context.Context) ([]model.BuildWeightProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.BuildWeightProfile, 0, len(m.builds))
	for _, p := range m.builds {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockStorage) GetBuildProfile(_ context.Context, buildID int) (*model.BuildWeightProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.builds[buildID]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (m *mockStorage) SetBuildWeights(_ context.Context, buildID int, weights []model.AffixWeight) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.builds[buildID]
	if !ok {
		return fmt.Errorf("build %d does not exist", buildID)
	}
	p.Weights = make(map[int]model.AffixWeight, len(weights))
	for _, w := range weights {
		p.Weights[w.AffixID] = w
	}
	return nil
}

func (m *mockStorage) SaveItem(_ context.Context, item *model.StructuredItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveItemErr != nil {
		return m.saveItemErr
	}
	m.items[item.Hash] = item
	return nil
}

func (m *mockStorage) GetItemByHash(_ context.Context, hash string) (*model.StructuredItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[hash], nil
}

func (m *mockStorage) GetItems(_ context.Context, _ service.ItemFilter) ([]model.StructuredItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.StructuredItem, 0, len(m.items))
	for _, i := range m.items {
		out = append(out, *i)
	}
	return out, nil
}

func (m *mockStorage) SaveComparison(_ context.Context, result *model.ComparisonResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.comparisons = append(m.comparisons, *result)
	return nil
}

func (m *mockStorage) GetComparisonsByBuild(_ context.Context, buildID int) ([]model.ComparisonResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ComparisonResult
	for _, c := range m.comparisons {
		if c.BuildID == buildID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockStorage) Migrate(_ context.Context) error { return nil }
func (m *mockStorage) Close() error                    { return nil }

// mockProvider returns canned OCR extractions keyed by source and counts
// calls.
type mockProvider struct {
	mu    sync.Mutex
	dumps map[string][]model.OcrLine
	err   error
	calls int
}

func newMockProvider() *mockProvider {
	return &mockProvider{dumps: make(map[string][]model.OcrLine)}
}

func (p *mockProvider) ExtractLines(_ context.Context, source string) ([]model.OcrLine, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	lines, ok := p.dumps[source]
	if !ok {
		return nil, fmt.Errorf("no dump for %s", source)
	}
	return lines, nil
}
