package usecase

import (
	"context"
	"errors"
	"sort"

	"stock_screener/internal/domain/entity"
)

// mockDownloader はテスト用の Downloader モックです。
type mockDownloader struct {
	fetchFn func(ctx context.Context, url string) ([]byte, error)
	calls   []string
}

func (m *mockDownloader) Fetch(ctx context.Context, url string) ([]byte, error) {
	m.calls = append(m.calls, url)
	if m.fetchFn != nil {
		return m.fetchFn(ctx, url)
	}
	return nil, nil
}

// mockQuery returns the document itself as the extracted text unless findFn is set.
type mockQuery struct {
	findFn func(document []byte, path string) (string, bool, error)
}

func (m *mockQuery) FindText(document []byte, path string) (string, bool, error) {
	if m.findFn != nil {
		return m.findFn(document, path)
	}
	return string(document), true, nil
}

// memoryValues is an in-memory ValueRepository and HistoryRepository.
type memoryValues struct {
	nextID  uint
	values  map[[2]uint]*entity.AttributeValue
	history map[uint][]entity.ValueHistory
	saveErr error
	saves   int
}

func newMemoryValues() *memoryValues {
	return &memoryValues{
		values:  map[[2]uint]*entity.AttributeValue{},
		history: map[uint][]entity.ValueHistory{},
	}
}

func (m *memoryValues) FindValue(_ context.Context, attributeID, companyID uint) (*entity.AttributeValue, error) {
	v, ok := m.values[[2]uint{attributeID, companyID}]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (m *memoryValues) LatestHistory(_ context.Context, attributeValueID uint) (*entity.ValueHistory, error) {
	hs := m.sortedHistory(attributeValueID)
	if len(hs) == 0 {
		return nil, nil
	}
	return &hs[0], nil
}

func (m *memoryValues) Save(_ context.Context, value *entity.AttributeValue, history *entity.ValueHistory) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	if value.ID == 0 {
		m.nextID++
		value.ID = m.nextID
	}
	cp := *value
	m.values[[2]uint{value.AttributeID, value.CompanyID}] = &cp
	if history != nil {
		h := *history
		h.AttributeValueID = value.ID
		h.ID = uint(len(m.history[value.ID]) + 1)
		m.history[value.ID] = append(m.history[value.ID], h)
	}
	return nil
}

func (m *memoryValues) ListHistory(_ context.Context, attributeValueID uint) ([]entity.ValueHistory, error) {
	return m.sortedHistory(attributeValueID), nil
}

func (m *memoryValues) sortedHistory(id uint) []entity.ValueHistory {
	hs := append([]entity.ValueHistory(nil), m.history[id]...)
	sort.SliceStable(hs, func(i, j int) bool {
		if hs[i].HistoricalDate.Equal(hs[j].HistoricalDate) {
			return hs[i].ID > hs[j].ID
		}
		return hs[i].HistoricalDate.After(hs[j].HistoricalDate)
	})
	return hs
}

func (m *memoryValues) historyCount() int {
	n := 0
	for _, hs := range m.history {
		n += len(hs)
	}
	return n
}

// mockCatalog はテスト用の CatalogRepository モックです。
type mockCatalog struct {
	attributes []entity.Attribute
	companies  []entity.Company
	listErr    error
}

func (m *mockCatalog) ListAttributes(context.Context) ([]entity.Attribute, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.attributes, nil
}

func (m *mockCatalog) ListCompanies(_ context.Context, limit int) ([]entity.Company, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if limit > 0 && limit < len(m.companies) {
		return m.companies[:limit], nil
	}
	return m.companies, nil
}

func (m *mockCatalog) FindCompaniesBySymbol(_ context.Context, symbol string) ([]entity.Company, error) {
	var out []entity.Company
	for _, c := range m.companies {
		if c.Symbol == symbol {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCatalog) FindAttribute(_ context.Context, id uint) (*entity.Attribute, error) {
	for _, a := range m.attributes {
		if a.ID == id {
			cp := a
			return &cp, nil
		}
	}
	return nil, nil
}

// countingLimiter counts WaitIfNeeded calls.
type countingLimiter struct{ waits int }

func (l *countingLimiter) WaitIfNeeded() { l.waits++ }

var errBoom = errors.New("boom")
