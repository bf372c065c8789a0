package repository

import (
	"context"
	"sync"
	"time"

	"github.com/pangea-chat/roomcode-server/internal/model"
)

// MockCodeRepository is an in-memory implementation of CodeRepository for testing purposes.
// Its CreateIfAbsent holds a single mutex around the existence check and the write,
// giving it the same atomicity guarantee as the PostgreSQL implementation.
type MockCodeRepository struct {
	mu       sync.Mutex
	Mappings map[string]*model.CodeMapping // Map of mappings keyed by code
}

// NewMockCodeRepository creates a new instance of MockCodeRepository.
func NewMockCodeRepository() *MockCodeRepository {
	return &MockCodeRepository{
		Mappings: make(map[string]*model.CodeMapping),
	}
}

// GetByCode is a mock implementation of GetByCode method.
func (m *MockCodeRepository) GetByCode(ctx context.Context, code string) ([]*model.CodeMapping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mapping, ok := m.Mappings[code]
	if !ok {
		return []*model.CodeMapping{}, nil
	}
	return []*model.CodeMapping{mapping}, nil
}

// CreateIfAbsent is a mock implementation of CreateIfAbsent method.
func (m *MockCodeRepository) CreateIfAbsent(ctx context.Context, code, roomID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Mappings[code]; ok {
		return false, nil
	}

	m.Mappings[code] = &model.CodeMapping{
		Code:      code,
		RoomID:    roomID,
		CreatedAt: time.Now().UTC(),
	}
	return true, nil
}

// GetByRoom is a mock implementation of GetByRoom method.
func (m *MockCodeRepository) GetByRoom(ctx context.Context, roomID string) ([]*model.CodeMapping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mappings := []*model.CodeMapping{}
	for _, mapping := range m.Mappings {
		if mapping.RoomID == roomID {
			mappings = append(mappings, mapping)
		}
	}
	return mappings, nil
}

// DeleteByRoomExcept is a mock implementation of DeleteByRoomExcept method.
func (m *MockCodeRepository) DeleteByRoomExcept(ctx context.Context, roomID, keepCode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for code, mapping := range m.Mappings {
		if mapping.RoomID == roomID && code != keepCode {
			delete(m.Mappings, code)
		}
	}
	return nil
}
