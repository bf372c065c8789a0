package host

import "context"

// MockMembership is a mock implementation of the Membership interface for testing.
type MockMembership struct {
	InviteUserFn func(ctx context.Context, roomID, userID string) error
	IsMemberFn   func(ctx context.Context, roomID, userID string) (bool, error)
}

// NewMockMembership creates a new instance of MockMembership.
func NewMockMembership() *MockMembership {
	return &MockMembership{}
}

// InviteUser is a mock implementation of InviteUser method.
func (m *MockMembership) InviteUser(ctx context.Context, roomID, userID string) error {
	if m.InviteUserFn != nil {
		return m.InviteUserFn(ctx, roomID, userID)
	}
	return nil
}

// IsMember is a mock implementation of IsMember method.
func (m *MockMembership) IsMember(ctx context.Context, roomID, userID string) (bool, error) {
	if m.IsMemberFn != nil {
		return m.IsMemberFn(ctx, roomID, userID)
	}
	return false, nil
}
