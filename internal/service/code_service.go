package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pangea-chat/roomcode-server/internal/repository"
	"github.com/pangea-chat/roomcode-server/pkg/code"
	"github.com/pangea-chat/roomcode-server/pkg/logger"
)

// maxAllocateAttempts bounds the collision retry loop so allocation has a
// deterministic worst-case cost.
const maxAllocateAttempts = 100

var (
	// ErrInvalidCodeFormat is returned when a submitted code does not satisfy the format predicate.
	// It is raised before any storage access.
	ErrInvalidCodeFormat = errors.New("invalid access code format")
	// ErrCodeNotFound is returned when a well-formed code does not map to any room.
	ErrCodeNotFound = errors.New("access code not found")
	// ErrCodeSpaceExhausted is returned when no free code could be found within the attempt budget.
	ErrCodeSpaceExhausted = errors.New("access code space exhausted")
	// ErrStorageUnavailable is returned when the storage collaborator fails.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// AccessCodeService is an interface that defines the methods required for
// access code issuance and resolution.
type AccessCodeService interface {
	// Allocate issues a fresh access code and binds it to the given room.
	// A room holds at most one active code: any code the room held before is
	// invalidated once the new one is committed.
	Allocate(ctx context.Context, roomID string) (string, error)

	// Resolve returns the IDs of the rooms the submitted code currently
	// unlocks, in stable order. The input is untrusted and is validated
	// against the code format predicate before storage is consulted.
	Resolve(ctx context.Context, submittedCode string) ([]string, error)
}

// AccessCodeServiceImpl implements the AccessCodeService interface.
type AccessCodeServiceImpl struct {
	codeRepository repository.CodeRepository
}

// NewAccessCodeService creates a new AccessCodeServiceImpl instance with the provided repository.
func NewAccessCodeService(codeRepository repository.CodeRepository) *AccessCodeServiceImpl {
	return &AccessCodeServiceImpl{
		codeRepository: codeRepository,
	}
}

// Allocate issues a fresh access code for the room. Each attempt draws a new
// candidate and tries an atomic create-if-absent; a candidate lost to a
// concurrent allocator counts as a collision and is retried with a fresh draw.
// Exactly one mapping is written on success.
func (s *AccessCodeServiceImpl) Allocate(ctx context.Context, roomID string) (string, error) {
	for attempt := 0; attempt < maxAllocateAttempts; attempt++ {
		candidate, err := code.Generate()
		if err != nil {
			// A random source that cannot produce a digit within the
			// generator's budget is the same operational condition as a
			// saturated code space.
			return "", fmt.Errorf("%w: %s", ErrCodeSpaceExhausted, err)
		}

		existing, err := s.codeRepository.GetByCode(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrStorageUnavailable, err)
		}
		if len(existing) > 0 {
			continue
		}

		written, err := s.codeRepository.CreateIfAbsent(ctx, candidate, roomID)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrStorageUnavailable, err)
		}
		if !written {
			// Race lost to a concurrent allocator.
			continue
		}

		// Reissue policy: the new code replaces whatever code the room held
		// before. The new mapping is already committed, so a failed cleanup
		// leaves the room temporarily reachable by its old code as well.
		if err := s.codeRepository.DeleteByRoomExcept(ctx, roomID, candidate); err != nil {
			logger.Warn(fmt.Sprintf("Failed to invalidate previous codes of room %s: %s", roomID, err))
		}

		return candidate, nil
	}

	return "", ErrCodeSpaceExhausted
}

// Resolve validates the submitted code and looks up the rooms it unlocks.
func (s *AccessCodeServiceImpl) Resolve(ctx context.Context, submittedCode string) ([]string, error) {
	if !code.Valid(submittedCode) {
		return nil, ErrInvalidCodeFormat
	}

	mappings, err := s.codeRepository.GetByCode(ctx, submittedCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrStorageUnavailable, err)
	}
	if len(mappings) == 0 {
		return nil, ErrCodeNotFound
	}

	roomIDs := make([]string, 0, len(mappings))
	for _, mapping := range mappings {
		roomIDs = append(roomIDs, mapping.RoomID)
	}

	return roomIDs, nil
}
