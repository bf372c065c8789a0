package service

import (
	"context"
	"fmt"

	"github.com/pangea-chat/roomcode-server/internal/host"
	"github.com/pangea-chat/roomcode-server/pkg/logger"
)

// KnockService is an interface that defines the knock-with-code pipeline:
// resolve a submitted code and invite the knocking user into each room it unlocks.
type KnockService interface {
	// KnockWithCode resolves the submitted code and invites the user into each
	// resolved room. It returns the rooms the user was invited into.
	KnockWithCode(ctx context.Context, userID, submittedCode string) ([]string, error)
}

// KnockServiceImpl implements the KnockService interface.
type KnockServiceImpl struct {
	accessCodeService AccessCodeService
	membership        host.Membership
}

// NewKnockService creates a new KnockServiceImpl instance with the provided
// access code service and host membership capability.
func NewKnockService(accessCodeService AccessCodeService, membership host.Membership) *KnockServiceImpl {
	return &KnockServiceImpl{
		accessCodeService: accessCodeService,
		membership:        membership,
	}
}

// KnockWithCode resolves the submitted code and invites the user into each
// resolved room. Users already joined to a room are skipped; a failed invite
// into one room does not prevent invites into the others.
func (s *KnockServiceImpl) KnockWithCode(ctx context.Context, userID, submittedCode string) ([]string, error) {
	roomIDs, err := s.accessCodeService.Resolve(ctx, submittedCode)
	if err != nil {
		return nil, err
	}

	invited := []string{}
	for _, roomID := range roomIDs {
		member, err := s.membership.IsMember(ctx, roomID, userID)
		if err != nil {
			// Membership state is an optimization; attempt the invite anyway.
			logger.Warn(fmt.Sprintf("Failed to check membership of user %s in room %s: %s", userID, roomID, err))
		} else if member {
			continue
		}

		if err := s.membership.InviteUser(ctx, roomID, userID); err != nil {
			logger.Error(fmt.Sprintf("Failed to invite user %s to room %s: %s", userID, roomID, err))
			continue
		}

		invited = append(invited, roomID)
	}

	return invited, nil
}
