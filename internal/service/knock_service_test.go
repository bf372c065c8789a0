package service

import (
	"context"
	"errors"
	"testing"

	"github.com/pangea-chat/roomcode-server/internal/host"
	"github.com/pangea-chat/roomcode-server/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "@alice:example.org"

func multiRoomRepository(code string, roomIDs ...string) *fakeCodeRepository {
	return &fakeCodeRepository{
		GetByCodeFn: func(ctx context.Context, c string) ([]*model.CodeMapping, error) {
			if c != code {
				return []*model.CodeMapping{}, nil
			}
			mappings := make([]*model.CodeMapping, 0, len(roomIDs))
			for _, roomID := range roomIDs {
				mappings = append(mappings, &model.CodeMapping{Code: c, RoomID: roomID})
			}
			return mappings, nil
		},
	}
}

func TestKnockWithCode(t *testing.T) {
	repo := multiRoomRepository("aBc1234", "!one:example.org", "!two:example.org")

	var invites []string
	membership := host.NewMockMembership()
	membership.InviteUserFn = func(ctx context.Context, roomID, userID string) error {
		require.Equal(t, testUserID, userID)
		invites = append(invites, roomID)
		return nil
	}

	service := NewKnockService(NewAccessCodeService(repo), membership)

	rooms, err := service.KnockWithCode(context.Background(), testUserID, "aBc1234")
	require.NoError(t, err)
	assert.Equal(t, []string{"!one:example.org", "!two:example.org"}, rooms)
	assert.Equal(t, rooms, invites)
}

func TestKnockWithCodeSkipsJoinedRooms(t *testing.T) {
	repo := multiRoomRepository("aBc1234", "!one:example.org", "!two:example.org")

	membership := host.NewMockMembership()
	membership.IsMemberFn = func(ctx context.Context, roomID, userID string) (bool, error) {
		return roomID == "!one:example.org", nil
	}

	service := NewKnockService(NewAccessCodeService(repo), membership)

	rooms, err := service.KnockWithCode(context.Background(), testUserID, "aBc1234")
	require.NoError(t, err)
	assert.Equal(t, []string{"!two:example.org"}, rooms)
}

func TestKnockWithCodePartialInviteFailure(t *testing.T) {
	repo := multiRoomRepository("aBc1234", "!one:example.org", "!two:example.org")

	membership := host.NewMockMembership()
	membership.InviteUserFn = func(ctx context.Context, roomID, userID string) error {
		if roomID == "!one:example.org" {
			return errors.New("homeserver invite API returned 403 Forbidden")
		}
		return nil
	}

	service := NewKnockService(NewAccessCodeService(repo), membership)

	rooms, err := service.KnockWithCode(context.Background(), testUserID, "aBc1234")
	require.NoError(t, err)
	assert.Equal(t, []string{"!two:example.org"}, rooms)
}

func TestKnockWithCodeMembershipCheckFailure(t *testing.T) {
	repo := multiRoomRepository("aBc1234", "!one:example.org")

	membership := host.NewMockMembership()
	membership.IsMemberFn = func(ctx context.Context, roomID, userID string) (bool, error) {
		return false, errors.New("homeserver state API returned 502 Bad Gateway")
	}

	service := NewKnockService(NewAccessCodeService(repo), membership)

	// The membership check is best-effort; the invite must still be attempted.
	rooms, err := service.KnockWithCode(context.Background(), testUserID, "aBc1234")
	require.NoError(t, err)
	assert.Equal(t, []string{"!one:example.org"}, rooms)
}

func TestKnockWithCodeInvalidFormat(t *testing.T) {
	service := NewKnockService(NewAccessCodeService(&fakeCodeRepository{}), host.NewMockMembership())

	_, err := service.KnockWithCode(context.Background(), testUserID, "abc")
	require.ErrorIs(t, err, ErrInvalidCodeFormat)
}

func TestKnockWithCodeUnknownCode(t *testing.T) {
	service := NewKnockService(NewAccessCodeService(&fakeCodeRepository{}), host.NewMockMembership())

	_, err := service.KnockWithCode(context.Background(), testUserID, "zz9zzzz")
	require.ErrorIs(t, err, ErrCodeNotFound)
}
