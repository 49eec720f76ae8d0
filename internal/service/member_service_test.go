package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthsidehq/hearthside-api/internal/domain"
	"github.com/hearthsidehq/hearthside-api/internal/store"
)

// fakeHasher marks hashes deterministically so tests can assert that
// only hashed passwords reach the store.
type fakeHasher struct {
	err error
}

func (f *fakeHasher) Hash(password string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "hashed:" + password, nil
}

type fakeVerifier struct{}

func (fakeVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword == "hashed:"+password {
		return nil
	}
	return errors.New("hash mismatch")
}

func newMemberServiceForTest(t *testing.T) (MemberService, *fakeMemberStore) {
	t.Helper()
	members := newFakeMemberStore()
	svc := NewMemberService(members, &fakeHasher{}, fakeVerifier{}, newFakeDB(t), nil)
	return svc, members
}

func TestMemberRegister(t *testing.T) {
	t.Parallel()

	t.Run("stores hash, never plaintext", func(t *testing.T) {
		t.Parallel()
		svc, members := newMemberServiceForTest(t)

		member, err := svc.Register(
			context.Background(),
			"Maria",
			"Maria@Example.com",
			"sunday-sauce",
			domain.RoleGrandparent,
		)
		require.NoError(t, err)

		assert.Equal(t, "maria@example.com", member.Email)
		assert.Equal(t, "hashed:sunday-sauce", member.HashedPassword)
		assert.Empty(t, member.Password)

		saved, err := members.GetByEmail(context.Background(), "maria@example.com")
		require.NoError(t, err)
		assert.Equal(t, member.ID, saved.ID)
	})

	t.Run("role defaults to kid", func(t *testing.T) {
		t.Parallel()
		svc, _ := newMemberServiceForTest(t)

		member, err := svc.Register(context.Background(), "Nico", "nico@example.com", "password123", "")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleKid, member.Role)
	})

	t.Run("duplicate email conflicts case-insensitively", func(t *testing.T) {
		t.Parallel()
		svc, _ := newMemberServiceForTest(t)

		_, err := svc.Register(context.Background(), "Maria", "maria@example.com", "password123", "")
		require.NoError(t, err)

		_, err = svc.Register(context.Background(), "Imposter", "MARIA@example.com", "password456", "")
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		t.Parallel()
		svc, _ := newMemberServiceForTest(t)

		_, err := svc.Register(context.Background(), "Nico", "nico@example.com", "short", "")
		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
	})

	t.Run("invalid email is rejected", func(t *testing.T) {
		t.Parallel()
		svc, _ := newMemberServiceForTest(t)

		_, err := svc.Register(context.Background(), "Nico", "not-an-email", "password123", "")
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	})
}

func TestMemberLogin(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (MemberService, *domain.Member) {
		svc, _ := newMemberServiceForTest(t)
		member, err := svc.Register(
			context.Background(),
			"Maria",
			"maria@example.com",
			"sunday-sauce",
			domain.RoleGrandparent,
		)
		require.NoError(t, err)
		return svc, member
	}

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()
		svc, member := setup(t)

		got, err := svc.Login(context.Background(), "maria@example.com", "sunday-sauce")
		require.NoError(t, err)
		assert.Equal(t, member.ID, got.ID)
	})

	t.Run("email match is case-insensitive", func(t *testing.T) {
		t.Parallel()
		svc, _ := setup(t)

		_, err := svc.Login(context.Background(), "MARIA@EXAMPLE.COM", "sunday-sauce")
		assert.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		svc, _ := setup(t)

		_, err := svc.Login(context.Background(), "maria@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email returns the same error as wrong password", func(t *testing.T) {
		t.Parallel()
		svc, _ := setup(t)

		_, err := svc.Login(context.Background(), "nobody@example.com", "sunday-sauce")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestMemberAddChild(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (MemberService, *domain.Member, *domain.Member) {
		svc, members := newMemberServiceForTest(t)
		parent := mustNewMember(t, "Maria", "maria@example.com", domain.RoleParent)
		child := mustNewMember(t, "Nico", "nico@example.com", domain.RoleKid)
		require.NoError(t, members.Create(context.Background(), parent))
		require.NoError(t, members.Create(context.Background(), child))
		return svc, parent, child
	}

	t.Run("links child by email", func(t *testing.T) {
		t.Parallel()
		svc, parent, child := setup(t)

		got, err := svc.AddChild(context.Background(), parent.ID, "nico@example.com")
		require.NoError(t, err)
		assert.Equal(t, child.ID, got.ID)
		assert.True(t, parent.HasChild(child.ID))
	})

	t.Run("linking twice conflicts", func(t *testing.T) {
		t.Parallel()
		svc, parent, _ := setup(t)

		_, err := svc.AddChild(context.Background(), parent.ID, "nico@example.com")
		require.NoError(t, err)

		_, err = svc.AddChild(context.Background(), parent.ID, "nico@example.com")
		assert.ErrorIs(t, err, ErrChildAlreadyLinked)
	})

	t.Run("unknown child email", func(t *testing.T) {
		t.Parallel()
		svc, parent, _ := setup(t)

		_, err := svc.AddChild(context.Background(), parent.ID, "nobody@example.com")
		assert.ErrorIs(t, err, store.ErrMemberNotFound)
	})

	t.Run("unknown parent", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := setup(t)

		_, err := svc.AddChild(context.Background(), uuid.New(), "nico@example.com")
		assert.ErrorIs(t, err, store.ErrMemberNotFound)
	})
}

func TestMemberGetProfile(t *testing.T) {
	t.Parallel()

	svc, members := newMemberServiceForTest(t)
	member := mustNewMember(t, "Maria", "maria@example.com", domain.RoleGrandparent)
	require.NoError(t, members.Create(context.Background(), member))

	got, err := svc.GetProfile(context.Background(), member.ID)
	require.NoError(t, err)
	assert.Equal(t, member.Email, got.Email)

	_, err = svc.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrMemberNotFound)
}
