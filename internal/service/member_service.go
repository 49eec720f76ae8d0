package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hearthsidehq/hearthside-api/internal/domain"
	"github.com/hearthsidehq/hearthside-api/internal/service/auth"
	"github.com/hearthsidehq/hearthside-api/internal/store"
)

// MemberService provides member account operations: registration, login,
// profile retrieval, and parent-child linking.
type MemberService interface {
	// Register creates a new member account. The plaintext password is
	// hashed before anything reaches the store. An empty role defaults
	// to "kid". Returns store.ErrEmailExists when the email is taken.
	Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.Member, error)

	// Login verifies the member's credentials and returns the member.
	// Unknown email and wrong password both return ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*domain.Member, error)

	// GetProfile retrieves a member by ID.
	GetProfile(ctx context.Context, memberID uuid.UUID) (*domain.Member, error)

	// AddChild links a child member, looked up by email, to the parent.
	// Returns ErrChildAlreadyLinked when the link already exists.
	AddChild(ctx context.Context, parentID uuid.UUID, childEmail string) (*domain.Member, error)
}

// memberServiceImpl implements the MemberService interface.
type memberServiceImpl struct {
	memberStore store.MemberStore
	hasher      auth.PasswordHasher
	verifier    auth.PasswordVerifier
	db          *sql.DB
	logger      *slog.Logger
}

var _ MemberService = (*memberServiceImpl)(nil)

// NewMemberService creates a new MemberService.
func NewMemberService(
	memberStore store.MemberStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	db *sql.DB,
	logger *slog.Logger,
) MemberService {
	if logger == nil {
		logger = slog.Default()
	}
	return &memberServiceImpl{
		memberStore: memberStore,
		hasher:      hasher,
		verifier:    verifier,
		db:          db,
		logger:      logger.With("component", "member_service"),
	}
}

// Register creates a new member account with a hashed password.
func (s *memberServiceImpl) Register(
	ctx context.Context,
	name, email, password string,
	role domain.Role,
) (*domain.Member, error) {
	member, err := domain.NewMember(name, email, password, role)
	if err != nil {
		s.logger.Debug("member registration failed validation",
			"error", err,
			"email", email)
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	hashed, err := s.hasher.Hash(member.Password)
	if err != nil {
		s.logger.Error("failed to hash member password",
			"error", err,
			"email", member.Email)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	member.HashedPassword = hashed
	member.Password = ""

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.memberStore.WithTx(tx).Create(ctx, member)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("attempted to register with existing email",
				"email", member.Email)
		} else {
			s.logger.Error("failed to save member",
				"error", err,
				"email", member.Email)
		}
		return nil, fmt.Errorf("failed to register member: %w", err)
	}

	s.logger.Info("member registered",
		"member_id", member.ID,
		"email", member.Email,
		"role", member.Role)

	return member, nil
}

// Login verifies credentials against the stored password hash.
func (s *memberServiceImpl) Login(
	ctx context.Context,
	email, password string,
) (*domain.Member, error) {
	member, err := s.memberStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrMemberNotFound) {
			s.logger.Debug("login attempt for unknown email",
				"email", email)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to retrieve member for login",
			"error", err,
			"email", email)
		return nil, fmt.Errorf("failed to retrieve member: %w", err)
	}

	if err := s.verifier.Compare(member.HashedPassword, password); err != nil {
		s.logger.Debug("login attempt with wrong password",
			"member_id", member.ID)
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("member logged in",
		"member_id", member.ID)

	return member, nil
}

// GetProfile retrieves a member by ID.
func (s *memberServiceImpl) GetProfile(
	ctx context.Context,
	memberID uuid.UUID,
) (*domain.Member, error) {
	member, err := s.memberStore.GetByID(ctx, memberID)
	if err != nil {
		if !errors.Is(err, store.ErrMemberNotFound) {
			s.logger.Error("failed to retrieve member profile",
				"error", err,
				"member_id", memberID)
		}
		return nil, fmt.Errorf("failed to retrieve member: %w", err)
	}
	return member, nil
}

// AddChild links a child member, found by email, to the parent member.
// The lookup and the link run in one transaction so the link observes a
// consistent view of both members.
func (s *memberServiceImpl) AddChild(
	ctx context.Context,
	parentID uuid.UUID,
	childEmail string,
) (*domain.Member, error) {
	var child *domain.Member

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.memberStore.WithTx(tx)

		parent, err := txStore.GetByID(ctx, parentID)
		if err != nil {
			return fmt.Errorf("failed to retrieve parent member: %w", err)
		}

		child, err = txStore.GetByEmail(ctx, childEmail)
		if err != nil {
			return fmt.Errorf("failed to retrieve child member: %w", err)
		}

		if parent.HasChild(child.ID) {
			return ErrChildAlreadyLinked
		}

		if err := txStore.AddChild(ctx, parent.ID, child.ID); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return ErrChildAlreadyLinked
			}
			return fmt.Errorf("failed to link child member: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrChildAlreadyLinked) || errors.Is(err, store.ErrMemberNotFound) {
			s.logger.Debug("add child rejected",
				"error", err,
				"parent_id", parentID,
				"child_email", childEmail)
		} else {
			s.logger.Error("failed to add child",
				"error", err,
				"parent_id", parentID,
				"child_email", childEmail)
		}
		return nil, err
	}

	s.logger.Info("child linked to member",
		"parent_id", parentID,
		"child_id", child.ID)

	return child, nil
}
