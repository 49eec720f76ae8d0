package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies a member's place in the family.
type Role string

// Possible member roles.
const (
	RoleParent      Role = "parent"
	RoleGrandparent Role = "grandparent"
	RoleKid         Role = "kid"
	RoleChronicler  Role = "chronicler"
)

// Common validation errors for Member
var (
	ErrEmptyMemberID       = errors.New("member ID cannot be empty")
	ErrEmptyMemberName     = errors.New("member name cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrInvalidRole         = errors.New("invalid member role")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// Member represents a registered family member. Emails are stored
// lowercased so uniqueness checks are case-insensitive.
type Member struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Role           Role        `json:"role"`
	Password       string      `json:"-"` // Plaintext, only populated during registration
	HashedPassword string      `json:"-"` // Never expose the hash in JSON
	ChildIDs       []uuid.UUID `json:"child_ids,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// NewMember creates a new Member with the given name, email, plaintext
// password, and role. An empty role defaults to RoleKid. The caller is
// responsible for hashing the password before the member is stored.
func NewMember(name, email, password string, role Role) (*Member, error) {
	if role == "" {
		role = RoleKid
	}

	member := &Member{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Role:      role,
		Password:  password,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := member.Validate(); err != nil {
		return nil, err
	}

	return member, nil
}

// Validate checks if the Member has valid data.
// Returns an error if any field fails validation.
func (m *Member) Validate() error {
	if m.ID == uuid.Nil {
		return ErrEmptyMemberID
	}

	if m.Name == "" {
		return ErrEmptyMemberName
	}

	if m.Email == "" {
		return ErrEmptyEmail
	}

	if !validEmailFormat(m.Email) {
		return ErrInvalidEmail
	}

	switch m.Role {
	case RoleParent, RoleGrandparent, RoleKid, RoleChronicler:
	default:
		return ErrInvalidRole
	}

	if m.Password != "" {
		if len(m.Password) < 8 {
			return ErrPasswordTooShort
		}
		if len(m.Password) > 72 { // bcrypt's practical limit
			return ErrPasswordTooLong
		}
	} else if m.HashedPassword == "" {
		// Members loaded from storage carry only the hash.
		return ErrEmptyPassword
	}

	return nil
}

// HasChild reports whether the given member is already linked as a child.
func (m *Member) HasChild(childID uuid.UUID) bool {
	for _, id := range m.ChildIDs {
		if id == childID {
			return true
		}
	}
	return false
}

// validEmailFormat performs basic structural validation of an email address:
// a local part, an @, and a dotted domain. Anything stricter belongs to the
// mail delivery layer.
func validEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
