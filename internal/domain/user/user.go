// internal/domain/user/user.go
package user

import (
	"fmt"

	"learnhub/internal/domain"
)

// Status is the user account status.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusBanned   Status = "banned"
	StatusDeleted  Status = "deleted"
)

// Profile holds display information for a user.
type Profile struct {
	FirstName string
	LastName  string
	Bio       string
	AvatarURL string
}

// NewProfile validates and normalizes profile fields.
func NewProfile(firstName, lastName, bio, avatarURL string) (Profile, error) {
	first, err := domain.BoundedText("first name", firstName, 255)
	if err != nil {
		return Profile{}, err
	}
	last, err := domain.BoundedText("last name", lastName, 255)
	if err != nil {
		return Profile{}, err
	}
	if len(bio) > 1000 {
		return Profile{}, fmt.Errorf("%w: bio too long", domain.ErrValidation)
	}
	if len(avatarURL) > 500 {
		return Profile{}, fmt.Errorf("%w: avatar URL too long", domain.ErrValidation)
	}
	return Profile{FirstName: first, LastName: last, Bio: bio, AvatarURL: avatarURL}, nil
}

// FullName joins first and last name for display.
func (p Profile) FullName() string { return p.FirstName + " " + p.LastName }

// User is the aggregate root for identity and profile. Banned or deleted users
// reject further mutation; changing the email resets verification.
type User struct {
	domain.Entity

	ID            domain.UserID
	Email         domain.EmailAddress
	PasswordHash  string
	Profile       Profile
	Status        Status
	EmailVerified bool
	AccessRefs    []domain.AccessID
}

// Register creates a new user and queues UserRegistered.
func Register(email domain.EmailAddress, profile Profile) *User {
	id := domain.UserID(domain.NextID())
	u := &User{
		Entity:  domain.NewEntity(),
		ID:      id,
		Email:   email,
		Profile: profile,
		Status:  StatusInactive,
	}
	u.Record(NewUserRegistered(id, email, profile.FullName()))
	return u
}

// VerifyIdentity marks the email verified and activates the account.
func (u *User) VerifyIdentity() error {
	if u.EmailVerified {
		return fmt.Errorf("%w: email is already verified", domain.ErrInvalidTransition)
	}
	u.EmailVerified = true
	u.Status = StatusActive
	u.Touch()
	return nil
}

// UpdateProfile replaces the profile and queues UserProfileUpdated.
func (u *User) UpdateProfile(profile Profile) error {
	if u.Status == StatusBanned || u.Status == StatusDeleted {
		return fmt.Errorf("%w: cannot update profile for banned or deleted user", domain.ErrInvalidTransition)
	}
	u.Profile = profile
	u.Record(NewUserProfileUpdated(u.ID, profile))
	return nil
}

// ChangeEmail swaps the address and resets verification. Setting the same
// address is a no-op.
func (u *User) ChangeEmail(newEmail domain.EmailAddress) error {
	if u.Status == StatusBanned || u.Status == StatusDeleted {
		return fmt.Errorf("%w: cannot change email for banned or deleted user", domain.ErrInvalidTransition)
	}
	if u.Email == newEmail {
		return nil
	}
	old := u.Email
	u.Email = newEmail
	u.EmailVerified = false
	u.Record(NewUserEmailChanged(u.ID, old, newEmail))
	return nil
}

// Activate enables the account.
func (u *User) Activate() error {
	if u.Status == StatusActive {
		return fmt.Errorf("%w: user is already active", domain.ErrInvalidTransition)
	}
	if u.Status == StatusDeleted {
		return fmt.Errorf("%w: cannot activate deleted user", domain.ErrInvalidTransition)
	}
	u.Status = StatusActive
	u.Touch()
	return nil
}

// Deactivate disables the account without deleting it.
func (u *User) Deactivate() error {
	if u.Status == StatusDeleted {
		return fmt.Errorf("%w: cannot deactivate deleted user", domain.ErrInvalidTransition)
	}
	u.Status = StatusInactive
	u.Touch()
	return nil
}

// Ban blocks the account.
func (u *User) Ban() error {
	if u.Status == StatusDeleted {
		return fmt.Errorf("%w: cannot ban deleted user", domain.ErrInvalidTransition)
	}
	u.Status = StatusBanned
	u.Touch()
	return nil
}

// MarkDeleted soft-deletes the account.
func (u *User) MarkDeleted() {
	u.Status = StatusDeleted
	u.Touch()
}

// CanPlaceOrder reports whether the user may purchase courses.
func (u *User) CanPlaceOrder() bool {
	return u.Status == StatusActive && u.EmailVerified
}

// AddAccessRef records a reference to an access record, deduplicated by id.
func (u *User) AddAccessRef(accessID domain.AccessID) {
	for _, ref := range u.AccessRefs {
		if ref == accessID {
			return
		}
	}
	u.AccessRefs = append(u.AccessRefs, accessID)
	u.Touch()
}

// RemoveAccessRef drops a reference to an access record.
func (u *User) RemoveAccessRef(accessID domain.AccessID) {
	kept := u.AccessRefs[:0]
	for _, ref := range u.AccessRefs {
		if ref != accessID {
			kept = append(kept, ref)
		}
	}
	u.AccessRefs = kept
	u.Touch()
}
