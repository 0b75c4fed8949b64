// internal/domain/user/events.go
package user

import "learnhub/internal/domain"

// Event type tags for the user aggregate.
const (
	EventUserRegistered     = "UserRegistered"
	EventUserProfileUpdated = "UserProfileUpdated"
	EventUserEmailChanged   = "UserEmailChanged"
)

// UserRegistered is queued when a user registers.
type UserRegistered struct {
	domain.EventBase
	UserID domain.UserID
	Email  domain.EmailAddress
	Name   string
}

func NewUserRegistered(id domain.UserID, email domain.EmailAddress, name string) UserRegistered {
	return UserRegistered{
		EventBase: domain.NewEventBase("User", id.String()),
		UserID:    id,
		Email:     email,
		Name:      name,
	}
}

func (e UserRegistered) EventType() string { return EventUserRegistered }

func (e UserRegistered) Payload() map[string]any {
	p := e.BasePayload(EventUserRegistered)
	p["user_id"] = e.UserID.String()
	p["email"] = e.Email.String()
	p["name"] = e.Name
	return p
}

// UserProfileUpdated is queued when the profile changes.
type UserProfileUpdated struct {
	domain.EventBase
	UserID  domain.UserID
	Profile Profile
}

func NewUserProfileUpdated(id domain.UserID, profile Profile) UserProfileUpdated {
	return UserProfileUpdated{
		EventBase: domain.NewEventBase("User", id.String()),
		UserID:    id,
		Profile:   profile,
	}
}

func (e UserProfileUpdated) EventType() string { return EventUserProfileUpdated }

func (e UserProfileUpdated) Payload() map[string]any {
	p := e.BasePayload(EventUserProfileUpdated)
	p["user_id"] = e.UserID.String()
	p["profile"] = map[string]any{
		"first_name": e.Profile.FirstName,
		"last_name":  e.Profile.LastName,
		"bio":        e.Profile.Bio,
		"avatar_url": e.Profile.AvatarURL,
	}
	return p
}

// UserEmailChanged is queued when the email address changes.
type UserEmailChanged struct {
	domain.EventBase
	UserID   domain.UserID
	OldEmail domain.EmailAddress
	NewEmail domain.EmailAddress
}

func NewUserEmailChanged(id domain.UserID, oldEmail, newEmail domain.EmailAddress) UserEmailChanged {
	return UserEmailChanged{
		EventBase: domain.NewEventBase("User", id.String()),
		UserID:    id,
		OldEmail:  oldEmail,
		NewEmail:  newEmail,
	}
}

func (e UserEmailChanged) EventType() string { return EventUserEmailChanged }

func (e UserEmailChanged) Payload() map[string]any {
	p := e.BasePayload(EventUserEmailChanged)
	p["user_id"] = e.UserID.String()
	p["old_email"] = e.OldEmail.String()
	p["new_email"] = e.NewEmail.String()
	return p
}
