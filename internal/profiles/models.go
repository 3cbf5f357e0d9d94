package profiles

import "time"

// Profile carries per-user call settings. PhoneNumberID is the remote
// system's identifier for the number outbound calls originate from; without
// it no call can be placed.
type Profile struct {
	UserID        string    `json:"user_id"`
	PhoneNumberID string    `json:"phone_number"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
