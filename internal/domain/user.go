package domain

// User is the signed-in identity. It is owned by the identity provider and is
// only referenced by email on persisted records.
type User struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
}
