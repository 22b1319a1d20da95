package models

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AdminUser is the single editorial identity allowed to mutate content.
// It is configured statically, there is no user registration in this service.
type AdminUser struct {
	ID       string
	Email    string
	PassHash []byte
}
