package models

type User struct {
	ID         string  `json:"_id"`
	Email      string  `json:"email"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	PictureURL *string `json:"pictureUrl,omitempty"`

	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	// RefreshTokenInterval is in milliseconds, matching the wire and
	// stored representation.
	RefreshTokenInterval int64 `json:"refreshTokenInterval,omitempty"`
	LastRefreshTime      int64 `json:"lastRefreshTime,omitempty"`
	LoginTime            int64 `json:"loginTime,omitempty"`
}
