package domain

// UserInfo is the public profile block shown at the top of a dashboard.
type UserInfo struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email,omitempty"`
	PhoneNumber string  `json:"phoneNumber,omitempty"`
	Rating      float64 `json:"rating"`
	AvatarName  string  `json:"avatarName,omitempty"`
}
