package domain

import "strings"

// MaxAvatarBytes caps avatar uploads.
const MaxAvatarBytes = 5 << 20

// Avatar is an uploaded profile image.
type Avatar struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (a Avatar) Validate() error {
	errs := fieldErrors{}
	switch {
	case len(a.Data) == 0:
		errs.add("avatar", "required", "avatar is required")
	case len(a.Data) > MaxAvatarBytes:
		errs.add("avatar", "max", "avatar must not exceed 5 MB")
	}
	if !strings.HasPrefix(a.ContentType, "image/") {
		errs.add("avatar", "image", "avatar must be an image")
	}
	return errs.err()
}

// PasswordReset redeems the token mailed by a reset request.
type PasswordReset struct {
	Token    string
	Password string
}

// MinPasswordLength matches the registration rule.
const MinPasswordLength = 6

func (r PasswordReset) Validate() error {
	if strings.TrimSpace(r.Token) == "" {
		return ErrTokenRequired
	}
	errs := fieldErrors{}
	if len(r.Password) < MinPasswordLength {
		errs.add("password", "min", "password must be at least 6 characters")
	}
	return errs.err()
}
