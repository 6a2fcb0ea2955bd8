package handler

import (
	"fmt"

	"github.com/freelancehub/workboard/internal/core/domain"
	"github.com/freelancehub/workboard/internal/core/ports"
)

func toRegisterInput(r registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Username:    r.Username,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Password:    r.Password,
		TwoFactor:   r.TwoFactor,
	}
}

func toLoginInput(r loginRequest) (ports.LoginInput, error) {
	role, err := domain.ParseRole(r.Role)
	if err != nil {
		return ports.LoginInput{}, err
	}
	return ports.LoginInput{Login: r.Login, Password: r.Password, Role: role}, nil
}

func toTwoFactorInput(r twoFactorRequest) (ports.TwoFactorInput, error) {
	role, err := domain.ParseRole(r.Role)
	if err != nil {
		return ports.TwoFactorInput{}, err
	}
	return ports.TwoFactorInput{UserID: r.UserID, Role: role, Code: r.Code}, nil
}

func toSessionResponse(s domain.Session) sessionResponse {
	return sessionResponse{
		UserID:   s.UserID,
		Role:     string(s.Role),
		Redirect: fmt.Sprintf("/dashboard/%s", s.UserID),
	}
}
