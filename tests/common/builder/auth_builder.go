//go:build unit || e2e

package builder

import (
	reqdto "hostpanel/internal/handler/dto/request"
)

type AuthBuilder struct {
	Email    string
	Password string
}

func NewAuthBuilder() *AuthBuilder {
	return &AuthBuilder{
		Email:    "customer@example.com",
		Password: "password123",
	}
}

func (b *AuthBuilder) WithEmail(email string) *AuthBuilder {
	b.Email = email
	return b
}

func (b *AuthBuilder) WithPassword(pw string) *AuthBuilder {
	b.Password = pw
	return b
}

func (b *AuthBuilder) BuildDTO() reqdto.LoginRequest {
	return reqdto.LoginRequest{
		Email:    b.Email,
		Password: b.Password,
	}
}
