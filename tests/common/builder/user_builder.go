//go:build unit || e2e

package builder

import (
	"hostpanel/internal/domain/user"
	"hostpanel/internal/pkg/password"
	"hostpanel/internal/usecase/commands"
	"hostpanel/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserBuilder struct {
	ID       uuid.UUID
	Email    string
	Password string
	Role     string
	Coins    int64
	Limits   user.ResourceLimits
	IsActive bool
	Version  int64
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		ID:       uuid.New(),
		Email:    "customer@example.com",
		Password: "password123",
		Role:     string(user.RoleCustomer),
		Coins:    100,
		IsActive: true,
		Version:  1,
	}
}

func (b *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(b)
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.Email = email
	return b
}

func (b *UserBuilder) WithCoins(coins int64) *UserBuilder {
	b.Coins = coins
	return b
}

func (b *UserBuilder) WithVersion(v int64) *UserBuilder {
	b.Version = v
	return b
}

func (b *UserBuilder) AsAdmin() *UserBuilder {
	b.Role = string(user.RoleAdmin)
	return b
}

func (b *UserBuilder) AsInactive() *UserBuilder {
	b.IsActive = false
	return b
}

// BuildSnapshot hashes the plaintext password so login flows can verify it.
func (b *UserBuilder) BuildSnapshot() *commands.UserSnapshot {
	hash, err := password.HashPassword(b.Password)
	if err != nil {
		panic(err)
	}
	return &commands.UserSnapshot{
		ID:           b.ID,
		Email:        b.Email,
		PasswordHash: hash,
		Role:         b.Role,
		Coins:        b.Coins,
		Limits:       b.Limits,
		IsActive:     b.IsActive,
		Version:      b.Version,
	}
}

func (b *UserBuilder) BuildReadModel() *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{
		ID:       b.ID,
		Email:    b.Email,
		Role:     b.Role,
		IsActive: b.IsActive,
	}
}
