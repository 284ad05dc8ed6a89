//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"hostpanel/internal/pkg/jwt"
	"hostpanel/internal/usecase/commands"
	"hostpanel/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthEnv() (*fakeStore, commands.AuthCommands) {
	store := newFakeStore()
	uc := commands.NewAuthCommands(&fakeUserRepo{s: store}, jwt.NewService("test-secret", time.Hour))
	return store, uc
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials return a token", func(t *testing.T) {
		store, uc := newAuthEnv()
		user := builder.NewUserBuilder().WithEmail("customer@example.com").BuildSnapshot()
		store.addUser(user)

		result, err := uc.Login(ctx, builder.NewAuthBuilder().WithEmail("customer@example.com").BuildDTO())
		require.NoError(t, err)

		assert.Equal(t, user.ID, result.UserID)
		assert.Equal(t, "customer", result.Role)
		assert.NotEmpty(t, result.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		store, uc := newAuthEnv()
		store.addUser(builder.NewUserBuilder().BuildSnapshot())

		_, err := uc.Login(ctx, builder.NewAuthBuilder().WithPassword("not-the-password").BuildDTO())
		assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, uc := newAuthEnv()

		_, err := uc.Login(ctx, builder.NewAuthBuilder().WithEmail("nobody@example.com").BuildDTO())
		assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})

	t.Run("deactivated account looks like bad credentials", func(t *testing.T) {
		store, uc := newAuthEnv()
		store.addUser(builder.NewUserBuilder().AsInactive().BuildSnapshot())

		_, err := uc.Login(ctx, builder.NewAuthBuilder().BuildDTO())
		assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})

	t.Run("malformed email", func(t *testing.T) {
		_, uc := newAuthEnv()

		_, err := uc.Login(ctx, builder.NewAuthBuilder().WithEmail("not-an-email").BuildDTO())
		assert.ErrorIs(t, err, commands.ErrAuthenticationFailed)
	})
}
