//go:build e2e

package e2e

import (
	"encoding/json"
	"net/http"
	"testing"

	reqdto "hostpanel/internal/handler/dto/request"
	resdto "hostpanel/internal/handler/dto/response"
	"hostpanel/tests/common/dbtest"
	"hostpanel/tests/common/httptest"

	"github.com/stretchr/testify/require"
)

// LoginAs authenticates one of the seeded users and returns a bearer token.
func (s *SharedSuite) LoginAs(t *testing.T, email string) string {
	t.Helper()

	rec := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/auth/login", reqdto.LoginRequest{
		Email:    email,
		Password: dbtest.SeedPassword,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, "login failed: %s", rec.Body.String())

	var resp resdto.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}
