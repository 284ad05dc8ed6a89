//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"hostpanel/internal/handler/api"
	resdto "hostpanel/internal/handler/dto/response"
	"hostpanel/internal/usecase/queries"
	"hostpanel/tests/common/builder"
	"hostpanel/tests/common/httptest"
	queriesmock "hostpanel/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type EntitlementHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockCtrl         *gomock.Controller
	mockEntitlements *queriesmock.MockEntitlementQueries
	mockPlans        *queriesmock.MockPlanQueries
	handler          *api.EntitlementHandler
	userID           uuid.UUID
}

func (s *EntitlementHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockEntitlements = queriesmock.NewMockEntitlementQueries(s.mockCtrl)
	s.mockPlans = queriesmock.NewMockPlanQueries(s.mockCtrl)
	s.handler = api.NewEntitlementHandler(s.mockEntitlements, s.mockPlans)
	s.userID = uuid.New()

	s.router.GET("/entitlements", func(c *gin.Context) {
		c.Set("user_id", s.userID)
		s.handler.GetEntitlements(c)
	})
	s.router.GET("/plans", s.handler.ListPlans)
}

func (s *EntitlementHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestEntitlementHandlerSuite(t *testing.T) {
	suite.Run(t, new(EntitlementHandlerTestSuite))
}

func (s *EntitlementHandlerTestSuite) TestGetEntitlements() {
	url := "/entitlements"

	s.Run("success: returns coins, limits and plan grants", func() {
		expires := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
		view := &queries.EntitlementView{
			UserID:      s.userID,
			Coins:       150,
			DiskMb:      10240,
			MemoryMb:    2048,
			ServerLimit: 1,
			Plans: []queries.UserPlanView{
				{
					ID:        uuid.New(),
					PlanID:    uuid.New(),
					PlanName:  "Starter",
					Status:    "active",
					ExpiresAt: &expires,
					CreatedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
				},
			},
		}
		s.mockEntitlements.EXPECT().GetByUser(gomock.Any(), s.userID).
			Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response resdto.EntitlementResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(int64(150), response.Coins)
		s.Require().Len(response.Plans, 1)
		s.Equal("Starter", response.Plans[0].PlanName)
	})

	s.Run("error: 404 when the user row is gone", func() {
		s.mockEntitlements.EXPECT().GetByUser(gomock.Any(), s.userID).
			Return(nil, queries.ErrEntitlementNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "User not found")
	})
}

func (s *EntitlementHandlerTestSuite) TestListPlans() {
	items := []*queries.PlanListItem{
		builder.NewPlanBuilder().BuildListItem(),
		builder.NewPlanBuilder().With(func(b *builder.PlanBuilder) { b.Name = "Premium" }).WithPriceCents(2999).BuildListItem(),
	}
	s.mockPlans.EXPECT().ListEnabled(gomock.Any()).
		Return(items, nil).Times(1)
	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/plans", nil, "")

	var response []resdto.PlanResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
	s.Require().Len(response, 2)
	s.Equal("Premium", response[1].Name)
}
