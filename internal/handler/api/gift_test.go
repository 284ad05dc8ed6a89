//go:build unit

package api_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"hostpanel/internal/domain/redemption"
	"hostpanel/internal/handler"
	"hostpanel/internal/handler/api"
	resdto "hostpanel/internal/handler/dto/response"
	"hostpanel/internal/usecase/commands"
	"hostpanel/tests/common/builder"
	"hostpanel/tests/common/httptest"
	"hostpanel/tests/common/testutil"
	commandsmock "hostpanel/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type GiftHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockGiftCodeCommands
	handler      *api.GiftHandler
	userID       uuid.UUID
}

func (s *GiftHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	handler.RegisterValidators()
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockGiftCodeCommands(s.mockCtrl)
	s.handler = api.NewGiftHandler(s.mockCommands)
	s.userID = uuid.New()

	authed := func(h gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set("user_id", s.userID)
			h(c)
		}
	}
	s.router.POST("/gift/redeem", authed(s.handler.RedeemGiftCode))
	s.router.POST("/gift/create", authed(s.handler.CreateGiftCode))
}

func (s *GiftHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestGiftHandlerSuite(t *testing.T) {
	suite.Run(t, new(GiftHandlerTestSuite))
}

func (s *GiftHandlerTestSuite) TestRedeemGiftCode() {
	url := "/gift/redeem"

	giftBuilder := builder.NewGiftCodeBuilder()
	reqBody := giftBuilder.BuildRedeemRequestDTO()

	s.Run("success: returns 200 OK with the granted coins", func() {
		s.mockCommands.EXPECT().RedeemGiftCode(gomock.Any(), s.userID, reqBody.NormalizedCode()).
			Return(&commands.RedeemGiftResult{CoinsGranted: 250}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.RedeemGiftResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("applied", response.Status)
		s.Equal(int64(250), response.CoinsGranted)
	})

	s.Run("rejected: returns 422 with the rejection detail", func() {
		s.mockCommands.EXPECT().RedeemGiftCode(gomock.Any(), s.userID, reqBody.NormalizedCode()).
			Return(&commands.RedeemGiftResult{
				Rejection: redemption.Reject(redemption.ReasonExhaustedCap, "gift code redemption limit reached"),
			}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		s.Equal(http.StatusUnprocessableEntity, rec.Code)
		var response resdto.RedeemGiftResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
		s.Equal("rejected", response.Status)
		s.Require().NotNil(response.Rejection)
		s.Equal("ExhaustedCap", response.Rejection.Reason)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name       string
			mutate     func(m map[string]any)
			expectCode int
		}{
			{name: "missing field: code (required)", mutate: testutil.Field("code", nil), expectCode: http.StatusBadRequest},
			{name: "empty code", mutate: testutil.Field("code", ""), expectCode: http.StatusBadRequest},
			{name: "code with illegal characters", mutate: testutil.Field("code", "GIFT CODE!"), expectCode: http.StatusBadRequest},
			{name: "code too long", mutate: testutil.Field("code", "GIFT-"+strings.Repeat("A", 64)), expectCode: http.StatusBadRequest},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name          string
			commandsError error
			expectCode    int
			expectMessage string
		}{
			{name: "unknown code", commandsError: commands.ErrGiftCodeNotFound, expectCode: http.StatusNotFound, expectMessage: "Gift code not found"},
			{name: "malformed code", commandsError: commands.ErrInvalidGiftCode, expectCode: http.StatusBadRequest, expectMessage: "Invalid gift code format"},
			{name: "unexpected failure", commandsError: commands.ErrDatabaseOperationFailed, expectCode: http.StatusInternalServerError, expectMessage: "Internal server error"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().RedeemGiftCode(gomock.Any(), s.userID, reqBody.NormalizedCode()).
					Return(nil, tc.commandsError).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, tc.expectMessage)
			})
		}
	})
}

func (s *GiftHandlerTestSuite) TestCreateGiftCode() {
	url := "/gift/create"

	reqBody := builder.NewGiftCodeBuilder().BuildCreateRequestDTO()

	s.Run("success: returns 201 Created with the minted code", func() {
		created := &commands.CreateGiftResult{ID: uuid.New(), Code: "GIFT-ABCD-EFGH"}
		s.mockCommands.EXPECT().CreateGiftCode(gomock.Any(), s.userID, reqBody).
			Return(created, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.CreateGiftResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(created.Code, response.Code)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name       string
			mutate     func(m map[string]any)
			expectCode int
		}{
			{name: "missing field: coins (required)", mutate: testutil.Field("coins", nil), expectCode: http.StatusBadRequest},
			{name: "zero coins", mutate: testutil.Field("coins", 0), expectCode: http.StatusBadRequest},
			{name: "negative coins", mutate: testutil.Field("coins", -5), expectCode: http.StatusBadRequest},
			{name: "zero max_redemptions", mutate: testutil.Field("max_redemptions", 0), expectCode: http.StatusBadRequest},
			{name: "zero expires_in_days", mutate: testutil.Field("expires_in_days", 0), expectCode: http.StatusBadRequest},
			{name: "description too long", mutate: testutil.Field("description", strings.Repeat("a", 201)), expectCode: http.StatusBadRequest},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "Invalid request format")
			})
		}
	})

	s.Run("error: 422 on domain validation failures", func() {
		s.mockCommands.EXPECT().CreateGiftCode(gomock.Any(), s.userID, reqBody).
			Return(nil, commands.ErrDomainValidation).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Domain validation failed")
	})
}
