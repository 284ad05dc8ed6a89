//go:build unit

package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"hostpanel/internal/domain/payment"
	"hostpanel/internal/domain/redemption"
	"hostpanel/internal/handler"
	"hostpanel/internal/handler/api"
	resdto "hostpanel/internal/handler/dto/response"
	"hostpanel/internal/usecase/commands"
	"hostpanel/internal/usecase/queries"
	"hostpanel/tests/common/builder"
	"hostpanel/tests/common/httptest"
	"hostpanel/tests/common/testutil"
	commandsmock "hostpanel/tests/mock/commands"
	queriesmock "hostpanel/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PurchaseHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockPurchaseCommands
	mockQueries  *queriesmock.MockPaymentQueries
	handler      *api.PurchaseHandler
	userID       uuid.UUID
}

func (s *PurchaseHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	handler.RegisterValidators()
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockPurchaseCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockPaymentQueries(s.mockCtrl)
	s.handler = api.NewPurchaseHandler(s.mockCommands, s.mockQueries)
	s.userID = uuid.New()

	authed := func(h gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set("user_id", s.userID)
			h(c)
		}
	}
	s.router.POST("/purchase", authed(s.handler.BeginPurchase))
	s.router.POST("/purchase/capture", authed(s.handler.CapturePurchase))
	s.router.GET("/purchase/:key", authed(s.handler.GetPayment))
	s.router.GET("/purchase", authed(s.handler.ListPayments))
}

func (s *PurchaseHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPurchaseHandlerSuite(t *testing.T) {
	suite.Run(t, new(PurchaseHandlerTestSuite))
}

func (s *PurchaseHandlerTestSuite) TestBeginPurchase() {
	url := "/purchase"

	planID := uuid.New()
	reqBody := builder.NewPaymentBuilder().WithPlanID(planID).BuildBeginRequestDTO()
	key := uuid.New()
	orderID := "ord_123"

	s.Run("success: returns 200 OK with the opened order", func() {
		s.mockCommands.EXPECT().BeginPurchase(gomock.Any(), reqBody, s.userID, key).
			Return(&commands.BeginPurchaseResult{
				IdempotencyKey:  key,
				PaymentID:       uuid.New(),
				AmountCents:     999,
				Currency:        "USD",
				Status:          payment.StatusPending,
				ExternalOrderID: &orderID,
			}, nil).Times(1)
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "",
			map[string]string{"Idempotency-Key": key.String()})

		var response resdto.BeginPurchaseResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(key, response.IdempotencyKey)
		s.Equal(int64(999), response.AmountCents)
		s.Equal("pending", response.Status)
		s.Equal(&orderID, response.ExternalOrderID)
	})

	s.Run("rejected: returns 422 with the rejection detail", func() {
		s.mockCommands.EXPECT().BeginPurchase(gomock.Any(), reqBody, s.userID, gomock.Any()).
			Return(&commands.BeginPurchaseResult{
				IdempotencyKey: key,
				PaymentID:      uuid.New(),
				Currency:       "USD",
				Status:         payment.StatusFailed,
				Rejection:      redemption.Reject(redemption.ReasonDisabled, "plan is disabled"),
			}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		s.Equal(http.StatusUnprocessableEntity, rec.Code)
		var response resdto.BeginPurchaseResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
		s.Require().NotNil(response.Rejection)
		s.Equal("Disabled", response.Rejection.Reason)
	})

	s.Run("error: 400 on a malformed Idempotency-Key header", func() {
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "",
			map[string]string{"Idempotency-Key": "not-a-uuid"})
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name       string
			mutate     func(m map[string]any)
			expectCode int
		}{
			{name: "missing field: plan_id (required)", mutate: testutil.Field("plan_id", nil), expectCode: http.StatusBadRequest},
			{name: "malformed plan_id", mutate: testutil.Field("plan_id", "not-a-uuid"), expectCode: http.StatusBadRequest},
			{name: "coupon code with illegal characters", mutate: testutil.Field("coupon_code", "BAD CODE!"), expectCode: http.StatusBadRequest},
			{name: "coupon code too short", mutate: testutil.Field("coupon_code", "AB"), expectCode: http.StatusBadRequest},
			{name: "coupon code omitted is fine", mutate: testutil.Field("coupon_code", nil), expectCode: http.StatusOK},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)

				if tc.expectCode == http.StatusOK {
					s.mockCommands.EXPECT().BeginPurchase(gomock.Any(), gomock.Any(), s.userID, gomock.Any()).
						Return(&commands.BeginPurchaseResult{
							IdempotencyKey: key,
							PaymentID:      uuid.New(),
							AmountCents:    999,
							Currency:       "USD",
							Status:         payment.StatusPending,
						}, nil)
				}
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
				if tc.expectCode == http.StatusOK {
					httptest.AssertSuccessResponse(s.T(), rec, tc.expectCode, nil)
				} else {
					httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
				}
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
			{name: "unknown plan", commandsError: commands.ErrPlanNotFound, expectCode: http.StatusNotFound, expectMessage: "Plan not found"},
			{name: "unknown coupon", commandsError: commands.ErrCouponNotFound, expectCode: http.StatusNotFound, expectMessage: "Coupon not found"},
			{name: "foreign idempotency key", commandsError: commands.ErrPaymentAccessDenied, expectCode: http.StatusForbidden, expectMessage: "Idempotency key belongs to another user"},
			{name: "gateway down", commandsError: commands.ErrGatewayUnavailable, expectCode: http.StatusBadGateway, expectMessage: "Payment gateway unavailable"},
			{name: "unexpected failure", commandsError: commands.ErrDatabaseOperationFailed, expectCode: http.StatusInternalServerError, expectMessage: "Internal server error"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().BeginPurchase(gomock.Any(), reqBody, s.userID, gomock.Any()).
					Return(nil, tc.commandsError).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, tc.expectMessage)
			})
		}
	})
}

func (s *PurchaseHandlerTestSuite) TestCapturePurchase() {
	url := "/purchase/capture"

	key := uuid.New()
	reqBody := builder.NewPaymentBuilder().WithIdempotencyKey(key).BuildCaptureRequestDTO()

	s.Run("success: returns 200 OK with the applied effect", func() {
		effect := redemption.Effect{CoinsDelta: 50, FinalPriceCents: 999}
		s.mockCommands.EXPECT().CaptureOrder(gomock.Any(), s.userID, key).
			Return(&commands.CapturePurchaseResult{
				Status: payment.StatusCaptured,
				Effect: &effect,
			}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.CapturePurchaseResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("captured", response.Status)
		s.Require().NotNil(response.Effect)
		s.Equal(int64(50), response.Effect.CoinsDelta)
	})

	s.Run("rejected on re-validation: returns 422", func() {
		s.mockCommands.EXPECT().CaptureOrder(gomock.Any(), s.userID, key).
			Return(&commands.CapturePurchaseResult{
				Status:    payment.StatusFailed,
				Rejection: redemption.Reject(redemption.ReasonExhaustedCap, "coupon usage limit reached"),
			}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		s.Equal(http.StatusUnprocessableEntity, rec.Code)
		var response resdto.CapturePurchaseResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
		s.Require().NotNil(response.Rejection)
		s.Equal("ExhaustedCap", response.Rejection.Reason)
	})

	s.Run("gateway retryable: returns 200 with a pending status", func() {
		s.mockCommands.EXPECT().CaptureOrder(gomock.Any(), s.userID, key).
			Return(&commands.CapturePurchaseResult{
				Status:    payment.StatusPending,
				Rejection: redemption.Reject(redemption.ReasonGatewayRetry, "payment gateway unavailable, retry capture"),
			}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.CapturePurchaseResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("pending", response.Status)
		s.Require().NotNil(response.Rejection)
		s.Equal("GatewayRetryable", response.Rejection.Reason)
	})

	s.Run("error: 400 when the key is missing", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("idempotency_key", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: 409 for a terminal payment includes the stored reason", func() {
		reason := "GatewayTerminal: card_declined"
		s.mockCommands.EXPECT().CaptureOrder(gomock.Any(), s.userID, key).
			Return(&commands.CapturePurchaseResult{
				Status:        payment.StatusFailed,
				FailureReason: &reason,
			}, commands.ErrPaymentTerminal).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Payment already in a terminal state")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name          string
			commandsError error
			expectCode    int
			expectMessage string
		}{
			{name: "unknown payment", commandsError: commands.ErrPaymentNotFound, expectCode: http.StatusNotFound, expectMessage: "Payment not found"},
			{name: "foreign payment", commandsError: commands.ErrPaymentAccessDenied, expectCode: http.StatusForbidden, expectMessage: "Payment belongs to another user"},
			{name: "retry budget exhausted", commandsError: commands.ErrConflictExceededRetries, expectCode: http.StatusConflict, expectMessage: "retry capture"},
			{name: "unexpected failure", commandsError: commands.ErrDatabaseOperationFailed, expectCode: http.StatusInternalServerError, expectMessage: "Internal server error"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CaptureOrder(gomock.Any(), s.userID, key).
					Return(nil, tc.commandsError).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, tc.expectMessage)
			})
		}
	})
}

func (s *PurchaseHandlerTestSuite) TestGetPayment() {
	key := uuid.New()
	url := "/purchase/" + key.String()

	s.Run("success: returns the stored payment", func() {
		view := builder.NewPaymentBuilder().WithUserID(s.userID).BuildView()
		s.mockQueries.EXPECT().GetByKey(gomock.Any(), s.userID, key).
			Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response queries.PaymentView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(view.IdempotencyKey, response.IdempotencyKey)
	})

	s.Run("error: 400 on a malformed key", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/purchase/not-a-uuid", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid idempotency key format")
	})

	s.Run("error: 404 for an unknown key", func() {
		s.mockQueries.EXPECT().GetByKey(gomock.Any(), s.userID, key).
			Return(nil, queries.ErrPaymentNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Payment not found")
	})

	s.Run("error: 403 for another user's payment", func() {
		s.mockQueries.EXPECT().GetByKey(gomock.Any(), s.userID, key).
			Return(nil, queries.ErrPaymentAccess).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Payment belongs to another user")
	})
}

func (s *PurchaseHandlerTestSuite) TestListPayments() {
	views := []*queries.PaymentView{
		builder.NewPaymentBuilder().WithUserID(s.userID).BuildView(),
		builder.NewPaymentBuilder().WithUserID(s.userID).AsFailed("Expired: coupon has expired").BuildView(),
	}
	s.mockQueries.EXPECT().ListByUser(gomock.Any(), s.userID, 50).
		Return(views, nil).Times(1)
	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/purchase", nil, "")

	var response []queries.PaymentView
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
	s.Len(response, 2)
}
