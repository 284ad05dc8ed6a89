//go:build e2e

package purchase_test

import (
	"encoding/json"
	"net/http"
	"testing"

	reqdto "hostpanel/internal/handler/dto/request"
	resdto "hostpanel/internal/handler/dto/response"
	"hostpanel/tests/common/dbtest"
	"hostpanel/tests/common/httptest"
	"hostpanel/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

const (
	purchaseURL     = "/api/purchase"
	captureURL      = "/api/purchase/capture"
	entitlementsURL = "/api/entitlements"
	plansURL        = "/api/plans"
)

type purchaseSuite struct {
	e2e.SharedSuite
}

func TestPurchaseSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(purchaseSuite))
}

func (s *purchaseSuite) beginPurchase(token string, planID uuid.UUID, couponCode *string, key uuid.UUID) resdto.BeginPurchaseResponse {
	headers := map[string]string{}
	if key != uuid.Nil {
		headers["Idempotency-Key"] = key.String()
	}
	rec := httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodPost, purchaseURL,
		reqdto.BeginPurchaseRequest{PlanID: planID, CouponCode: couponCode}, token, headers)
	s.Require().Contains([]int{http.StatusOK, http.StatusUnprocessableEntity}, rec.Code, rec.Body.String())

	var resp resdto.BeginPurchaseResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (s *purchaseSuite) capture(token string, key uuid.UUID) (int, resdto.CapturePurchaseResponse) {
	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, captureURL,
		reqdto.CapturePurchaseRequest{IdempotencyKey: key}, token)

	var resp resdto.CapturePurchaseResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec.Code, resp
}

func (s *purchaseSuite) entitlements(token string) resdto.EntitlementResponse {
	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, entitlementsURL, nil, token)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp resdto.EntitlementResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (s *purchaseSuite) TestPurchaseLifecycle() {
	s.Run("discounted purchase applies the plan exactly once", func() {
		token := s.LoginAs(s.T(), dbtest.CustomerEmail)
		coupon := dbtest.CouponCode
		key := uuid.New()

		began := s.beginPurchase(token, dbtest.StarterPlanID, &coupon, key)
		s.Equal(int64(799), began.AmountCents)
		s.Equal("pending", began.Status)
		s.Require().NotNil(began.ExternalOrderID)

		code, captured := s.capture(token, key)
		s.Require().Equal(http.StatusOK, code)
		s.Equal("captured", captured.Status)
		s.Require().NotNil(captured.Effect)
		s.Equal(int64(50), captured.Effect.CoinsDelta)

		ent := s.entitlements(token)
		s.Equal(int64(150), ent.Coins)
		s.Equal(int64(10240), ent.DiskMb)
		s.Equal(int64(1), ent.ServerLimit)
		s.Require().Len(ent.Plans, 1)
		s.Equal("Starter", ent.Plans[0].PlanName)
		s.Equal("active", ent.Plans[0].Status)
		s.Require().NotNil(ent.Plans[0].ExpiresAt)

		// replaying both calls must not double anything
		replayedBegin := s.beginPurchase(token, dbtest.StarterPlanID, &coupon, key)
		s.True(replayedBegin.Replayed)

		code, replayed := s.capture(token, key)
		s.Require().Equal(http.StatusOK, code)
		s.True(replayed.Replayed)
		s.Equal(int64(150), s.entitlements(token).Coins)
	})

	s.Run("lifetime plan grants without an expiry", func() {
		token := s.LoginAs(s.T(), dbtest.CustomerEmail)
		key := uuid.New()

		began := s.beginPurchase(token, dbtest.LifetimePlanID, nil, key)
		s.Equal(int64(4999), began.AmountCents)

		code, captured := s.capture(token, key)
		s.Require().Equal(http.StatusOK, code)
		s.Equal("captured", captured.Status)

		ent := s.entitlements(token)
		s.Require().Len(ent.Plans, 1)
		s.Nil(ent.Plans[0].ExpiresAt)
	})

	s.Run("disabled plan is rejected without touching the gateway", func() {
		token := s.LoginAs(s.T(), dbtest.CustomerEmail)

		began := s.beginPurchase(token, dbtest.DisabledPlanID, nil, uuid.New())
		s.Equal("failed", began.Status)
		s.Require().NotNil(began.Rejection)
		s.Equal("Disabled", began.Rejection.Reason)
	})

	s.Run("single use coupon goes to exactly one buyer", func() {
		customerToken := s.LoginAs(s.T(), dbtest.CustomerEmail)
		adminToken := s.LoginAs(s.T(), dbtest.AdminEmail)
		coupon := dbtest.LimitedCouponCode

		// both begins happen while the last unit is still free
		firstKey := uuid.New()
		s.beginPurchase(customerToken, dbtest.StarterPlanID, &coupon, firstKey)
		secondKey := uuid.New()
		s.beginPurchase(adminToken, dbtest.StarterPlanID, &coupon, secondKey)

		code, captured := s.capture(customerToken, firstKey)
		s.Require().Equal(http.StatusOK, code)
		s.Equal("captured", captured.Status)

		code, rejected := s.capture(adminToken, secondKey)
		s.Equal(http.StatusUnprocessableEntity, code)
		s.Require().NotNil(rejected.Rejection)
		s.Equal("ExhaustedCap", rejected.Rejection.Reason)
	})
}

func (s *purchaseSuite) TestGatewayFailures() {
	s.Run("declined capture fails the payment terminally", func() {
		token := s.LoginAs(s.T(), dbtest.CustomerEmail)
		key := uuid.New()
		s.beginPurchase(token, dbtest.StarterPlanID, nil, key)

		s.Gateway.DeclineNextCaptures("card_declined")
		code, resp := s.capture(token, key)
		s.Equal(http.StatusUnprocessableEntity, code)
		s.Require().NotNil(resp.Rejection)
		s.Equal("GatewayTerminal", resp.Rejection.Reason)

		// terminal payments stay failed even after the provider recovers
		s.Gateway.Reset()
		code, _ = s.capture(token, key)
		s.Equal(http.StatusConflict, code)
		s.Equal(int64(100), s.entitlements(token).Coins)
	})

	s.Run("provider outage keeps the payment pending until it recovers", func() {
		token := s.LoginAs(s.T(), dbtest.CustomerEmail)
		key := uuid.New()
		s.beginPurchase(token, dbtest.StarterPlanID, nil, key)

		s.Gateway.ServeErrors(10)
		code, resp := s.capture(token, key)
		s.Require().Equal(http.StatusOK, code)
		s.Equal("pending", resp.Status)
		s.Require().NotNil(resp.Rejection)
		s.Equal("GatewayRetryable", resp.Rejection.Reason)

		s.Gateway.Reset()
		code, recovered := s.capture(token, key)
		s.Require().Equal(http.StatusOK, code)
		s.Equal("captured", recovered.Status)
		s.Equal(int64(150), s.entitlements(token).Coins)
	})
}

func (s *purchaseSuite) TestPaymentQueries() {
	s.Run("payments are listed and fetchable by key", func() {
		token := s.LoginAs(s.T(), dbtest.CustomerEmail)
		key := uuid.New()
		s.beginPurchase(token, dbtest.StarterPlanID, nil, key)

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, purchaseURL+"/"+key.String(), nil, token)
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

		list := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, purchaseURL, nil, token)
		s.Require().Equal(http.StatusOK, list.Code)

		var payments []map[string]any
		s.Require().NoError(json.Unmarshal(list.Body.Bytes(), &payments))
		s.Len(payments, 1)
	})

	s.Run("another user's payment is off limits", func() {
		customerToken := s.LoginAs(s.T(), dbtest.CustomerEmail)
		adminToken := s.LoginAs(s.T(), dbtest.AdminEmail)
		key := uuid.New()
		s.beginPurchase(customerToken, dbtest.StarterPlanID, nil, key)

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, purchaseURL+"/"+key.String(), nil, adminToken)
		s.Equal(http.StatusForbidden, rec.Code)
	})
}

func (s *purchaseSuite) TestListPlans() {
	s.Run("only enabled plans are offered", func() {
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, plansURL, nil, "")
		s.Require().Equal(http.StatusOK, rec.Code)

		var plans []resdto.PlanResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &plans))
		s.Require().Len(plans, 2)
		for _, p := range plans {
			s.NotEqual("Legacy", p.Name)
		}
	})
}
