package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"oceangate/internal/gate"
	gatehandler "oceangate/internal/gate/handler"
	gatemetrics "oceangate/internal/gate/metrics"
	"oceangate/internal/geo"
	"oceangate/internal/health"
	"oceangate/internal/platform/metrics"
	"oceangate/internal/platform/middleware"
	"oceangate/pkg/testutil"
)

// staticLocator answers from a fixed table and records the IPs it was asked.
type staticLocator struct {
	countries map[string]string
	err       error
	asked     []string
}

func (l *staticLocator) Locate(_ context.Context, ip string) (geo.Result, error) {
	l.asked = append(l.asked, ip)
	if l.err != nil {
		return geo.Result{}, l.err
	}
	return geo.Result{CountryCode: l.countries[ip], Source: "static"}, nil
}

type panicRoute struct{}

func (panicRoute) Register(r chi.Router) {
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("kaboom") })
}

type RouterSuite struct {
	suite.Suite
	locator *staticLocator
	logs    *bytes.Buffer
	router  http.Handler
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.locator = &staticLocator{countries: map[string]string{
		"8.8.8.8":   "US",
		"5.255.0.1": "RU",
		"81.2.69.1": "GB",
	}}
	s.router = s.build("strict")
}

func (s *RouterSuite) build(profile string) http.Handler {
	s.logs = &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(s.logs, nil))
	reg := prometheus.NewRegistry()

	policy, err := gate.PolicyForProfile(profile)
	s.Require().NoError(err)
	svc, err := gate.New(s.locator, policy,
		gate.WithLogger(logger),
		gate.WithMetrics(gatemetrics.New(reg)),
		gate.WithLookupTimeout(time.Second),
	)
	s.Require().NoError(err)

	return NewRouter(Deps{
		Logger:   logger,
		Metrics:  metrics.NewHTTP(reg),
		Gatherer: reg,
		Handlers: []Registrar{
			gatehandler.New(svc, logger),
			health.New(health.Options{Details: policy.HealthDetails(), ThresholdDate: policy.ThresholdDate()}),
			panicRoute{},
		},
	})
}

func (s *RouterSuite) check(body any, remoteAddr, xff string) (int, map[string]any) {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/check", body)
	testutil.WithForwardedFor(req, remoteAddr, xff)
	rr := testutil.DoRequest(s.router, req)

	var out map[string]any
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return rr.Code, out
}

func validBody() map[string]string {
	return map[string]string{"deviceType": "iPhone", "appVersion": "1.0", "clientDate": "01.03.2026"}
}

func (s *RouterSuite) TestAllowedFromForwardedFor() {
	code, body := s.check(validBody(), "10.0.0.1:5555", "8.8.8.8, 10.0.0.1")

	s.Equal(http.StatusOK, code)
	s.Equal(map[string]any{"ocean": true, "my": "google", "ty": ".com"}, body)
	s.Equal([]string{"8.8.8.8"}, s.locator.asked)
}

func (s *RouterSuite) TestPeerAddressUsedWithoutForwardedFor() {
	code, body := s.check(validBody(), "5.255.0.1:40000", "")

	s.Equal(http.StatusOK, code)
	s.Equal(true, body["ocean"])
	s.Equal([]string{"5.255.0.1"}, s.locator.asked)
}

func (s *RouterSuite) TestCountryOutsideAllowListDenied() {
	code, body := s.check(validBody(), "81.2.69.1:1", "")

	s.Equal(http.StatusOK, code)
	s.Equal(map[string]any{"ocean": false, "my": "", "ty": ""}, body)
}

func (s *RouterSuite) TestDateBeforeThresholdDenied() {
	b := validBody()
	b["clientDate"] = "24.02.2026"
	_, body := s.check(b, "8.8.8.8:1", "")
	s.Equal(false, body["ocean"])
}

func (s *RouterSuite) TestLocatorOutageDenied() {
	s.locator.err = errors.New("connection refused")
	code, body := s.check(validBody(), "8.8.8.8:1", "")

	s.Equal(http.StatusOK, code)
	s.Equal(false, body["ocean"])
	s.NotContains(body, "error")
}

func (s *RouterSuite) TestMissingFieldIs400() {
	code, body := s.check(map[string]string{"deviceType": "iPhone"}, "8.8.8.8:1", "")

	s.Equal(http.StatusBadRequest, code)
	s.Equal(map[string]any{"ocean": false, "my": "", "ty": "", "error": "Missing required parameters"}, body)
	s.Empty(s.locator.asked)
}

func (s *RouterSuite) TestBasicProfileNeverReturns400() {
	s.router = s.build("basic")
	code, body := s.check(map[string]string{"deviceType": "iOS"}, "81.2.69.1:1", "")

	s.Equal(http.StatusOK, code)
	s.Equal(true, body["ocean"])
}

func (s *RouterSuite) TestMalformedBodyIs500() {
	req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/check", `["iPhone"]`)
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusInternalServerError, rr.Code)
	s.JSONEq(`{"ocean":false,"my":"","ty":"","error":"Internal server error"}`, rr.Body.String())
}

func (s *RouterSuite) postRaw(body string) (int, map[string]any) {
	req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/check", body)
	testutil.WithForwardedFor(req, "8.8.8.8:1", "")
	rr := testutil.DoRequest(s.router, req)

	var out map[string]any
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return rr.Code, out
}

func (s *RouterSuite) TestEmptyBodyIsMissingParametersUnderStrict() {
	code, body := s.postRaw(``)

	s.Equal(http.StatusBadRequest, code)
	s.Equal(map[string]any{"ocean": false, "my": "", "ty": "", "error": "Missing required parameters"}, body)
	s.Empty(s.locator.asked)
}

func (s *RouterSuite) TestEmptyBodyIsDeniedUnderBasic() {
	s.router = s.build("basic")
	code, body := s.postRaw(``)

	s.Equal(http.StatusOK, code)
	s.Equal(map[string]any{"ocean": false, "my": "", "ty": ""}, body)
}

func (s *RouterSuite) TestNumericAppVersionCountsAsPresent() {
	code, body := s.postRaw(`{"deviceType":"iPhone","appVersion":1,"clientDate":"26.02.2026"}`)

	s.Equal(http.StatusOK, code)
	s.Equal(map[string]any{"ocean": true, "my": "google", "ty": ".com"}, body)
}

func (s *RouterSuite) TestFalsyFieldIsMissing() {
	code, body := s.postRaw(`{"deviceType":"iPhone","appVersion":0,"clientDate":"26.02.2026"}`)

	s.Equal(http.StatusBadRequest, code)
	s.Equal("Missing required parameters", body["error"])
}

func (s *RouterSuite) TestPanicIsRecoveredAs500() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/boom"))

	s.Equal(http.StatusInternalServerError, rr.Code)
	s.JSONEq(`{"ocean":false,"my":"","ty":"","error":"Internal server error"}`, rr.Body.String())
	s.NotContains(rr.Body.String(), "kaboom")
	s.Contains(s.logs.String(), "kaboom")
}

func (s *RouterSuite) TestHealthDoesNotCallLocator() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/health"))

	s.Equal(http.StatusOK, rr.Code)
	var body map[string]string
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &body))
	s.Equal("OK", body["status"])
	s.Equal("25.02.2026", body["thresholdDate"])
	s.NotEmpty(body["timestamp"])
	s.Empty(s.locator.asked)
}

func (s *RouterSuite) TestRequestIDEchoed() {
	req := testutil.NewRequest(s.T(), http.MethodGet, "/health")
	req.Header.Set(middleware.RequestIDHeader, "trace-42")
	rr := testutil.DoRequest(s.router, req)

	s.Equal("trace-42", rr.Header().Get(middleware.RequestIDHeader))
}

func (s *RouterSuite) TestMetricsExposed() {
	s.check(validBody(), "8.8.8.8:1", "")
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/metrics"))

	s.Equal(http.StatusOK, rr.Code)
	s.True(strings.Contains(rr.Body.String(), "oceangate_http_request_duration_seconds"))
}

func (s *RouterSuite) TestUnknownRouteAndMethod() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/other"))
	s.Equal(http.StatusNotFound, rr.Code)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/check"))
	s.Equal(http.StatusMethodNotAllowed, rr.Code)
}

func TestNewRouterWithoutGatherer(t *testing.T) {
	r := NewRouter(Deps{Handlers: []Registrar{health.New(health.Options{})}})

	rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/metrics"))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/health"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"OK"}`, rr.Body.String())
}
