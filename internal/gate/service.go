package gate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"oceangate/internal/device"
	"oceangate/internal/gate/metrics"
	"oceangate/internal/gate/ports"
	"oceangate/internal/geo"
	dErrors "oceangate/pkg/domain-errors"
	"oceangate/pkg/requestcontext"
)

// DefaultLookupTimeout bounds a single geo lookup.
const DefaultLookupTimeout = 3 * time.Second

// Outcome labels.
const (
	OutcomeAllowed = "allowed"
	OutcomeDenied  = "denied"
	OutcomeInvalid = "invalid"
)

// Service evaluates decision requests against an immutable Policy. It holds
// no per-request state and is safe for concurrent use.
type Service struct {
	locator       ports.Locator
	policy        Policy
	logger        *slog.Logger
	metrics       *metrics.Metrics
	lookupTimeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLookupTimeout overrides DefaultLookupTimeout. Non-positive values are ignored.
func WithLookupTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.lookupTimeout = d
		}
	}
}

// New constructs a gate service.
func New(locator ports.Locator, policy Policy, opts ...Option) (*Service, error) {
	if locator == nil {
		return nil, errors.New("gate: locator is required")
	}
	s := &Service{
		locator:       locator,
		policy:        policy,
		logger:        slog.Default(),
		lookupTimeout: DefaultLookupTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Policy returns the policy the service evaluates against.
func (s *Service) Policy() Policy {
	return s.policy
}

// Evaluate runs the gate for one request. A request missing a required field
// fails with a validation error; every other outcome, including a failed geo
// lookup, is a normal Result.
func (s *Service) Evaluate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	requestID := requestcontext.RequestID(ctx)

	if missing := MissingFields(s.policy, req); len(missing) > 0 {
		s.metrics.IncrementOutcome(OutcomeInvalid, s.policy.Name())
		s.logger.InfoContext(ctx, "gate request rejected",
			"request_id", requestID,
			"ip", req.SourceIP,
			"device_type", req.DeviceType,
			"missing_fields", missing,
		)
		return nil, dErrors.New(dErrors.CodeValidation, MessageMissingParameters)
	}

	country, resolved := s.lookupCountry(ctx, req.SourceIP)
	verdict := Decide(s.policy, req, country, resolved)
	result := &Result{Response: BuildResponse(verdict), Verdict: verdict}

	outcome := OutcomeDenied
	if verdict.Passed() {
		outcome = OutcomeAllowed
	}
	for _, p := range verdict.FailedPredicates() {
		s.metrics.IncrementPredicateFailure(p)
	}
	s.metrics.IncrementOutcome(outcome, s.policy.Name())
	s.metrics.ObserveEvaluateLatency(time.Since(start))

	hint := device.Describe(req.UserAgent)
	attrs := []any{
		"request_id", requestID,
		"profile", s.policy.Name(),
		"ip", req.SourceIP,
		"device_type", req.DeviceType,
		"app_version", req.AppVersion,
		"client_date", req.ClientDate,
		"user_agent", hint.Summary,
		"mobile", hint.Mobile,
		"bot", hint.Bot,
		"country", country,
		"ip_allowed", verdict.CountryAllowed,
		"device_allowed", verdict.DeviceAllowed,
	}
	if verdict.DateChecked {
		attrs = append(attrs, "date_valid", verdict.DateValid)
	}
	attrs = append(attrs,
		"outcome", outcome,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	s.logger.InfoContext(ctx, "gate evaluated", attrs...)

	return result, nil
}

// lookupCountry resolves ip to a country code. Every failure maps to
// ("", false) so the country predicate simply fails.
func (s *Service) lookupCountry(ctx context.Context, ip string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	start := time.Now()
	res, err := s.locator.Locate(ctx, ip)
	elapsed := time.Since(start)

	if err != nil {
		category := geo.Category(err)
		s.metrics.ObserveLookup(string(category), elapsed)
		s.logger.WarnContext(ctx, "geo lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"ip", ip,
			"category", category,
			"error", err,
		)
		return "", false
	}
	if res.CountryCode == "" {
		s.metrics.ObserveLookup("no_country", elapsed)
		return "", false
	}

	s.metrics.ObserveLookup("ok", elapsed)
	return res.CountryCode, true
}
