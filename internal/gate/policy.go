package gate

import (
	"errors"
	"fmt"
	"slices"
	"time"

	pstrings "oceangate/pkg/platform/strings"
)

// Built-in profile names.
const (
	ProfileStrict = "strict"
	ProfileBasic  = "basic"
)

// DefaultThresholdDate is the threshold compiled into the strict profile.
const DefaultThresholdDate = "25.02.2026"

var defaultDevices = []string{"iPhone", "iOS"}

// PolicyConfig is the raw description of a policy. NewPolicy normalizes and
// validates it into an immutable Policy.
type PolicyConfig struct {
	Name             string
	AllowedCountries []string
	AllowedDevices   []string
	RequiredFields   []Field
	CheckDate        bool
	ThresholdDate    string
	HealthDetails    bool
}

// Policy is the immutable rule set a Service evaluates against. It is built
// once at startup and shared read-only by every request.
type Policy struct {
	name          string
	countries     map[string]struct{}
	countryList   []string
	devices       map[string]struct{}
	required      []Field
	checkDate     bool
	threshold     time.Time
	thresholdRaw  string
	healthDetails bool
}

// NewPolicy validates cfg and returns the resulting Policy.
func NewPolicy(cfg PolicyConfig) (Policy, error) {
	countries := pstrings.DedupeAndTrimUpper(cfg.AllowedCountries)
	if len(countries) == 0 {
		return Policy{}, errors.New("policy: at least one allowed country is required")
	}

	devices := pstrings.DedupeAndTrim(cfg.AllowedDevices)
	if len(devices) == 0 {
		devices = defaultDevices
	}

	for _, f := range cfg.RequiredFields {
		switch f {
		case FieldDeviceType, FieldAppVersion, FieldClientDate:
		default:
			return Policy{}, fmt.Errorf("policy: unknown required field %q", f)
		}
	}

	p := Policy{
		name:          cfg.Name,
		countries:     pstrings.Set(countries),
		countryList:   countries,
		devices:       pstrings.Set(devices),
		required:      slices.Clone(cfg.RequiredFields),
		checkDate:     cfg.CheckDate,
		healthDetails: cfg.HealthDetails,
	}

	if cfg.CheckDate {
		threshold, err := ParseDate(cfg.ThresholdDate)
		if err != nil {
			return Policy{}, fmt.Errorf("policy: threshold date: %w", err)
		}
		p.threshold = threshold
		p.thresholdRaw = cfg.ThresholdDate
	}

	return p, nil
}

// StrictConfig requires every field, checks the client date against the
// threshold and admits US and RU.
func StrictConfig() PolicyConfig {
	return PolicyConfig{
		Name:             ProfileStrict,
		AllowedCountries: []string{"US", "RU"},
		AllowedDevices:   defaultDevices,
		RequiredFields:   []Field{FieldDeviceType, FieldAppVersion, FieldClientDate},
		CheckDate:        true,
		ThresholdDate:    DefaultThresholdDate,
		HealthDetails:    true,
	}
}

// BasicConfig checks only country and device.
func BasicConfig() PolicyConfig {
	return PolicyConfig{
		Name:             ProfileBasic,
		AllowedCountries: []string{"US", "CA", "GB", "DE", "FR", "RU"},
		AllowedDevices:   defaultDevices,
	}
}

// PolicyForProfile builds one of the built-in profiles.
func PolicyForProfile(name string) (Policy, error) {
	switch name {
	case ProfileStrict, "":
		return NewPolicy(StrictConfig())
	case ProfileBasic:
		return NewPolicy(BasicConfig())
	default:
		return Policy{}, fmt.Errorf("unknown gate profile %q", name)
	}
}

func (p Policy) Name() string { return p.name }

// CountryAllowed reports whether code is on the allow-list. Matching is exact.
func (p Policy) CountryAllowed(code string) bool {
	_, ok := p.countries[code]
	return ok
}

// AllowedCountries returns the normalized allow-list in configuration order.
func (p Policy) AllowedCountries() []string {
	return slices.Clone(p.countryList)
}

// DeviceAllowed reports whether deviceType is accepted. Matching is exact and
// case-sensitive.
func (p Policy) DeviceAllowed(deviceType string) bool {
	_, ok := p.devices[deviceType]
	return ok
}

func (p Policy) RequiredFields() []Field {
	return slices.Clone(p.required)
}

// ChecksDate reports whether the date predicate applies.
func (p Policy) ChecksDate() bool { return p.checkDate }

// Threshold is the parsed threshold date; zero when ChecksDate is false.
func (p Policy) Threshold() time.Time { return p.threshold }

// ThresholdDate is the threshold as configured (DD.MM.YYYY).
func (p Policy) ThresholdDate() string { return p.thresholdRaw }

// HealthDetails reports whether the health probe includes time and threshold.
func (p Policy) HealthDetails() bool { return p.healthDetails }
