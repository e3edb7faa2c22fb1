package gate

// Predicate names used in logs and metrics.
const (
	PredicateCountry = "country"
	PredicateDevice  = "device"
	PredicateDate    = "date"
)

// Verdict records the outcome of each predicate for one request.
type Verdict struct {
	Country         string
	CountryResolved bool
	CountryAllowed  bool
	DeviceAllowed   bool
	DateChecked     bool
	DateValid       bool
}

// Passed reports whether every applicable predicate held.
func (v Verdict) Passed() bool {
	if v.DateChecked && !v.DateValid {
		return false
	}
	return v.CountryAllowed && v.DeviceAllowed
}

// FailedPredicates lists the predicates that did not hold.
func (v Verdict) FailedPredicates() []string {
	var failed []string
	if !v.CountryAllowed {
		failed = append(failed, PredicateCountry)
	}
	if !v.DeviceAllowed {
		failed = append(failed, PredicateDevice)
	}
	if v.DateChecked && !v.DateValid {
		failed = append(failed, PredicateDate)
	}
	return failed
}

// MissingFields returns the required fields that req leaves empty.
// This is pure domain logic - no I/O.
func MissingFields(p Policy, req Request) []Field {
	var missing []Field
	for _, f := range p.required {
		if req.Value(f) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// CountryPredicate holds iff a country was resolved and it is allow-listed.
func CountryPredicate(p Policy, country string, resolved bool) bool {
	return resolved && country != "" && p.CountryAllowed(country)
}

// DevicePredicate holds iff deviceType is one of the accepted device types.
func DevicePredicate(p Policy, deviceType string) bool {
	return p.DeviceAllowed(deviceType)
}

// DatePredicate holds iff clientDate parses and is on or after the threshold.
// A parse failure makes the predicate false; it is never an error.
func DatePredicate(p Policy, clientDate string) bool {
	d, err := ParseDate(clientDate)
	if err != nil {
		return false
	}
	return !d.Before(p.threshold)
}

// Decide evaluates every applicable predicate. It has no side effects.
func Decide(p Policy, req Request, country string, resolved bool) Verdict {
	v := Verdict{
		Country:         country,
		CountryResolved: resolved,
		CountryAllowed:  CountryPredicate(p, country, resolved),
		DeviceAllowed:   DevicePredicate(p, req.DeviceType),
		DateChecked:     p.ChecksDate(),
	}
	if v.DateChecked {
		v.DateValid = DatePredicate(p, req.ClientDate)
	}
	return v
}

// BuildResponse maps a verdict to the caller-facing payload: all or nothing.
func BuildResponse(v Verdict) Response {
	if v.Passed() {
		return Allowed()
	}
	return Denied()
}
