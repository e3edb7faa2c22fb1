package handler

import (
	"bytes"
	"encoding/json"
	"strconv"

	"oceangate/internal/gate"
)

// CheckRequest is the HTTP request body for POST /api/check. Absent, null and
// other falsy fields decode to the empty string, which the gate treats as
// missing. An empty body decodes to the zero CheckRequest.
type CheckRequest struct {
	DeviceType FieldValue `json:"deviceType"`
	AppVersion FieldValue `json:"appVersion"`
	ClientDate FieldValue `json:"clientDate"`
}

// FieldValue accepts any JSON value. Strings are kept as sent. null, false and
// zero are treated as absent. Any other value counts as present and is kept as
// its JSON text, so it can satisfy a presence check but never matches a device
// type or parses as a date.
type FieldValue string

func (f *FieldValue) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 {
		*f = ""
		return nil
	}

	switch c := raw[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*f = FieldValue(s)
	case bytes.Equal(raw, []byte("null")), bytes.Equal(raw, []byte("false")):
		*f = ""
	case c == '-' || (c >= '0' && c <= '9'):
		if n, err := strconv.ParseFloat(string(raw), 64); err == nil && n == 0 {
			*f = ""
			return nil
		}
		*f = FieldValue(raw)
	default:
		*f = FieldValue(raw)
	}
	return nil
}

// ToDomain builds the gate request. ip and userAgent come from the transport,
// never from the body.
func (r *CheckRequest) ToDomain(ip, userAgent string) gate.Request {
	return gate.Request{
		DeviceType: string(r.DeviceType),
		AppVersion: string(r.AppVersion),
		ClientDate: string(r.ClientDate),
		SourceIP:   ip,
		UserAgent:  userAgent,
	}
}
