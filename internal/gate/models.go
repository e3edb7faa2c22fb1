package gate

// Field names a request field that a policy may require.
type Field string

const (
	FieldDeviceType Field = "deviceType"
	FieldAppVersion Field = "appVersion"
	FieldClientDate Field = "clientDate"
)

// MessageInternalError is the only detail callers see for unexpected failures.
const MessageInternalError = "Internal server error"

// MessageMissingParameters is returned to callers when a required field is absent.
const MessageMissingParameters = "Missing required parameters"

// Payload of an allowed decision.
const (
	allowedMy = "google"
	allowedTy = ".com"
)

// Request is one decision request. AppVersion and ClientDate are empty when
// the caller did not send them.
type Request struct {
	DeviceType string
	AppVersion string
	ClientDate string
	SourceIP   string
	UserAgent  string
}

// Value returns the raw value of a policy field.
func (r Request) Value(f Field) string {
	switch f {
	case FieldDeviceType:
		return r.DeviceType
	case FieldAppVersion:
		return r.AppVersion
	case FieldClientDate:
		return r.ClientDate
	default:
		return ""
	}
}

// Response is the decision payload returned to callers.
type Response struct {
	Ocean bool   `json:"ocean"`
	My    string `json:"my"`
	Ty    string `json:"ty"`
	Error string `json:"error,omitempty"`
}

// Allowed is the payload for a request that passed every predicate.
func Allowed() Response {
	return Response{Ocean: true, My: allowedMy, Ty: allowedTy}
}

// Denied is the payload for every other outcome.
func Denied() Response {
	return Response{}
}

// DeniedWithError is a denial carrying an error marker for the caller.
func DeniedWithError(msg string) Response {
	return Response{Error: msg}
}

// Result is the outcome of one evaluation.
type Result struct {
	Response Response
	Verdict  Verdict
}
