package handler

import (
	"net/http"

	"oceangate/internal/gate"
	"oceangate/pkg/platform/httputil"
)

// CheckResponse is the HTTP response for POST /api/check. It mirrors the
// domain payload field for field.
type CheckResponse struct {
	Ocean bool   `json:"ocean"`
	My    string `json:"my"`
	Ty    string `json:"ty"`
	Error string `json:"error,omitempty"`
}

// FromResponse converts a domain response to its HTTP shape.
func FromResponse(resp gate.Response) *CheckResponse {
	return &CheckResponse{
		Ocean: resp.Ocean,
		My:    resp.My,
		Ty:    resp.Ty,
		Error: resp.Error,
	}
}

// WriteInternalError writes the generic 500 denial. It is also used by the
// recovery middleware so panics produce the same well-formed payload.
func WriteInternalError(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusInternalServerError, FromResponse(gate.DeniedWithError(gate.MessageInternalError)))
}
