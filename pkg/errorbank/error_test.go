package errorbank_test

import (
	"errors"
	"net/http"
	"testing"

	"google.golang.org/grpc/codes"

	"github.com/Additional-Code/orderdesk/pkg/errorbank"
)

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err        *errorbank.AppError
		wantStatus int
		wantGRPC   codes.Code
	}{
		{errorbank.BadRequest(""), http.StatusBadRequest, codes.InvalidArgument},
		{errorbank.Conflict(""), http.StatusConflict, codes.AlreadyExists},
		{errorbank.NotFound(""), http.StatusNotFound, codes.NotFound},
		{errorbank.PreconditionRequired(""), http.StatusPreconditionRequired, codes.FailedPrecondition},
		{errorbank.Unprocessable(""), http.StatusUnprocessableEntity, codes.FailedPrecondition},
		{errorbank.Internal(""), http.StatusInternalServerError, codes.Internal},
	}

	for _, tc := range cases {
		t.Run(string(tc.err.Kind()), func(t *testing.T) {
			if got := tc.err.StatusCode(); got != tc.wantStatus {
				t.Errorf("StatusCode() = %d, want %d", got, tc.wantStatus)
			}
			if got := tc.err.GRPCCode(); got != tc.wantGRPC {
				t.Errorf("GRPCCode() = %v, want %v", got, tc.wantGRPC)
			}
		})
	}
}

func TestEmptyMessageDefaultsToKind(t *testing.T) {
	if got := errorbank.NotFound("").Message(); got != "not_found" {
		t.Errorf("Message() = %q, want kind name", got)
	}
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	cause := errors.New("boom")
	appErr := errorbank.From(cause)

	if appErr.Kind() != errorbank.KindInternal {
		t.Errorf("Kind() = %v, want internal", appErr.Kind())
	}
	if !errors.Is(appErr, cause) {
		t.Error("wrapped cause lost")
	}
}

func TestFromUnwrapsNestedAppError(t *testing.T) {
	inner := errorbank.PreconditionRequired("confirm first")
	wrapped := errorbank.From(inner)

	if wrapped != inner {
		t.Error("From should return the existing AppError, not rewrap it")
	}
	if errorbank.From(nil) != nil {
		t.Error("From(nil) should be nil")
	}
}

func TestWithDetail(t *testing.T) {
	err := errorbank.BadRequest("bad", errorbank.WithDetail("field", "total"))
	if got := err.Details()["field"]; got != "total" {
		t.Errorf("Details()[field] = %v, want total", got)
	}
}
