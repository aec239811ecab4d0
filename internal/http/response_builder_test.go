package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"moneymate/internal/core"
)

func TestResponseBuilder(t *testing.T) {
	tests := []struct {
		name       string
		build      func() *ResponseBuilder
		wantStatus int
		wantType   string
		wantBody   string
	}{
		{
			name:       "json",
			build:      func() *ResponseBuilder { return NewResponse().JSON(map[string]int{"count": 2}) },
			wantStatus: http.StatusOK,
			wantType:   contentTypeJSON,
			wantBody:   `{"count":2}`,
		},
		{
			name:       "error",
			build:      func() *ResponseBuilder { return NotFoundError(msgNotFound) },
			wantStatus: http.StatusNotFound,
			wantType:   contentTypeJSON,
			wantBody:   `{"message":"Transaction not found"}`,
		},
		{
			name: "validation",
			build: func() *ResponseBuilder {
				v := &core.ValidationError{}
				v.Add("amount", "Amount must be a positive number", core.ErrInvalidAmount)
				return ValidationErrorResponse(msgInvalidTransaction, v)
			},
			wantStatus: http.StatusBadRequest,
			wantType:   contentTypeJSON,
			wantBody:   `{"message":"Invalid transaction data","errors":[{"field":"amount","message":"Amount must be a positive number"}]}`,
		},
		{
			name:       "attachment",
			build:      func() *ResponseBuilder { return NewResponse().Attachment("a.csv", contentTypeCSV, []byte("x,y\n")) },
			wantStatus: http.StatusOK,
			wantType:   contentTypeCSV,
			wantBody:   "x,y",
		},
		{
			name:       "no content drops body",
			build:      func() *ResponseBuilder { return NewResponse().Status(http.StatusNoContent).JSON("ignored") },
			wantStatus: http.StatusNoContent,
			wantType:   contentTypeJSON,
		},
		{
			name:       "encode failure",
			build:      func() *ResponseBuilder { return NewResponse().JSON(make(chan int)) },
			wantStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.build().Write(rec)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantType != "" && rec.Header().Get("Content-Type") != tt.wantType {
				t.Errorf("Content-Type = %q, want %q", rec.Header().Get("Content-Type"), tt.wantType)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.wantBody && tt.wantBody != "" {
				t.Errorf("body = %q, want %q", got, tt.wantBody)
			}
		})
	}
}

func TestTooManyRequestsHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	TooManyRequestsError("12").Write(rec)
	if rec.Code != http.StatusTooManyRequests || rec.Header().Get("Retry-After") != "12" {
		t.Errorf("status = %d, Retry-After = %q", rec.Code, rec.Header().Get("Retry-After"))
	}
}
