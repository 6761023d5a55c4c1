package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xn-coder/EstateFlow-sub000/models"
	"github.com/xn-coder/EstateFlow-sub000/services"
)

type stubConfirmer struct {
	result    *services.Result
	err       error
	calledID  string
	callCount int
}

func (s *stubConfirmer) ConfirmEnquiry(_ context.Context, enquiryID string) (*services.Result, error) {
	s.calledID = enquiryID
	s.callCount++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func confirmRequest(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/orders/confirm-enquiry", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestConfirmEnquirySuccess(t *testing.T) {
	stub := &stubConfirmer{result: &services.Result{Message: "Enquiry settled"}}
	oc := NewOrderController(stub, nil, nil)

	c, rec := confirmRequest(t, `{"enquiryId":"66f0c0ffee0000000000abcd"}`)
	require.NoError(t, oc.ConfirmEnquiry(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "66f0c0ffee0000000000abcd", stub.calledID)

	var resp models.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Enquiry settled", resp.Message)
}

func TestConfirmEnquiryAlreadyProcessed(t *testing.T) {
	stub := &stubConfirmer{result: &services.Result{
		Message:          "Enquiry already processed",
		AlreadyProcessed: true,
	}}
	oc := NewOrderController(stub, nil, nil)

	c, rec := confirmRequest(t, `{"enquiryId":"66f0c0ffee0000000000abcd"}`)
	require.NoError(t, oc.ConfirmEnquiry(c))

	// Idempotent re-confirmation still reports success.
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestConfirmEnquiryErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing id", services.ErrEnquiryIDRequired, http.StatusBadRequest},
		{"unknown enquiry", services.ErrEnquiryNotFound, http.StatusNotFound},
		{"catalog gone", services.ErrCatalogNotFound, http.StatusNotFound},
		{"partner gone", services.ErrPartnerNotFound, http.StatusNotFound},
		{"profile gone", services.ErrPartnerProfileNotFound, http.StatusNotFound},
		{"profile not linked", services.ErrMissingPartnerProfile, http.StatusPreconditionFailed},
		{"storage failure", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubConfirmer{err: tt.err}
			oc := NewOrderController(stub, nil, nil)

			c, rec := confirmRequest(t, `{"enquiryId":"66f0c0ffee0000000000abcd"}`)
			require.NoError(t, oc.ConfirmEnquiry(c))

			assert.Equal(t, tt.want, rec.Code)

			var resp models.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.err.Error(), resp.Message)
		})
	}
}

func TestConfirmEnquiryBadBody(t *testing.T) {
	stub := &stubConfirmer{result: &services.Result{Message: "unreachable"}}
	oc := NewOrderController(stub, nil, nil)

	c, rec := confirmRequest(t, `{"enquiryId": 42}`)
	require.NoError(t, oc.ConfirmEnquiry(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, stub.callCount)
}
