package tests

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/kasuku/academia/apps/api/echo"
	"github.com/kasuku/academia/core/payment"
)

func Test_paymentApi_create(t *testing.T) {
	db.Reset()
	token := getToken(t)

	stu := createStudent(t, "Amaka Obi", "0803 555 0101", "Enugu", "Fashion Design", "2024/2025")

	t.Run("Unknown student", func(t *testing.T) {
		body := marchallObj(t, payment.NewPayment{PaymentType: payment.TypePassportFee, Amount: "15000"})
		req, rec := newAuthRequest(http.MethodPost, "/payments/deadbeef", token, body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Unknown payment type", func(t *testing.T) {
		body := marchallObj(t, payment.NewPayment{PaymentType: "Tuition", Amount: "15000"})
		req, rec := newAuthRequest(http.MethodPost, "/payments/"+stu.ID, token, body)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var fldErrs map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fldErrs))
		assert.Contains(t, fldErrs, "payment_type")
	})

	t.Run("Non-numeric amount", func(t *testing.T) {
		body := marchallObj(t, payment.NewPayment{PaymentType: payment.TypePassportFee, Amount: "abc"})
		req, rec := newAuthRequest(http.MethodPost, "/payments/"+stu.ID, token, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"amount": "a positive number is required"}),
		}, rec)
	})

	t.Run("Negative amount", func(t *testing.T) {
		body := marchallObj(t, payment.NewPayment{PaymentType: payment.TypeGraduationFee, Amount: "-5"})
		req, rec := newAuthRequest(http.MethodPost, "/payments/"+stu.ID, token, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"amount": "a positive number is required"}),
		}, rec)
	})

	t.Run("OK", func(t *testing.T) {
		body := marchallObj(t, payment.NewPayment{PaymentType: payment.TypePassportFee, Amount: "15000"})
		req, rec := newAuthRequest(http.MethodPost, "/payments/"+stu.ID, token, body)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var pay payment.Payment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pay))
		assert.NotEmpty(t, pay.ID)
		assert.Equal(t, stu.ID, pay.StudentID)
		assert.Equal(t, 15000.0, pay.Amount)
		assert.True(t, strings.HasPrefix(pay.TransactionNumber, "TRX"))
		assert.Len(t, pay.TransactionNumber, 11)
		assert.False(t, pay.Date.IsZero())
	})

	t.Run("Record payment path", func(t *testing.T) {
		body := marchallObj(t, payment.NewPayment{PaymentType: payment.TypeGraduationFee, Amount: "30000"})
		req, rec := newAuthRequest(http.MethodPost, "/record_payment/"+stu.ID, token, body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

func Test_paymentApi_listReceiptDelete(t *testing.T) {
	db.Reset()
	token := getToken(t)

	stu := createStudent(t, "Chinedu Eze", "0803 555 0102", "Awka", "Catering", "2024/2025")
	pay1 := recordPayment(t, stu.ID, payment.TypePassportFee, "15000")
	pay2 := recordPayment(t, stu.ID, payment.TypeGraduationFee, "30000")

	t.Run("List for student", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/payments/"+stu.ID, token)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp echoapi.StudentPaymentsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, stu.ID, resp.Student.ID)
		require.Len(t, resp.Payments, 2)
		assert.ElementsMatch(t,
			[]string{pay1.ID, pay2.ID},
			[]string{resp.Payments[0].ID, resp.Payments[1].ID},
		)
	})

	t.Run("Receipt", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/receipt/"+pay1.ID, token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.ReceiptResponse{Payment: pay1, Student: stu}),
		}, rec)
	})

	t.Run("Receipt unknown", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/receipt/deadbeef", token)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/delete_payment/"+pay2.ID, token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)

		req, rec = newAuthRequest(http.MethodGet, "/receipt/"+pay2.ID, token)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func Test_paymentApi_recordSearch(t *testing.T) {
	db.Reset()
	token := getToken(t)

	obi1 := createStudent(t, "Amaka Obi", "0803 555 0101", "Enugu", "Fashion Design", "2024/2025")
	obi2 := createStudent(t, "Amara Obi", "0803 555 0103", "Enugu", "Catering", "2023/2024")
	createStudent(t, "Chidi Okafor", "0803 555 0104", "Nsukka", "Fashion Design", "2024/2025")

	get := func(t *testing.T, search string) echoapi.RecordSearchResponse {
		t.Helper()
		path := "/record_payment"
		if search != "" {
			path += "?search=" + url.QueryEscape(search)
		}
		req, rec := newAuthRequest(http.MethodGet, path, token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp echoapi.RecordSearchResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp
	}

	t.Run("All matches returned", func(t *testing.T) {
		resp := get(t, "obi")
		require.Len(t, resp.Students, 2)
		assert.ElementsMatch(t,
			[]string{obi1.ID, obi2.ID},
			[]string{resp.Students[0].ID, resp.Students[1].ID},
		)
	})

	t.Run("No search term", func(t *testing.T) {
		resp := get(t, "")
		assert.Empty(t, resp.Students)
	})

	t.Run("No match", func(t *testing.T) {
		resp := get(t, "zzz")
		assert.Empty(t, resp.Students)
	})
}
