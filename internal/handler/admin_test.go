package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadready/roadready-api/internal/config"
	"github.com/roadready/roadready-api/internal/repository"
)

func newAdminHandler(t *testing.T) (*AdminHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := NewAdminHandler(config.Config{},
		repository.NewUserRepo(db),
		repository.NewRoleRepo(db),
		repository.NewTokenRepo(db),
		repository.NewBookingRepo(db),
		repository.NewBookingStatusRepo(db),
		repository.NewRefundRepo(db),
		repository.NewIssueRepo(db))
	return h, mock
}

func refundCtx(t *testing.T, adminID uint64, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/refunds", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", adminID)
	return c, rec
}

func expectBookingWithStatus(mock sqlmock.Sqlmock, bookingID uint64, status string, total float64) {
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("JOIN booking_statuses s ON s.id = b.status_id")).
		WithArgs(bookingID).
		WillReturnRows(sqlmock.NewRows(bookingWithStatusCols).
			AddRow(bookingID, 7, 9, 5, now, now.Add(24*time.Hour), now.Add(72*time.Hour), total, status))
}

func TestProcessRefundRejectsSecondRefund(t *testing.T) {
	h, mock := newAdminHandler(t)

	expectBookingWithStatus(mock, 42, "Cancelled - Refund Pending", 300)
	mock.ExpectQuery(regexp.QuoteMeta("FROM refunds WHERE booking_id=?")).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "issue_id", "amount",
			"reason", "admin_user_id", "refund_date"}).
			AddRow(11, 42, nil, 300.0, "late cancellation", 1, time.Now().UTC()))

	c, rec := refundCtx(t, 1, `{"bookingId":42,"reason":"duplicate request"}`)
	require.NoError(t, h.ProcessRefund(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already been refunded")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessRefundRejectsIneligibleStatus(t *testing.T) {
	h, mock := newAdminHandler(t)

	expectBookingWithStatus(mock, 42, "Confirmed", 300)

	c, rec := refundCtx(t, 1, `{"bookingId":42,"reason":"customer complaint"}`)
	require.NoError(t, h.ProcessRefund(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "does not allow a refund")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessRefundCreatesRefundAndMarksBooking(t *testing.T) {
	h, mock := newAdminHandler(t)

	expectBookingWithStatus(mock, 42, "Cancelled - Refund Pending", 300)
	mock.ExpectQuery(regexp.QuoteMeta("FROM refunds WHERE booking_id=?")).
		WithArgs(uint64(42)).
		WillReturnError(sql.ErrNoRows)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO refunds")).
		WithArgs(uint64(42), nil, 300.0, "late cancellation", uint64(1), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM booking_statuses WHERE name=?")).
		WithArgs("Cancelled - Refunded").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status_id=?")).
		WithArgs(uint8(7), uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, rec := refundCtx(t, 1, `{"bookingId":42,"reason":"late cancellation"}`)
	require.NoError(t, h.ProcessRefund(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"amount":300`)
	require.NoError(t, mock.ExpectationsWereMet())
}
