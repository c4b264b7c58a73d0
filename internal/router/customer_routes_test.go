package router

import (
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

	"github.com/roadready/roadready-api/internal/handler"
	"github.com/roadready/roadready-api/internal/model"
	"github.com/roadready/roadready-api/internal/repository"
	"github.com/roadready/roadready-api/internal/utils"
)

const testJWTSecret = "routes-test-secret"

func newCustomerRouter(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := repository.NewUserRepo(db)
	roles := repository.NewRoleRepo(db)
	vehicles := repository.NewVehicleRepo(db)
	extras := repository.NewExtraRepo(db)
	bookings := repository.NewBookingRepo(db)
	statuses := repository.NewBookingStatusRepo(db)
	payments := repository.NewPaymentRepo(db)
	reviews := repository.NewReviewRepo(db)
	issues := repository.NewIssueRepo(db)

	e := echo.New()
	RegisterCustomer(e,
		handler.NewProfileHandler(users, roles),
		handler.NewBookingHandler(users, vehicles, extras, bookings, statuses, payments),
		handler.NewReviewHandler(reviews, bookings, vehicles),
		handler.NewIssueHandler(issues, bookings),
		testJWTSecret)
	return e, mock
}

func doAs(t *testing.T, e *echo.Echo, role, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	access, err := utils.NewAccessToken(testJWTSecret, 1, role, 15)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+access.Token)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestBookingRoutesAreCustomerOnly(t *testing.T) {
	e, mock := newCustomerRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/bookings/initiate"},
		{http.MethodPost, "/api/bookings/42/confirm-payment"},
		{http.MethodGet, "/api/bookings/my-bookings"},
		{http.MethodGet, "/api/bookings/42"},
		{http.MethodPut, "/api/bookings/42/cancel"},
		{http.MethodPost, "/api/reviews"},
		{http.MethodPost, "/api/issues"},
		{http.MethodGet, "/api/issues/my-issues"},
	}
	for _, role := range []string{model.RoleAdmin, model.RoleRentalAgent} {
		for _, p := range paths {
			rec := doAs(t, e, role, p.method, p.path, "")
			assert.Equalf(t, http.StatusForbidden, rec.Code,
				"%s must not reach %s %s", role, p.method, p.path)
		}
	}
	require.NoError(t, mock.ExpectationsWereMet(), "forbidden requests must not touch the database")
}

func TestBookingRoutesAdmitCustomers(t *testing.T) {
	e, mock := newCustomerRouter(t)

	// an empty body passes the role gate and fails handler validation instead
	rec := doAs(t, e, model.RoleCustomer, http.MethodPost, "/api/bookings/initiate", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "vehicleId is required")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileOpenToAllRoles(t *testing.T) {
	e, mock := newCustomerRouter(t)

	now := time.Now().UTC()
	for _, role := range []string{model.RoleCustomer, model.RoleAdmin, model.RoleRentalAgent} {
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id=?")).
			WithArgs(uint64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email",
				"password_hash", "phone_number", "address", "city", "state", "postal_code",
				"reset_token_hash", "reset_token_expires", "created_at", "updated_at"}).
				AddRow(1, "Priya", "Raman", "priya@example.com", "hash",
					nil, nil, nil, nil, nil, nil, nil, now, now))
		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY ur.role_id LIMIT 1")).
			WithArgs(uint64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow(role))

		rec := doAs(t, e, role, http.MethodGet, "/api/profile/me", "")
		assert.Equalf(t, http.StatusOK, rec.Code, "%s must be able to read their profile", role)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}
