package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shareloop/service-booking/internal/application"
	"github.com/shareloop/service-booking/internal/domain/booking"
	"github.com/shareloop/service-booking/internal/domain/item"
	"github.com/shareloop/service-booking/internal/domain/user"
	"github.com/shareloop/service-booking/internal/events"
	"github.com/shareloop/service-booking/internal/handler"
	"github.com/shareloop/service-booking/internal/repository/inmemory"
)

const sharerHeader = "X-Sharer-User-Id"

type testEnv struct {
	router *gin.Engine
	users  *inmemory.UserDirectory
	items  *inmemory.ItemDirectory
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := inmemory.NewBookingStore()
	users := inmemory.NewUserDirectory()
	items := inmemory.NewItemDirectory()
	logger := zap.NewNop()

	bookingSvc := application.NewBookingService(store, users, items, events.NopPublisher{}, nil, logger)
	availability := application.NewAvailabilityService(store, nil, logger)
	itemSvc := application.NewItemService(items, availability, logger)

	router := gin.New()
	root := router.Group("")
	handler.NewBookingHandler(bookingSvc).RegisterRoutes(root)
	handler.NewItemHandler(itemSvc).RegisterRoutes(root)
	handler.NewAdminBookingHandler(bookingSvc).RegisterRoutes(root)

	return &testEnv{router: router, users: users, items: items}
}

func (e *testEnv) addUser() uuid.UUID {
	id := uuid.New()
	e.users.Put(user.User{ID: id, Name: "user"})
	return id
}

func (e *testEnv) addItem(ownerID uuid.UUID, available bool) uuid.UUID {
	id := uuid.New()
	e.items.Put(item.Item{ID: id, Name: "item", Available: available, OwnerID: ownerID})
	return id
}

func (e *testEnv) do(t *testing.T, method, path string, sharer uuid.UUID, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sharer != uuid.Nil {
		req.Header.Set(sharerHeader, sharer.String())
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) createBooking(t *testing.T, booker, itemID uuid.UUID) application.BookingDTO {
	t.Helper()
	start := time.Now().UTC().Add(time.Hour)
	rec := e.do(t, http.MethodPost, "/bookings", booker, application.CreateBookingRequest{
		ItemID: itemID, Start: start, End: start.Add(time.Hour),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var dto application.BookingDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	return dto
}

func TestCreateBooking_Created(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addUser()
	booker := env.addUser()
	itemID := env.addItem(owner, true)

	dto := env.createBooking(t, booker, itemID)

	assert.Equal(t, booking.StatusWaiting, dto.Status)
	assert.Equal(t, itemID, dto.ItemID)
	assert.Equal(t, booker, dto.BookerID)
}

func TestCreateBooking_MissingSharerHeader(t *testing.T) {
	env := newTestEnv(t)
	start := time.Now().UTC().Add(time.Hour)

	rec := env.do(t, http.MethodPost, "/bookings", uuid.Nil, application.CreateBookingRequest{
		ItemID: uuid.New(), Start: start, End: start.Add(time.Hour),
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBooking_MalformedBody(t *testing.T) {
	env := newTestEnv(t)
	booker := env.addUser()

	req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(sharerHeader, booker.String())
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBooking_UnknownItemIs404(t *testing.T) {
	env := newTestEnv(t)
	booker := env.addUser()
	start := time.Now().UTC().Add(time.Hour)

	rec := env.do(t, http.MethodPost, "/bookings", booker, application.CreateBookingRequest{
		ItemID: uuid.New(), Start: start, End: start.Add(time.Hour),
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateBooking_UnavailableItemIs400(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addUser()
	booker := env.addUser()
	itemID := env.addItem(owner, false)
	start := time.Now().UTC().Add(time.Hour)

	rec := env.do(t, http.MethodPost, "/bookings", booker, application.CreateBookingRequest{
		ItemID: itemID, Start: start, End: start.Add(time.Hour),
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBooking_SelfBookingIs404(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addUser()
	itemID := env.addItem(owner, true)
	start := time.Now().UTC().Add(time.Hour)

	rec := env.do(t, http.MethodPost, "/bookings", owner, application.CreateBookingRequest{
		ItemID: itemID, Start: start, End: start.Add(time.Hour),
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetBooking_VisibilityAndErrors(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addUser()
	booker := env.addUser()
	stranger := env.addUser()
	itemID := env.addItem(owner, true)
	dto := env.createBooking(t, booker, itemID)

	rec := env.do(t, http.MethodGet, "/bookings/"+dto.ID.String(), booker, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/bookings/"+dto.ID.String(), owner, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Hidden from unrelated users.
	rec = env.do(t, http.MethodGet, "/bookings/"+dto.ID.String(), stranger, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/bookings/not-a-uuid", booker, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApproveBooking_Flow(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addUser()
	booker := env.addUser()
	itemID := env.addItem(owner, true)
	dto := env.createBooking(t, booker, itemID)
	path := fmt.Sprintf("/bookings/%s?approved=true", dto.ID)

	// The booker cannot decide their own booking.
	rec := env.do(t, http.MethodPatch, path, booker, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPatch, path, owner, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var approved application.BookingDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &approved))
	assert.Equal(t, booking.StatusApproved, approved.Status)

	// Deciding an approved booking again is rejected.
	rec = env.do(t, http.MethodPatch, path, owner, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApproveBooking_InvalidApprovedParam(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addUser()
	booker := env.addUser()
	itemID := env.addItem(owner, true)
	dto := env.createBooking(t, booker, itemID)

	rec := env.do(t, http.MethodPatch, fmt.Sprintf("/bookings/%s?approved=maybe", dto.ID), owner, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/bookings/%s", dto.ID), owner, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListBookings_ByBookerAndOwner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addUser()
	booker := env.addUser()
	itemID := env.addItem(owner, true)
	dto := env.createBooking(t, booker, itemID)

	rec := env.do(t, http.MethodGet, "/bookings?state=WAITING", booker, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []application.BookingDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, dto.ID, list[0].ID)

	rec = env.do(t, http.MethodGet, "/bookings/owner", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	// The owner made no bookings of their own.
	rec = env.do(t, http.MethodGet, "/bookings", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Empty(t, list)
}

func TestListBookings_UnknownStateIs400(t *testing.T) {
	env := newTestEnv(t)
	booker := env.addUser()

	rec := env.do(t, http.MethodGet, "/bookings?state=SOMETIMES", booker, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown state: SOMETIMES")
}

func TestListBookings_UnknownUserIs404(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/bookings", uuid.New(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetItem_OwnerView(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addUser()
	booker := env.addUser()
	itemID := env.addItem(owner, true)
	dto := env.createBooking(t, booker, itemID)

	// WAITING bookings never surface in the schedule.
	rec := env.do(t, http.MethodGet, "/items/"+itemID.String(), owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view application.ItemDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Nil(t, view.NextBooking)

	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/bookings/%s?approved=true", dto.ID), owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/items/"+itemID.String(), owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view = application.ItemDTO{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.NotNil(t, view.NextBooking)
	assert.Equal(t, dto.ID, view.NextBooking.ID)
}

func TestAdminEndpoints(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addUser()
	booker := env.addUser()
	itemID := env.addItem(owner, true)
	env.createBooking(t, booker, itemID)

	rec := env.do(t, http.MethodGet, "/admin/bookings?from=0&size=10", uuid.Nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Items []application.BookingDTO `json:"items"`
		Total int64                    `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.Total)
	assert.Len(t, page.Items, 1)

	rec = env.do(t, http.MethodGet, "/admin/bookings/stats", uuid.Nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats application.BookingStatsDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.TotalBookings)
}
