//go:build unit

package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"theater-booking-api/internal/domain/booking"
	"theater-booking-api/internal/handler/api"
	"theater-booking-api/internal/infra"
	"theater-booking-api/internal/infra/archivestore"
	"theater-booking-api/internal/usecase/commands"
	"theater-booking-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

type fakeArchiveCommands struct {
	cancelled []booking.Snapshot
	completed []booking.Snapshot
	err       error
}

func (f *fakeArchiveCommands) ArchiveCancelled(_ context.Context, snap booking.Snapshot) error {
	if f.err != nil {
		return f.err
	}
	f.cancelled = append(f.cancelled, snap)
	return nil
}

func (f *fakeArchiveCommands) ArchiveCompleted(_ context.Context, snap booking.Snapshot) error {
	if f.err != nil {
		return f.err
	}
	f.completed = append(f.completed, snap)
	return nil
}

type fakeHistoryQueries struct {
	records []archivestore.Record
	err     error
}

func (f *fakeHistoryQueries) Archived(context.Context, string, string, string) ([]archivestore.Record, error) {
	return f.records, f.err
}

type ArchiveHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	commands *fakeArchiveCommands
	queries  *fakeHistoryQueries
}

func (s *ArchiveHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.commands = &fakeArchiveCommands{}
	s.queries = &fakeHistoryQueries{}

	archiveHandler := api.NewArchiveHandler(s.commands)
	historyHandler := api.NewHistoryHandler(s.queries)

	s.router.POST("/archive/cancelled", archiveHandler.ArchiveCancelled)
	s.router.POST("/archive/completed", archiveHandler.ArchiveCompleted)
	s.router.GET("/archive/:table/history", historyHandler.GetHistory)
}

func TestArchiveHandlerSuite(t *testing.T) {
	suite.Run(t, new(ArchiveHandlerTestSuite))
}

func (s *ArchiveHandlerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *ArchiveHandlerTestSuite) TestArchiveCancelled_OK() {
	w := s.do(http.MethodPost, "/archive/cancelled", `{"bookingId": "B100", "totalAmount": 5000}`)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"success":true`)
	s.Require().Len(s.commands.cancelled, 1)
	s.Equal("B100", s.commands.cancelled[0].BookingID)
}

func (s *ArchiveHandlerTestSuite) TestArchiveCompleted_OK() {
	w := s.do(http.MethodPost, "/archive/completed", `{"bookingId": "B200"}`)

	s.Equal(http.StatusOK, w.Code)
	s.Require().Len(s.commands.completed, 1)
	s.Equal("B200", s.commands.completed[0].BookingID)
}

func (s *ArchiveHandlerTestSuite) TestArchive_InvalidBody() {
	w := s.do(http.MethodPost, "/archive/cancelled", `{"bookingId": `)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), `"success":false`)
}

func (s *ArchiveHandlerTestSuite) TestArchive_MissingBookingID() {
	s.commands.err = infra.WrapRepoErr("cannot archive booking", archivestore.ErrMissingBookingID, infra.KindNotFound)

	w := s.do(http.MethodPost, "/archive/cancelled", `{"name": "Asha"}`)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "bookingId")
}

func (s *ArchiveHandlerTestSuite) TestArchive_OperationalDeleteFailed() {
	s.commands.err = commands.ErrOperationalDeleteFailed

	w := s.do(http.MethodPost, "/archive/cancelled", `{"bookingId": "B100"}`)

	s.Equal(http.StatusBadGateway, w.Code)
}

func (s *ArchiveHandlerTestSuite) TestArchive_InternalError() {
	s.commands.err = errors.New("archive store down")

	w := s.do(http.MethodPost, "/archive/completed", `{"bookingId": "B100"}`)

	s.Equal(http.StatusInternalServerError, w.Code)
}

func (s *ArchiveHandlerTestSuite) TestHistory_OK() {
	s.queries.records = []archivestore.Record{{"booking_id": "B100"}}

	w := s.do(http.MethodGet, "/archive/cancelled/history?from=2026-03-01&to=2026-03-05", "")

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"booking_id":"B100"`)
}

func (s *ArchiveHandlerTestSuite) TestHistory_EmptyIsArrayNotNull() {
	w := s.do(http.MethodGet, "/archive/completed/history?from=2026-03-01&to=2026-03-05", "")

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"records":[]`)
}

func (s *ArchiveHandlerTestSuite) TestHistory_MissingParams() {
	w := s.do(http.MethodGet, "/archive/cancelled/history?from=2026-03-01", "")

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ArchiveHandlerTestSuite) TestHistory_UnknownTable() {
	s.queries.err = queries.ErrUnknownTable

	w := s.do(http.MethodGet, "/archive/refunded/history?from=2026-03-01&to=2026-03-05", "")

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ArchiveHandlerTestSuite) TestHistory_InvalidRange() {
	s.queries.err = queries.ErrInvalidDateRange

	w := s.do(http.MethodGet, "/archive/cancelled/history?from=2026-03-05&to=2026-03-01", "")

	s.Equal(http.StatusBadRequest, w.Code)
}
