//go:build unit

package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"theater-booking-api/internal/handler/api"
	"theater-booking-api/internal/infra"
	"theater-booking-api/internal/infra/archivestore"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

type fakeFeedbackCommands struct {
	upserted []archivestore.Feedback
	updated  []archivestore.FeedbackRef
	deleted  []archivestore.FeedbackRef
	err      error
}

func (f *fakeFeedbackCommands) Upsert(_ context.Context, fb archivestore.Feedback) error {
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, fb)
	return nil
}

func (f *fakeFeedbackCommands) Update(_ context.Context, ref archivestore.FeedbackRef, _ archivestore.FeedbackUpdate) error {
	if f.err != nil {
		return f.err
	}
	f.updated = append(f.updated, ref)
	return nil
}

func (f *fakeFeedbackCommands) Delete(_ context.Context, ref archivestore.FeedbackRef) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, ref)
	return nil
}

type FeedbackHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	commands *fakeFeedbackCommands
}

func (s *FeedbackHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.commands = &fakeFeedbackCommands{}

	handler := api.NewFeedbackHandler(s.commands)
	s.router.POST("/feedback", handler.Upsert)
	s.router.PATCH("/feedback/:id", handler.Update)
	s.router.DELETE("/feedback/:id", handler.Delete)
}

func TestFeedbackHandlerSuite(t *testing.T) {
	suite.Run(t, new(FeedbackHandlerTestSuite))
}

func (s *FeedbackHandlerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *FeedbackHandlerTestSuite) TestUpsert_OK() {
	w := s.do(http.MethodPost, "/feedback", `{"mongoId": "66f1a2", "rating": 4.5}`)

	s.Equal(http.StatusOK, w.Code)
	s.Require().Len(s.commands.upserted, 1)
	s.Equal("66f1a2", s.commands.upserted[0].MongoID)
}

func (s *FeedbackHandlerTestSuite) TestUpsert_MissingMongoID() {
	w := s.do(http.MethodPost, "/feedback", `{"rating": 4.5}`)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Empty(s.commands.upserted)
}

func (s *FeedbackHandlerTestSuite) TestUpdate_NumericIDTargetsFeedbackID() {
	w := s.do(http.MethodPatch, "/feedback/42", `{"message": "updated"}`)

	s.Equal(http.StatusOK, w.Code)
	s.Require().Len(s.commands.updated, 1)
	s.Require().NotNil(s.commands.updated[0].FeedbackID)
	s.Equal(int64(42), *s.commands.updated[0].FeedbackID)
	s.Empty(s.commands.updated[0].MongoID)
}

func (s *FeedbackHandlerTestSuite) TestUpdate_StringIDTargetsMongoID() {
	w := s.do(http.MethodPatch, "/feedback/66f1a2", `{"message": "updated"}`)

	s.Equal(http.StatusOK, w.Code)
	s.Require().Len(s.commands.updated, 1)
	s.Equal("66f1a2", s.commands.updated[0].MongoID)
	s.Nil(s.commands.updated[0].FeedbackID)
}

func (s *FeedbackHandlerTestSuite) TestUpdate_NotFound() {
	s.commands.err = infra.WrapRepoErr("feedback not found", nil, infra.KindNotFound)

	w := s.do(http.MethodPatch, "/feedback/66f1a2", `{"message": "updated"}`)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *FeedbackHandlerTestSuite) TestDelete_OK() {
	w := s.do(http.MethodDelete, "/feedback/66f1a2", "")

	s.Equal(http.StatusOK, w.Code)
	s.Require().Len(s.commands.deleted, 1)
	s.Equal("66f1a2", s.commands.deleted[0].MongoID)
}

func (s *FeedbackHandlerTestSuite) TestDelete_NotFound() {
	s.commands.err = infra.WrapRepoErr("feedback not found", nil, infra.KindNotFound)

	w := s.do(http.MethodDelete, "/feedback/missing", "")

	s.Equal(http.StatusNotFound, w.Code)
}
