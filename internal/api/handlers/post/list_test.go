package post

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"Folio/internal/api/middleware"
	"Folio/internal/core/posts"
)

type unusedService struct{ posts.Service }

func TestListHandler_RejectsMissingCaller(t *testing.T) {
	h := NewListHandler(unusedService{}, nil)

	for name, handle := range map[string]http.HandlerFunc{
		"archive": h.HandleListArchive,
		"own":     h.HandleListOwnPosts,
		"drafts":  h.HandleListDrafts,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/stream/folio.post.list", nil).WithContext(context.Background())
			rec := httptest.NewRecorder()

			handle(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"Unauthenticated","message":"missing_credentials"}`, rec.Body.String())
		})
	}
}

func TestListHandler_AuthenticatedCallMustUpgrade(t *testing.T) {
	h := NewListHandler(unusedService{}, nil)

	ctx := middleware.SetTestUserID(context.Background(), "reader")
	req := httptest.NewRequest(http.MethodGet, "/stream/folio.post.listArchive", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	h.HandleListArchive(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code, "plain GET is refused by the websocket upgrader")
}
