package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/cinelog/internal/model"
)

func TestLikeHandler_Toggle_LikedReturnsTrue(t *testing.T) {
	svc := &mockLikeService{
		toggleFn: func(ctx context.Context, memberID string, tmdbID int64) (bool, error) {
			if memberID != "member-1" {
				t.Errorf("memberID = %q, want member-1", memberID)
			}
			if tmdbID != 670 {
				t.Errorf("tmdbID = %d, want 670", tmdbID)
			}
			return true, nil
		},
	}
	h := NewLikeHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/like", bytes.NewBufferString(`{"tmdb_id": 670}`))
	req = withMemberID(req, "member-1")
	rec := httptest.NewRecorder()

	h.Toggle(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	resp := decodeBody(t, rec)
	if resp["liked"] != true {
		t.Errorf("liked = %v, want true", resp["liked"])
	}
	if resp["message"] != "いいねしました。" {
		t.Errorf("message = %v", resp["message"])
	}
}

func TestLikeHandler_Toggle_UnlikedReturnsFalse(t *testing.T) {
	svc := &mockLikeService{
		toggleFn: func(ctx context.Context, memberID string, tmdbID int64) (bool, error) {
			return false, nil
		},
	}
	h := NewLikeHandler(svc)

	// DELETEでも同じトグル動作になること
	req := httptest.NewRequest(http.MethodDelete, "/api/like", bytes.NewBufferString(`{"tmdb_id": 670}`))
	req = withMemberID(req, "member-1")
	rec := httptest.NewRecorder()

	h.Toggle(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	resp := decodeBody(t, rec)
	if resp["liked"] != false {
		t.Errorf("liked = %v, want false", resp["liked"])
	}
	if resp["message"] != "いいねを解除しました。" {
		t.Errorf("message = %v", resp["message"])
	}
}

func TestLikeHandler_Toggle_NoMemberInContext(t *testing.T) {
	h := NewLikeHandler(&mockLikeService{})

	req := httptest.NewRequest(http.MethodPost, "/api/like", bytes.NewBufferString(`{"tmdb_id": 670}`))
	rec := httptest.NewRecorder()

	h.Toggle(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestLikeHandler_Toggle_MovieNotFoundReturns404(t *testing.T) {
	svc := &mockLikeService{
		toggleFn: func(ctx context.Context, memberID string, tmdbID int64) (bool, error) {
			return false, model.NewMovieNotFoundError()
		},
	}
	h := NewLikeHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/like", bytes.NewBufferString(`{"tmdb_id": 99999}`))
	req = withMemberID(req, "member-1")
	rec := httptest.NewRecorder()

	h.Toggle(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestLikeHandler_Toggle_InvalidJSON(t *testing.T) {
	h := NewLikeHandler(&mockLikeService{})

	req := httptest.NewRequest(http.MethodPost, "/api/like", bytes.NewBufferString("not json"))
	req = withMemberID(req, "member-1")
	rec := httptest.NewRecorder()

	h.Toggle(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
