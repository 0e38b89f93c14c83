package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/cinelog/internal/model"
	"github.com/hitoshi/cinelog/internal/review"
)

func sampleReview() *model.Review {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return &model.Review{
		ID:        "review-1",
		MemberID:  "member-1",
		MovieID:   "movie-1",
		Content:   "傑作だった。",
		Rating:    4.5,
		Emotions:  []string{"衝撃"},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestReviewHandler_Create_Success(t *testing.T) {
	var gotInput review.CreateInput
	svc := &mockReviewService{
		createFn: func(ctx context.Context, in review.CreateInput) (*model.Review, error) {
			gotInput = in
			return sampleReview(), nil
		},
	}
	h := NewReviewHandler(svc, &mockRatingService{})

	body := `{"tmdb_id": 670, "content": "傑作だった。", "rating": 4.5, "emotions": ["衝撃"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/reviews", bytes.NewBufferString(body))
	req = withMemberID(req, "member-1")
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	// 会員IDはボディではなく認証コンテキストから取得されること
	if gotInput.MemberID != "member-1" {
		t.Errorf("MemberID = %q, want member-1", gotInput.MemberID)
	}
	if gotInput.MovieRef.TMDBID != 670 {
		t.Errorf("TMDBID = %d, want 670", gotInput.MovieRef.TMDBID)
	}
	if gotInput.Rating == nil || *gotInput.Rating != 4.5 {
		t.Errorf("Rating = %v, want 4.5", gotInput.Rating)
	}

	resp := decodeBody(t, rec)
	if _, ok := resp["review"]; !ok {
		t.Error("review payload should be present")
	}
}

func TestReviewHandler_Create_NoMemberInContext(t *testing.T) {
	h := NewReviewHandler(&mockReviewService{}, &mockRatingService{})

	body := `{"tmdb_id": 670, "content": "x", "rating": 3}`
	req := httptest.NewRequest(http.MethodPost, "/api/reviews", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestReviewHandler_Create_RatingOmitted(t *testing.T) {
	svc := &mockReviewService{
		createFn: func(ctx context.Context, in review.CreateInput) (*model.Review, error) {
			// 評価値未指定はnilポインタとして届くこと
			if in.Rating != nil {
				t.Errorf("Rating = %v, want nil", in.Rating)
			}
			return nil, model.NewMissingFieldsError()
		},
	}
	h := NewReviewHandler(svc, &mockRatingService{})

	body := `{"tmdb_id": 670, "content": "x"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reviews", bytes.NewBufferString(body))
	req = withMemberID(req, "member-1")
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestReviewHandler_Create_TMDBUnavailableReturns502(t *testing.T) {
	svc := &mockReviewService{
		createFn: func(ctx context.Context, in review.CreateInput) (*model.Review, error) {
			return nil, model.NewTMDBUnavailableError()
		},
	}
	h := NewReviewHandler(svc, &mockRatingService{})

	body := `{"tmdb_id": 670, "content": "x", "rating": 3}`
	req := httptest.NewRequest(http.MethodPost, "/api/reviews", bytes.NewBufferString(body))
	req = withMemberID(req, "member-1")
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestReviewHandler_Update_Success(t *testing.T) {
	var gotInput review.UpdateInput
	svc := &mockReviewService{
		updateFn: func(ctx context.Context, in review.UpdateInput) (*model.Review, error) {
			gotInput = in
			return sampleReview(), nil
		},
	}
	h := NewReviewHandler(svc, &mockRatingService{})

	body := `{"content": "更新後の感想", "rating": 4.0}`
	req := httptest.NewRequest(http.MethodPatch, "/api/reviews/review-1", bytes.NewBufferString(body))
	req = withMemberID(req, "member-1")
	req = withChiURLParam(req, "id", "review-1")
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if gotInput.ReviewID != "review-1" {
		t.Errorf("ReviewID = %q", gotInput.ReviewID)
	}
	if gotInput.MemberID != "member-1" {
		t.Errorf("MemberID = %q", gotInput.MemberID)
	}
}

func TestReviewHandler_Update_NotOwnerReturns403(t *testing.T) {
	svc := &mockReviewService{
		updateFn: func(ctx context.Context, in review.UpdateInput) (*model.Review, error) {
			return nil, model.NewNotReviewOwnerError()
		},
	}
	h := NewReviewHandler(svc, &mockRatingService{})

	body := `{"content": "x", "rating": 3}`
	req := httptest.NewRequest(http.MethodPatch, "/api/reviews/review-1", bytes.NewBufferString(body))
	req = withMemberID(req, "member-2")
	req = withChiURLParam(req, "id", "review-1")
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestReviewHandler_Update_NotFoundReturns404(t *testing.T) {
	svc := &mockReviewService{
		updateFn: func(ctx context.Context, in review.UpdateInput) (*model.Review, error) {
			return nil, model.NewReviewNotFoundError(in.ReviewID)
		},
	}
	h := NewReviewHandler(svc, &mockRatingService{})

	body := `{"content": "x", "rating": 3}`
	req := httptest.NewRequest(http.MethodPatch, "/api/reviews/no-such", bytes.NewBufferString(body))
	req = withMemberID(req, "member-1")
	req = withChiURLParam(req, "id", "no-such")
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestReviewHandler_ListByMovie_Success(t *testing.T) {
	svc := &mockReviewService{
		listByMovieFn: func(ctx context.Context, movieID string) ([]*model.Review, error) {
			if movieID != "movie-1" {
				t.Errorf("movieID = %q", movieID)
			}
			return []*model.Review{sampleReview()}, nil
		},
	}
	h := NewReviewHandler(svc, &mockRatingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/reviews/movie/movie-1", nil)
	req = withChiURLParam(req, "movieID", "movie-1")
	rec := httptest.NewRecorder()

	h.ListByMovie(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	var reviews []map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&reviews); err != nil {
		t.Fatalf("failed to decode list response: %v", err)
	}
	if len(reviews) != 1 || reviews[0]["id"] != "review-1" {
		t.Errorf("unexpected list: %v", reviews)
	}
}

func TestReviewHandler_ListByMovie_EmptyReturnsEmptyArray(t *testing.T) {
	svc := &mockReviewService{
		listByMovieFn: func(ctx context.Context, movieID string) ([]*model.Review, error) {
			return nil, nil
		},
	}
	h := NewReviewHandler(svc, &mockRatingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/reviews/movie/movie-1", nil)
	req = withChiURLParam(req, "movieID", "movie-1")
	rec := httptest.NewRecorder()

	h.ListByMovie(rec, req)

	// nullではなく[]が返ること
	if got := rec.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestReviewHandler_ListByTMDB_InvalidID(t *testing.T) {
	h := NewReviewHandler(&mockReviewService{}, &mockRatingService{})

	tests := []string{"abc", "-5", "0"}
	for _, raw := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/reviews/tmdb/"+raw, nil)
		req = withChiURLParam(req, "tmdbID", raw)
		rec := httptest.NewRecorder()

		h.ListByTMDB(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("tmdbID %q: status = %d, want 400", raw, rec.Code)
		}
	}
}

func TestReviewHandler_AggregateRating_Success(t *testing.T) {
	svc := &mockRatingService{
		aggregateFn: func(ctx context.Context, tmdbID int64) (*model.RatingSummary, error) {
			return &model.RatingSummary{
				Count:        3,
				Average:      4.2,
				Distribution: map[int]int{1: 0, 2: 0, 3: 1, 4: 1, 5: 1},
			}, nil
		},
	}
	h := NewReviewHandler(&mockReviewService{}, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/reviews/tmdb/670/rating", nil)
	req = withChiURLParam(req, "tmdbID", "670")
	rec := httptest.NewRecorder()

	h.AggregateRating(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	resp := decodeBody(t, rec)
	if resp["total_reviews"] != float64(3) {
		t.Errorf("total_reviews = %v, want 3", resp["total_reviews"])
	}
	if resp["average_rating"] != 4.2 {
		t.Errorf("average_rating = %v, want 4.2", resp["average_rating"])
	}
	dist, ok := resp["rating_distribution"].(map[string]any)
	if !ok {
		t.Fatalf("rating_distribution missing: %v", resp)
	}
	if dist["5"] != float64(1) {
		t.Errorf("rating_distribution[5] = %v, want 1", dist["5"])
	}

	// キー名はaverage_rating/total_reviews/rating_distributionのみ
	for _, key := range []string{"count", "average", "distribution"} {
		if _, ok := resp[key]; ok {
			t.Errorf("unexpected response key %q", key)
		}
	}
}

func TestReviewHandler_AggregateRating_MovieNotFound(t *testing.T) {
	svc := &mockRatingService{
		aggregateFn: func(ctx context.Context, tmdbID int64) (*model.RatingSummary, error) {
			return nil, model.NewMovieNotFoundError()
		},
	}
	h := NewReviewHandler(&mockReviewService{}, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/reviews/tmdb/99999/rating", nil)
	req = withChiURLParam(req, "tmdbID", "99999")
	rec := httptest.NewRecorder()

	h.AggregateRating(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
