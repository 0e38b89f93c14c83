package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/cinelog/internal/auth"
	"github.com/hitoshi/cinelog/internal/middleware"
	"github.com/hitoshi/cinelog/internal/model"
	"github.com/hitoshi/cinelog/internal/movie"
	"github.com/hitoshi/cinelog/internal/review"
)

// --- モック定義 ---

// mockAuthService はAuthServiceInterfaceのモック実装。
type mockAuthService struct {
	registerFn func(ctx context.Context, in auth.RegisterInput) error
	loginFn    func(ctx context.Context, id, password string) (string, error)
}

func (m *mockAuthService) Register(ctx context.Context, in auth.RegisterInput) error {
	if m.registerFn != nil {
		return m.registerFn(ctx, in)
	}
	return nil
}

func (m *mockAuthService) Login(ctx context.Context, id, password string) (string, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, id, password)
	}
	return "test-token", nil
}

// mockMovieService はMovieServiceInterfaceのモック実装。
type mockMovieService struct {
	registerFn func(ctx context.Context, in movie.RegisterInput) (*model.Movie, bool, error)
}

func (m *mockMovieService) Register(ctx context.Context, in movie.RegisterInput) (*model.Movie, bool, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, in)
	}
	return &model.Movie{ID: "movie-1"}, true, nil
}

// mockReviewService はReviewServiceInterfaceのモック実装。
type mockReviewService struct {
	createFn       func(ctx context.Context, in review.CreateInput) (*model.Review, error)
	updateFn       func(ctx context.Context, in review.UpdateInput) (*model.Review, error)
	listByMovieFn  func(ctx context.Context, movieID string) ([]*model.Review, error)
	listByTMDBIDFn func(ctx context.Context, tmdbID int64) ([]*model.Review, error)
}

func (m *mockReviewService) Create(ctx context.Context, in review.CreateInput) (*model.Review, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return &model.Review{ID: "review-1"}, nil
}

func (m *mockReviewService) Update(ctx context.Context, in review.UpdateInput) (*model.Review, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, in)
	}
	return &model.Review{ID: in.ReviewID}, nil
}

func (m *mockReviewService) ListByMovieID(ctx context.Context, movieID string) ([]*model.Review, error) {
	if m.listByMovieFn != nil {
		return m.listByMovieFn(ctx, movieID)
	}
	return nil, nil
}

func (m *mockReviewService) ListByTMDBID(ctx context.Context, tmdbID int64) ([]*model.Review, error) {
	if m.listByTMDBIDFn != nil {
		return m.listByTMDBIDFn(ctx, tmdbID)
	}
	return nil, nil
}

// mockRatingService はRatingServiceInterfaceのモック実装。
type mockRatingService struct {
	aggregateFn func(ctx context.Context, tmdbID int64) (*model.RatingSummary, error)
}

func (m *mockRatingService) AggregateByTMDBID(ctx context.Context, tmdbID int64) (*model.RatingSummary, error) {
	if m.aggregateFn != nil {
		return m.aggregateFn(ctx, tmdbID)
	}
	return model.NewEmptyRatingSummary(), nil
}

// mockLikeService はLikeServiceInterfaceのモック実装。
type mockLikeService struct {
	toggleFn func(ctx context.Context, memberID string, tmdbID int64) (bool, error)
}

func (m *mockLikeService) Toggle(ctx context.Context, memberID string, tmdbID int64) (bool, error) {
	if m.toggleFn != nil {
		return m.toggleFn(ctx, memberID, tmdbID)
	}
	return true, nil
}

// --- テストヘルパー ---

// withMemberID はテスト用にリクエストコンテキストに会員IDを注入するヘルパー。
func withMemberID(r *http.Request, memberID string) *http.Request {
	ctx := middleware.ContextWithMemberID(r.Context(), memberID)
	return r.WithContext(ctx)
}

// withChiURLParam はテスト用にchiのURLパラメータを注入するヘルパー。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// decodeBody はレスポンスボディをJSONとしてパースするヘルパー。
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var result map[string]any
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return result
}
