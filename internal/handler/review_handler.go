package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/cinelog/internal/middleware"
	"github.com/hitoshi/cinelog/internal/model"
	"github.com/hitoshi/cinelog/internal/review"
)

// ReviewServiceInterface はレビューハンドラーが必要とするサービスインターフェース。
type ReviewServiceInterface interface {
	// Create はレビューを作成する。
	Create(ctx context.Context, in review.CreateInput) (*model.Review, error)
	// Update はレビューを上書き更新する。
	Update(ctx context.Context, in review.UpdateInput) (*model.Review, error)
	// ListByMovieID は映画のレビュー一覧を新着順で返す。
	ListByMovieID(ctx context.Context, movieID string) ([]*model.Review, error)
	// ListByTMDBID はTMDB IDで指定された映画のレビュー一覧を新着順で返す。
	ListByTMDBID(ctx context.Context, tmdbID int64) ([]*model.Review, error)
}

// RatingServiceInterface は評価集計のサービスインターフェース。
type RatingServiceInterface interface {
	// AggregateByTMDBID はTMDB IDで指定された映画の評価集計を返す。
	AggregateByTMDBID(ctx context.Context, tmdbID int64) (*model.RatingSummary, error)
}

// ReviewHandler はレビュー管理のHTTPハンドラー。
type ReviewHandler struct {
	service ReviewServiceInterface
	ratings RatingServiceInterface
}

// NewReviewHandler はReviewHandlerを生成する。
func NewReviewHandler(service ReviewServiceInterface, ratings RatingServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		ratings: ratings,
	}
}

// reviewRequest はレビュー作成・更新リクエストのボディ。
// 映画の指定はmovie_id、tmdb_id、titleのいずれか1つ。
type reviewRequest struct {
	MovieID           string   `json:"movie_id"`
	TMDBID            int64    `json:"tmdb_id"`
	Title             string   `json:"title"`
	Content           string   `json:"content"`
	Rating            *float64 `json:"rating"`
	Emotions          []string `json:"emotions"`
	MediaURL          string   `json:"media_url"`
	HighlightQuote    string   `json:"highlight_quote"`
	HighlightImageURL string   `json:"highlight_image_url"`
}

// reviewResponse はレビュー情報のAPIレスポンス。
type reviewResponse struct {
	ID                string   `json:"id"`
	MemberID          string   `json:"member_id"`
	MovieID           string   `json:"movie_id"`
	Content           string   `json:"content"`
	Rating            float64  `json:"rating"`
	Emotions          []string `json:"emotions"`
	MediaURL          string   `json:"media_url,omitempty"`
	HighlightQuote    string   `json:"highlight_quote,omitempty"`
	HighlightImageURL string   `json:"highlight_image_url,omitempty"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

// reviewMutationResponse はレビュー作成・更新のAPIレスポンス。
type reviewMutationResponse struct {
	Message string         `json:"message"`
	Review  reviewResponse `json:"review"`
}

// ratingSummaryResponse は評価集計のAPIレスポンス。
type ratingSummaryResponse struct {
	Average      float64     `json:"average_rating"`
	Count        int         `json:"total_reviews"`
	Distribution map[int]int `json:"rating_distribution"`
}

// Create はレビュー作成を処理する。
// POST /api/reviews
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	memberID, err := middleware.MemberIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewTokenRequiredError())
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	in := review.CreateInput{
		MemberID: memberID,
		MovieRef: model.MovieRef{
			MovieID: req.MovieID,
			TMDBID:  req.TMDBID,
			Title:   req.Title,
		},
		Content:           req.Content,
		Rating:            req.Rating,
		Emotions:          req.Emotions,
		MediaURL:          req.MediaURL,
		HighlightQuote:    req.HighlightQuote,
		HighlightImageURL: req.HighlightImageURL,
	}

	created, err := h.service.Create(r.Context(), in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, reviewMutationResponse{
		Message: "レビューを作成しました。",
		Review:  toReviewResponse(created),
	})
}

// Update はレビュー更新を処理する。
// PATCH /api/reviews/{id}
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	memberID, err := middleware.MemberIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewTokenRequiredError())
		return
	}

	reviewID := chi.URLParam(r, "id")

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	in := review.UpdateInput{
		ReviewID:          reviewID,
		MemberID:          memberID,
		Content:           req.Content,
		Rating:            req.Rating,
		Emotions:          req.Emotions,
		MediaURL:          req.MediaURL,
		HighlightQuote:    req.HighlightQuote,
		HighlightImageURL: req.HighlightImageURL,
	}

	updated, err := h.service.Update(r.Context(), in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reviewMutationResponse{
		Message: "レビューを更新しました。",
		Review:  toReviewResponse(updated),
	})
}

// ListByMovie は映画IDによるレビュー一覧取得を処理する。
// GET /api/reviews/movie/{movieID}
func (h *ReviewHandler) ListByMovie(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "movieID")

	reviews, err := h.service.ListByMovieID(r.Context(), movieID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toReviewListResponse(reviews))
}

// ListByTMDB はTMDB IDによるレビュー一覧取得を処理する。
// GET /api/reviews/tmdb/{tmdbID}
func (h *ReviewHandler) ListByTMDB(w http.ResponseWriter, r *http.Request) {
	tmdbID, ok := parseTMDBID(w, r)
	if !ok {
		return
	}

	reviews, err := h.service.ListByTMDBID(r.Context(), tmdbID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toReviewListResponse(reviews))
}

// AggregateRating はTMDB IDによる評価集計取得を処理する。
// GET /api/reviews/tmdb/{tmdbID}/rating
func (h *ReviewHandler) AggregateRating(w http.ResponseWriter, r *http.Request) {
	tmdbID, ok := parseTMDBID(w, r)
	if !ok {
		return
	}

	summary, err := h.ratings.AggregateByTMDBID(r.Context(), tmdbID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ratingSummaryResponse{
		Count:        summary.Count,
		Average:      summary.Average,
		Distribution: summary.Distribution,
	})
}

// parseTMDBID はURLパラメータのTMDB IDを解析する。
// 不正な場合は400を書き込みfalseを返す。
func parseTMDBID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "tmdbID")
	tmdbID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || tmdbID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "TMDB IDは正の整数で指定してください。",
		})
		return 0, false
	}
	return tmdbID, true
}

// toReviewResponse はmodel.ReviewからAPIレスポンスに変換する。
func toReviewResponse(rv *model.Review) reviewResponse {
	emotions := rv.Emotions
	if emotions == nil {
		emotions = []string{}
	}
	return reviewResponse{
		ID:                rv.ID,
		MemberID:          rv.MemberID,
		MovieID:           rv.MovieID,
		Content:           rv.Content,
		Rating:            rv.Rating,
		Emotions:          emotions,
		MediaURL:          rv.MediaURL,
		HighlightQuote:    rv.HighlightQuote,
		HighlightImageURL: rv.HighlightImageURL,
		CreatedAt:         rv.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         rv.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// toReviewListResponse はレビュー一覧をAPIレスポンスに変換する。空はnilではなく空配列。
func toReviewListResponse(reviews []*model.Review) []reviewResponse {
	out := make([]reviewResponse, 0, len(reviews))
	for _, rv := range reviews {
		out = append(out, toReviewResponse(rv))
	}
	return out
}
