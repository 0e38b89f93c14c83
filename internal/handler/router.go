package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/cinelog/internal/middleware"
)

// Pinger はデータベース疎通確認のインターフェース。
// *sql.DBの部分集合として定義する。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	RateLimiter       *middleware.RateLimiter
	MetricsRecorder   middleware.HTTPMetricsRecorder
	CORSAllowedOrigin string

	// 運用エンドポイント
	DB             Pinger
	MetricsHandler http.Handler

	// サービス
	AuthService   AuthServiceInterface
	MovieService  MovieServiceInterface
	ReviewService ReviewServiceInterface
	RatingService RatingServiceInterface
	LikeService   LikeServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → CORS → Logging → Metrics
//
// 認証が必要なルート（レビューの作成・更新、いいね）はAuthMiddlewareと
// レート制限を重ねたグループに配置する。読み取り系と会員登録・ログインは
// 認証不要。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	if deps.MetricsRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.MetricsRecorder))
	}

	authHandler := NewAuthHandler(deps.AuthService)
	movieHandler := NewMovieHandler(deps.MovieService)
	reviewHandler := NewReviewHandler(deps.ReviewService, deps.RatingService)
	likeHandler := NewLikeHandler(deps.LikeService)

	// --- 運用エンドポイント ---

	r.Get("/health", newHealthHandler(deps.DB))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- 認証不要のルート ---

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		// 映画登録（フロントエンドからの明示的登録）
		r.Post("/movies", movieHandler.Register)

		// レビューの読み取り
		r.Get("/reviews/movie/{movieID}", reviewHandler.ListByMovie)
		r.Get("/reviews/tmdb/{tmdbID}", reviewHandler.ListByTMDB)
		r.Get("/reviews/tmdb/{tmdbID}/rating", reviewHandler.AggregateRating)

		// --- 認証が必要なルート ---
		// ミドルウェアスタック: Auth → RateLimit(General)
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))
			r.Use(deps.RateLimiter.GeneralMiddleware())

			// POST /api/reviews - レビュー作成（作成専用レート制限を追加）
			r.With(deps.RateLimiter.ReviewCreationMiddleware()).Post("/reviews", reviewHandler.Create)
			r.Patch("/reviews/{id}", reviewHandler.Update)

			// いいねトグル（POST/DELETEどちらも同じトグル動作）
			r.Post("/like", likeHandler.Toggle)
			r.Delete("/like", likeHandler.Toggle)
		})
	})

	return r
}

// newHealthHandler はデータベース疎通を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable",
				})
				return
			}
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	}
}
