package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/cinelog/internal/model"
	"github.com/hitoshi/cinelog/internal/movie"
)

// MovieServiceInterface は映画ハンドラーが必要とするサービスインターフェース。
type MovieServiceInterface interface {
	// Register は映画を登録する。既存の場合はcreated=falseと既存レコードを返す。
	Register(ctx context.Context, in movie.RegisterInput) (m *model.Movie, created bool, err error)
}

// MovieHandler は映画登録のHTTPハンドラー。
type MovieHandler struct {
	service MovieServiceInterface
}

// NewMovieHandler はMovieHandlerを生成する。
func NewMovieHandler(service MovieServiceInterface) *MovieHandler {
	return &MovieHandler{service: service}
}

// registerMovieRequest は映画登録リクエストのボディ。
type registerMovieRequest struct {
	Title       string   `json:"title"`
	Genres      []string `json:"genre"`
	ReleaseYear int      `json:"release_year"`
	Director    string   `json:"director"`
	PosterURL   string   `json:"poster_url"`
	TMDBID      int64    `json:"tmdb_id"`
}

// movieResponse は映画情報のAPIレスポンス。
type movieResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Genres      []string `json:"genre"`
	ReleaseYear int      `json:"release_year,omitempty"`
	Director    string   `json:"director,omitempty"`
	PosterURL   string   `json:"poster_url,omitempty"`
	TMDBID      int64    `json:"tmdb_id,omitempty"`
}

// registerMovieResponse は映画登録のAPIレスポンス。
type registerMovieResponse struct {
	Message string        `json:"message"`
	Movie   movieResponse `json:"movie"`
}

// Register は映画登録を処理する。
// 新規登録は201、既存レコードの再利用は200を返す。
// POST /api/movies
func (h *MovieHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	in := movie.RegisterInput{
		Title:       req.Title,
		Genres:      req.Genres,
		ReleaseYear: req.ReleaseYear,
		Director:    req.Director,
		PosterURL:   req.PosterURL,
		TMDBID:      req.TMDBID,
	}

	m, created, err := h.service.Register(r.Context(), in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	statusCode := http.StatusOK
	message := "既に登録されている映画です。"
	if created {
		statusCode = http.StatusCreated
		message = "映画を登録しました。"
	}

	writeJSON(w, statusCode, registerMovieResponse{
		Message: message,
		Movie:   toMovieResponse(m),
	})
}

// toMovieResponse はmodel.MovieからAPIレスポンスに変換する。
func toMovieResponse(m *model.Movie) movieResponse {
	genres := m.Genres
	if genres == nil {
		genres = []string{}
	}
	return movieResponse{
		ID:          m.ID,
		Title:       m.Title,
		Genres:      genres,
		ReleaseYear: m.ReleaseYear,
		Director:    m.Director,
		PosterURL:   m.PosterURL,
		TMDBID:      m.TMDBID,
	}
}
