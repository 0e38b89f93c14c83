package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/cinelog/internal/middleware"
	"github.com/hitoshi/cinelog/internal/model"
)

// LikeServiceInterface はいいねハンドラーが必要とするサービスインターフェース。
type LikeServiceInterface interface {
	// Toggle は(会員, 映画)のいいね状態を反転し、反転後の状態を返す。
	Toggle(ctx context.Context, memberID string, tmdbID int64) (liked bool, err error)
}

// LikeHandler は映画への「いいね」のHTTPハンドラー。
type LikeHandler struct {
	service LikeServiceInterface
}

// NewLikeHandler はLikeHandlerを生成する。
func NewLikeHandler(service LikeServiceInterface) *LikeHandler {
	return &LikeHandler{service: service}
}

// likeRequest はいいねトグルリクエストのボディ。
type likeRequest struct {
	TMDBID int64 `json:"tmdb_id"`
}

// likeResponse はいいねトグルのAPIレスポンス。
type likeResponse struct {
	Message string `json:"message"`
	Liked   bool   `json:"liked"`
}

// Toggle はいいね状態の反転を処理する。
// POSTとDELETEのどちらでも同じトグル動作になる。
// POST /api/like, DELETE /api/like
func (h *LikeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	memberID, err := middleware.MemberIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewTokenRequiredError())
		return
	}

	var req likeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	liked, err := h.service.Toggle(r.Context(), memberID, req.TMDBID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	message := "いいねを解除しました。"
	if liked {
		message = "いいねしました。"
	}

	writeJSON(w, http.StatusOK, likeResponse{
		Message: message,
		Liked:   liked,
	})
}
