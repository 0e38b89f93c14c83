// Package handler はHTTP APIのハンドラーとルーティングを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/cinelog/internal/model"
)

// errorResponse は統一エラーフォーマットのレスポンス。
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
// エラーコードや対処方法はログにのみ残し、クライアントにはメッセージだけを返す。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeJSON(w, statusCode, errorResponse{Error: apiErr.Message})
}

// writeInvalidRequestBody はリクエストボディ解析失敗のレスポンスを書き込む。
func writeInvalidRequestBody(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error: "リクエストボディの解析に失敗しました。",
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		if statusCode >= 500 {
			slog.Error("service error",
				slog.String("code", apiErr.Code),
				slog.String("error", apiErr.Message),
			)
		}
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error: "内部エラーが発生しました。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeMissingFields, model.ErrCodeInvalidRating, model.ErrCodeUnsafeURL:
		return http.StatusBadRequest
	case model.ErrCodeInvalidCredentials, model.ErrCodeTokenRequired:
		return http.StatusUnauthorized
	case model.ErrCodeTokenInvalid, model.ErrCodeNotReviewOwner:
		return http.StatusForbidden
	case model.ErrCodeMemberNotFound, model.ErrCodeMovieNotFound, model.ErrCodeReviewNotFound,
		model.ErrCodeTMDBNoMatch:
		return http.StatusNotFound
	case model.ErrCodeDuplicateMember, model.ErrCodeDuplicateEmail:
		return http.StatusConflict
	case model.ErrCodeTMDBUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
