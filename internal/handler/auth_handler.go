package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/cinelog/internal/auth"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Register は会員を登録する。
	Register(ctx context.Context, in auth.RegisterInput) error
	// Login は認証情報を検証してセッショントークンを発行する。
	Login(ctx context.Context, id, password string) (string, error)
}

// AuthHandler は会員登録とログインのHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// registerRequest は会員登録リクエストのボディ。
type registerRequest struct {
	ID          string `json:"id"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	Birth       string `json:"birth"` // "YYYY-MM-DD"形式。任意
	Gender      string `json:"gender"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

// loginResponse はログイン成功時のレスポンス。
type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Register は会員登録を処理する。
// POST /api/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	birth, err := parseBirth(req.Birth)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "生年月日はYYYY-MM-DD形式で指定してください。",
		})
		return
	}

	in := auth.RegisterInput{
		ID:          req.ID,
		Password:    req.Password,
		Name:        req.Name,
		Birth:       birth,
		Gender:      req.Gender,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	}

	if err := h.service.Register(r.Context(), in); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "会員登録が完了しました。",
	})
}

// Login はログインを処理する。
// POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	token, err := h.service.Login(r.Context(), req.ID, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message: "ログインしました。",
		Token:   token,
	})
}

// parseBirth は"YYYY-MM-DD"形式の生年月日を解析する。空文字列はnilを返す。
func parseBirth(birth string) (*time.Time, error) {
	if birth == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", birth)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
