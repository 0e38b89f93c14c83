// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// HTTPステータスへのマッピングに使う原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, auth, conflict, member, movie, review, upstream, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeMissingFields      = "MISSING_FIELDS"
	ErrCodeInvalidRating      = "INVALID_RATING"
	ErrCodeUnsafeURL          = "UNSAFE_URL"
	ErrCodeDuplicateMember    = "DUPLICATE_MEMBER"
	ErrCodeDuplicateEmail     = "DUPLICATE_EMAIL"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeTokenRequired      = "TOKEN_REQUIRED"
	ErrCodeTokenInvalid       = "TOKEN_INVALID"
	ErrCodeNotReviewOwner     = "NOT_REVIEW_OWNER"
	ErrCodeMemberNotFound     = "MEMBER_NOT_FOUND"
	ErrCodeMovieNotFound      = "MOVIE_NOT_FOUND"
	ErrCodeReviewNotFound     = "REVIEW_NOT_FOUND"
	ErrCodeTMDBNoMatch        = "TMDB_NO_MATCH"
	ErrCodeTMDBUnavailable    = "TMDB_UNAVAILABLE"
)

// NewMissingFieldsError は必須項目の欠落エラーを生成する。
func NewMissingFieldsError() *APIError {
	return &APIError{
		Code:     ErrCodeMissingFields,
		Message:  "必須項目が不足しています。",
		Category: "validation",
		Action:   "リクエストボディの必須項目を確認してください。",
	}
}

// NewInvalidRatingError は評価値の範囲外エラーを生成する。
func NewInvalidRatingError(rating float64) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRating,
		Message:  fmt.Sprintf("評価値が範囲外です: %g", rating),
		Category: "validation",
		Action:   fmt.Sprintf("評価値は%gから%gの範囲で指定してください。", RatingMin, RatingMax),
	}
}

// NewUnsafeURLError は安全でないURLのエラーを生成する。
func NewUnsafeURLError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeUnsafeURL,
		Message:  fmt.Sprintf("安全でないURLが指定されました: %s", field),
		Category: "validation",
		Action:   "http:// または https:// で始まる公開URLを指定してください。",
	}
}

// NewDuplicateMemberError は会員ID重複エラーを生成する。
func NewDuplicateMemberError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateMember,
		Message:  "既に存在する会員IDです。",
		Category: "conflict",
		Action:   "別のIDで登録してください。",
	}
}

// NewDuplicateEmailError はメールアドレス重複エラーを生成する。
func NewDuplicateEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEmail,
		Message:  "既に登録されているメールアドレスです。",
		Category: "conflict",
		Action:   "別のメールアドレスで登録してください。",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// IDが存在しない場合とパスワード不一致の場合で同じエラーを返し、
// 呼び出し元から両者を区別できないようにする。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "IDまたはパスワードが一致しません。",
		Category: "auth",
		Action:   "IDとパスワードを確認してください。",
	}
}

// NewTokenRequiredError はトークン未指定エラーを生成する。
func NewTokenRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeTokenRequired,
		Message:  "トークンが必要です。",
		Category: "auth",
		Action:   "Authorizationヘッダーにトークンを指定してください。",
	}
}

// NewTokenInvalidError はトークン無効エラーを生成する。
func NewTokenInvalidError() *APIError {
	return &APIError{
		Code:     ErrCodeTokenInvalid,
		Message:  "有効でないトークンです。",
		Category: "auth",
		Action:   "再度ログインしてトークンを取得し直してください。",
	}
}

// NewNotReviewOwnerError はレビュー所有者以外による更新エラーを生成する。
func NewNotReviewOwnerError() *APIError {
	return &APIError{
		Code:     ErrCodeNotReviewOwner,
		Message:  "レビューを更新する権限がありません。",
		Category: "review",
		Action:   "自分が作成したレビューのみ更新できます。",
	}
}

// NewMemberNotFoundError は会員未検出エラーを生成する。
func NewMemberNotFoundError(memberID string) *APIError {
	return &APIError{
		Code:     ErrCodeMemberNotFound,
		Message:  fmt.Sprintf("指定された会員が見つかりません: %s", memberID),
		Category: "member",
		Action:   "会員IDを確認してください。",
	}
}

// NewMovieNotFoundError は映画未検出エラーを生成する。
func NewMovieNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeMovieNotFound,
		Message:  "指定された映画が見つかりません。",
		Category: "movie",
		Action:   "映画IDまたはTMDB IDを確認してください。",
	}
}

// NewReviewNotFoundError はレビュー未検出エラーを生成する。
func NewReviewNotFoundError(reviewID string) *APIError {
	return &APIError{
		Code:     ErrCodeReviewNotFound,
		Message:  fmt.Sprintf("指定されたレビューが見つかりません: %s", reviewID),
		Category: "review",
		Action:   "レビューIDを確認してください。",
	}
}

// NewTMDBNoMatchError はTMDB検索で該当作品がなかった場合のエラーを生成する。
func NewTMDBNoMatchError(title string) *APIError {
	return &APIError{
		Code:     ErrCodeTMDBNoMatch,
		Message:  fmt.Sprintf("TMDBで該当するタイトルの映画が見つかりません: %s", title),
		Category: "upstream",
		Action:   "タイトルの表記を確認してください。",
	}
}

// NewTMDBUnavailableError はTMDB API呼び出し失敗のエラーを生成する。
func NewTMDBUnavailableError() *APIError {
	return &APIError{
		Code:     ErrCodeTMDBUnavailable,
		Message:  "映画メタデータの取得に失敗しました。",
		Category: "upstream",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
