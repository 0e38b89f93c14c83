// Package review はレビューの作成・更新・一覧のドメインロジックを提供する。
package review

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/cinelog/internal/model"
	"github.com/hitoshi/cinelog/internal/repository"
)

// MovieResolver は映画解決のインターフェース。
// movie.Serviceの部分集合として定義する。
type MovieResolver interface {
	// Resolve はMovieRefが指す映画を解決する。pendingがtrueの場合は
	// 未保存のレコードであり、レビューと同一トランザクションで保存する。
	Resolve(ctx context.Context, ref model.MovieRef) (m *model.Movie, pending bool, err error)
}

// MemberFinder は会員検索のインターフェース。
// repository.MemberRepositoryの部分集合として定義する。
type MemberFinder interface {
	FindByID(ctx context.Context, id string) (*model.Member, error)
}

// MovieFinder は映画検索のインターフェース。
// 一覧系の読み取りではTMDBへの問い合わせを行わず、ローカル検索のみで解決する。
type MovieFinder interface {
	FindByID(ctx context.Context, id string) (*model.Movie, error)
	FindByTMDBID(ctx context.Context, tmdbID int64) (*model.Movie, error)
}

// Sanitizer はテキストサニタイズのインターフェース。
// security.ContentSanitizerServiceの部分集合として定義する。
type Sanitizer interface {
	Sanitize(raw string) string
}

// URLValidator はユーザー指定URLの検証インターフェース。
type URLValidator interface {
	ValidateURL(rawURL string) error
}

// MetricsRecorder はレビュー作成数のメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordReviewCreated()
}

// Service はレビューのサービス層。
type Service struct {
	reviewRepo repository.ReviewRepository
	members    MemberFinder
	resolver   MovieResolver
	movies     MovieFinder
	sanitizer  Sanitizer
	urlGuard   URLValidator
	metrics    MetricsRecorder // nilの場合は記録しない
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	reviewRepo repository.ReviewRepository,
	members MemberFinder,
	resolver MovieResolver,
	movies MovieFinder,
	sanitizer Sanitizer,
	urlGuard URLValidator,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		reviewRepo: reviewRepo,
		members:    members,
		resolver:   resolver,
		movies:     movies,
		sanitizer:  sanitizer,
		urlGuard:   urlGuard,
		metrics:    metrics,
	}
}

// CreateInput はレビュー作成の入力を表す。
// Ratingはポインタで「未指定」と「0」を区別する。
type CreateInput struct {
	MemberID          string
	MovieRef          model.MovieRef
	Content           string
	Rating            *float64
	Emotions          []string
	MediaURL          string
	HighlightQuote    string
	HighlightImageURL string
}

// Create はレビューを作成する。
// 映画がローカルに未登録の場合はTMDB解決で組み立てたレコードを
// レビューと同一トランザクションで保存する。
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.Review, error) {
	if in.MemberID == "" || strings.TrimSpace(in.Content) == "" || in.Rating == nil || in.MovieRef.IsZero() {
		return nil, model.NewMissingFieldsError()
	}
	if !model.ValidRating(*in.Rating) {
		return nil, model.NewInvalidRatingError(*in.Rating)
	}
	if err := s.validateURLs(in.MediaURL, in.HighlightImageURL); err != nil {
		return nil, err
	}

	member, err := s.members.FindByID(ctx, in.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, model.NewMemberNotFoundError(in.MemberID)
	}

	movie, pending, err := s.resolver.Resolve(ctx, in.MovieRef)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	review := &model.Review{
		ID:                uuid.New().String(),
		MemberID:          in.MemberID,
		MovieID:           movie.ID,
		Content:           s.sanitizer.Sanitize(in.Content),
		Rating:            *in.Rating,
		Emotions:          normalizeEmotions(in.Emotions),
		MediaURL:          in.MediaURL,
		HighlightQuote:    s.sanitizer.Sanitize(in.HighlightQuote),
		HighlightImageURL: in.HighlightImageURL,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if pending {
		// 映画とレビューを同一トランザクションで保存する
		if err := s.reviewRepo.CreateWithMovie(ctx, movie, review); err != nil {
			return nil, err
		}
	} else {
		if err := s.reviewRepo.Create(ctx, review); err != nil {
			return nil, err
		}
	}

	if s.metrics != nil {
		s.metrics.RecordReviewCreated()
	}

	return review, nil
}

// UpdateInput はレビュー更新の入力を表す。
type UpdateInput struct {
	ReviewID          string
	MemberID          string
	Content           string
	Rating            *float64
	Emotions          []string
	MediaURL          string
	HighlightQuote    string
	HighlightImageURL string
}

// Update はレビューを上書き更新する。
// レビューが存在しない場合はREVIEW_NOT_FOUND、リクエストした会員が
// 作成者でない場合はNOT_REVIEW_OWNERを返し、レビューは変更されない。
func (s *Service) Update(ctx context.Context, in UpdateInput) (*model.Review, error) {
	if in.MemberID == "" || strings.TrimSpace(in.Content) == "" || in.Rating == nil {
		return nil, model.NewMissingFieldsError()
	}
	if !model.ValidRating(*in.Rating) {
		return nil, model.NewInvalidRatingError(*in.Rating)
	}
	if err := s.validateURLs(in.MediaURL, in.HighlightImageURL); err != nil {
		return nil, err
	}

	existing, err := s.reviewRepo.FindByID(ctx, in.ReviewID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, model.NewReviewNotFoundError(in.ReviewID)
	}
	if existing.MemberID != in.MemberID {
		return nil, model.NewNotReviewOwnerError()
	}

	existing.Content = s.sanitizer.Sanitize(in.Content)
	existing.Rating = *in.Rating
	existing.Emotions = normalizeEmotions(in.Emotions)
	existing.MediaURL = in.MediaURL
	existing.HighlightQuote = s.sanitizer.Sanitize(in.HighlightQuote)
	existing.HighlightImageURL = in.HighlightImageURL
	existing.UpdatedAt = time.Now().UTC()

	if err := s.reviewRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

// ListByMovieID は映画のレビュー一覧を新着順で返す。
// 映画が存在しない場合はMOVIE_NOT_FOUNDを返す。レビュー0件は空リスト。
func (s *Service) ListByMovieID(ctx context.Context, movieID string) ([]*model.Review, error) {
	movie, err := s.movies.FindByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, model.NewMovieNotFoundError()
	}
	return s.reviewRepo.ListByMovieID(ctx, movie.ID)
}

// ListByTMDBID はTMDB IDで指定された映画のレビュー一覧を新着順で返す。
// ローカル検索のみで解決し、未登録の場合はMOVIE_NOT_FOUNDを返す。
func (s *Service) ListByTMDBID(ctx context.Context, tmdbID int64) ([]*model.Review, error) {
	movie, err := s.movies.FindByTMDBID(ctx, tmdbID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, model.NewMovieNotFoundError()
	}
	return s.reviewRepo.ListByMovieID(ctx, movie.ID)
}

// validateURLs はユーザー指定のURLフィールドを検証する。
func (s *Service) validateURLs(mediaURL, highlightImageURL string) error {
	if mediaURL != "" {
		if err := s.urlGuard.ValidateURL(mediaURL); err != nil {
			return model.NewUnsafeURLError("media_url")
		}
	}
	if highlightImageURL != "" {
		if err := s.urlGuard.ValidateURL(highlightImageURL); err != nil {
			return model.NewUnsafeURLError("highlight_image_url")
		}
	}
	return nil
}

// normalizeEmotions はnilを空スライスに正規化する。
func normalizeEmotions(emotions []string) []string {
	if emotions == nil {
		return []string{}
	}
	return emotions
}
