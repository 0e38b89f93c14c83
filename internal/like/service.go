// Package like は映画への「いいね」トグルのドメインロジックを提供する。
package like

import (
	"context"

	"github.com/hitoshi/cinelog/internal/model"
	"github.com/hitoshi/cinelog/internal/repository"
)

// MovieFinder は映画検索のインターフェース。
type MovieFinder interface {
	FindByTMDBID(ctx context.Context, tmdbID int64) (*model.Movie, error)
}

// MemberFinder は会員検索のインターフェース。
type MemberFinder interface {
	FindByID(ctx context.Context, id string) (*model.Member, error)
}

// MetricsRecorder はいいねトグル数のメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordLikeToggled(liked bool)
}

// Service は「いいね」トグルのサービス層。
type Service struct {
	likeRepo repository.LikeRepository
	movies   MovieFinder
	members  MemberFinder
	metrics  MetricsRecorder // nilの場合は記録しない
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(likeRepo repository.LikeRepository, movies MovieFinder, members MemberFinder, metrics MetricsRecorder) *Service {
	return &Service{
		likeRepo: likeRepo,
		movies:   movies,
		members:  members,
		metrics:  metrics,
	}
}

// Toggle は(会員, 映画)のいいね状態を反転し、反転後の状態を返す。
// TMDB IDに対応する映画が未登録の場合はMOVIE_NOT_FOUND、
// 会員が存在しない場合はMEMBER_NOT_FOUNDを返す。
func (s *Service) Toggle(ctx context.Context, memberID string, tmdbID int64) (liked bool, err error) {
	if memberID == "" || tmdbID == 0 {
		return false, model.NewMissingFieldsError()
	}

	member, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		return false, err
	}
	if member == nil {
		return false, model.NewMemberNotFoundError(memberID)
	}

	movie, err := s.movies.FindByTMDBID(ctx, tmdbID)
	if err != nil {
		return false, err
	}
	if movie == nil {
		return false, model.NewMovieNotFoundError()
	}

	liked, err = s.likeRepo.Toggle(ctx, memberID, movie.ID)
	if err != nil {
		return false, err
	}

	if s.metrics != nil {
		s.metrics.RecordLikeToggled(liked)
	}

	return liked, nil
}
