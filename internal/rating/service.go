// Package rating は映画1本に対する評価の集計を提供する。
package rating

import (
	"context"

	"github.com/hitoshi/cinelog/internal/model"
)

// MovieFinder は映画検索のインターフェース。
// repository.MovieRepositoryの部分集合として定義する。
type MovieFinder interface {
	FindByTMDBID(ctx context.Context, tmdbID int64) (*model.Movie, error)
}

// Aggregator は評価集計のインターフェース。
// repository.ReviewRepositoryの部分集合として定義する。
type Aggregator interface {
	AggregateByMovieID(ctx context.Context, movieID string) (*model.RatingSummary, error)
}

// Service は評価集計のサービス層。
type Service struct {
	movies     MovieFinder
	aggregator Aggregator
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(movies MovieFinder, aggregator Aggregator) *Service {
	return &Service{
		movies:     movies,
		aggregator: aggregator,
	}
}

// AggregateByTMDBID はTMDB IDで指定された映画の評価集計を返す。
// 映画自体が未登録の場合のみMOVIE_NOT_FOUNDを返す。
// レビューが0件でも失敗せず、件数0・平均0・分布すべて0の集計を返す。
func (s *Service) AggregateByTMDBID(ctx context.Context, tmdbID int64) (*model.RatingSummary, error) {
	movie, err := s.movies.FindByTMDBID(ctx, tmdbID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, model.NewMovieNotFoundError()
	}

	return s.aggregator.AggregateByMovieID(ctx, movie.ID)
}
