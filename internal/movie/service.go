// Package movie は映画の解決と登録のドメインロジックを提供する。
//
// 「解決」はリクエストが指す映画をローカルの映画レコードに対応付ける操作で、
// TMDB IDまたはタイトルで指定された映画がローカルに未登録の場合は
// TMDBからメタデータを取得して登録候補を組み立てる。
package movie

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/cinelog/internal/model"
	"github.com/hitoshi/cinelog/internal/repository"
	"github.com/hitoshi/cinelog/internal/tmdb"
)

// MetadataSource は外部メタデータ取得のインターフェース。
// tmdb.Clientの部分集合として定義する。
type MetadataSource interface {
	SearchByTitle(ctx context.Context, title string) ([]tmdb.SearchResult, error)
	GetMovieDetails(ctx context.Context, tmdbID int64) (*tmdb.MovieDetails, error)
	PosterURL(posterPath string) string
}

// URLValidator はユーザー指定URLの検証インターフェース。
// security.URLGuardServiceの部分集合として定義する。
type URLValidator interface {
	ValidateURL(rawURL string) error
}

// MetricsRecorder はTMDB照会数のメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordTMDBLookup(outcome string)
}

// TMDB照会結果のメトリクスラベル値。
const (
	lookupHit   = "hit"
	lookupMiss  = "miss"
	lookupError = "error"
)

// Service は映画の解決と登録のサービス層。
type Service struct {
	movieRepo repository.MovieRepository
	metadata  MetadataSource
	urlGuard  URLValidator
	metrics   MetricsRecorder // nilの場合は記録しない
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(movieRepo repository.MovieRepository, metadata MetadataSource, urlGuard URLValidator, metrics MetricsRecorder) *Service {
	return &Service{
		movieRepo: movieRepo,
		metadata:  metadata,
		urlGuard:  urlGuard,
		metrics:   metrics,
	}
}

// recordLookup はTMDB照会の結果をメトリクスに記録する。
func (s *Service) recordLookup(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordTMDBLookup(outcome)
	}
}

// Resolve はMovieRefが指す映画を解決する。
// 戻り値のpendingがtrueの場合、返された映画はTMDBから組み立てた未保存の
// レコードであり、呼び出し側が永続化の責任を持つ（レビュー作成では
// レビューと同一トランザクションで保存される）。
//
// 解決の手順:
//   - MovieID指定: ローカル検索のみ。見つからなければMOVIE_NOT_FOUND。
//   - TMDBID指定: ローカル検索、なければTMDBから詳細を取得して組み立てる。
//   - Title指定: TMDBのタイトル検索で先頭一致のIDを得てTMDBID指定と同様に進む。
//   - いずれも未指定: MISSING_FIELDS。
func (s *Service) Resolve(ctx context.Context, ref model.MovieRef) (m *model.Movie, pending bool, err error) {
	switch {
	case ref.MovieID != "":
		existing, err := s.movieRepo.FindByID(ctx, ref.MovieID)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, model.NewMovieNotFoundError()
		}
		return existing, false, nil

	case ref.TMDBID != 0:
		return s.resolveByTMDBID(ctx, ref.TMDBID)

	case ref.Title != "":
		results, err := s.metadata.SearchByTitle(ctx, ref.Title)
		if err != nil {
			slog.Error("TMDB検索に失敗しました",
				slog.String("title", ref.Title),
				slog.String("error", err.Error()),
			)
			s.recordLookup(lookupError)
			return nil, false, model.NewTMDBUnavailableError()
		}
		if len(results) == 0 {
			s.recordLookup(lookupMiss)
			return nil, false, model.NewTMDBNoMatchError(ref.Title)
		}
		return s.resolveByTMDBID(ctx, results[0].ID)

	default:
		return nil, false, model.NewMissingFieldsError()
	}
}

// resolveByTMDBID はTMDB IDで映画を解決する。
// ローカルに存在しない場合はTMDBから詳細を取得し、未保存のレコードを組み立てる。
func (s *Service) resolveByTMDBID(ctx context.Context, tmdbID int64) (*model.Movie, bool, error) {
	existing, err := s.movieRepo.FindByTMDBID(ctx, tmdbID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	details, err := s.metadata.GetMovieDetails(ctx, tmdbID)
	if err != nil {
		slog.Error("TMDB作品詳細の取得に失敗しました",
			slog.Int64("tmdb_id", tmdbID),
			slog.String("error", err.Error()),
		)
		s.recordLookup(lookupError)
		return nil, false, model.NewTMDBUnavailableError()
	}

	s.recordLookup(lookupHit)
	return s.buildFromDetails(details), true, nil
}

// buildFromDetails はTMDBの作品詳細から未保存の映画レコードを組み立てる。
func (s *Service) buildFromDetails(details *tmdb.MovieDetails) *model.Movie {
	genres := make([]string, 0, len(details.Genres))
	for _, g := range details.Genres {
		genres = append(genres, g.Name)
	}

	return &model.Movie{
		ID:          uuid.New().String(),
		Title:       details.Title,
		Genres:      genres,
		ReleaseYear: parseReleaseYear(details.ReleaseDate),
		PosterURL:   s.metadata.PosterURL(details.PosterPath),
		TMDBID:      details.ID,
		CreatedAt:   time.Now().UTC(),
	}
}

// parseReleaseYear は"YYYY-MM-DD"形式の公開日から年を取り出す。
// 空文字列や不正な形式の場合は0（不明）を返す。
func parseReleaseYear(releaseDate string) int {
	if len(releaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// RegisterInput は明示的な映画登録の入力を表す。
type RegisterInput struct {
	Title       string
	Genres      []string
	ReleaseYear int
	Director    string
	PosterURL   string
	TMDBID      int64
}

// Register はフロントエンドから渡された映画情報を登録する。
// タイトルと公開年は必須。既に登録済みの場合（TMDB ID一致、なければ
// タイトル+公開年一致）は既存レコードとcreated=falseを返す。
// TMDB ID付きの新規登録はUNIQUE制約付きのUPSERTで行い、
// 同時登録の競合でも重複行は作られない。
func (s *Service) Register(ctx context.Context, in RegisterInput) (m *model.Movie, created bool, err error) {
	if in.Title == "" || in.ReleaseYear == 0 {
		return nil, false, model.NewMissingFieldsError()
	}

	if in.PosterURL != "" {
		if err := s.urlGuard.ValidateURL(in.PosterURL); err != nil {
			return nil, false, model.NewUnsafeURLError("poster_url")
		}
	}

	// 重複確認: TMDB ID優先、なければタイトル+公開年
	if in.TMDBID != 0 {
		existing, err := s.movieRepo.FindByTMDBID(ctx, in.TMDBID)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, false, nil
		}
	}
	existing, err := s.movieRepo.FindByTitleAndYear(ctx, in.Title, in.ReleaseYear)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	genres := in.Genres
	if genres == nil {
		genres = []string{}
	}

	candidate := &model.Movie{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Genres:      genres,
		ReleaseYear: in.ReleaseYear,
		Director:    in.Director,
		PosterURL:   in.PosterURL,
		TMDBID:      in.TMDBID,
		CreatedAt:   time.Now().UTC(),
	}

	if in.TMDBID != 0 {
		stored, err := s.movieRepo.UpsertByTMDBID(ctx, candidate)
		if err != nil {
			return nil, false, err
		}
		// IDが変わっていれば同時登録に敗れた側であり、既存行を返す
		return stored, stored.ID == candidate.ID, nil
	}

	if err := s.movieRepo.Create(ctx, candidate); err != nil {
		return nil, false, fmt.Errorf("映画の登録に失敗しました: %w", err)
	}
	return candidate, true, nil
}
