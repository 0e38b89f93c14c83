// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/cinelog/internal/model"
)

// MemberRepository は会員データの永続化インターフェース。
type MemberRepository interface {
	// FindByID は指定IDの会員を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Member, error)

	// Create は会員を作成する。
	// ID重複の場合はDUPLICATE_MEMBER、メールアドレス重複の場合は
	// DUPLICATE_EMAILのAPIErrorを返す。重複検出はUNIQUE制約違反に
	// 依存し、事前のSELECTは行わない。
	Create(ctx context.Context, member *model.Member) error
}

// MovieRepository は映画データの永続化インターフェース。
type MovieRepository interface {
	// FindByID は指定サロゲートIDの映画を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Movie, error)

	// FindByTMDBID はTMDB IDで映画を検索する。見つからない場合はnilを返す。
	FindByTMDBID(ctx context.Context, tmdbID int64) (*model.Movie, error)

	// FindByTitleAndYear はタイトルと公開年で映画を検索する。見つからない場合はnilを返す。
	// TMDB IDなしで登録された映画の重複検出に使う。
	FindByTitleAndYear(ctx context.Context, title string, year int) (*model.Movie, error)

	// Create は映画を作成する。
	Create(ctx context.Context, movie *model.Movie) error

	// UpsertByTMDBID はTMDB ID付きの映画を冪等に作成する。
	// INSERT ON CONFLICT DO NOTHINGで挿入を試み、同一TMDB IDの行が
	// 既に存在する場合（同時初回解決の敗者を含む）はその既存行を返す。
	UpsertByTMDBID(ctx context.Context, movie *model.Movie) (*model.Movie, error)
}

// ReviewRepository はレビューデータの永続化インターフェース。
type ReviewRepository interface {
	// FindByID は指定IDのレビューを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Review, error)

	// Create は登録済みの映画に対するレビューを作成する。
	Create(ctx context.Context, review *model.Review) error

	// CreateWithMovie は映画の作成とレビューの作成を同一トランザクションで行う。
	// 映画はTMDB IDのON CONFLICT DO NOTHINGで冪等に挿入し、既存行があれば
	// そのIDをレビューに使う。途中で失敗した場合はレビューのない映画行も
	// 映画のないレビュー行も残らない。確定した映画IDをreview.MovieIDに反映する。
	CreateWithMovie(ctx context.Context, movie *model.Movie, review *model.Review) error

	// Update はレビューを上書き更新する。所有者検証は呼び出し側で行う。
	Update(ctx context.Context, review *model.Review) error

	// ListByMovieID は映画のレビュー一覧を作成日時の降順で返す。
	ListByMovieID(ctx context.Context, movieID string) ([]*model.Review, error)

	// AggregateByMovieID は映画の評価集計（件数、平均、分布）を返す。
	// レビュー0件の場合は件数0・平均0・分布すべて0の集計を返す。
	AggregateByMovieID(ctx context.Context, movieID string) (*model.RatingSummary, error)
}

// LikeRepository は「いいね」関係の永続化インターフェース。
type LikeRepository interface {
	// Toggle は(member, movie)のいいね状態を反転し、反転後の状態を返す。
	// 行が存在すれば削除してfalse、存在しなければ挿入してtrueを返す。
	// 削除・挿入ともに単一文で行い、読み取り後書き込みの競合を避ける。
	Toggle(ctx context.Context, memberID, movieID string) (liked bool, err error)
}
