package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/cinelog/internal/model"
)

// PostgresMovieRepo はPostgreSQLを使用した映画リポジトリ。
type PostgresMovieRepo struct {
	db *sql.DB
}

// NewPostgresMovieRepo はPostgresMovieRepoを生成する。
func NewPostgresMovieRepo(db *sql.DB) *PostgresMovieRepo {
	return &PostgresMovieRepo{db: db}
}

// movieColumns はSELECT句で使う映画テーブルの列リスト。
const movieColumns = `id, title, genre, release_year, director, poster_url, tmdb_id, created_at`

// scanMovie は1行分の映画レコードをスキャンする。
func scanMovie(row *sql.Row) (*model.Movie, error) {
	movie := &model.Movie{}
	var releaseYear sql.NullInt32
	var director, posterURL sql.NullString
	var tmdbID sql.NullInt64

	err := row.Scan(
		&movie.ID, &movie.Title, pq.Array(&movie.Genres),
		&releaseYear, &director, &posterURL, &tmdbID,
		&movie.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("映画の取得に失敗しました: %w", err)
	}

	movie.ReleaseYear = int(releaseYear.Int32)
	movie.Director = director.String
	movie.PosterURL = posterURL.String
	movie.TMDBID = tmdbID.Int64

	return movie, nil
}

// FindByID は指定サロゲートIDの映画を取得する。見つからない場合はnilを返す。
func (r *PostgresMovieRepo) FindByID(ctx context.Context, id string) (*model.Movie, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movie WHERE id = $1`, id)
	return scanMovie(row)
}

// FindByTMDBID はTMDB IDで映画を検索する。見つからない場合はnilを返す。
func (r *PostgresMovieRepo) FindByTMDBID(ctx context.Context, tmdbID int64) (*model.Movie, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movie WHERE tmdb_id = $1`, tmdbID)
	return scanMovie(row)
}

// FindByTitleAndYear はタイトルと公開年で映画を検索する。見つからない場合はnilを返す。
func (r *PostgresMovieRepo) FindByTitleAndYear(ctx context.Context, title string, year int) (*model.Movie, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movie WHERE title = $1 AND release_year = $2`,
		title, year)
	return scanMovie(row)
}

// Create は映画を作成する。
func (r *PostgresMovieRepo) Create(ctx context.Context, movie *model.Movie) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO movie (id, title, genre, release_year, director, poster_url, tmdb_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		movie.ID, movie.Title, pq.Array(movie.Genres),
		nullYear(movie.ReleaseYear), nullString(movie.Director), nullString(movie.PosterURL),
		nullTMDBID(movie.TMDBID), movie.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("映画の作成に失敗しました: %w", err)
	}
	return nil
}

// UpsertByTMDBID はTMDB ID付きの映画を冪等に作成する。
// tmdb_idのUNIQUE制約を利用したINSERT ON CONFLICT DO NOTHINGで挿入を試み、
// 衝突した場合は既存行を取得して返す。同一TMDB IDの同時初回解決でも
// 映画行は1つしか作られない。
func (r *PostgresMovieRepo) UpsertByTMDBID(ctx context.Context, movie *model.Movie) (*model.Movie, error) {
	if movie.TMDBID == 0 {
		return nil, fmt.Errorf("UpsertByTMDBIDにはTMDB IDが必要です")
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO movie (id, title, genre, release_year, director, poster_url, tmdb_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (tmdb_id) DO NOTHING`,
		movie.ID, movie.Title, pq.Array(movie.Genres),
		nullYear(movie.ReleaseYear), nullString(movie.Director), nullString(movie.PosterURL),
		movie.TMDBID, movie.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("映画の作成に失敗しました: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if inserted > 0 {
		return movie, nil
	}

	// 衝突: 既存行（同時解決の勝者を含む）を返す
	existing, err := r.FindByTMDBID(ctx, movie.TMDBID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("tmdb_id %d の映画が衝突後に見つかりません", movie.TMDBID)
	}
	return existing, nil
}

// nullYear は0をNULLとして格納するためのsql.NullInt32を返す。
func nullYear(year int) sql.NullInt32 {
	return sql.NullInt32{Int32: int32(year), Valid: year != 0}
}

// nullTMDBID は0をNULLとして格納するためのsql.NullInt64を返す。
func nullTMDBID(tmdbID int64) sql.NullInt64 {
	return sql.NullInt64{Int64: tmdbID, Valid: tmdbID != 0}
}

// compile-time interface check
var _ MovieRepository = (*PostgresMovieRepo)(nil)
