package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/cinelog/internal/model"
)

// PostgresReviewRepo はPostgreSQLを使用したレビューリポジトリ。
type PostgresReviewRepo struct {
	db *sql.DB
}

// NewPostgresReviewRepo はPostgresReviewRepoを生成する。
func NewPostgresReviewRepo(db *sql.DB) *PostgresReviewRepo {
	return &PostgresReviewRepo{db: db}
}

// reviewColumns はSELECT句で使うレビューテーブルの列リスト。
const reviewColumns = `id, member_id, movie_id, content, rating, emotions,
	media_url, highlight_quote, highlight_image_url, created_at, updated_at`

// reviewScanner は*sql.Rowと*sql.Rowsの両方を受けるためのインターフェース。
type reviewScanner interface {
	Scan(dest ...any) error
}

// scanReview は1行分のレビューレコードをスキャンする。
func scanReview(s reviewScanner) (*model.Review, error) {
	review := &model.Review{}
	var mediaURL, highlightQuote, highlightImageURL sql.NullString

	err := s.Scan(
		&review.ID, &review.MemberID, &review.MovieID,
		&review.Content, &review.Rating, pq.Array(&review.Emotions),
		&mediaURL, &highlightQuote, &highlightImageURL,
		&review.CreatedAt, &review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	review.MediaURL = mediaURL.String
	review.HighlightQuote = highlightQuote.String
	review.HighlightImageURL = highlightImageURL.String

	return review, nil
}

// FindByID は指定IDのレビューを取得する。見つからない場合はnilを返す。
func (r *PostgresReviewRepo) FindByID(ctx context.Context, id string) (*model.Review, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM review WHERE id = $1`, id)

	review, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("レビューの取得に失敗しました: %w", err)
	}
	return review, nil
}

// Create は登録済みの映画に対するレビューを作成する。
func (r *PostgresReviewRepo) Create(ctx context.Context, review *model.Review) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO review (id, member_id, movie_id, content, rating, emotions,
		                     media_url, highlight_quote, highlight_image_url,
		                     created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		review.ID, review.MemberID, review.MovieID,
		review.Content, review.Rating, pq.Array(review.Emotions),
		nullString(review.MediaURL), nullString(review.HighlightQuote), nullString(review.HighlightImageURL),
		review.CreatedAt, review.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("レビューの作成に失敗しました: %w", err)
	}
	return nil
}

// CreateWithMovie は映画の作成とレビューの作成を同一トランザクションで行う。
// 映画の挿入はtmdb_idのON CONFLICT DO NOTHINGで冪等に行い、衝突した場合は
// 既存行のIDをレビューに使う。COMMITまで到達しなければどちらの行も残らない。
func (r *PostgresReviewRepo) CreateWithMovie(ctx context.Context, movie *model.Movie, review *model.Review) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 映画を冪等に挿入
	res, err := tx.ExecContext(ctx,
		`INSERT INTO movie (id, title, genre, release_year, director, poster_url, tmdb_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (tmdb_id) DO NOTHING`,
		movie.ID, movie.Title, pq.Array(movie.Genres),
		nullYear(movie.ReleaseYear), nullString(movie.Director), nullString(movie.PosterURL),
		movie.TMDBID, movie.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("映画の作成に失敗しました: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	movieID := movie.ID
	if inserted == 0 {
		// 衝突: 既存行のIDを採用する
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM movie WHERE tmdb_id = $1`, movie.TMDBID,
		).Scan(&movieID)
		if err != nil {
			return fmt.Errorf("既存映画の取得に失敗しました: %w", err)
		}
	}

	review.MovieID = movieID
	_, err = tx.ExecContext(ctx,
		`INSERT INTO review (id, member_id, movie_id, content, rating, emotions,
		                     media_url, highlight_quote, highlight_image_url,
		                     created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		review.ID, review.MemberID, review.MovieID,
		review.Content, review.Rating, pq.Array(review.Emotions),
		nullString(review.MediaURL), nullString(review.HighlightQuote), nullString(review.HighlightImageURL),
		review.CreatedAt, review.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("レビューの作成に失敗しました: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	movie.ID = movieID
	return nil
}

// Update はレビューを上書き更新する。所有者検証は呼び出し側で行う。
func (r *PostgresReviewRepo) Update(ctx context.Context, review *model.Review) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE review
		 SET content = $2, rating = $3, emotions = $4, media_url = $5,
		     highlight_quote = $6, highlight_image_url = $7, updated_at = $8
		 WHERE id = $1`,
		review.ID,
		review.Content, review.Rating, pq.Array(review.Emotions),
		nullString(review.MediaURL), nullString(review.HighlightQuote), nullString(review.HighlightImageURL),
		review.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("レビューの更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewReviewNotFoundError(review.ID)
	}
	return nil
}

// ListByMovieID は映画のレビュー一覧を作成日時の降順で返す。
func (r *PostgresReviewRepo) ListByMovieID(ctx context.Context, movieID string) ([]*model.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM review
		 WHERE movie_id = $1
		 ORDER BY created_at DESC`,
		movieID,
	)
	if err != nil {
		return nil, fmt.Errorf("レビュー一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	reviews := []*model.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("レビューの読み取りに失敗しました: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("レビュー一覧の走査に失敗しました: %w", err)
	}

	return reviews, nil
}

// AggregateByMovieID は映画の評価集計（件数、平均、分布）を返す。
// 平均は小数第1位に丸め、レビュー0件の場合は0。分布は評価値の切り捨てを
// [1,5]にクランプしたバケットごとの件数。
func (r *PostgresReviewRepo) AggregateByMovieID(ctx context.Context, movieID string) (*model.RatingSummary, error) {
	summary := model.NewEmptyRatingSummary()

	var average sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), ROUND(AVG(rating)::numeric, 1)
		 FROM review WHERE movie_id = $1`,
		movieID,
	).Scan(&summary.Count, &average)
	if err != nil {
		return nil, fmt.Errorf("評価集計の取得に失敗しました: %w", err)
	}
	summary.Average = average.Float64

	rows, err := r.db.QueryContext(ctx,
		`SELECT FLOOR(rating)::int, COUNT(*)
		 FROM review WHERE movie_id = $1
		 GROUP BY 1`,
		movieID,
	)
	if err != nil {
		return nil, fmt.Errorf("評価分布の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bucket, count int
		if err := rows.Scan(&bucket, &count); err != nil {
			return nil, fmt.Errorf("評価分布の読み取りに失敗しました: %w", err)
		}
		// 0.5はバケット1、5.0はバケット5に入る
		summary.Distribution[model.RatingBucket(float64(bucket))] += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("評価分布の走査に失敗しました: %w", err)
	}

	return summary, nil
}

// compile-time interface check
var _ ReviewRepository = (*PostgresReviewRepo)(nil)
