package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresLikeRepo はPostgreSQLを使用した「いいね」リポジトリ。
type PostgresLikeRepo struct {
	db *sql.DB
}

// NewPostgresLikeRepo はPostgresLikeRepoを生成する。
func NewPostgresLikeRepo(db *sql.DB) *PostgresLikeRepo {
	return &PostgresLikeRepo{db: db}
}

// Toggle は(member, movie)のいいね状態を反転し、反転後の状態を返す。
// 削除・挿入はそれぞれ単一文の条件付き書き込みで、
// (member_id, movie_id)の主キー制約により同時ダブルトグルでも
// 行は高々1つしか残らない。
func (r *PostgresLikeRepo) Toggle(ctx context.Context, memberID, movieID string) (bool, error) {
	// 既存行があれば削除してliked=false
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM liked_movie WHERE member_id = $1 AND movie_id = $2`,
		memberID, movieID,
	)
	if err != nil {
		return false, fmt.Errorf("いいねの削除に失敗しました: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if deleted > 0 {
		return false, nil
	}

	// 行がなければ挿入してliked=true。同時挿入と衝突した場合も
	// 行は存在しているためliked=trueを返す。
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO liked_movie (member_id, movie_id)
		 VALUES ($1, $2)
		 ON CONFLICT (member_id, movie_id) DO NOTHING`,
		memberID, movieID,
	)
	if err != nil {
		return false, fmt.Errorf("いいねの登録に失敗しました: %w", err)
	}

	return true, nil
}

// compile-time interface check
var _ LikeRepository = (*PostgresLikeRepo)(nil)
