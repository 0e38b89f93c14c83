package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/cinelog/internal/database"
	"github.com/hitoshi/cinelog/internal/model"
)

// openIntegrationDB はTEST_DATABASE_URLで指定されたPostgreSQLに接続する。
// 未設定の場合はテストをスキップする。マイグレーションは適用済みでなければ適用する。
func openIntegrationDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set; skipping database integration test")
	}

	db, err := database.Open(dsn)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Ping(); err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(dsn); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// seedMemberAndMovie は集計テスト用の会員と映画を1件ずつ作成し、
// テスト終了時に関連行ごと削除する。
func seedMemberAndMovie(t *testing.T, db *sql.DB) (memberID, movieID string) {
	t.Helper()
	ctx := context.Background()

	memberID = uuid.New().String()
	movieID = uuid.New().String()

	members := NewPostgresMemberRepo(db)
	if err := members.Create(ctx, &model.Member{
		ID:           memberID,
		PasswordHash: "integration-test-hash",
		Name:         "統合テスト会員",
		PhoneNumber:  "010-0000-0000",
		CreatedAt:    time.Now().UTC(),
	}); err != nil {
		t.Fatalf("failed to create member: %v", err)
	}

	movies := NewPostgresMovieRepo(db)
	if err := movies.Create(ctx, &model.Movie{
		ID:          movieID,
		Title:       "統合テスト映画 " + movieID[:8],
		Genres:      []string{"Thriller"},
		ReleaseYear: 2003,
		CreatedAt:   time.Now().UTC(),
	}); err != nil {
		t.Fatalf("failed to create movie: %v", err)
	}

	t.Cleanup(func() {
		db.Exec(`DELETE FROM review WHERE movie_id = $1`, movieID)
		db.Exec(`DELETE FROM movie WHERE id = $1`, movieID)
		db.Exec(`DELETE FROM member WHERE id = $1`, memberID)
	})

	return memberID, movieID
}

// addReview は指定評価値のレビューを1件作成する。
func addReview(t *testing.T, reviews *PostgresReviewRepo, memberID, movieID string, rating float64) {
	t.Helper()

	now := time.Now().UTC()
	if err := reviews.Create(context.Background(), &model.Review{
		ID:        uuid.New().String(),
		MemberID:  memberID,
		MovieID:   movieID,
		Content:   "統合テストのレビュー",
		Rating:    rating,
		Emotions:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("failed to create review: %v", err)
	}
}

// TestIntegration_AggregateByMovieID は評価集計SQLを実DBで検証する。
// 評価 {2, 3, 3, 5} → 件数4、平均3.3、分布 {2:1, 3:2, 5:1}。
func TestIntegration_AggregateByMovieID(t *testing.T) {
	db := openIntegrationDB(t)
	memberID, movieID := seedMemberAndMovie(t, db)
	reviews := NewPostgresReviewRepo(db)

	for _, rating := range []float64{2, 3, 3, 5} {
		addReview(t, reviews, memberID, movieID, rating)
	}

	summary, err := reviews.AggregateByMovieID(context.Background(), movieID)
	if err != nil {
		t.Fatalf("AggregateByMovieID failed: %v", err)
	}

	if summary.Count != 4 {
		t.Errorf("Count = %d, want 4", summary.Count)
	}
	if summary.Average != 3.3 {
		t.Errorf("Average = %v, want 3.3", summary.Average)
	}

	want := map[int]int{1: 0, 2: 1, 3: 2, 4: 0, 5: 1}
	for bucket, count := range want {
		if summary.Distribution[bucket] != count {
			t.Errorf("Distribution[%d] = %d, want %d", bucket, summary.Distribution[bucket], count)
		}
	}
}

// TestIntegration_AggregateByMovieID_HalfPointBuckets は境界値の
// バケット割り当てを実DBで検証する。0.5はバケット1、5.0はバケット5に入る。
func TestIntegration_AggregateByMovieID_HalfPointBuckets(t *testing.T) {
	db := openIntegrationDB(t)
	memberID, movieID := seedMemberAndMovie(t, db)
	reviews := NewPostgresReviewRepo(db)

	addReview(t, reviews, memberID, movieID, 0.5)
	addReview(t, reviews, memberID, movieID, 5.0)

	summary, err := reviews.AggregateByMovieID(context.Background(), movieID)
	if err != nil {
		t.Fatalf("AggregateByMovieID failed: %v", err)
	}

	if summary.Count != 2 {
		t.Errorf("Count = %d, want 2", summary.Count)
	}
	if summary.Average != 2.8 {
		t.Errorf("Average = %v, want 2.8", summary.Average)
	}
	if summary.Distribution[1] != 1 {
		t.Errorf("Distribution[1] = %d, want 1 (rating 0.5)", summary.Distribution[1])
	}
	if summary.Distribution[5] != 1 {
		t.Errorf("Distribution[5] = %d, want 1 (rating 5.0)", summary.Distribution[5])
	}
}

// TestIntegration_AggregateByMovieID_NoReviews はレビュー0件の映画が
// エラーではなく空の集計を返すことを実DBで検証する。
func TestIntegration_AggregateByMovieID_NoReviews(t *testing.T) {
	db := openIntegrationDB(t)
	_, movieID := seedMemberAndMovie(t, db)
	reviews := NewPostgresReviewRepo(db)

	summary, err := reviews.AggregateByMovieID(context.Background(), movieID)
	if err != nil {
		t.Fatalf("AggregateByMovieID failed: %v", err)
	}

	if summary.Count != 0 {
		t.Errorf("Count = %d, want 0", summary.Count)
	}
	if summary.Average != 0 {
		t.Errorf("Average = %v, want 0", summary.Average)
	}
	for bucket := 1; bucket <= 5; bucket++ {
		if summary.Distribution[bucket] != 0 {
			t.Errorf("Distribution[%d] = %d, want 0", bucket, summary.Distribution[bucket])
		}
	}
}
