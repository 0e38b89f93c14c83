package repository

import (
	"testing"
)

// PostgresMemberRepoはMemberRepositoryインターフェースを満たすことを検証
func TestPostgresMemberRepo_ImplementsInterface(t *testing.T) {
	var _ MemberRepository = (*PostgresMemberRepo)(nil)
}

// PostgresMovieRepoはMovieRepositoryインターフェースを満たすことを検証
func TestPostgresMovieRepo_ImplementsInterface(t *testing.T) {
	var _ MovieRepository = (*PostgresMovieRepo)(nil)
}

// PostgresReviewRepoはReviewRepositoryインターフェースを満たすことを検証
func TestPostgresReviewRepo_ImplementsInterface(t *testing.T) {
	var _ ReviewRepository = (*PostgresReviewRepo)(nil)
}

// PostgresLikeRepoはLikeRepositoryインターフェースを満たすことを検証
func TestPostgresLikeRepo_ImplementsInterface(t *testing.T) {
	var _ LikeRepository = (*PostgresLikeRepo)(nil)
}

// 各リポジトリが正しく初期化されることを検証
func TestNewRepos_Initialize(t *testing.T) {
	if NewPostgresMemberRepo(nil) == nil {
		t.Fatal("expected non-nil member repo")
	}
	if NewPostgresMovieRepo(nil) == nil {
		t.Fatal("expected non-nil movie repo")
	}
	if NewPostgresReviewRepo(nil) == nil {
		t.Fatal("expected non-nil review repo")
	}
	if NewPostgresLikeRepo(nil) == nil {
		t.Fatal("expected non-nil like repo")
	}
}

// nullString/nullYear/nullTMDBIDの境界値変換を検証
func TestNullableHelpers(t *testing.T) {
	if v := nullString(""); v.Valid {
		t.Error("nullString(\"\") should be invalid")
	}
	if v := nullString("x"); !v.Valid || v.String != "x" {
		t.Error("nullString(\"x\") should be valid")
	}

	if v := nullYear(0); v.Valid {
		t.Error("nullYear(0) should be invalid")
	}
	if v := nullYear(2003); !v.Valid || v.Int32 != 2003 {
		t.Error("nullYear(2003) should be valid")
	}

	if v := nullTMDBID(0); v.Valid {
		t.Error("nullTMDBID(0) should be invalid")
	}
	if v := nullTMDBID(670); !v.Valid || v.Int64 != 670 {
		t.Error("nullTMDBID(670) should be valid")
	}
}
