// Package model はドメインモデルを定義する。
package model

import "time"

// Movie は映画を表す。
// 明示的な登録またはレビュー作成時の自動解決により作成され、
// サロゲートID以外のフィールドは作成後に変更されない。
type Movie struct {
	ID          string
	Title       string
	Genres      []string
	ReleaseYear int   // 不明な場合は0
	Director    string
	PosterURL   string
	TMDBID      int64 // 外部カタログID。未設定の場合は0
	CreatedAt   time.Time
}

// MovieRef はリクエストが映画を指す3通りの方法を表す。
// MovieID（サロゲートID）、TMDBID（外部カタログID）、Title（タイトル検索）の
// いずれか1つが設定される。
type MovieRef struct {
	MovieID string
	TMDBID  int64
	Title   string
}

// IsZero はいずれの識別子も設定されていない場合にtrueを返す。
func (r MovieRef) IsZero() bool {
	return r.MovieID == "" && r.TMDBID == 0 && r.Title == ""
}
