// Package model はドメインモデルを定義する。
package model

import "time"

// Member はサービス利用会員を表す。
// IDは会員が登録時に指定する外部ID。登録後に変更されることはない。
type Member struct {
	ID           string
	PasswordHash string
	Name         string
	Birth        *time.Time
	Gender       string
	Email        string
	PhoneNumber  string
	CreatedAt    time.Time
}
