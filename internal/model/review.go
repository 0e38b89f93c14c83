// Package model はドメインモデルを定義する。
package model

import "time"

// Review は会員が映画に対して書いたレビューを表す。
// 作成した会員のみが更新できる。削除は提供しない。
type Review struct {
	ID                string
	MemberID          string
	MovieID           string
	Content           string
	Rating            float64
	Emotions          []string
	MediaURL          string
	HighlightQuote    string
	HighlightImageURL string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// 評価値の許容範囲。ヒストグラムのバケット[1,5]と対応する。
const (
	RatingMin = 0.5
	RatingMax = 5.0
)

// ValidRating は評価値が許容範囲[0.5, 5.0]に収まっているかを検証する。
func ValidRating(rating float64) bool {
	return rating >= RatingMin && rating <= RatingMax
}

// RatingSummary は映画1本に対する評価の集計結果を表す。
// Distributionのキーは1〜5のバケット。評価値の切り捨てを[1,5]にクランプして分類する。
type RatingSummary struct {
	Count        int
	Average      float64 // 小数第1位に丸めた平均。レビュー0件の場合は0
	Distribution map[int]int
}

// NewEmptyRatingSummary はレビュー0件の集計結果を生成する。
func NewEmptyRatingSummary() *RatingSummary {
	return &RatingSummary{
		Count:        0,
		Average:      0,
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
}

// RatingBucket は評価値をヒストグラムのバケットに分類する。
// 切り捨てた値を[1,5]にクランプする（0.5はバケット1、5.0はバケット5）。
func RatingBucket(rating float64) int {
	bucket := int(rating)
	if bucket < 1 {
		return 1
	}
	if bucket > 5 {
		return 5
	}
	return bucket
}
