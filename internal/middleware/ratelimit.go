package middleware

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig はレート制限の設定を保持する。
type RateLimiterConfig struct {
	GeneralRate     rate.Limit    // API全般のレート（req/sec）
	GeneralBurst    int           // API全般のバーストサイズ
	ReviewRate      rate.Limit    // レビュー作成のレート（req/sec）
	ReviewBurst     int           // レビュー作成のバーストサイズ
	CleanupInterval time.Duration // 期限切れエントリのクリーンアップ間隔
}

// NewRateLimiterConfig はreq/min単位の設定値からRateLimiterConfigを組み立てる。
// レビュー作成はTMDBへの外部呼び出しを伴うため、全般より厳しい上限を設ける。
func NewRateLimiterConfig(generalPerMin, reviewPerMin int) RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(float64(generalPerMin) / 60.0),
		GeneralBurst:    generalPerMin,
		ReviewRate:      rate.Limit(float64(reviewPerMin) / 60.0),
		ReviewBurst:     reviewPerMin,
		CleanupInterval: 5 * time.Minute,
	}
}

// memberLimiter は会員ごとのレートリミッターとアクセス時刻を保持する。
type memberLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter は会員ごとのレート制限を管理する。
// API全般のレート制限とレビュー作成のレート制限の2種類を提供する。
type RateLimiter struct {
	config RateLimiterConfig

	generalMu       sync.RWMutex
	generalLimiters map[string]*memberLimiter

	reviewMu       sync.RWMutex
	reviewLimiters map[string]*memberLimiter

	stopCh chan struct{}
}

// NewRateLimiter は新しいRateLimiterを生成する。
// バックグラウンドで期限切れエントリのクリーンアップを開始する。
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:          config,
		generalLimiters: make(map[string]*memberLimiter),
		reviewLimiters:  make(map[string]*memberLimiter),
		stopCh:          make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop はクリーンアップのバックグラウンドゴルーチンを停止する。
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// GeneralMiddleware はAPI全般のレート制限ミドルウェアを返す。
// リクエストコンテキストに会員IDが含まれている必要がある（認証ミドルウェアの後に配置）。
func (rl *RateLimiter) GeneralMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			memberID, err := MemberIDFromContext(r.Context())
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			limiter := rl.getOrCreate(&rl.generalMu, rl.generalLimiters, memberID, rl.config.GeneralRate, rl.config.GeneralBurst)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.GeneralRate)
				slog.Warn("rate limit exceeded",
					slog.String("member_id", memberID),
					slog.String("limit_type", "general"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ReviewCreationMiddleware はレビュー作成専用のレート制限ミドルウェアを返す。
// API全般のレート制限とは独立に動作する。
func (rl *RateLimiter) ReviewCreationMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			memberID, err := MemberIDFromContext(r.Context())
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			limiter := rl.getOrCreate(&rl.reviewMu, rl.reviewLimiters, memberID, rl.config.ReviewRate, rl.config.ReviewBurst)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.ReviewRate)
				slog.Warn("rate limit exceeded",
					slog.String("member_id", memberID),
					slog.String("limit_type", "review_creation"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GeneralLimiterCount は現在管理されているAPI全般リミッターのエントリ数を返す。
// テストおよびメトリクス用。
func (rl *RateLimiter) GeneralLimiterCount() int {
	rl.generalMu.RLock()
	defer rl.generalMu.RUnlock()
	return len(rl.generalLimiters)
}

// ReviewLimiterCount は現在管理されているレビュー作成リミッターのエントリ数を返す。
// テストおよびメトリクス用。
func (rl *RateLimiter) ReviewLimiterCount() int {
	rl.reviewMu.RLock()
	defer rl.reviewMu.RUnlock()
	return len(rl.reviewLimiters)
}

// getOrCreate は会員のリミッターを取得または作成する。
func (rl *RateLimiter) getOrCreate(mu *sync.RWMutex, limiters map[string]*memberLimiter, memberID string, r rate.Limit, burst int) *rate.Limiter {
	mu.RLock()
	ml, exists := limiters[memberID]
	mu.RUnlock()

	if exists {
		mu.Lock()
		ml.lastAccess = time.Now()
		mu.Unlock()
		return ml.limiter
	}

	mu.Lock()
	defer mu.Unlock()

	// ダブルチェック
	if ml, exists := limiters[memberID]; exists {
		ml.lastAccess = time.Now()
		return ml.limiter
	}

	limiter := rate.NewLimiter(r, burst)
	limiters[memberID] = &memberLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	return limiter
}

// cleanupLoop はバックグラウンドで期限切れエントリを定期的にクリーンアップする。
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup は最終アクセス時刻がCleanupIntervalの2倍を超えたエントリを削除する。
func (rl *RateLimiter) cleanup() {
	ttl := rl.config.CleanupInterval * 2

	now := time.Now()

	rl.generalMu.Lock()
	for memberID, ml := range rl.generalLimiters {
		if now.Sub(ml.lastAccess) > ttl {
			delete(rl.generalLimiters, memberID)
		}
	}
	rl.generalMu.Unlock()

	rl.reviewMu.Lock()
	for memberID, ml := range rl.reviewLimiters {
		if now.Sub(ml.lastAccess) > ttl {
			delete(rl.reviewLimiters, memberID)
		}
	}
	rl.reviewMu.Unlock()
}

// writeRateLimitResponse は429 Too Many Requestsレスポンスを書き込む。
// Retry-Afterヘッダーにはトークンが補充されるまでの推定秒数を設定する。
func writeRateLimitResponse(w http.ResponseWriter, r rate.Limit) {
	// Retry-Afterの算出: 1トークンが補充されるまでの秒数
	retryAfterSec := int(math.Ceil(1.0 / float64(r)))
	if retryAfterSec < 1 {
		retryAfterSec = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)

	json.NewEncoder(w).Encode(map[string]string{
		"error": "リクエストが多すぎます。しばらく待ってから再度お試しください。",
	})
}
