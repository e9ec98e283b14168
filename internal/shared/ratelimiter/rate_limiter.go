// Package ratelimiter は外部API呼び出しの頻度を制限します。
package ratelimiter

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Limiter は呼び出し前に必要なら待機するインターフェースです。
type Limiter interface {
	Wait(ctx context.Context) error
}

// RateLimiterは、interval あたりの呼び出し回数を limit に制限します。
type RateLimiter struct {
	mu        sync.Mutex
	limit     int           // interval あたりの上限
	interval  time.Duration // どの単位でリセットするか
	count     int
	lastReset time.Time
	now       func() time.Time
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
// limit が0以下の場合は nil を返し、呼び出し側は制限なしとして扱います。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 || interval <= 0 {
		return nil
	}
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
		now:       time.Now,
	}
}

// Waitはレートリミットの上限に達しているかを確認し、必要であれば待機します。
// 待機中に ctx がキャンセルされた場合は確保した枠を返却して ctx.Err() を返します。
// nil レシーバは制限なしとして即座に戻ります。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl == nil {
		return nil
	}
	sleep, window := rl.reserve()
	if sleep <= 0 {
		return nil
	}
	slog.Info("レートリミットに到達したため待機", "limit", rl.limit, "sleep", sleep)
	timer := time.NewTimer(sleep)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		rl.release(window)
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// reserve は1回分の枠を確保し、必要な待機時間と確保した窓の開始時刻を返します。
func (rl *RateLimiter) reserve() (time.Duration, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	// interval を過ぎたらカウントリセット
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	rl.count++
	if rl.count > rl.limit {
		// 次の窓の先頭に予約する
		rl.count = 1
		rl.lastReset = rl.lastReset.Add(rl.interval)
	}
	if wait := rl.lastReset.Sub(now); wait > 0 {
		return wait, rl.lastReset
	}
	return 0, rl.lastReset
}

// release は reserve で確保した窓の枠を1つ返却します。
// 窓が既に先へ進んでいる場合は何もしません。
func (rl *RateLimiter) release(window time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.lastReset.Equal(window) && rl.count > 0 {
		rl.count--
	}
}
