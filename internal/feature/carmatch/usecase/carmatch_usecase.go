// Package usecase はcarmatchフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"carstock_backend/internal/feature/carmatch/domain"
	"carstock_backend/internal/feature/carmatch/domain/entity"
)

// Classifier は保存済み画像を外部の分類APIに送るインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type Classifier interface {
	Classify(ctx context.Context, img entity.StagedImage) (*entity.ClassificationResult, error)
}

// InventoryRepository は在庫ストアの検索インターフェースです。
type InventoryRepository interface {
	// FindByBodyStyle は bodyStyle が完全一致するレコードをすべて返します。
	FindByBodyStyle(ctx context.Context, bodyStyle string) ([]entity.InventoryRecord, error)
}

// ParseRelayMode は設定値をRelayModeに変換します。空文字は lookup として扱います。
func ParseRelayMode(s string) (entity.RelayMode, error) {
	switch entity.RelayMode(s) {
	case "", entity.ModeLookup:
		return entity.ModeLookup, nil
	case entity.ModeRaw:
		return entity.ModeRaw, nil
	default:
		return "", fmt.Errorf("unknown relay mode %q", s)
	}
}

// CarMatchUsecase は画像分類のリレーと在庫照合を行います。
type CarMatchUsecase struct {
	classifier Classifier
	inventory  InventoryRepository
	mode       entity.RelayMode
}

// NewCarMatchUsecase はCarMatchUsecaseの新しいインスタンスを生成します。
// ModeRaw の場合 inventory は nil でも構いません。
func NewCarMatchUsecase(c Classifier, inv InventoryRepository, mode entity.RelayMode) (*CarMatchUsecase, error) {
	if c == nil {
		return nil, errors.New("classifier is required")
	}
	if mode == entity.ModeLookup && inv == nil {
		return nil, errors.New("inventory repository is required in lookup mode")
	}
	return &CarMatchUsecase{classifier: c, inventory: inv, mode: mode}, nil
}

// Mode は設定されたリレーモードを返します。
func (u *CarMatchUsecase) Mode() entity.RelayMode {
	return u.mode
}

// Match は画像を分類し、モードに応じて生の結果または一致した在庫を返します。
func (u *CarMatchUsecase) Match(ctx context.Context, img entity.StagedImage) (*entity.MatchResult, error) {
	res, err := u.classifier.Classify(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamFailure, err)
	}

	if u.mode == entity.ModeRaw {
		return &entity.MatchResult{Mode: entity.ModeRaw, Raw: res.Raw}, nil
	}

	out := &entity.MatchResult{Mode: entity.ModeLookup, Records: []entity.InventoryRecord{}}
	top, ok := entity.SelectTop(res.Predictions)
	if !ok {
		slog.Warn("分類結果が空のため在庫検索をスキップ", "file", img.OriginalName)
		return out, nil
	}
	out.Selected = &top
	slog.Info("最上位タグを選択", "tag", top.TagName, "probability", top.Probability)

	records, err := u.inventory.FindByBodyStyle(ctx, top.TagName)
	if err != nil {
		return nil, fmt.Errorf("%w: bodyStyle=%q: %w", domain.ErrStoreQueryFailure, top.TagName, err)
	}
	if records != nil {
		out.Records = records
	}
	return out, nil
}
