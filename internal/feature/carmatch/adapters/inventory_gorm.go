package adapters

import (
	"context"

	"gorm.io/gorm"

	"carstock_backend/internal/feature/carmatch/domain/entity"
	"carstock_backend/internal/feature/carmatch/usecase"
)

// inventoryGorm はInventoryRepositoryインターフェースのSQL（gorm）実装です。
type inventoryGorm struct {
	db *gorm.DB
}

var _ usecase.InventoryRepository = (*inventoryGorm)(nil)

// NewInventoryGorm は指定されたDB接続でinventoryGormリポジトリの新しいインスタンスを生成します。
func NewInventoryGorm(db *gorm.DB) *inventoryGorm {
	return &inventoryGorm{db: db}
}

// FindByBodyStyle は body_style が完全一致する車両をid順に返します。
func (r *inventoryGorm) FindByBodyStyle(ctx context.Context, bodyStyle string) ([]entity.InventoryRecord, error) {
	var rows []CarModel
	if err := r.db.WithContext(ctx).
		Where("body_style = ?", bodyStyle).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.InventoryRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToRecord())
	}
	return out, nil
}
