package adapters

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"carstock_backend/internal/feature/carmatch/domain/entity"
	"carstock_backend/internal/feature/carmatch/usecase"
)

// DefaultCollection は在庫コレクションのデフォルト名です。
const DefaultCollection = "cars"

// inventoryMongo はInventoryRepositoryインターフェースのMongoDB実装です。
type inventoryMongo struct {
	coll *mongo.Collection
}

var _ usecase.InventoryRepository = (*inventoryMongo)(nil)

// NewInventoryMongo は指定されたコレクションでinventoryMongoリポジトリを生成します。
func NewInventoryMongo(coll *mongo.Collection) *inventoryMongo {
	return &inventoryMongo{coll: coll}
}

// FindByBodyStyle は {bodyStyle: <tag>} に一致するドキュメントをすべて返します。
func (r *inventoryMongo) FindByBodyStyle(ctx context.Context, bodyStyle string) ([]entity.InventoryRecord, error) {
	cur, err := r.coll.Find(ctx, bodyStyleFilter(bodyStyle))
	if err != nil {
		return nil, fmt.Errorf("find cars: %w", err)
	}

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode cars: %w", err)
	}
	return toRecords(docs), nil
}

// bodyStyleFilter は bodyStyle の完全一致フィルターです。正規化はしません。
func bodyStyleFilter(bodyStyle string) bson.D {
	return bson.D{{Key: entity.BodyStyleField, Value: bodyStyle}}
}

// toRecords はドキュメントを在庫レコードに変換します。結果が0件でも空スライスを返します。
func toRecords(docs []bson.M) []entity.InventoryRecord {
	out := make([]entity.InventoryRecord, 0, len(docs))
	for _, doc := range docs {
		rec := make(entity.InventoryRecord, len(doc))
		for k, v := range doc {
			rec[k] = v
		}
		out = append(out, rec)
	}
	return out
}
