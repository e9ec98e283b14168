package entity

// BodyStyleField は在庫レコードの照合に使うフィールド名です。
const BodyStyleField = "bodyStyle"

// InventoryRecord は在庫ストアに保存された車両レコードです。
// スキーマはストア側の関心事なので、キーと値の組としてそのまま扱います。
type InventoryRecord map[string]any

// BodyStyle はレコードのボディスタイルを返します。文字列でない場合は空文字です。
func (r InventoryRecord) BodyStyle() string {
	s, _ := r[BodyStyleField].(string)
	return s
}
