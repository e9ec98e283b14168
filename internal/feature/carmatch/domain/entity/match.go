package entity

// StagedImage は一時ディレクトリに保存されたアップロード画像です。
type StagedImage struct {
	Path         string // 保存先のパス
	OriginalName string // クライアントが送ったファイル名
	MIMEType     string // 宣言されたContent-Type
	Size         int64
}

// RelayMode はリレーの応答形式です。
type RelayMode string

const (
	// ModeRaw は分類APIのJSONをそのまま返します。
	ModeRaw RelayMode = "raw"
	// ModeLookup は最上位タグで在庫を検索し、一致したレコードを返します。
	ModeLookup RelayMode = "lookup"
)

// MatchResult は1リクエスト分の処理結果です。
type MatchResult struct {
	Mode     RelayMode
	Raw      []byte            // ModeRaw のときのみ
	Selected *Prediction       // 予測が空なら nil
	Records  []InventoryRecord // ModeLookup のときのみ。nil にはならない
}
