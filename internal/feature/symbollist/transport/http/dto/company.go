package dto

// CompanyItem は会社一覧APIのレスポンス要素です。
type CompanyItem struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Currency string `json:"currency"`
	Exchange string `json:"exchange"`
	Size     string `json:"size"`
	Sector   string `json:"sector"`
	ISIN     string `json:"isin"`
	// ReutersSymbol は抽出に使われる実効シンボルです。
	ReutersSymbol string `json:"reuters_symbol"`
}

// SectorItem はセクター一覧APIのレスポンス要素です。
type SectorItem struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
