package types

import "time"

// Trade is an executed trade against an account.
type Trade struct {
	ID           int        `json:"tradeId" db:"trade_id"`
	Account      string     `json:"account" db:"account" validate:"required,max=30" label:"Account"`
	Type         string     `json:"type" db:"type" validate:"required,max=30" label:"Type"`
	BuyQuantity  *float64   `json:"buyQuantity" db:"buy_quantity" validate:"omitempty,gt=0" label:"Buy quantity"`
	SellQuantity *float64   `json:"sellQuantity" db:"sell_quantity" validate:"omitempty,gt=0" label:"Sell quantity"`
	BuyPrice     *float64   `json:"buyPrice" db:"buy_price" validate:"omitempty,gt=0" label:"Buy price"`
	SellPrice    *float64   `json:"sellPrice" db:"sell_price" validate:"omitempty,gt=0" label:"Sell price"`
	Benchmark    string     `json:"benchmark" db:"benchmark" validate:"max=125" label:"Benchmark"`
	TradeDate    *time.Time `json:"tradeDate" db:"trade_date" label:"Trade date"`
	Security     string     `json:"security" db:"security" validate:"max=125" label:"Security"`
	Status       string     `json:"status" db:"status" validate:"max=10" label:"Status"`
	Trader       string     `json:"trader" db:"trader" validate:"max=125" label:"Trader"`
	Book         string     `json:"book" db:"book" validate:"max=125" label:"Book"`
	CreationName string     `json:"creationName" db:"creation_name" validate:"max=125" label:"Creation name"`
	CreationDate *time.Time `json:"creationDate" db:"creation_date"`
	RevisionName string     `json:"revisionName" db:"revision_name" validate:"max=125" label:"Revision name"`
	RevisionDate *time.Time `json:"revisionDate" db:"revision_date"`
	DealName     string     `json:"dealName" db:"deal_name" validate:"max=125" label:"Deal name"`
	DealType     string     `json:"dealType" db:"deal_type" validate:"max=125" label:"Deal type"`
	SourceListID string     `json:"sourceListId" db:"source_list_id" validate:"max=125" label:"Source list ID"`
	Side         string     `json:"side" db:"side" validate:"max=125" label:"Side"`
}
