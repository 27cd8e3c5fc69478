package types

import "time"

// BidList is a bid held against an account.
type BidList struct {
	ID           int        `json:"id" db:"bid_list_id"`
	Account      string     `json:"account" db:"account" validate:"required,max=30" label:"Account"`
	Type         string     `json:"type" db:"type" validate:"required,max=30" label:"Type"`
	BidQuantity  *float64   `json:"bidQuantity" db:"bid_quantity" validate:"required,gt=0" label:"Bid quantity"`
	AskQuantity  *float64   `json:"askQuantity" db:"ask_quantity" validate:"omitempty,gt=0" label:"Ask quantity"`
	Bid          *float64   `json:"bid" db:"bid" validate:"omitempty,gt=0" label:"Bid"`
	Ask          *float64   `json:"ask" db:"ask" validate:"omitempty,gt=0" label:"Ask"`
	Benchmark    string     `json:"benchmark" db:"benchmark" validate:"max=125" label:"Benchmark"`
	BidListDate  *time.Time `json:"bidListDate" db:"bid_list_date" label:"Bid list date"`
	Commentary   string     `json:"commentary" db:"commentary" validate:"max=125" label:"Commentary"`
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
