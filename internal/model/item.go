package model

type ItemKind string

const (
	KindConsumable ItemKind = "consumable"
	KindLinen      ItemKind = "linen"
)

func (k ItemKind) Valid() bool {
	return k == KindConsumable || k == KindLinen
}

// Item is a stock-keeping unit. ItemCode and OpeningBalance never change after creation.
type Item struct {
	BaseModel
	ItemCode       string   `db:"item_code" json:"item_code"`
	Kind           ItemKind `db:"kind" json:"kind"`
	ItemName       string   `db:"item_name" json:"item_name"`
	Category       string   `db:"category" json:"category"` // Consumables only
	OpeningBalance int64    `db:"opening_balance" json:"opening_balance"`
}

// SearchFields are the fields a text query matches against on item and balance lists.
func (it *Item) SearchFields() []string {
	return []string{it.ItemCode, it.ItemName, it.Category}
}
