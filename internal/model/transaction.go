package model

// DateLayout is the calendar date format used for transaction dates.
const DateLayout = "2006-01-02"

// DefaultRecordedBy is used when the acting user is unknown.
const DefaultRecordedBy = "system"

// Transaction is one dated movement against an item. Exactly one of InQty/OutQty is nonzero.
type Transaction struct {
	BaseModel
	ID         string `db:"id" json:"id"`
	ItemCode   string `db:"item_code" json:"item_code"`
	Date       string `db:"txn_date" json:"date"`
	InQty      int64  `db:"in_qty" json:"in_qty"`
	OutQty     int64  `db:"out_qty" json:"out_qty"`
	Remark     string `db:"remark" json:"remark"`
	RecordedBy string `db:"recorded_by" json:"recorded_by"`
}
