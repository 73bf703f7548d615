package dto

type RecordTransactionInput struct {
	ItemCode   string
	Date       string
	InQty      int64
	OutQty     int64
	Remark     string
	RecordedBy string
}

type EditTransactionInput struct {
	ID     string
	Date   string
	InQty  int64
	OutQty int64
	Remark string
}
