package enum

// SyncRecordType names the kinds of records a mobile client can push
type SyncRecordType string

const (
	SyncRecordCustomer SyncRecordType = "customer"
	SyncRecordVisit    SyncRecordType = "visit"
	SyncRecordInvoice  SyncRecordType = "invoice"
)
