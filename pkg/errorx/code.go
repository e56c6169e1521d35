package errorx

type Code int

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	// Common codes
	BadRequest   Code = 100001
	BadResponse  Code = 100002
	NotFound     Code = 100004
	Internal     Code = 100007
	Unavailable  Code = 100008
	MissingState Code = 100012

	// Marketplace codes
	NotListed Code = 200001

	// Transaction codes
	TxDispatch Code = 300001
	TxFailed   Code = 300002
	TxTimeout  Code = 300003
)
