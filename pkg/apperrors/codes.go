package apperrors

type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"
	CodeNotFound         Code = "NOT_FOUND"
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodeInternal         Code = "INTERNAL"
	CodePaymentRequired  Code = "PAYMENT_REQUIRED"
	CodeSessionCompleted Code = "SESSION_COMPLETED"
	CodeSessionCancelled Code = "SESSION_CANCELLED"
)
