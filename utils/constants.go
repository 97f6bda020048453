package utils

// ContextKey is the type used for request-scoped context values.
type ContextKey string

// Context keys populated by the HTTP layer for downstream flows.
const (
	RequestIDKey  ContextKey = "request_id"
	UserAgentKey  ContextKey = "user_agent"
	IPAddressKey  ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	CancelFuncKey ContextKey = "cancel_func"
)
