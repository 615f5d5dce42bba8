package constants

const (
	// Context Keys
	ContextKeyIsLoggedIn = "isLoggedIn"
	ContextKeySite       = "site"
	ContextKeySession    = "adminSession"
	ContextKeyRequestID  = "requestID"

	// Session Keys
	SessionName            = "pencilpost_session"
	SessionKeyToken        = "admin_token"
	SessionKeyUser         = "admin_user"
	SessionKeySuccessFlash = "success_flash"
	SessionKeyErrorFlash   = "error_flash"

	// Header Keys
	HeaderRequestID = "X-Request-ID"

	// Page sizes
	BlogPageSize     = 12
	CategoryPageSize = 12
	HomeLatestPosts  = 6
)
