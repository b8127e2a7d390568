package config

// CookieConfig defines the shared security baseline for all cookies issued
// or cleared by the dashboard client.
type CookieConfig struct {
	// Domain for the cookies
	Domain string
	// IsSecure indicates if cookies should be marked as Secure
	IsSecure bool
	// HttpOnly indicates if cookies should be marked as HttpOnly for security
	HttpOnly bool
}
