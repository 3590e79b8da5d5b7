package domain

// Client defaults shared by the config layer, the CLI and the MCP server.
const (
	// DefaultAPIBaseURL is where the TextScope backend listens in development.
	DefaultAPIBaseURL = "http://localhost:8000"

	// TokenStorageKey names the persisted bearer token.
	TokenStorageKey = "access_token"

	// DefaultHistoryLimit matches the backend page size of GET /analyses/.
	DefaultHistoryLimit = 10

	// MaxHistoryLimit bounds a single history request.
	MaxHistoryLimit = 100

	// DefaultDashboardAddr is the listen address of the local dashboard.
	DefaultDashboardAddr = "127.0.0.1:8765"

	// DefaultExtractConcurrency bounds parallel document extraction.
	DefaultExtractConcurrency = 4

	// DefaultTruncateLength is the preview length of texts in list views.
	DefaultTruncateLength = 100
)
