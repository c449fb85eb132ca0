package common

// Storage keys for the persisted session artifacts. Each artifact lives
// under its own stable key so the token triple can be cleared without
// touching the theme preference or install id.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeySessionID    = "session_id"
	KeyUser         = "user"
	KeyTheme        = "theme"
	KeyInstallID    = "install_id"
)

// DefaultRole is assigned when the server returns an empty roles list.
const DefaultRole = "usuario"
