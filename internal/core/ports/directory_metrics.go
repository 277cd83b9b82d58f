package ports

import "time"

// Outcome label values for login and sign-up attempts.
const (
	OutcomeSuccess           = "success"
	OutcomeUserNotFound      = "user_not_found"
	OutcomeIncorrectPassword = "incorrect_password"
	OutcomeUserExists        = "user_exists"
	OutcomeError             = "error"
)

// Remote store operations reported to DirectoryMetrics.
const (
	OpFetchAll = "fetch_all"
	OpCreate   = "create"
)

// DirectoryMetrics records directory activity.
type DirectoryMetrics interface {
	Login(outcome string)
	Signup(outcome string)
	CacheLoad(err error)
	CacheSize(records int)
	RemoteCall(op string, d time.Duration)
}
