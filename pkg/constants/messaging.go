package constants

// NATS subjects for audit events.
// These constants define the protocol format for published auth events.
const (
	EventPrefix = "auth."

	SubjectUserRegistered = EventPrefix + "user.registered"
	SubjectUserLogin      = EventPrefix + "user.login"
	SubjectUserLogout     = EventPrefix + "user.logout"
	SubjectTokenRefreshed = EventPrefix + "token.refreshed"
)
