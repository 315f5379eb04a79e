package user

// User identity is managed by an external provider (auth proxy). The service
// only receives a stable opaque identifier per request and scopes records to it.
type User struct {
	Uid string
}
