package domain

// UserRecord is one registered user as stored in the remote directory.
type UserRecord struct {
	ID                string `json:"id,omitempty"`
	Email             string `json:"email"`
	PasswordHash      string `json:"-"`
	CreationTimestamp int64  `json:"creation_timestamp"`
}

// TransportCredentials are the credentials as submitted by the client, with
// the password still transport-encoded.
type TransportCredentials struct {
	Email           string
	EncodedPassword string
}

// Credentials carry a decoded plaintext password. They are never persisted.
type Credentials struct {
	Email    string
	Password string
}
