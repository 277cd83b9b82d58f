package domain

import "fmt"

// ErrorKind classifies a DirectoryError.
type ErrorKind int

const (
	KindUserNotFound ErrorKind = iota + 1
	KindIncorrectPassword
	KindUserExists
)

func (k ErrorKind) String() string {
	switch k {
	case KindUserNotFound:
		return "User not found"
	case KindIncorrectPassword:
		return "Incorrect password"
	case KindUserExists:
		return "User exists"
	default:
		return "Directory error"
	}
}

// DirectoryError is returned by the directory service for every outcome that
// is the caller's fault rather than a remote or data fault.
type DirectoryError struct {
	Kind  ErrorKind
	Email string
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Email)
}

// Is matches any DirectoryError of the same kind, so the sentinels below work
// with errors.Is regardless of the subject email.
func (e *DirectoryError) Is(target error) bool {
	t, ok := target.(*DirectoryError)
	if !ok {
		return false
	}
	return t.Email == "" && t.Kind == e.Kind
}

var (
	ErrUserNotFound      = &DirectoryError{Kind: KindUserNotFound}
	ErrIncorrectPassword = &DirectoryError{Kind: KindIncorrectPassword}
	ErrUserExists        = &DirectoryError{Kind: KindUserExists}
)

func UserNotFound(email string) error {
	return &DirectoryError{Kind: KindUserNotFound, Email: email}
}

func IncorrectPassword(email string) error {
	return &DirectoryError{Kind: KindIncorrectPassword, Email: email}
}

func UserExists(email string) error {
	return &DirectoryError{Kind: KindUserExists, Email: email}
}
