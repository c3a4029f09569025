package schema

import "errors"

////////////////////////////////////////////////////////////////////////////////
// TYPES

// RemoteError is an error response received from a peer, carrying the wire
// failure token.
type RemoteError struct {
	Token string
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (e *RemoteError) Error() string {
	return e.Token
}

// IsRemoteError reports whether err is a remote error with the given token.
func IsRemoteError(err error, token string) bool {
	var remote *RemoteError
	return errors.As(err, &remote) && remote.Token == token
}
