package common

import "fmt"

// StoreErrType is the kind of a StoreErr.
type StoreErrType uint32

const (
	// KeyNotFound means nothing was ever written under the key.
	KeyNotFound StoreErrType = iota
	// Corrupted means the stored value cannot be decoded.
	Corrupted
	// Closed means the store was closed.
	Closed
)

func (t StoreErrType) String() string {
	switch t {
	case KeyNotFound:
		return "Not Found"
	case Corrupted:
		return "Corrupted"
	case Closed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// StoreErr is returned by persistence layers, so that callers can tell a
// missing value from a failure without depending on the backend.
type StoreErr struct {
	dataType string
	errType  StoreErrType
	key      string
}

// NewStoreErr ...
func NewStoreErr(dataType string, errType StoreErrType, key string) StoreErr {
	return StoreErr{
		dataType: dataType,
		errType:  errType,
		key:      key,
	}
}

// Type returns the kind of the error.
func (e StoreErr) Type() StoreErrType {
	return e.errType
}

// Error ...
func (e StoreErr) Error() string {
	return fmt.Sprintf("%s, %s, %s", e.dataType, e.key, e.errType)
}

// IsStore checks that an error is of type StoreErr and that it's code matches
// the provided StoreErr code.
func IsStore(err error, t StoreErrType) bool {
	storeErr, ok := err.(StoreErr)
	return ok && storeErr.errType == t
}
