package lists

import (
	"errors"
	"fmt"

	"smartshopping-go/internal/domain/session"
)

var (
	ErrUnauthenticated = session.ErrUnauthenticated
	ErrPartialCascade  = errors.New("list items deleted but list delete failed")
	ErrListNotFound    = errors.New("shopping list not found")
	ErrItemNotFound    = errors.New("shopping item not found")
)

// RemoteError reports a failed call to the data service. Local state is left
// as it was before the operation.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// PartialCascadeError is returned by DeleteList when the items of a list were
// removed remotely but the list row itself was not. Nothing is rolled back.
type PartialCascadeError struct {
	ListID string
	Err    error
}

func (e *PartialCascadeError) Error() string {
	return fmt.Sprintf("list %s: %v: %v", e.ListID, ErrPartialCascade, e.Err)
}

func (e *PartialCascadeError) Unwrap() error {
	return e.Err
}

func (e *PartialCascadeError) Is(target error) bool {
	return target == ErrPartialCascade
}
