package syncclient

import (
	"fmt"

	"github.com/aretw0/grove/pkg/core"
)

// Op names a mutation issued by the client.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// WriteError reports a failed create, update or delete. The client never retries.
type WriteError struct {
	Op   Op
	Path core.Path
	ID   string
	Err  error
}

func (e *WriteError) Error() string {
	target := e.Path.String()
	if e.ID != "" {
		target = e.Path.DocPath(e.ID)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, target, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
