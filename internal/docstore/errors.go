package docstore

import "fmt"

// StorageError wraps any collaborator fault raised while persisting or
// querying a document collection: embedding failures, index read/write
// failures, and vector dimensionality mismatches all surface as this
// one kind so callers never see a raw collaborator error.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("docstore: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
