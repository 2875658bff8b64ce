package repository

import "errors"

// ErrDuplicateNumber is returned when a generated reference number
// (RES-/INV-) was taken by a concurrent insert. Callers retry with a new number.
var ErrDuplicateNumber = errors.New("reference number already in use")
