package representative

import "errors"

var ErrRepresentativeNotFound = errors.New("representative not found")
