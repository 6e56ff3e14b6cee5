package store

import "errors"

var errNoIdentity = errors.New("no identity found; run init first")
