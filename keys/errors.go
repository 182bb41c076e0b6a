package keys

import "errors"

var errBadKeyLen = errors.New("keys: public key must be exactly 32 bytes")
