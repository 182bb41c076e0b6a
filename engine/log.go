package engine

import "github.com/btcsuite/btclog"

// log is the package-level logger every other internal package also
// exposes (channelstate, claim, protocolstate). It defaults to disabled so
// importing this package is silent until a caller wires a real backend in
// with UseLogger, matching the btcsuite logging convention used throughout.
var log btclog.Logger

func init() {
	DisableLog()
}

// DisableLog disables all library log output.
func DisableLog() {
	log = btclog.Disabled
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}
