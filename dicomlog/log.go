package dicomlog

import (
	"github.com/sirupsen/logrus"
	"sync/atomic"
)

// level sets log verbosity. The larger the value, the more verbose.  Setting it
// to -1 disables logging completely.
var level = int32(0)

// SetLevel sets log verbosity. The larger the value, the more verbose. Setting
// it to -1 disables logging completely. Thread safe.
func SetLevel(l int) {
	atomic.StoreInt32(&level, int32(l))
}

// Level returns the current log level. The larger the value, the more verbose.
// Thread safe.
func Level() int {
	return int(atomic.LoadInt32(&level))
}

// Vprintf is shorthand for "if l <= Level() { logrus.Printf(...) }".
func Vprintf(l int, format string, args ...interface{}) {
	if Level() >= l {
		logrus.Printf(format, args...)
	}
}

// Warnf logs a recovered, non-fatal anomaly (odd value length, wrong FMI
// group length, unknown element inside fragments, and the other cases
// spec §7 lists as "logged as warnings and recovered"). Unlike Vprintf it
// always logs at logrus' Warn level regardless of the verbosity threshold,
// since these are exactly the events an operator wants surfaced by default.
func Warnf(format string, args ...interface{}) {
	logrus.Warnf(format, args...)
}
