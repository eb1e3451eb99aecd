package armparams

import (
	"io"

	"github.com/charmbracelet/log"
)

// Logger receives the warnings and errors raised while resolving parameters.
// *log.Logger from charmbracelet/log satisfies it.
type Logger interface {
	Warn(msg interface{}, keyvals ...interface{})
	Error(msg interface{}, keyvals ...interface{})
}

var discard Logger = log.New(io.Discard)

func loggerOrDiscard(l Logger) Logger {
	if l == nil {
		return discard
	}
	return l
}
