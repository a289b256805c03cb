package logging

import "go.uber.org/zap"

// New builds the process logger. Verbose switches to the development
// config with debug level enabled; the default is the production JSON
// encoder so journald captures one structured line per event.
func New(verbose bool) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return l
}
