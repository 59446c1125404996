// Package logging provides the single debug-trace logger shared by the
// pager and query-engine packages. It never touches the user-facing result
// lines the CLI writes to stdout — those go through plain fmt calls so
// their format stays exactly what spec'd output requires.
package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	once sync.Once
	log  *logrus.Logger
)

// Logger returns the package-wide debug logger. It writes to stderr and
// stays silent at InfoLevel unless LITEPAGER_DEBUG is set in the
// environment, in which case page reads (cache hits and misses) and the
// engine's fall-back to a full table scan are traced at DebugLevel.
func Logger() *logrus.Logger {
	once.Do(func() {
		log = logrus.New()
		log.SetOutput(os.Stderr)
		log.SetLevel(logrus.InfoLevel)
		if os.Getenv("LITEPAGER_DEBUG") != "" {
			log.SetLevel(logrus.DebugLevel)
		}
	})
	return log
}
