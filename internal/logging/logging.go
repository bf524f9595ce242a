package logging

import (
	"emperror.dev/errors"
	"github.com/sirupsen/logrus"
)

// Setup configures the global logger from a level name. debug overrides the
// level so the --debug flag wins over LOG_LEVEL.
func Setup(level string, debug bool) error {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if debug {
		logrus.SetLevel(logrus.DebugLevel)
		return nil
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", level)
	}
	logrus.SetLevel(lvl)
	return nil
}
