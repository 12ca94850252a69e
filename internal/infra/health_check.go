package infra

import (
	"context"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

const binaryCheckInterval = 5 * time.Second

// MonitorExecutable closes the returned channel when the running
// binary is replaced on disk, the signal a deploy just happened and
// the process should hand over.
func MonitorExecutable(ctx context.Context) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		defer close(ch)

		path, err := os.Executable()
		if err != nil {
			log.WithError(err).Warn("cant resolve executable path for monitor")
			return
		}
		stat, err := os.Stat(path)
		if err != nil {
			log.WithError(err).Warn("cant stat executable for monitor")
			return
		}
		startedWith := stat.ModTime()

		ticker := time.NewTicker(binaryCheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stat, err := os.Stat(path)
				if err != nil {
					continue
				}
				if !stat.ModTime().Equal(startedWith) {
					return
				}
			}
		}
	}()
	return ch
}
