package utils

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
)

// WaitForInterrupt blocks until SIGINT or SIGTERM, then runs stop. Further
// interrupts while stopping are counted down; the last one exits.
func WaitForInterrupt(stop func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	<-c
	log.Info("Got interrupt, shutting down...")

	done := make(chan struct{})
	go func() {
		stop()
		close(done)
	}()

	for i := 10; i > 0; i-- {
		select {
		case <-done:
			signal.Stop(c)
			return
		case <-c:
			if i > 1 {
				log.Warn("Already shutting down, interrupt more to panic.", "times", i-1)
			}
		}
	}
	signal.Stop(c)
	panic("forced shutdown")
}
