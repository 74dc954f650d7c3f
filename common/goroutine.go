package common

import "github.com/ethereum/go-ethereum/log"

var glog = log.New("module", "error")

// Go runs fn on a new goroutine and logs a panic before re-raising it.
func Go(fn func()) {
	go func() {
		defer func() {
			if err := recover(); err != nil {
				glog.Error("panic", "err", err)
				panic(err)
			}
		}()
		fn()
	}()
}
