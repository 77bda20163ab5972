package quiz

import (
	"sync"
	"time"
)

// Countdown is a running per-question timer. Stop is idempotent and safe to
// call from any goroutine; a stopped countdown delivers no further callbacks.
type Countdown interface {
	Stop()
}

// TimerFactory starts a countdown of the given number of seconds, invoking
// onTick once per elapsed second with the remaining time and onExpire
// exactly once when the countdown reaches zero. The controller injects a
// fake factory in tests to drive ticks deterministically.
type TimerFactory func(seconds int, onTick func(remaining int), onExpire func()) Countdown

// StartCountdown is the wall-clock TimerFactory.
func StartCountdown(seconds int, onTick func(remaining int), onExpire func()) Countdown {
	return startCountdown(seconds, time.Second, onTick, onExpire)
}

func startCountdown(seconds int, interval time.Duration, onTick func(int), onExpire func()) *tickerCountdown {
	c := &tickerCountdown{stop: make(chan struct{})}
	go c.run(seconds, interval, onTick, onExpire)
	return c
}

type tickerCountdown struct {
	stopOnce sync.Once
	stop     chan struct{}
}

func (c *tickerCountdown) run(seconds int, interval time.Duration, onTick func(int), onExpire func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	remaining := seconds
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			// A tick and a Stop can be ready at once; Stop wins.
			select {
			case <-c.stop:
				return
			default:
			}

			remaining--
			if remaining > 0 {
				onTick(remaining)
				continue
			}
			onExpire()
			return
		}
	}
}

func (c *tickerCountdown) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}
