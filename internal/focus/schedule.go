package focus

import (
	"context"
	"time"
)

// Token identifies one armed tick loop. A token stays valid until the
// schedule is re-armed or cancelled.
type Token uint64

// Schedule hands out tokens for the recurring one-second tick. Ticks that
// carry a stale token must be dropped by the receiver.
type Schedule struct {
	gen    Token
	active bool
}

func (s *Schedule) Arm() Token {
	s.gen++
	s.active = true
	return s.gen
}

func (s *Schedule) Cancel() {
	s.gen++
	s.active = false
}

func (s *Schedule) Valid(tok Token) bool {
	return s.active && tok == s.gen
}

// Every sends tok on the returned channel once per interval until ctx is
// done. The channel is closed when the loop exits.
func Every(ctx context.Context, interval time.Duration, tok Token) <-chan Token {
	out := make(chan Token)
	go func() {
		defer close(out)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				select {
				case out <- tok:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
