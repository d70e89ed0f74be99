// Package retry wraps fallible external calls with a fixed attempt budget and
// exponential backoff. Every call site gets its own independent budget; the
// package keeps no state between calls.
package retry

import "time"

// Policy controls one wrapped call: up to MaxAttempts tries, sleeping
// BaseDelay, 2*BaseDelay, 4*BaseDelay, ... between failures. The final
// failure is returned to the caller, never swallowed.
type Policy struct {
    MaxAttempts int
    BaseDelay   time.Duration
    Sleep       func(time.Duration) // test seam, defaults to time.Sleep
}

func DefaultPolicy() Policy {
    return Policy{
        MaxAttempts: 3,
        BaseDelay:   2 * time.Second,
    }
}

func (p Policy) normalized() Policy {
    if p.MaxAttempts < 1 {
        p.MaxAttempts = 3
    }
    if p.BaseDelay <= 0 {
        p.BaseDelay = 2 * time.Second
    }
    if p.Sleep == nil {
        p.Sleep = time.Sleep
    }
    return p
}

// Do runs op until it succeeds or the attempt budget is spent. There is no
// sleep after the final failure.
func Do(p Policy, op func() error) error {
    p = p.normalized()

    var err error
    delay := p.BaseDelay
    for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
        if err = op(); err == nil {
            return nil
        }
        if attempt < p.MaxAttempts {
            p.Sleep(delay)
            delay *= 2
        }
    }
    return err
}

// Get is Do for operations that produce a value.
func Get[T any](p Policy, op func() (T, error)) (T, error) {
    var result T
    err := Do(p, func() error {
        var opErr error
        result, opErr = op()
        return opErr
    })
    return result, err
}
