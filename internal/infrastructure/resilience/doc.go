/*
Package resilience provides a circuit breaker for calls to remote stores.

The workspace persists after every mutation. When the database or object
store is down each save would otherwise wait for its own network timeout;
the breaker turns that into an immediate ErrOpen until a probe succeeds.

# Usage

	breaker := resilience.New("postgres", resilience.Settings{
		Threshold: 5,
		Cooldown:  30 * time.Second,
		IsFailure: func(err error) bool { return !errors.Is(err, storage.ErrNotFound) },
	})

	err := breaker.Do(func() error {
		return db.Put(ctx, key, data)
	})

# States

	Closed --[Threshold failures]-> Open --[Cooldown]-> Half-Open --[probe ok]-> Closed
	                                  ^                     |
	                                  +----[probe failed]---+
*/
package resilience
