package realtime

import "log"

// Publisher is anything that accepts events
type Publisher interface {
	Broadcast(event string, payload any)
}

// Fanout delivers each event to every publisher. A panicking publisher does not affect the rest.
type Fanout []Publisher

func (f Fanout) Broadcast(event string, payload any) {
	for _, p := range f {
		if p == nil {
			continue
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[WARNING] realtime: publisher panicked on %s: %v", event, r)
				}
			}()
			p.Broadcast(event, payload)
		}()
	}
}
