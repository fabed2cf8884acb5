package event

// Type identifies a change notification.
type Type int

const (
	// Change is the generic "something changed, re-query" signal fired
	// after every state mutation (pattern, tempo, transport).
	Change Type = iota
	// Play and Stop are transport notifications.
	Play
	Stop
	// Tempo carries the new BPM.
	Tempo
	// KickHit, SnareHit and HiHatHit announce that a step trigger was
	// scheduled for the instrument. Step carries the step index.
	KickHit
	SnareHit
	HiHatHit
)

// Event is a notification pushed to subscribers. It never carries
// enough state to skip a re-read; observers re-query the store.
type Event struct {
	Type Type
	BPM  int // set for Tempo
	Step int // set for *Hit
}

// Bus fans events out to subscribers synchronously, in subscription
// order. Mutating code emits before returning, so an observer always
// sees the post-mutation state when it re-reads.
type Bus struct {
	subs []func(Event)
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for all future events. There is no
// unsubscribe; observers live for the process duration.
func (b *Bus) Subscribe(fn func(Event)) {
	b.subs = append(b.subs, fn)
}

// Emit delivers e to every subscriber before returning.
func (b *Bus) Emit(e Event) {
	for _, fn := range b.subs {
		fn(e)
	}
}
