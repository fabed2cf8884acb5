package pattern

import (
	"encoding/base64"
	"strings"

	"drumgrid/event"
)

// TokenBytes is the decoded size of a share token: 16 velocities per
// instrument, instruments in canonical order (HiHat, Snare, Kick).
const TokenBytes = Steps * len(Instruments)

// Serialize flattens the pattern into a 48-byte row and encodes it as
// unpadded base64url, safe to place in a URL fragment.
func (s *Store) Serialize() string {
	raw := make([]byte, 0, TokenBytes)
	for _, inst := range Instruments {
		for _, v := range s.tracks[inst] {
			raw = append(raw, byte(v))
		}
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

// Deserialize replaces the pattern with the one encoded in token. A
// token that does not decode to exactly TokenBytes bytes (malformed
// text, foreign payload, wrong length) is ignored and the store is
// left unmodified. Decoded velocities are clamped to [0, MaxVelocity].
func (s *Store) Deserialize(token string) {
	// Tolerate tokens that kept their base64 padding.
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(token, "="))
	if err != nil || len(raw) != TokenBytes {
		return
	}
	for n, inst := range Instruments {
		for step := 0; step < Steps; step++ {
			v := int(raw[n*Steps+step])
			if v > MaxVelocity {
				v = MaxVelocity
			}
			s.tracks[inst][step] = v
		}
	}
	s.bus.Emit(event.Event{Type: event.Change})
}
