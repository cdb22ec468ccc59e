package meter

// Resolve reconciles the three signals that can name the active meter — the
// URL path segment, the persisted last selection, and the server-returned
// owned list — into exactly one winner.
//
// Precedence:
//  1. urlID, if it names an owned meter
//  2. storedID, if it names an owned meter
//  3. the first owned meter (server order is stable)
//  4. none, when the owned list is empty (a valid terminal state)
//
// Resolve is pure: it performs no I/O and instead reports the writes still
// needed as Effects. Re-running it on converged inputs yields the same
// winner and zero effects, which is what prevents redirect loops.
//
// Resolve must not be called while the owned list is still loading; callers
// gate on their fetch completing first.
func Resolve(urlID, storedID string, owned []Meter) Resolution {
	winner := ""
	switch {
	case urlID != "" && contains(owned, urlID):
		winner = urlID
	case storedID != "" && contains(owned, storedID):
		winner = storedID
	case len(owned) > 0:
		winner = owned[0].ID
	}

	res := Resolution{ActiveMeterID: winner}
	if winner == "" {
		return res
	}

	if storedID != winner {
		res.Effects = append(res.Effects, Effect{Kind: EffectPersistSelection, MeterID: winner})
	}
	if urlID != winner {
		res.Effects = append(res.Effects, Effect{Kind: EffectRewriteURL, MeterID: winner})
	}
	return res
}

// Resolution is the outcome of one resolver run: the winning meter id (empty
// when the user owns no meters) plus the effects required to make the URL
// and the persisted selection converge on it.
type Resolution struct {
	ActiveMeterID string
	Effects       []Effect
}

// None reports whether resolution ended with no active meter.
func (r Resolution) None() bool {
	return r.ActiveMeterID == ""
}

// Has reports whether the resolution requires the given effect kind.
func (r Resolution) Has(kind EffectKind) bool {
	for _, e := range r.Effects {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// EffectKind enumerates the side effects a resolution can require. The
// resolver itself never executes them; the server's effect executor does.
type EffectKind int

const (
	// EffectPersistSelection writes the winner to the local store.
	EffectPersistSelection EffectKind = iota
	// EffectRewriteURL rewrites the URL's meter segment in place, without a
	// new history entry.
	EffectRewriteURL
)

type Effect struct {
	Kind    EffectKind
	MeterID string
}

func contains(meters []Meter, id string) bool {
	for _, m := range meters {
		if m.ID == id {
			return true
		}
	}
	return false
}
