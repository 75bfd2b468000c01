package scratch

// Tier is an encouragement band. Tiers only move forward.
type Tier uint8

const (
	TierNone Tier = iota
	Tier20
	Tier40
	Tier60
	Tier80
)

// StartedMessage is shown once, on the first erase of a session.
const StartedMessage = "Great! Keep scratching!"

func (t Tier) String() string {
	switch t {
	case TierNone:
		return "none"
	case Tier20:
		return "t20"
	case Tier40:
		return "t40"
	case Tier60:
		return "t60"
	case Tier80:
		return "t80"
	default:
		return "unknown"
	}
}

// Message returns the encouragement text for the tier.
func (t Tier) Message() string {
	switch t {
	case Tier20:
		return "Keep scratching!"
	case Tier40:
		return "You're getting there!"
	case Tier60:
		return "Almost revealed!"
	case Tier80:
		return "So close!"
	default:
		return ""
	}
}

// TierFor maps a coverage percentage onto its band. Boundaries are exclusive:
// exactly 20 is still TierNone.
func TierFor(pct float64) Tier {
	switch {
	case pct > 80:
		return Tier80
	case pct > 60:
		return Tier60
	case pct > 40:
		return Tier40
	case pct > 20:
		return Tier20
	default:
		return TierNone
	}
}

// TierTracker remembers the highest tier reached.
type TierTracker struct {
	cur Tier
}

// Observe feeds a coverage sample. It reports the new tier and true only when
// the sample enters a tier above every tier seen so far.
func (tr *TierTracker) Observe(pct float64) (Tier, bool) {
	t := TierFor(pct)
	if t <= tr.cur {
		return tr.cur, false
	}
	tr.cur = t
	return t, true
}

func (tr *TierTracker) Current() Tier { return tr.cur }
