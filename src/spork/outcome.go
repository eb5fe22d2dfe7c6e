package spork

// Outcome is the result of submitting a Record to the Manager.
type Outcome int

const (
	// Accepted means the Record became the active one for its spork.
	Accepted Outcome = iota
	// Known means the Record was accepted before.
	Known
	// UnknownSpork means the ID is not in the Registry.
	UnknownSpork
	// Stale means an active Record is at least as recent.
	Stale
	// InvalidSignature means the Record is not signed by the authority.
	InvalidSignature
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "Accepted"
	case Known:
		return "Known"
	case UnknownSpork:
		return "UnknownSpork"
	case Stale:
		return "Stale"
	case InvalidSignature:
		return "InvalidSignature"
	default:
		return "Unknown"
	}
}
