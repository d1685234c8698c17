package game

// OutcomeKind enumerates every way a guess can resolve. The persona
// formatter dispatches on this closed set.
type OutcomeKind int

const (
	// OutcomeAccepted: the oracle said YES, the chain grew by one.
	OutcomeAccepted OutcomeKind = iota
	// OutcomeRejectedByAI: the oracle said NO. The current word stands and
	// the turn is not consumed.
	OutcomeRejectedByAI
	// OutcomeRejectedModeration: the guess tripped the moderation
	// predicate. No session mutation, no oracle call.
	OutcomeRejectedModeration
	// OutcomeGameOverDuplicate: the guess was already used this session.
	// Terminal, decided before any oracle call.
	OutcomeGameOverDuplicate
	// OutcomeAlreadyOver: the session was terminated earlier.
	OutcomeAlreadyOver
	// OutcomeInvalidInput: empty or oversized guess.
	OutcomeInvalidInput
	// OutcomeOracleDown: the oracle failed transiently. Retry-safe, nothing
	// mutated.
	OutcomeOracleDown
	// OutcomeStoreDown: the counter store failed. Retry-safe, nothing
	// mutated.
	OutcomeStoreDown
)

// Outcome is the full result of one resolved guess.
type Outcome struct {
	Kind        OutcomeKind
	Word        string // candidate as submitted (trimmed)
	CurrentWord string // authoritative current word at resolution time
	NextWord    string // set iff accepted
	Score       int
	GlobalCount int64 // valid iff accepted
	SessionID   string
}

// Terminal reports whether the session is over after this outcome.
func (o Outcome) Terminal() bool {
	return o.Kind == OutcomeGameOverDuplicate || o.Kind == OutcomeAlreadyOver
}

// Recoverable reports whether retrying the identical guess is safe and
// sensible.
func (o Outcome) Recoverable() bool {
	return o.Kind == OutcomeOracleDown || o.Kind == OutcomeStoreDown
}
