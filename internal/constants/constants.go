package constants

// SeedWord is the fixed word every session starts against. It is never
// stored in the accepted sequence but always counts as already used.
const SeedWord = "Rock"

const (
	MaxGuessLength = 50
	DefaultPersona = "serious"
)

const (
	PersonaSerious = "serious"
	PersonaCheery  = "cheery"
)

const (
	RouteHome    = "/"
	RouteGuess   = "/game/guess"
	RouteState   = "/game/state"
	RouteReset   = "/game/reset"
	RouteStats   = "/game/stats"
	RouteHealthz = "/healthz"
)

type ContextKey string

const RequestIDKey ContextKey = "request_id"
