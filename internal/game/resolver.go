package game

import (
	"context"
	"strings"

	cache "github.com/CodeAndHammer/venkovorto/internal/cache"
	constants "github.com/CodeAndHammer/venkovorto/internal/constants"
	oracle "github.com/CodeAndHammer/venkovorto/internal/oracle"
	session "github.com/CodeAndHammer/venkovorto/internal/session"
	util "github.com/CodeAndHammer/venkovorto/internal/util"
)

// CounterStore is the durable global word counter the resolver increments on
// every accepted guess.
type CounterStore interface {
	IncrementAndGet(ctx context.Context, word string) (int64, error)
}

// ModerationPredicate reports whether text contains disallowed content.
type ModerationPredicate interface {
	IsFlagged(text string) bool
}

// Resolver runs the guess state machine: validate, moderate, duplicate-check,
// consult cache-or-oracle, then mutate session and counter. All per-session
// steps run under that session's own lock, so two concurrent guesses against
// one session serialize while other sessions proceed in parallel.
type Resolver struct {
	Sessions       *session.Store
	Cache          cache.VerdictCache
	Oracle         oracle.Judge
	Counter        CounterStore
	Moderation     ModerationPredicate
	MaxGuessLength int
}

// ResolveGuess resolves one guess for the given session. clientCurrent is
// advisory: when it disagrees with the session's actual chain the session
// wins and the client is resynchronized through the response.
func (r *Resolver) ResolveGuess(ctx context.Context, sessionID, clientCurrent, guess string) Outcome {
	reqID, _ := ctx.Value(constants.RequestIDKey).(string)

	candidate := strings.TrimSpace(guess)
	if candidate == "" || len(candidate) > r.MaxGuessLength {
		return Outcome{Kind: OutcomeInvalidInput, Word: candidate, SessionID: sessionID}
	}

	if r.Moderation.IsFlagged(candidate) {
		// No session load, no oracle call, no turn consumed.
		return Outcome{Kind: OutcomeRejectedModeration, Word: candidate, SessionID: sessionID}
	}

	sess, created := r.Sessions.GetOrCreate(sessionID)
	if created && sessionID != "" {
		logCtx(reqID, "Stale or unknown session %q replaced by %s", sessionID, sess.ID)
	}

	sess.Lock()
	defer sess.Unlock()

	current := sess.CurrentWord()
	if clientCurrent != "" && !strings.EqualFold(strings.TrimSpace(clientCurrent), current) {
		logCtx(reqID, "Client current word %q out of sync with session %s, resyncing to %q",
			clientCurrent, sess.ID, current)
	}

	if !sess.Alive {
		return Outcome{Kind: OutcomeAlreadyOver, Word: candidate, CurrentWord: current,
			Score: sess.Score, SessionID: sess.ID}
	}

	// Duplicate detection is the only terminal rule and runs before the
	// oracle: a repeated word never costs an oracle call.
	if sess.ContainsWord(candidate) {
		sess.MarkDead()
		r.Sessions.Touch(sess.ID)
		logCtx(reqID, "Session %s terminated by duplicate guess %q", sess.ID, candidate)
		return Outcome{Kind: OutcomeGameOverDuplicate, Word: candidate, CurrentWord: current,
			Score: sess.Score, SessionID: sess.ID}
	}

	verdict, err := r.verdictFor(ctx, reqID, candidate, current)
	if err != nil {
		return Outcome{Kind: OutcomeOracleDown, Word: candidate, CurrentWord: current,
			Score: sess.Score, SessionID: sess.ID}
	}

	if !verdict {
		return Outcome{Kind: OutcomeRejectedByAI, Word: candidate, CurrentWord: current,
			Score: sess.Score, SessionID: sess.ID}
	}

	// Counter first: a counter failure surfaces with the session untouched,
	// so a retry of the same guess is safe. The in-memory append under the
	// session lock cannot fail halfway, so the session can never record a
	// word whose count was silently dropped.
	count, err := r.Counter.IncrementAndGet(ctx, candidate)
	if err != nil {
		logCtx(reqID, "Counter increment failed for %q: %v", candidate, err)
		return Outcome{Kind: OutcomeStoreDown, Word: candidate, CurrentWord: current,
			Score: sess.Score, SessionID: sess.ID}
	}

	if err := sess.Append(candidate); err != nil {
		// Unreachable while the lock is held, but never swallow it.
		logCtx(reqID, "Append to session %s failed: %v", sess.ID, err)
		return Outcome{Kind: OutcomeAlreadyOver, Word: candidate, CurrentWord: current,
			Score: sess.Score, SessionID: sess.ID}
	}
	r.Sessions.Touch(sess.ID)

	logCtx(reqID, "Session %s accepted %q over %q (score %d, global count %d)",
		sess.ID, candidate, current, sess.Score, count)
	return Outcome{Kind: OutcomeAccepted, Word: candidate, CurrentWord: current,
		NextWord: candidate, Score: sess.Score, GlobalCount: count, SessionID: sess.ID}
}

// verdictFor answers from the cache when it can, otherwise consults the
// oracle and stores the result. Cache failures degrade to a direct oracle
// call; only oracle failures propagate.
func (r *Resolver) verdictFor(ctx context.Context, reqID, candidate, current string) (bool, error) {
	verdict, ok, err := r.Cache.Lookup(ctx, candidate, current)
	if err != nil {
		logCtx(reqID, "Verdict cache lookup failed, falling back to oracle: %v", err)
	} else if ok {
		logCtx(reqID, "Verdict cache hit for %q vs %q: %v", candidate, current, verdict)
		return verdict, nil
	}

	verdict, err = r.Oracle.Judge(ctx, candidate, current)
	if err != nil {
		logCtx(reqID, "Oracle call failed for %q vs %q: %v", candidate, current, err)
		return false, err
	}

	// Both YES and NO get cached; a remembered NO saves just as many calls.
	if err := r.Cache.Store(ctx, candidate, current, verdict); err != nil {
		logCtx(reqID, "Verdict cache store failed: %v", err)
	}
	return verdict, nil
}

func logCtx(reqID, format string, v ...any) {
	if reqID != "" {
		util.LogInfo("[request_id="+reqID+"] "+format, v...)
		return
	}
	util.LogInfo(format, v...)
}
