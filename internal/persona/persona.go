package persona

import (
	"fmt"
	"strings"

	constants "github.com/CodeAndHammer/venkovorto/internal/constants"
	game "github.com/CodeAndHammer/venkovorto/internal/game"
)

// Format renders an outcome as a user-facing message in the chosen persona.
// Pure function over the closed outcome set; unknown personas fall back to
// serious rather than failing.
func Format(o game.Outcome, persona string) string {
	switch strings.ToLower(strings.TrimSpace(persona)) {
	case constants.PersonaCheery:
		return cheery(o)
	default:
		return serious(o)
	}
}

func serious(o game.Outcome) string {
	switch o.Kind {
	case game.OutcomeAccepted:
		return fmt.Sprintf("Correct. '%s' beats '%s'. Score: %d.", o.Word, o.CurrentWord, o.Score)
	case game.OutcomeRejectedByAI:
		return fmt.Sprintf("Incorrect. '%s' does not beat '%s'. The current word remains '%s'.",
			o.Word, o.CurrentWord, o.CurrentWord)
	case game.OutcomeRejectedModeration:
		return "Rejected. That guess contains disallowed content. Your turn was not consumed."
	case game.OutcomeGameOverDuplicate:
		return fmt.Sprintf("Game Over. Duplicate entry: '%s' was already used this session. Final score: %d.",
			strings.ToLower(o.Word), o.Score)
	case game.OutcomeAlreadyOver:
		return "This game is already over. Reset to start a new chain."
	case game.OutcomeInvalidInput:
		return "Invalid guess. It must be non-empty and reasonably short."
	case game.OutcomeOracleDown:
		return "The judge is unavailable right now. Your guess was not consumed; please retry."
	case game.OutcomeStoreDown:
		return "Your guess could not be recorded. Nothing was consumed; please retry."
	default:
		return "Something unexpected happened."
	}
}

func cheery(o game.Outcome) string {
	switch o.Kind {
	case game.OutcomeAccepted:
		return fmt.Sprintf("Woohoo! '%s' totally beats '%s'! Score: %d!", o.Word, o.CurrentWord, o.Score)
	case game.OutcomeRejectedByAI:
		return fmt.Sprintf("Aww, nope! '%s' can't beat '%s'. Give it another shot!", o.Word, o.CurrentWord)
	case game.OutcomeRejectedModeration:
		return "Whoa there! Let's keep it friendly. That one doesn't count against you!"
	case game.OutcomeGameOverDuplicate:
		return fmt.Sprintf("Game Over! Duplicate entry: you already played '%s' this round! Final score: %d!",
			strings.ToLower(o.Word), o.Score)
	case game.OutcomeAlreadyOver:
		return "This round's done! Hit reset and let's go again!"
	case game.OutcomeInvalidInput:
		return "Oops! Give me a real word, not too long!"
	case game.OutcomeOracleDown:
		return "The judge stepped out for a sec! Try that one again in a moment!"
	case game.OutcomeStoreDown:
		return "Hiccup on our side! Nothing lost, go ahead and retry!"
	default:
		return "Huh, that was unexpected!"
	}
}
