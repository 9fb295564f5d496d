package ranking

import (
	"errors"
	"fmt"

	"github.com/petermazzocco/picture-picker/models"
)

var ErrInvalidValue = errors.New("vote value must be -1, 0 or 1")

// State is the vote a single user currently holds on a single photo.
type State int

const (
	NoVote State = iota
	Up
	Down
)

func (s State) String() string {
	switch s {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "none"
	}
}

// Value is the stored vote value for the state, 0 for NoVote.
func (s State) Value() int {
	switch s {
	case Up:
		return 1
	case Down:
		return -1
	default:
		return 0
	}
}

// StateOf maps a stored vote (nil when absent) to its State.
func StateOf(v *models.Vote) State {
	if v == nil {
		return NoVote
	}
	switch v.Value {
	case 1:
		return Up
	case -1:
		return Down
	default:
		return NoVote
	}
}

// UserState finds the state of userID's vote among votes.
func UserState(votes []models.Vote, userID uint) State {
	for i := range votes {
		if votes[i].UserID == userID {
			return StateOf(&votes[i])
		}
	}
	return NoVote
}

// Effect is the single store write a transition needs.
type Effect int

const (
	EffectNone Effect = iota
	EffectCreate
	EffectUpdate
	EffectDelete
)

func (e Effect) String() string {
	switch e {
	case EffectCreate:
		return "create"
	case EffectUpdate:
		return "update"
	case EffectDelete:
		return "delete"
	default:
		return "none"
	}
}

// Transition computes the next state for a requested value of -1, 0 or +1.
// Requesting the current state is a no-op; 0 retracts any existing vote.
func Transition(current State, requested int) (State, Effect, error) {
	var next State
	switch requested {
	case 1:
		next = Up
	case -1:
		next = Down
	case 0:
		next = NoVote
	default:
		return current, EffectNone, fmt.Errorf("%w: got %d", ErrInvalidValue, requested)
	}

	switch {
	case next == current:
		return next, EffectNone, nil
	case current == NoVote:
		return next, EffectCreate, nil
	case next == NoVote:
		return next, EffectDelete, nil
	default:
		return next, EffectUpdate, nil
	}
}

// ResolveToggle translates a click on a vote button into a requested value:
// clicking the button of the vote already held retracts it.
func ResolveToggle(current State, clicked int) int {
	if clicked != 0 && clicked == current.Value() {
		return 0
	}
	return clicked
}
