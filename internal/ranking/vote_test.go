package ranking

import (
	"errors"
	"testing"

	"github.com/petermazzocco/picture-picker/models"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		current    State
		requested  int
		wantState  State
		wantEffect Effect
	}{
		{NoVote, 1, Up, EffectCreate},
		{NoVote, -1, Down, EffectCreate},
		{NoVote, 0, NoVote, EffectNone},
		{Up, 1, Up, EffectNone},
		{Up, -1, Down, EffectUpdate},
		{Up, 0, NoVote, EffectDelete},
		{Down, -1, Down, EffectNone},
		{Down, 1, Up, EffectUpdate},
		{Down, 0, NoVote, EffectDelete},
	}

	for _, tt := range tests {
		t.Run(tt.current.String()+"_"+valueName(tt.requested), func(t *testing.T) {
			got, effect, err := Transition(tt.current, tt.requested)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.wantState {
				t.Errorf("state = %s, want %s", got, tt.wantState)
			}
			if effect != tt.wantEffect {
				t.Errorf("effect = %s, want %s", effect, tt.wantEffect)
			}
		})
	}
}

func TestTransitionRejectsInvalidValues(t *testing.T) {
	for _, v := range []int{2, -2, 5, 100} {
		for _, current := range []State{NoVote, Up, Down} {
			got, effect, err := Transition(current, v)
			if !errors.Is(err, ErrInvalidValue) {
				t.Errorf("Transition(%s, %d) error = %v, want ErrInvalidValue", current, v, err)
			}
			if got != current || effect != EffectNone {
				t.Errorf("Transition(%s, %d) = (%s, %s), want state unchanged", current, v, got, effect)
			}
		}
	}
}

func TestResolveToggle(t *testing.T) {
	tests := []struct {
		name    string
		current State
		clicked int
		want    int
	}{
		{"first upvote", NoVote, 1, 1},
		{"first downvote", NoVote, -1, -1},
		{"retract upvote", Up, 1, 0},
		{"retract downvote", Down, -1, 0},
		{"flip up to down", Up, -1, -1},
		{"flip down to up", Down, 1, 1},
		{"explicit zero", Up, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveToggle(tt.current, tt.clicked); got != tt.want {
				t.Errorf("ResolveToggle(%s, %d) = %d, want %d", tt.current, tt.clicked, got, tt.want)
			}
		})
	}
}

func TestStateOf(t *testing.T) {
	if got := StateOf(nil); got != NoVote {
		t.Errorf("StateOf(nil) = %s", got)
	}
	if got := StateOf(&models.Vote{Value: 1}); got != Up {
		t.Errorf("StateOf(+1) = %s", got)
	}
	if got := StateOf(&models.Vote{Value: -1}); got != Down {
		t.Errorf("StateOf(-1) = %s", got)
	}

	votes := []models.Vote{{UserID: 1, Value: 1}, {UserID: 2, Value: -1}}
	if got := UserState(votes, 2); got != Down {
		t.Errorf("UserState(2) = %s, want down", got)
	}
	if got := UserState(votes, 3); got != NoVote {
		t.Errorf("UserState(3) = %s, want none", got)
	}
}

func valueName(v int) string {
	switch v {
	case 1:
		return "plus"
	case -1:
		return "minus"
	default:
		return "zero"
	}
}
