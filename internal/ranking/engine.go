package ranking

import (
	"context"
	"errors"
	"fmt"

	"github.com/petermazzocco/picture-picker/models"
)

var (
	ErrPhotoNotFound = errors.New("photo not found")
	ErrVoteConflict  = errors.New("vote already exists for photo and user")
)

// VoteStore is the persistence the engine needs. Finders return (nil, nil)
// when the row does not exist. CreateVote returns an error wrapping
// ErrVoteConflict when a vote for the same (photo, user) already exists.
type VoteStore interface {
	FindPhotoWithVotes(ctx context.Context, photoID uint) (*models.Photo, error)
	FindVote(ctx context.Context, photoID, userID uint) (*models.Vote, error)
	CreateVote(ctx context.Context, vote *models.Vote) error
	UpdateVote(ctx context.Context, voteID uint, value int) error
	DeleteVote(ctx context.Context, voteID uint) error
	// Transaction runs fn against a store bound to one transaction,
	// committing when fn returns nil and rolling back otherwise.
	Transaction(ctx context.Context, fn func(tx VoteStore) error) error
}

// Result is the outcome of a vote submission.
type Result struct {
	Photo  *models.Photo
	State  State
	Effect Effect
	Counts Counts
}

type Engine struct {
	store VoteStore
}

func NewEngine(store VoteStore) *Engine {
	return &Engine{store: store}
}

// Cast sets userID's vote on photoID to value (-1, 0 or +1).
func (e *Engine) Cast(ctx context.Context, photoID, userID uint, value int) (*Result, error) {
	if _, _, err := Transition(NoVote, value); err != nil {
		return nil, err
	}
	return e.apply(ctx, photoID, userID, func(State) int { return value })
}

// Toggle is Cast with ResolveToggle applied against the stored vote, so
// resubmitting the value already held retracts it.
func (e *Engine) Toggle(ctx context.Context, photoID, userID uint, clicked int) (*Result, error) {
	if _, _, err := Transition(NoVote, clicked); err != nil {
		return nil, err
	}
	return e.apply(ctx, photoID, userID, func(current State) int {
		return ResolveToggle(current, clicked)
	})
}

func (e *Engine) apply(ctx context.Context, photoID, userID uint, requested func(State) int) (*Result, error) {
	var (
		next   State
		effect Effect
	)

	err := e.store.Transaction(ctx, func(tx VoteStore) error {
		photo, err := tx.FindPhotoWithVotes(ctx, photoID)
		if err != nil {
			return fmt.Errorf("finding photo: %w", err)
		}
		if photo == nil {
			return ErrPhotoNotFound
		}

		existing, err := tx.FindVote(ctx, photoID, userID)
		if err != nil {
			return fmt.Errorf("finding vote: %w", err)
		}

		next, effect, err = Transition(StateOf(existing), requested(StateOf(existing)))
		if err != nil {
			return err
		}

		switch effect {
		case EffectCreate:
			vote := &models.Vote{PhotoID: photoID, UserID: userID, Value: next.Value()}
			if err := tx.CreateVote(ctx, vote); err != nil {
				return fmt.Errorf("creating vote: %w", err)
			}
		case EffectUpdate:
			if err := tx.UpdateVote(ctx, existing.ID, next.Value()); err != nil {
				return fmt.Errorf("updating vote: %w", err)
			}
		case EffectDelete:
			if err := tx.DeleteVote(ctx, existing.ID); err != nil {
				return fmt.Errorf("deleting vote: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	photo, err := e.store.FindPhotoWithVotes(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("reloading photo: %w", err)
	}
	if photo == nil {
		return nil, ErrPhotoNotFound
	}

	return &Result{
		Photo:  photo,
		State:  next,
		Effect: effect,
		Counts: Tally(photo.Votes),
	}, nil
}
