package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/petermazzocco/picture-picker/internal/ranking"
	"github.com/petermazzocco/picture-picker/internal/store"
	"github.com/petermazzocco/picture-picker/internal/testutil"
	"github.com/petermazzocco/picture-picker/models"
)

func TestUpsertUserByEmail(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	first, err := s.UpsertUserByEmail(ctx, "Alice", "alice@example.com")
	if err != nil {
		t.Fatalf("UpsertUserByEmail() error = %v", err)
	}
	again, err := s.UpsertUserByEmail(ctx, "Alice B.", "alice@example.com")
	if err != nil {
		t.Fatalf("UpsertUserByEmail() error = %v", err)
	}
	if first.ID != again.ID {
		t.Errorf("second login created a new user: %d != %d", first.ID, again.ID)
	}

	if _, err := s.FindUser(ctx, 999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("FindUser(999) error = %v, want ErrNotFound", err)
	}
	if _, err := s.FindUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("FindUserByEmail error = %v, want ErrNotFound", err)
	}
}

func TestFindAlbum(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, s, "alice")
	bob := testutil.CreateUser(t, s, "bob")
	album := testutil.CreateAlbum(t, s, alice, "Holiday", bob)
	first := testutil.CreatePhoto(t, s, album, "first.jpg", testutil.Date(2023, 7, 1))
	second := testutil.CreatePhoto(t, s, album, "second.jpg", nil)

	got, err := s.FindAlbum(ctx, album.ID)
	if err != nil {
		t.Fatalf("FindAlbum() error = %v", err)
	}
	if got.Creator == nil || got.Creator.ID != alice.ID {
		t.Errorf("Creator = %+v, want alice", got.Creator)
	}
	if len(got.SharedWith) != 1 || got.SharedWith[0].ID != bob.ID {
		t.Errorf("SharedWith = %+v, want [bob]", got.SharedWith)
	}
	if len(got.Photos) != 2 || got.Photos[0].ID != first.ID || got.Photos[1].ID != second.ID {
		t.Fatalf("Photos not in upload order: %+v", got.Photos)
	}
	if got.Photos[1].CaptureDate != nil {
		t.Errorf("missing capture date round-tripped as %v", got.Photos[1].CaptureDate)
	}
	if !got.CanAccess(bob.ID) || !got.CanAccess(alice.ID) {
		t.Error("creator and shared user should have access")
	}

	if _, err := s.FindAlbum(ctx, 12345); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("FindAlbum(missing) error = %v, want ErrNotFound", err)
	}
}

func TestListAlbums(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, s, "alice")
	bob := testutil.CreateUser(t, s, "bob")
	carol := testutil.CreateUser(t, s, "carol")

	testutil.CreateAlbum(t, s, alice, "Alice private")
	sharedAlbum := testutil.CreateAlbum(t, s, alice, "Alice shared", bob)
	testutil.CreateAlbum(t, s, bob, "Bob own")
	testutil.CreateAlbum(t, s, carol, "Carol private")

	photo := testutil.CreatePhoto(t, s, sharedAlbum, "one.jpg", nil)
	testutil.CreatePhoto(t, s, sharedAlbum, "two.jpg", nil)
	if _, err := ranking.NewEngine(s).Cast(ctx, photo.ID, bob.ID, 1); err != nil {
		t.Fatalf("Cast() error = %v", err)
	}

	albums, err := s.ListAlbums(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListAlbums() error = %v", err)
	}
	titles := map[string]bool{}
	for _, a := range albums {
		titles[a.Title] = true
	}
	if len(albums) != 2 || !titles["Alice shared"] || !titles["Bob own"] {
		t.Errorf("ListAlbums(bob) = %v, want Alice shared and Bob own", titles)
	}

	counts := map[string]int{}
	for _, a := range albums {
		counts[a.Title] = a.PhotoCount
		if a.Photos != nil {
			t.Errorf("ListAlbums loaded photos for %q", a.Title)
		}
		if a.Creator == nil {
			t.Errorf("ListAlbums did not load the creator of %q", a.Title)
		}
	}
	if counts["Alice shared"] != 2 || counts["Bob own"] != 0 {
		t.Errorf("photo counts = %v, want Alice shared: 2, Bob own: 0", counts)
	}
}

func TestShareAlbumTwice(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, s, "alice")
	bob := testutil.CreateUser(t, s, "bob")
	album := testutil.CreateAlbum(t, s, alice, "Holiday", bob)

	if err := s.ShareAlbum(ctx, album, bob); err != nil {
		t.Fatalf("ShareAlbum() error = %v", err)
	}
	got, err := s.FindAlbum(ctx, album.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.SharedWith) != 1 {
		t.Errorf("SharedWith has %d entries, want 1", len(got.SharedWith))
	}
}

func TestVoteStore(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, s, "alice")
	album := testutil.CreateAlbum(t, s, alice, "Holiday")
	photo := testutil.CreatePhoto(t, s, album, "beach.jpg", nil)

	missing, err := s.FindVote(ctx, photo.ID, alice.ID)
	if err != nil || missing != nil {
		t.Fatalf("FindVote() on empty = %v, %v; want nil, nil", missing, err)
	}

	vote := &models.Vote{PhotoID: photo.ID, UserID: alice.ID, Value: 1}
	if err := s.CreateVote(ctx, vote); err != nil {
		t.Fatalf("CreateVote() error = %v", err)
	}

	dup := &models.Vote{PhotoID: photo.ID, UserID: alice.ID, Value: -1}
	if err := s.CreateVote(ctx, dup); !errors.Is(err, ranking.ErrVoteConflict) {
		t.Fatalf("duplicate CreateVote() error = %v, want ErrVoteConflict", err)
	}

	if err := s.UpdateVote(ctx, vote.ID, -1); err != nil {
		t.Fatalf("UpdateVote() error = %v", err)
	}
	got, err := s.FindVote(ctx, photo.ID, alice.ID)
	if err != nil || got == nil || got.Value != -1 {
		t.Fatalf("FindVote() after update = %+v, %v", got, err)
	}

	if err := s.UpdateVote(ctx, 9999, 1); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateVote(missing) error = %v, want ErrNotFound", err)
	}

	if err := s.DeleteVote(ctx, vote.ID); err != nil {
		t.Fatalf("DeleteVote() error = %v", err)
	}
	p, err := s.FindPhotoWithVotes(ctx, photo.ID)
	if err != nil || p == nil {
		t.Fatalf("FindPhotoWithVotes() = %v, %v", p, err)
	}
	if len(p.Votes) != 0 {
		t.Errorf("votes after delete = %d, want 0", len(p.Votes))
	}

	none, err := s.FindPhotoWithVotes(ctx, 9999)
	if err != nil || none != nil {
		t.Errorf("FindPhotoWithVotes(missing) = %v, %v; want nil, nil", none, err)
	}
}

func TestRejectsZeroVoteValue(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, s, "alice")
	album := testutil.CreateAlbum(t, s, alice, "Holiday")
	photo := testutil.CreatePhoto(t, s, album, "beach.jpg", nil)

	if err := s.CreateVote(ctx, &models.Vote{PhotoID: photo.ID, UserID: alice.ID, Value: 0}); err == nil {
		t.Fatal("stored a vote with value 0")
	}
}

func TestTransactionRollsBack(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, s, "alice")
	album := testutil.CreateAlbum(t, s, alice, "Holiday")
	photo := testutil.CreatePhoto(t, s, album, "beach.jpg", nil)

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx ranking.VoteStore) error {
		if err := tx.CreateVote(ctx, &models.Vote{PhotoID: photo.ID, UserID: alice.ID, Value: 1}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Transaction() error = %v, want boom", err)
	}

	v, err := s.FindVote(ctx, photo.ID, alice.ID)
	if err != nil || v != nil {
		t.Errorf("vote survived rollback: %+v, %v", v, err)
	}
}

func TestEngineAgainstStore(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, s, "alice")
	bob := testutil.CreateUser(t, s, "bob")
	album := testutil.CreateAlbum(t, s, alice, "Holiday", bob)
	photo := testutil.CreatePhoto(t, s, album, "beach.jpg", nil)

	engine := ranking.NewEngine(s)

	if _, err := engine.Cast(ctx, photo.ID, alice.ID, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.Cast(ctx, photo.ID, bob.ID, 1); err != nil {
		t.Fatal(err)
	}
	res, err := engine.Cast(ctx, photo.ID, bob.ID, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.Counts.Upvotes != 1 || res.Counts.Downvotes != 1 || res.Counts.Score() != 0 {
		t.Errorf("counts = %+v", res.Counts)
	}

	res, err = engine.Cast(ctx, photo.ID, alice.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Photo.Votes) != 1 || res.Counts.Score() != -1 {
		t.Errorf("after retract: %d votes, score %d", len(res.Photo.Votes), res.Counts.Score())
	}

	if _, err := engine.Cast(ctx, 4242, alice.ID, 1); !errors.Is(err, ranking.ErrPhotoNotFound) {
		t.Errorf("Cast(missing photo) error = %v, want ErrPhotoNotFound", err)
	}
}
