// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

package users

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/moviemaster/moviemaster/internal/logging"
	"github.com/moviemaster/moviemaster/internal/recommend"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(dir, logging.NewTestLogger(io.Discard))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, dir
}

func TestRegisterAndAuthenticate(t *testing.T) {
	store, _ := newTestStore(t)

	user, err := store.Register("alice", "secret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == "" {
		t.Error("registered user has no id")
	}
	if user.PasswordHash == "secret123" {
		t.Error("password stored in the clear")
	}

	got, err := store.Authenticate("alice", "secret123")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("authenticated user id = %s, want %s", got.ID, user.ID)
	}
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	store, _ := newTestStore(t)
	if _, err := store.Register("alice", "secret123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "alice", "wrong"},
		{"unknown user", "nobody", "secret123"},
		{"empty password", "alice", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Authenticate(tt.username, tt.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	store, _ := newTestStore(t)

	tests := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"short username", "ab", "secret123", ErrUsernameTooShort},
		{"short password", "alice", "12345", ErrPasswordTooShort},
		{"whitespace username", "  a  ", "secret123", ErrUsernameTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Register(tt.username, tt.password); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRegisterDuplicateUsernameCaseInsensitive(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.Register("Alice", "secret123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := store.Register("alice", "other-password"); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("err = %v, want ErrUsernameTaken", err)
	}
	if _, err := store.Authenticate("ALICE", "secret123"); err != nil {
		t.Errorf("case-insensitive login failed: %v", err)
	}
}

func TestPreferencesSurviveReload(t *testing.T) {
	store, dir := newTestStore(t)

	user, err := store.Register("alice", "secret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	prefs := recommend.Preferences{
		FavoriteGenres:    []string{"Action", "Drama"},
		FavoriteDirectors: []string{"Lena Cruz"},
	}
	if _, err := store.UpdatePreferences(user.ID, prefs); err != nil {
		t.Fatalf("UpdatePreferences: %v", err)
	}

	reloaded, err := NewStore(dir, logging.NewTestLogger(io.Discard))
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	got, err := reloaded.ByID(user.ID)
	if err != nil {
		t.Fatalf("ByID after reload: %v", err)
	}
	if len(got.Preferences.FavoriteGenres) != 2 || got.Preferences.FavoriteGenres[0] != "Action" {
		t.Errorf("preferences not persisted: %+v", got.Preferences)
	}
	if _, err := reloaded.Authenticate("alice", "secret123"); err != nil {
		t.Errorf("login after reload failed: %v", err)
	}
}

func TestWatchlistLifecycle(t *testing.T) {
	store, _ := newTestStore(t)
	user, err := store.Register("alice", "secret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	list, err := store.Watchlist(user.ID)
	if err != nil {
		t.Fatalf("Watchlist: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("fresh watchlist has %d entries", len(list))
	}

	if err := store.AddToWatchlist(user.ID, 42, "Space War"); err != nil {
		t.Fatalf("AddToWatchlist: %v", err)
	}
	if err := store.AddToWatchlist(user.ID, 42, "Space War"); !errors.Is(err, ErrAlreadyListed) {
		t.Errorf("duplicate add err = %v, want ErrAlreadyListed", err)
	}
	if err := store.AddToWatchlist(user.ID, 7, "Quiet Drama"); err != nil {
		t.Fatalf("AddToWatchlist: %v", err)
	}

	list, err = store.Watchlist(user.ID)
	if err != nil {
		t.Fatalf("Watchlist: %v", err)
	}
	if len(list) != 2 || list[0].MovieID != 42 || list[1].MovieID != 7 {
		t.Fatalf("watchlist = %+v, want movies 42 then 7", list)
	}
	if list[0].AddedAt.IsZero() {
		t.Error("AddedAt not set")
	}

	if err := store.RemoveFromWatchlist(user.ID, 42); err != nil {
		t.Fatalf("RemoveFromWatchlist: %v", err)
	}
	if err := store.RemoveFromWatchlist(user.ID, 42); !errors.Is(err, ErrNotListed) {
		t.Errorf("second remove err = %v, want ErrNotListed", err)
	}

	list, _ = store.Watchlist(user.ID)
	if len(list) != 1 || list[0].MovieID != 7 {
		t.Errorf("watchlist after removal = %+v", list)
	}
}

func TestBookmarksIndependentOfWatchlist(t *testing.T) {
	store, _ := newTestStore(t)
	user, err := store.Register("alice", "secret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := store.AddBookmark(user.ID, 42, "Space War"); err != nil {
		t.Fatalf("AddBookmark: %v", err)
	}

	watchlist, _ := store.Watchlist(user.ID)
	if len(watchlist) != 0 {
		t.Errorf("bookmark leaked into watchlist: %+v", watchlist)
	}
	bookmarks, _ := store.Bookmarks(user.ID)
	if len(bookmarks) != 1 {
		t.Errorf("bookmarks = %+v, want one entry", bookmarks)
	}
}

func TestListsRequireKnownUser(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.Watchlist("missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Watchlist err = %v, want ErrUserNotFound", err)
	}
	if err := store.AddToWatchlist("missing", 1, "x"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("AddToWatchlist err = %v, want ErrUserNotFound", err)
	}
}

func TestProfileOmitsPasswordHash(t *testing.T) {
	store, _ := newTestStore(t)
	user, err := store.Register("alice", "secret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	profile := user.Profile()
	if profile.Username != "alice" || profile.ID != user.ID {
		t.Errorf("profile = %+v", profile)
	}
}

func TestByIDReturnsDetachedCopy(t *testing.T) {
	store, _ := newTestStore(t)
	user, err := store.Register("alice", "secret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := store.UpdatePreferences(user.ID, recommend.Preferences{
		FavoriteGenres: []string{"Action"},
	}); err != nil {
		t.Fatalf("UpdatePreferences: %v", err)
	}

	got, err := store.ByID(user.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	got.Username = "mallory"
	got.Preferences.FavoriteGenres[0] = "Horror"

	again, err := store.ByID(user.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if again.Username != "alice" {
		t.Errorf("username mutated through returned copy: %q", again.Username)
	}
	if again.Preferences.FavoriteGenres[0] != "Action" {
		t.Errorf("preferences mutated through returned copy: %+v", again.Preferences)
	}
}

func TestUpdatePreferencesDetachesCallerSlices(t *testing.T) {
	store, _ := newTestStore(t)
	user, err := store.Register("alice", "secret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	genres := []string{"Action"}
	if _, err := store.UpdatePreferences(user.ID, recommend.Preferences{FavoriteGenres: genres}); err != nil {
		t.Fatalf("UpdatePreferences: %v", err)
	}
	genres[0] = "Horror"

	got, err := store.ByID(user.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if got.Preferences.FavoriteGenres[0] != "Action" {
		t.Errorf("stored preferences share the caller's slice: %+v", got.Preferences)
	}
}

func TestConcurrentPreferenceReadsAndWrites(t *testing.T) {
	store, _ := newTestStore(t)
	user, err := store.Register("alice", "secret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	var wg sync.WaitGroup
	for w := 0; w < 2; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				prefs := recommend.Preferences{
					FavoriteGenres:    []string{"Action", "Drama"},
					FavoriteDirectors: []string{"Lena Cruz"},
				}
				if _, err := store.UpdatePreferences(user.ID, prefs); err != nil {
					t.Errorf("UpdatePreferences: %v", err)
					return
				}
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				got, err := store.ByID(user.ID)
				if err != nil {
					t.Errorf("ByID: %v", err)
					return
				}
				profile := got.Profile()
				for _, g := range profile.Preferences.FavoriteGenres {
					if g == "" {
						t.Error("empty genre observed")
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}

func TestRegistryFileOrderStable(t *testing.T) {
	store, dir := newTestStore(t)

	ids := make([]string, 0, 3)
	for _, name := range []string{"alice", "bob", "carol"} {
		user, err := store.Register(name, "secret123")
		if err != nil {
			t.Fatalf("Register %s: %v", name, err)
		}
		ids = append(ids, user.ID)
	}

	readOrder := func() []string {
		t.Helper()
		data, err := os.ReadFile(filepath.Join(dir, registryFile))
		if err != nil {
			t.Fatalf("read registry: %v", err)
		}
		var users []struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(data, &users); err != nil {
			t.Fatalf("parse registry: %v", err)
		}
		order := make([]string, len(users))
		for i, u := range users {
			order[i] = u.ID
		}
		return order
	}

	first := readOrder()
	if len(first) != 3 {
		t.Fatalf("registry holds %d users, want 3", len(first))
	}

	// Rewrites keep the same order.
	for i := 0; i < 3; i++ {
		if _, err := store.UpdatePreferences(ids[1], recommend.Preferences{FavoriteGenres: []string{"Drama"}}); err != nil {
			t.Fatalf("UpdatePreferences: %v", err)
		}
		got := readOrder()
		for j := range first {
			if got[j] != first[j] {
				t.Fatalf("registry order changed after rewrite %d: %v -> %v", i, first, got)
			}
		}
	}
}
