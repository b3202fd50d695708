//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/ExploreNcrack/Comput496/internal/repository"
	"github.com/ExploreNcrack/Comput496/internal/testutil"
)

func pos(size int, fp uint64, key string) repository.Position {
	return repository.Position{Size: size, Fingerprint: fp, Key: []byte(key)}
}

func setup(t *testing.T) *ExperienceRepo {
	t.Helper()
	return NewExperienceRepo(testutil.SetupDB(t))
}

func TestExperienceRoundTrip(t *testing.T) {
	repo := setup(t)
	ctx := context.Background()

	exp := repository.Experience{
		9:  {Wins: 4, Visits: 10},
		10: {Wins: -1, Visits: 10},
	}
	// High bit set: stored as a negative bigint and read back unchanged.
	fp := uint64(0xfedcba9876543210)
	if err := repo.SaveExperience(ctx, pos(7, fp, "k"), exp); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.LoadExperience(ctx, pos(7, fp, "k"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[9] != exp[9] || got[10] != exp[10] {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}

func TestExperienceUpsert(t *testing.T) {
	repo := setup(t)
	ctx := context.Background()

	if err := repo.SaveExperience(ctx, pos(7, 1, "k"), repository.Experience{9: {Wins: 1, Visits: 1}}); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveExperience(ctx, pos(7, 1, "k"), repository.Experience{9: {Wins: 5, Visits: 8}}); err != nil {
		t.Fatal(err)
	}
	got, err := repo.LoadExperience(ctx, pos(7, 1, "k"))
	if err != nil {
		t.Fatal(err)
	}
	if got[9] != (repository.MoveStat{Wins: 5, Visits: 8}) {
		t.Errorf("got %+v, want the second save", got[9])
	}
}

func TestExperienceNotFound(t *testing.T) {
	repo := setup(t)
	got, err := repo.LoadExperience(context.Background(), pos(7, 42, "k"))
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestExperienceCollisionIsMiss(t *testing.T) {
	repo := setup(t)
	ctx := context.Background()
	if err := repo.SaveExperience(ctx, pos(7, 5, "first"), repository.Experience{9: {Wins: 1, Visits: 1}}); err != nil {
		t.Fatal(err)
	}
	got, err := repo.LoadExperience(ctx, pos(7, 5, "second"))
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("colliding position read %+v", got)
	}
}

func TestConnect(t *testing.T) {
	testutil.SetupDB(t) // migrated
	db, err := Connect(context.Background(), testutil.DatabaseURL())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	db.Close()

	if _, err := Connect(context.Background(), "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1"); err == nil {
		t.Error("connect to a closed port succeeded")
	}
}
