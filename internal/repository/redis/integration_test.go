//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/ExploreNcrack/Comput496/internal/repository"
	"github.com/ExploreNcrack/Comput496/internal/testutil"
)

func pos(size int, fp uint64, key string) repository.Position {
	return repository.Position{Size: size, Fingerprint: fp, Key: []byte(key)}
}

func setup(t *testing.T) *Client {
	t.Helper()
	return NewClientFromPool(testutil.SetupRedis(t), 0)
}

func TestExperienceRoundTrip(t *testing.T) {
	c := setup(t)
	ctx := context.Background()

	exp := repository.Experience{
		17: {Wins: 3, Visits: 10},
		24: {Wins: -2.5, Visits: 4},
	}
	if err := c.SaveExperience(ctx, pos(7, 0xdeadbeef, "\x01\x02\xff"), exp); err != nil {
		t.Fatalf("save experience: %v", err)
	}

	got, err := c.LoadExperience(ctx, pos(7, 0xdeadbeef, "\x01\x02\xff"))
	if err != nil {
		t.Fatalf("load experience: %v", err)
	}
	if len(got) != 2 || got[17] != exp[17] || got[24] != exp[24] {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}

func TestExperienceNotFound(t *testing.T) {
	c := setup(t)
	got, err := c.LoadExperience(context.Background(), pos(7, 1, "k"))
	if err != nil {
		t.Fatalf("load missing experience: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestExperienceKeyedBySize(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	if err := c.SaveExperience(ctx, pos(7, 99, "k"), repository.Experience{1: {Wins: 1, Visits: 1}}); err != nil {
		t.Fatal(err)
	}
	got, err := c.LoadExperience(ctx, pos(9, 99, "k"))
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("size 9 read size 7 entry: %+v", got)
	}
}

func TestExperienceCollisionIsMiss(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	if err := c.SaveExperience(ctx, pos(7, 99, "first"), repository.Experience{1: {Wins: 1, Visits: 1}}); err != nil {
		t.Fatal(err)
	}
	got, err := c.LoadExperience(ctx, pos(7, 99, "second"))
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("colliding position read %+v", got)
	}
}

func TestExperienceExpires(t *testing.T) {
	c := setup(t)
	c.ttl = time.Second
	ctx := context.Background()
	if err := c.SaveExperience(ctx, pos(7, 5, "k"), repository.Experience{1: {Wins: 1, Visits: 1}}); err != nil {
		t.Fatal(err)
	}
	ttl, err := c.rdb.TTL(ctx, experienceKey(7, 5)).Result()
	if err != nil {
		t.Fatal(err)
	}
	if ttl <= 0 || ttl > time.Second {
		t.Errorf("ttl = %v, want within (0, 1s]", ttl)
	}
}
