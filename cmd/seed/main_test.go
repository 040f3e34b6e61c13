package main

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/janisto/scoring-api/internal/store"
)

func mockOpener(ms *store.MockStore) opener {
	return func(context.Context) (store.BulkStore, func() error, error) {
		return ms, func() error { return nil }, nil
	}
}

func run(t *testing.T, open opener, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestInterests_WritesTwoTags(t *testing.T) {
	ms := store.NewMockStore()
	out, err := run(t, mockOpener(ms), "interests", "--ids", "1,2,3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, key := range []string{"1", "2", "3"} {
		tags, err := ms.GetList(context.Background(), key)
		if err != nil {
			t.Fatalf("GetList(%s): %v", key, err)
		}
		if len(tags) != tagsPerClient {
			t.Fatalf("expected %d tags for %s, got %v", tagsPerClient, key, tags)
		}
		if tags[0] == tags[1] {
			t.Fatalf("expected distinct tags, got %v", tags)
		}
		for _, tag := range tags {
			if !slices.Contains(Interests, tag) {
				t.Fatalf("unexpected tag %q", tag)
			}
		}
	}
	if strings.Count(out, "\n") != 3 {
		t.Fatalf("expected one line per client, got %q", out)
	}
}

func TestClear_DeletesLists(t *testing.T) {
	ms := store.NewMockStore()
	ctx := context.Background()
	_ = ms.SetList(ctx, "7", "cars", "pets")

	if _, err := run(t, mockOpener(ms), "clear", "--ids", "7"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tags, _ := ms.GetList(ctx, "7")
	if len(tags) != 0 {
		t.Fatalf("expected cleared list, got %v", tags)
	}
}

func TestInterests_RequiresIDs(t *testing.T) {
	if _, err := run(t, mockOpener(store.NewMockStore()), "interests"); err == nil {
		t.Fatal("expected error without --ids")
	}
}

func TestInterests_StoreErrors(t *testing.T) {
	ms := store.NewMockStore()
	ms.FailWrites(true)
	_, err := run(t, mockOpener(ms), "interests", "--ids", "1")
	if !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	failing := func(context.Context) (store.BulkStore, func() error, error) {
		return nil, nil, errors.New("dial refused")
	}
	if _, err := run(t, failing, "clear", "--ids", "1"); err == nil || !strings.Contains(err.Error(), "open store") {
		t.Fatalf("expected open store error, got %v", err)
	}
}

func TestCacheSet_StoresAllPairs(t *testing.T) {
	ms := store.NewMockStore()
	out, err := run(t, mockOpener(ms), "cache", "set", "uid:1=3.5", "uid:2=0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "stored 2 keys") {
		t.Fatalf("expected summary line, got %q", out)
	}

	ctx := context.Background()
	for key, want := range map[string]string{"uid:1": "3.5", "uid:2": "0"} {
		got, ok, err := ms.Get(ctx, key)
		if err != nil || !ok || got != want {
			t.Fatalf("Get(%s): expected %q, got %q ok=%v err=%v", key, want, got, ok, err)
		}
		if ttl := ms.TTL(key); ttl != 0 {
			t.Fatalf("expected no expiry for %s, got %v", key, ttl)
		}
	}
}

func TestCacheSet_RejectsMalformedPair(t *testing.T) {
	ms := store.NewMockStore()
	for _, arg := range []string{"novalue", "=3.5"} {
		if _, err := run(t, mockOpener(ms), "cache", "set", arg); err == nil {
			t.Fatalf("expected error for %q", arg)
		}
	}
	if _, sets := ms.Calls(); sets != 0 {
		t.Fatalf("expected no writes, got %d", sets)
	}
}

func TestCacheGet_PrintsValuesInOrder(t *testing.T) {
	ms := store.NewMockStore()
	_ = ms.Set(context.Background(), "uid:1", "5", 0)

	out, err := run(t, mockOpener(ms), "cache", "get", "uid:1", "uid:9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "uid:1: 5\nuid:9: (missing)\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestCache_StoreErrors(t *testing.T) {
	ms := store.NewMockStore()
	ms.FailReads(true)
	ms.FailWrites(true)

	if _, err := run(t, mockOpener(ms), "cache", "get", "uid:1"); !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable from get, got %v", err)
	}
	if _, err := run(t, mockOpener(ms), "cache", "set", "uid:1=1"); !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable from set, got %v", err)
	}
}

func TestSample(t *testing.T) {
	got := sample(Interests, 2)
	if len(got) != 2 || got[0] == got[1] {
		t.Fatalf("expected two distinct values, got %v", got)
	}
}
