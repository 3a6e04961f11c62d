package ws

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func str(s string) *string { return &s }

func TestJoinCollisionProducesUniqueNames(t *testing.T) {
	req := require.New(t)
	rm := newRoom("sprint-12", testLogger())

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		name, snap, ok := rm.Join("ana", NewConn(nil))
		req.True(ok)
		req.False(seen[name], "name %q assigned twice", name)
		seen[name] = true
		req.True(name == "ana" || strings.HasPrefix(name, "ana_"))
		req.Len(snap.Users, i+1)
	}
}

func TestCountsPartitionUserSet(t *testing.T) {
	req := require.New(t)
	rm := newRoom("r", testLogger())
	rm.Join("ana", NewConn(nil))
	rm.Join("bob", NewConn(nil))
	rm.Join("cleo", NewConn(nil))

	rm.SetVote("ana", float64(5))
	snap := rm.SetVote("bob", float64(8))

	req.Equal(1, snap.Counts["5"])
	req.Equal(1, snap.Counts["8"])
	req.Equal(1, snap.Counts["pending"])

	total := 0
	for _, n := range snap.Counts {
		total += n
	}
	req.Equal(len(snap.Users), total)
}

func TestVoteOverwritesPrior(t *testing.T) {
	req := require.New(t)
	rm := newRoom("r", testLogger())
	rm.Join("ana", NewConn(nil))

	rm.SetVote("ana", float64(3))
	snap := rm.SetVote("ana", float64(13))

	req.Equal(float64(13), snap.Users["ana"].Vote)
	req.Equal(1, snap.Counts["13"])
	req.Zero(snap.Counts["3"])
	req.Zero(snap.Counts["pending"])
}

func TestResetArchivesRound(t *testing.T) {
	req := require.New(t)
	rm := newRoom("r", testLogger())
	rm.Join("ana", NewConn(nil))
	rm.Join("bob", NewConn(nil))
	rm.Join("cleo", NewConn(nil))

	rm.SetTitle(str("Story 1"))
	rm.SetVote("ana", float64(5))
	rm.SetVote("bob", float64(8))

	snap := rm.Reset()

	req.Len(snap.History, 1)
	entry := snap.History[0]
	req.Equal("Story 1", entry.Title)
	req.Equal(map[string]int{"5": 1, "8": 1, "pending": 1}, entry.Results)

	req.Nil(snap.Title)
	for name, u := range snap.Users {
		req.Nil(u.Vote, "vote for %s not cleared", name)
	}
	req.Equal(3, snap.Counts["pending"])
}

func TestResetWithoutTitleRecordsSentinel(t *testing.T) {
	req := require.New(t)
	rm := newRoom("r", testLogger())
	rm.Join("ana", NewConn(nil))

	snap := rm.Reset()

	req.Len(snap.History, 1)
	req.Equal("no title", snap.History[0].Title)
}

func TestHistoryOnlyGrows(t *testing.T) {
	req := require.New(t)
	rm := newRoom("r", testLogger())
	rm.Join("ana", NewConn(nil))

	rm.SetTitle(str("first"))
	first := rm.Reset()
	rm.SetTitle(str("second"))
	rm.SetVote("ana", float64(21))
	second := rm.Reset()

	req.Len(second.History, 2)
	req.Equal("first", second.History[0].Title)
	req.Equal("second", second.History[1].Title)
	// the earlier snapshot is unaffected by the later reset
	req.Len(first.History, 1)
}

func TestStringVotesTallyVerbatim(t *testing.T) {
	req := require.New(t)
	rm := newRoom("r", testLogger())
	rm.Join("ana", NewConn(nil))
	rm.Join("bob", NewConn(nil))

	rm.SetVote("ana", "XL")
	snap := rm.SetVote("bob", "XL")

	req.Equal(2, snap.Counts["XL"])
	req.Zero(snap.Counts["pending"])
}

func TestConcurrentVotesNoLostUpdate(t *testing.T) {
	req := require.New(t)
	rm := newRoom("r", testLogger())
	names := []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7", "u8"}
	for _, n := range names {
		rm.Join(n, NewConn(nil))
	}

	var wg sync.WaitGroup
	for i, n := range names {
		wg.Add(1)
		go func(name string, v float64) {
			defer wg.Done()
			rm.SetVote(name, v)
		}(n, float64(available[i%len(available)]))
	}
	wg.Wait()

	snap := rm.Snapshot()
	req.Zero(snap.Counts["pending"])
	total := 0
	for _, c := range snap.Counts {
		total += c
	}
	req.Equal(len(names), total)
}

func TestRegistryLifecycle(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry(testLogger())

	rm := reg.GetOrCreate("daily")
	req.Same(rm, reg.GetOrCreate("daily"))
	req.Same(rm, reg.Lookup("daily"))

	name, _, ok := rm.Join("ana", NewConn(nil))
	req.True(ok)

	// not empty yet, room stays
	req.False(reg.RemoveIfEmpty("daily"))

	_, remaining := rm.Leave(name)
	req.Zero(remaining)
	req.True(reg.RemoveIfEmpty("daily"))
	req.Nil(reg.Lookup("daily"))

	// a closed room refuses late joins so the caller re-resolves
	_, _, ok = rm.Join("bob", NewConn(nil))
	req.False(ok)

	// recreated room starts from scratch
	fresh := reg.GetOrCreate("daily")
	req.NotSame(rm, fresh)
	snap := fresh.Snapshot()
	req.Empty(snap.Users)
	req.Empty(snap.History)
	req.Nil(snap.Title)
}

func TestEmptySnapshotWireShape(t *testing.T) {
	req := require.New(t)

	raw, err := json.Marshal(EmptySnapshot())
	req.NoError(err)
	req.JSONEq(`{
		"users": {},
		"available": [1,2,3,5,8,13,21,34],
		"counts": {"pending": 0},
		"title": null,
		"history": []
	}`, string(raw))
}

func TestVoteKeyCanonicalForms(t *testing.T) {
	req := require.New(t)
	req.Equal("5", voteKey(float64(5)))
	req.Equal("0.5", voteKey(0.5))
	req.Equal("XL", voteKey("XL"))
	req.Equal("true", voteKey(true))
}
