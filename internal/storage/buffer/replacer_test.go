package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	util "framedb/internal/utils"
)

func TestNewReplacer(t *testing.T) {
	t.Run("Policies", func(t *testing.T) {
		for _, policy := range []string{"lru", "clock", "cache", ""} {
			r, err := NewReplacer(policy, 8)
			assert.NoError(t, err, "policy %q", policy)
			assert.NotNil(t, r, "policy %q", policy)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := NewReplacer("mru", 8)
		assert.ErrorIs(t, err, util.ErrUnknownPolicy)
	})

	t.Run("BadPoolSize", func(t *testing.T) {
		_, err := NewReplacer("lru", 0)
		assert.ErrorIs(t, err, util.ErrInvalidPoolSize)
	})
}

func TestLRUReplacer(t *testing.T) {
	t.Run("StrictRecencyOrder", func(t *testing.T) {
		r := NewLRUReplacer()
		r.Insert(1)
		r.Insert(2)
		r.Insert(3)
		assert.Equal(t, 3, r.Size())

		for _, want := range []util.FrameID{1, 2, 3} {
			got, ok := r.Victim()
			require.True(t, ok)
			assert.Equal(t, want, got)
		}
		_, ok := r.Victim()
		assert.False(t, ok, "empty replacer has no victim")
		assert.Equal(t, 0, r.Size())
	})

	t.Run("InsertIdempotent", func(t *testing.T) {
		r := NewLRUReplacer()
		r.Insert(5)
		r.Insert(5)
		assert.Equal(t, 1, r.Size())

		got, ok := r.Victim()
		require.True(t, ok)
		assert.Equal(t, util.FrameID(5), got)
		_, ok = r.Victim()
		assert.False(t, ok)
	})

	t.Run("Erase", func(t *testing.T) {
		r := NewLRUReplacer()
		r.Insert(1)
		r.Insert(2)
		r.Insert(3)

		r.Erase(2)
		assert.Equal(t, 2, r.Size())
		r.Erase(2) // untracked: no-op
		r.Erase(9) // never tracked: no-op
		assert.Equal(t, 2, r.Size())

		got, ok := r.Victim()
		require.True(t, ok)
		assert.Equal(t, util.FrameID(1), got)
		got, ok = r.Victim()
		require.True(t, ok)
		assert.Equal(t, util.FrameID(3), got)
	})
}

func TestClockReplacer(t *testing.T) {
	t.Run("SweepEvictsEverything", func(t *testing.T) {
		r := NewClockReplacer(4)
		r.Insert(0)
		r.Insert(1)
		r.Insert(2)
		assert.Equal(t, 3, r.Size())

		seen := map[util.FrameID]bool{}
		for i := 0; i < 3; i++ {
			got, ok := r.Victim()
			require.True(t, ok)
			assert.False(t, seen[got], "frame %d evicted twice", got)
			seen[got] = true
		}
		_, ok := r.Victim()
		assert.False(t, ok)
	})

	t.Run("Erase", func(t *testing.T) {
		r := NewClockReplacer(4)
		r.Insert(1)
		r.Insert(2)
		r.Erase(1)
		assert.Equal(t, 1, r.Size())

		got, ok := r.Victim()
		require.True(t, ok)
		assert.Equal(t, util.FrameID(2), got)
	})

	t.Run("ReferenceBitGivesSecondChance", func(t *testing.T) {
		r := NewClockReplacer(2)
		r.Insert(0)
		r.Insert(1)

		// First victim clears ref bits on the way; frame 0 is reached first
		// on the second sweep.
		got, ok := r.Victim()
		require.True(t, ok)
		assert.Equal(t, util.FrameID(0), got)
	})
}

func TestCacheReplacer(t *testing.T) {
	t.Run("OldestInsertWins", func(t *testing.T) {
		r := NewCacheReplacer(4)
		r.Insert(3)
		r.Insert(1)
		r.Insert(2)
		assert.Equal(t, 3, r.Size())

		got, ok := r.Victim()
		require.True(t, ok)
		assert.Equal(t, util.FrameID(3), got)
	})

	t.Run("EraseAndIdempotentInsert", func(t *testing.T) {
		r := NewCacheReplacer(4)
		r.Insert(1)
		r.Insert(1)
		r.Insert(2)
		r.Erase(1)
		assert.Equal(t, 1, r.Size())

		got, ok := r.Victim()
		require.True(t, ok)
		assert.Equal(t, util.FrameID(2), got)
		_, ok = r.Victim()
		assert.False(t, ok)
	})
}
