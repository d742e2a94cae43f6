package feedback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valentinpelus/feedbox/pkg/kv"
	"github.com/valentinpelus/feedbox/pkg/types"
)

var testNow = time.Date(2026, time.October, 14, 15, 4, 5, 0, time.UTC)

func testRecords() types.Collection {
	return types.Collection{
		{Name: "Ada", Email: "ada@example.com", Rating: 3, Message: "Okay", Date: "10/1/2026, 9:00:00 AM"},
		{Name: "", Email: "", Rating: 5, Message: "Great!", Date: "10/14/2026, 3:04:05 PM"},
		{Name: "Ada", Email: "ada@example.com", Rating: 3, Message: "Okay", Date: "10/1/2026, 9:00:00 AM"},
	}
}

// failingStorage fails every operation with err
type failingStorage struct {
	err error
}

func (f failingStorage) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingStorage) Set(context.Context, string, []byte) error { return f.err }
func (f failingStorage) Remove(context.Context, string) error { return f.err }
func (f failingStorage) Name() string { return "failing" }

func TestStore_AppendThenLoadAllPreservesOrder(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kv.NewMemory())

	want := testRecords()
	for _, r := range want {
		require.NoError(t, store.Append(ctx, r))
	}

	assert.Equal(t, want, store.LoadAll(ctx))
}

func TestStore_LoadAllOnFirstAccessIsEmpty(t *testing.T) {
	store := NewStore(kv.NewMemory())

	records := store.LoadAll(context.Background())
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestStore_ClearAlwaysEmpties(t *testing.T) {
	ctx := context.Background()

	t.Run("with data", func(t *testing.T) {
		store := NewStore(kv.NewMemory())
		for _, r := range testRecords() {
			require.NoError(t, store.Append(ctx, r))
		}

		require.NoError(t, store.Clear(ctx))
		assert.Empty(t, store.LoadAll(ctx))
	})

	t.Run("already empty", func(t *testing.T) {
		store := NewStore(kv.NewMemory())
		require.NoError(t, store.Clear(ctx))
		assert.Empty(t, store.LoadAll(ctx))
	})

	t.Run("removes the slot", func(t *testing.T) {
		mem := kv.NewMemory()
		store := NewStore(mem)
		require.NoError(t, store.Append(ctx, testRecords()[0]))
		require.NoError(t, store.Clear(ctx))

		_, err := mem.Get(ctx, DefaultSlotKey)
		assert.ErrorIs(t, err, kv.ErrNotFound)
	})
}

func TestStore_MalformedDataFailsOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		blob string
	}{
		{"not json", "definitely not json"},
		{"truncated array", `[{"name":"a","rating":4`},
		{"object instead of array", `{"feedbacks":[]}`},
		{"non numeric rating", `[{"rating":"five","message":"x","date":""}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := kv.NewMemory()
			require.NoError(t, mem.Set(ctx, DefaultSlotKey, []byte(tt.blob)))
			store := NewStore(mem)

			assert.NotPanics(t, func() {
				assert.Empty(t, store.LoadAll(ctx))
			})

			_, err := store.Load(ctx)
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, DefaultSlotKey, parseErr.Key)
		})
	}
}

func TestStore_BlankSlotIsEmpty(t *testing.T) {
	ctx := context.Background()

	for _, blob := range []string{"", "   ", "null", "[]"} {
		mem := kv.NewMemory()
		require.NoError(t, mem.Set(ctx, DefaultSlotKey, []byte(blob)))

		records, err := NewStore(mem).Load(ctx)
		require.NoError(t, err, "blob %q", blob)
		assert.Empty(t, records, "blob %q", blob)
	}
}

func TestStore_LoadsLegacyStringRatings(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	blob := `[{"name":"","email":"","rating":"4","message":"legacy","date":"10/2/2026, 1:00:00 PM"}]`
	require.NoError(t, mem.Set(ctx, DefaultSlotKey, []byte(blob)))

	records := NewStore(mem).LoadAll(ctx)
	require.Len(t, records, 1)
	assert.Equal(t, types.Rating(4), records[0].Rating)
	assert.Equal(t, "legacy", records[0].Message)
}

func TestStore_AppendReplacesMalformedData(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(ctx, DefaultSlotKey, []byte("garbage")))
	store := NewStore(mem)

	record := testRecords()[1]
	require.NoError(t, store.Append(ctx, record))

	assert.Equal(t, types.Collection{record}, store.LoadAll(ctx))
}

func TestStore_BackendFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")
	store := NewStore(failingStorage{err: boom})

	assert.Empty(t, store.LoadAll(ctx))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, boom)

	err = store.Append(ctx, testRecords()[0])
	assert.ErrorIs(t, err, boom)

	err = store.Clear(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestStore_WithSlotKey(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	store := NewStore(mem, WithSlotKey("otherSlot"))
	require.NoError(t, store.Append(ctx, testRecords()[0]))

	assert.Equal(t, "otherSlot", store.Key())
	_, err := mem.Get(ctx, DefaultSlotKey)
	assert.ErrorIs(t, err, kv.ErrNotFound)
	_, err = mem.Get(ctx, "otherSlot")
	assert.NoError(t, err)
}

func TestStore_WritesNumericRatings(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	store := NewStore(mem)
	require.NoError(t, store.Append(ctx, types.Record{Rating: 4, Message: "hi", Date: "10/14/2026, 3:04:05 PM"}))

	data, err := mem.Get(ctx, DefaultSlotKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"","email":"","rating":4,"message":"hi","date":"10/14/2026, 3:04:05 PM"}]`, string(data))
}

func TestStore_Export(t *testing.T) {
	ctx := context.Background()

	t.Run("declines when empty", func(t *testing.T) {
		_, _, err := NewStore(kv.NewMemory()).Export(ctx, testNow)
		assert.ErrorIs(t, err, ErrNothingToExport)
	})

	t.Run("names and renders the file", func(t *testing.T) {
		store := NewStore(kv.NewMemory())
		records := testRecords()
		for _, r := range records {
			require.NoError(t, store.Append(ctx, r))
		}

		filename, data, err := store.Export(ctx, testNow)
		require.NoError(t, err)
		assert.Equal(t, "feedback_data_2026-10-14.csv", filename)
		assert.Equal(t, ToCSV(records), string(data))
	})
}

func TestStore_AppendKeepsRecordsWithFloatRatings(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	blob := `[{"rating":4,"message":"first","date":"10/1/2026, 9:00:00 AM"},` +
		`{"rating":4.0,"message":"second","date":"10/2/2026, 9:00:00 AM"}]`
	require.NoError(t, mem.Set(ctx, DefaultSlotKey, []byte(blob)))
	store := NewStore(mem)

	require.Len(t, store.LoadAll(ctx), 2)
	require.NoError(t, store.Append(ctx, types.Record{Rating: 5, Message: "third", Date: FormatDate(testNow)}))

	records := store.LoadAll(ctx)
	require.Len(t, records, 3)
	assert.Equal(t, "first", records[0].Message)
	assert.Equal(t, types.Rating(4), records[1].Rating)
	assert.Equal(t, "third", records[2].Message)
}
