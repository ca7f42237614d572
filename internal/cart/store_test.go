package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ezeats/internal/cache"
)

type failingPersister struct {
	MemoryPersister
	failSave bool
	failLoad bool
}

func (p *failingPersister) Load(ctx context.Context) (Cart, error) {
	if p.failLoad {
		return Cart{}, errors.New("storage offline")
	}
	return p.MemoryPersister.Load(ctx)
}

func (p *failingPersister) Save(ctx context.Context, c Cart) error {
	if p.failSave {
		return errors.New("storage offline")
	}
	return p.MemoryPersister.Save(ctx, c)
}

func TestStore_PersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	p := &MemoryPersister{}
	a, b := item("A", "10"), item("B", "5")

	store, err := Open(ctx, p)
	require.NoError(t, err)
	assert.True(t, store.Cart().Empty())

	_, err = store.Add(ctx, a, 1)
	require.NoError(t, err)
	_, err = store.Add(ctx, a, 1)
	require.NoError(t, err)
	_, err = store.Add(ctx, b, 1)
	require.NoError(t, err)

	reopened, err := Open(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, store.Cart().Totals().Total.String(), reopened.Cart().Totals().Total.String())
	require.Len(t, reopened.Cart().Lines, 2)
	assert.Equal(t, 2, reopened.Cart().Lines[0].Quantity)

	_, err = store.SetQuantity(ctx, a.ID, 0)
	require.NoError(t, err)
	_, err = store.Remove(ctx, uuid.New())
	require.NoError(t, err)

	reopened, err = Open(ctx, p)
	require.NoError(t, err)
	require.Len(t, reopened.Cart().Lines, 1)
	assert.Equal(t, "B", reopened.Cart().Lines[0].Item.Name)

	_, err = store.Clear(ctx)
	require.NoError(t, err)
	reopened, err = Open(ctx, p)
	require.NoError(t, err)
	assert.True(t, reopened.Cart().Empty())
}

func TestStore_FailedSaveKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	p := &failingPersister{}
	store, err := Open(ctx, p)
	require.NoError(t, err)

	_, err = store.Add(ctx, item("A", "1"), 1)
	require.NoError(t, err)

	p.failSave = true
	got, err := store.Add(ctx, item("B", "1"), 1)
	assert.Error(t, err)
	assert.Len(t, got.Lines, 1)
	assert.Len(t, store.Cart().Lines, 1)
}

func TestStore_InvalidTransitionIsNotPersisted(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, &MemoryPersister{})
	require.NoError(t, err)

	_, err = store.Add(ctx, item("A", "1"), 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.True(t, store.Cart().Empty())
}

func TestOpen_LoadError(t *testing.T) {
	_, err := Open(context.Background(), &failingPersister{failLoad: true})
	assert.Error(t, err)
}

func TestRedisPersister_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	ctx := context.Background()
	p := NewRedisPersister(c, Key("user-1"))

	store, err := Open(ctx, p)
	require.NoError(t, err)
	assert.True(t, store.Cart().Empty())

	a := item("Lemonade", "29.99")
	_, err = store.Add(ctx, a, 2)
	require.NoError(t, err)
	assert.True(t, mr.Exists("cart:user-1"))
	assert.Equal(t, StorageTTL, mr.TTL("cart:user-1"))

	reopened, err := Open(ctx, NewRedisPersister(c, Key("user-1")))
	require.NoError(t, err)
	line, ok := reopened.Cart().Line(a.ID)
	require.True(t, ok)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, "29.99", line.Item.Price.StringFixed(2))

	other, err := Open(ctx, NewRedisPersister(c, Key("user-2")))
	require.NoError(t, err)
	assert.True(t, other.Cart().Empty())

	mr.FastForward(StorageTTL + time.Second)
	expired, err := Open(ctx, p)
	require.NoError(t, err)
	assert.True(t, expired.Cart().Empty())
}

func TestRedisPersister_DiscardsCorruptState(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	id := uuid.NewString()

	require.NoError(t, mr.Set("cart:broken", "{not json"))
	got, err := NewRedisPersister(c, "cart:broken").Load(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Empty())

	require.NoError(t, mr.Set("cart:dupes", `{"lines":[`+
		`{"item":{"_id":"`+id+`","name":"A","price":"1"},"quantity":1},`+
		`{"item":{"_id":"`+id+`","name":"A","price":"1"},"quantity":4},`+
		`{"item":{"_id":"`+uuid.NewString()+`","name":"B","price":"1"},"quantity":0},`+
		`{"item":{"_id":"`+uuid.NewString()+`","name":"C","price":"1"},"quantity":100}]}`))
	got, err = NewRedisPersister(c, "cart:dupes").Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 1, got.Lines[0].Quantity)
}

func TestRedisPersister_LoadFailsWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	mr.Close()

	_, err := NewRedisPersister(c, Key("u")).Load(context.Background())
	assert.Error(t, err)
}
