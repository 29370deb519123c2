package cart

import (
	"context"
	"errors"
	"testing"

	"storefront-server/models"
	"storefront-server/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	mugPrice = decimal.RequireFromString("9.99")
	hatPrice = decimal.RequireFromString("15.50")
)

// failingStorage fails every call with err.
type failingStorage struct {
	err    error
	writes int
}

func (f *failingStorage) GetItem(context.Context, string) (string, error) { return "", f.err }
func (f *failingStorage) SetItem(context.Context, string, string) error {
	f.writes++
	return f.err
}
func (f *failingStorage) RemoveItem(context.Context, string) error { return f.err }

func newTestCart(t *testing.T) (*Cart, *storage.MemoryStorage) {
	t.Helper()
	mem := storage.NewMemoryStorage()
	return Hydrate(context.Background(), NewStore(mem, zap.NewNop()), zap.NewNop()), mem
}

func requireItem(t *testing.T, item models.LineItem, name, price, image string, quantity int) {
	t.Helper()
	assert.Equal(t, name, item.Name)
	assert.Equal(t, price, item.UnitPrice.StringFixed(2))
	assert.Equal(t, image, item.ImageRef)
	assert.Equal(t, quantity, item.Quantity)
}

func TestAddItem_MergesByName(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, c.AddItem(ctx, "Mug", mugPrice, "mug.jpg"))
	}
	// later adds with a different price or image do not update the item
	require.NoError(t, c.AddItem(ctx, "Mug", decimal.RequireFromString("1.00"), "other.jpg"))

	require.Equal(t, 1, c.Len())
	requireItem(t, c.Items()[0], "Mug", "9.99", "mug.jpg", 6)
	assert.Equal(t, 6, c.TotalItemCount())
}

func TestAddItem_AppendsInOrder(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)

	require.NoError(t, c.AddItem(ctx, "Mug", mugPrice, "mug.jpg"))
	require.NoError(t, c.AddItem(ctx, "Hat", hatPrice, "hat.jpg"))
	require.NoError(t, c.AddItem(ctx, "Mug", mugPrice, "mug.jpg"))

	items := c.Items()
	require.Len(t, items, 2)
	requireItem(t, items[0], "Mug", "9.99", "mug.jpg", 2)
	requireItem(t, items[1], "Hat", "15.50", "hat.jpg", 1)
	assert.Equal(t, 3, c.TotalItemCount())
	assert.Equal(t, "35.48", c.TotalAmount().StringFixed(2))
}

func TestAddItem_RejectsInvalid(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)

	assert.ErrorIs(t, c.AddItem(ctx, "", mugPrice, ""), ErrInvalidItem)
	assert.ErrorIs(t, c.AddItem(ctx, "   ", mugPrice, ""), ErrInvalidItem)
	assert.ErrorIs(t, c.AddItem(ctx, "Mug", decimal.NewFromInt(-1), ""), ErrInvalidItem)
	assert.True(t, c.IsEmpty())
}

func TestMugScenario(t *testing.T) {
	ctx := context.Background()
	c, mem := newTestCart(t)

	require.NoError(t, c.AddItem(ctx, "Mug", mugPrice, "mug.jpg"))
	require.NoError(t, c.AddItem(ctx, "Mug", mugPrice, "mug.jpg"))

	assert.Equal(t, 2, c.TotalItemCount())
	assert.Equal(t, "19.98", c.TotalAmount().StringFixed(2))

	raw, err := mem.GetItem(ctx, StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Mug","price":9.99,"image":"mug.jpg","quantity":2}]`, raw)
}

func TestSetQuantity(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)
	require.NoError(t, c.AddItem(ctx, "Mug", mugPrice, "mug.jpg"))
	require.NoError(t, c.AddItem(ctx, "Hat", hatPrice, "hat.jpg"))

	require.NoError(t, c.SetQuantity(ctx, 1, 4))
	assert.Equal(t, 4, c.Items()[1].Quantity)
	assert.Equal(t, 5, c.TotalItemCount())

	// setting the same value again changes nothing
	require.NoError(t, c.SetQuantity(ctx, 1, 4))
	assert.Equal(t, 5, c.TotalItemCount())
}

func TestSetQuantity_RemovesAtZeroOrBelow(t *testing.T) {
	for _, quantity := range []int{0, -1, -10} {
		ctx := context.Background()
		c, _ := newTestCart(t)
		require.NoError(t, c.AddItem(ctx, "Mug", mugPrice, "mug.jpg"))
		require.NoError(t, c.AddItem(ctx, "Hat", hatPrice, "hat.jpg"))
		require.NoError(t, c.AddItem(ctx, "Pen", decimal.NewFromInt(2), "pen.jpg"))

		require.NoError(t, c.SetQuantity(ctx, 1, quantity))

		items := c.Items()
		require.Len(t, items, 2, "quantity %d", quantity)
		assert.Equal(t, "Mug", items[0].Name)
		assert.Equal(t, "Pen", items[1].Name)
		assert.Equal(t, 2, c.TotalItemCount())
	}
}

func TestSetQuantity_OutOfRange(t *testing.T) {
	ctx := context.Background()
	c, mem := newTestCart(t)
	require.NoError(t, c.AddItem(ctx, "Mug", mugPrice, "mug.jpg"))
	before, err := mem.GetItem(ctx, StorageKey)
	require.NoError(t, err)

	for _, index := range []int{-1, 1, 7} {
		err := c.SetQuantity(ctx, index, 3)
		require.ErrorIs(t, err, ErrIndexOutOfRange)

		var indexErr *IndexError
		require.True(t, errors.As(err, &indexErr))
		assert.Equal(t, index, indexErr.Index)
		assert.Equal(t, 1, indexErr.Len)
	}

	requireItem(t, c.Items()[0], "Mug", "9.99", "mug.jpg", 1)
	after, err := mem.GetItem(ctx, StorageKey)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestClear_Idempotent(t *testing.T) {
	ctx := context.Background()
	c, mem := newTestCart(t)
	require.NoError(t, c.AddItem(ctx, "Mug", mugPrice, "mug.jpg"))

	c.Clear(ctx)
	once, err := mem.GetItem(ctx, StorageKey)
	require.NoError(t, err)

	c.Clear(ctx)
	twice, err := mem.GetItem(ctx, StorageKey)
	require.NoError(t, err)

	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.TotalItemCount())
	assert.True(t, c.TotalAmount().IsZero())
	assert.Equal(t, `[]`, once)
	assert.Equal(t, once, twice)
}

func TestCountInvariant_AfterEveryOperation(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)

	check := func() {
		sum := 0
		for _, item := range c.Items() {
			require.GreaterOrEqual(t, item.Quantity, 1)
			sum += item.Quantity
		}
		require.Equal(t, sum, c.TotalItemCount())
	}

	steps := []func(){
		func() { require.NoError(t, c.AddItem(ctx, "Mug", mugPrice, "")) },
		func() { require.NoError(t, c.AddItem(ctx, "Hat", hatPrice, "")) },
		func() { require.NoError(t, c.AddItem(ctx, "Mug", mugPrice, "")) },
		func() { require.NoError(t, c.SetQuantity(ctx, 0, 7)) },
		func() { require.NoError(t, c.SetQuantity(ctx, 1, 0)) },
		func() { require.NoError(t, c.AddItem(ctx, "Pen", decimal.NewFromInt(1), "")) },
		func() { c.Clear(ctx) },
		func() { require.NoError(t, c.AddItem(ctx, "Hat", hatPrice, "")) },
	}
	for _, step := range steps {
		step()
		check()
	}
}

func TestObservers_NotifiedAfterPersist(t *testing.T) {
	ctx := context.Background()
	c, mem := newTestCart(t)

	var changes []Change
	c.Subscribe(ObserverFunc(func(ctx context.Context, change Change) {
		// the snapshot is already written when observers run
		raw, err := mem.GetItem(ctx, StorageKey)
		require.NoError(t, err)
		assert.NotEmpty(t, raw)
		changes = append(changes, change)
	}))

	require.NoError(t, c.AddItem(ctx, "Mug", mugPrice, "mug.jpg"))
	require.NoError(t, c.SetQuantity(ctx, 0, 0))
	c.Clear(ctx)
	require.Error(t, c.SetQuantity(ctx, 0, 1))

	require.Len(t, changes, 3)
	assert.Equal(t, ItemAdded, changes[0].Kind)
	assert.Equal(t, QuantitySet, changes[1].Kind)
	assert.True(t, changes[1].Removed)
	assert.Equal(t, "Mug", changes[1].Item.Name)
	assert.Equal(t, Cleared, changes[2].Kind)
}

func TestPersistFailure_KeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	broken := &failingStorage{err: errors.New("quota exceeded")}
	c := Hydrate(ctx, NewStore(broken, zap.NewNop()), zap.NewNop())

	require.NoError(t, c.AddItem(ctx, "Mug", mugPrice, "mug.jpg"))
	require.NoError(t, c.AddItem(ctx, "Mug", mugPrice, "mug.jpg"))

	assert.Equal(t, 2, broken.writes)
	assert.Equal(t, 2, c.TotalItemCount())
}
