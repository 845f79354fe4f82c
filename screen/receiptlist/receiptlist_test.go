package receiptlist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pagao/pagao/client"
	"github.com/pagao/pagao/connectivity"
	"github.com/pagao/pagao/result"
	"github.com/pagao/pagao/screen"
	"github.com/pagao/pagao/screen/screentest"
)

func TestLoadReceipts(t *testing.T) {
	t.Parallel()

	byGroup := map[int][]client.Receipt{
		1: {{ID: 10, Name: "Rent"}, {ID: 11, Name: "Power"}},
		2: {},
	}
	api := &screentest.FakeAPI{
		GetReceiptsOfGroupFunc: func(ctx context.Context, id int) result.NetworkResult[[]client.Receipt] {
			return result.NewSuccess(byGroup[id])
		},
	}
	c := New(api, screen.Deps{Online: connectivity.Static(true)})
	t.Cleanup(c.Close)

	c.Handle(LoadReceipts{GroupID: 1})
	c.Wait()
	assert.Len(t, c.State().Receipts, 2)

	// reloading the same group with nothing keeps what is shown
	byGroup[1] = nil
	c.Handle(LoadReceipts{GroupID: 1})
	c.Wait()
	assert.Len(t, c.State().Receipts, 2)

	c.Handle(LoadReceipts{GroupID: 2})
	c.Wait()
	assert.Empty(t, c.State().Receipts)
	assert.Equal(t, 2, c.State().GroupID)
	assert.Equal(t, []any{1, 1, 2}, api.Calls("GetReceiptsOfGroup"))
}

func TestLoadReceipts_Offline(t *testing.T) {
	t.Parallel()

	api := &screentest.FakeAPI{}
	c := New(api, screen.Deps{Online: connectivity.Static(false)})
	t.Cleanup(c.Close)

	c.Handle(LoadReceipts{GroupID: 1})
	c.Wait()

	assert.Equal(t, screen.MsgNoConnection, c.State().Error)
	assert.Zero(t, api.CallCount("GetReceiptsOfGroup"))
}
