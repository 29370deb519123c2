package storefront

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"storefront-server/cart"
	"storefront-server/storage"
	"storefront-server/ui"
	"storefront-server/ui/uitest"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type cartTestContext struct {
	store     storage.Storage
	scheduler *uitest.ManualScheduler
	page      *Page
	err       error
	notices   []string
}

func (c *cartTestContext) reset() {
	c.store = storage.NewMemoryStorage()
	c.boot()
	c.err = nil
	c.notices = nil
}

func (c *cartTestContext) boot() {
	if c.page != nil {
		c.page.Close()
	}
	c.scheduler = &uitest.ManualScheduler{}
	c.page = Boot(context.Background(), Options{
		Storage:   c.store,
		Catalog:   testCatalog,
		Scheduler: c.scheduler,
		Logger:    zap.NewNop(),
	})
}

func (c *cartTestContext) anEmptyShopperSession() error {
	return nil
}

func (c *cartTestContext) theShopperAdds(name, price, image string) error {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	c.err = c.page.AddItem(context.Background(), name, p, image)
	return c.err
}

func (c *cartTestContext) theShopperSetsLineToQuantity(index, quantity int) error {
	c.err = c.page.SetQuantity(context.Background(), index, quantity)
	return nil
}

func (c *cartTestContext) theShopperOpensTheCart() error {
	c.page.OpenModal()
	return nil
}

func (c *cartTestContext) theShopperChecksOut() error {
	c.page.Checkout(context.Background())
	c.notices = append(c.notices, c.page.Summary().Notices...)
	return nil
}

func (c *cartTestContext) thePageIsReloaded() error {
	c.boot()
	return nil
}

func (c *cartTestContext) theNotificationTimersRun() error {
	for c.scheduler.Fire() > 0 {
	}
	return nil
}

func (c *cartTestContext) theCartHasLines(n int) error {
	if got := len(c.page.Summary().Items); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) theCartIsEmpty() error {
	return c.theCartHasLines(0)
}

func (c *cartTestContext) lineIsAtWithQuantity(index int, name, price string, quantity int) error {
	items := c.page.Summary().Items
	if index >= len(items) {
		return fmt.Errorf("no line %d in a cart of %d", index, len(items))
	}
	item := items[index]
	if item.Name != name {
		return fmt.Errorf("expected name %q, got %q", name, item.Name)
	}
	if !item.UnitPrice.Equal(decimal.RequireFromString(price)) {
		return fmt.Errorf("expected price %s, got %s", price, item.UnitPrice)
	}
	if item.Quantity != quantity {
		return fmt.Errorf("expected quantity %d, got %d", quantity, item.Quantity)
	}
	return nil
}

func (c *cartTestContext) theCartHoldsItemsTotalling(count int, total string) error {
	s := c.page.Summary()
	if s.TotalItems != count {
		return fmt.Errorf("expected %d items, got %d", count, s.TotalItems)
	}
	if !s.TotalAmount.Equal(decimal.RequireFromString(total)) {
		return fmt.Errorf("expected total %s, got %s", total, s.TotalAmount)
	}
	return nil
}

func (c *cartTestContext) theBadgeShows(text string) error {
	var got string
	c.page.Inspect(func(doc *ui.Document) {
		if n := doc.QueryClass(ui.BadgeClass); n != nil {
			got = doc.Text(n)
		}
	})
	if got != text {
		return fmt.Errorf("expected badge %q, got %q", text, got)
	}
	return nil
}

func (c *cartTestContext) storageHoldsAnEmptyCart() error {
	raw, err := c.store.GetItem(context.Background(), cart.StorageKey)
	if err != nil {
		return err
	}
	if raw != "[]" {
		return fmt.Errorf("expected stored cart [], got %s", raw)
	}
	return nil
}

func (c *cartTestContext) theOperationFailsWithAnIndexError() error {
	var indexErr *cart.IndexError
	if !errors.As(c.err, &indexErr) {
		return fmt.Errorf("expected an index error, got %v", c.err)
	}
	return nil
}

func (c *cartTestContext) theShopperIsTold(message string) error {
	for _, n := range c.notices {
		if n == message {
			return nil
		}
	}
	return fmt.Errorf("expected notice %q, got %v", message, c.notices)
}

func (c *cartTestContext) theCartModalIsClosed() error {
	if c.page.Summary().ModalOpen {
		return errors.New("cart modal is still open")
	}
	return nil
}

func (c *cartTestContext) aNotificationReads(message string) error {
	var texts []string
	c.page.Inspect(func(doc *ui.Document) {
		for _, n := range doc.QueryAllClass(ui.NotificationClass) {
			texts = append(texts, doc.Text(n))
		}
	})
	for _, text := range texts {
		if text == message {
			return nil
		}
	}
	return fmt.Errorf("expected notification %q, got %v", message, texts)
}

func (c *cartTestContext) noNotificationIsShown() error {
	var n int
	c.page.Inspect(func(doc *ui.Document) { n = len(doc.QueryAllClass(ui.NotificationClass)) })
	if n != 0 {
		return fmt.Errorf("expected no notifications, got %d", n)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc.page.Close()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an empty shopper session$`, tc.anEmptyShopperSession)

	// When steps
	ctx.Step(`^the shopper adds "([^"]*)" at (\d+(?:\.\d+)?) with image "([^"]*)"$`, tc.theShopperAdds)
	ctx.Step(`^the shopper sets line (\d+) to quantity (-?\d+)$`, tc.theShopperSetsLineToQuantity)
	ctx.Step(`^the shopper opens the cart$`, tc.theShopperOpensTheCart)
	ctx.Step(`^the shopper checks out$`, tc.theShopperChecksOut)
	ctx.Step(`^the page is reloaded$`, tc.thePageIsReloaded)
	ctx.Step(`^the notification timers run$`, tc.theNotificationTimersRun)

	// Then steps
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^line (\d+) is "([^"]*)" at (\d+(?:\.\d+)?) with quantity (\d+)$`, tc.lineIsAtWithQuantity)
	ctx.Step(`^the cart holds (\d+) items totalling (\d+(?:\.\d+)?)$`, tc.theCartHoldsItemsTotalling)
	ctx.Step(`^the badge shows "([^"]*)"$`, tc.theBadgeShows)
	ctx.Step(`^storage holds an empty cart$`, tc.storageHoldsAnEmptyCart)
	ctx.Step(`^the operation fails with an index error$`, tc.theOperationFailsWithAnIndexError)
	ctx.Step(`^the shopper is told "([^"]*)"$`, tc.theShopperIsTold)
	ctx.Step(`^the cart modal is closed$`, tc.theCartModalIsClosed)
	ctx.Step(`^a notification reads "([^"]*)"$`, tc.aNotificationReads)
	ctx.Step(`^no notification is shown$`, tc.noNotificationIsShown)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
