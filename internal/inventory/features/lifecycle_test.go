package features

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/tair/food-waste/internal/inventory/cache"
	"github.com/tair/food-waste/internal/inventory/domain"
	"github.com/tair/food-waste/internal/inventory/repository"
	"github.com/tair/food-waste/internal/inventory/usecase/command"
	"github.com/tair/food-waste/internal/inventory/usecase/query"
	"github.com/tair/food-waste/kafka"
	"github.com/tair/food-waste/pkg/database"
)

type lifecycleContext struct {
	t        testing.TB
	now      time.Time
	repo     domain.InventoryRepository
	items    map[string]*domain.InventoryItem
	snapshot map[string]domain.InventoryItem
	summary  *domain.SweepSummary
	err      error
}

func (c *lifecycleContext) reset() {
	c.repo = repository.NewGormInventoryRepository(database.NewTestDB(c.t, &domain.InventoryItem{}))
	c.items = make(map[string]*domain.InventoryItem)
	c.snapshot = nil
	c.summary = nil
	c.err = nil
}

func (c *lifecycleContext) clock() time.Time { return c.now }

func (c *lifecycleContext) theClockReads(value string) error {
	now, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return err
	}
	c.now = now.UTC()
	return nil
}

func (c *lifecycleContext) anItemExpiringIn(status, name, category, price string, days int) error {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	item := &domain.InventoryItem{
		ProductName: name,
		Category:    domain.Category(category),
		Quantity:    1,
		ExpiryDate:  c.now.Add(time.Duration(days) * 24 * time.Hour),
		Price:       p,
		Status:      domain.Status(status),
		Location:    domain.DefaultLocation,
	}
	if err := c.repo.Create(context.Background(), item); err != nil {
		return err
	}
	c.items[name] = item
	return nil
}

func (c *lifecycleContext) theSweepRuns() error {
	h := command.NewSweepNearExpiryHandler(c.repo, cache.Noop{}, kafka.NoopPublisher{})
	summary, err := h.Handle(context.Background(), command.SweepNearExpiryCommand{Now: c.now})
	if err != nil {
		return err
	}
	c.summary = summary
	return nil
}

func (c *lifecycleContext) iDonateItem(name string) error {
	item, ok := c.items[name]
	if !ok {
		return fmt.Errorf("unknown item %q", name)
	}
	h := command.NewDonateItemHandler(c.repo, cache.Noop{}, kafka.NoopPublisher{})
	_, err := h.Handle(context.Background(), command.DonateItemCommand{ItemID: item.ID.String()})
	return err
}

func (c *lifecycleContext) create(cmd command.CreateItemCommand) {
	h := command.NewCreateItemHandler(c.repo, cache.Noop{})
	item, err := h.Handle(context.Background(), cmd)
	c.err = err
	if err == nil {
		c.items[item.ProductName] = item
	}
}

func (c *lifecycleContext) iCreateAnItemWithStatus(name, category, price, status string) error {
	c.create(command.CreateItemCommand{
		ProductName: name,
		Category:    category,
		Quantity:    "1",
		ExpiryDate:  c.now.Add(5 * 24 * time.Hour).Format(time.RFC3339),
		Price:       price,
		Status:      status,
	})
	return c.err
}

func (c *lifecycleContext) iCreateAnItemWithoutAPrice(name, category string) error {
	c.create(command.CreateItemCommand{
		ProductName: name,
		Category:    category,
		Quantity:    "1",
		ExpiryDate:  c.now.Add(5 * 24 * time.Hour).Format(time.RFC3339),
	})
	return nil
}

func (c *lifecycleContext) load(name string) (*domain.InventoryItem, error) {
	item, ok := c.items[name]
	if !ok {
		return nil, fmt.Errorf("unknown item %q", name)
	}
	return c.repo.FindByID(context.Background(), item.ID)
}

func (c *lifecycleContext) itemHasStatus(name, status string) error {
	item, err := c.load(name)
	if err != nil {
		return err
	}
	if item.Status != domain.Status(status) {
		return fmt.Errorf("expected %s to be %q, got %q", name, status, item.Status)
	}
	return nil
}

func (c *lifecycleContext) itemHasDiscountedPrice(name, price string) error {
	item, err := c.load(name)
	if err != nil {
		return err
	}
	want := decimal.RequireFromString(price)
	if !item.DiscountedPrice.Valid || !item.DiscountedPrice.Decimal.Equal(want) {
		return fmt.Errorf("expected %s discounted to %s, got %v", name, price, item.DiscountedPrice)
	}
	return nil
}

func (c *lifecycleContext) itemHasNoDiscountedPrice(name string) error {
	item, err := c.load(name)
	if err != nil {
		return err
	}
	if item.DiscountedPrice.Valid {
		return fmt.Errorf("expected %s to have no discount, got %s", name, item.DiscountedPrice.Decimal)
	}
	return nil
}

func (c *lifecycleContext) state() (map[string]domain.InventoryItem, error) {
	items, err := c.repo.FindAll(context.Background())
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.InventoryItem, len(items))
	for _, item := range items {
		out[item.ID.String()] = item
	}
	return out, nil
}

func (c *lifecycleContext) iRememberTheStore() error {
	snapshot, err := c.state()
	c.snapshot = snapshot
	return err
}

func (c *lifecycleContext) theStoreMatchesWhatIRemembered() error {
	current, err := c.state()
	if err != nil {
		return err
	}
	if len(current) != len(c.snapshot) {
		return fmt.Errorf("expected %d items, got %d", len(c.snapshot), len(current))
	}
	for id, before := range c.snapshot {
		after, ok := current[id]
		if !ok {
			return fmt.Errorf("item %s disappeared", id)
		}
		if after.Status != before.Status ||
			after.DiscountedPrice.Valid != before.DiscountedPrice.Valid ||
			!after.DiscountedPrice.Decimal.Equal(before.DiscountedPrice.Decimal) ||
			!after.Price.Equal(before.Price) {
			return fmt.Errorf("item %s (%s) changed on the second sweep", id, before.ProductName)
		}
	}
	return nil
}

func (c *lifecycleContext) theLastSweepMarked(n int) error {
	if c.summary == nil {
		return errors.New("no sweep has run")
	}
	if c.summary.Marked != int64(n) {
		return fmt.Errorf("expected %d marked, got %d", n, c.summary.Marked)
	}
	return nil
}

func (c *lifecycleContext) creationFailsWith(message string) error {
	if c.err == nil {
		return errors.New("expected creation to fail")
	}
	if !domain.IsValidationError(c.err) {
		return fmt.Errorf("expected a validation error, got %v", c.err)
	}
	if !strings.Contains(c.err.Error(), message) {
		return fmt.Errorf("expected %q in %q", message, c.err.Error())
	}
	return nil
}

func (c *lifecycleContext) theStoreHolds(n int) error {
	count, err := c.repo.Count(context.Background())
	if err != nil {
		return err
	}
	if count != int64(n) {
		return fmt.Errorf("expected %d items, got %d", n, count)
	}
	return nil
}

func (c *lifecycleContext) theCategoryCountsSumToTheNumberOfItems() error {
	ctx := context.Background()
	dist, err := query.NewCategoryDistributionHandler(c.repo, cache.Noop{}).Handle(ctx, query.CategoryDistributionQuery{})
	if err != nil {
		return err
	}
	items, err := query.NewListItemsHandler(c.repo).Handle(ctx, query.ListItemsQuery{})
	if err != nil {
		return err
	}

	var sum int64
	for _, row := range dist {
		sum += row.Count
	}
	if sum != int64(len(items)) {
		return fmt.Errorf("category counts sum to %d, store holds %d", sum, len(items))
	}
	return nil
}

func initializeScenario(t testing.TB) func(*godog.ScenarioContext) {
	return func(ctx *godog.ScenarioContext) {
		lc := &lifecycleContext{t: t}

		ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
			lc.reset()
			return ctx, nil
		})

		// Given steps
		ctx.Step(`^the clock reads "([^"]*)"$`, lc.theClockReads)
		ctx.Step(`^an "([^"]*)" item "([^"]*)" in "([^"]*)" priced "([^"]*)" expiring in (-?\d+) days$`, lc.anItemExpiringIn)

		// When steps
		ctx.Step(`^the sweep runs$`, lc.theSweepRuns)
		ctx.Step(`^I donate item "([^"]*)"$`, lc.iDonateItem)
		ctx.Step(`^I remember the store$`, lc.iRememberTheStore)
		ctx.Step(`^I create an item "([^"]*)" in "([^"]*)" priced "([^"]*)" with status "([^"]*)"$`, lc.iCreateAnItemWithStatus)
		ctx.Step(`^I create an item "([^"]*)" in "([^"]*)" without a price$`, lc.iCreateAnItemWithoutAPrice)

		// Then steps
		ctx.Step(`^item "([^"]*)" has status "([^"]*)"$`, lc.itemHasStatus)
		ctx.Step(`^item "([^"]*)" has discounted price "([^"]*)"$`, lc.itemHasDiscountedPrice)
		ctx.Step(`^item "([^"]*)" has no discounted price$`, lc.itemHasNoDiscountedPrice)
		ctx.Step(`^the store matches what I remembered$`, lc.theStoreMatchesWhatIRemembered)
		ctx.Step(`^the last sweep marked (\d+) items$`, lc.theLastSweepMarked)
		ctx.Step(`^creation fails with "([^"]*)"$`, lc.creationFailsWith)
		ctx.Step(`^the store holds (\d+) items$`, lc.theStoreHolds)
		ctx.Step(`^the category counts sum to the number of items$`, lc.theCategoryCountsSumToTheNumberOfItems)
	}
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeScenario(t),
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"lifecycle.feature"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
