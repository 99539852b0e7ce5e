package orders

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/piwi3910/BoxPack/internal/cart"
	"github.com/piwi3910/BoxPack/internal/engine"
	"github.com/piwi3910/BoxPack/internal/logging"
	"github.com/piwi3910/BoxPack/internal/model"
	"github.com/piwi3910/BoxPack/internal/predict"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidOrder is returned when a placement request fails validation.
var ErrInvalidOrder = errors.New("invalid order")

// Container sources reported by a preview.
const (
	SourceRecommendation = "recommendation"
	SourceInventory      = "inventory"
	SourceEstimated      = "estimated"
	SourceManual         = "manual"
)

// PlaceOrderRequest is a checkout of selected cart lines.
type PlaceOrderRequest struct {
	Customer      model.Customer
	PaymentMethod string      `validate:"required"`
	Address       string      `validate:"required"`
	Type          string      // Defaults to "Online"
	Lines         []cart.Line `validate:"required,min=1,dive"`
}

// Preview is the packaging preview of one order.
type Preview struct {
	OrderID         string              `json:"order_id"`
	Container       model.Container     `json:"container"`
	ContainerSource string              `json:"container_source"`
	Result          model.PackingResult `json:"result"`
	Metrics         model.Metrics       `json:"metrics"`
}

// Service places orders and computes their previews.
type Service struct {
	store       Store
	predictor   predict.Predictor
	estimator   *engine.Estimator
	invMu       sync.RWMutex
	inventory   model.BoxInventory
	reference   float64
	waveCount   int
	savings     model.SavingsTable
	concurrency int
	validate    *validator.Validate
	log         *zap.Logger
	now         func() time.Time
}

// NewService wires a service from the application config. predictor may be
// nil, in which case every order gets the fallback recommendation.
func NewService(store Store, predictor predict.Predictor, cfg model.AppConfig, inv model.BoxInventory, log *zap.Logger) *Service {
	return &Service{
		store:       store,
		predictor:   predictor,
		estimator:   engine.NewEstimator(cfg.EstimatorScale),
		inventory:   inv,
		reference:   cfg.ReferenceUtilization,
		waveCount:   cfg.WaveCount,
		savings:     cfg.SavingsTable(),
		concurrency: runtime.GOMAXPROCS(0),
		validate:    validator.New(),
		log:         logging.OrNop(log).Named("orders"),
		now:         time.Now,
	}
}

// Store returns the underlying order store.
func (s *Service) Store() Store {
	return s.store
}

// PlaceOrder validates req, estimates missing dimensions from weight, asks
// the predictor for a box and stores the order as Pending.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (model.Order, error) {
	if err := s.validate.Struct(req); err != nil {
		return model.Order{}, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}

	items := cart.ToOrderItems(req.Lines)
	for i := range items {
		if err := s.estimateDims(&items[i]); err != nil {
			return model.Order{}, fmt.Errorf("%w: line %d: %v", ErrInvalidOrder, i, err)
		}
	}

	rec, ok := predict.PredictOrFallback(ctx, s.predictor, predict.NewRequest(items), s.log)

	orderType := req.Type
	if orderType == "" {
		orderType = "Online"
	}
	order := model.Order{
		ID:            uuid.New().String(),
		Customer:      req.Customer.Name(),
		CustomerImage: req.Customer.PhotoURL,
		Type:          orderType,
		Status:        model.StatusPending,
		PaymentMethod: req.PaymentMethod,
		Address:       req.Address,
		Date:          s.now().UTC(),
		Total:         cart.Total(req.Lines).Round(2),
		Items:         items,
		BoxInfo:       rec.BoxInfo(),
	}
	if err := s.store.Create(ctx, order); err != nil {
		return model.Order{}, fmt.Errorf("failed to store order: %w", err)
	}

	s.log.Info("order placed",
		zap.String("order_id", order.ID),
		zap.Int("units", order.Units()),
		zap.String("total", order.Total.StringFixed(2)),
		zap.String("box_category", order.BoxInfo.Category),
		zap.Bool("predicted", ok),
	)
	return order, nil
}

// Checkout places an order for the lines of c selected by mask and removes
// them from the cart.
func (s *Service) Checkout(ctx context.Context, c cart.Store, mask []bool, req PlaceOrderRequest) (model.Order, error) {
	lines, err := c.List()
	if err != nil {
		return model.Order{}, fmt.Errorf("failed to read cart: %w", err)
	}
	req.Lines = cart.Select(lines, mask)
	if len(req.Lines) == 0 {
		return model.Order{}, cart.ErrEmptyCart
	}

	order, err := s.PlaceOrder(ctx, req)
	if err != nil {
		return model.Order{}, err
	}

	for i := len(lines) - 1; i >= 0; i-- {
		if i < len(mask) && mask[i] {
			if err := c.Remove(i); err != nil {
				return order, fmt.Errorf("failed to remove checked out line %d: %w", i, err)
			}
		}
	}
	return order, nil
}

// estimateDims fills missing dimensions from the item weight. A missing
// weight counts as 1.
func (s *Service) estimateDims(it *model.OrderItem) error {
	if it.Weight <= 0 {
		it.Weight = 1
	}
	d, err := s.estimator.Estimate(it.Weight, model.Dims{Width: it.Width, Height: it.Height, Depth: it.Depth})
	if err != nil {
		return err
	}
	it.Width, it.Height, it.Depth = d.Width, d.Height, d.Depth
	return nil
}

// Preview packs the order with the given id.
func (s *Service) Preview(ctx context.Context, id string) (Preview, error) {
	order, err := s.store.Get(ctx, id)
	if err != nil {
		return Preview{}, err
	}
	return s.PreviewOrder(order)
}

// PreviewOrder packs order into its recommended box, sequences the result
// into waves and computes display metrics.
func (s *Service) PreviewOrder(order model.Order) (Preview, error) {
	items := s.packItems(order)
	container, source := s.containerFor(order, items)

	result, err := engine.Pack(container, items)
	if err != nil {
		return Preview{}, fmt.Errorf("failed to pack order %s: %w", order.ID, err)
	}
	result, err = engine.Sequence(result, s.waveCount)
	if err != nil {
		return Preview{}, fmt.Errorf("failed to sequence order %s: %w", order.ID, err)
	}
	metrics, err := engine.Calculate(result, s.reference, s.savingsFor(order))
	if err != nil {
		return Preview{}, fmt.Errorf("failed to compute metrics for order %s: %w", order.ID, err)
	}

	s.log.Debug("preview computed",
		zap.String("order_id", order.ID),
		zap.String("container_source", source),
		zap.Int("placed", metrics.PlacedCount),
		zap.Int("unplaced", metrics.UnplacedCount),
		zap.Float64("utilization", metrics.RawUtilization),
	)
	return Preview{
		OrderID:         order.ID,
		Container:       container,
		ContainerSource: source,
		Result:          result,
		Metrics:         metrics,
	}, nil
}

// PreviewAll previews every stored order, running up to the configured
// number of packings at once. Results follow the store's list order.
func (s *Service) PreviewAll(ctx context.Context) ([]Preview, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	previews := make([]Preview, len(list))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, order := range list {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := s.PreviewOrder(order)
			if err != nil {
				return err
			}
			previews[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return previews, nil
}

// PackSpecs estimates, packs and sequences ad-hoc item specs into c, outside
// of any stored order.
func (s *Service) PackSpecs(c model.Container, specs []model.ItemSpec) (Preview, error) {
	items, err := s.EstimateSpecs(specs)
	if err != nil {
		return Preview{}, err
	}
	result, err := engine.Pack(c, items)
	if err != nil {
		return Preview{}, fmt.Errorf("failed to pack items: %w", err)
	}
	return s.Finish(result)
}

// EstimateSpecs expands specs into packable items with the configured
// estimator.
func (s *Service) EstimateSpecs(specs []model.ItemSpec) ([]model.Item, error) {
	items, err := s.estimator.ExpandSpecs(specs)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate items: %w", err)
	}
	return items, nil
}

// Finish sequences an already packed result into waves and computes its
// metrics with the configured savings table.
func (s *Service) Finish(result model.PackingResult) (Preview, error) {
	result, err := engine.Sequence(result, s.waveCount)
	if err != nil {
		return Preview{}, fmt.Errorf("failed to sequence items: %w", err)
	}
	metrics, err := engine.Calculate(result, s.reference, s.savings)
	if err != nil {
		return Preview{}, fmt.Errorf("failed to compute metrics: %w", err)
	}
	return Preview{
		Container:       result.Container,
		ContainerSource: SourceManual,
		Result:          result,
		Metrics:         metrics,
	}, nil
}

// Inventory returns a copy of the box inventory used for container lookup.
func (s *Service) Inventory() model.BoxInventory {
	s.invMu.RLock()
	defer s.invMu.RUnlock()
	return model.BoxInventory{Boxes: append([]model.BoxPreset(nil), s.inventory.Boxes...)}
}

// SetInventory replaces the box inventory.
func (s *Service) SetInventory(inv model.BoxInventory) {
	s.invMu.Lock()
	defer s.invMu.Unlock()
	s.inventory = model.BoxInventory{Boxes: append([]model.BoxPreset(nil), inv.Boxes...)}
}

// SetConcurrency bounds PreviewAll. Values below one mean one.
func (s *Service) SetConcurrency(n int) {
	if n < 1 {
		n = 1
	}
	s.concurrency = n
}

// packItems expands order lines into one packing item per unit.
func (s *Service) packItems(order model.Order) []model.Item {
	var items []model.Item
	for i, oi := range order.Items {
		d := model.Dims{Width: oi.Width, Height: oi.Height, Depth: oi.Depth}
		if !d.Valid() {
			if est, err := s.estimator.Estimate(oi.Weight, d); err == nil {
				d = est
			}
		}
		for k := 0; k < oi.Units(); k++ {
			items = append(items, model.Item{
				ID:       fmt.Sprintf("%d-%d", i, k),
				Label:    oi.Name,
				Category: oi.Category,
				Width:    d.Width,
				Height:   d.Height,
				Depth:    d.Depth,
				Weight:   oi.Weight,
				Shape:    oi.Shape,
			})
		}
	}
	return items
}

// containerFor picks, in order: the recommended box, an inventory preset named
// after the box category, the smallest inventory preset, and a cube sized from
// the item volume. Boxes that cannot take the largest item on its own are
// skipped, and the cube is never smaller than that item.
func (s *Service) containerFor(order model.Order, items []model.Item) (model.Container, string) {
	label := order.BoxInfo.Category
	if label == "" {
		label = predict.FallbackCategory
	}
	inv := s.Inventory()
	largest := model.LargestBounds(items)

	if d, err := predict.ParseBoxDimensions(order.BoxInfo.Dimensions); err == nil {
		c := model.NewContainer(label, d.Width, d.Height, d.Depth)
		if preset := inv.FindByName(label); preset != nil {
			c.MaxWeight = preset.MaxWeight
		}
		if c.Holds(largest) {
			return c, SourceRecommendation
		}
		s.log.Debug("recommended box too small for largest item",
			zap.String("order_id", order.ID),
			zap.String("box", order.BoxInfo.Dimensions),
		)
	}
	if preset := inv.FindByName(label); preset != nil && preset.ToContainer().Holds(largest) {
		return preset.ToContainer(), SourceInventory
	}
	if preset := inv.SmallestFitting(largest); preset != nil {
		return preset.ToContainer(), SourceInventory
	}
	side := predict.CubeSide(predict.NewRequest(order.Items).Items)
	side = math.Max(side, math.Max(largest.Width, math.Max(largest.Height, largest.Depth)))
	return model.NewContainer(label, side, side, side), SourceEstimated
}

// savingsFor spreads the recommendation's order-level impact evenly over the
// order's units. Orders without a reported impact use the configured table.
func (s *Service) savingsFor(order model.Order) model.SavingsTable {
	impact := order.BoxInfo.Impact
	units := order.Units()
	if units == 0 || (impact.CO2SavedKg <= 0 && impact.PlasticSavedKg <= 0) {
		return s.savings
	}
	rate := s.savings.Lookup("")
	if impact.CO2SavedKg > 0 {
		rate.CO2Kg = impact.CO2SavedKg / float64(units)
	}
	if impact.PlasticSavedKg > 0 {
		rate.PlasticKg = impact.PlasticSavedKg / float64(units)
	}
	return model.SavingsTable{"": rate}
}

// ImportOrders moves the selected orders out of the store and returns their
// counters. Unknown ids are skipped.
func (s *Service) ImportOrders(ctx context.Context, ids []string) (model.ImportStats, error) {
	var stats model.ImportStats
	for _, id := range ids {
		order, err := s.store.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			s.log.Warn("skipping unknown order", zap.String("order_id", id))
			continue
		}
		if err != nil {
			return stats, err
		}
		if err := s.store.Delete(ctx, id); err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return stats, err
		}
		stats.Count(order)
	}

	s.log.Info("orders imported",
		zap.Int("total", stats.Total),
		zap.String("revenue", stats.Revenue.StringFixed(2)),
		zap.Int("paid", stats.Paid),
		zap.Int("cancelled", stats.Cancelled),
		zap.Int("pending", stats.Pending),
	)
	return stats, nil
}

// UpdateStatus changes an order's status.
func (s *Service) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error {
	if _, ok := model.ParseOrderStatus(string(status)); !ok {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidOrder, status)
	}
	return s.store.UpdateStatus(ctx, id, status)
}
