package orders

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/piwi3910/BoxPack/internal/logging"
	"github.com/piwi3910/BoxPack/internal/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// orderRecord is the database row for an order. Items and box info are
// stored as JSON columns.
type orderRecord struct {
	ID            string            `gorm:"type:varchar(64);primaryKey"`
	Customer      string            `gorm:"type:varchar(255);not null"`
	CustomerImage string            `gorm:"type:varchar(1024)"`
	Type          string            `gorm:"type:varchar(32)"`
	Status        string            `gorm:"type:varchar(16);index;not null"`
	PaymentMethod string            `gorm:"type:varchar(64)"`
	Address       string            `gorm:"type:text"`
	Date          time.Time         `gorm:"index;not null"`
	Total         decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	Items         []model.OrderItem `gorm:"serializer:json"`
	BoxInfo       model.BoxInfo     `gorm:"serializer:json"`
}

// TableName returns the table name for GORM.
func (orderRecord) TableName() string {
	return "orders"
}

// ToDomain converts the row to a domain order.
func (r orderRecord) ToDomain() model.Order {
	return model.Order{
		ID:            r.ID,
		Customer:      r.Customer,
		CustomerImage: r.CustomerImage,
		Type:          r.Type,
		Status:        model.OrderStatus(r.Status),
		PaymentMethod: r.PaymentMethod,
		Address:       r.Address,
		Date:          r.Date.UTC(),
		Total:         r.Total,
		Items:         r.Items,
		BoxInfo:       r.BoxInfo,
	}
}

func fromDomain(o model.Order) orderRecord {
	return orderRecord{
		ID:            o.ID,
		Customer:      o.Customer,
		CustomerImage: o.CustomerImage,
		Type:          o.Type,
		Status:        string(o.Status),
		PaymentMethod: o.PaymentMethod,
		Address:       o.Address,
		Date:          o.Date.UTC(),
		Total:         o.Total,
		Items:         o.Items,
		BoxInfo:       o.BoxInfo,
	}
}

// OpenSQLite opens (or creates) a SQLite database at path. ":memory:" gives
// a private in-memory database.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	// ":memory:" databases are per connection.
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// SQLStore is the GORM-backed order store.
type SQLStore struct {
	db  *gorm.DB
	hub *hub
	log *zap.Logger

	// mu orders mutations with their published snapshots.
	mu sync.Mutex
}

// NewSQLStore migrates the orders table and returns a store on db.
func NewSQLStore(db *gorm.DB, log *zap.Logger) (*SQLStore, error) {
	if err := db.AutoMigrate(&orderRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate orders table: %w", err)
	}
	return &SQLStore{
		db:  db,
		hub: newHub(),
		log: logging.OrNop(log).Named("orders.sql"),
	}, nil
}

func (s *SQLStore) Create(ctx context.Context, order model.Order) error {
	if order.ID == "" {
		return fmt.Errorf("create order: empty id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := fromDomain(order)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to create order %s: %w", order.ID, err)
	}
	s.publish(ctx)
	return nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (model.Order, error) {
	var rec orderRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Order{}, fmt.Errorf("get order %s: %w", id, ErrNotFound)
		}
		return model.Order{}, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return rec.ToDomain(), nil
}

func (s *SQLStore) List(ctx context.Context) ([]model.Order, error) {
	var recs []orderRecord
	if err := s.db.WithContext(ctx).Order("date DESC").Order("id ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	out := make([]model.Order, len(recs))
	for i, r := range recs {
		out[i] = r.ToDomain()
	}
	return out, nil
}

func (s *SQLStore) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", id).Update("status", string(status))
	if res.Error != nil {
		return fmt.Errorf("failed to update order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update order %s: %w", id, ErrNotFound)
	}
	s.publish(ctx)
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.db.WithContext(ctx).Delete(&orderRecord{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete order %s: %w", id, ErrNotFound)
	}
	s.publish(ctx)
	return nil
}

func (s *SQLStore) Subscribe(ctx context.Context) (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.hub.subscribe(ctx, list), nil
}

// Close ends all open subscriptions and closes the database.
func (s *SQLStore) Close() error {
	s.hub.closeAll()
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// publish sends the current list to subscribers. A failed read is logged and
// skipped; the next mutation publishes again.
func (s *SQLStore) publish(ctx context.Context) {
	list, err := s.List(context.WithoutCancel(ctx))
	if err != nil {
		s.log.Warn("failed to refresh order snapshot", zap.Error(err))
		return
	}
	s.hub.publish(list)
}
