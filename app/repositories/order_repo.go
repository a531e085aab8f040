package repositories

import (
	"errors"
	"time"

	"github.com/shashiranjanraj/shirtshop/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepo interface {
	// FindPending returns the user's pending order, or nil.
	FindPending(userID uint) (*models.Order, error)
	// LockPending is FindPending under a row lock.
	LockPending(userID uint) (*models.Order, error)
	Create(o *models.Order) error
	// UpsertItem inserts the line or, when (order, product, size) already
	// exists, increments its quantity by one. Price is kept from the first
	// insert.
	UpsertItem(it *models.OrderItem) error
	// Items returns an order's lines with their products, deleted ones
	// included.
	Items(orderID uint) ([]models.OrderItem, error)
	CountItems(orderID uint) (int64, error)
	// DeletePendingItem removes itemID only when it belongs to the user's
	// pending order. Reports whether a row was deleted.
	DeletePendingItem(userID, itemID uint) (bool, error)
	// LockByID returns the order under a row lock, or nil.
	LockByID(id uint) (*models.Order, error)
	SaveStatus(o *models.Order) error
	// FindWithItems loads one order with lines and owner.
	FindWithItems(id uint) (*models.Order, error)
	// History lists the user's placed orders, newest first.
	History(userID uint) ([]models.Order, error)
	// Placed lists every placed order with its owner, newest first.
	Placed() ([]models.Order, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) OrderRepo { return &orderRepo{db: db} }

func first(q *gorm.DB, dest *models.Order) (*models.Order, error) {
	err := q.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return dest, nil
}

func (r *orderRepo) FindPending(userID uint) (*models.Order, error) {
	return first(r.db.Where("user_id = ? AND status = ?", userID, models.StatusPending), &models.Order{})
}

func (r *orderRepo) LockPending(userID uint) (*models.Order, error) {
	q := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND status = ?", userID, models.StatusPending)
	return first(q, &models.Order{})
}

func (r *orderRepo) Create(o *models.Order) error {
	return r.db.Create(o).Error
}

func (r *orderRepo) UpsertItem(it *models.OrderItem) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}, {Name: "product_id"}, {Name: "size"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("order_items.quantity + ?", 1),
			"updated_at": time.Now(),
		}),
	}).Create(it).Error
}

func withProducts(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}

func itemsInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("order_items.id ASC")
}

func (r *orderRepo) Items(orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.Preload("Product", withProducts).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *orderRepo) CountItems(orderID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.OrderItem{}).Where("order_id = ?", orderID).Count(&n).Error
	return n, err
}

func (r *orderRepo) DeletePendingItem(userID, itemID uint) (bool, error) {
	pending := r.db.Model(&models.Order{}).
		Select("id").
		Where("user_id = ? AND status = ?", userID, models.StatusPending)

	res := r.db.Where("id = ? AND order_id IN (?)", itemID, pending).Delete(&models.OrderItem{})
	return res.RowsAffected > 0, res.Error
}

func (r *orderRepo) LockByID(id uint) (*models.Order, error) {
	q := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id)
	return first(q, &models.Order{})
}

func (r *orderRepo) SaveStatus(o *models.Order) error {
	return r.db.Model(o).Select("status", "tracking_number", "updated_at").Updates(o).Error
}

func (r *orderRepo) FindWithItems(id uint) (*models.Order, error) {
	q := r.db.Preload("User").
		Preload("Items", itemsInOrder).
		Preload("Items.Product", withProducts).
		Where("id = ?", id)
	return first(q, &models.Order{})
}

func (r *orderRepo) placed() *gorm.DB {
	return r.db.Preload("Items", itemsInOrder).
		Preload("Items.Product", withProducts).
		Where("status <> ?", models.StatusPending).
		Order("created_at DESC").
		Order("id DESC")
}

func (r *orderRepo) History(userID uint) ([]models.Order, error) {
	var list []models.Order
	err := r.placed().Where("user_id = ?", userID).Find(&list).Error
	return list, err
}

func (r *orderRepo) Placed() ([]models.Order, error) {
	var list []models.Order
	err := r.placed().Preload("User").Find(&list).Error
	return list, err
}
