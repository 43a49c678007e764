package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"printshop_app_go/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// FirstOrderNumber is issued to the first order in an empty store
	FirstOrderNumber = 1001
	// maxNumberAttempts bounds retries when an order number is taken concurrently
	maxNumberAttempts = 5
)

// Order creators recorded in created_by
const (
	CreatedByAdmin  = "admin"
	CreatedByPublic = "public"
)

// OrderNotifier is told when an order becomes ready for pickup
type OrderNotifier interface {
	OrderReady(order models.Order)
}

// OrderService owns order numbering, the status lifecycle and order events
type OrderService struct {
	DB       *gorm.DB
	Events   Broadcaster
	Policy   TransitionPolicy
	Notifier OrderNotifier
	Now      func() time.Time
}

// NewOrderService creates an order service with free status transitions
func NewOrderService(db *gorm.DB, events Broadcaster) *OrderService {
	return &OrderService{
		DB:     db,
		Events: broadcasterOrNop(events),
		Policy: FreeTransitions{},
		Now:    time.Now,
	}
}

// OrderFilter selects orders for the board. Status wins over IncludeCompleted.
type OrderFilter struct {
	Status           string
	IncludeCompleted bool
}

// OrderView is an order decorated for display
type OrderView struct {
	models.Order
	PickupDateFormatted string `json:"pickup_date_formatted"`
	IsReadyNow          bool   `json:"is_ready_now"`
}

// OrderPatch holds the only fields a partial update may touch
type OrderPatch struct {
	Status     *string `json:"status"`
	PickupDate *string `json:"pickup_date"`
	PickupTime *string `json:"pickup_time"`
	Notes      *string `json:"notes"`
}

// OrderStats counts the active orders per status
type OrderStats struct {
	Received       int64 `json:"received"`
	Paid           int64 `json:"paid"`
	InProgress     int64 `json:"in_progress"`
	ReadyForPickup int64 `json:"ready_for_pickup"`
}

func (s *OrderService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *OrderService) policy() TransitionPolicy {
	if s.Policy == nil {
		return FreeTransitions{}
	}
	return s.Policy
}

func (s *OrderService) publish(event string, payload any) {
	broadcasterOrNop(s.Events).Broadcast(event, payload)
}

// CreateOrder validates the input, assigns the next order number and stores the order
func (s *OrderService) CreateOrder(in OrderInput, createdBy string) (*models.Order, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	status := models.StatusReceived
	if in.Status != "" {
		status = models.OrderStatus(in.Status)
	}
	if createdBy == "" {
		createdBy = CreatedByPublic
	}

	var (
		order   *models.Order
		lastErr error
	)
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		candidate := orderFromInput(in)
		candidate.Status = status
		candidate.CreatedBy = createdBy

		err := s.DB.Transaction(func(tx *gorm.DB) error {
			number, err := nextOrderNumber(tx)
			if err != nil {
				return err
			}
			candidate.OrderNumber = number
			return tx.Create(&candidate).Error
		})
		if err == nil {
			order = &candidate
			break
		}
		if !isUniqueViolation(err) {
			return nil, storageErr("create order", err)
		}
		lastErr = err
	}
	if order == nil {
		return nil, retriesExhausted("Could not assign an order number, please retry", maxNumberAttempts, lastErr)
	}

	s.publish(EventOrderCreated, map[string]interface{}{
		"orderId":     order.ID,
		"orderNumber": order.OrderNumber,
	})
	return order, nil
}

// nextOrderNumber returns max(high-water mark, highest stored number, 1000) + 1
// and advances the high-water mark so deleted numbers are never reissued
func nextOrderNumber(tx *gorm.DB) (int64, error) {
	var maxStored int64
	if err := tx.Model(&models.Order{}).Select("COALESCE(MAX(order_number), 0)").Scan(&maxStored).Error; err != nil {
		return 0, fmt.Errorf("failed to read max order number: %w", err)
	}

	var counter models.Counter
	err := tx.Where("name = ?", models.CounterOrderNumber).Take(&counter).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("failed to read order counter: %w", err)
	}

	next := int64(FirstOrderNumber - 1)
	if counter.Value > next {
		next = counter.Value
	}
	if maxStored > next {
		next = maxStored
	}
	next++

	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"value": next}),
	}).Create(&models.Counter{Name: models.CounterOrderNumber, Value: next}).Error
	if err != nil {
		return 0, fmt.Errorf("failed to advance order counter: %w", err)
	}
	return next, nil
}

func orderFromInput(in OrderInput) models.Order {
	return models.Order{
		CustomerFirstName:   in.CustomerFirstName,
		CustomerLastName:    in.CustomerLastName,
		CustomerPhone:       in.CustomerPhone,
		CustomerEmail:       in.CustomerEmail,
		CustomerAddress:     in.CustomerAddress,
		OrderDescription:    in.OrderDescription,
		SpecialInstructions: in.SpecialInstructions,
		PickupDate:          in.PickupDate,
		PickupTime:          in.PickupTime,
		Notes:               in.Notes,
		FilePath:            in.FilePath,
		FileName:            in.FileName,
		FileSize:            in.FileSize,
		Copies:              in.Copies,
		PaperSize:           in.PaperSize,
		PaperType:           in.PaperType,
		ColorMode:           in.ColorMode,
		DoubleSided:         bool(in.DoubleSided),
		BindingType:         in.BindingType,
		FinishingOptions:    in.FinishingOptions,
		RushOrder:           bool(in.RushOrder),
		PrintReady:          bool(in.PrintReady),
		EstimatedPrice:      nullDecimal(in.EstimatedPrice),
		FinalPrice:          nullDecimal(in.FinalPrice),
	}
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

// ListOrders returns decorated orders ordered by pickup date then order number
func (s *OrderService) ListOrders(filter OrderFilter) ([]OrderView, error) {
	query := s.DB.Model(&models.Order{})

	if status := strings.TrimSpace(filter.Status); status != "" {
		parsed, err := ParseStatus(status)
		if err != nil {
			return nil, err
		}
		query = query.Where("status = ?", parsed)
	} else if !filter.IncludeCompleted {
		query = query.Where("status NOT IN ?", []models.OrderStatus{models.StatusPickedUp, models.StatusAbandoned})
	}

	var orders []models.Order
	if err := query.Order("pickup_date ASC, order_number ASC").Find(&orders).Error; err != nil {
		return nil, storageErr("list orders", err)
	}

	now := s.now()
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, s.decorate(o, now))
	}
	return views, nil
}

func (s *OrderService) decorate(o models.Order, now time.Time) OrderView {
	return OrderView{
		Order:               o,
		PickupDateFormatted: FormatPickupDate(o.PickupDate),
		IsReadyNow:          o.Status == models.StatusReadyForPickup && IsBeforeDay(o.PickupDate, now),
	}
}

// GetOrder fetches one order by id
func (s *OrderService) GetOrder(id string) (*models.Order, error) {
	var order models.Order
	err := s.DB.Where("id = ?", id).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "Order"}
	}
	if err != nil {
		return nil, storageErr("get order", err)
	}
	return &order, nil
}

// PatchOrder updates status, pickup date, pickup time and notes only.
// It returns the applied updates including the refreshed updated_at.
func (s *OrderService) PatchOrder(id string, patch OrderPatch) (map[string]interface{}, error) {
	updates := map[string]interface{}{}
	var newStatus models.OrderStatus

	if patch.Status != nil {
		status, err := ParseStatus(*patch.Status)
		if err != nil {
			return nil, err
		}
		newStatus = status
		updates["status"] = status
	}
	if patch.PickupDate != nil {
		date := strings.TrimSpace(*patch.PickupDate)
		if _, err := ParseDate(date); err != nil {
			return nil, Invalid("pickup_date", "Pickup date must be YYYY-MM-DD")
		}
		updates["pickup_date"] = date
	}
	if patch.PickupTime != nil {
		updates["pickup_time"] = strings.TrimSpace(*patch.PickupTime)
	}
	if patch.Notes != nil {
		updates["notes"] = SanitizeText(*patch.Notes)
	}
	if len(updates) == 0 {
		return nil, Invalid("", "No valid fields to update")
	}
	updates["updated_at"] = s.now()

	var before models.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&before).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "Order"}
			}
			return err
		}
		if newStatus != "" && !s.policy().Allow(before.Status, newStatus) {
			return Invalid("status", fmt.Sprintf("Cannot change status from %s to %s", before.Status, newStatus))
		}
		return tx.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return nil, storageErr("patch order", err)
	}

	s.publish(EventOrderUpdated, map[string]interface{}{
		"orderId": id,
		"updates": updates,
	})

	if newStatus == models.StatusReadyForPickup && before.Status != models.StatusReadyForPickup {
		after := before
		after.Status = newStatus
		if v, ok := updates["pickup_date"].(string); ok {
			after.PickupDate = v
		}
		if v, ok := updates["pickup_time"].(string); ok {
			after.PickupTime = v
		}
		s.notifyReady(after)
	}

	return updates, nil
}

// ReplaceOrder overwrites every mutable field of an order after full validation.
// Order number, creator, creation time and the attached file are kept.
func (s *OrderService) ReplaceOrder(id string, in OrderInput) (*models.Order, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var before, after models.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&before).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "Order"}
			}
			return err
		}

		after = orderFromInput(in)
		after.ID = before.ID
		after.OrderNumber = before.OrderNumber
		after.CreatedAt = before.CreatedAt
		after.CreatedBy = before.CreatedBy
		after.FilePath = before.FilePath
		after.FileName = before.FileName
		after.FileSize = before.FileSize
		after.Status = before.Status
		if in.Status != "" {
			after.Status = models.OrderStatus(in.Status)
		}
		if !s.policy().Allow(before.Status, after.Status) {
			return Invalid("status", fmt.Sprintf("Cannot change status from %s to %s", before.Status, after.Status))
		}
		after.UpdatedAt = s.now()

		return tx.Model(&models.Order{}).Where("id = ?", id).
			Select("*").Omit("id", "order_number", "created_at", "created_by").
			Updates(&after).Error
	})
	if err != nil {
		return nil, storageErr("replace order", err)
	}

	s.publish(EventOrderUpdated, map[string]interface{}{"orderId": id})

	if after.Status == models.StatusReadyForPickup && before.Status != models.StatusReadyForPickup {
		s.notifyReady(after)
	}
	return &after, nil
}

// DeleteOrder removes an order permanently. Its number is never reissued.
func (s *OrderService) DeleteOrder(id string) error {
	result := s.DB.Where("id = ?", id).Delete(&models.Order{})
	if result.Error != nil {
		return storageErr("delete order", result.Error)
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Resource: "Order"}
	}

	s.publish(EventOrderDeleted, map[string]interface{}{"orderId": id})
	return nil
}

// SummaryStats counts orders in each active status; every status is present even at zero
func (s *OrderService) SummaryStats() (*OrderStats, error) {
	var rows []struct {
		Status models.OrderStatus
		Count  int64
	}
	err := s.DB.Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Where("status IN ?", models.ActiveStatuses).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, storageErr("order stats", err)
	}

	stats := &OrderStats{}
	for _, r := range rows {
		switch r.Status {
		case models.StatusReceived:
			stats.Received = r.Count
		case models.StatusPaid:
			stats.Paid = r.Count
		case models.StatusInProgress:
			stats.InProgress = r.Count
		case models.StatusReadyForPickup:
			stats.ReadyForPickup = r.Count
		}
	}
	return stats, nil
}

// ExportOrders returns every order, newest first
func (s *OrderService) ExportOrders() ([]models.Order, error) {
	var orders []models.Order
	if err := s.DB.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, storageErr("export orders", err)
	}
	return orders, nil
}

func (s *OrderService) notifyReady(order models.Order) {
	if s.Notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[WARNING] Order ready notification panicked for order %d: %v", order.OrderNumber, r)
		}
	}()
	s.Notifier.OrderReady(order)
}
