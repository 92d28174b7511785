package paymentControllers

import (
	"log"

	"gorm.io/gorm"

	orderControllers "github.com/EyobAbdella/EasyShop/controllers/order"
	"github.com/EyobAbdella/EasyShop/models"
)

// markPaid flips the order to paid exactly once. The conditional update is
// what makes duplicate webhook deliveries race-free: whichever delivery lands
// first applies the transition, every later one matches zero rows.
func markPaid(db *gorm.DB, orderID string, method models.PaymentMethod) (bool, error) {
	result := db.Model(&models.Order{}).
		Where("id = ? AND is_paid = ?", orderID, false).
		Updates(map[string]interface{}{"is_paid": true, "payment_method": method})
	return result.RowsAffected > 0, result.Error
}

// confirmOrderPaid looks the order up, applies the paid transition and
// broadcasts the event on first application. A missing order surfaces as
// gorm.ErrRecordNotFound so the handler can report the integrity anomaly.
func confirmOrderPaid(db *gorm.DB, orderID string, method models.PaymentMethod) (bool, error) {
	var order models.Order
	if err := db.First(&order, "id = ?", orderID).Error; err != nil {
		return false, err
	}

	applied, err := markPaid(db, orderID, method)
	if err != nil || !applied {
		return applied, err
	}

	if err := db.Preload("Customer").Preload("Items.Product.Category").
		First(&order, "id = ?", orderID).Error; err != nil {
		log.Printf("order %s marked paid but reload for broadcast failed: %v", orderID, err)
		return true, nil
	}
	orderControllers.BroadcastOrderEvent("order.paid", orderControllers.BuildOrderView(order))
	return true, nil
}
