package economy

import (
	"context"

	"critter-clash/server/logging"
)

const (
	// EventCurrencyAwarded is emitted when a battle pays out.
	EventCurrencyAwarded logging.EventType = "economy.currency_awarded"
	// EventUpgradePurchased is emitted after a successful purchase.
	EventUpgradePurchased logging.EventType = "economy.upgrade_purchased"
	// EventPurchaseRejected is emitted when a purchase attempt fails.
	EventPurchaseRejected logging.EventType = "economy.purchase_rejected"
)

// CurrencyAwardedPayload describes a payout.
type CurrencyAwardedPayload struct {
	Amount  int    `json:"amount"`
	Balance int    `json:"balance"`
	Reason  string `json:"reason"`
}

// UpgradePurchasedPayload describes a completed purchase.
type UpgradePurchasedPayload struct {
	UpgradeID string `json:"upgradeId"`
	Level     int    `json:"level"`
	Cost      int    `json:"cost"`
	Balance   int    `json:"balance"`
}

// PurchaseRejectedPayload describes why a purchase failed.
type PurchaseRejectedPayload struct {
	UpgradeID string `json:"upgradeId"`
	Reason    string `json:"reason"`
	Cost      int    `json:"cost,omitempty"`
	Balance   int    `json:"balance"`
}

// CurrencyAwarded publishes a payout event.
func CurrencyAwarded(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload CurrencyAwardedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCurrencyAwarded,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
		Extra:    extra,
	})
}

// UpgradePurchased publishes a purchase event.
func UpgradePurchased(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload UpgradePurchasedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventUpgradePurchased,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
		Extra:    extra,
	})
}

// PurchaseRejected publishes a failed purchase.
func PurchaseRejected(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload PurchaseRejectedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPurchaseRejected,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryEconomy,
		Payload:  payload,
		Extra:    extra,
	})
}
