package server

import (
	"context"

	"critter-clash/server/internal/net/intake"
	"critter-clash/server/internal/net/proto"
	"critter-clash/server/internal/session"
	"critter-clash/server/logging"
	economylog "critter-clash/server/logging/economy"
)

func (h *Hub) handleShopCatalog(s *session.Session, _ intake.Command, out *outbound) {
	h.sendCatalogLocked(s, out)
}

func (h *Hub) sendCatalogLocked(s *session.Session, out *outbound) {
	out.to(s.ID, proto.TypeShopCatalog, proto.ShopCatalog{
		Items:    h.catalog.Offers(s),
		Currency: s.Currency,
	})
}

func (h *Hub) handleBuyUpgrade(s *session.Session, cmd intake.Command, out *outbound) {
	ctx := context.Background()
	receipt, ok, reason := h.catalog.Purchase(s, cmd.UpgradeID, h.rng, h.cfg.PartySize)
	if !ok {
		h.counters.IncRejected()
		economylog.PurchaseRejected(ctx, h.publisher, logging.PlayerRef(s.ID), economylog.PurchaseRejectedPayload{
			UpgradeID: cmd.UpgradeID,
			Reason:    reason,
			Cost:      receipt.Cost,
			Balance:   s.Currency,
		}, nil)
		return
	}

	economylog.UpgradePurchased(ctx, h.publisher, logging.PlayerRef(s.ID), economylog.UpgradePurchasedPayload{
		UpgradeID: receipt.Upgrade.ID,
		Level:     receipt.Level,
		Cost:      receipt.Cost,
		Balance:   receipt.Balance,
	}, nil)
	h.sendPlayerStateLocked(s, out)
	h.logLineLocked([]string{s.ID}, h.printer.Sprintf("Bought %s for %d coins! Your team has been retrained.", receipt.Upgrade.Name, receipt.Cost), out)
	h.sendCatalogLocked(s, out)
}

func (h *Hub) handleHealParty(s *session.Session, _ intake.Command, out *outbound) {
	if s.State != session.StateHub {
		h.rejectLocked(s, proto.TypeHealParty, session.RejectNotInHub)
		return
	}
	h.healLocked(s, out)
}

func (h *Hub) healLocked(s *session.Session, out *outbound) {
	s.Party.HealAll()
	h.sendPlayerStateLocked(s, out)
	h.logLineLocked([]string{s.ID}, h.printer.Sprintf("Your creatures are fully restored!"), out)
}
