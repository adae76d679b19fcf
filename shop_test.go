package server

import (
	"testing"

	"critter-clash/server/internal/net/proto"
	"critter-clash/server/internal/shop"
	economylog "critter-clash/server/logging/economy"
)

func TestCatalogListsOffersWithBalance(t *testing.T) {
	h := newTestHub(t, nil)
	id, box := h.join(t)

	h.send(id, proto.TypeGetShopCatalog, nil)

	env, ok := box.last(proto.TypeShopCatalog)
	if !ok {
		t.Fatalf("expected a catalog")
	}
	catalog := env.Payload.(proto.ShopCatalog)
	if catalog.Currency != 0 || len(catalog.Items) != 3 {
		t.Fatalf("unexpected catalog %+v", catalog)
	}
	for _, item := range catalog.Items {
		if item.Affordable {
			t.Fatalf("nothing should be affordable with no coins: %+v", item)
		}
	}
}

func TestBuyUpgradeRetrainsParty(t *testing.T) {
	h := newTestHub(t, nil)
	id, box := h.join(t)
	s := h.session(t, id)
	h.mu.Lock()
	s.Currency = 120
	before := s.Party[0]
	h.mu.Unlock()
	box.reset()

	h.send(id, proto.TypeBuyUpgrade, map[string]string{"upgradeId": shop.UpgradeHPPlus})

	if s.Currency != 20 || s.Upgrades.Level(shop.UpgradeHPPlus) != 1 || s.Upgrades.BonusHP != 10 {
		t.Fatalf("unexpected session after purchase: coins %d upgrades %+v", s.Currency, s.Upgrades)
	}
	if s.Party[0] == before || len(s.Party) != 3 {
		t.Fatalf("expected a regenerated party")
	}
	if box.count(proto.TypePlayerStateUpdated) != 1 || box.count(proto.TypeShopCatalog) != 1 {
		t.Fatalf("expected player state and catalog refresh")
	}
	if len(h.sink.OfType(economylog.EventUpgradePurchased)) != 1 {
		t.Fatalf("expected a purchase event")
	}

	h.send(id, proto.TypeBuyUpgrade, map[string]string{"upgradeId": shop.UpgradeHPPlus})
	if s.Currency != 20 || len(h.sink.OfType(economylog.EventPurchaseRejected)) != 1 {
		t.Fatalf("expected the unaffordable purchase to be rejected")
	}
}

func TestBuyUpgradeRequiresHub(t *testing.T) {
	h := newTestHub(t, nil)
	id, _ := h.join(t)
	s := h.session(t, id)
	h.mu.Lock()
	s.Currency = 500
	h.mu.Unlock()
	h.send(id, proto.TypeRequestQueueEntry, nil)

	h.send(id, proto.TypeBuyUpgrade, map[string]string{"upgradeId": shop.UpgradeAttackPlus})

	if s.Currency != 500 {
		t.Fatalf("queued sessions must not buy, balance %d", s.Currency)
	}
	events := h.sink.OfType(economylog.EventPurchaseRejected)
	if len(events) != 1 {
		t.Fatalf("expected one rejected purchase, got %d", len(events))
	}
}

func TestHealPartyOnlyInHub(t *testing.T) {
	h := newTestHub(t, nil)
	a, boxA := h.join(t)
	b, _ := h.join(t)
	sa := h.session(t, a)
	sa.Party[1].ApplyDamage(7)

	h.send(a, proto.TypeHealParty, nil)
	if sa.Party[1].CurrentHP != sa.Party[1].MaxHP {
		t.Fatalf("expected heal in the hub")
	}
	if boxA.count(proto.TypeCombatLogLine) != 1 {
		t.Fatalf("expected a heal confirmation")
	}

	h.send(a, proto.TypeRequestQueueEntry, nil)
	h.send(b, proto.TypeRequestQueueEntry, nil)
	sa.Party[1].ApplyDamage(7)
	rejected := h.Counters().Snapshot().Rejected

	h.send(a, proto.TypeHealParty, nil)
	if sa.Party[1].CurrentHP == sa.Party[1].MaxHP {
		t.Fatalf("heal must be refused during a battle")
	}
	if h.Counters().Snapshot().Rejected != rejected+1 {
		t.Fatalf("expected the heal to be counted as rejected")
	}
}
