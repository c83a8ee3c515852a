// services/shop.go
package services

import (
	"sort"
	"strings"

	"github.com/alphabatem/common/context"
	"github.com/guessworks/hangbot_api/model"
	"github.com/guessworks/hangbot_api/shared"
	log "github.com/sirupsen/logrus"
)

// ShopService owns the cosmetic catalog and the purchase flow. The debit
// and the ownership grant are separate record mutations, so a crash or
// storage failure between them can leave a debited player without the
// item. That window is surfaced as a storage failure and logged loudly
// rather than hidden.
type ShopService struct {
	context.DefaultService

	storageSvc *StorageService
	ledgerSvc  *LedgerService

	backend Backend
}

const SHOP_SVC = "shop_svc"

func (svc ShopService) Id() string {
	return SHOP_SVC
}

func (svc *ShopService) Start() error {
	svc.storageSvc = svc.Service(STORAGE_SVC).(*StorageService)
	svc.ledgerSvc = svc.Service(LEDGER_SVC).(*LedgerService)
	svc.backend = svc.storageSvc.Backend()

	inserted, err := svc.backend.SeedShopItems(model.DefaultCatalog())
	if err != nil {
		return err
	}
	if inserted > 0 {
		log.WithField("items", inserted).Info("Seeded shop catalog")
	}

	return nil
}

// ListAvailable returns purchasable items, cheapest first.
func (svc *ShopService) ListAvailable() ([]model.ShopItem, error) {
	items, err := svc.backend.ListShopItems(func(item *model.ShopItem) bool {
		return item.Available
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Cost < items[j].Cost
	})
	return items, nil
}

// ResolveItem finds an item by exact id, exact name, then unique name
// substring, case-insensitively. An ambiguous query is rejected rather
// than resolved to an arbitrary match.
func (svc *ShopService) ResolveItem(query string) (*model.ShopItem, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, shared.NewValidationError("Which item?")
	}

	items, err := svc.backend.ListShopItems(nil)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if strings.ToLower(items[i].ID) == query {
			return &items[i], nil
		}
	}
	for i := range items {
		if strings.ToLower(items[i].Name) == query {
			return &items[i], nil
		}
	}

	var matches []*model.ShopItem
	for i := range items {
		if strings.Contains(strings.ToLower(items[i].Name), query) {
			matches = append(matches, &items[i])
		}
	}
	switch len(matches) {
	case 0:
		return nil, shared.NewNotFoundError("No shop item matches \"" + query + "\"")
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return nil, shared.NewValidationError("Did you mean: " + strings.Join(names, ", ") + "?")
	}
}

// Purchase resolves the item, debits the weekly balance and grants
// ownership, in that order.
func (svc *ShopService) Purchase(userID, username, itemQuery string) (*model.ShopItem, *model.Player, error) {
	player, err := svc.backend.GetOrCreatePlayer(userID, username)
	if err != nil {
		return nil, nil, err
	}

	item, err := svc.ResolveItem(itemQuery)
	if err != nil {
		return nil, nil, err
	}
	if !item.Available {
		return nil, nil, shared.NewNotFoundError("That item is not for sale")
	}
	if player.Owns(item.ID) {
		return nil, nil, shared.NewAlreadyOwnedError("You already own " + item.Name)
	}

	player, err = svc.ledgerSvc.Spend(userID, item.Cost)
	if err != nil {
		return nil, nil, err
	}

	player, err = svc.ledgerSvc.GrantOwnership(userID, item.ID)
	if err != nil {
		// The debit landed but the grant did not. The balance is short by
		// the item's cost until an operator reconciles it.
		log.WithError(err).WithFields(log.Fields{
			"user": userID,
			"item": item.ID,
			"cost": item.Cost,
		}).Error("Purchase debited but ownership grant failed")
		return nil, nil, shared.NewStorageError(err, "Purchase failed after payment, contact an admin")
	}

	if err := svc.backend.RecordShopPurchase(item.ID); err != nil {
		// Popularity counters are advisory, the purchase itself stands.
		log.WithError(err).WithField("item", item.ID).Warn("Failed to bump purchase counter")
	}

	purchasesTotal.Inc()
	log.WithFields(log.Fields{
		"user": userID,
		"item": item.ID,
		"cost": item.Cost,
	}).Info("Item purchased")

	return item, player, nil
}
