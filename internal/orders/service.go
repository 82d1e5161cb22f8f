package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/volcantech/elitevinewoodrs-sub000/internal/audit"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db/models"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/enums"
	pkgerrors "github.com/volcantech/elitevinewoodrs-sub000/pkg/errors"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/pagination"
)

// Service defines storefront checkout and back-office order operations.
type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*models.Order, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Deliver(ctx context.Context, actor audit.Actor, id uuid.UUID) (*models.Order, error)
	Cancel(ctx context.Context, actor audit.Actor, id uuid.UUID, reason string) (*models.Order, error)
	Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error
}

type service struct {
	repo     Repository
	vehicles VehicleCatalog
	bans     BanChecker
	tx       TxRunner
	audit    audit.Service
	notifier Notifier
}

// NewService wires order dependencies. The notifier may be nil when webhook
// egress is not configured.
func NewService(repo Repository, vehicles VehicleCatalog, bans BanChecker, tx TxRunner, auditSvc audit.Service, notifier Notifier) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders repository required")
	}
	if vehicles == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "vehicle catalog required")
	}
	if bans == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "ban checker required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if auditSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "audit service required")
	}
	return &service{repo: repo, vehicles: vehicles, bans: bans, tx: tx, audit: auditSvc, notifier: notifier}, nil
}

// Checkout validates the submission, snapshots cart lines from the catalog and
// inserts the order. The pending-order check runs in the same transaction as
// the insert so two near-simultaneous checkouts cannot both pass it.
func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*models.Order, error) {
	if err := ValidateCheckout(input); err != nil {
		return nil, err
	}

	banned, err := s.bans.IsBanned(ctx, input.UniqueID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "ban lookup")
	}
	if banned {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "🚫 Vous êtes banni et ne pouvez pas passer de commande")
	}

	items, total, err := s.snapshotItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UniqueID:   input.UniqueID,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Phone:      input.Phone,
		Status:     enums.OrderStatusPending,
		TotalPrice: total,
		ClientIP:   input.ClientIP,
		Items:      items,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		pending, err := repo.HasPendingForUniqueID(ctx, input.UniqueID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "pending order lookup")
		}
		if pending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "🚫 Vous avez déjà une commande en attente")
		}
		created, err := repo.Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert order")
		}
		order = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.OrderCreated(order)
	}
	return order, nil
}

// snapshotItems resolves each cart line against the catalog and freezes name,
// category, particularity and unit price on the line item.
func (s *service) snapshotItems(ctx context.Context, lines []CheckoutItemInput) ([]models.OrderItem, decimal.Decimal, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.VehicleID]; ok {
			continue
		}
		seen[line.VehicleID] = struct{}{}
		ids = append(ids, line.VehicleID)
	}

	vehicles, err := s.vehicles.FindByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart vehicles")
	}
	byID := make(map[uuid.UUID]models.Vehicle, len(vehicles))
	for _, vehicle := range vehicles {
		byID[vehicle.ID] = vehicle
	}

	items := make([]models.OrderItem, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		vehicle, ok := byID[line.VehicleID]
		if !ok {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "🚫 Un véhicule de votre panier n'est plus disponible").WithDetails(map[string]any{
				"vehicle_id": line.VehicleID,
			})
		}
		vehicleID := vehicle.ID
		items = append(items, models.OrderItem{
			VehicleID:     &vehicleID,
			Name:          vehicle.Name,
			Category:      vehicle.Category,
			UnitPrice:     vehicle.Price,
			Quantity:      line.Quantity,
			Particularity: vehicle.Particularity,
		})
		total = total.Add(vehicle.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return items, total, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Status != nil && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("statut de commande inconnu: %s", *params.Status))
	}

	query := listOrdersParams{
		Limit:    params.Limit,
		Status:   params.Status,
		UniqueID: params.UniqueID,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	result := &ListResult{Items: rows}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "🚫 Commande introuvable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

// Deliver marks a pending order delivered, recording who validated it.
func (s *service) Deliver(ctx context.Context, actor audit.Actor, id uuid.UUID) (*models.Order, error) {
	now := time.Now().UTC()
	order, err := s.transition(ctx, id, enums.OrderStatusDelivered, map[string]any{
		"status":         enums.OrderStatusDelivered,
		"validator_name": actor.Username,
		"validated_at":   now,
	})
	if err != nil {
		return nil, err
	}

	s.audit.LogChange(ctx, audit.Entry{
		Actor:        actor,
		Action:       enums.AuditActionValidate,
		ResourceType: "commande",
		ResourceName: orderLabel(order),
		Description:  fmt.Sprintf("Validation de la commande de %s", orderLabel(order)),
		Changes: models.Diff{
			"Articles": {Old: nil, New: itemsSnapshot(order)},
		},
	})
	return order, nil
}

// Cancel marks a pending order cancelled. A non-empty reason is mandatory and
// stored verbatim.
func (s *service) Cancel(ctx context.Context, actor audit.Actor, id uuid.UUID, reason string) (*models.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "🚫 Une raison d'annulation est requise")
	}

	now := time.Now().UTC()
	order, err := s.transition(ctx, id, enums.OrderStatusCancelled, map[string]any{
		"status":         enums.OrderStatusCancelled,
		"validator_name": actor.Username,
		"validated_at":   now,
		"cancel_reason":  reason,
	})
	if err != nil {
		return nil, err
	}

	changes := models.Diff{
		"Raison":   {Old: nil, New: reason},
		"Articles": {Old: nil, New: itemsSnapshot(order)},
	}
	s.audit.LogChange(ctx, audit.Entry{
		Actor:        actor,
		Action:       enums.AuditActionCancel,
		ResourceType: "commande",
		ResourceName: orderLabel(order),
		Description:  fmt.Sprintf("Annulation de la commande de %s", orderLabel(order)),
		Changes:      changes,
	})
	return order, nil
}

// transition applies a guarded status change inside one transaction so the
// status read and the update cannot interleave with another admin's action.
func (s *service) transition(ctx context.Context, id uuid.UUID, to enums.OrderStatus, updates map[string]any) (*models.Order, error) {
	var order *models.Order
	previous := enums.OrderStatusPending
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "🚫 Commande introuvable")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}
		if err := GuardTransition(current.Status, to); err != nil {
			return err
		}
		previous = current.Status
		if err := repo.Update(ctx, id, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
		}
		updated, err := repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload order")
		}
		order = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.OrderStatusChanged(order, previous)
	}
	return order, nil
}

func (s *service) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete order")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "🚫 Commande introuvable")
	}

	s.audit.LogChange(ctx, audit.Entry{
		Actor:        actor,
		Action:       enums.AuditActionDelete,
		ResourceType: "commande",
		ResourceName: orderLabel(order),
		Description:  fmt.Sprintf("Suppression de la commande de %s", orderLabel(order)),
	})
	return nil
}

func orderLabel(order *models.Order) string {
	return fmt.Sprintf("%s %s", order.FirstName, order.LastName)
}

// itemsSnapshot copies the ordered lines into the audit entry so the ledger
// keeps what was bought even after the order row is deleted.
func itemsSnapshot(order *models.Order) []map[string]any {
	snapshot := make([]map[string]any, 0, len(order.Items))
	for _, item := range order.Items {
		snapshot = append(snapshot, map[string]any{
			"vehicule":      item.Name,
			"categorie":     item.Category,
			"quantite":      item.Quantity,
			"prix_unitaire": item.UnitPrice.String(),
		})
	}
	return snapshot
}
