package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db/models"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/enums"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  unique_id TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  phone TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  total_price NUMERIC NOT NULL,
  validator_name TEXT,
  validated_at DATETIME,
  cancel_reason TEXT,
  client_ip TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  vehicle_id TEXT,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  unit_price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL,
  particularity TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, uniqueID string, status enums.OrderStatus, createdAt time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:         uuid.New(),
		UniqueID:   uniqueID,
		FirstName:  "Jean",
		LastName:   "Dupont",
		Phone:      "0601020304",
		Status:     status,
		TotalPrice: decimal.NewFromInt(100000),
		ClientIP:   "203.0.113.7",
		Items: []models.OrderItem{{
			ID:        uuid.New(),
			Name:      "Sultan RS",
			Category:  "Sportive",
			UnitPrice: decimal.NewFromInt(100000),
			Quantity:  1,
		}},
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestRepositoryCreateAndFind(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := seedOrder(t, db, "12345", enums.OrderStatusPending, time.Now().UTC())

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "12345", found.UniqueID)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Sultan RS", found.Items[0].Name)
}

func TestRepositoryHasPendingForUniqueID(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedOrder(t, db, "12345", enums.OrderStatusDelivered, time.Now().UTC())

	pending, err := repo.HasPendingForUniqueID(ctx, "12345")
	require.NoError(t, err)
	assert.False(t, pending, "terminal orders must not count as pending")

	seedOrder(t, db, "12345", enums.OrderStatusPending, time.Now().UTC())

	pending, err = repo.HasPendingForUniqueID(ctx, "12345")
	require.NoError(t, err)
	assert.True(t, pending)

	pending, err = repo.HasPendingForUniqueID(ctx, "99999")
	require.NoError(t, err)
	assert.False(t, pending)
}

func TestRepositoryDeleteCascadesItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, db, "12345", enums.OrderStatusCancelled, time.Now().UTC())

	deleted, err := repo.Delete(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	var itemCount int64
	require.NoError(t, db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error)
	assert.Zero(t, itemCount)

	deleted, err = repo.Delete(ctx, order.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "second delete must report no row")
}

func TestRepositoryListPaginatesAndFilters(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedOrder(t, db, "11111", enums.OrderStatusPending, base.Add(time.Duration(i)*time.Minute))
	}
	seedOrder(t, db, "22222", enums.OrderStatusDelivered, base.Add(time.Hour))

	rows, cursor, err := repo.List(ctx, listOrdersParams{Limit: 2})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, cursor)
	assert.True(t, rows[0].CreatedAt.After(rows[1].CreatedAt), "newest first")

	rows, next, err := repo.List(ctx, listOrdersParams{Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Nil(t, next)

	status := enums.OrderStatusDelivered
	rows, _, err = repo.List(ctx, listOrdersParams{Limit: pagination.DefaultLimit, Status: &status})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "22222", rows[0].UniqueID)
}

func TestRepositoryListPagingCoversEveryRow(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	want := map[uuid.UUID]bool{}
	for i := 0; i < 3; i++ {
		order := seedOrder(t, db, "11111", enums.OrderStatusPending, base.Add(time.Duration(i)*time.Minute))
		want[order.ID] = false
	}

	var cursor *pagination.Cursor
	for pages := 0; pages < 5; pages++ {
		rows, next, err := repo.List(ctx, listOrdersParams{Limit: 1, Cursor: cursor})
		require.NoError(t, err)
		for _, row := range rows {
			require.False(t, want[row.ID], "row returned twice across pages")
			want[row.ID] = true
		}
		if next == nil {
			break
		}
		cursor = next
	}

	for id, seen := range want {
		assert.True(t, seen, "order %s never returned by any page", id)
	}
}
