package repository

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/hotel-stock-service/internal/model"
	"github.com/fekuna/hotel-stock-service/internal/pkg/database"
	"github.com/jmoiron/sqlx"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSQLRepository_UpsertAndFind(t *testing.T) {
	repo := NewSQLRepository(newTestDB(t))
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	it := &model.Item{
		BaseModel:      model.BaseModel{CreatedAt: created, UpdatedAt: created},
		ItemCode:       "TWL-01",
		Kind:           model.KindLinen,
		ItemName:       "Bath Towel",
		OpeningBalance: 20,
	}
	if err := repo.Upsert(ctx, it); err != nil {
		t.Fatalf("Upsert error = %v", err)
	}

	it.ItemName = "Bath Towel Large"
	it.UpdatedAt = created.Add(time.Hour)
	if err := repo.Upsert(ctx, it); err != nil {
		t.Fatalf("second Upsert error = %v", err)
	}

	got, err := repo.FindByCode(ctx, "TWL-01")
	if err != nil {
		t.Fatalf("FindByCode error = %v", err)
	}
	if got == nil || got.ItemName != "Bath Towel Large" || got.OpeningBalance != 20 || got.Kind != model.KindLinen {
		t.Fatalf("FindByCode = %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}

	missing, err := repo.FindByCode(ctx, "twl-01")
	if err != nil || missing != nil {
		t.Errorf("FindByCode(twl-01) = %+v, %v; want nil, nil", missing, err)
	}
}

func TestSQLRepository_ListAndDelete(t *testing.T) {
	repo := NewSQLRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	for _, it := range []model.Item{
		{ItemCode: "TWL-01", Kind: model.KindLinen, ItemName: "Bath Towel"},
		{ItemCode: "SOAP-01", Kind: model.KindConsumable, ItemName: "Soap", Category: "Amenities"},
		{ItemCode: "SHT-01", Kind: model.KindLinen, ItemName: "Sheet"},
	} {
		it.CreatedAt, it.UpdatedAt = now, now
		if err := repo.Upsert(ctx, &it); err != nil {
			t.Fatalf("Upsert(%s) error = %v", it.ItemCode, err)
		}
	}

	all, err := repo.List(ctx, "")
	if err != nil {
		t.Fatalf("List error = %v", err)
	}
	if len(all) != 3 || all[0].ItemCode != "SHT-01" || all[2].ItemCode != "TWL-01" {
		t.Errorf("List = %+v, want 3 items ordered by code", all)
	}

	linen, _ := repo.List(ctx, model.KindLinen)
	if len(linen) != 2 {
		t.Errorf("List(linen) = %d items, want 2", len(linen))
	}

	if err := repo.Delete(ctx, "SOAP-01"); err != nil {
		t.Fatalf("Delete error = %v", err)
	}
	if got, _ := repo.FindByCode(ctx, "SOAP-01"); got != nil {
		t.Error("item still present after Delete")
	}
}
