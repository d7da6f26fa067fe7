package db

import (
	"context"
	"errors"
	"testing"

	"backbar/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), GormConfig(logger.Silent))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	if err := AutoMigrate(database); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return database
}

func TestCollectionCRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ingredients := NewCollection[models.Ingredient](newTestDB(t, "collection_crud"))

	gin := &models.Ingredient{Name: "Gin", Unit: "oz", Category: "Spirits", Aliases: []string{"Dry Gin"}}
	lime := &models.Ingredient{Name: "Lime", Unit: "each", Category: "Produce"}
	for _, item := range []*models.Ingredient{gin, lime} {
		if err := ingredients.Create(ctx, item); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := ingredients.Get(ctx, gin.ID)
	if err != nil || got == nil {
		t.Fatalf("get: %v %v", got, err)
	}
	if len(got.Aliases) != 1 || got.Aliases[0] != "Dry Gin" {
		t.Fatalf("expected aliases to round trip, got %v", got.Aliases)
	}

	missing, err := ingredients.Get(ctx, 9999)
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for a missing row, got %v %v", missing, err)
	}

	spirits, err := ingredients.Filter(ctx, map[string]any{"category": "Spirits"})
	if err != nil || len(spirits) != 1 || spirits[0].Name != "Gin" {
		t.Fatalf("filter: %v %v", spirits, err)
	}

	updated, err := ingredients.Update(ctx, gin.ID, map[string]any{"cost_per_unit": 1.25})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.CostPerUnit != 1.25 || updated.Name != "Gin" {
		t.Fatalf("expected partial patch, got %+v", updated)
	}

	if _, err := ingredients.Update(ctx, 9999, map[string]any{"name": "Ghost"}); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found on update, got %v", err)
	}

	if err := ingredients.Delete(ctx, lime.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all, err := ingredients.List(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("list after delete: %v %v", all, err)
	}
}

func TestCollectionPreload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	database := newTestDB(t, "collection_preload")
	ingredients := NewCollection[models.Ingredient](database)
	variants := NewCollection[models.ProductVariant](database)

	bourbon := &models.Ingredient{Name: "Bourbon", Unit: "oz"}
	if err := ingredients.Create(ctx, bourbon); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := variants.Create(ctx, &models.ProductVariant{IngredientID: bourbon.ID, SizeML: 750, PurchasePrice: 28}); err != nil {
		t.Fatalf("create variant: %v", err)
	}

	plain, _ := ingredients.Get(ctx, bourbon.ID)
	if len(plain.Variants) != 0 {
		t.Fatal("expected no variants without preload")
	}
	loaded, err := ingredients.Preload("Variants").Get(ctx, bourbon.ID)
	if err != nil || len(loaded.Variants) != 1 {
		t.Fatalf("expected preloaded variant, got %+v %v", loaded, err)
	}
}

func TestCollectionNilDatabase(t *testing.T) {
	t.Parallel()

	var c *Collection[models.Menu]
	if _, err := c.List(context.Background()); !errors.Is(err, ErrNilDatabase) {
		t.Fatalf("expected ErrNilDatabase, got %v", err)
	}
	if err := NewCollection[models.Menu](nil).Create(context.Background(), &models.Menu{}); !errors.Is(err, ErrNilDatabase) {
		t.Fatalf("expected ErrNilDatabase, got %v", err)
	}
}
