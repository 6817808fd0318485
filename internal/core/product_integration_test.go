package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"pdv/internal/core"
)

func TestCategory_CRUD(t *testing.T) {
	pool := setupTestDB(t)
	svc := core.NewProductService(pool)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, core.CategoryInput{Name: " Bebidas ", Description: "em geral"})
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if cat.Name != "Bebidas" {
		t.Errorf("name not trimmed: %q", cat.Name)
	}

	if _, err := svc.CreateCategory(ctx, core.CategoryInput{Name: "Bebidas"}); !errors.Is(err, core.ErrConflict) {
		t.Errorf("duplicate name: expected ErrConflict, got %v", err)
	}
	if _, err := svc.CreateCategory(ctx, core.CategoryInput{Name: ""}); !errors.Is(err, core.ErrValidation) {
		t.Errorf("blank name: expected ErrValidation, got %v", err)
	}

	updated, err := svc.UpdateCategory(ctx, cat.ID, core.CategoryInput{Name: "Bebidas frias"})
	if err != nil {
		t.Fatalf("UpdateCategory failed: %v", err)
	}
	if updated.Name != "Bebidas frias" || updated.UpdatedAt == nil {
		t.Errorf("unexpected category: %+v", updated)
	}

	list, err := svc.GetCategories(ctx, core.Page{})
	if err != nil || len(list) != 1 {
		t.Fatalf("GetCategories: len=%d err=%v", len(list), err)
	}

	if err := svc.DeleteCategory(ctx, cat.ID); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}
	if _, err := svc.GetCategory(ctx, cat.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("deleted category: expected ErrNotFound, got %v", err)
	}
	if err := svc.DeleteCategory(ctx, cat.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestProduct_CRUD(t *testing.T) {
	pool := setupTestDB(t)
	svc := core.NewProductService(pool)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, core.CategoryInput{Name: "Mercearia"})
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	p, err := svc.CreateProduct(ctx, core.ProductInput{
		Name:       "Arroz 5kg",
		Barcode:    "7891000100202",
		SKU:        "ARROZ-5",
		SalePrice:  2790,
		CostPrice:  1980,
		Unit:       core.UnitPackage,
		CategoryID: &cat.ID,
		CreatedBy:  "test",
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if p.Status != core.ProductActive || p.CategoryName != "Mercearia" {
		t.Errorf("status=%s category=%q", p.Status, p.CategoryName)
	}

	byBarcode, err := svc.GetProductByBarcode(ctx, "7891000100202")
	if err != nil || byBarcode.ID != p.ID {
		t.Errorf("GetProductByBarcode: err=%v", err)
	}
	bySKU, err := svc.GetProductBySKU(ctx, "ARROZ-5")
	if err != nil || bySKU.ID != p.ID {
		t.Errorf("GetProductBySKU: err=%v", err)
	}

	// Products without barcode or SKU never collide with each other.
	for _, name := range []string{"Granel A", "Granel B"} {
		if _, err := svc.CreateProduct(ctx, core.ProductInput{Name: name, SalePrice: 100}); err != nil {
			t.Fatalf("CreateProduct(%s) failed: %v", name, err)
		}
	}

	_, err = svc.CreateProduct(ctx, core.ProductInput{Name: "Outro arroz", Barcode: "7891000100202", SalePrice: 100})
	if !errors.Is(err, core.ErrConflict) {
		t.Errorf("duplicate barcode: expected ErrConflict, got %v", err)
	}
	_, err = svc.CreateProduct(ctx, core.ProductInput{Name: "Outro arroz", SKU: "ARROZ-5", SalePrice: 100})
	if !errors.Is(err, core.ErrConflict) {
		t.Errorf("duplicate sku: expected ErrConflict, got %v", err)
	}
	missing := uuid.New()
	_, err = svc.CreateProduct(ctx, core.ProductInput{Name: "Sem categoria", CategoryID: &missing})
	if !errors.Is(err, core.ErrValidation) {
		t.Errorf("missing category: expected ErrValidation, got %v", err)
	}

	price := core.Cents(2990)
	updated, err := svc.UpdateProduct(ctx, p.ID, core.ProductPatch{SalePrice: &price, UpdatedBy: "gerente"})
	if err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}
	if updated.SalePrice != 2990 || updated.CostPrice != 1980 || updated.UpdatedBy != "gerente" {
		t.Errorf("unexpected product: %+v", updated)
	}

	inactive, err := svc.InactivateProduct(ctx, p.ID, "gerente")
	if err != nil || inactive.Status != core.ProductInactive {
		t.Errorf("InactivateProduct: status=%v err=%v", inactive, err)
	}

	status := core.ProductInactive
	list, total, err := svc.GetProducts(ctx, core.ProductFilter{Status: &status}, core.Page{})
	if err != nil || total != 1 || list[0].ID != p.ID {
		t.Errorf("status filter: total=%d err=%v", total, err)
	}
	minPrice := core.Cents(1000)
	_, total, err = svc.GetProducts(ctx, core.ProductFilter{MinSalePrice: &minPrice}, core.Page{})
	if err != nil || total != 1 {
		t.Errorf("price filter: total=%d err=%v", total, err)
	}

	found, err := svc.SearchProducts(ctx, "granel", 0)
	if err != nil || len(found) != 2 {
		t.Errorf("SearchProducts: len=%d err=%v", len(found), err)
	}

	stats, err := svc.GetProductStats(ctx)
	if err != nil {
		t.Fatalf("GetProductStats failed: %v", err)
	}
	if stats.Total != 3 || stats.ByCategory["Mercearia"] != 1 || stats.TotalSaleValue != 2990+100+100 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	// Deleting the category unlinks its products.
	if err := svc.DeleteCategory(ctx, cat.ID); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}
	orphan, err := svc.GetProduct(ctx, p.ID)
	if err != nil || orphan.CategoryID != nil {
		t.Errorf("product still linked: %+v err=%v", orphan, err)
	}

	if err := svc.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}
	if _, err := svc.GetProduct(ctx, p.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("deleted product: expected ErrNotFound, got %v", err)
	}
}
