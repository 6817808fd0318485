package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"pdv/internal/core"
)

func TestCustomer_CRUD(t *testing.T) {
	pool := setupTestDB(t)
	svc := core.NewCustomerService(pool)
	ctx := context.Background()

	c, err := svc.CreateCustomer(ctx, core.CustomerInput{
		Name:        "Maria Aparecida Souza",
		Document:    "529.982.247-25",
		Email:       "Maria.Souza@Example.com",
		City:        "Campinas",
		State:       "sp",
		PostalCode:  "13010-000",
		CreditLimit: 50000,
		CreatedBy:   "test",
	})
	if err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}
	if c.Type != core.CustomerPerson || c.Status != core.CustomerActive {
		t.Errorf("defaults: type=%s status=%s", c.Type, c.Status)
	}
	if c.Document != "52998224725" || c.Email != "maria.souza@example.com" || c.State != "SP" {
		t.Errorf("not normalized: %+v", c)
	}

	byDoc, err := svc.GetCustomerByDocument(ctx, "529.982.247-25")
	if err != nil || byDoc.ID != c.ID {
		t.Errorf("GetCustomerByDocument: err=%v", err)
	}
	byEmail, err := svc.GetCustomerByEmail(ctx, "MARIA.SOUZA@example.com")
	if err != nil || byEmail.ID != c.ID {
		t.Errorf("GetCustomerByEmail: err=%v", err)
	}

	_, err = svc.CreateCustomer(ctx, core.CustomerInput{Name: "Outra Maria", Document: "52998224725"})
	if !errors.Is(err, core.ErrConflict) {
		t.Errorf("duplicate document: expected ErrConflict, got %v", err)
	}
	_, err = svc.CreateCustomer(ctx, core.CustomerInput{Name: "Outra Maria", Email: "maria.souza@example.com"})
	if !errors.Is(err, core.ErrConflict) {
		t.Errorf("duplicate email: expected ErrConflict, got %v", err)
	}

	company, err := svc.CreateCustomer(ctx, core.CustomerInput{
		Name:     "Mercadinho Boa Vista",
		Type:     core.CustomerCompany,
		Document: "11.222.333/0001-81",
		State:    "PE",
	})
	if err != nil {
		t.Fatalf("CreateCustomer(company) failed: %v", err)
	}

	city := "Recife"
	updated, err := svc.UpdateCustomer(ctx, c.ID, core.CustomerPatch{City: &city, UpdatedBy: "admin"})
	if err != nil {
		t.Fatalf("UpdateCustomer failed: %v", err)
	}
	if updated.City != "Recife" || updated.Email != c.Email || updated.UpdatedAt == nil {
		t.Errorf("unexpected customer: %+v", updated)
	}

	badState := "ZZ"
	if _, err := svc.UpdateCustomer(ctx, c.ID, core.CustomerPatch{State: &badState}); !errors.Is(err, core.ErrValidation) {
		t.Errorf("bad state: expected ErrValidation, got %v", err)
	}

	if _, err := svc.InactivateCustomer(ctx, company.ID, "admin"); err != nil {
		t.Fatalf("InactivateCustomer failed: %v", err)
	}

	companyType := core.CustomerCompany
	list, total, err := svc.GetCustomers(ctx, core.CustomerFilter{Type: &companyType}, core.Page{})
	if err != nil || total != 1 || list[0].ID != company.ID {
		t.Errorf("type filter: total=%d err=%v", total, err)
	}

	found, err := svc.SearchCustomers(ctx, "11222333", 5)
	if err != nil || len(found) != 1 || found[0].ID != company.ID {
		t.Errorf("search by document: len=%d err=%v", len(found), err)
	}
	found, err = svc.SearchCustomers(ctx, "souza", 5)
	if err != nil || len(found) != 1 || found[0].ID != c.ID {
		t.Errorf("search by name: len=%d err=%v", len(found), err)
	}

	stats, err := svc.GetCustomerStats(ctx)
	if err != nil {
		t.Fatalf("GetCustomerStats failed: %v", err)
	}
	if stats.Total != 2 || stats.ByStatus[core.CustomerInactive] != 1 || stats.ByType[core.CustomerPerson] != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	if err := svc.DeleteCustomer(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCustomer failed: %v", err)
	}
	if _, err := svc.GetCustomer(ctx, c.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("deleted customer: expected ErrNotFound, got %v", err)
	}
	if err := svc.DeleteCustomer(ctx, uuid.New()); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown customer: expected ErrNotFound, got %v", err)
	}
}
