package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const maxSearchLimit = 50

// ProductService manages categories and the product catalog.
type ProductService interface {
	CreateCategory(ctx context.Context, in CategoryInput) (*Category, error)
	GetCategories(ctx context.Context, page Page) ([]Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (*Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, in ProductInput) (*Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	GetProductByBarcode(ctx context.Context, barcode string) (*Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*Product, error)
	GetProducts(ctx context.Context, f ProductFilter, page Page) ([]Product, int, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, patch ProductPatch) (*Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	// InactivateProduct is the soft delete: status becomes inativo.
	InactivateProduct(ctx context.Context, id uuid.UUID, actor string) (*Product, error)
	SearchProducts(ctx context.Context, term string, limit int) ([]Product, error)
	GetProductStats(ctx context.Context) (*ProductStats, error)

	// SnapshotTx reads the product fields frozen onto a sale item, inside the caller's
	// transaction. Unknown products yield a placeholder name instead of an error.
	SnapshotTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID) (*ProductSnapshot, error)
}

type productService struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewProductService(pool *pgxpool.Pool) ProductService {
	return &productService{pool: pool, now: time.Now}
}

// ── Categories ───────────────────────────────────────────────────────────────

func validateCategory(in CategoryInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return invalid("nome", "is required")
	}
	if utf8.RuneCountInString(name) > 255 {
		return invalid("nome", "must be at most 255 characters")
	}
	return nil
}

func categoryConflict(err error, name string) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("category %q already exists: %w", name, ErrConflict)
	}
	return nil
}

func (s *productService) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	if err := validateCategory(in); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)

	var c Category
	err := s.pool.QueryRow(ctx, `
		INSERT INTO categorias (id, nome, descricao)
		VALUES ($1, $2, $3)
		RETURNING id, nome, descricao, data_criacao, data_atualizacao
	`, uuid.New(), name, in.Description).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if cerr := categoryConflict(err, name); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &c, nil
}

func (s *productService) GetCategories(ctx context.Context, page Page) ([]Category, error) {
	page = page.Normalize()
	rows, err := s.pool.Query(ctx, `
		SELECT id, nome, descricao, data_criacao, data_atualizacao
		FROM categorias
		ORDER BY nome
		LIMIT $1 OFFSET $2
	`, page.PerPage, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *productService) GetCategory(ctx context.Context, id uuid.UUID) (*Category, error) {
	var c Category
	err := s.pool.QueryRow(ctx, `
		SELECT id, nome, descricao, data_criacao, data_atualizacao
		FROM categorias
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("category %s", id))
	}
	return &c, nil
}

func (s *productService) UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (*Category, error) {
	if err := validateCategory(in); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)

	var c Category
	err := s.pool.QueryRow(ctx, `
		UPDATE categorias
		SET nome = $1, descricao = $2, data_atualizacao = $3
		WHERE id = $4
		RETURNING id, nome, descricao, data_criacao, data_atualizacao
	`, name, in.Description, s.now(), id).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if cerr := categoryConflict(err, name); cerr != nil {
			return nil, cerr
		}
		return nil, notFoundOr(err, fmt.Sprintf("category %s", id))
	}
	return &c, nil
}

func (s *productService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM categorias WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	return nil
}

// ── Products ─────────────────────────────────────────────────────────────────

const productColumns = `
	p.id, p.nome, p.descricao, COALESCE(p.codigo_barras, ''), COALESCE(p.sku, ''),
	p.preco_venda, p.preco_custo, p.unidade_medida, p.categoria_id, COALESCE(c.nome, ''),
	p.status, p.imagem_url, p.observacoes, p.data_criacao, p.data_atualizacao,
	p.criado_por, p.atualizado_por`

const productFrom = " FROM produtos p LEFT JOIN categorias c ON c.id = p.categoria_id"

func scanProduct(row pgx.Row, p *Product) error {
	return row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Barcode, &p.SKU,
		&p.SalePrice, &p.CostPrice, &p.Unit, &p.CategoryID, &p.CategoryName,
		&p.Status, &p.ImageURL, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
		&p.CreatedBy, &p.UpdatedBy,
	)
}

// validateProduct checks a fully populated product before it is written.
func validateProduct(p *Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("nome", "is required")
	}
	if utf8.RuneCountInString(p.Name) > 255 {
		return invalid("nome", "must be at most 255 characters")
	}
	if utf8.RuneCountInString(p.Barcode) > 255 {
		return invalid("codigo_barras", "must be at most 255 characters")
	}
	if utf8.RuneCountInString(p.SKU) > 255 {
		return invalid("sku", "must be at most 255 characters")
	}
	if p.SalePrice < 0 {
		return invalid("preco_venda", "must be >= 0, got %d", p.SalePrice)
	}
	if p.CostPrice < 0 {
		return invalid("preco_custo", "must be >= 0, got %d", p.CostPrice)
	}
	if !p.Unit.Valid() {
		return invalid("unidade_medida", "unknown unit %q", p.Unit)
	}
	if !p.Status.Valid() {
		return invalid("status", "unknown product status %q", p.Status)
	}
	if utf8.RuneCountInString(p.ImageURL) > 255 {
		return invalid("imagem_url", "must be at most 255 characters")
	}
	return nil
}

// applyPatch copies the set fields of patch onto p.
func (p *Product) applyPatch(patch ProductPatch) {
	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Barcode != nil {
		p.Barcode = strings.TrimSpace(*patch.Barcode)
	}
	if patch.SKU != nil {
		p.SKU = strings.TrimSpace(*patch.SKU)
	}
	if patch.SalePrice != nil {
		p.SalePrice = *patch.SalePrice
	}
	if patch.CostPrice != nil {
		p.CostPrice = *patch.CostPrice
	}
	if patch.Unit != nil {
		p.Unit = *patch.Unit
	}
	if patch.CategoryID != nil {
		id := *patch.CategoryID
		p.CategoryID = &id
	}
	if patch.ClearCategory {
		p.CategoryID = nil
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.Notes != nil {
		p.Notes = *patch.Notes
	}
	p.UpdatedBy = patch.UpdatedBy
}

func productConflict(err error, p *Product) error {
	switch uniqueConstraint(err) {
	case "":
		return nil
	case "produtos_codigo_barras_key":
		return fmt.Errorf("barcode %s already registered: %w", p.Barcode, ErrConflict)
	case "produtos_sku_key":
		return fmt.Errorf("sku %s already registered: %w", p.SKU, ErrConflict)
	default:
		return fmt.Errorf("product already exists: %w", ErrConflict)
	}
}

// checkCategory verifies that an optional category reference exists.
func checkCategory(ctx context.Context, q pgxQuerier, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	var exists bool
	if err := q.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM categorias WHERE id = $1)", *id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to verify category: %w", err)
	}
	if !exists {
		return invalid("categoria_id", "category %s not found", *id)
	}
	return nil
}

func (s *productService) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	p := Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Barcode:     strings.TrimSpace(in.Barcode),
		SKU:         strings.TrimSpace(in.SKU),
		SalePrice:   in.SalePrice,
		CostPrice:   in.CostPrice,
		Unit:        in.Unit,
		CategoryID:  in.CategoryID,
		Status:      in.Status,
		ImageURL:    in.ImageURL,
		Notes:       in.Notes,
		CreatedBy:   in.CreatedBy,
	}
	if p.Unit == "" {
		p.Unit = UnitPiece
	}
	if p.Status == "" {
		p.Status = ProductActive
	}
	if err := validateProduct(&p); err != nil {
		return nil, err
	}
	if err := checkCategory(ctx, s.pool, p.CategoryID); err != nil {
		return nil, err
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO produtos (id, nome, descricao, codigo_barras, sku, preco_venda, preco_custo,
		                      unidade_medida, categoria_id, status, imagem_url, observacoes, criado_por)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9, $10, $11, $12, $13)
	`, p.ID, p.Name, p.Description, p.Barcode, p.SKU, p.SalePrice, p.CostPrice,
		p.Unit, p.CategoryID, p.Status, p.ImageURL, p.Notes, p.CreatedBy)
	if err != nil {
		if cerr := productConflict(err, &p); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return s.GetProduct(ctx, p.ID)
}

func (s *productService) getProductWhere(ctx context.Context, q pgxQuerier, clause string, arg any, what string) (*Product, error) {
	var p Product
	if err := scanProduct(q.QueryRow(ctx, "SELECT"+productColumns+productFrom+" WHERE "+clause, arg), &p); err != nil {
		return nil, notFoundOr(err, what)
	}
	return &p, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.getProductWhere(ctx, s.pool, "p.id = $1", id, fmt.Sprintf("product %s", id))
}

func (s *productService) GetProductByBarcode(ctx context.Context, barcode string) (*Product, error) {
	return s.getProductWhere(ctx, s.pool, "p.codigo_barras = $1", barcode, fmt.Sprintf("product with barcode %s", barcode))
}

func (s *productService) GetProductBySKU(ctx context.Context, sku string) (*Product, error) {
	return s.getProductWhere(ctx, s.pool, "p.sku = $1", sku, fmt.Sprintf("product with sku %s", sku))
}

func (s *productService) GetProducts(ctx context.Context, f ProductFilter, page Page) ([]Product, int, error) {
	page = page.Normalize()

	conds := &conditions{}
	if f.Name != "" {
		conds.add("p.nome ILIKE $%d", likePattern(f.Name))
	}
	if f.Barcode != "" {
		conds.add("p.codigo_barras = $%d", f.Barcode)
	}
	if f.SKU != "" {
		conds.add("p.sku = $%d", f.SKU)
	}
	if f.Unit != nil {
		conds.add("p.unidade_medida = $%d", string(*f.Unit))
	}
	if f.CategoryID != nil {
		conds.add("p.categoria_id = $%d", *f.CategoryID)
	}
	if f.Status != nil {
		conds.add("p.status = $%d", string(*f.Status))
	}
	if f.MinSalePrice != nil {
		conds.add("p.preco_venda >= $%d", int64(*f.MinSalePrice))
	}
	if f.MaxSalePrice != nil {
		conds.add("p.preco_venda <= $%d", int64(*f.MaxSalePrice))
	}
	if f.MinCostPrice != nil {
		conds.add("p.preco_custo >= $%d", int64(*f.MinCostPrice))
	}
	if f.MaxCostPrice != nil {
		conds.add("p.preco_custo <= $%d", int64(*f.MaxCostPrice))
	}

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM produtos p"+conds.where(), conds.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := "SELECT" + productColumns + productFrom + conds.where() +
		" ORDER BY p.nome, p.id LIMIT " + conds.next(page.PerPage) + " OFFSET " + conds.next(page.Offset())
	products, err := s.queryProducts(ctx, query, conds.args...)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (s *productService) queryProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, patch ProductPatch) (*Product, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	p, err := s.getProductWhere(ctx, tx, "p.id = $1 FOR UPDATE OF p", id, fmt.Sprintf("product %s", id))
	if err != nil {
		return nil, err
	}
	p.applyPatch(patch)
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if patch.CategoryID != nil {
		if err := checkCategory(ctx, tx, p.CategoryID); err != nil {
			return nil, err
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE produtos
		SET nome = $1, descricao = $2, codigo_barras = NULLIF($3, ''), sku = NULLIF($4, ''),
		    preco_venda = $5, preco_custo = $6, unidade_medida = $7, categoria_id = $8,
		    status = $9, imagem_url = $10, observacoes = $11, atualizado_por = $12, data_atualizacao = $13
		WHERE id = $14
	`, p.Name, p.Description, p.Barcode, p.SKU, p.SalePrice, p.CostPrice, p.Unit, p.CategoryID,
		p.Status, p.ImageURL, p.Notes, p.UpdatedBy, s.now(), id)
	if err != nil {
		if cerr := productConflict(err, p); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit product update: %w", err)
	}
	return s.GetProduct(ctx, id)
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM produtos WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *productService) InactivateProduct(ctx context.Context, id uuid.UUID, actor string) (*Product, error) {
	status := ProductInactive
	return s.UpdateProduct(ctx, id, ProductPatch{Status: &status, UpdatedBy: actor})
}

func (s *productService) SearchProducts(ctx context.Context, term string, limit int) ([]Product, error) {
	if limit < 1 || limit > maxSearchLimit {
		limit = 10
	}
	pattern := likePattern(strings.TrimSpace(term))
	return s.queryProducts(ctx, "SELECT"+productColumns+productFrom+`
		WHERE p.nome ILIKE $1 OR p.descricao ILIKE $1 OR p.codigo_barras ILIKE $1 OR p.sku ILIKE $1
		ORDER BY p.nome, p.id
		LIMIT $2`, pattern, limit)
}

func (s *productService) GetProductStats(ctx context.Context) (*ProductStats, error) {
	stats := &ProductStats{
		ByStatus:   make(map[ProductStatus]int),
		ByCategory: make(map[string]int),
	}

	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(preco_venda), 0)::bigint, COALESCE(SUM(preco_custo), 0)::bigint
		FROM produtos
	`).Scan(&stats.Total, &stats.TotalSaleValue, &stats.TotalCostValue)
	if err != nil {
		return nil, fmt.Errorf("failed to compute product totals: %w", err)
	}

	rows, err := s.pool.Query(ctx, "SELECT status, COUNT(*) FROM produtos GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to count products by status: %w", err)
	}
	for rows.Next() {
		var st ProductStatus
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		stats.ByStatus[st] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to count products by status: %w", err)
	}

	rows, err = s.pool.Query(ctx, `
		SELECT c.nome, COUNT(p.id)
		FROM produtos p
		JOIN categorias c ON c.id = p.categoria_id
		GROUP BY c.nome
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count products by category: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		stats.ByCategory[name] = n
	}
	return stats, rows.Err()
}

func (s *productService) SnapshotTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID) (*ProductSnapshot, error) {
	var snap ProductSnapshot
	err := tx.QueryRow(ctx, `
		SELECT nome, COALESCE(codigo_barras, ''), COALESCE(sku, '')
		FROM produtos
		WHERE id = $1
	`, productID).Scan(&snap.Name, &snap.Barcode, &snap.SKU)
	if errors.Is(err, pgx.ErrNoRows) {
		return &ProductSnapshot{Name: fmt.Sprintf("Produto %s", productID)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read product %s: %w", productID, err)
	}
	return &snap, nil
}
