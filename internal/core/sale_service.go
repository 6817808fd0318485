package core

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SaleService creates, queries and reports on PDV sales.
type SaleService interface {
	// CreateSale builds the sale from its items and payments and persists header,
	// items and payments in one transaction. Validation failures never touch the database.
	CreateSale(ctx context.Context, in CreateSaleInput) (*Sale, error)

	GetSale(ctx context.Context, id uuid.UUID) (*Sale, error)
	GetSaleByNumber(ctx context.Context, number string) (*Sale, error)

	// ListSales returns one page of sales, newest first, and the total match count.
	ListSales(ctx context.Context, f SaleFilter, page Page) ([]Sale, int, error)

	// UpdateSale changes status and/or notes. Items and payments are never touched.
	UpdateSale(ctx context.Context, id uuid.UUID, in UpdateSaleInput) (*Sale, error)
	UpdateSaleStatus(ctx context.Context, id uuid.UUID, status SaleStatus, actor string) (*Sale, error)

	// CancelSale is the soft delete of a sale: status becomes Cancelled, rows stay.
	CancelSale(ctx context.Context, id uuid.UUID, actor string) (*Sale, error)

	Summary(ctx context.Context, f SummaryFilter) (*SaleSummary, error)

	// CustomerHistory returns the completed sales of a customer, newest first.
	CustomerHistory(ctx context.Context, customerID uuid.UUID) ([]Sale, error)
	// SalespersonSales returns the completed sales of a salesperson within optional days.
	SalespersonSales(ctx context.Context, salespersonID uuid.UUID, from, to *time.Time) ([]Sale, error)
}

type saleService struct {
	pool    *pgxpool.Pool
	catalog ProductService
	loc     *time.Location
	now     func() time.Time
}

// NewSaleService constructs a SaleService. loc decides which calendar day a sale belongs
// to, both for its number and for date filters; nil means time.Local.
func NewSaleService(pool *pgxpool.Pool, catalog ProductService, loc *time.Location) SaleService {
	if loc == nil {
		loc = time.Local
	}
	return &saleService{pool: pool, catalog: catalog, loc: loc, now: time.Now}
}

const saleColumns = `
	v.id, v.numero_venda, v.cliente_id, v.vendedor_id,
	v.subtotal, v.desconto_total, v.total_venda, v.status, v.observacoes,
	v.data_criacao, v.data_atualizacao, v.criado_por, v.atualizado_por`

func scanSale(row pgx.Row, sl *Sale) error {
	return row.Scan(
		&sl.ID, &sl.SaleNumber, &sl.CustomerID, &sl.SalespersonID,
		&sl.Subtotal, &sl.DiscountTotal, &sl.TotalDue, &sl.Status, &sl.Notes,
		&sl.CreatedAt, &sl.UpdatedAt, &sl.CreatedBy, &sl.UpdatedBy,
	)
}

// ── Create ───────────────────────────────────────────────────────────────────

func (s *saleService) CreateSale(ctx context.Context, in CreateSaleInput) (*Sale, error) {
	sale, err := BuildSale(in)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	day := saleDay(now, s.loc)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range sale.Items {
		item := &sale.Items[i]
		snap, err := s.catalog.SnapshotTx(ctx, tx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		item.ProductName = snap.Name
		item.Barcode = snap.Barcode
		item.SKU = snap.SKU
	}

	// Per-day gapless sequence; the row lock serializes concurrent creators of the
	// same day and a rollback gives the number back.
	var seq int64
	err = tx.QueryRow(ctx, `
		INSERT INTO sale_sequences (day, last_number)
		VALUES ($1::date, 1)
		ON CONFLICT (day)
		DO UPDATE SET last_number = sale_sequences.last_number + 1
		RETURNING last_number
	`, day.Format("2006-01-02")).Scan(&seq)
	if err != nil {
		return nil, fmt.Errorf("failed to generate sale number: %w", err)
	}

	sale.ID = uuid.New()
	sale.SaleNumber = FormatSaleNumber(day, seq)
	sale.CreatedAt = now

	_, err = tx.Exec(ctx, `
		INSERT INTO vendas (id, numero_venda, cliente_id, vendedor_id, subtotal, desconto_total,
		                    total_venda, status, observacoes, criado_por, data_criacao)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, sale.ID, sale.SaleNumber, sale.CustomerID, sale.SalespersonID, sale.Subtotal, sale.DiscountTotal,
		sale.TotalDue, sale.Status, sale.Notes, sale.CreatedBy, sale.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("sale number %s already exists: %w", sale.SaleNumber, ErrConflict)
		}
		return nil, fmt.Errorf("failed to insert sale: %w", err)
	}

	for i := range sale.Items {
		item := &sale.Items[i]
		// v7 ids sort in creation order, which keeps lines in input order on read.
		item.ID = uuid.Must(uuid.NewV7())
		item.SaleID = sale.ID
		item.CreatedAt = now
		_, err = tx.Exec(ctx, `
			INSERT INTO itens_venda (id, venda_id, produto_id, quantidade, preco_unitario, desconto_item,
			                         subtotal_item, nome_produto, codigo_barras, sku, data_criacao)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, item.ID, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice, item.Discount,
			item.Subtotal, item.ProductName, item.Barcode, item.SKU, item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert sale item %d: %w", i+1, err)
		}
	}

	for i := range sale.Payments {
		p := &sale.Payments[i]
		p.ID = uuid.Must(uuid.NewV7())
		p.SaleID = sale.ID
		p.CreatedAt = now
		_, err = tx.Exec(ctx, `
			INSERT INTO pagamentos_venda (id, venda_id, forma_pagamento, valor_pago, valor_recebido, troco,
			                              numero_transacao, numero_autorizacao, data_criacao)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, p.ID, p.SaleID, p.Method, p.Amount, p.Tendered, p.Change,
			p.TransactionNumber, p.AuthorizationNumber, p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert sale payment %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit sale creation: %w", err)
	}

	return s.GetSale(ctx, sale.ID)
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*Sale, error) {
	return s.getSaleWhere(ctx, "v.id = $1", id, fmt.Sprintf("sale %s", id))
}

func (s *saleService) GetSaleByNumber(ctx context.Context, number string) (*Sale, error) {
	return s.getSaleWhere(ctx, "v.numero_venda = $1", number, fmt.Sprintf("sale %s", number))
}

func (s *saleService) getSaleWhere(ctx context.Context, clause string, arg any, what string) (*Sale, error) {
	var sl Sale
	err := scanSale(s.pool.QueryRow(ctx, "SELECT"+saleColumns+" FROM vendas v WHERE "+clause, arg), &sl)
	if err != nil {
		return nil, notFoundOr(err, what)
	}
	if err := s.loadLines(ctx, s.pool, &sl); err != nil {
		return nil, err
	}
	return &sl, nil
}

func (s *saleService) ListSales(ctx context.Context, f SaleFilter, page Page) ([]Sale, int, error) {
	page = page.Normalize()
	conds := s.saleConditions(f)

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM vendas v"+conds.where(), conds.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sales: %w", err)
	}

	query := "SELECT" + saleColumns + " FROM vendas v" + conds.where() +
		" ORDER BY v.data_criacao DESC, v.numero_venda DESC" +
		" LIMIT " + conds.next(page.PerPage) + " OFFSET " + conds.next(page.Offset())
	sales, err := s.querySales(ctx, query, conds.args...)
	if err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

func (s *saleService) CustomerHistory(ctx context.Context, customerID uuid.UUID) ([]Sale, error) {
	completed := SaleStatusCompleted
	conds := s.saleConditions(SaleFilter{CustomerID: &customerID, Status: &completed})
	return s.querySales(ctx, "SELECT"+saleColumns+" FROM vendas v"+conds.where()+" ORDER BY v.data_criacao DESC", conds.args...)
}

func (s *saleService) SalespersonSales(ctx context.Context, salespersonID uuid.UUID, from, to *time.Time) ([]Sale, error) {
	completed := SaleStatusCompleted
	conds := s.saleConditions(SaleFilter{SalespersonID: &salespersonID, Status: &completed, From: from, To: to})
	return s.querySales(ctx, "SELECT"+saleColumns+" FROM vendas v"+conds.where()+" ORDER BY v.data_criacao DESC", conds.args...)
}

func (s *saleService) saleConditions(f SaleFilter) *conditions {
	conds := &conditions{}
	start, end := dayRange(f.From, f.To, s.loc)
	if start != nil {
		conds.add("v.data_criacao >= $%d", *start)
	}
	if end != nil {
		conds.add("v.data_criacao < $%d", *end)
	}
	if f.CustomerID != nil {
		conds.add("v.cliente_id = $%d", *f.CustomerID)
	}
	if f.SalespersonID != nil {
		conds.add("v.vendedor_id = $%d", *f.SalespersonID)
	}
	if f.Status != nil {
		conds.add("v.status = $%d", string(*f.Status))
	}
	if f.SaleNumber != "" {
		conds.add("v.numero_venda ILIKE $%d", likePattern(f.SaleNumber))
	}
	return conds
}

func (s *saleService) querySales(ctx context.Context, query string, args ...any) ([]Sale, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	sales := []Sale{}
	for rows.Next() {
		var sl Sale
		if err := scanSale(rows, &sl); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, sl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sales: %w", err)
	}

	for i := range sales {
		if err := s.loadLines(ctx, s.pool, &sales[i]); err != nil {
			return nil, err
		}
	}
	return sales, nil
}

// loadLines attaches items and payments to sl.
func (s *saleService) loadLines(ctx context.Context, q pgxQuerier, sl *Sale) error {
	items, err := fetchSaleItems(ctx, q, sl.ID)
	if err != nil {
		return err
	}
	payments, err := fetchSalePayments(ctx, q, sl.ID)
	if err != nil {
		return err
	}
	sl.Items = items
	sl.Payments = payments
	return nil
}

func fetchSaleItems(ctx context.Context, q pgxQuerier, saleID uuid.UUID) ([]SaleItem, error) {
	rows, err := q.Query(ctx, `
		SELECT id, venda_id, produto_id, quantidade, preco_unitario, desconto_item, subtotal_item,
		       nome_produto, codigo_barras, sku, data_criacao
		FROM itens_venda
		WHERE venda_id = $1
		ORDER BY data_criacao, id
	`, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale items: %w", err)
	}
	defer rows.Close()

	items := []SaleItem{}
	for rows.Next() {
		var it SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Discount,
			&it.Subtotal, &it.ProductName, &it.Barcode, &it.SKU, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sale item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func fetchSalePayments(ctx context.Context, q pgxQuerier, saleID uuid.UUID) ([]SalePayment, error) {
	rows, err := q.Query(ctx, `
		SELECT id, venda_id, forma_pagamento, valor_pago, valor_recebido, troco,
		       numero_transacao, numero_autorizacao, data_criacao
		FROM pagamentos_venda
		WHERE venda_id = $1
		ORDER BY data_criacao, id
	`, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale payments: %w", err)
	}
	defer rows.Close()

	payments := []SalePayment{}
	for rows.Next() {
		var p SalePayment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.Method, &p.Amount, &p.Tendered, &p.Change,
			&p.TransactionNumber, &p.AuthorizationNumber, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sale payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// ── Status changes ───────────────────────────────────────────────────────────

func (s *saleService) UpdateSale(ctx context.Context, id uuid.UUID, in UpdateSaleInput) (*Sale, error) {
	if in.Status != nil && !in.Status.Valid() {
		return nil, invalid("status", "unknown sale status %q", *in.Status)
	}
	if utf8.RuneCountInString(in.UpdatedBy) > maxReferenceLen {
		return nil, invalid("atualizado_por", "must be at most %d characters", maxReferenceLen)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current SaleStatus
	err = tx.QueryRow(ctx, "SELECT status FROM vendas WHERE id = $1 FOR UPDATE", id).Scan(&current)
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("sale %s", id))
	}

	status := current
	if in.Status != nil {
		status = *in.Status
	}

	_, err = tx.Exec(ctx, `
		UPDATE vendas
		SET status = $1,
		    observacoes = COALESCE($2, observacoes),
		    atualizado_por = $3,
		    data_atualizacao = $4
		WHERE id = $5
	`, status, in.Notes, in.UpdatedBy, s.now(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update sale %s: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit sale update: %w", err)
	}
	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	sale.PreviousStatus = current
	return sale, nil
}

func (s *saleService) UpdateSaleStatus(ctx context.Context, id uuid.UUID, status SaleStatus, actor string) (*Sale, error) {
	return s.UpdateSale(ctx, id, UpdateSaleInput{Status: &status, UpdatedBy: actor})
}

func (s *saleService) CancelSale(ctx context.Context, id uuid.UUID, actor string) (*Sale, error) {
	return s.UpdateSaleStatus(ctx, id, SaleStatusCancelled, actor)
}

// ── Reporting ────────────────────────────────────────────────────────────────

func (s *saleService) Summary(ctx context.Context, f SummaryFilter) (*SaleSummary, error) {
	status := SaleStatusCompleted
	if f.Status != nil {
		if !f.Status.Valid() {
			return nil, invalid("status", "unknown sale status %q", *f.Status)
		}
		status = *f.Status
	}

	period := s.saleConditions(SaleFilter{From: f.From, To: f.To})
	selected := s.saleConditions(SaleFilter{From: f.From, To: f.To, Status: &status})

	var count int
	var total Cents
	err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*), COALESCE(SUM(v.total_venda), 0)::bigint FROM vendas v"+selected.where(),
		selected.args...,
	).Scan(&count, &total)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize sales: %w", err)
	}

	byStatus := make(map[SaleStatus]int)
	rows, err := s.pool.Query(ctx,
		"SELECT v.status, COUNT(*) FROM vendas v"+period.where()+" GROUP BY v.status",
		period.args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count sales by status: %w", err)
	}
	for rows.Next() {
		var st SaleStatus
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		byStatus[st] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to count sales by status: %w", err)
	}

	byMethod := make(map[PaymentMethod]PaymentMethodTotal)
	rows, err = s.pool.Query(ctx, `
		SELECT p.forma_pagamento, COUNT(DISTINCT p.venda_id), COALESCE(SUM(p.valor_pago), 0)::bigint
		FROM pagamentos_venda p
		JOIN vendas v ON v.id = p.venda_id`+selected.where()+`
		GROUP BY p.forma_pagamento
	`, selected.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to total payments by method: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m PaymentMethod
		var t PaymentMethodTotal
		if err := rows.Scan(&m, &t.Count, &t.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan payment method total: %w", err)
		}
		byMethod[m] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to total payments by method: %w", err)
	}

	return NewSaleSummary(status, count, total, byStatus, byMethod), nil
}
