package core

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

	brazilianStates = map[string]bool{
		"AC": true, "AL": true, "AP": true, "AM": true, "BA": true, "CE": true, "DF": true,
		"ES": true, "GO": true, "MA": true, "MT": true, "MS": true, "MG": true, "PA": true,
		"PB": true, "PR": true, "PE": true, "PI": true, "RJ": true, "RN": true, "RS": true,
		"RO": true, "RR": true, "SC": true, "SP": true, "SE": true, "TO": true,
	}
)

// CustomerService manages the customer registry.
type CustomerService interface {
	CreateCustomer(ctx context.Context, in CustomerInput) (*Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error)
	GetCustomerByDocument(ctx context.Context, document string) (*Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*Customer, error)
	GetCustomers(ctx context.Context, f CustomerFilter, page Page) ([]Customer, int, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, patch CustomerPatch) (*Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
	InactivateCustomer(ctx context.Context, id uuid.UUID, actor string) (*Customer, error)
	SearchCustomers(ctx context.Context, term string, limit int) ([]Customer, error)
	GetCustomerStats(ctx context.Context) (*CustomerStats, error)
}

type customerService struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewCustomerService(pool *pgxpool.Pool) CustomerService {
	return &customerService{pool: pool, now: time.Now}
}

// ── Validation ───────────────────────────────────────────────────────────────

// onlyDigits strips every non-digit character.
func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeCustomer trims and canonicalizes c in place, then validates it.
func normalizeCustomer(c *Customer) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Document = onlyDigits(c.Document)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.State = strings.ToUpper(strings.TrimSpace(c.State))
	c.PostalCode = onlyDigits(c.PostalCode)

	if n := utf8.RuneCountInString(c.Name); n < 2 || n > 255 {
		return invalid("nome", "must be between 2 and 255 characters")
	}
	if !c.Type.Valid() {
		return invalid("tipo", "unknown customer type %q", c.Type)
	}
	if c.Document != "" && len(c.Document) != c.Type.DocumentLength() {
		return invalid("cpf_cnpj", "%s requires %d digits, got %d", c.Type, c.Type.DocumentLength(), len(c.Document))
	}
	if c.Email != "" && !emailPattern.MatchString(c.Email) {
		return invalid("email", "invalid address %q", c.Email)
	}
	if c.State != "" && !brazilianStates[c.State] {
		return invalid("estado", "unknown state %q", c.State)
	}
	if c.PostalCode != "" && len(c.PostalCode) != 8 {
		return invalid("cep", "must have 8 digits")
	}
	if !c.Status.Valid() {
		return invalid("status", "unknown customer status %q", c.Status)
	}
	if c.CreditLimit < 0 {
		return invalid("limite_credito", "must be >= 0")
	}
	if c.LoyaltyPoints < 0 {
		return invalid("pontos_fidelidade", "must be >= 0")
	}
	return nil
}

func (c *Customer) applyPatch(p CustomerPatch) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.Name, p.Name)
	set(&c.Document, p.Document)
	set(&c.StateID, p.StateID)
	set(&c.Email, p.Email)
	set(&c.Phone, p.Phone)
	set(&c.Mobile, p.Mobile)
	set(&c.Street, p.Street)
	set(&c.Number, p.Number)
	set(&c.Complement, p.Complement)
	set(&c.District, p.District)
	set(&c.City, p.City)
	set(&c.State, p.State)
	set(&c.PostalCode, p.PostalCode)
	set(&c.Occupation, p.Occupation)
	set(&c.Notes, p.Notes)
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.BirthDate != nil {
		d := *p.BirthDate
		c.BirthDate = &d
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.CreditLimit != nil {
		c.CreditLimit = *p.CreditLimit
	}
	if p.LoyaltyPoints != nil {
		c.LoyaltyPoints = *p.LoyaltyPoints
	}
	c.UpdatedBy = p.UpdatedBy
}

func customerConflict(err error, c *Customer) error {
	switch uniqueConstraint(err) {
	case "":
		return nil
	case "clientes_cpf_cnpj_key":
		return fmt.Errorf("document %s already registered: %w", c.Document, ErrConflict)
	case "clientes_email_key":
		return fmt.Errorf("email %s already registered: %w", c.Email, ErrConflict)
	default:
		return fmt.Errorf("customer already exists: %w", ErrConflict)
	}
}

// ── Persistence ──────────────────────────────────────────────────────────────

const customerColumns = `
	id, nome, tipo, COALESCE(cpf_cnpj, ''), rg_ie, COALESCE(email, ''), telefone, celular,
	endereco, numero, complemento, bairro, cidade, estado, cep, data_nascimento,
	profissao, observacoes, status, limite_credito, pontos_fidelidade,
	data_criacao, data_atualizacao, criado_por, atualizado_por`

func scanCustomer(row pgx.Row, c *Customer) error {
	return row.Scan(
		&c.ID, &c.Name, &c.Type, &c.Document, &c.StateID, &c.Email, &c.Phone, &c.Mobile,
		&c.Street, &c.Number, &c.Complement, &c.District, &c.City, &c.State, &c.PostalCode, &c.BirthDate,
		&c.Occupation, &c.Notes, &c.Status, &c.CreditLimit, &c.LoyaltyPoints,
		&c.CreatedAt, &c.UpdatedAt, &c.CreatedBy, &c.UpdatedBy,
	)
}

func (s *customerService) CreateCustomer(ctx context.Context, in CustomerInput) (*Customer, error) {
	c := Customer{
		ID:            uuid.New(),
		Name:          in.Name,
		Type:          in.Type,
		Document:      in.Document,
		StateID:       in.StateID,
		Email:         in.Email,
		Phone:         in.Phone,
		Mobile:        in.Mobile,
		Street:        in.Street,
		Number:        in.Number,
		Complement:    in.Complement,
		District:      in.District,
		City:          in.City,
		State:         in.State,
		PostalCode:    in.PostalCode,
		BirthDate:     in.BirthDate,
		Occupation:    in.Occupation,
		Notes:         in.Notes,
		Status:        in.Status,
		CreditLimit:   in.CreditLimit,
		LoyaltyPoints: in.LoyaltyPoints,
		CreatedBy:     in.CreatedBy,
	}
	if c.Type == "" {
		c.Type = CustomerPerson
	}
	if c.Status == "" {
		c.Status = CustomerActive
	}
	if err := normalizeCustomer(&c); err != nil {
		return nil, err
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO clientes (id, nome, tipo, cpf_cnpj, rg_ie, email, telefone, celular,
		                      endereco, numero, complemento, bairro, cidade, estado, cep, data_nascimento,
		                      profissao, observacoes, status, limite_credito, pontos_fidelidade, criado_por)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), $7, $8,
		        $9, $10, $11, $12, $13, $14, $15, $16,
		        $17, $18, $19, $20, $21, $22)
	`, c.ID, c.Name, c.Type, c.Document, c.StateID, c.Email, c.Phone, c.Mobile,
		c.Street, c.Number, c.Complement, c.District, c.City, c.State, c.PostalCode, c.BirthDate,
		c.Occupation, c.Notes, c.Status, c.CreditLimit, c.LoyaltyPoints, c.CreatedBy)
	if err != nil {
		if cerr := customerConflict(err, &c); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return s.GetCustomer(ctx, c.ID)
}

func (s *customerService) getCustomerWhere(ctx context.Context, q pgxQuerier, clause string, arg any, what string) (*Customer, error) {
	var c Customer
	if err := scanCustomer(q.QueryRow(ctx, "SELECT"+customerColumns+" FROM clientes WHERE "+clause, arg), &c); err != nil {
		return nil, notFoundOr(err, what)
	}
	return &c, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error) {
	return s.getCustomerWhere(ctx, s.pool, "id = $1", id, fmt.Sprintf("customer %s", id))
}

func (s *customerService) GetCustomerByDocument(ctx context.Context, document string) (*Customer, error) {
	digits := onlyDigits(document)
	return s.getCustomerWhere(ctx, s.pool, "cpf_cnpj = $1", digits, fmt.Sprintf("customer with document %s", digits))
}

func (s *customerService) GetCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return s.getCustomerWhere(ctx, s.pool, "email = $1", email, fmt.Sprintf("customer with email %s", email))
}

func (s *customerService) GetCustomers(ctx context.Context, f CustomerFilter, page Page) ([]Customer, int, error) {
	page = page.Normalize()

	conds := &conditions{}
	if f.Name != "" {
		conds.add("nome ILIKE $%d", likePattern(f.Name))
	}
	if f.Type != nil {
		conds.add("tipo = $%d", string(*f.Type))
	}
	if f.Status != nil {
		conds.add("status = $%d", string(*f.Status))
	}
	if f.City != "" {
		conds.add("cidade ILIKE $%d", likePattern(f.City))
	}
	if f.State != "" {
		conds.add("estado = $%d", strings.ToUpper(f.State))
	}
	if f.Document != "" {
		conds.add("cpf_cnpj = $%d", onlyDigits(f.Document))
	}
	if f.Email != "" {
		conds.add("email ILIKE $%d", likePattern(f.Email))
	}

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM clientes"+conds.where(), conds.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	query := "SELECT" + customerColumns + " FROM clientes" + conds.where() +
		" ORDER BY nome, id LIMIT " + conds.next(page.PerPage) + " OFFSET " + conds.next(page.Offset())
	customers, err := s.queryCustomers(ctx, query, conds.args...)
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

func (s *customerService) queryCustomers(ctx context.Context, query string, args ...any) ([]Customer, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	customers := []Customer{}
	for rows.Next() {
		var c Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (s *customerService) UpdateCustomer(ctx context.Context, id uuid.UUID, patch CustomerPatch) (*Customer, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	c, err := s.getCustomerWhere(ctx, tx, "id = $1 FOR UPDATE", id, fmt.Sprintf("customer %s", id))
	if err != nil {
		return nil, err
	}
	c.applyPatch(patch)
	if err := normalizeCustomer(c); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE clientes
		SET nome = $1, tipo = $2, cpf_cnpj = NULLIF($3, ''), rg_ie = $4, email = NULLIF($5, ''),
		    telefone = $6, celular = $7, endereco = $8, numero = $9, complemento = $10,
		    bairro = $11, cidade = $12, estado = $13, cep = $14, data_nascimento = $15,
		    profissao = $16, observacoes = $17, status = $18, limite_credito = $19,
		    pontos_fidelidade = $20, atualizado_por = $21, data_atualizacao = $22
		WHERE id = $23
	`, c.Name, c.Type, c.Document, c.StateID, c.Email,
		c.Phone, c.Mobile, c.Street, c.Number, c.Complement,
		c.District, c.City, c.State, c.PostalCode, c.BirthDate,
		c.Occupation, c.Notes, c.Status, c.CreditLimit,
		c.LoyaltyPoints, c.UpdatedBy, s.now(), id)
	if err != nil {
		if cerr := customerConflict(err, c); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("failed to update customer %s: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit customer update: %w", err)
	}
	return s.GetCustomer(ctx, id)
}

func (s *customerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM clientes WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete customer %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *customerService) InactivateCustomer(ctx context.Context, id uuid.UUID, actor string) (*Customer, error) {
	status := CustomerInactive
	return s.UpdateCustomer(ctx, id, CustomerPatch{Status: &status, UpdatedBy: actor})
}

func (s *customerService) SearchCustomers(ctx context.Context, term string, limit int) ([]Customer, error) {
	if limit < 1 || limit > maxSearchLimit {
		limit = 10
	}
	term = strings.TrimSpace(term)
	pattern := likePattern(term)
	digits := onlyDigits(term)
	if digits == "" {
		// stored documents are digits only, so this never matches
		digits = "-"
	}
	return s.queryCustomers(ctx, "SELECT"+customerColumns+` FROM clientes
		WHERE nome ILIKE $1 OR email ILIKE $1 OR cpf_cnpj LIKE $2
		ORDER BY nome, id
		LIMIT $3`, pattern, likePattern(digits), limit)
}

func (s *customerService) GetCustomerStats(ctx context.Context) (*CustomerStats, error) {
	stats := &CustomerStats{
		ByStatus: make(map[CustomerStatus]int),
		ByType:   make(map[CustomerType]int),
	}

	rows, err := s.pool.Query(ctx, "SELECT status, tipo, COUNT(*) FROM clientes GROUP BY status, tipo")
	if err != nil {
		return nil, fmt.Errorf("failed to compute customer stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var st CustomerStatus
		var tp CustomerType
		var n int
		if err := rows.Scan(&st, &tp, &n); err != nil {
			return nil, fmt.Errorf("failed to scan customer stats: %w", err)
		}
		stats.Total += n
		stats.ByStatus[st] += n
		stats.ByType[tp] += n
	}
	return stats, rows.Err()
}
