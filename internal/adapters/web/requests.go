package web

import (
	"fmt"

	"pdv/internal/core"
)

// Request bodies accepted by the API. Money fields are integer cents.
// These types are also reflected into the JSON Schemas served under /api/v1/schemas.

type saleItemBody struct {
	ProductID string `json:"produto_id" jsonschema:"format=uuid" jsonschema_description:"Catalog product id"`
	Quantity  int64  `json:"quantidade" jsonschema:"minimum=1"`
	UnitPrice int64  `json:"preco_unitario" jsonschema:"minimum=0" jsonschema_description:"Unit price in cents"`
	Discount  int64  `json:"desconto_item,omitempty" jsonschema:"minimum=0" jsonschema_description:"Line discount in cents"`
}

type salePaymentBody struct {
	Method              string `json:"forma_pagamento" jsonschema:"enum=dinheiro,enum=cartao_credito,enum=cartao_debito,enum=pix,enum=vale_presente,enum=crediario"`
	Amount              int64  `json:"valor_pago" jsonschema:"exclusiveMinimum=0" jsonschema_description:"Amount applied to the sale, in cents"`
	Tendered            *int64 `json:"valor_recebido,omitempty" jsonschema_description:"Cash handed over by the customer, in cents"`
	TransactionNumber   string `json:"numero_transacao,omitempty" jsonschema:"maxLength=100"`
	AuthorizationNumber string `json:"numero_autorizacao,omitempty" jsonschema:"maxLength=100"`
}

type saleCreateBody struct {
	CustomerID    string            `json:"cliente_id,omitempty" jsonschema:"format=uuid"`
	SalespersonID string            `json:"vendedor_id,omitempty" jsonschema:"format=uuid"`
	DiscountTotal int64             `json:"desconto_total,omitempty" jsonschema:"minimum=0"`
	Notes         string            `json:"observacoes,omitempty"`
	CreatedBy     string            `json:"criado_por,omitempty" jsonschema:"maxLength=100"`
	Items         []saleItemBody    `json:"itens" jsonschema:"minItems=1"`
	Payments      []salePaymentBody `json:"pagamentos" jsonschema:"minItems=1"`
}

type saleUpdateBody struct {
	Status    *string `json:"status,omitempty" jsonschema:"enum=pendente,enum=concluida,enum=cancelada,enum=estornada"`
	Notes     *string `json:"observacoes,omitempty"`
	UpdatedBy string  `json:"atualizado_por,omitempty" jsonschema:"maxLength=100"`
}

type actorBody struct {
	UpdatedBy string `json:"atualizado_por,omitempty" jsonschema:"maxLength=100"`
}

type categoryBody struct {
	Name        string `json:"nome" jsonschema:"minLength=1,maxLength=255"`
	Description string `json:"descricao,omitempty"`
}

type productCreateBody struct {
	Name        string `json:"nome" jsonschema:"minLength=1,maxLength=255"`
	Description string `json:"descricao,omitempty"`
	Barcode     string `json:"codigo_barras,omitempty" jsonschema:"maxLength=255"`
	SKU         string `json:"sku,omitempty" jsonschema:"maxLength=255"`
	SalePrice   int64  `json:"preco_venda" jsonschema:"minimum=0"`
	CostPrice   int64  `json:"preco_custo,omitempty" jsonschema:"minimum=0"`
	Unit        string `json:"unidade_medida,omitempty" jsonschema:"enum=unidade,enum=kg,enum=g,enum=m,enum=cm,enum=mm,enum=l,enum=ml,enum=caixa,enum=pacote"`
	CategoryID  string `json:"categoria_id,omitempty" jsonschema:"format=uuid"`
	Status      string `json:"status,omitempty" jsonschema:"enum=ativo,enum=inativo,enum=esgotado,enum=promocao"`
	ImageURL    string `json:"imagem_url,omitempty" jsonschema:"maxLength=255"`
	Notes       string `json:"observacoes,omitempty"`
	CreatedBy   string `json:"criado_por,omitempty"`
}

type productUpdateBody struct {
	Name        *string `json:"nome,omitempty" jsonschema:"minLength=1,maxLength=255"`
	Description *string `json:"descricao,omitempty"`
	Barcode     *string `json:"codigo_barras,omitempty" jsonschema:"maxLength=255"`
	SKU         *string `json:"sku,omitempty" jsonschema:"maxLength=255"`
	SalePrice   *int64  `json:"preco_venda,omitempty" jsonschema:"minimum=0"`
	CostPrice   *int64  `json:"preco_custo,omitempty" jsonschema:"minimum=0"`
	Unit        *string `json:"unidade_medida,omitempty" jsonschema:"enum=unidade,enum=kg,enum=g,enum=m,enum=cm,enum=mm,enum=l,enum=ml,enum=caixa,enum=pacote"`
	CategoryID  *string `json:"categoria_id,omitempty" jsonschema_description:"Category UUID; an empty string removes the category"`
	Status      *string `json:"status,omitempty" jsonschema:"enum=ativo,enum=inativo,enum=esgotado,enum=promocao"`
	ImageURL    *string `json:"imagem_url,omitempty" jsonschema:"maxLength=255"`
	Notes       *string `json:"observacoes,omitempty"`
	UpdatedBy   string  `json:"atualizado_por,omitempty"`
}

type customerCreateBody struct {
	Name          string `json:"nome" jsonschema:"minLength=2,maxLength=255"`
	Type          string `json:"tipo,omitempty" jsonschema:"enum=pessoa_fisica,enum=pessoa_juridica"`
	Document      string `json:"cpf_cnpj,omitempty" jsonschema_description:"CPF (11 digits) or CNPJ (14 digits); punctuation is ignored"`
	StateID       string `json:"rg_ie,omitempty"`
	Email         string `json:"email,omitempty" jsonschema:"format=email"`
	Phone         string `json:"telefone,omitempty"`
	Mobile        string `json:"celular,omitempty"`
	Street        string `json:"endereco,omitempty"`
	Number        string `json:"numero,omitempty"`
	Complement    string `json:"complemento,omitempty"`
	District      string `json:"bairro,omitempty"`
	City          string `json:"cidade,omitempty"`
	State         string `json:"estado,omitempty" jsonschema:"minLength=2,maxLength=2"`
	PostalCode    string `json:"cep,omitempty"`
	BirthDate     string `json:"data_nascimento,omitempty" jsonschema:"format=date"`
	Occupation    string `json:"profissao,omitempty"`
	Notes         string `json:"observacoes,omitempty"`
	Status        string `json:"status,omitempty" jsonschema:"enum=ativo,enum=inativo,enum=bloqueado"`
	CreditLimit   int64  `json:"limite_credito,omitempty" jsonschema:"minimum=0"`
	LoyaltyPoints int    `json:"pontos_fidelidade,omitempty" jsonschema:"minimum=0"`
	CreatedBy     string `json:"criado_por,omitempty"`
}

type customerUpdateBody struct {
	Name          *string `json:"nome,omitempty" jsonschema:"minLength=2,maxLength=255"`
	Type          *string `json:"tipo,omitempty" jsonschema:"enum=pessoa_fisica,enum=pessoa_juridica"`
	Document      *string `json:"cpf_cnpj,omitempty"`
	StateID       *string `json:"rg_ie,omitempty"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"telefone,omitempty"`
	Mobile        *string `json:"celular,omitempty"`
	Street        *string `json:"endereco,omitempty"`
	Number        *string `json:"numero,omitempty"`
	Complement    *string `json:"complemento,omitempty"`
	District      *string `json:"bairro,omitempty"`
	City          *string `json:"cidade,omitempty"`
	State         *string `json:"estado,omitempty"`
	PostalCode    *string `json:"cep,omitempty"`
	BirthDate     *string `json:"data_nascimento,omitempty" jsonschema:"format=date"`
	Occupation    *string `json:"profissao,omitempty"`
	Notes         *string `json:"observacoes,omitempty"`
	Status        *string `json:"status,omitempty" jsonschema:"enum=ativo,enum=inativo,enum=bloqueado"`
	CreditLimit   *int64  `json:"limite_credito,omitempty" jsonschema:"minimum=0"`
	LoyaltyPoints *int    `json:"pontos_fidelidade,omitempty" jsonschema:"minimum=0"`
	UpdatedBy     string  `json:"atualizado_por,omitempty"`
}

// ── Conversions ──────────────────────────────────────────────────────────────

func (b saleCreateBody) toInput() (core.CreateSaleInput, error) {
	in := core.CreateSaleInput{
		DiscountTotal: core.Cents(b.DiscountTotal),
		Notes:         b.Notes,
		CreatedBy:     b.CreatedBy,
		Items:         make([]core.SaleItemInput, 0, len(b.Items)),
		Payments:      make([]core.SalePaymentInput, 0, len(b.Payments)),
	}
	var err error
	if in.CustomerID, err = parseOptionalUUID("cliente_id", b.CustomerID); err != nil {
		return in, err
	}
	if in.SalespersonID, err = parseOptionalUUID("vendedor_id", b.SalespersonID); err != nil {
		return in, err
	}
	for i, it := range b.Items {
		pid, err := parseOptionalUUID(fmt.Sprintf("itens[%d].produto_id", i), it.ProductID)
		if err != nil {
			return in, err
		}
		if pid == nil {
			return in, &core.ValidationError{Field: fmt.Sprintf("itens[%d].produto_id", i), Message: "is required"}
		}
		in.Items = append(in.Items, core.SaleItemInput{
			ProductID: *pid,
			Quantity:  it.Quantity,
			UnitPrice: core.Cents(it.UnitPrice),
			Discount:  core.Cents(it.Discount),
		})
	}
	for _, p := range b.Payments {
		var tendered *core.Cents
		if p.Tendered != nil {
			c := core.Cents(*p.Tendered)
			tendered = &c
		}
		in.Payments = append(in.Payments, core.SalePaymentInput{
			Method:              core.PaymentMethod(p.Method),
			Amount:              core.Cents(p.Amount),
			Tendered:            tendered,
			TransactionNumber:   p.TransactionNumber,
			AuthorizationNumber: p.AuthorizationNumber,
		})
	}
	return in, nil
}

func (b productCreateBody) toInput() (core.ProductInput, error) {
	categoryID, err := parseOptionalUUID("categoria_id", b.CategoryID)
	if err != nil {
		return core.ProductInput{}, err
	}
	return core.ProductInput{
		Name:        b.Name,
		Description: b.Description,
		Barcode:     b.Barcode,
		SKU:         b.SKU,
		SalePrice:   core.Cents(b.SalePrice),
		CostPrice:   core.Cents(b.CostPrice),
		Unit:        core.ProductUnit(b.Unit),
		CategoryID:  categoryID,
		Status:      core.ProductStatus(b.Status),
		ImageURL:    b.ImageURL,
		Notes:       b.Notes,
		CreatedBy:   b.CreatedBy,
	}, nil
}

func (b productUpdateBody) toPatch() (core.ProductPatch, error) {
	patch := core.ProductPatch{
		Name:        b.Name,
		Description: b.Description,
		Barcode:     b.Barcode,
		SKU:         b.SKU,
		SalePrice:   centsPtr(b.SalePrice),
		CostPrice:   centsPtr(b.CostPrice),
		ImageURL:    b.ImageURL,
		Notes:       b.Notes,
		UpdatedBy:   b.UpdatedBy,
	}
	if b.Unit != nil {
		u := core.ProductUnit(*b.Unit)
		patch.Unit = &u
	}
	if b.Status != nil {
		s := core.ProductStatus(*b.Status)
		patch.Status = &s
	}
	if b.CategoryID != nil {
		if *b.CategoryID == "" {
			patch.ClearCategory = true
		} else {
			id, err := parseOptionalUUID("categoria_id", *b.CategoryID)
			if err != nil {
				return patch, err
			}
			patch.CategoryID = id
		}
	}
	return patch, nil
}

func (b customerCreateBody) toInput() (core.CustomerInput, error) {
	birth, err := parseDate("data_nascimento", b.BirthDate)
	if err != nil {
		return core.CustomerInput{}, err
	}
	return core.CustomerInput{
		Name:          b.Name,
		Type:          core.CustomerType(b.Type),
		Document:      b.Document,
		StateID:       b.StateID,
		Email:         b.Email,
		Phone:         b.Phone,
		Mobile:        b.Mobile,
		Street:        b.Street,
		Number:        b.Number,
		Complement:    b.Complement,
		District:      b.District,
		City:          b.City,
		State:         b.State,
		PostalCode:    b.PostalCode,
		BirthDate:     birth,
		Occupation:    b.Occupation,
		Notes:         b.Notes,
		Status:        core.CustomerStatus(b.Status),
		CreditLimit:   core.Cents(b.CreditLimit),
		LoyaltyPoints: b.LoyaltyPoints,
		CreatedBy:     b.CreatedBy,
	}, nil
}

func (b customerUpdateBody) toPatch() (core.CustomerPatch, error) {
	patch := core.CustomerPatch{
		Name:          b.Name,
		Document:      b.Document,
		StateID:       b.StateID,
		Email:         b.Email,
		Phone:         b.Phone,
		Mobile:        b.Mobile,
		Street:        b.Street,
		Number:        b.Number,
		Complement:    b.Complement,
		District:      b.District,
		City:          b.City,
		State:         b.State,
		PostalCode:    b.PostalCode,
		Occupation:    b.Occupation,
		Notes:         b.Notes,
		CreditLimit:   centsPtr(b.CreditLimit),
		LoyaltyPoints: b.LoyaltyPoints,
		UpdatedBy:     b.UpdatedBy,
	}
	if b.Type != nil {
		t := core.CustomerType(*b.Type)
		patch.Type = &t
	}
	if b.Status != nil {
		s := core.CustomerStatus(*b.Status)
		patch.Status = &s
	}
	if b.BirthDate != nil {
		birth, err := parseDate("data_nascimento", *b.BirthDate)
		if err != nil {
			return patch, err
		}
		patch.BirthDate = birth
	}
	return patch, nil
}

func centsPtr(v *int64) *core.Cents {
	if v == nil {
		return nil
	}
	c := core.Cents(*v)
	return &c
}
