package core

import (
	"time"

	"github.com/google/uuid"
)

type CustomerType string

const (
	CustomerPerson  CustomerType = "pessoa_fisica"
	CustomerCompany CustomerType = "pessoa_juridica"
)

func (t CustomerType) Valid() bool {
	return t == CustomerPerson || t == CustomerCompany
}

// DocumentLength is the number of digits of a CPF (person) or CNPJ (company).
func (t CustomerType) DocumentLength() int {
	if t == CustomerCompany {
		return 14
	}
	return 11
}

type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "ativo"
	CustomerInactive CustomerStatus = "inativo"
	CustomerBlocked  CustomerStatus = "bloqueado"
)

func (s CustomerStatus) Valid() bool {
	switch s {
	case CustomerActive, CustomerInactive, CustomerBlocked:
		return true
	}
	return false
}

// Customer is a registered buyer. Document holds CPF/CNPJ digits only.
type Customer struct {
	ID            uuid.UUID      `json:"id"`
	Name          string         `json:"nome"`
	Type          CustomerType   `json:"tipo"`
	Document      string         `json:"cpf_cnpj"`
	StateID       string         `json:"rg_ie"`
	Email         string         `json:"email"`
	Phone         string         `json:"telefone"`
	Mobile        string         `json:"celular"`
	Street        string         `json:"endereco"`
	Number        string         `json:"numero"`
	Complement    string         `json:"complemento"`
	District      string         `json:"bairro"`
	City          string         `json:"cidade"`
	State         string         `json:"estado"`
	PostalCode    string         `json:"cep"`
	BirthDate     *time.Time     `json:"data_nascimento,omitempty"`
	Occupation    string         `json:"profissao"`
	Notes         string         `json:"observacoes"`
	Status        CustomerStatus `json:"status"`
	CreditLimit   Cents          `json:"limite_credito"`
	LoyaltyPoints int            `json:"pontos_fidelidade"`
	CreatedAt     time.Time      `json:"data_criacao"`
	UpdatedAt     *time.Time     `json:"data_atualizacao,omitempty"`
	CreatedBy     string         `json:"criado_por"`
	UpdatedBy     string         `json:"atualizado_por"`
}

// CustomerInput creates a customer. Empty Status defaults to ativo.
type CustomerInput struct {
	Name          string
	Type          CustomerType
	Document      string
	StateID       string
	Email         string
	Phone         string
	Mobile        string
	Street        string
	Number        string
	Complement    string
	District      string
	City          string
	State         string
	PostalCode    string
	BirthDate     *time.Time
	Occupation    string
	Notes         string
	Status        CustomerStatus
	CreditLimit   Cents
	LoyaltyPoints int
	CreatedBy     string
}

// CustomerPatch is a partial customer update; nil fields are left unchanged.
type CustomerPatch struct {
	Name          *string
	Type          *CustomerType
	Document      *string
	StateID       *string
	Email         *string
	Phone         *string
	Mobile        *string
	Street        *string
	Number        *string
	Complement    *string
	District      *string
	City          *string
	State         *string
	PostalCode    *string
	BirthDate     *time.Time
	Occupation    *string
	Notes         *string
	Status        *CustomerStatus
	CreditLimit   *Cents
	LoyaltyPoints *int
	UpdatedBy     string
}

type CustomerFilter struct {
	Name     string
	Type     *CustomerType
	Status   *CustomerStatus
	City     string
	State    string
	Document string
	Email    string
}

type CustomerStats struct {
	Total    int                    `json:"total_clientes"`
	ByStatus map[CustomerStatus]int `json:"por_status"`
	ByType   map[CustomerType]int   `json:"por_tipo"`
}
