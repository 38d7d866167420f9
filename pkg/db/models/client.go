package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/foguel/delivery-backend/pkg/types"
)

// Client is a delivery recipient business.
type Client struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Nome      string    `gorm:"column:nome;type:text;not null"`
	CNPJ      string    `gorm:"column:cnpj;type:text;not null;uniqueIndex:ux_clients_cnpj"`
	Rua       string    `gorm:"column:rua;type:text;not null;default:''"`
	Numero    string    `gorm:"column:numero;type:text;not null;default:''"`
	Bairro    string    `gorm:"column:bairro;type:text;not null;default:''"`
	Cidade    string    `gorm:"column:cidade;type:text;not null;default:''"`
	CEP       string    `gorm:"column:cep;type:text;not null;default:''"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Client) TableName() string { return "clients" }

// Address returns the street address block.
func (c Client) Address() types.Address {
	return types.Address{Rua: c.Rua, Numero: c.Numero, Bairro: c.Bairro, Cidade: c.Cidade, CEP: c.CEP}
}
