package models

import (
	"time"

	"github.com/google/uuid"
)

// Collaborator is a driver. The access code is stored encrypted.
type Collaborator struct {
	ID                  uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Nome                string    `gorm:"column:nome;type:text;not null"`
	CPF                 string    `gorm:"column:cpf;type:text;not null;uniqueIndex:ux_collaborators_cpf"`
	EncryptedAccessCode string    `gorm:"column:encrypted_access_code;type:text;not null"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Collaborator) TableName() string { return "collaborators" }
