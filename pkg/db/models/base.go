package models

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// assignID fills a zero primary key before insert so rows get ids on any driver.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (c *Collaborator) BeforeCreate(*gorm.DB) error { assignID(&c.ID); return nil }
func (c *Client) BeforeCreate(*gorm.DB) error       { assignID(&c.ID); return nil }
func (p *Product) BeforeCreate(*gorm.DB) error      { assignID(&p.ID); return nil }
func (o *OutboxEvent) BeforeCreate(*gorm.DB) error  { assignID(&o.ID); return nil }
func (o *OutboxDLQ) BeforeCreate(*gorm.DB) error    { assignID(&o.ID); return nil }

// All lists every persisted model, in dependency order.
func All() []any {
	return []any{
		&Collaborator{},
		&Client{},
		&Product{},
		&Route{},
		&Activity{},
		&OutboxEvent{},
		&OutboxDLQ{},
	}
}

// BeforeCreate assigns the id and an empty produtos array.
func (r *Route) BeforeCreate(*gorm.DB) error {
	assignID(&r.ID)
	if len(r.Produtos) == 0 {
		r.Produtos = json.RawMessage("[]")
	}
	return nil
}
