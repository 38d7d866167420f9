package types

import (
	"fmt"
	"strings"
)

// Address is the street address block of a client.
type Address struct {
	Rua    string `json:"rua"`
	Numero string `json:"numero"`
	Bairro string `json:"bairro"`
	Cidade string `json:"cidade"`
	CEP    string `json:"cep"`
}

// Format renders "rua, numero - bairro, cidade - CEP cep".
func (a Address) Format() string {
	return fmt.Sprintf("%s, %s - %s, %s - CEP %s",
		strings.TrimSpace(a.Rua),
		strings.TrimSpace(a.Numero),
		strings.TrimSpace(a.Bairro),
		strings.TrimSpace(a.Cidade),
		strings.TrimSpace(a.CEP),
	)
}
