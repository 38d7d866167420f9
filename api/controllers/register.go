package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/foguel/delivery-backend/api/responses"
	"github.com/foguel/delivery-backend/api/validators"
	clientsvc "github.com/foguel/delivery-backend/internal/clients"
	collaboratorsvc "github.com/foguel/delivery-backend/internal/collaborators"
	productsvc "github.com/foguel/delivery-backend/internal/products"
	pkgerrors "github.com/foguel/delivery-backend/pkg/errors"
	"github.com/foguel/delivery-backend/pkg/logger"
)

type createCollaboratorRequest struct {
	Nome       string `json:"nome" validate:"required,max=120"`
	CPF        string `json:"cpf" validate:"required,cpf"`
	AccessCode string `json:"access_code" validate:"required,min=4,max=64"`
}

type updateCollaboratorRequest struct {
	Nome       *string `json:"nome" validate:"omitempty,max=120"`
	CPF        *string `json:"cpf" validate:"omitempty,cpf"`
	AccessCode *string `json:"access_code" validate:"omitempty,min=4,max=64"`
}

// CreateCollaborator registers a driver with an encrypted access code.
func CreateCollaborator(svc collaboratorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("collaborator"))
			return
		}

		var payload createCollaboratorRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), collaboratorsvc.CreateInput{
			Nome:       strings.TrimSpace(payload.Nome),
			CPF:        validators.Digits(payload.CPF),
			AccessCode: payload.AccessCode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func UpdateCollaborator(svc collaboratorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("collaborator"))
			return
		}

		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCollaboratorRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), id, collaboratorsvc.UpdateInput{
			Nome:       trimmedPtr(payload.Nome),
			CPF:        digitsPtr(payload.CPF),
			AccessCode: payload.AccessCode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}

func DeleteCollaborator(svc collaboratorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("collaborator"))
			return
		}

		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, messageResponse{Message: "Collaborator deleted"})
	}
}

// ListCollaborators returns one page with decrypted access codes for the admin console.
func ListCollaborators(svc collaboratorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("collaborator"))
			return
		}

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type createClientRequest struct {
	Nome   string `json:"nome" validate:"required,max=160"`
	CNPJ   string `json:"cnpj" validate:"required,cnpj"`
	Rua    string `json:"rua" validate:"max=160"`
	Numero string `json:"numero" validate:"max=20"`
	Bairro string `json:"bairro" validate:"max=120"`
	Cidade string `json:"cidade" validate:"max=120"`
	CEP    string `json:"cep" validate:"max=9"`
}

type updateClientRequest struct {
	Nome   *string `json:"nome" validate:"omitempty,max=160"`
	CNPJ   *string `json:"cnpj" validate:"omitempty,cnpj"`
	Rua    *string `json:"rua" validate:"omitempty,max=160"`
	Numero *string `json:"numero" validate:"omitempty,max=20"`
	Bairro *string `json:"bairro" validate:"omitempty,max=120"`
	Cidade *string `json:"cidade" validate:"omitempty,max=120"`
	CEP    *string `json:"cep" validate:"omitempty,max=9"`
}

func CreateClient(svc clientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("client"))
			return
		}

		var payload createClientRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), clientsvc.CreateInput{
			Nome: strings.TrimSpace(payload.Nome),
			CNPJ: validators.Digits(payload.CNPJ),
			Address: clientsvc.AddressInput{
				Rua:    strings.TrimSpace(payload.Rua),
				Numero: strings.TrimSpace(payload.Numero),
				Bairro: strings.TrimSpace(payload.Bairro),
				Cidade: strings.TrimSpace(payload.Cidade),
				CEP:    validators.Digits(payload.CEP),
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func UpdateClient(svc clientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("client"))
			return
		}

		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateClientRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), id, clientsvc.UpdateInput{
			Nome:   trimmedPtr(payload.Nome),
			CNPJ:   digitsPtr(payload.CNPJ),
			Rua:    trimmedPtr(payload.Rua),
			Numero: trimmedPtr(payload.Numero),
			Bairro: trimmedPtr(payload.Bairro),
			Cidade: trimmedPtr(payload.Cidade),
			CEP:    digitsPtr(payload.CEP),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}

func DeleteClient(svc clientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("client"))
			return
		}

		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, messageResponse{Message: "Client deleted"})
	}
}

func ListClients(svc clientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("client"))
			return
		}

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type createProductRequest struct {
	Nome  string           `json:"nome" validate:"required,max=160"`
	Preco *decimal.Decimal `json:"preco" validate:"required"`
}

type updateProductRequest struct {
	Nome  *string          `json:"nome" validate:"omitempty,max=160"`
	Preco *decimal.Decimal `json:"preco"`
}

func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("product"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := checkPrice(payload.Preco); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), productsvc.CreateInput{
			Nome:  strings.TrimSpace(payload.Nome),
			Preco: *payload.Preco,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("product"))
			return
		}

		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := checkPrice(payload.Preco); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), id, productsvc.UpdateInput{
			Nome:  trimmedPtr(payload.Nome),
			Preco: payload.Preco,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}

func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("product"))
			return
		}

		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, messageResponse{Message: "Product deleted"})
	}
}

func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("product"))
			return
		}

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func checkPrice(preco *decimal.Decimal) error {
	if preco != nil && preco.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"preco": "must be greater than or equal to 0"})
	}
	return nil
}

type registerCounts struct {
	Colaboradores int `json:"colaboradores"`
	Produtos      int `json:"produtos"`
	Clientes      int `json:"clientes"`
}

type registerAllResponse struct {
	Colaboradores []collaboratorsvc.SummaryDTO `json:"colaboradores"`
	Produtos      []productsvc.ProductDTO      `json:"produtos"`
	Clientes      []clientsvc.ClientDTO        `json:"clientes"`
	Counts        registerCounts               `json:"counts"`
}

// RegisterAll returns every collaborator, product and client for the route form pickers.
func RegisterAll(collaborators collaboratorsvc.Service, products productsvc.Service, clients clientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if collaborators == nil || products == nil || clients == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("register"))
			return
		}
		ctx := r.Context()

		colabs, err := collaborators.ListSummaries(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		prods, err := products.ListAll(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		clis, err := clients.ListAll(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, registerAllResponse{
			Colaboradores: colabs,
			Produtos:      prods,
			Clientes:      clis,
			Counts: registerCounts{
				Colaboradores: len(colabs),
				Produtos:      len(prods),
				Clientes:      len(clis),
			},
		})
	}
}
