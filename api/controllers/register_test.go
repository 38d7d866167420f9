package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	clientsvc "github.com/foguel/delivery-backend/internal/clients"
	collaboratorsvc "github.com/foguel/delivery-backend/internal/collaborators"
	productsvc "github.com/foguel/delivery-backend/internal/products"
	pkgerrors "github.com/foguel/delivery-backend/pkg/errors"
	"github.com/foguel/delivery-backend/pkg/pagination"
)

type stubCollaborators struct {
	collaboratorsvc.Service
	created   collaboratorsvc.CreateInput
	updated   collaboratorsvc.UpdateInput
	params    pagination.Params
	deleteErr error
	summaries []collaboratorsvc.SummaryDTO
}

func (s *stubCollaborators) Create(_ context.Context, input collaboratorsvc.CreateInput) (*collaboratorsvc.CollaboratorDTO, error) {
	s.created = input
	return &collaboratorsvc.CollaboratorDTO{ID: uuid.New(), Nome: input.Nome, CPF: input.CPF, AccessCode: input.AccessCode}, nil
}

func (s *stubCollaborators) Update(_ context.Context, id uuid.UUID, input collaboratorsvc.UpdateInput) (*collaboratorsvc.CollaboratorDTO, error) {
	s.updated = input
	return &collaboratorsvc.CollaboratorDTO{ID: id}, nil
}

func (s *stubCollaborators) Delete(context.Context, uuid.UUID) error {
	return s.deleteErr
}

func (s *stubCollaborators) List(_ context.Context, params pagination.Params) (*collaboratorsvc.ListResult, error) {
	s.params = params
	return &collaboratorsvc.ListResult{Items: []collaboratorsvc.CollaboratorDTO{}, Pagination: pagination.NewMeta(params, 0)}, nil
}

func (s *stubCollaborators) ListSummaries(context.Context) ([]collaboratorsvc.SummaryDTO, error) {
	return s.summaries, nil
}

type stubProducts struct {
	productsvc.Service
	created productsvc.CreateInput
	all     []productsvc.ProductDTO
}

func (s *stubProducts) Create(_ context.Context, input productsvc.CreateInput) (*productsvc.ProductDTO, error) {
	s.created = input
	return &productsvc.ProductDTO{ID: uuid.New(), Nome: input.Nome, Preco: input.Preco}, nil
}

func (s *stubProducts) ListAll(context.Context) ([]productsvc.ProductDTO, error) {
	return s.all, nil
}

type stubClients struct {
	clientsvc.Service
	created clientsvc.CreateInput
	all     []clientsvc.ClientDTO
}

func (s *stubClients) Create(_ context.Context, input clientsvc.CreateInput) (*clientsvc.ClientDTO, error) {
	s.created = input
	return &clientsvc.ClientDTO{ID: uuid.New(), Nome: input.Nome, CNPJ: input.CNPJ}, nil
}

func (s *stubClients) ListAll(context.Context) ([]clientsvc.ClientDTO, error) {
	return s.all, nil
}

func TestCreateCollaboratorNormalizesCPF(t *testing.T) {
	svc := &stubCollaborators{}
	req := newRequest(http.MethodPost, "/register/colaboradores", `{"nome":" Ana ","cpf":"123.456.789-01","access_code":"1234"}`, nil)

	rec := serve(CreateCollaborator(svc, testLogger()), req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "Ana", svc.created.Nome)
	require.Equal(t, "12345678901", svc.created.CPF)
}

func TestCreateCollaboratorValidation(t *testing.T) {
	cases := map[string]string{
		"short cpf":     `{"nome":"Ana","cpf":"123","access_code":"1234"}`,
		"missing code":  `{"nome":"Ana","cpf":"12345678901"}`,
		"unknown field": `{"nome":"Ana","cpf":"12345678901","access_code":"1234","admin":true}`,
		"malformed":     `{"nome":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := serve(CreateCollaborator(&stubCollaborators{}, testLogger()), newRequest(http.MethodPost, "/register/colaboradores", body, nil))
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, string(pkgerrors.CodeValidation), errorCode(t, rec))
		})
	}
}

func TestUpdateCollaboratorPartial(t *testing.T) {
	svc := &stubCollaborators{}
	id := uuid.New()
	req := newRequest(http.MethodPut, "/register/colaboradores/"+id.String(), `{"cpf":"987.654.321-00"}`, map[string]string{"id": id.String()})

	rec := serve(UpdateCollaborator(svc, testLogger()), req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, svc.updated.Nome)
	require.NotNil(t, svc.updated.CPF)
	require.Equal(t, "98765432100", *svc.updated.CPF)
}

func TestUpdateCollaboratorInvalidID(t *testing.T) {
	req := newRequest(http.MethodPut, "/register/colaboradores/nope", `{}`, map[string]string{"id": "nope"})
	rec := serve(UpdateCollaborator(&stubCollaborators{}, testLogger()), req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteCollaboratorConflict(t *testing.T) {
	svc := &stubCollaborators{deleteErr: pkgerrors.New(pkgerrors.CodeConflict, "collaborator has 2 routes")}
	id := uuid.New()
	req := newRequest(http.MethodDelete, "/register/colaboradores/"+id.String(), "", map[string]string{"id": id.String()})

	rec := serve(DeleteCollaborator(svc, testLogger()), req)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestListCollaboratorsPagination(t *testing.T) {
	svc := &stubCollaborators{}

	rec := serve(ListCollaborators(svc, testLogger()), newRequest(http.MethodGet, "/register/colaboradores", "", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, pagination.Params{Page: 1, Limit: 50}, svc.params)

	rec = serve(ListCollaborators(svc, testLogger()), newRequest(http.MethodGet, "/register/colaboradores?page=3&limit=10", "", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, pagination.Params{Page: 3, Limit: 10}, svc.params)

	rec = serve(ListCollaborators(svc, testLogger()), newRequest(http.MethodGet, "/register/colaboradores?limit=500", "", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProductPrice(t *testing.T) {
	svc := &stubProducts{}
	rec := serve(CreateProduct(svc, testLogger()), newRequest(http.MethodPost, "/register/produtos", `{"nome":"Gás P13","preco":"119.90"}`, nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, decimal.RequireFromString("119.90").Equal(svc.created.Preco))

	rec = serve(CreateProduct(svc, testLogger()), newRequest(http.MethodPost, "/register/produtos", `{"nome":"Gás","preco":-1}`, nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(CreateProduct(svc, testLogger()), newRequest(http.MethodPost, "/register/produtos", `{"nome":"Gás"}`, nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateClientNormalizesDocuments(t *testing.T) {
	svc := &stubClients{}
	body := `{"nome":"Padaria Lua","cnpj":"12.345.678/0001-90","rua":"Rua A","numero":"10","bairro":"Centro","cidade":"Recife","cep":"50000-000"}`

	rec := serve(CreateClient(svc, testLogger()), newRequest(http.MethodPost, "/register/clientes", body, nil))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "12345678000190", svc.created.CNPJ)
	require.Equal(t, "50000000", svc.created.Address.CEP)
	require.Equal(t, "Recife", svc.created.Address.Cidade)
}

func TestRegisterAllCounts(t *testing.T) {
	collabs := &stubCollaborators{summaries: []collaboratorsvc.SummaryDTO{{ID: uuid.New(), Nome: "Ana"}, {ID: uuid.New(), Nome: "Bruno"}}}
	products := &stubProducts{all: []productsvc.ProductDTO{{ID: uuid.New(), Nome: "Gás"}}}
	clients := &stubClients{all: []clientsvc.ClientDTO{}}

	rec := serve(RegisterAll(collabs, products, clients, testLogger()), newRequest(http.MethodGet, "/register/all", "", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body registerAllResponse
	decodeData(t, rec, &body)
	require.Len(t, body.Colaboradores, 2)
	require.Equal(t, registerCounts{Colaboradores: 2, Produtos: 1, Clientes: 0}, body.Counts)
}

func TestRegisterHandlersWithoutService(t *testing.T) {
	rec := serve(ListProducts(nil, testLogger()), newRequest(http.MethodGet, "/register/produtos", "", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
