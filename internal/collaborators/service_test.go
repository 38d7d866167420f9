package collaborators

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/foguel/delivery-backend/pkg/config"
	"github.com/foguel/delivery-backend/pkg/db/dbtest"
	"github.com/foguel/delivery-backend/pkg/db/models"
	pkgerrors "github.com/foguel/delivery-backend/pkg/errors"
	"github.com/foguel/delivery-backend/pkg/pagination"
	"github.com/foguel/delivery-backend/pkg/security"
	"github.com/foguel/delivery-backend/pkg/types"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	client := dbtest.Client(t)
	cipher, err := security.NewAccessCodeCipher(config.CryptoConfig{AccessCodeSecret: "test-secret"})
	require.NoError(t, err)
	repo := NewRepository(client.DB())
	svc, err := NewService(repo, client, cipher)
	require.NoError(t, err)
	return svc, repo
}

func TestCreateEncryptsAccessCode(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	dto, err := svc.Create(ctx, CreateInput{Nome: " Maria ", CPF: "12345678901", AccessCode: "4821"})
	require.NoError(t, err)
	require.Equal(t, "Maria", dto.Nome)
	require.Equal(t, "4821", dto.AccessCode)

	stored, err := repo.FindByID(ctx, dto.ID)
	require.NoError(t, err)
	require.NotEqual(t, "4821", stored.EncryptedAccessCode)
	require.NotEmpty(t, stored.EncryptedAccessCode)
}

func TestCreateDuplicateCPFConflicts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, CreateInput{Nome: "A", CPF: "12345678901", AccessCode: "1"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{Nome: "B", CPF: "12345678901", AccessCode: "2"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "got %v", err)
}

func TestCreateRequiresFields(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), CreateInput{Nome: "A", CPF: "12345678901"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdatePartial(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	first, err := svc.Create(ctx, CreateInput{Nome: "A", CPF: "11111111111", AccessCode: "1"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Nome: "B", CPF: "22222222222", AccessCode: "2"})
	require.NoError(t, err)

	taken := "22222222222"
	_, err = svc.Update(ctx, first.ID, UpdateInput{CPF: &taken})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "got %v", err)

	nome, code := "Ana", "9999"
	updated, err := svc.Update(ctx, first.ID, UpdateInput{Nome: &nome, AccessCode: &code})
	require.NoError(t, err)
	require.Equal(t, "Ana", updated.Nome)
	require.Equal(t, "11111111111", updated.CPF)
	require.Equal(t, "9999", updated.AccessCode)

	_, err = svc.Update(ctx, uuid.New(), UpdateInput{Nome: &nome})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "got %v", err)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	free, err := svc.Create(ctx, CreateInput{Nome: "Free", CPF: "11111111111", AccessCode: "1"})
	require.NoError(t, err)
	busy, err := svc.Create(ctx, CreateInput{Nome: "Busy", CPF: "22222222222", AccessCode: "2"})
	require.NoError(t, err)

	client := &models.Client{Nome: "Loja", CNPJ: "12345678000199"}
	require.NoError(t, repo.DB(ctx).Create(client).Error)
	route := &models.Route{ColaboradorID: busy.ID, ClienteID: client.ID, DataEntrega: types.DateOf(time.Now()), Sequence: 1}
	require.NoError(t, repo.DB(ctx).Create(route).Error)

	require.True(t, pkgerrors.IsCode(svc.Delete(ctx, busy.ID), pkgerrors.CodeConflict))
	require.NoError(t, svc.Delete(ctx, free.ID))
	require.True(t, pkgerrors.IsCode(svc.Delete(ctx, free.ID), pkgerrors.CodeNotFound))
}

func TestListAndSummaries(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	var ids []uuid.UUID
	for _, n := range []struct{ nome, cpf string }{{"Carlos", "33333333333"}, {"Ana", "11111111111"}, {"Bruno", "22222222222"}} {
		dto, err := svc.Create(ctx, CreateInput{Nome: n.nome, CPF: n.cpf, AccessCode: "0000"})
		require.NoError(t, err)
		ids = append(ids, dto.ID)
	}

	page, err := svc.List(ctx, pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.Equal(t, "Ana", page.Items[0].Nome)
	require.Equal(t, "0000", page.Items[0].AccessCode)
	require.Equal(t, int64(3), page.Pagination.Total)
	require.Equal(t, 2, page.Pagination.TotalPages)

	summaries, err := svc.ListSummaries(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Ana", "Bruno", "Carlos"}, []string{summaries[0].Nome, summaries[1].Nome, summaries[2].Nome})

	names, err := repo.NamesByIDs(ctx, []uuid.UUID{ids[0], uuid.New()})
	require.NoError(t, err)
	require.Equal(t, map[string]string{ids[0].String(): "Carlos"}, names)
}
