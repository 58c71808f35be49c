package category_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/access"
	"github.com/MrJamesThe3rd/tally/internal/category"
	categoryhttp "github.com/MrJamesThe3rd/tally/internal/http/category"
	"github.com/MrJamesThe3rd/tally/internal/http/guard"
)

// roleEngine grants the fixed role's permissions on any account.
type roleEngine struct {
	role access.Role
}

func (e roleEngine) Authorize(_ context.Context, p access.Principal, accountID uuid.UUID, required ...access.Permission) (access.Grant, error) {
	return access.Decide(p, &access.Membership{Role: e.role, AccountState: access.AccountActive}, accountID, required...)
}

func newRouter(repo category.Repository, role access.Role, admin bool) http.Handler {
	h := categoryhttp.NewHandler(category.NewService(repo), roleEngine{role: role})
	principal := access.Principal{UserID: uuid.New(), IsAdmin: admin}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(access.WithPrincipal(r.Context(), principal)))
		})
	})
	r.Route("/accounts/{"+guard.AccountParam+"}/categories", h.Routes)
	r.Route("/categories/global", h.GlobalRoutes)

	return r
}

func TestHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := category.NewMockRepository(ctrl)
	accountID := uuid.New()

	repo.EXPECT().
		List(gomock.Any(), &accountID, new(category.TypeExpense)).
		Return([]*category.Category{
			{ID: uuid.New(), AccountID: &accountID, Name: "Food", Type: category.TypeExpense},
			{ID: uuid.New(), Name: "Other", Type: category.TypeBoth, Global: true},
		}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/accounts/"+accountID.String()+"/categories?type=expense", nil)
	newRouter(repo, access.RoleReadonly, false).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body, 2)
	assert.Equal(t, "Food", body[0]["name"])
	assert.Equal(t, true, body[1]["isGlobal"])
}

func TestHandler_Create(t *testing.T) {
	accountID := uuid.New()
	path := "/accounts/" + accountID.String() + "/categories"

	t.Run("Owner", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := category.NewMockRepository(ctrl)

		repo.EXPECT().NameExists(gomock.Any(), &accountID, "Rent", uuid.Nil).Return(false, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, c *category.Category) error {
			c.ID = uuid.New()
			return nil
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"name":" Rent ","type":"expense"}`))
		newRouter(repo, access.RoleOwner, false).ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var body map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "Rent", body["name"])
		assert.Equal(t, accountID.String(), body["accountId"])
	})

	t.Run("EditorCannotManage", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := category.NewMockRepository(ctrl)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"name":"Rent","type":"expense"}`))
		newRouter(repo, access.RoleEditor, false).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("DuplicateName", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := category.NewMockRepository(ctrl)

		repo.EXPECT().NameExists(gomock.Any(), &accountID, "Rent", uuid.Nil).Return(true, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"name":"Rent","type":"expense"}`))
		newRouter(repo, access.RoleOwner, false).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_GlobalWritesNeedAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := category.NewMockRepository(ctrl)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/categories/global/"+uuid.NewString(), nil)
	newRouter(repo, access.RoleOwner, false).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
