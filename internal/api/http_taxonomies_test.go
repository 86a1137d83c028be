package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tagstore/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestListTaxonomiesVisibilityFilter(t *testing.T) {
	handler, repo := newTestHandler(t)
	ctx := context.Background()

	visible := entity.DbTaxonomy{Name: "Subjects", Enabled: true, VisibleToAuthors: true}
	require.NoError(t, repo.CreateTaxonomy(ctx, &visible))
	hidden := entity.DbTaxonomy{Name: "Internal", Enabled: true}
	require.NoError(t, repo.CreateTaxonomy(ctx, &hidden))

	router := gin.New()
	router.GET("/taxonomies", handler.ListTaxonomies)

	list := func(query string) entity.TaxonomyListResponse {
		t.Helper()
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/taxonomies"+query, nil)
		router.ServeHTTP(recorder, req)
		require.Equal(t, http.StatusOK, recorder.Code)

		var response entity.TaxonomyListResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		return response
	}

	all := list("")
	require.Len(t, all.Taxonomies, 2)

	authorFacing := list("?visible_to_authors=true")
	require.Len(t, authorFacing.Taxonomies, 1)
	require.Equal(t, visible.ID, authorFacing.Taxonomies[0].ID)

	internal := list("?visible_to_authors=false")
	require.Len(t, internal.Taxonomies, 1)
	require.Equal(t, hidden.ID, internal.Taxonomies[0].ID)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/taxonomies?visible_to_authors=banana", nil)
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	apiErr := decodeAPIError(t, recorder.Body.Bytes())
	require.Equal(t, ErrCodeInvalidRequest, apiErr.Code)
}
