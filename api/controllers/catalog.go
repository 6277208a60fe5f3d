package controllers

import (
	"net/http"

	"github.com/foodsupplychain/procurement/api/middleware"
	"github.com/foodsupplychain/procurement/api/responses"
	"github.com/foodsupplychain/procurement/api/validators"
	"github.com/foodsupplychain/procurement/internal/catalog"
	"github.com/foodsupplychain/procurement/pkg/enums"
	pkgerrors "github.com/foodsupplychain/procurement/pkg/errors"
	"github.com/foodsupplychain/procurement/pkg/logger"
)

const maxSearchLength = 100

type catalogResponse struct {
	Products   []catalog.Product       `json:"products"`
	Categories []enums.ProductCategory `json:"categories"`
	Total      int                     `json:"total"`
}

// CatalogList returns the orderable products matching ?q= and ?category=.
func CatalogList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		sess, err := middleware.SessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := enums.ParseProductCategory(r.URL.Query().Get("category"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category").WithDetails(map[string]any{"field": "category"}))
			return
		}

		query, err := validators.ParseSearchQuery(r, "q", maxSearchLength)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.Browse(r.Context(), sess, catalog.BrowseQuery{
			Query:    query,
			Category: category,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, catalogResponse{
			Products:   listing.Products,
			Categories: listing.Categories,
			Total:      listing.Total,
		})
	}
}
