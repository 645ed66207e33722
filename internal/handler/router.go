package handler

import (
	"net/http"
	"strings"
)

// Routes collects the handlers mounted by NewRouter. Limiter, Media and
// Metrics are optional.
type Routes struct {
	Base    *Handler
	Catalog *CatalogHandler
	Contact *ContactHandler

	// Limiter guards contact submission.
	Limiter *RateLimiter

	// Media serves stored images under MediaPrefix (e.g. "/media").
	Media       http.Handler
	MediaPrefix string

	Metrics http.Handler
}

// NewRouter registers every endpoint on a new ServeMux. Methods other than
// the registered one get 405 from the mux.
func NewRouter(rt Routes) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", rt.Base.Health)

	mux.HandleFunc("GET /api/categories", rt.Catalog.ListCategories)
	mux.HandleFunc("GET /api/categories/{id}", rt.Catalog.GetCategory)
	mux.HandleFunc("GET /api/categories/{id}/products", rt.Catalog.ListCategoryProducts)
	mux.HandleFunc("GET /api/products", rt.Catalog.ListProducts)
	mux.HandleFunc("GET /api/products/featured", rt.Catalog.ListFeatured)
	mux.HandleFunc("GET /api/products/by_category", rt.Catalog.ListByCategory)
	mux.HandleFunc("GET /api/products/{id}", rt.Catalog.GetProduct)

	var submit http.Handler = http.HandlerFunc(rt.Contact.Submit)
	if rt.Limiter != nil {
		submit = rt.Limiter.Middleware(submit)
	}
	mux.Handle("POST /api/contacts", submit)

	if rt.Media != nil {
		prefix := "/" + strings.Trim(rt.MediaPrefix, "/") + "/"
		mux.Handle("GET "+prefix, http.StripPrefix(prefix, noDirListing(rt.Media)))
	}
	if rt.Metrics != nil {
		mux.Handle("GET /metrics", rt.Metrics)
	}
	return mux
}

// noDirListing answers 404 for directory paths so a file server only ever
// returns files.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
