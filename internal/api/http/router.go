package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"tracklet-backend/internal/domain"
	"tracklet-backend/internal/security"
	"tracklet-backend/internal/service"
)

// Services bundles everything the router serves.
type Services struct {
	EventTypes     service.CatalogService[domain.EventType]
	Venues         service.CatalogService[domain.Venue]
	Planners       service.CatalogService[domain.Planner]
	FurnitureItems service.CatalogService[domain.FurnitureItem]
	RentalAssets   service.CatalogService[domain.RentalAsset]
	Customers      service.LookupService[domain.Customer]
	Owners         service.LookupService[domain.Owner]
	Events         service.EventService
	Furniture      service.FurnitureService
	Rentals        service.RentalService
}

type statusVocabulary struct {
	Name   string              `json:"name"`
	Values []domain.StatusInfo `json:"values"`
}

// NewRouter wires every endpoint. Routes of a disabled module answer 404
// before authentication runs.
func NewRouter(svc Services, tokens security.TokenManager, modules domain.Modules, loc *time.Location) *mux.Router {
	if loc == nil {
		loc = time.UTC
	}

	root := mux.NewRouter()
	root.Use(requestID, accessLog)
	root.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not found.")
	})
	root.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method \""+r.Method+"\" not allowed.")
	})

	auth := authenticate(tokens)
	salesOrder := requireRuleset(domain.RulesetSalesOrder)
	tracklet := root.PathPrefix("/api/tracklet").Subrouter()

	meta := tracklet.NewRoute().Subrouter()
	meta.Use(auth)
	meta.HandleFunc("/status/", statusHandler).Methods(http.MethodGet)
	meta.HandleFunc("/modules/", modulesHandler(modules)).Methods(http.MethodGet)

	events := tracklet.NewRoute().Subrouter()
	events.Use(requireModule(modules, domain.ModuleEvents), auth, salesOrder)
	registerCatalog(events, "/event-types", svc.EventTypes, func(t *domain.EventType) *int32 { return &t.ID })
	registerCatalog(events, "/venues", svc.Venues, func(v *domain.Venue) *int32 { return &v.ID })
	registerCatalog(events, "/planners", svc.Planners, func(p *domain.Planner) *int32 { return &p.ID })
	registerCatalog(events, "/furniture-items", svc.FurnitureItems, func(i *domain.FurnitureItem) *int32 { return &i.ID })
	NewEventHandler(svc.Events, loc).register(events)
	furniture := NewFurnitureHandler(svc.Furniture)
	furniture.register(events, "/event-furniture")
	furniture.register(events, "/furniture-assignments")

	rentals := tracklet.NewRoute().Subrouter()
	rentals.Use(requireModule(modules, domain.ModuleRentals), auth, salesOrder)
	registerCatalog(rentals, "/rental-assets", svc.RentalAssets, func(a *domain.RentalAsset) *int32 { return &a.ID })
	NewRentalHandler(svc.Rentals, loc).register(rentals)

	lookups := root.PathPrefix("/api").Subrouter()
	lookups.Use(auth, salesOrder)
	registerLookup(lookups, "/company", svc.Customers)
	registerLookup(lookups, "/owner", svc.Owners)

	return root
}

func statusHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]statusVocabulary{
		"event":                {Name: domain.EventStatuses.Name(), Values: domain.EventStatuses.Entries()},
		"furniture_assignment": {Name: domain.AssignmentStatuses.Name(), Values: domain.AssignmentStatuses.Entries()},
		"rental_order":         {Name: domain.RentalOrderStatuses.Name(), Values: domain.RentalOrderStatuses.Entries()},
	})
}

func modulesHandler(modules domain.Modules) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, modules.Snapshot())
	}
}
