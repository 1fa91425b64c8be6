package app

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/limiter"
	middleware "github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/middleware/http"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/service"
)

// RouterDeps collects the handlers and middleware the router wires together.
type RouterDeps struct {
	Books    *service.BookHandler
	Teachers *service.TeacherHandler
	Bills    *service.BillHandler
	Payments *service.PaymentHandler
	Health   *service.HealthHandler

	Operator       middleware.OperatorMiddleware
	LimiterManager *limiter.Manager // nil disables rate limiting
}

// NewRouter assembles the HTTP route table.
func NewRouter(deps RouterDeps) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", deps.Health.Check).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(mux.MiddlewareFunc(deps.Operator))
	if deps.LimiterManager != nil {
		api.Use(mux.MiddlewareFunc(middleware.CreateRateLimitMiddleware(deps.LimiterManager, "default")))
	}

	api.HandleFunc("/books", deps.Books.Create).Methods(http.MethodPost)
	api.HandleFunc("/books", deps.Books.List).Methods(http.MethodGet)
	api.HandleFunc("/books/{id}", deps.Books.Get).Methods(http.MethodGet)
	api.HandleFunc("/books/{id}", deps.Books.Update).Methods(http.MethodPut)
	api.HandleFunc("/books/{id}", deps.Books.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/teachers", deps.Teachers.Create).Methods(http.MethodPost)
	api.HandleFunc("/teachers", deps.Teachers.List).Methods(http.MethodGet)
	api.HandleFunc("/teachers/{id}", deps.Teachers.Get).Methods(http.MethodGet)
	api.HandleFunc("/teachers/{id}", deps.Teachers.Update).Methods(http.MethodPut)
	api.HandleFunc("/teachers/{id}", deps.Teachers.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/bills", deps.Bills.Create).Methods(http.MethodPost)
	api.HandleFunc("/bills", deps.Bills.List).Methods(http.MethodGet)
	api.HandleFunc("/bills/{id}", deps.Bills.Get).Methods(http.MethodGet)
	api.HandleFunc("/bills/{id}", deps.Bills.Update).Methods(http.MethodPut)
	api.HandleFunc("/bills/{id}", deps.Bills.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/payments/bill/{billId}", deps.Payments.ListByBill).Methods(http.MethodGet)

	// Payment creation gets its own, tighter rate limit policy.
	createPayment := http.HandlerFunc(deps.Payments.Create)
	if deps.LimiterManager != nil {
		limited := middleware.CreateRateLimitMiddleware(deps.LimiterManager, "create_payment")(createPayment)
		api.Handle("/payments", limited).Methods(http.MethodPost)
	} else {
		api.Handle("/payments", createPayment).Methods(http.MethodPost)
	}
	api.HandleFunc("/payments/{id}", deps.Payments.Get).Methods(http.MethodGet)
	api.HandleFunc("/payments/{id}", deps.Payments.Delete).Methods(http.MethodDelete)

	return r
}
