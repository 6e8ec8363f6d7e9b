// Package payasyougo предоставляет маршруты для основного приложения.
package payasyougo

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/payasyougo/payasyougo/internal/http/handlers/auth/login"
	"github.com/payasyougo/payasyougo/internal/http/handlers/auth/register"
	clientcreate "github.com/payasyougo/payasyougo/internal/http/handlers/client/create"
	clientlist "github.com/payasyougo/payasyougo/internal/http/handlers/client/list"
	clientread "github.com/payasyougo/payasyougo/internal/http/handlers/client/read"
	clientremove "github.com/payasyougo/payasyougo/internal/http/handlers/client/remove"
	clientupdate "github.com/payasyougo/payasyougo/internal/http/handlers/client/update"
	expensecreate "github.com/payasyougo/payasyougo/internal/http/handlers/expense/create"
	expenselist "github.com/payasyougo/payasyougo/internal/http/handlers/expense/list"
	expenseread "github.com/payasyougo/payasyougo/internal/http/handlers/expense/read"
	expenseremove "github.com/payasyougo/payasyougo/internal/http/handlers/expense/remove"
	expenseupdate "github.com/payasyougo/payasyougo/internal/http/handlers/expense/update"
	"github.com/payasyougo/payasyougo/internal/http/handlers/health"
	invoicecreate "github.com/payasyougo/payasyougo/internal/http/handlers/invoice/create"
	invoicelist "github.com/payasyougo/payasyougo/internal/http/handlers/invoice/list"
	invoiceread "github.com/payasyougo/payasyougo/internal/http/handlers/invoice/read"
	invoiceremove "github.com/payasyougo/payasyougo/internal/http/handlers/invoice/remove"
	invoiceupdate "github.com/payasyougo/payasyougo/internal/http/handlers/invoice/update"
	itemcreate "github.com/payasyougo/payasyougo/internal/http/handlers/invoiceitem/create"
	itemlist "github.com/payasyougo/payasyougo/internal/http/handlers/invoiceitem/list"
	itemread "github.com/payasyougo/payasyougo/internal/http/handlers/invoiceitem/read"
	itemremove "github.com/payasyougo/payasyougo/internal/http/handlers/invoiceitem/remove"
	itemupdate "github.com/payasyougo/payasyougo/internal/http/handlers/invoiceitem/update"
	settingsget "github.com/payasyougo/payasyougo/internal/http/handlers/settings/get"
	settingsupdate "github.com/payasyougo/payasyougo/internal/http/handlers/settings/update"
	taxcreate "github.com/payasyougo/payasyougo/internal/http/handlers/taxestimation/create"
	taxget "github.com/payasyougo/payasyougo/internal/http/handlers/taxestimation/get"
	taxupdate "github.com/payasyougo/payasyougo/internal/http/handlers/taxestimation/update"
	timeentrycreate "github.com/payasyougo/payasyougo/internal/http/handlers/timeentry/create"
	timeentrylist "github.com/payasyougo/payasyougo/internal/http/handlers/timeentry/list"
	timeentryread "github.com/payasyougo/payasyougo/internal/http/handlers/timeentry/read"
	timeentryremove "github.com/payasyougo/payasyougo/internal/http/handlers/timeentry/remove"
	timeentryupdate "github.com/payasyougo/payasyougo/internal/http/handlers/timeentry/update"
	"github.com/payasyougo/payasyougo/internal/http/middlewarectx"
	"github.com/payasyougo/payasyougo/internal/lib/jwt"
	authservice "github.com/payasyougo/payasyougo/internal/services/auth"
	clientservice "github.com/payasyougo/payasyougo/internal/services/client"
	expenseservice "github.com/payasyougo/payasyougo/internal/services/expense"
	invoiceservice "github.com/payasyougo/payasyougo/internal/services/invoice"
	settingservice "github.com/payasyougo/payasyougo/internal/services/settings"
	taxestimservice "github.com/payasyougo/payasyougo/internal/services/taxestim"
	timeentryservice "github.com/payasyougo/payasyougo/internal/services/timeentry"
)

// Services объединяет все сервисы бизнес-логики приложения.
type Services struct {
	Auth      *authservice.AuthService
	Client    *clientservice.ClientService
	Invoice   *invoiceservice.InvoiceService
	TimeEntry *timeentryservice.TimeEntryService
	Expense   *expenseservice.ExpenseService
	Setting   *settingservice.SettingService
	TaxEstim  *taxestimservice.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker, svc *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, svc.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, svc.Auth).ServeHTTP)

		// Группа с токенной аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.TokenMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/clients", clientcreate.New(logger, svc.Client).ServeHTTP)
			r.Get("/clients", clientlist.New(logger, svc.Client).ServeHTTP)
			r.Get("/clients/{id}", clientread.New(logger, svc.Client).ServeHTTP)
			r.Put("/clients/{id}", clientupdate.New(logger, svc.Client).ServeHTTP)
			r.Delete("/clients/{id}", clientremove.New(logger, svc.Client).ServeHTTP)

			r.Post("/invoices", invoicecreate.New(logger, svc.Invoice).ServeHTTP)
			r.Get("/invoices", invoicelist.New(logger, svc.Invoice).ServeHTTP)
			r.Get("/invoices/{id}", invoiceread.New(logger, svc.Invoice).ServeHTTP)
			r.Put("/invoices/{id}", invoiceupdate.New(logger, svc.Invoice).ServeHTTP)
			r.Delete("/invoices/{id}", invoiceremove.New(logger, svc.Invoice).ServeHTTP)

			r.Post("/invoices/{id}/items", itemcreate.New(logger, svc.Invoice).ServeHTTP)
			r.Get("/invoices/{id}/items", itemlist.New(logger, svc.Invoice).ServeHTTP)
			r.Get("/invoice-items/{id}", itemread.New(logger, svc.Invoice).ServeHTTP)
			r.Put("/invoice-items/{id}", itemupdate.New(logger, svc.Invoice).ServeHTTP)
			r.Delete("/invoice-items/{id}", itemremove.New(logger, svc.Invoice).ServeHTTP)

			r.Post("/time-entries", timeentrycreate.New(logger, svc.TimeEntry).ServeHTTP)
			r.Get("/time-entries", timeentrylist.New(logger, svc.TimeEntry).ServeHTTP)
			r.Get("/time-entries/{id}", timeentryread.New(logger, svc.TimeEntry).ServeHTTP)
			r.Put("/time-entries/{id}", timeentryupdate.New(logger, svc.TimeEntry).ServeHTTP)
			r.Delete("/time-entries/{id}", timeentryremove.New(logger, svc.TimeEntry).ServeHTTP)

			r.Post("/expenses", expensecreate.New(logger, svc.Expense).ServeHTTP)
			r.Get("/expenses", expenselist.New(logger, svc.Expense).ServeHTTP)
			r.Get("/expenses/{id}", expenseread.New(logger, svc.Expense).ServeHTTP)
			r.Put("/expenses/{id}", expenseupdate.New(logger, svc.Expense).ServeHTTP)
			r.Delete("/expenses/{id}", expenseremove.New(logger, svc.Expense).ServeHTTP)

			r.Get("/settings", settingsget.New(logger, svc.Setting).ServeHTTP)
			r.Put("/settings", settingsupdate.New(logger, svc.Setting).ServeHTTP)

			r.Get("/tax-estimation", taxget.New(logger, svc.TaxEstim).ServeHTTP)
			r.Post("/tax-estimation", taxcreate.New(logger, svc.TaxEstim).ServeHTTP)
			r.Put("/tax-estimation", taxupdate.New(logger, svc.TaxEstim).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
