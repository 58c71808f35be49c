package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/tally/internal/http/account"
	"github.com/MrJamesThe3rd/tally/internal/http/calendar"
	"github.com/MrJamesThe3rd/tally/internal/http/category"
	"github.com/MrJamesThe3rd/tally/internal/http/document"
	"github.com/MrJamesThe3rd/tally/internal/http/export"
	"github.com/MrJamesThe3rd/tally/internal/http/guard"
	"github.com/MrJamesThe3rd/tally/internal/http/importcsv"
	"github.com/MrJamesThe3rd/tally/internal/http/matching"
	"github.com/MrJamesThe3rd/tally/internal/http/movement"
	"github.com/MrJamesThe3rd/tally/internal/http/report"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/http/tag"
	"github.com/MrJamesThe3rd/tally/internal/http/task"
	"github.com/MrJamesThe3rd/tally/internal/http/user"
)

// Handlers groups the v1 API handlers.
type Handlers struct {
	Users      *user.Handler
	Accounts   *account.Handler
	Categories *category.Handler
	Movements  *movement.Handler
	Import     *importcsv.Handler
	Tags       *tag.Handler
	Documents  *document.Handler
	Tasks      *task.Handler
	Calendar   *calendar.Handler
	Reports    *report.Handler
	Matching   *matching.Handler
	Export     *export.Handler
}

func New(users guard.Authenticator, corsOrigins []string, v1 Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	authenticate := guard.Authenticate(users)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			v1.Users.PublicRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				v1.Users.Routes(r)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Route("/users", func(r chi.Router) {
				r.Use(guard.RequireAdmin)
				v1.Users.AdminRoutes(r)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(guard.RequireAdmin)
				r.Route("/reminders", v1.Calendar.AdminRoutes)
				r.Route("/reports", v1.Reports.AdminRoutes)
			})

			r.Route("/categories/global", v1.Categories.GlobalRoutes)
			r.Route("/matching", v1.Matching.Routes)
			r.Route("/tasks", v1.Tasks.Routes)

			r.Route("/accounts", func(r chi.Router) {
				v1.Accounts.Routes(r)

				r.Route("/{"+guard.AccountParam+"}", func(r chi.Router) {
					v1.Accounts.AccountRoutes(r)

					r.Route("/categories", v1.Categories.Routes)
					r.Route("/movements", func(r chi.Router) {
						r.Route("/import", v1.Import.Routes)
						r.Route("/{movementID}/documents", v1.Documents.MovementRoutes)
						v1.Movements.Routes(r)
					})
					r.Route("/documents", v1.Documents.Routes)
					r.Route("/tags", v1.Tags.Routes)
					r.Route("/tasks", v1.Tasks.AccountRoutes)
					r.Route("/events", v1.Calendar.EventRoutes)
					r.Route("/reminders", v1.Calendar.ReminderRoutes)
					r.Route("/reports", v1.Reports.Routes)
					r.Route("/export", v1.Export.Routes)
				})
			})
		})
	})

	return router
}
