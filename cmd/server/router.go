package main

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/contacts-api/internal/api"
	apimiddleware "github.com/phrazzld/contacts-api/internal/api/middleware"
)

// setupRouter wires all routes and middleware onto a chi router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	usersHandler := api.NewUsersHandler(
		app.userStore,
		app.jwtService,
		app.passwordHasher,
		app.passwordVerifier,
		app.avatarProcessor,
		app.mailer,
		app.taskRunner,
		app.logger,
	)
	contactsHandler := api.NewContactsHandler(app.contactStore, app.logger)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService, app.userStore, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Public account endpoints
		r.Post("/users/signup", usersHandler.Signup)
		r.Post("/users/login", usersHandler.Login)
		r.Get("/users/verify/{verificationToken}", usersHandler.Verify)
		r.Post("/users/verify/resend", usersHandler.ResendVerification)

		// Everything else requires an authenticated live session
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/users/logout", usersHandler.Logout)
			r.Get("/users/current", usersHandler.Current)
			r.Patch("/users/avatars", usersHandler.UpdateAvatar)

			r.Get("/contacts", contactsHandler.List)
			r.Post("/contacts", contactsHandler.Create)
			r.Get("/contacts/{contactId}", contactsHandler.Get)
			r.Put("/contacts/{contactId}", contactsHandler.Update)
			r.Patch("/contacts/{contactId}/favorite", contactsHandler.Favorite)
			r.Delete("/contacts/{contactId}", contactsHandler.Delete)
		})
	})

	// Processed avatars are served straight from the public directory.
	avatarsDir := filepath.Join(app.config.Storage.PublicDir, "avatars")
	fileServer := noDirListing(http.FileServer(http.Dir(avatarsDir)))
	r.Handle("/avatars/*", http.StripPrefix("/avatars/", fileServer))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}

// noDirListing serves files only; directory requests get a 404 instead of
// the file server's generated index.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
