package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Server struct {
	mx            *chi.Mux
	store         StoreI
	jwtService    JWTServiceI
	accessKeyHash string
}

type Options struct {
	Store         StoreI
	JwtService    JWTServiceI
	AccessKeyHash string
}

func New(opts *Options) *Server {
	return &Server{
		mx:            chi.NewMux(),
		store:         opts.Store,
		jwtService:    opts.JwtService,
		accessKeyHash: opts.AccessKeyHash,
	}
}

// Run mounts the routes and blocks serving them. Reads are public,
// mutations sit behind the owner token.
func (s *Server) Run(address string) error {
	s.mx.Use(s.RequestIDMiddleware)
	s.mx.Use(s.SettingUpLoggerMiddleware)
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", s.Login)

		r.Get("/categories", s.GetCategories)
		r.Get("/categories/{id}", s.GetCategoryInfo)
		r.Get("/counts/totals", s.GetTotals)
		r.Get("/counts/aggregate", s.GetAggregate)
		r.Get("/counts/series", s.GetSeries)
		r.Get("/entries", s.GetEntries)
		r.Get("/entries/export", s.ExportEntries)
		r.Get("/target", s.GetTarget)
		r.Get("/target/history", s.GetTargetHistory)
		r.Get("/profile", s.GetProfile)
		r.Get("/profile/summary", s.GetProfileSummary)
		r.Get("/problems", s.GetProblems)
		r.Get("/problems/stats", s.GetProblemStats)
		r.Get("/theme", s.GetTheme)

		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware)
			r.Post("/categories", s.CreateCategory)
			r.Delete("/categories/{id}", s.DeleteCategory)
			r.Post("/counts/{categoryID}/increment", s.IncrementCount)
			r.Post("/counts/{categoryID}/decrement", s.DecrementCount)
			r.Put("/entries/{date}", s.UpsertEntry)
			r.Delete("/entries/{id}", s.DeleteEntry)
			r.Post("/target", s.SetTarget)
			r.Patch("/target", s.UpdateTarget)
			r.Post("/target/close", s.CloseTarget)
			r.Put("/profile", s.SetProfile)
			r.Post("/problems/{id}/solved", s.ToggleSolved)
			r.Post("/problems/{id}/bookmark", s.ToggleBookmark)
			r.Put("/theme", s.SetTheme)
			r.Delete("/data", s.ClearData)
		})
	})
	return http.ListenAndServe(address, s.mx)
}
