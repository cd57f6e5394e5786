package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ndelacroix/habitude/internal/service"
)

type Server struct {
	mx              *chi.Mux
	userService     service.UserServiceI
	habitLogService service.HabitLogServiceI
}

type ServicesList struct {
	UserService     service.UserServiceI
	HabitLogService service.HabitLogServiceI
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:              chi.NewMux(),
		userService:     servicesOptions.UserService,
		habitLogService: servicesOptions.HabitLogService,
	}
	s.mount()
	return s
}

func (s *Server) mount() {
	s.mx.Use(s.RequestIDMiddleware)
	s.mx.Use(s.SettingUpLoggerMiddleware)
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Get("/users", s.GetUsers)
		r.Route("/users/{name}", func(r chi.Router) {
			r.Get("/", s.GetUser)
			r.Get("/stats/monthly", s.GetMonthlyStats)
			r.Post("/habits/{habit}/toggle", s.ToggleHabit)
			r.Post("/jokers/purchase", s.BuyJoker)
			r.Post("/jokers/redeem", s.UseJoker)
		})
	})
}

func (s *Server) Handler() http.Handler {
	return s.mx
}

func (s *Server) Run(addr string) error {
	return http.ListenAndServe(addr, s.mx)
}
