package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/starkwolf-lobby/internal/hub"
	"github.com/DoyleJ11/starkwolf-lobby/internal/logging"
	"github.com/DoyleJ11/starkwolf-lobby/internal/ws"
)

type Options struct {
	Logger        *zap.Logger
	PublicBaseURL string
}

func SetupRoutes(h *hub.Hub, opts Options) http.Handler {
	a := &api{hub: h, log: logging.OrNop(opts.Logger), baseURL: opts.PublicBaseURL}

	r := chi.NewRouter()

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, a.log))

	r.Route("/lobbies", func(r chi.Router) {
		r.Post("/", a.createLobby)
		r.Get("/", a.listLobbies)

		r.Route("/{code}", func(r chi.Router) {
			r.Get("/", a.getLobby)
			r.Delete("/", a.abandonLobby)
			r.Post("/join", a.joinLobby)
			r.Put("/capacity", a.setCapacity)
			r.Post("/start", a.startGame)
			r.Get("/qr.png", a.joinQR)
			r.Delete("/players/{playerID}", a.leaveLobby)
			r.Put("/players/{playerID}/ready", a.setReady)
		})
	})

	r.Get("/roles", a.listRoles)
	r.Get("/roles/carousel", a.roleCarousel)
	return r
}
