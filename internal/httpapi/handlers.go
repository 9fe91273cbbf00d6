package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/DoyleJ11/starkwolf-lobby/internal/carousel"
	"github.com/DoyleJ11/starkwolf-lobby/internal/hub"
	"github.com/DoyleJ11/starkwolf-lobby/internal/lobby"
	"github.com/DoyleJ11/starkwolf-lobby/internal/roles"
	"github.com/DoyleJ11/starkwolf-lobby/internal/session"
	"github.com/DoyleJ11/starkwolf-lobby/internal/telemetry"
	"github.com/DoyleJ11/starkwolf-lobby/internal/types"
)

const (
	codePrefix     = "WOLF-"
	codeDigits     = 4
	maxCodeRetries = 32
	maxRadius      = 10
	qrSize         = 256
)

var errLobbyNotFound = errors.New("lobby not found")

// GenerateCode returns a code like WOLF-7829.
func GenerateCode() (string, error) {
	const charset = "0123456789"

	code := make([]byte, codeDigits)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return codePrefix + string(code), nil
}

type api struct {
	hub     *hub.Hub
	log     *zap.Logger
	baseURL string
}

func startSpan(r *http.Request, name string) (context.Context, trace.Span) {
	ctx, span := telemetry.Tracer().Start(r.Context(), "httpapi."+name)
	if code := chi.URLParam(r, "code"); code != "" {
		span.SetAttributes(attribute.String("lobby.code", code))
	}
	return ctx, span
}

func (a *api) createLobby(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "CreateLobby")
	defer span.End()

	var body struct {
		Title string `json:"title"`
	}
	if r.ContentLength != 0 {
		if err := decode(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	for i := 0; i < maxCodeRetries; i++ {
		code, err := GenerateCode()
		if err != nil {
			a.log.Error("generate code", zap.Error(err))
			writeError(w, http.StatusInternalServerError, errors.New("failed to generate code"))
			return
		}
		if lb := a.hub.Create(ctx, code, body.Title); lb != nil {
			span.SetAttributes(attribute.String("lobby.code", code))
			writeJSON(w, http.StatusCreated, struct {
				Code  string `json:"code"`
				Title string `json:"title"`
			}{Code: code, Title: lb.Title()})
			return
		}
		a.log.Debug("collision on code, regenerating", zap.String("code", code))
	}
	writeError(w, http.StatusServiceUnavailable, errors.New("failed to create lobby"))
}

func (a *api) listLobbies(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "ListLobbies")
	defer span.End()

	writeJSON(w, http.StatusOK, a.hub.Listings(ctx))
}

func (a *api) getLobby(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "GetLobby")
	defer span.End()

	lb, ok := a.lookup(ctx, w, r)
	if !ok {
		return
	}
	v, err := lb.State(ctx)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.NewLobbyView(v.Title, v.Version, v.State))
}

func (a *api) joinLobby(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "JoinLobby")
	defer span.End()

	var body struct {
		Name   string `json:"name"`
		Avatar string `json:"avatar"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		writeError(w, http.StatusBadRequest, errors.New("name is required"))
		return
	}

	lb, ok := a.lookup(ctx, w, r)
	if !ok {
		return
	}

	p := session.Player{ID: uuid.NewString(), Name: body.Name, Avatar: body.Avatar}
	if _, err := lb.Do(ctx, session.Command{Type: session.CmdJoin, Player: p}); err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		PlayerID string `json:"player_id"`
	}{PlayerID: p.ID})
}

func (a *api) leaveLobby(w http.ResponseWriter, r *http.Request) {
	a.command(w, r, "LeaveLobby", func(*http.Request) (session.Command, error) {
		return session.Command{Type: session.CmdLeave, PlayerID: chi.URLParam(r, "playerID")}, nil
	})
}

func (a *api) setReady(w http.ResponseWriter, r *http.Request) {
	a.command(w, r, "SetReady", func(r *http.Request) (session.Command, error) {
		var body struct {
			Ready *bool `json:"ready"`
		}
		if err := decode(r, &body); err != nil {
			return session.Command{}, err
		}
		if body.Ready == nil {
			return session.Command{}, errors.New("ready is required")
		}
		return session.Command{Type: session.CmdSetReady, PlayerID: chi.URLParam(r, "playerID"), Ready: *body.Ready}, nil
	})
}

func (a *api) setCapacity(w http.ResponseWriter, r *http.Request) {
	a.command(w, r, "SetCapacity", func(r *http.Request) (session.Command, error) {
		var body struct {
			Capacity *int `json:"capacity"`
		}
		if err := decode(r, &body); err != nil {
			return session.Command{}, err
		}
		if body.Capacity == nil {
			return session.Command{}, errors.New("capacity is required")
		}
		return session.Command{Type: session.CmdSetCapacity, Capacity: *body.Capacity}, nil
	})
}

// command runs one roster/capacity command and answers with the new view.
func (a *api) command(w http.ResponseWriter, r *http.Request, name string, build func(*http.Request) (session.Command, error)) {
	ctx, span := startSpan(r, name)
	defer span.End()

	cmd, err := build(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	lb, ok := a.lookup(ctx, w, r)
	if !ok {
		return
	}
	v, err := lb.Do(ctx, cmd)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.NewLobbyView(v.Title, v.Version, v.State))
}

func (a *api) startGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "StartGame")
	defer span.End()

	lb, ok := a.lookup(ctx, w, r)
	if !ok {
		return
	}
	v, err := lb.Do(ctx, session.Command{Type: session.CmdStart})
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Code     string `json:"code"`
		Capacity int    `json:"capacity"`
		Players  int    `json:"players"`
	}{Code: v.State.Code, Capacity: v.State.Capacity, Players: len(v.State.Players)})
}

func (a *api) abandonLobby(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "AbandonLobby")
	defer span.End()

	if _, ok := a.lookup(ctx, w, r); !ok {
		return
	}
	a.hub.Remove(ctx, chi.URLParam(r, "code"))
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) joinQR(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "JoinQR")
	defer span.End()

	if _, ok := a.lookup(ctx, w, r); !ok {
		return
	}
	png, err := qrcode.Encode(JoinURL(a.baseURL, chi.URLParam(r, "code")), qrcode.Medium, qrSize)
	if err != nil {
		a.log.Error("encode qr", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errors.New("failed to render qr code"))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// JoinURL is the link a QR code points at.
func JoinURL(baseURL, code string) string {
	return strings.TrimRight(baseURL, "/") + "/?join=" + url.QueryEscape(code)
}

func (a *api) listRoles(w http.ResponseWriter, r *http.Request) {
	_, span := startSpan(r, "ListRoles")
	defer span.End()

	all, err := roles.All()
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

type carouselEntry struct {
	Position  int                `json:"position"`
	Index     int                `json:"index"`
	Role      roles.Role         `json:"role"`
	Transform carousel.Transform `json:"transform"`
}

type carouselView struct {
	Cursor      int                `json:"cursor"`
	Direction   carousel.Direction `json:"direction"`
	EnterSide   carousel.Side      `json:"enter_side"`
	ExitSide    carousel.Side      `json:"exit_side"`
	EnterOffset float64            `json:"enter_offset"`
	ExitOffset  float64            `json:"exit_offset"`
	Window      []carouselEntry    `json:"window"`
}

// roleCarousel positions a navigator at ?cursor, applies the ?offset a user
// clicked and returns the window to render.
func (a *api) roleCarousel(w http.ResponseWriter, r *http.Request) {
	_, span := startSpan(r, "RoleCarousel")
	defer span.End()

	q := r.URL.Query()
	cursor, err1 := intParam(q, "cursor", 0)
	offset, err2 := intParam(q, "offset", 0)
	radius, err3 := intParam(q, "radius", carousel.DefaultRadius)
	if err := errors.Join(err1, err2, err3); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	radius = max(0, min(radius, maxRadius))

	all, err := roles.All()
	if err != nil {
		a.fail(w, err)
		return
	}
	nav, err := carousel.NewAt(all, cursor)
	if err != nil {
		a.fail(w, err)
		return
	}
	nav.JumpToOffset(offset)

	layout := carousel.DefaultLayout
	dir := nav.Direction()
	view := carouselView{
		Cursor:      nav.Cursor(),
		Direction:   dir,
		EnterSide:   carousel.EnterSide(dir),
		ExitSide:    carousel.ExitSide(dir),
		EnterOffset: layout.EnterOffset(dir, radius),
		ExitOffset:  layout.ExitOffset(dir, radius),
	}
	for _, e := range nav.VisibleWindow(radius) {
		view.Window = append(view.Window, carouselEntry{
			Position:  e.Position,
			Index:     e.Index,
			Role:      e.Item,
			Transform: layout.Transform(e.Position),
		})
	}
	writeJSON(w, http.StatusOK, view)
}

func intParam(q url.Values, key string, def int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (a *api) lookup(ctx context.Context, w http.ResponseWriter, r *http.Request) (*lobby.Lobby, bool) {
	lb := a.hub.Lookup(ctx, chi.URLParam(r, "code"))
	if lb == nil {
		writeError(w, http.StatusNotFound, errLobbyNotFound)
		return nil, false
	}
	return lb, true
}

func (a *api) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		a.log.Error("request failed", zap.Error(err))
	}
	writeError(w, status, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrInvalidCode), errors.Is(err, session.ErrInvalidPlayer):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrPlayerNotFound), errors.Is(err, lobby.ErrClosed), errors.Is(err, errLobbyNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrSessionFull),
		errors.Is(err, session.ErrSessionStarted),
		errors.Is(err, session.ErrCapacityTooLow),
		errors.Is(err, session.ErrDuplicatePlayer),
		errors.Is(err, lobby.ErrNoPlayers):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("bad json: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{Error: err.Error()})
}
