// internal/httpserver/server.go
//
// HTTP server wiring for the Wordlemon backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     access logging).
//   - Public endpoints: "/", "/health", "/pokemon".
//   - Game endpoints: GET /game, POST /game/guess, POST /game/reset.
//   - Player stats: GET /stats/me. Daily leaderboard: mounted under /daily.
//   - Signed session cookie carrying the player's session key.
//   - Daily mode: one game per player per UTC date; once a daily result is
//     recorded, game endpoints answer 409 until the date rolls over.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - The session cookie is an HS256 JWT whose "sid" claim is the store key.
//     A missing or invalid cookie silently starts a new player.

package httpserver

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordlemon/internal/controller"
	"github.com/robalobadob/wordlemon/internal/daily"
	"github.com/robalobadob/wordlemon/internal/game"
	"github.com/robalobadob/wordlemon/internal/results"
)

// Options carries the transport settings taken from config.
type Options struct {
	CookieName   string
	CookieKey    []byte // HMAC key for the session cookie
	Secure       bool   // production: Secure + SameSite=None cookies
	ClientOrigin string
	Timeout      time.Duration
	Mode         string           // results.ModeRandom or results.ModeDaily
	Now          func() time.Time // defaults to time.Now
}

// Server bundles router, game controller and results ledger.
type Server struct {
	r       *chi.Mux
	game    *controller.Controller
	results *results.Store // nil disables /stats and /daily
	opts    Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(ctl *controller.Controller, res *results.Store, opts Options) *Server {
	if opts.CookieName == "" {
		opts.CookieName = "wordlemon_session"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Server{r: chi.NewRouter(), game: ctl, results: res, opts: opts}

	// --- middleware ---
	s.r.Use(chimw.RequestID)               // add X-Request-ID
	s.r.Use(chimw.RealIP)                  // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))   // request-scoped logger
	s.r.Use(accessLog)                     // one line per request
	s.r.Use(chimw.Recoverer)               // recover from panics
	s.r.Use(chimw.Timeout(s.opts.Timeout)) // bound handler time
	s.r.Use(jsonContentType)               // default JSON responses
	s.r.Use(cors(s.opts.ClientOrigin))     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordlemon-go","endpoints":["/health","/pokemon","GET /game","POST /game/guess","POST /game/reset","/stats/me"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/pokemon", s.handleNames)

	// --- game ---
	s.r.Route("/game", func(r chi.Router) {
		r.Get("/", s.handleState)
		r.Post("/guess", s.handleGuess)
		r.Post("/reset", s.handleReset)
	})

	if s.results != nil {
		s.r.Get("/stats/me", s.handleStats)
		s.mountDaily(s.r)
	}

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one structured line per request via the hlog logger.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("req_id", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
})

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------ GAME ---------------------------------------

// handleNames returns the sorted catalog names for autocomplete.
func (s *Server) handleNames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"names": s.game.Names()})
}

// handleState returns the current game, starting one when needed.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	key := s.sessionKey(w, r)
	if s.dailyDone(w, r, key) {
		return
	}
	res, err := s.game.State(r.Context(), key)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("load game")
		writeError(w, http.StatusInternalServerError, "store_failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// guessReq is the payload for POST /game/guess.
type guessReq struct {
	Guess string `json:"guess"`
}

// handleGuess applies a guess. Rejected guesses answer 422 with the unchanged
// game; finished games are recorded in the results ledger (best effort).
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		req.Guess = r.FormValue("guess")
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	key := s.sessionKey(w, r)
	if s.dailyDone(w, r, key) {
		return
	}
	res, err := s.game.Submit(r.Context(), key, req.Guess)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("submit guess")
		writeError(w, http.StatusInternalServerError, "store_failed")
		return
	}
	if !res.Accepted {
		writeJSON(w, http.StatusUnprocessableEntity, res)
		return
	}

	if res.Outcome != game.InProgress && s.results != nil {
		err := s.results.Record(r.Context(), results.Result{
			Player:     key,
			Target:     res.Target,
			Outcome:    string(res.Outcome),
			Guesses:    res.GuessCount,
			Mode:       s.opts.Mode,
			FinishedAt: s.opts.Now(),
		})
		if err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("record result")
		}
	}
	writeJSON(w, http.StatusOK, res)
}

// playedRes is returned when today's daily game is already finished.
type playedRes struct {
	Error string `json:"error"`
	Date  string `json:"date"`
}

// dailyDone answers 409 and returns true when the server runs in daily mode
// and the player already has a result for today.
func (s *Server) dailyDone(w http.ResponseWriter, r *http.Request, key string) bool {
	if s.opts.Mode != results.ModeDaily || s.results == nil {
		return false
	}
	date := daily.DateKey(s.opts.Now())
	played, err := s.results.AlreadyPlayed(r.Context(), key, date)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("check daily result")
		writeError(w, http.StatusInternalServerError, "db_error")
		return true
	}
	if played {
		writeJSON(w, http.StatusConflict, playedRes{Error: "already_played", Date: date})
		return true
	}
	return false
}

// handleReset discards the player's game.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.game.Reset(r.Context(), s.sessionKey(w, r)); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("reset game")
		writeError(w, http.StatusInternalServerError, "store_failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStats returns games played, wins and streak for the cookie's player.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.results.Stats(r.Context(), s.sessionKey(w, r))
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("load stats")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// --------------------------- session cookie --------------------------------

// sessionKey returns the player's key from the signed cookie, issuing a new
// key (and cookie) when the cookie is missing or fails verification.
func (s *Server) sessionKey(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(s.opts.CookieName); err == nil && c.Value != "" {
		if sid, ok := s.verify(c.Value); ok {
			return sid
		}
		hlog.FromRequest(r).Debug().Msg("discarding invalid session cookie")
	}

	sid := genID()
	tok, err := s.sign(sid)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("sign session cookie")
		return sid
	}
	sameSite := http.SameSiteLaxMode
	if s.opts.Secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: sameSite,
		Expires:  time.Now().Add(180 * 24 * time.Hour),
	})
	return sid
}

// sign creates an HS256 JWT carrying sid.
func (s *Server) sign(sid string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"iat": time.Now().Unix(),
	})
	return t.SignedString(s.opts.CookieKey)
}

// verify checks the token signature and extracts sid.
func (s *Server) verify(tok string) (string, bool) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return s.opts.CookieKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", false
	}
	sid, _ := claims["sid"].(string)
	return sid, sid != ""
}

// ------------------------------- small util --------------------------------

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
