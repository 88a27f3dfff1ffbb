package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Checkins     *CheckinHandler
	MeetingCodes *MeetingCodeHandler
	Admin        *AdminHandler
	Flow         *FlowHandler
	// RequireAdmin guards the /admin/meeting-code endpoints.
	RequireAdmin func(http.Handler) http.Handler
	// Health answers GET /healthz. Defaults to an unconditional 200.
	Health     http.Handler
	Metrics    http.Handler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	health := cfg.Health
	if health == nil {
		health = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		health.ServeHTTP(w, r)
	})

	if cfg.Metrics != nil {
		mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Metrics.ServeHTTP(w, r)
		})
	}

	if cfg.Checkins != nil {
		mux.HandleFunc("/checkin/member", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Checkins.Member(w, r)
		})
		mux.HandleFunc("/checkin/guest", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Checkins.Guest(w, r)
		})
	}

	if cfg.Flow != nil {
		mux.HandleFunc("/flow", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Flow.Advance(w, r)
		})
	}

	if cfg.Admin != nil {
		mux.HandleFunc("/admin/sessions", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Admin.CreateSession(w, r)
		})
	}

	if cfg.MeetingCodes != nil {
		mux.HandleFunc("/meeting-code/status", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.MeetingCodes.Status(w, r)
		})

		var admin http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.MeetingCodes.Current(w, r)
			case http.MethodPost:
				cfg.MeetingCodes.Regenerate(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		if cfg.RequireAdmin != nil {
			admin = cfg.RequireAdmin(admin)
		}
		mux.Handle("/admin/meeting-code", admin)
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
