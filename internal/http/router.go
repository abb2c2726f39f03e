package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Planner     *PlannerHandler
	Employees   *EmployeeHandler
	Desks       *DeskHandler
	Preferences *PreferenceHandler
	Middleware  []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Planner != nil {
		mux.HandleFunc("/planner/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/planner/")
			segments := splitPath(rest)
			if len(segments) == 0 {
				http.NotFound(w, r)
				return
			}

			ctx := ContextWithPlannerDate(r.Context(), segments[0])
			r = r.WithContext(ctx)

			switch {
			case len(segments) == 1:
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				cfg.Planner.Day(w, r)
			case len(segments) == 2 && segments[1] == "assignments":
				switch r.Method {
				case http.MethodPost:
					cfg.Planner.Place(w, r)
				case http.MethodDelete:
					cfg.Planner.Clear(w, r)
				default:
					methodNotAllowed(w, http.MethodPost, http.MethodDelete)
				}
			case len(segments) == 3 && segments[1] == "preferences" && segments[2] == "apply":
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				cfg.Planner.ApplyPreferences(w, r)
			default:
				http.NotFound(w, r)
			}
		})
	}

	if cfg.Employees != nil {
		mux.HandleFunc("/employees", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Employees.List(w, r)
			case http.MethodPost:
				cfg.Employees.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/employees/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/employees/")
			segments := splitPath(rest)
			if len(segments) == 0 {
				http.NotFound(w, r)
				return
			}

			ctx := ContextWithEmployeeID(r.Context(), segments[0])
			r = r.WithContext(ctx)

			switch {
			case len(segments) == 1:
				switch r.Method {
				case http.MethodGet:
					cfg.Employees.Get(w, r)
				case http.MethodPut:
					cfg.Employees.Update(w, r)
				case http.MethodDelete:
					cfg.Employees.Delete(w, r)
				default:
					methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
				}
			case len(segments) == 2 && segments[1] == "schedule":
				if r.Method != http.MethodPut {
					methodNotAllowed(w, http.MethodPut)
					return
				}
				cfg.Employees.UpsertSchedule(w, r)
			case len(segments) == 2 && segments[1] == "absences":
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				cfg.Employees.CreateAbsence(w, r)
			case len(segments) == 3 && segments[1] == "absences":
				if r.Method != http.MethodDelete {
					methodNotAllowed(w, http.MethodDelete)
					return
				}
				r = r.WithContext(ContextWithAbsenceID(r.Context(), segments[2]))
				cfg.Employees.DeleteAbsence(w, r)
			case len(segments) == 2 && segments[1] == "preferences" && cfg.Preferences != nil:
				if r.Method != http.MethodPut {
					methodNotAllowed(w, http.MethodPut)
					return
				}
				cfg.Preferences.SetForEmployee(w, r)
			default:
				http.NotFound(w, r)
			}
		})
	}

	if cfg.Desks != nil {
		mux.HandleFunc("/desks", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Desks.List(w, r)
			case http.MethodPost:
				cfg.Desks.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/desks/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/desks/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithDeskID(r.Context(), id)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodPut:
				cfg.Desks.Update(w, r)
			case http.MethodDelete:
				cfg.Desks.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Preferences != nil {
		mux.HandleFunc("/preferences", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Preferences.List(w, r)
		})
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

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
