// internal/httpapi/queries.go

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.All())
}

func (s *Server) handleCatalogCourse(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.catalog.Course(chi.URLParam(r, "courseID"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "course not found"})
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.history.Order(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleUserOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.history.OrdersForUser(chi.URLParam(r, "id")))
}

func (s *Server) handleUserAccess(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.userAccess.Access(chi.URLParam(r, "id")))
}

func (s *Server) handlePolicyUsage(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.usage.Policy(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "policy not found"})
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handleRevenue returns the running totals, or a single bucket when a
// day, week or month query parameter narrows the view.
func (s *Server) handleRevenue(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch {
	case q.Get("day") != "":
		writeJSON(w, http.StatusOK, s.revenue.ByDay(q.Get("day")))
	case q.Get("week") != "":
		writeJSON(w, http.StatusOK, s.revenue.ByWeek(q.Get("week")))
	case q.Get("month") != "":
		writeJSON(w, http.StatusOK, s.revenue.ByMonth(q.Get("month")))
	default:
		writeJSON(w, http.StatusOK, s.revenue.Totals())
	}
}
