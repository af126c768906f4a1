package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"kawasaki_site/service"
)

// MenuHandler serves the monthly school-lunch menus.
type MenuHandler struct {
	service *service.MenuService
}

func NewMenuHandler(s *service.MenuService) *MenuHandler {
	return &MenuHandler{service: s}
}

// Monthly handles GET /menus/{month}.
func (h *MenuHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	month := mux.Vars(r)["month"]

	menus, err := h.service.MonthlyMenu(r.Context(), month)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600") // Cache for 1 hour
	sendJSON(w, map[string]interface{}{
		"month":     month,
		"menus":     menus,
		"count":     len(menus),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
