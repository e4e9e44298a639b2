package handlers

import (
	"fmt"
	"html"
	"net/http"
)

// infoDateLayout matches the way browsers print a Date.
const infoDateLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

// GetInfo reports how many people the phonebook holds
// @Summary      Phonebook info
// @Description  Number of stored persons and the current server time, as an HTML fragment.
// @Tags         info
// @Produce      html
// @Success      200  {string}  string
// @Router       /info [get]
func (h *Handler) GetInfo(w http.ResponseWriter, r *http.Request) error {
	n, err := h.store.Count(r.Context())
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "Phonebook has info for %d people<br/>%s", n, html.EscapeString(h.now().Format(infoDateLayout)))
	return nil
}
