package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/satheeshds/phonebook/models"
)

const maxBodyBytes = 1 << 20

// Store is the record store the handlers delegate to.
type Store interface {
	List(ctx context.Context) ([]models.Person, error)
	Get(ctx context.Context, id string) (models.Person, error)
	Create(ctx context.Context, input models.PersonInput) (models.Person, error)
	UpdateNumber(ctx context.Context, id, number string) (models.Person, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// Handler serves the phonebook API from a Store.
type Handler struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return inputError("invalid JSON", err)
	}
	return nil
}

// ListPersons lists all persons
// @Summary      List persons
// @Description  Get every entry in the phonebook.
// @Tags         persons
// @Produce      json
// @Success      200  {array}   models.Person
// @Router       /api/persons [get]
func (h *Handler) ListPersons(w http.ResponseWriter, r *http.Request) error {
	persons, err := h.store.List(r.Context())
	if err != nil {
		return err
	}
	if persons == nil {
		persons = []models.Person{}
	}
	writeJSON(w, http.StatusOK, persons)
	return nil
}

// GetPerson retrieves a single person by ID
// @Summary      Get person
// @Tags         persons
// @Produce      json
// @Param        id   path      string  true  "Person ID"
// @Success      200  {object}  models.Person
// @Failure      400  {object}  ErrorResponse
// @Failure      404
// @Router       /api/persons/{id} [get]
func (h *Handler) GetPerson(w http.ResponseWriter, r *http.Request) error {
	p, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, p)
	return nil
}

// CreatePerson creates a new person
// @Summary      Create person
// @Description  Add a name and number to the phonebook. Names need not be unique.
// @Tags         persons
// @Accept       json
// @Produce      json
// @Param        person  body      models.PersonInput  true  "Person contents"
// @Success      201     {object}  models.Person
// @Failure      400     {object}  ErrorResponse
// @Router       /api/persons [post]
func (h *Handler) CreatePerson(w http.ResponseWriter, r *http.Request) error {
	var input models.PersonInput
	if err := decodeJSON(r, &input); err != nil {
		return err
	}

	p, err := h.store.Create(r.Context(), input)
	if err != nil {
		return err
	}
	h.logger.Info("person created", "id", p.ID)
	writeJSON(w, http.StatusCreated, p)
	return nil
}

// UpdatePerson changes the number of an existing person
// @Summary      Update person number
// @Description  Replace the number of a person. The name cannot be changed.
// @Tags         persons
// @Accept       json
// @Produce      json
// @Param        id      path      string              true  "Person ID"
// @Param        person  body      models.NumberInput  true  "New number"
// @Success      200     {object}  models.Person
// @Failure      400     {object}  ErrorResponse
// @Failure      404
// @Router       /api/persons/{id} [put]
func (h *Handler) UpdatePerson(w http.ResponseWriter, r *http.Request) error {
	var input models.NumberInput
	if err := decodeJSON(r, &input); err != nil {
		return err
	}

	p, err := h.store.UpdateNumber(r.Context(), chi.URLParam(r, "id"), input.Number)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, p)
	return nil
}

// DeletePerson deletes a person
// @Summary      Delete person
// @Description  Remove a person. Deleting an absent person also succeeds.
// @Tags         persons
// @Param        id   path      string  true  "Person ID"
// @Success      204
// @Router       /api/persons/{id} [delete]
func (h *Handler) DeletePerson(w http.ResponseWriter, r *http.Request) error {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
