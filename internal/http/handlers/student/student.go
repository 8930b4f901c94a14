// Package student contains all HTTP handlers for the Student resource.
//
// HANDLER PATTERN: CONSTRUCTOR + FACTORY METHODS
// ────────────────────────────────────────────────
// The router expects func(http.ResponseWriter, *http.Request). Dependencies
// (storage, link assembler, logger) are injected once through NewHandler,
// and each factory method returns a closure with the exact signature the
// router needs:
//
//	h := student.NewHandler(storage, assembler, log)
//	router.HandleFunc("POST /students", h.Create())
//
// Every JSON body is a response.Success or response.Error envelope.
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/students-demo/students-api/internal/apperrors"
	"github.com/students-demo/students-api/internal/http/links"
	"github.com/students-demo/students-api/internal/http/middleware"
	"github.com/students-demo/students-api/internal/storage"
	"github.com/students-demo/students-api/internal/types"
	"github.com/students-demo/students-api/internal/utils/response"
)

// Client-facing messages.
const (
	msgListed    = "Students retrieved successfully"
	msgCreated   = "Student created successfully"
	msgRetrieved = "Student retrieved successfully"
	msgUpdated   = "Student updated successfully"
	msgDeleted   = "Student deleted successfully"

	msgListFailed   = "An error occurred while retrieving students."
	msgCreateFailed = "Failed to create a new student. Please check the input data."
	msgGetFailed    = "An error occurred while retrieving the student."
	msgUpdateFailed = "Failed to update the student. Please check the input data."
	msgDeleteFailed = "An error occurred while deleting the student."
	msgValidation   = "Validation failed"
)

// HomeText is the usage summary served at GET /.
const HomeText = "Welcome to the Student API!\n" +
	"Available endpoints:\n" +
	"GET /students - Retrieve all students\n" +
	"POST /students - Add a new student\n" +
	"GET /students/{id} - Retrieve a student by ID\n" +
	"PUT /students/{id} - Update a student by ID\n" +
	"DELETE /students/{id} - Delete a student by ID"

// Handler serves the student endpoints. It holds no per-request state.
type Handler struct {
	storage   storage.Storage
	assembler *links.Assembler
	log       *slog.Logger
}

func NewHandler(s storage.Storage, a *links.Assembler, log *slog.Logger) *Handler {
	return &Handler{storage: s, assembler: a, log: log}
}

// Home handles GET /
func (h *Handler) Home() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteText(w, http.StatusOK, HomeText)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// List handles GET /students
//
// Success response (200 OK):
//
//	{ "message": "Students retrieved successfully",
//	  "data": { "_embedded": { "studentList": [ ... ] },
//	            "_links": { "self": { "href": "/students" } } } }
//
// ─────────────────────────────────────────────────────────────────────────────
func (h *Handler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := h.logger(r)
		log.Info("getting all students")

		students, err := h.storage.FindAll(r.Context())
		if err != nil {
			log.Error("error getting students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.Fail(msgListFailed, nil))
			return
		}

		collection, err := h.assembler.ToCollection(students)
		if err != nil {
			log.Error("error linking students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.Fail(msgListFailed, nil))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.OK(msgListed, collection))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Create handles POST /students
//
// Request body:
//
//	{ "firstName": "Ada", "lastName": "Lovelace", "department": "SOE", "level": 300 }
//
// Success: 201 Created, Location: /students/{id}, the linked student as data.
//
// Error responses (400):
//
//	validation → { "error": "Validation failed", "details": { "firstName": "First name cannot be empty" } }
//	otherwise  → { "error": "Failed to create a new student. Please check the input data.", ... }
//
// ─────────────────────────────────────────────────────────────────────────────
func (h *Handler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := h.logger(r)
		log.Info("creating a student")

		var student types.Student
		if err := decodeBody(r, &student); err != nil {
			log.Debug("bad create payload", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusBadRequest, response.Fail(msgCreateFailed, badInputMessage(err)))
			return
		}
		// The repository assigns ids; a client-sent id is ignored.
		student.ID = 0

		if err := types.Validate(student); err != nil {
			writeAppError(w, err, msgCreateFailed)
			return
		}

		saved, err := h.storage.Save(r.Context(), student)
		if err != nil {
			log.Error("error creating student", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusBadRequest, response.Fail(msgCreateFailed, nil))
			return
		}

		model, err := h.assembler.ToModel(saved)
		if err != nil {
			log.Error("error linking student", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusBadRequest, response.Fail(msgCreateFailed, nil))
			return
		}

		log.Info("student created", slog.Int64("id", saved.ID))

		w.Header().Set("Location", model.SelfHref())
		response.WriteJSON(w, http.StatusCreated, response.OK(msgCreated, model))
	}
}

// GetByID handles GET /students/{id}
//
// 404 when the id is not stored:
//
//	{ "error": "Could not find student 7", "details": null }
func (h *Handler) GetByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := h.logger(r)

		id, err := parseID(r)
		if err != nil {
			writeAppError(w, err, msgGetFailed)
			return
		}
		log.Info("getting a student", slog.Int64("id", id))

		student, err := h.storage.FindByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeAppError(w, err, msgGetFailed)
				return
			}
			log.Error("error getting student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.Fail(msgGetFailed, nil))
			return
		}

		model, err := h.assembler.ToModel(student)
		if err != nil {
			log.Error("error linking student", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.Fail(msgGetFailed, nil))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.OK(msgRetrieved, model))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /students/{id}
// Applies a partial update: only fields present in the body overwrite the
// stored record.
//
// Request body (any subset of fields):
//
//	{ "level": 400 }
//
// Success: 201 Created with Location and the updated student. The 201
// (rather than 200) is kept for compatibility with existing clients.
//
// Error responses:
//
//	404: no student with that id
//	400: bad id, bad body, or a patch that would leave a required field blank
//
// ─────────────────────────────────────────────────────────────────────────────
func (h *Handler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := h.logger(r)

		id, err := parseID(r)
		if err != nil {
			writeAppError(w, err, msgUpdateFailed)
			return
		}
		log.Info("updating a student", slog.Int64("id", id))

		var patch types.StudentPatch
		if err := decodeBody(r, &patch); err != nil {
			log.Debug("bad update payload", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusBadRequest, response.Fail(msgUpdateFailed, badInputMessage(err)))
			return
		}

		current, err := h.storage.FindByID(r.Context(), id)
		if err != nil {
			h.writeUpdateError(w, log, id, err)
			return
		}

		merged := patch.Apply(current)
		if err := types.Validate(merged); err != nil {
			var verr *apperrors.ValidationError
			if errors.As(err, &verr) {
				response.WriteJSON(w, http.StatusBadRequest, response.Fail(msgUpdateFailed, verr.Fields))
				return
			}
			h.writeUpdateError(w, log, id, err)
			return
		}

		updated, err := h.storage.Save(r.Context(), merged)
		if err != nil {
			h.writeUpdateError(w, log, id, err)
			return
		}

		model, err := h.assembler.ToModel(updated)
		if err != nil {
			h.writeUpdateError(w, log, id, err)
			return
		}

		log.Info("student updated", slog.Int64("id", id))

		w.Header().Set("Location", model.SelfHref())
		response.WriteJSON(w, http.StatusCreated, response.OK(msgUpdated, model))
	}
}

func (h *Handler) writeUpdateError(w http.ResponseWriter, log *slog.Logger, id int64, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeAppError(w, err, msgUpdateFailed)
		return
	}
	log.Error("error updating student",
		slog.Int64("id", id),
		slog.String("error", err.Error()))
	response.WriteJSON(w, http.StatusBadRequest, response.Fail(msgUpdateFailed, nil))
}

// Delete handles DELETE /students/{id}
//
// Success (200): { "message": "Student deleted successfully", "data": null }
func (h *Handler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := h.logger(r)

		id, err := parseID(r)
		if err != nil {
			writeAppError(w, err, msgDeleteFailed)
			return
		}
		log.Info("deleting a student", slog.Int64("id", id))

		exists, err := h.storage.ExistsByID(r.Context(), id)
		if err != nil {
			log.Error("error checking student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.Fail(msgDeleteFailed, nil))
			return
		}
		if !exists {
			writeAppError(w, apperrors.NewNotFoundError(id), msgDeleteFailed)
			return
		}

		if err := h.storage.DeleteByID(r.Context(), id); err != nil {
			// Another request may have removed it since the existence check.
			if errors.Is(err, storage.ErrNotFound) {
				writeAppError(w, err, msgDeleteFailed)
				return
			}
			log.Error("error deleting student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.Fail(msgDeleteFailed, nil))
			return
		}

		log.Info("student deleted", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK(msgDeleted, nil))
	}
}

func (h *Handler) logger(r *http.Request) *slog.Logger {
	if id := middleware.RequestID(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}

// parseID reads the {id} path segment (Go 1.22 ServeMux pattern).
func parseID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.BadInput("invalid id: must be an integer")
	}
	return id, nil
}

// decodeBody decodes the JSON request body into v. An empty body is an
// error of its own so the client gets a clearer message.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return apperrors.BadInput("request body is empty")
	}
	if err != nil {
		return apperrors.BadInput("%s", err.Error())
	}
	return nil
}

// writeAppError renders an error from the apperrors taxonomy.
// fallback is the operation's generic message for anything else.
func writeAppError(w http.ResponseWriter, err error, fallback string) {
	status := apperrors.StatusCode(err)

	var (
		notFound   *apperrors.NotFoundError
		validation *apperrors.ValidationError
	)
	switch {
	case errors.As(err, &notFound):
		response.WriteJSON(w, status, response.Fail(notFound.Error(), nil))
	case errors.As(err, &validation):
		response.WriteJSON(w, status, response.Fail(msgValidation, validation.Fields))
	case errors.Is(err, apperrors.ErrBadInput):
		response.WriteJSON(w, status, response.Fail(badInputMessage(err), nil))
	default:
		response.WriteJSON(w, status, response.Fail(fallback, nil))
	}
}

// badInputMessage strips the "bad input: " prefix added by apperrors.BadInput.
func badInputMessage(err error) string {
	return strings.TrimPrefix(err.Error(), apperrors.ErrBadInput.Error()+": ")
}
