package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-content-backend/content"
	"github.com/rpupo63/portfolio-content-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const maxProjectBodySize = 1 << 20

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	repo      ContentRepository
}

func newProjectHandler(repo ContentRepository) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		repo:      repo,
	}
}

// includeDrafts reads the includeDrafts query flag. Drafts are only shown to
// authorized callers.
func includeDrafts(r *http.Request) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("includeDrafts"))
	if raw == "" {
		return false, nil
	}
	want, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errs.NewInvalidFieldError("includeDrafts", "must be true or false")
	}
	if want && !ctxIsAuthorized(r.Context()) {
		return false, errs.NewMissingTokenError()
	}
	return want, nil
}

// getAllProjects lists projects
// @Summary List projects
// @Description Published, active projects; includeDrafts=true (authorized) lists everything
// @Tags Projects
// @Produce json
// @Param includeDrafts query bool false "Include drafts and inactive projects"
// @Success 200 {object} ProjectCollection
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drafts, err := includeDrafts(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		projects, err := h.repo.FetchProjects(r.Context(), drafts)
		if err != nil {
			h.responder.WriteError(w, wrapRepositoryError("fetch", "projects", err))
			return
		}

		h.responder.WriteJSON(w, ProjectCollection{Projects: projects, Total: len(projects)})
	}
}

// getProjectBySlug retrieves a project by slug
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param slug path string true "Project slug"
// @Success 200 {object} content.Project
// @Failure 404 {object} ErrorResponse
// @Router /project/{slug} [get]
func (h projectHandler) getProjectBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drafts, err := includeDrafts(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.repo.FetchProjectBySlug(r.Context(), chi.URLParam(r, "slug"), drafts)
		if err != nil {
			h.responder.WriteError(w, wrapRepositoryError("fetch", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// getProjectByID retrieves a project by id
// @Summary Get project by id
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} content.Project
// @Failure 404 {object} ErrorResponse
// @Router /project/id/{projectID} [get]
func (h projectHandler) getProjectByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drafts, err := includeDrafts(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.repo.FetchProjectByID(r.Context(), chi.URLParam(r, "projectID"), drafts)
		if err != nil {
			h.responder.WriteError(w, wrapRepositoryError("fetch", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// getRelatedProjects lists the projects to show next to one project
// @Summary Related projects
// @Tags Projects
// @Produce json
// @Param slug path string true "Project slug"
// @Param limit query int false "Maximum number of projects"
// @Success 200 {object} ProjectCollection
// @Failure 404 {object} ErrorResponse
// @Router /project/{slug}/related [get]
func (h projectHandler) getRelatedProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				h.responder.WriteError(w, errs.NewInvalidFieldError("limit", "must be a positive integer"))
				return
			}
			limit = n
		}

		projects, err := h.repo.FetchRelatedProjects(r.Context(), chi.URLParam(r, "slug"), limit)
		if err != nil {
			h.responder.WriteError(w, wrapRepositoryError("fetch related", "projects", err))
			return
		}

		h.responder.WriteJSON(w, ProjectCollection{Projects: projects, Total: len(projects)})
	}
}

// createProject creates a new project
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body content.ProjectInput true "Project data"
// @Success 201 {object} content.Project
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /project [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in content.ProjectInput
		if err := decodeJSON(w, r, &in); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.repo.CreateProject(r.Context(), in)
		if err != nil {
			h.responder.WriteError(w, wrapRepositoryError("create", "project", err))
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, project)
	}
}

// updateProject updates an existing project
// @Summary Update project
// @Description Only fields present in the body change; a present empty list clears that collection
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param project body content.ProjectInput true "Changed fields"
// @Success 200 {object} content.Project
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /project/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in content.ProjectInput
		if err := decodeJSON(w, r, &in); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.repo.UpdateProject(r.Context(), chi.URLParam(r, "projectID"), in)
		if err != nil {
			h.responder.WriteError(w, wrapRepositoryError("update", "project", err))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// deleteProject deletes a project by ID
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Failure 404 {object} ErrorResponse
// @Router /project/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.repo.DeleteProject(r.Context(), chi.URLParam(r, "projectID")); err != nil {
			h.responder.WriteError(w, wrapRepositoryError("delete", "project", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "project deleted successfully",
		})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxProjectBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errs.NewMaxBodySizeExceededError(tooLarge.Limit)
		}
		return errs.NewInvalidJSONError(err)
	}
	return nil
}
