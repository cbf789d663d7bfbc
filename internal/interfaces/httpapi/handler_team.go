package httpapi

import (
	"context"
	"net/http"

	"github.com/riskibarqy/gameday-api/internal/domain/team"
	"github.com/riskibarqy/gameday-api/internal/usecase"
)

type teamDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// teamToDTO escapes the stored text on the way out. Names are stored
// unescaped so slugs, the duplicate check and the length limit all see the
// name the client sent.
func teamToDTO(v team.Team) teamDTO {
	return teamDTO{
		ID:          v.ID,
		Name:        escapeText(v.Name),
		Slug:        v.Slug,
		Description: escapeText(v.Description),
	}
}

type teamRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type createTeamForm struct {
	Name        string `json:"name" validate:"required,max=64"`
	Description string `json:"description" validate:"max=1000"`
}

type updateTeamForm struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=64"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
}

var teamFieldMessages = map[string]string{
	"name":        "name required max 64 characters",
	"description": "description max 1000 characters",
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.teamService.List(ctx)
	if err != nil {
		h.respondError(ctx, w, "list teams failed", err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	item, err := h.teamService.Get(ctx, r.PathValue("slug"))
	if err != nil {
		h.respondError(ctx, w, "get team failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(item))
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTeam")
	defer span.End()

	var req teamRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	form := createTeamForm{
		Name:        sanitizeText(deref(req.Name)),
		Description: sanitizeText(deref(req.Description)),
	}
	errs := h.collectFieldErrors(ctx, form, teamFieldMessages)

	input := usecase.CreateTeamInput{
		Name:        form.Name,
		Description: form.Description,
	}
	if len(errs) == 0 {
		h.checkTeamNameFree(ctx, input.Name, &errs)
	}
	if len(errs) > 0 {
		writeFieldErrors(ctx, w, errs)
		return
	}

	created, err := h.teamService.Create(ctx, input)
	if err != nil {
		h.respondError(ctx, w, "create team failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamToDTO(created))
}

func (h *Handler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateTeam")
	defer span.End()

	var req teamRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	form := updateTeamForm{
		Name:        mapOptional(req.Name, sanitizeText),
		Description: mapOptional(req.Description, sanitizeText),
	}
	errs := h.collectFieldErrors(ctx, form, teamFieldMessages)
	if form.Name == nil && form.Description == nil {
		errs.add("", "require at least one value of: name, description")
	}
	if len(errs) > 0 {
		writeFieldErrors(ctx, w, errs)
		return
	}

	updated, err := h.teamService.Update(ctx, r.PathValue("slug"), usecase.UpdateTeamInput{
		Name:        form.Name,
		Description: form.Description,
	})
	if err != nil {
		h.respondError(ctx, w, "update team failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(updated))
}

// DeleteTeam answers true on success. Deleting a missing team is a failed
// delete, not a 404.
func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteTeam")
	defer span.End()

	if err := h.teamService.Delete(ctx, r.PathValue("slug")); err != nil {
		h.respondError(ctx, w, "delete team failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, true)
}

func (h *Handler) checkTeamNameFree(ctx context.Context, name string, errs *fieldErrors) {
	exists, err := h.teamService.ExistsByName(ctx, name)
	switch {
	case err != nil:
		h.logger.ErrorContext(ctx, "team name lookup failed", "error", err)
		errs.add("name", msgServerError)
	case exists:
		errs.add("name", "team with name already exists")
	}
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	if mapError(ctx, err).HTTPStatus >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, "error", err)
	} else {
		h.logger.WarnContext(ctx, msg, "error", err)
	}
	writeError(ctx, w, err)
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func mapOptional(v *string, fn func(string) string) *string {
	if v == nil {
		return nil
	}
	out := fn(*v)
	return &out
}
