package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/gameday-api/internal/domain/game"
	"github.com/riskibarqy/gameday-api/internal/usecase"
)

type sideDTO struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type gameDTO struct {
	ID   int64     `json:"id"`
	Date time.Time `json:"date"`
	Home sideDTO   `json:"home"`
	Away sideDTO   `json:"away"`
}

func gameToDTO(v game.Game) gameDTO {
	return gameDTO{
		ID:   v.ID,
		Date: v.Date.UTC(),
		Home: sideDTO{Name: escapeText(v.Home.Name), Score: v.Home.Score},
		Away: sideDTO{Name: escapeText(v.Away.Name), Score: v.Away.Score},
	}
}

type createGameRequest struct {
	Date      formValue `json:"date"`
	Home      formValue `json:"home"`
	Away      formValue `json:"away"`
	HomeScore formValue `json:"home_score"`
	AwayScore formValue `json:"away_score"`
}

type createGameForm struct {
	Date      string `json:"date" validate:"required"`
	Home      string `json:"home" validate:"required,number"`
	Away      string `json:"away" validate:"required,number"`
	HomeScore string `json:"home_score" validate:"required,number"`
	AwayScore string `json:"away_score" validate:"required,number"`
}

var gameFieldMessages = map[string]string{
	"date":       "date must be a valid date",
	"home":       "home must be a valid team id",
	"away":       "away must be a valid team id",
	"home_score": fmt.Sprintf("home_score must be an integer from 0 to %d", game.MaxScore),
	"away_score": fmt.Sprintf("away_score must be an integer from 0 to %d", game.MaxScore),
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	games, err := h.gameService.List(ctx, limit)
	if err != nil {
		h.respondError(ctx, w, "list games failed", err)
		return
	}

	items := make([]gameDTO, 0, len(games))
	for _, g := range games {
		items = append(items, gameToDTO(g))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGame")
	defer span.End()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: game=%s", usecase.ErrNotFound, r.PathValue("id")))
		return
	}

	item, err := h.gameService.Get(ctx, id)
	if err != nil {
		h.respondError(ctx, w, "get game failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(item))
}

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateGame")
	defer span.End()

	var req createGameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	form := createGameForm{
		Date:      sanitizeText(req.Date.String()),
		Home:      sanitizeText(req.Home.String()),
		Away:      sanitizeText(req.Away.String()),
		HomeScore: sanitizeText(req.HomeScore.String()),
		AwayScore: sanitizeText(req.AwayScore.String()),
	}
	input, errs := h.validateGameForm(ctx, form)
	if len(errs) > 0 {
		writeFieldErrors(ctx, w, errs)
		return
	}

	created, err := h.gameService.Create(ctx, input)
	if err != nil {
		h.respondError(ctx, w, "create game failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, gameToDTO(created))
}

// DeleteGame answers 204. A missing or malformed id is a failed delete.
func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteGame")
	defer span.End()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.respondError(ctx, w, "delete game failed", fmt.Errorf("%w: invalid game id %q", usecase.ErrOperationFailed, r.PathValue("id")))
		return
	}

	if err := h.gameService.Delete(ctx, id); err != nil {
		h.respondError(ctx, w, "delete game failed", err)
		return
	}

	writeNoContent(w)
}

// validateGameForm runs every rule and only touches team storage once the
// ids are well formed and distinct.
func (h *Handler) validateGameForm(ctx context.Context, form createGameForm) (game.NewGame, fieldErrors) {
	errs := h.collectFieldErrors(ctx, form, gameFieldMessages)
	failed := make(map[string]bool, len(errs))
	for _, fe := range errs {
		failed[fe.Field] = true
	}

	var input game.NewGame
	if !failed["date"] {
		date, err := game.ParseDate(form.Date)
		if err != nil {
			errs.add("date", gameFieldMessages["date"])
		}
		input.Date = date
	}

	idsValid := !failed["home"] && !failed["away"]
	if idsValid && form.Home == form.Away {
		errs.add("home", "home and away teams must differ")
		idsValid = false
	}
	if idsValid {
		input.HomeID = h.checkTeamID(ctx, "home", form.Home, &errs)
		input.AwayID = h.checkTeamID(ctx, "away", form.Away, &errs)
	}

	input.HomeScore = parseScore("home_score", form.HomeScore, failed["home_score"], &errs)
	input.AwayScore = parseScore("away_score", form.AwayScore, failed["away_score"], &errs)

	return input, errs
}

func (h *Handler) checkTeamID(ctx context.Context, field, raw string, errs *fieldErrors) int64 {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		errs.add(field, gameFieldMessages[field])
		return 0
	}

	exists, err := h.teamService.ExistsByID(ctx, id)
	switch {
	case err != nil:
		h.logger.ErrorContext(ctx, "team id lookup failed", "field", field, "error", err)
		errs.add(field, msgServerError)
	case !exists:
		errs.add(field, gameFieldMessages[field])
	}
	return id
}

func parseScore(field, raw string, alreadyFailed bool, errs *fieldErrors) int {
	if alreadyFailed {
		return 0
	}
	score, err := strconv.Atoi(raw)
	if err != nil || score < 0 || score > game.MaxScore {
		errs.add(field, gameFieldMessages[field])
		return 0
	}
	return score
}
