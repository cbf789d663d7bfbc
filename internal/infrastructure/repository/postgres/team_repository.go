package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/gameday-api/internal/domain/team"
	"github.com/riskibarqy/gameday-api/internal/infrastructure/database"
	"github.com/riskibarqy/gameday-api/internal/platform/logging"
	qb "github.com/riskibarqy/gameday-api/internal/platform/querybuilder"
)

const (
	teamsNameKey = "teams_name_key"
	teamsSlugKey = "teams_slug_key"
)

type TeamRepository struct {
	db     *database.Database
	logger *logging.Logger
}

func NewTeamRepository(db *database.Database, logger *logging.Logger) *TeamRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &TeamRepository{db: db, logger: logger}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select(teamColumns).From("teams").OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.Select(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TeamRepository) GetBySlug(ctx context.Context, slug string) (team.Team, bool, error) {
	return r.getOne(ctx, qb.Eq("slug", slug))
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, bool, error) {
	return r.getOne(ctx, qb.Eq("id", id))
}

func (r *TeamRepository) getOne(ctx context.Context, cond qb.Condition) (team.Team, bool, error) {
	query, args, err := qb.Select(teamColumns).From("teams").Where(cond).ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.Select(ctx, &rows, query, args...); err != nil {
		return team.Team{}, false, fmt.Errorf("select team: %w", err)
	}
	if len(rows) != 1 {
		return team.Team{}, false, nil
	}
	return rows[0].toDomain(), true, nil
}

// Insert stores a team whose slug is derived from name. When the name or slug
// is already taken nothing is written and team.ErrAlreadyExists is returned.
func (r *TeamRepository) Insert(ctx context.Context, name, description string) (team.Team, error) {
	model := teamInsertModel{
		Name:        name,
		Slug:        team.Slugify(name),
		Description: description,
	}
	query, args, err := qb.InsertModel("teams", model, "ON CONFLICT DO NOTHING RETURNING "+teamColumns)
	if err != nil {
		return team.Team{}, fmt.Errorf("build insert team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.Get(ctx, &row, query, args...); err != nil {
		if database.IsNoRows(err) {
			return team.Team{}, fmt.Errorf("%w: %q", team.ErrAlreadyExists, name)
		}
		return team.Team{}, fmt.Errorf("insert team: %w", err)
	}
	return row.toDomain(), nil
}

// InsertMany inserts names one at a time and keeps going past failures.
func (r *TeamRepository) InsertMany(ctx context.Context, names []string) (team.BulkResult, error) {
	result := team.BulkResult{
		Inserted: make([]team.Team, 0, len(names)),
	}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		inserted, err := r.Insert(ctx, name, "")
		if err != nil {
			reason := err.Error()
			if errors.Is(err, team.ErrAlreadyExists) {
				reason = "already exists"
			}
			r.logger.WarnContext(ctx, "unable to insert team", "team", name, "reason", reason)
			result.Skipped = append(result.Skipped, team.Skipped{Input: name, Reason: reason})
			continue
		}
		result.Inserted = append(result.Inserted, inserted)
	}
	return result, nil
}

func (r *TeamRepository) Update(ctx context.Context, id int64, patch team.Patch) (team.Team, bool, error) {
	fields, values := teamPatchColumns(patch, time.Now().UTC())

	result, updated, err := ConditionalUpdate(ctx, r.db, TableTeams, id, fields, values)
	if err != nil {
		if constraint, ok := database.IsUniqueViolation(err); ok {
			switch constraint {
			case teamsSlugKey:
				return team.Team{}, false, fmt.Errorf("%w: %w", team.ErrSlugTaken, err)
			case teamsNameKey:
				return team.Team{}, false, fmt.Errorf("%w: %w", team.ErrAlreadyExists, err)
			}
		}
		return team.Team{}, false, fmt.Errorf("update team: %w", err)
	}
	if !updated || result.RowCount != 1 {
		return team.Team{}, false, nil
	}
	return teamFromRow(result.Rows[0]), true, nil
}

func (r *TeamRepository) DeleteBySlug(ctx context.Context, slug string) error {
	query, args, err := qb.DeleteFrom("teams").Where(qb.Eq("slug", slug)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete team query: %w", err)
	}

	affected, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	if affected != 1 {
		r.logger.WarnContext(ctx, "unable to delete team", "slug", slug, "affected", affected)
		return fmt.Errorf("%w: %d rows affected", team.ErrNotDeleted, affected)
	}
	return nil
}

// teamPatchColumns lists the columns a patch sets. "updated" is stamped only
// when at least one other column changes.
func teamPatchColumns(patch team.Patch, now time.Time) ([]string, []any) {
	fields := make([]string, 0, 4)
	values := make([]any, 0, 4)
	appendField := func(column string, value *string) {
		if value == nil {
			return
		}
		fields = append(fields, column)
		values = append(values, *value)
	}
	appendField("name", patch.Name)
	appendField("slug", patch.Slug)
	appendField("description", patch.Description)

	if len(fields) > 0 {
		fields = append(fields, "updated")
		values = append(values, now)
	}
	return fields, values
}
