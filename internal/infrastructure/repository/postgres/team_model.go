package postgres

import "github.com/riskibarqy/gameday-api/internal/domain/team"

type teamTableModel struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Slug        string `db:"slug"`
	Description string `db:"description"`
}

type teamInsertModel struct {
	Name        string `db:"name"`
	Slug        string `db:"slug"`
	Description string `db:"description"`
}

const teamColumns = "id, name, slug, description"

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
	}
}

func teamFromRow(row map[string]any) team.Team {
	return team.Team{
		ID:          rowInt64(row, "id"),
		Name:        rowString(row, "name"),
		Slug:        rowString(row, "slug"),
		Description: rowString(row, "description"),
	}
}
