package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/expando/previewsrv/dao"
	"github.com/google/uuid"
)

// PresetsDB is a sqlite-backed dao.PresetRepository.
type PresetsDB struct {
	db *sql.DB
}

func (repo *PresetsDB) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS presets (
		id TEXT NOT NULL PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		format TEXT NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL,
		UNIQUE(owner_id, name)
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *PresetsDB) Close() error { return nil }

func (repo *PresetsDB) Create(ctx context.Context, p dao.Preset) (dao.Preset, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Preset{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO presets (id, owner_id, name, format, created, modified) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Preset{}, wrapDBError(err)
	}
	now := time.Now()
	_, err = stmt.ExecContext(ctx, newUUID.String(), p.OwnerID.String(), p.Name, p.Format, now.Unix(), now.Unix())
	if err != nil {
		return dao.Preset{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *PresetsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Preset, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, owner_id, name, format, created, modified FROM presets WHERE id = ?;`, id.String())
	return scanPreset(row.Scan)
}

func (repo *PresetsDB) GetAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]dao.Preset, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, owner_id, name, format, created, modified FROM presets WHERE owner_id = ? ORDER BY name;`, ownerID.String())
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Preset
	for rows.Next() {
		p, err := scanPreset(rows.Scan)
		if err != nil {
			return all, err
		}
		all = append(all, p)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}

func (repo *PresetsDB) Update(ctx context.Context, id uuid.UUID, p dao.Preset) (dao.Preset, error) {
	stmt, err := repo.db.Prepare(`UPDATE presets SET name = ?, format = ?, modified = ? WHERE id = ?`)
	if err != nil {
		return dao.Preset{}, wrapDBError(err)
	}
	res, err := stmt.ExecContext(ctx, p.Name, p.Format, time.Now().Unix(), id.String())
	if err != nil {
		return dao.Preset{}, wrapDBError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return dao.Preset{}, dao.ErrNotFound
	}
	return repo.GetByID(ctx, id)
}

func (repo *PresetsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Preset, error) {
	p, err := repo.GetByID(ctx, id)
	if err != nil {
		return dao.Preset{}, err
	}

	stmt, err := repo.db.Prepare(`DELETE FROM presets WHERE id = ?`)
	if err != nil {
		return dao.Preset{}, wrapDBError(err)
	}
	if _, err := stmt.ExecContext(ctx, id.String()); err != nil {
		return dao.Preset{}, wrapDBError(err)
	}
	return p, nil
}

func scanPreset(scan func(dest ...interface{}) error) (dao.Preset, error) {
	var p dao.Preset
	var id, ownerID string
	var created, modified int64

	err := scan(&id, &ownerID, &p.Name, &p.Format, &created, &modified)
	if err != nil {
		return dao.Preset{}, wrapDBError(err)
	}

	p.ID, err = uuid.Parse(id)
	if err != nil {
		return dao.Preset{}, fmt.Errorf("stored UUID %q is invalid", id)
	}
	p.OwnerID, err = uuid.Parse(ownerID)
	if err != nil {
		return dao.Preset{}, fmt.Errorf("stored owner ID %q is invalid", ownerID)
	}
	p.Created = time.Unix(created, 0)
	p.Modified = time.Unix(modified, 0)

	return p, nil
}
