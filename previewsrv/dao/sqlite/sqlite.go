// Package sqlite provides a modernc.org/sqlite-backed dao.Store for the
// preview server, wrapping a database/sql *sql.DB.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dekarrin/expando/previewsrv/dao"
	"modernc.org/sqlite"
)

type store struct {
	dbFilename string
	db         *sql.DB
	presets    *PresetsDB
}

// NewDatastore opens (creating if needed) a sqlite database file named
// "presets.db" under storageDir and returns a dao.Store backed by it.
func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{dbFilename: "presets.db"}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.presets = &PresetsDB{db: st.db}
	if err := st.presets.init(); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *store) Presets() dao.PresetRepository { return s.presets }

func (s *store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%s: %w", s.dbFilename, err)
	}
	return nil
}

func wrapDBError(err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
