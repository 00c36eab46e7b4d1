package db

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"chyrp/internal/model"
)

func openLogged(t *testing.T) (*gorm.DB, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	database, err := Open("sqlite", filepath.Join(t.TempDir(), "log.db"), logger)
	require.NoError(t, err)
	require.NoError(t, Migrate(database))
	buf.Reset()
	return database, &buf
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "dsn", nil)
	assert.ErrorContains(t, err, "unsupported db driver")
}

func TestLogger_RecordNotFoundIsQuiet(t *testing.T) {
	database, buf := openLogged(t)

	var post model.Post
	err := database.Where("clean = ?", "missing").First(&post).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())
}

func TestLogger_QueryFailureGoesToSlog(t *testing.T) {
	database, buf := openLogged(t)

	err := database.Exec("SELECT * FROM no_such_table").Error
	require.Error(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines[0])
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "db_query_failed", entry["event"])
	assert.Equal(t, "db", entry["module"])
	assert.Contains(t, entry["sql"], "no_such_table")
}

func TestLogger_DuplicateKeyIsTranslated(t *testing.T) {
	database, _ := openLogged(t)

	require.NoError(t, database.Create(&model.Group{Name: "Member"}).Error)
	err := database.Create(&model.Group{Name: "Member"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
