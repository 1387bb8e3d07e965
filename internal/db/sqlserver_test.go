package db

import (
	"context"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"persist-result/internal/config"
	"persist-result/internal/secrets"
)

func TestSQLServerDSN_ServerForms(t *testing.T) {
	tests := []struct {
		server string
		host   string
		path   string
	}{
		{"sql.example.net", "sql.example.net", ""},
		{"tcp:sql.example.net,1433", "sql.example.net:1433", ""},
		{"sql.example.net,1533", "sql.example.net:1533", ""},
		{"sql.example.net:1433", "sql.example.net:1433", ""},
		{`sqlhost\SQLEXPRESS`, "sqlhost", "/SQLEXPRESS"},
		{`sqlhost\SQLEXPRESS,1500`, "sqlhost:1500", "/SQLEXPRESS"},
	}

	for _, tt := range tests {
		t.Run(tt.server, func(t *testing.T) {
			dsn, err := SQLServerDSN(secrets.Credentials{
				Username: "svc_ml",
				Password: "p@ss:w/rd",
				Database: "mlresults",
				Server:   tt.server,
			}, 0)
			require.NoError(t, err)

			u, err := url.Parse(dsn)
			require.NoError(t, err)
			assert.Equal(t, "sqlserver", u.Scheme)
			assert.Equal(t, tt.host, u.Host)
			assert.Equal(t, tt.path, u.Path)
			assert.Equal(t, "svc_ml", u.User.Username())
			pass, _ := u.User.Password()
			assert.Equal(t, "p@ss:w/rd", pass)
			assert.Equal(t, "mlresults", u.Query().Get("database"))
			assert.Empty(t, u.Query().Get("connection timeout"))
		})
	}
}

func TestSQLServerDSN_Timeout(t *testing.T) {
	dsn, err := SQLServerDSN(secrets.Credentials{Username: "u", Password: "p", Database: "d", Server: "h"}, 45*time.Second)
	require.NoError(t, err)

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "45", u.Query().Get("connection timeout"))
}

func TestSQLServerDSN_EmptyServer(t *testing.T) {
	_, err := SQLServerDSN(secrets.Credentials{Server: "tcp:"}, 0)
	assert.Error(t, err)

	_, err = SQLServerDSN(secrets.Credentials{Server: ",1433"}, 0)
	assert.Error(t, err)
}

func TestOpen_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")

	conn, err := Open(context.Background(), config.DriverSQLite, secrets.Credentials{Database: path}, 0)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, 1, conn.Stats().MaxOpenConnections)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", secrets.Credentials{}, 0)
	assert.Error(t, err)
}
