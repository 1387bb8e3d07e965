package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"

	"persist-result/internal/config"
	"persist-result/internal/secrets"
)

// Open connects with the resolved credentials and pings the server.
// The returned pool is capped at a single connection.
func Open(ctx context.Context, driver string, creds secrets.Credentials, timeout time.Duration) (*sql.DB, error) {
	var dsn string
	switch driver {
	case config.DriverSQLServer:
		var err error
		if dsn, err = SQLServerDSN(creds, timeout); err != nil {
			return nil, err
		}
	case config.DriverSQLite:
		dsn = creds.Database
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect %s (%s): %w", driver, creds, err)
	}

	return db, nil
}

// SQLServerDSN builds a sqlserver:// URL. The server value may be given in
// ODBC form (tcp:host,port or host\instance) or as host[:port].
func SQLServerDSN(creds secrets.Credentials, timeout time.Duration) (string, error) {
	host, port, instance, err := splitServer(creds.Server)
	if err != nil {
		return "", err
	}

	hostport := host
	if port != "" {
		hostport = net.JoinHostPort(host, port)
	}

	q := url.Values{}
	q.Set("database", creds.Database)
	if timeout > 0 {
		q.Set("connection timeout", fmt.Sprintf("%d", int(timeout.Seconds())))
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(creds.Username, creds.Password),
		Host:     hostport,
		RawQuery: q.Encode(),
	}
	if instance != "" {
		u.Path = instance
	}

	return u.String(), nil
}

func splitServer(server string) (host, port, instance string, err error) {
	s := strings.TrimSpace(server)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "tcp:"), "TCP:")
	if s == "" {
		return "", "", "", fmt.Errorf("empty server")
	}

	if i := strings.LastIndex(s, ","); i >= 0 {
		s, port = s[:i], strings.TrimSpace(s[i+1:])
	}
	if i := strings.Index(s, `\`); i >= 0 {
		s, instance = s[:i], s[i+1:]
	}
	if port == "" {
		if h, p, splitErr := net.SplitHostPort(s); splitErr == nil {
			s, port = h, p
		}
	}

	if s == "" {
		return "", "", "", fmt.Errorf("server %q has no host", server)
	}
	return s, port, instance, nil
}
