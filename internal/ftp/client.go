// internal/ftp/client.go
package ftp

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"persist-result/internal/config"

	"github.com/jlaffaye/ftp"
)

type Client struct {
	conn   *ftp.ServerConn
	config config.FTPConfig
}

func NewClient(cfg config.FTPConfig) (*Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := ftp.Dial(addr, ftp.DialWithTimeout(30*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to FTP server: %w", err)
	}

	if err := conn.Login(cfg.Username, cfg.Password); err != nil {
		conn.Quit()
		return nil, fmt.Errorf("failed to login to FTP server: %w", err)
	}

	return &Client{
		conn:   conn,
		config: cfg,
	}, nil
}

// Fetch downloads RemoteDir/name into localDir/name and returns the local path.
// The local file only appears once the transfer has completed.
func (c *Client) Fetch(name, localDir string) (string, error) {
	remote := name
	if c.config.RemoteDir != "" {
		remote = path.Join(c.config.RemoteDir, name)
	}

	resp, err := c.conn.Retr(remote)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve %s: %w", remote, err)
	}
	defer resp.Close()

	localPath := filepath.Join(localDir, name)
	if err := writeAtomic(resp, localPath); err != nil {
		return "", fmt.Errorf("failed to download %s: %w", remote, err)
	}
	return localPath, nil
}

func writeAtomic(r io.Reader, localPath string) error {
	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(localPath), "."+filepath.Base(localPath)+".part-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), localPath)
}

func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Quit()
	}
	return nil
}
