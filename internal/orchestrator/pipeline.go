package orchestrator

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"persist-result/internal/metrics"
	"persist-result/internal/model"
	"persist-result/internal/reader"
	"persist-result/internal/runctx"
	"persist-result/internal/secrets"
	"persist-result/internal/utils"
	"persist-result/internal/writer"
)

// ConfirmationLine is written to Out once the row is committed.
const ConfirmationLine = "Data persisted"

// Opener connects to the destination database with resolved credentials.
type Opener func(ctx context.Context, creds secrets.Credentials) (*sql.DB, error)

// Stager copies the input file into the local input directory.
type Stager interface {
	Fetch(name, localDir string) (string, error)
}

type Pipeline struct {
	Dir         string
	InputFile   string
	InputColumn string

	Run     *runctx.Run
	Open    Opener
	Dest    writer.Destination
	Timeout time.Duration

	// Optional.
	Stage      Stager
	SuccessDir string
	FailedDir  string

	Out       io.Writer
	Log       *log.Logger
	WriterLog writer.Logger
}

// Execute stages (optionally), loads, resolves and persists, in that order.
// A failing step prevents every later one from running.
func (p *Pipeline) Execute(ctx context.Context) (metrics.RunMetric, error) {
	inputPath := filepath.Join(p.Dir, p.InputFile)

	m := metrics.RunMetric{
		RunID:     p.Run.ID,
		FileName:  inputPath,
		StartTime: time.Now(),
	}

	var (
		result model.ModelResult
		creds  secrets.Credentials
		loaded bool
	)

	chain := NewChain(p.Log)

	if p.Stage != nil {
		chain.Add("STAGE INPUT", func(ctx context.Context) error {
			if err := utils.EnsureDir(p.Dir); err != nil {
				return err
			}
			local, err := p.Stage.Fetch(p.InputFile, p.Dir)
			if err != nil {
				return err
			}
			p.Log.Printf("Staged %s\n", local)
			return nil
		})
	}

	chain.Add("LOAD INPUT", func(ctx context.Context) error {
		tbl, err := reader.Load(p.Dir, p.InputFile)
		if err != nil {
			return err
		}
		loaded = true
		m.DataRows = tbl.Rows()

		if tbl.Rows() > 1 {
			p.Log.Printf("WARNING: %s has %d data rows, only the first is persisted\n", inputPath, tbl.Rows())
		}

		v, err := tbl.FirstInt(p.InputColumn)
		if err != nil {
			return fmt.Errorf("column %q: %w", p.InputColumn, err)
		}

		result = model.ModelResult{
			RunID:      p.Run.ID,
			SourceFile: inputPath,
			Result:     v,
			ReadAt:     time.Now(),
		}
		m.Value = v
		p.Log.Printf("Read %s=%d from %s\n", p.InputColumn, v, inputPath)
		return nil
	})

	chain.Add("RESOLVE SECRETS", func(ctx context.Context) error {
		var err error
		creds, err = secrets.Resolve(ctx, p.Run)
		if err != nil {
			return err
		}
		p.Log.Printf("Resolved %s\n", creds)
		return nil
	})

	chain.Add("PERSIST RESULT", func(ctx context.Context) error {
		if p.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, p.Timeout)
			defer cancel()
		}

		conn, err := p.Open(ctx, creds)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := writer.Persist(ctx, conn, p.Dest, result, p.WriterLog); err != nil {
			return err
		}

		_, err = fmt.Fprintln(p.Out, ConfirmationLine)
		return err
	})

	err := chain.Run(ctx)
	m.Finish(err)

	if loaded {
		p.archive(inputPath, err)
	}
	metrics.Report(p.Log, m)

	return m, err
}

func (p *Pipeline) archive(inputPath string, runErr error) {
	dir := p.SuccessDir
	if runErr != nil {
		dir = p.FailedDir
	}
	if dir == "" {
		return
	}
	if _, err := os.Stat(inputPath); err != nil {
		return
	}

	dst, err := utils.ArchiveFile(inputPath, dir)
	if err != nil {
		p.Log.Printf("WARNING: %v\n", err)
		return
	}
	p.Log.Printf("Moved %s to %s\n", inputPath, dst)
}
