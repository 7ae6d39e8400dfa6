package tui

import (
	"os"
	"path/filepath"

	"github.com/perbergman/sql-gpt/api"
	"github.com/perbergman/sql-gpt/applog"
	"github.com/perbergman/sql-gpt/result"
)

const exportFilename = "sql_results.csv"

var errNoRows = api.Precondition("No data to export.")

// exportRows writes a rowset to sql_results.csv in the working
// directory. Empty rowsets are rejected before touching the disk.
func (a *App) exportRows(rows []result.Row) {
	if len(rows) == 0 {
		a.fail("Export", errNoRows)
		return
	}

	path, err := saveDownload(exportFilename, []byte(result.ToCSV(rows)))
	if err != nil {
		a.notifyStyled("Export Failed", err.Error(), StyleError)
		applog.Error("CSV export failed: %v", err)
		return
	}

	a.notifyStyled("Exported", path, StyleSuccess)
	applog.Event("EXPORT", "%d row(s) written to %s", len(rows), path)
}

func saveDownload(name string, data []byte) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	path := filepath.Join(wd, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
