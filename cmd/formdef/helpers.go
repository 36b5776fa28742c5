// Shared helpers for formdef CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/fieldwright/formdef/internal/sqlite"
	"github.com/fieldwright/formdef/pkg/types"
)

// attachBackend resolves the data directory, creates a SQLite backend, and
// attaches it. The caller must defer backend.Detach().
func attachBackend() (*sqlite.Backend, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	return backend, nil
}

// getForm loads a form by ID, mapping a missing form to a user error exit.
func getForm(backend *sqlite.Backend, formID string) *types.Form {
	table, err := backend.GetTable(types.TableForms)
	if err != nil {
		fmt.Fprintln(os.Stderr, "get table:", err)
		os.Exit(exitSysError)
	}
	entity, err := table.Get(formID)
	if err != nil {
		if isEntityNotFound(err) {
			fmt.Fprintf(os.Stderr, "form %q not found\n", formID)
			os.Exit(exitUserError)
		}
		fmt.Fprintln(os.Stderr, "get form:", err)
		os.Exit(exitSysError)
	}
	return entity.(*types.Form)
}

// saveForm persists a form aggregate back to the store.
func saveForm(backend *sqlite.Backend, frm *types.Form) {
	table, err := backend.GetTable(types.TableForms)
	if err != nil {
		fmt.Fprintln(os.Stderr, "get table:", err)
		os.Exit(exitSysError)
	}
	if _, err := table.Set(frm.FormID, frm); err != nil {
		fmt.Fprintln(os.Stderr, "save form:", err)
		os.Exit(exitSysError)
	}
}

// printJSON renders a value as indented JSON on stdout.
func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "marshal JSON:", err)
		os.Exit(exitSysError)
	}
	fmt.Println(string(out))
}

// isEntityNotFound returns true if the error wraps ErrNotFound.
func isEntityNotFound(err error) bool {
	return errors.Is(err, types.ErrNotFound)
}
