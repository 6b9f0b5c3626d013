package store

import "embed"

//go:embed migrations/*.sql
var migrationFS embed.FS

func migration(driver string) ([]string, error) {
	data, err := migrationFS.ReadFile("migrations/" + driver + ".sql")
	if err != nil {
		return nil, err
	}
	return splitStatements(string(data)), nil
}
