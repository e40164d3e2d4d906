package cv

import _ "embed"

// SQLiteSchema creates the tables read by SQLRepository on SQLite. PostgreSQL databases are
// created from the model structs by cmd/migrate.
//
//go:embed schema_sqlite.sql
var SQLiteSchema string

// Models lists the tables in dependency order.
func Models() []interface{} {
	return []interface{}{
		&Profile{},
		&WorkExperience{},
		&Course{},
		&Award{},
		&AcademicOutput{},
		&LaborOutput{},
		&GarageItem{},
	}
}
