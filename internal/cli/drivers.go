package cli

// Connectors register themselves with the database package.
import (
	_ "github.com/csv2pg/csv2pg-go/internal/database/db2"
	_ "github.com/csv2pg/csv2pg-go/internal/database/mssql"
	_ "github.com/csv2pg/csv2pg-go/internal/database/mysql"
	_ "github.com/csv2pg/csv2pg-go/internal/database/oracle"
	_ "github.com/csv2pg/csv2pg-go/internal/database/postgres"
	_ "github.com/csv2pg/csv2pg-go/internal/database/sqlite"
)
