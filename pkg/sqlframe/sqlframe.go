// Package sqlframe adapts SQLite tables to the pipeflow type system: a
// table handle whose column schema can be checked against a declared
// DataFrame type without reading any rows.
package sqlframe

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/pipeflow/pkg/capability"
	"github.com/mesh-intelligence/pipeflow/pkg/frame"
	"github.com/mesh-intelligence/pipeflow/pkg/types"
)

// Capability is the name sqlframe registers with the capability registry.
const Capability = "sqlite"

// Table is a handle to one SQLite table: the tabular value pipes and
// schema checks operate on.
type Table struct {
	DB   *sql.DB
	Name string
}

// Open opens (or creates) a SQLite database at path. Use ":memory:" for
// an in-process throwaway database.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	return db, nil
}

// DTypeOf maps a SQLite declared column type to the pipeflow DType
// describing it, following SQLite's type-affinity prefixes.
func DTypeOf(decl string) types.DType {
	d := strings.ToUpper(decl)
	switch {
	case strings.Contains(d, "BOOL"):
		return types.Bool
	case strings.Contains(d, "INT"):
		return types.Int
	case strings.Contains(d, "REAL"), strings.Contains(d, "FLOA"), strings.Contains(d, "DOUB"):
		return types.Float64
	case strings.Contains(d, "CHAR"), strings.Contains(d, "CLOB"), strings.Contains(d, "TEXT"):
		return types.String
	case strings.Contains(d, "BLOB"):
		return types.Bytes
	case strings.Contains(d, "DATE"), strings.Contains(d, "TIME"):
		return types.Time
	default:
		return types.Any
	}
}

// sqlTypeOf maps a pipeflow DType to the SQLite column type used when
// materializing a frame.
func sqlTypeOf(d types.DType) string {
	switch d {
	case types.Bool:
		return "BOOLEAN"
	case types.Int:
		return "INTEGER"
	case types.Float64:
		return "REAL"
	case types.String:
		return "TEXT"
	case types.Bytes:
		return "BLOB"
	case types.Time:
		return "TIMESTAMP"
	default:
		return "BLOB"
	}
}

// Columns reads the table's column schema from SQLite without touching
// any rows.
func (t *Table) Columns() (map[string]types.Type, error) {
	rows, err := t.DB.Query("SELECT name, type FROM pragma_table_info(?)", t.Name)
	if err != nil {
		return nil, fmt.Errorf("reading schema of %s: %w", t.Name, err)
	}
	defer rows.Close()

	cols := map[string]types.Type{}
	for rows.Next() {
		var name, decl string
		if err := rows.Scan(&name, &decl); err != nil {
			return nil, fmt.Errorf("scanning schema of %s: %w", t.Name, err)
		}
		cols[name] = types.NewLiteral(DTypeOf(decl))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading schema of %s: %w", t.Name, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %s does not exist", t.Name)
	}
	return cols, nil
}

// Load materializes a frame as a SQLite table, creating the table from
// the frame's column dtypes and inserting every row transactionally.
func Load(db *sql.DB, name string, f *frame.Frame) (*Table, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}

	names := f.Names()
	defs := make([]string, len(names))
	for i, col := range names {
		c, err := f.Column(col)
		if err != nil {
			return nil, err
		}
		defs[i] = fmt.Sprintf("%s %s", col, sqlTypeOf(c.DType))
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(defs, ", "))
	if _, err := db.Exec(create); err != nil {
		return nil, fmt.Errorf("creating table %s: %w", name, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		name, strings.Join(names, ", "), placeholders)
	stmt, err := tx.Prepare(insert)
	if err != nil {
		return nil, fmt.Errorf("preparing insert into %s: %w", name, err)
	}
	defer stmt.Close()

	for row := 0; row < f.Len(); row++ {
		values := make([]any, len(names))
		for i, col := range names {
			c, err := f.Column(col)
			if err != nil {
				return nil, err
			}
			values[i] = c.Values[row]
		}
		if _, err := stmt.Exec(values...); err != nil {
			return nil, fmt.Errorf("inserting row %d into %s: %w", row, name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing load of %s: %w", name, err)
	}
	return &Table{DB: db, Name: name}, nil
}

// Adapter binds Table to the type system.
type Adapter struct{}

// Capability names the backend.
func (Adapter) Capability() string { return Capability }

// Is reports whether v is a SQLite table handle.
func (Adapter) Is(v any) bool {
	_, ok := v.(*Table)
	return ok
}

// Columns extracts the column-name to column-type map of a table handle.
func (Adapter) Columns(v any) (map[string]types.Type, error) {
	t, ok := v.(*Table)
	if !ok {
		return nil, fmt.Errorf("not a sqlite table: %T", v)
	}
	return t.Columns()
}

// SchemaType declares a DataFrame type over the SQLite backend with the
// given column dtypes.
func SchemaType(dtypes map[string]types.DType) *types.DataFrame {
	return types.NewDataFrame(Adapter{}, types.Columns(dtypes))
}

func init() {
	types.RegisterFrameAdapter(Adapter{})
	capability.Register(Capability)
}
