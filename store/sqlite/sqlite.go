/*
Package sqlite provides the SQLite-backed implementation of engine.RecordStore.

PURPOSE:
  Persists the relational schema the engine reads from: employees,
  departments, working-time patterns, leave/sickness/training/overtime
  records, holidays and manual carryover overrides.

KEY TABLES:
  employees:          master data (hire date, entitlement, status)
  working_time_model: one row per (employee, weekday), replaced wholesale
  leave / sickness:   range bookings with their fixed day-value
  training:           dated attendances with fractional durations
  overtime:           signed hour deltas, never reset
  holidays:           one row per date (UNIQUE)
  manual_carryover:   one override per (employee, year)

ATOMICITY:
  ReplacePattern wraps delete-all-then-insert in one SQL transaction. A
  crash between the two can therefore not leave an employee with an empty
  pattern; either the old rows survive or the new rows are all there.

ERROR MAPPING:
  sql.ErrNoRows      -> engine.NotFoundError
  everything else    -> engine.StorageError (wrapping engine.ErrStorage)
  Nothing is retried here; the caller decides what a failure means.

CONCURRENCY:
  sync.RWMutex plus WAL mode, same single-writer profile as the desktop
  host this store backs.

USAGE:
  st, err := sqlite.New("./data/teamplanner.db")
  if err != nil { ... }
  defer st.Close()
  eng := engine.New(st, logger)
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/teamplanner/timebalance/engine"
)

// Store implements engine.RecordStore on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ engine.RecordStore = (*Store)(nil)

// New opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// An in-memory database exists per connection; a second pooled
	// connection would see an empty schema.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS departments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		color TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS employees (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		department_id INTEGER REFERENCES departments(id),
		hire_date TEXT NOT NULL,
		termination_date TEXT,
		annual_entitlement TEXT NOT NULL,
		weekly_hours TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'ACTIVE',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_department
		ON employees(department_id);
	CREATE INDEX IF NOT EXISTS idx_employees_status
		ON employees(status);

	CREATE TABLE IF NOT EXISTS working_time_model (
		employee_id INTEGER NOT NULL REFERENCES employees(id),
		weekday INTEGER NOT NULL CHECK (weekday BETWEEN 0 AND 6),
		mode TEXT NOT NULL,
		PRIMARY KEY (employee_id, weekday)
	);

	CREATE TABLE IF NOT EXISTS leave (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL REFERENCES employees(id),
		from_date TEXT NOT NULL,
		to_date TEXT NOT NULL,
		days TEXT NOT NULL,
		note TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leave_employee_from
		ON leave(employee_id, from_date);

	CREATE TABLE IF NOT EXISTS sickness (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL REFERENCES employees(id),
		from_date TEXT NOT NULL,
		to_date TEXT NOT NULL,
		days TEXT NOT NULL,
		note TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sickness_employee_from
		ON sickness(employee_id, from_date);

	CREATE TABLE IF NOT EXISTS training (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL REFERENCES employees(id),
		date TEXT NOT NULL,
		duration_days TEXT NOT NULL,
		title TEXT NOT NULL,
		note TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_training_employee_date
		ON training(employee_id, date);

	CREATE TABLE IF NOT EXISTS overtime (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL REFERENCES employees(id),
		date TEXT NOT NULL,
		hours TEXT NOT NULL,
		note TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_overtime_employee_date
		ON overtime(employee_id, date);

	CREATE TABLE IF NOT EXISTS holidays (
		date TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		region TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS manual_carryover (
		employee_id INTEGER NOT NULL REFERENCES employees(id),
		year INTEGER NOT NULL,
		days TEXT NOT NULL,
		note TEXT,
		PRIMARY KEY (employee_id, year)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// absenceTables whitelists the two range-booked tables; AbsenceKind values
// are never interpolated into SQL without passing through here.
var absenceTables = map[engine.AbsenceKind]string{
	engine.KindLeave:    "leave",
	engine.KindSickness: "sickness",
}

func absenceTable(kind engine.AbsenceKind) (string, error) {
	t, ok := absenceTables[kind]
	if !ok {
		return "", &engine.ValidationError{Field: "kind", Detail: "unknown absence kind: " + string(kind)}
	}
	return t, nil
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

func storeErr(op string, err error) error {
	return &engine.StorageError{Op: op, Err: err}
}

// scanDate and scanDecimal reject malformed stored values instead of
// coercing them; a corrupted row surfaces as a StorageError at the caller.
func scanDate(s string) (engine.Date, error) {
	d, err := engine.ParseDate(s)
	if err != nil {
		return engine.Date{}, fmt.Errorf("malformed stored date %q", s)
	}
	return d, nil
}

func scanDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("malformed stored decimal %q", s)
	}
	return d, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// =============================================================================
// EMPLOYEES
// =============================================================================

const employeeColumns = `id, first_name, last_name, COALESCE(department_id, 0),
	hire_date, termination_date, annual_entitlement, weekly_hours, status`

func scanEmployee(row interface{ Scan(...any) error }) (engine.Employee, error) {
	var (
		e           engine.Employee
		hireDate    string
		termination sql.NullString
		entitlement string
		weeklyHours string
	)
	err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.DepartmentID,
		&hireDate, &termination, &entitlement, &weeklyHours, &e.Status)
	if err != nil {
		return engine.Employee{}, err
	}
	if e.HireDate, err = scanDate(hireDate); err != nil {
		return engine.Employee{}, err
	}
	if termination.Valid && termination.String != "" {
		d, err := scanDate(termination.String)
		if err != nil {
			return engine.Employee{}, err
		}
		e.TerminationDate = &d
	}
	if e.AnnualEntitlement, err = scanDecimal(entitlement); err != nil {
		return engine.Employee{}, err
	}
	if e.WeeklyHours, err = scanDecimal(weeklyHours); err != nil {
		return engine.Employee{}, err
	}
	return e, nil
}

func (s *Store) Employee(ctx context.Context, id engine.EmployeeID) (engine.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)
	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.Employee{}, &engine.NotFoundError{Entity: "employee", Ref: strconv.FormatInt(int64(id), 10)}
	}
	if err != nil {
		return engine.Employee{}, storeErr("load employee", err)
	}
	return e, nil
}

func (s *Store) Employees(ctx context.Context, f engine.EmployeeFilter) ([]engine.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE 1=1`
	var args []any
	if f.ActiveInYear != 0 {
		query += ` AND status = 'ACTIVE'
			AND (termination_date IS NULL
			     OR CAST(strftime('%Y', termination_date) AS INTEGER) >= ?)`
		args = append(args, f.ActiveInYear)
	}
	if f.Department != "" {
		query += ` AND department_id = (SELECT id FROM departments WHERE name = ?)`
		args = append(args, f.Department)
	}
	query += ` ORDER BY last_name, first_name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list employees", err)
	}
	defer rows.Close()

	var out []engine.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, storeErr("scan employee", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) SaveEmployee(ctx context.Context, e *engine.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.Status == "" {
		e.Status = engine.StatusActive
	}
	var termination any
	if e.TerminationDate != nil {
		termination = e.TerminationDate.String()
	}

	if e.ID == 0 {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO employees
			(first_name, last_name, department_id, hire_date, termination_date,
			 annual_entitlement, weekly_hours, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.FirstName, e.LastName, nullableID(int64(e.DepartmentID)), e.HireDate.String(),
			termination, e.AnnualEntitlement.String(), e.WeeklyHours.String(),
			e.Status, now(), now())
		if err != nil {
			return storeErr("insert employee", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return storeErr("insert employee", err)
		}
		e.ID = engine.EmployeeID(id)
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE employees SET
			first_name = ?, last_name = ?, department_id = ?, hire_date = ?,
			termination_date = ?, annual_entitlement = ?, weekly_hours = ?,
			status = ?, updated_at = ?
		WHERE id = ?`,
		e.FirstName, e.LastName, nullableID(int64(e.DepartmentID)), e.HireDate.String(),
		termination, e.AnnualEntitlement.String(), e.WeeklyHours.String(),
		e.Status, now(), e.ID)
	if err != nil {
		return storeErr("update employee", err)
	}
	return nil
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func (s *Store) DeactivateEmployee(ctx context.Context, id engine.EmployeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE employees SET status = 'INACTIVE', updated_at = ? WHERE id = ?`,
		now(), id)
	if err != nil {
		return storeErr("deactivate employee", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &engine.NotFoundError{Entity: "employee", Ref: strconv.FormatInt(int64(id), 10)}
	}
	return nil
}

// =============================================================================
// DEPARTMENTS
// =============================================================================

func (s *Store) Departments(ctx context.Context) ([]engine.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, color, description FROM departments ORDER BY name`)
	if err != nil {
		return nil, storeErr("list departments", err)
	}
	defer rows.Close()

	var out []engine.Department
	for rows.Next() {
		var d engine.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Color, &d.Description); err != nil {
			return nil, storeErr("scan department", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) SaveDepartment(ctx context.Context, d *engine.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID == 0 {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO departments (name, color, description) VALUES (?, ?, ?)`,
			d.Name, d.Color, d.Description)
		if err != nil {
			return storeErr("insert department", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return storeErr("insert department", err)
		}
		d.ID = engine.DepartmentID(id)
		return nil
	}

	_, err := s.db.ExecContext(ctx,
		`UPDATE departments SET name = ?, color = ?, description = ? WHERE id = ?`,
		d.Name, d.Color, d.Description, d.ID)
	if err != nil {
		return storeErr("update department", err)
	}
	return nil
}

func (s *Store) DeleteDepartment(ctx context.Context, id engine.DepartmentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM departments WHERE id = ?`, id)
	if err != nil {
		return storeErr("delete department", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &engine.NotFoundError{Entity: "department", Ref: strconv.FormatInt(int64(id), 10)}
	}
	return nil
}

// =============================================================================
// WORKING-TIME PATTERN
// =============================================================================

func (s *Store) PatternFor(ctx context.Context, id engine.EmployeeID) (engine.Pattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT weekday, mode FROM working_time_model WHERE employee_id = ? ORDER BY weekday`,
		id)
	if err != nil {
		return nil, storeErr("load pattern", err)
	}
	defer rows.Close()

	var p engine.Pattern
	for rows.Next() {
		var (
			weekday int
			modeStr string
		)
		if err := rows.Scan(&weekday, &modeStr); err != nil {
			return nil, storeErr("scan pattern", err)
		}
		mode, err := engine.ParseDayMode(modeStr)
		if err != nil {
			return nil, err
		}
		p = append(p, engine.PatternEntry{Weekday: weekday, Mode: mode})
	}
	return p, rows.Err()
}

// ReplacePattern swaps the whole pattern in one transaction.
func (s *Store) ReplacePattern(ctx context.Context, id engine.EmployeeID, p engine.Pattern) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("replace pattern", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM working_time_model WHERE employee_id = ?`, id); err != nil {
		return storeErr("replace pattern", err)
	}
	for _, entry := range p {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO working_time_model (employee_id, weekday, mode) VALUES (?, ?, ?)`,
			id, entry.Weekday, entry.Mode.String()); err != nil {
			return storeErr("replace pattern", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return storeErr("replace pattern", err)
	}
	return nil
}

// =============================================================================
// ABSENCES
// =============================================================================

func (s *Store) Absences(ctx context.Context, kind engine.AbsenceKind, id engine.EmployeeID) ([]engine.AbsenceRecord, error) {
	table, err := absenceTable(kind)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, employee_id, from_date, to_date, days, COALESCE(note, '')
		FROM ` + table + ` WHERE employee_id = ? ORDER BY from_date`
	return s.queryAbsences(ctx, kind, query, id)
}

func (s *Store) AbsencesInYear(ctx context.Context, kind engine.AbsenceKind, id engine.EmployeeID, year int) ([]engine.AbsenceRecord, error) {
	table, err := absenceTable(kind)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, employee_id, from_date, to_date, days, COALESCE(note, '')
		FROM ` + table + `
		WHERE employee_id = ? AND strftime('%Y', from_date) = ?
		ORDER BY from_date`
	return s.queryAbsences(ctx, kind, query, id, strconv.Itoa(year))
}

func (s *Store) queryAbsences(ctx context.Context, kind engine.AbsenceKind, query string, args ...any) ([]engine.AbsenceRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("query absences", err)
	}
	defer rows.Close()

	var out []engine.AbsenceRecord
	for rows.Next() {
		var (
			rec      engine.AbsenceRecord
			from, to string
			days     string
		)
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &from, &to, &days, &rec.Note); err != nil {
			return nil, storeErr("scan absence", err)
		}
		rec.Kind = kind
		if rec.From, err = scanDate(from); err != nil {
			return nil, storeErr("scan absence", err)
		}
		if rec.To, err = scanDate(to); err != nil {
			return nil, storeErr("scan absence", err)
		}
		if rec.Days, err = scanDecimal(days); err != nil {
			return nil, storeErr("scan absence", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) InsertAbsence(ctx context.Context, rec *engine.AbsenceRecord) error {
	table, err := absenceTable(rec.Kind)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO `+table+` (employee_id, from_date, to_date, days, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.EmployeeID, rec.From.String(), rec.To.String(),
		rec.Days.String(), nullString(rec.Note), now())
	if err != nil {
		return storeErr("insert absence", err)
	}
	rec.ID, err = res.LastInsertId()
	if err != nil {
		return storeErr("insert absence", err)
	}
	return nil
}

func (s *Store) DeleteAbsence(ctx context.Context, kind engine.AbsenceKind, recordID int64) error {
	table, err := absenceTable(kind)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, recordID)
	if err != nil {
		return storeErr("delete absence", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &engine.NotFoundError{Entity: string(kind) + " record", Ref: strconv.FormatInt(recordID, 10)}
	}
	return nil
}

// =============================================================================
// TRAINING
// =============================================================================

func (s *Store) TrainingsInYear(ctx context.Context, id engine.EmployeeID, year int) ([]engine.TrainingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, employee_id, date, duration_days, title, COALESCE(note, '')
		 FROM training
		 WHERE employee_id = ? AND strftime('%Y', date) = ?
		 ORDER BY date`,
		id, strconv.Itoa(year))
	if err != nil {
		return nil, storeErr("query trainings", err)
	}
	defer rows.Close()

	var out []engine.TrainingRecord
	for rows.Next() {
		var (
			rec      engine.TrainingRecord
			date     string
			duration string
		)
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &date, &duration, &rec.Title, &rec.Note); err != nil {
			return nil, storeErr("scan training", err)
		}
		if rec.Date, err = scanDate(date); err != nil {
			return nil, storeErr("scan training", err)
		}
		if rec.DurationDays, err = scanDecimal(duration); err != nil {
			return nil, storeErr("scan training", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) InsertTraining(ctx context.Context, rec *engine.TrainingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO training (employee_id, date, duration_days, title, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.EmployeeID, rec.Date.String(), rec.DurationDays.String(),
		rec.Title, nullString(rec.Note), now())
	if err != nil {
		return storeErr("insert training", err)
	}
	rec.ID, err = res.LastInsertId()
	if err != nil {
		return storeErr("insert training", err)
	}
	return nil
}

// =============================================================================
// OVERTIME
// =============================================================================

func (s *Store) OvertimeEntries(ctx context.Context, id engine.EmployeeID) ([]engine.OvertimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, employee_id, date, hours, COALESCE(note, '')
		 FROM overtime WHERE employee_id = ? ORDER BY date`,
		id)
	if err != nil {
		return nil, storeErr("query overtime", err)
	}
	defer rows.Close()

	var out []engine.OvertimeEntry
	for rows.Next() {
		var (
			entry engine.OvertimeEntry
			date  string
			hours string
		)
		if err := rows.Scan(&entry.ID, &entry.EmployeeID, &date, &hours, &entry.Note); err != nil {
			return nil, storeErr("scan overtime", err)
		}
		if entry.Date, err = scanDate(date); err != nil {
			return nil, storeErr("scan overtime", err)
		}
		if entry.Hours, err = scanDecimal(hours); err != nil {
			return nil, storeErr("scan overtime", err)
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (s *Store) InsertOvertime(ctx context.Context, entry *engine.OvertimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO overtime (employee_id, date, hours, note, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.EmployeeID, entry.Date.String(), entry.Hours.String(),
		nullString(entry.Note), now())
	if err != nil {
		return storeErr("insert overtime", err)
	}
	entry.ID, err = res.LastInsertId()
	if err != nil {
		return storeErr("insert overtime", err)
	}
	return nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (s *Store) HolidaysInYear(ctx context.Context, year int) ([]engine.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT date, name, region FROM holidays
		 WHERE strftime('%Y', date) = ? ORDER BY date`,
		strconv.Itoa(year))
	if err != nil {
		return nil, storeErr("query holidays", err)
	}
	defer rows.Close()

	var out []engine.Holiday
	for rows.Next() {
		var (
			h    engine.Holiday
			date string
		)
		if err := rows.Scan(&date, &h.Name, &h.Region); err != nil {
			return nil, storeErr("scan holiday", err)
		}
		if h.Date, err = scanDate(date); err != nil {
			return nil, storeErr("scan holiday", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *Store) SaveHoliday(ctx context.Context, h engine.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO holidays (date, name, region) VALUES (?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET name = excluded.name, region = excluded.region`,
		h.Date.String(), h.Name, h.Region)
	if err != nil {
		return storeErr("save holiday", err)
	}
	return nil
}

func (s *Store) DeleteHoliday(ctx context.Context, date engine.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM holidays WHERE date = ?`, date.String())
	if err != nil {
		return storeErr("delete holiday", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &engine.NotFoundError{Entity: "holiday", Ref: date.String()}
	}
	return nil
}

// =============================================================================
// MANUAL CARRYOVER
// =============================================================================

func (s *Store) ManualCarryover(ctx context.Context, id engine.EmployeeID, year int) (*engine.ManualCarryover, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		mc   engine.ManualCarryover
		days string
		note sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT employee_id, year, days, note FROM manual_carryover
		 WHERE employee_id = ? AND year = ?`,
		id, year).Scan(&mc.EmployeeID, &mc.Year, &days, &note)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("load manual carryover", err)
	}
	if mc.Days, err = scanDecimal(days); err != nil {
		return nil, storeErr("load manual carryover", err)
	}
	mc.Note = note.String
	return &mc, nil
}

func (s *Store) SetManualCarryover(ctx context.Context, mc engine.ManualCarryover) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO manual_carryover (employee_id, year, days, note) VALUES (?, ?, ?, ?)
		 ON CONFLICT(employee_id, year) DO UPDATE SET days = excluded.days, note = excluded.note`,
		mc.EmployeeID, mc.Year, mc.Days.String(), nullString(mc.Note))
	if err != nil {
		return storeErr("set manual carryover", err)
	}
	return nil
}

func (s *Store) ClearManualCarryover(ctx context.Context, id engine.EmployeeID, year int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM manual_carryover WHERE employee_id = ? AND year = ?`, id, year)
	if err != nil {
		return storeErr("clear manual carryover", err)
	}
	return nil
}

// =============================================================================
// YEARS
// =============================================================================

func (s *Store) AvailableYears(ctx context.Context) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT CAST(strftime('%Y', from_date) AS INTEGER) FROM leave
		UNION
		SELECT DISTINCT CAST(strftime('%Y', from_date) AS INTEGER) FROM sickness
		UNION
		SELECT DISTINCT CAST(strftime('%Y', date) AS INTEGER) FROM training
		UNION
		SELECT DISTINCT CAST(strftime('%Y', date) AS INTEGER) FROM overtime`)
	if err != nil {
		return nil, storeErr("query years", err)
	}
	defer rows.Close()

	years := make(map[int]bool)
	for rows.Next() {
		var y sql.NullInt64
		if err := rows.Scan(&y); err != nil {
			return nil, storeErr("scan year", err)
		}
		if y.Valid {
			years[int(y.Int64)] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("query years", err)
	}

	current := time.Now().Year()
	years[current] = true
	years[current+1] = true

	out := make([]int, 0, len(years))
	for y := range years {
		out = append(out, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out, nil
}
