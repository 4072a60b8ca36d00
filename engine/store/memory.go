// Package store provides an in-memory RecordStore for tests and development.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/teamplanner/timebalance/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	employees   map[engine.EmployeeID]engine.Employee
	departments map[engine.DepartmentID]engine.Department
	patterns    map[engine.EmployeeID]engine.Pattern
	absences    map[engine.AbsenceKind][]engine.AbsenceRecord
	trainings   []engine.TrainingRecord
	overtime    []engine.OvertimeEntry
	holidays    map[engine.Date]engine.Holiday
	overrides   map[overrideKey]engine.ManualCarryover
	nextID      int64
}

type overrideKey struct {
	EmployeeID engine.EmployeeID
	Year       int
}

var _ engine.RecordStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		employees:   make(map[engine.EmployeeID]engine.Employee),
		departments: make(map[engine.DepartmentID]engine.Department),
		patterns:    make(map[engine.EmployeeID]engine.Pattern),
		absences:    make(map[engine.AbsenceKind][]engine.AbsenceRecord),
		holidays:    make(map[engine.Date]engine.Holiday),
		overrides:   make(map[overrideKey]engine.ManualCarryover),
	}
}

func (m *Memory) id() int64 {
	m.nextID++
	return m.nextID
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (m *Memory) Employee(_ context.Context, id engine.EmployeeID) (engine.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.employees[id]
	if !ok {
		return engine.Employee{}, &engine.NotFoundError{Entity: "employee", Ref: fmt.Sprint(id)}
	}
	return e, nil
}

func (m *Memory) Employees(_ context.Context, f engine.EmployeeFilter) ([]engine.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []engine.Employee
	for _, e := range m.employees {
		if f.ActiveInYear != 0 && !e.ActiveInYear(f.ActiveInYear) {
			continue
		}
		if f.Department != "" {
			d, ok := m.departments[e.DepartmentID]
			if !ok || d.Name != f.Department {
				continue
			}
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

func (m *Memory) SaveEmployee(_ context.Context, e *engine.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == 0 {
		e.ID = engine.EmployeeID(m.id())
	}
	if e.Status == "" {
		e.Status = engine.StatusActive
	}
	m.employees[e.ID] = *e
	return nil
}

func (m *Memory) DeactivateEmployee(_ context.Context, id engine.EmployeeID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.employees[id]
	if !ok {
		return &engine.NotFoundError{Entity: "employee", Ref: fmt.Sprint(id)}
	}
	e.Status = engine.StatusInactive
	m.employees[id] = e
	return nil
}

// =============================================================================
// DEPARTMENTS
// =============================================================================

func (m *Memory) Departments(_ context.Context) ([]engine.Department, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]engine.Department, 0, len(m.departments))
	for _, d := range m.departments {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) SaveDepartment(_ context.Context, d *engine.Department) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.ID == 0 {
		d.ID = engine.DepartmentID(m.id())
	}
	m.departments[d.ID] = *d
	return nil
}

func (m *Memory) DeleteDepartment(_ context.Context, id engine.DepartmentID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.departments[id]; !ok {
		return &engine.NotFoundError{Entity: "department", Ref: fmt.Sprint(id)}
	}
	delete(m.departments, id)
	return nil
}

// =============================================================================
// WORKING-TIME PATTERN
// =============================================================================

func (m *Memory) PatternFor(_ context.Context, id engine.EmployeeID) (engine.Pattern, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p := m.patterns[id]
	out := make(engine.Pattern, len(p))
	copy(out, p)
	return out, nil
}

func (m *Memory) ReplacePattern(_ context.Context, id engine.EmployeeID, p engine.Pattern) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make(engine.Pattern, len(p))
	copy(cp, p)
	m.patterns[id] = cp
	return nil
}

// =============================================================================
// ABSENCES
// =============================================================================

func (m *Memory) Absences(_ context.Context, kind engine.AbsenceKind, id engine.EmployeeID) ([]engine.AbsenceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.absencesLocked(kind, id, 0), nil
}

func (m *Memory) AbsencesInYear(_ context.Context, kind engine.AbsenceKind, id engine.EmployeeID, year int) ([]engine.AbsenceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.absencesLocked(kind, id, year), nil
}

func (m *Memory) absencesLocked(kind engine.AbsenceKind, id engine.EmployeeID, year int) []engine.AbsenceRecord {
	var out []engine.AbsenceRecord
	for _, rec := range m.absences[kind] {
		if rec.EmployeeID != id {
			continue
		}
		if year != 0 && rec.From.Year() != year {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].From.Before(out[j].From) })
	return out
}

func (m *Memory) InsertAbsence(_ context.Context, rec *engine.AbsenceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.ID = m.id()
	m.absences[rec.Kind] = append(m.absences[rec.Kind], *rec)
	return nil
}

func (m *Memory) DeleteAbsence(_ context.Context, kind engine.AbsenceKind, recordID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	recs := m.absences[kind]
	for i, rec := range recs {
		if rec.ID == recordID {
			m.absences[kind] = append(recs[:i], recs[i+1:]...)
			return nil
		}
	}
	return &engine.NotFoundError{Entity: string(kind) + " record", Ref: fmt.Sprint(recordID)}
}

// =============================================================================
// TRAINING / OVERTIME
// =============================================================================

func (m *Memory) TrainingsInYear(_ context.Context, id engine.EmployeeID, year int) ([]engine.TrainingRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []engine.TrainingRecord
	for _, t := range m.trainings {
		if t.EmployeeID == id && t.Date.Year() == year {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *Memory) InsertTraining(_ context.Context, rec *engine.TrainingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.ID = m.id()
	m.trainings = append(m.trainings, *rec)
	return nil
}

func (m *Memory) OvertimeEntries(_ context.Context, id engine.EmployeeID) ([]engine.OvertimeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []engine.OvertimeEntry
	for _, e := range m.overtime {
		if e.EmployeeID == id {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *Memory) InsertOvertime(_ context.Context, entry *engine.OvertimeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = m.id()
	m.overtime = append(m.overtime, *entry)
	return nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (m *Memory) HolidaysInYear(_ context.Context, year int) ([]engine.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []engine.Holiday
	for _, h := range m.holidays {
		if h.Date.Year() == year {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *Memory) SaveHoliday(_ context.Context, h engine.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays[h.Date] = h
	return nil
}

func (m *Memory) DeleteHoliday(_ context.Context, date engine.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.holidays[date]; !ok {
		return &engine.NotFoundError{Entity: "holiday", Ref: date.String()}
	}
	delete(m.holidays, date)
	return nil
}

// =============================================================================
// MANUAL CARRYOVER
// =============================================================================

func (m *Memory) ManualCarryover(_ context.Context, id engine.EmployeeID, year int) (*engine.ManualCarryover, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mc, ok := m.overrides[overrideKey{id, year}]
	if !ok {
		return nil, nil
	}
	return &mc, nil
}

func (m *Memory) SetManualCarryover(_ context.Context, mc engine.ManualCarryover) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[overrideKey{mc.EmployeeID, mc.Year}] = mc
	return nil
}

func (m *Memory) ClearManualCarryover(_ context.Context, id engine.EmployeeID, year int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.overrides, overrideKey{id, year})
	return nil
}

// =============================================================================
// YEARS
// =============================================================================

func (m *Memory) AvailableYears(_ context.Context) ([]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	years := make(map[int]bool)
	for _, recs := range m.absences {
		for _, r := range recs {
			years[r.From.Year()] = true
		}
	}
	for _, t := range m.trainings {
		years[t.Date.Year()] = true
	}
	for _, o := range m.overtime {
		years[o.Date.Year()] = true
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
