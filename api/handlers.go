/*
handlers.go - HTTP handlers for the host-facing API

PURPOSE:
  Exposes the balance engine over REST. Handlers parse and validate the
  HTTP surface, delegate to the engine or record store, and serialize DTOs.

ERROR HANDLING:
  Engine errors map to status codes by taxonomy:
  - 400: validation (malformed dates, bad modes, inverted ranges)
  - 404: unknown employee/department/record
  - 409: booking overlap
  - 422: business rule (budget exceeded, past termination)
  - 500: storage failure, anything unexpected
  Nothing is retried; presenting the error is the client's job.

SEE ALSO:
  - dto.go:    Request/response types
  - server.go: Router and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/teamplanner/timebalance/engine"
)

// Handler holds the dependencies of all HTTP handlers.
type Handler struct {
	Engine *engine.Engine
	Store  engine.RecordStore
	Log    *logrus.Logger
}

func NewHandler(eng *engine.Engine, store engine.RecordStore, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{Engine: eng, Store: store, Log: log}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	filter := engine.EmployeeFilter{Department: r.URL.Query().Get("department")}
	if y := r.URL.Query().Get("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			h.writeError(w, &engine.ValidationError{Field: "year", Detail: "not a number"})
			return
		}
		filter.ActiveInYear = year
	}

	employees, err := h.Store.Employees(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}
	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) SaveEmployee(w http.ResponseWriter, r *http.Request) {
	var req SaveEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, &engine.ValidationError{Field: "body", Detail: "invalid JSON"})
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		h.writeError(w, &engine.ValidationError{Field: "name", Detail: "first and last name are required"})
		return
	}
	hireDate, err := engine.ParseDate(req.HireDate)
	if err != nil {
		h.writeError(w, err)
		return
	}

	emp := engine.Employee{
		ID:                engine.EmployeeID(req.ID),
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		DepartmentID:      engine.DepartmentID(req.DepartmentID),
		HireDate:          hireDate,
		AnnualEntitlement: decimal.NewFromFloat(req.AnnualEntitlement),
		WeeklyHours:       decimal.NewFromFloat(req.WeeklyHours),
		Status:            engine.StatusActive,
	}
	if req.TerminationDate != nil {
		term, err := engine.ParseDate(*req.TerminationDate)
		if err != nil {
			h.writeError(w, err)
			return
		}
		emp.TerminationDate = &term
	}

	if err := h.Store.SaveEmployee(r.Context(), &emp); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

func (h *Handler) DeactivateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := h.employeeID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.Store.DeactivateEmployee(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// STATISTICS / CARRYOVER
// =============================================================================

func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	id, err := h.employeeID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	stats, err := h.Engine.EmployeeStatistics(r.Context(), id, h.year(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatisticsDTO(stats))
}

func (h *Handler) ListStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Engine.AllStatistics(r.Context(), h.year(r), r.URL.Query().Get("department"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	dtos := make([]StatisticsDTO, len(stats))
	for i, s := range stats {
		dtos[i] = toStatisticsDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetCarryover(w http.ResponseWriter, r *http.Request) {
	id, err := h.employeeID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	year := h.year(r)
	days, err := h.Engine.ResolveCarryover(r.Context(), id, year)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CarryoverDTO{Year: year, Days: days.InexactFloat64()})
}

func (h *Handler) SetCarryover(w http.ResponseWriter, r *http.Request) {
	id, err := h.employeeID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		h.writeError(w, &engine.ValidationError{Field: "year", Detail: "not a number"})
		return
	}
	var req SetCarryoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, &engine.ValidationError{Field: "body", Detail: "invalid JSON"})
		return
	}
	if err := h.Engine.SetManualCarryover(r.Context(), id, year, decimal.NewFromFloat(req.Days), req.Note); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearCarryover(w http.ResponseWriter, r *http.Request) {
	id, err := h.employeeID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		h.writeError(w, &engine.ValidationError{Field: "year", Detail: "not a number"})
		return
	}
	if err := h.Engine.ClearManualCarryover(r.Context(), id, year); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// WORKING-TIME PATTERN
// =============================================================================

func (h *Handler) GetPattern(w http.ResponseWriter, r *http.Request) {
	id, err := h.employeeID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	pattern, err := h.Engine.WorkingTimePattern(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	dtos := make([]PatternEntryDTO, len(pattern))
	for i, e := range pattern {
		dtos[i] = PatternEntryDTO{Weekday: e.Weekday, Mode: e.Mode.String()}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) SetPattern(w http.ResponseWriter, r *http.Request) {
	id, err := h.employeeID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req SetPatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, &engine.ValidationError{Field: "body", Detail: "invalid JSON"})
		return
	}
	pattern := make(engine.Pattern, 0, len(req.Entries))
	for _, e := range req.Entries {
		mode, err := engine.ParseDayMode(e.Mode)
		if err != nil {
			h.writeError(w, err)
			return
		}
		pattern = append(pattern, engine.PatternEntry{Weekday: e.Weekday, Mode: mode})
	}
	if err := h.Engine.SetWorkingTimePattern(r.Context(), id, pattern); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// OVERTIME
// =============================================================================

func (h *Handler) GetOvertime(w http.ResponseWriter, r *http.Request) {
	id, err := h.employeeID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	b, err := h.Engine.OvertimeBreakdown(r.Context(), id, h.year(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OvertimeBreakdownDTO{
		Year:      b.Year,
		Carryover: b.Carryover.InexactFloat64(),
		Accrued:   b.Accrued.InexactFloat64(),
		Consumed:  b.Consumed.InexactFloat64(),
		Balance:   b.Balance.InexactFloat64(),
	})
}

func (h *Handler) AddOvertime(w http.ResponseWriter, r *http.Request) {
	id, err := h.employeeID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req AddOvertimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, &engine.ValidationError{Field: "body", Detail: "invalid JSON"})
		return
	}
	date, err := engine.ParseDate(req.Date)
	if err != nil {
		h.writeError(w, err)
		return
	}
	entry, err := h.Engine.AddOvertime(r.Context(), id, date, decimal.NewFromFloat(req.Hours), req.Note)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": entry.ID})
}

// =============================================================================
// OVERLAP / BOOKINGS
// =============================================================================

func (h *Handler) CheckOverlap(w http.ResponseWriter, r *http.Request) {
	id, err := h.employeeID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	kind, err := engine.ParseAbsenceKind(r.URL.Query().Get("kind"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	from, err := engine.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	to, err := engine.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	overlap, err := h.Engine.CheckOverlap(r.Context(), kind, id, from, to)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OverlapDTO{Overlap: overlap})
}

func (h *Handler) BookAbsence(w http.ResponseWriter, r *http.Request) {
	id, err := h.employeeID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req BookAbsenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, &engine.ValidationError{Field: "body", Detail: "invalid JSON"})
		return
	}
	kind, err := engine.ParseAbsenceKind(req.Kind)
	if err != nil {
		h.writeError(w, err)
		return
	}
	start, err := engine.ParseDate(req.Start)
	if err != nil {
		h.writeError(w, err)
		return
	}
	rec, err := h.Engine.BookAbsence(r.Context(), kind, id, start, decimal.NewFromFloat(req.Days), req.Note)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAbsenceDTO(*rec))
}

func (h *Handler) ListAbsences(w http.ResponseWriter, r *http.Request) {
	id, err := h.employeeID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	kind, err := engine.ParseAbsenceKind(r.URL.Query().Get("kind"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	year := 0
	if y := r.URL.Query().Get("year"); y != "" {
		if year, err = strconv.Atoi(y); err != nil {
			h.writeError(w, &engine.ValidationError{Field: "year", Detail: "not a number"})
			return
		}
	}
	records, err := h.Engine.Absences(r.Context(), kind, id, year)
	if err != nil {
		h.writeError(w, err)
		return
	}
	dtos := make([]AbsenceDTO, len(records))
	for i, rec := range records {
		dtos[i] = toAbsenceDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) DeleteAbsence(w http.ResponseWriter, r *http.Request) {
	kind, err := engine.ParseAbsenceKind(chi.URLParam(r, "kind"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	recordID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, &engine.ValidationError{Field: "id", Detail: "not a number"})
		return
	}
	if err := h.Engine.DeleteAbsence(r.Context(), kind, recordID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) BookTraining(w http.ResponseWriter, r *http.Request) {
	id, err := h.employeeID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req BookTrainingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, &engine.ValidationError{Field: "body", Detail: "invalid JSON"})
		return
	}
	date, err := engine.ParseDate(req.Date)
	if err != nil {
		h.writeError(w, err)
		return
	}
	rec, err := h.Engine.BookTraining(r.Context(), id, date, decimal.NewFromFloat(req.DurationDays), req.Title, req.Note)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": rec.ID})
}

// =============================================================================
// PROJECTION
// =============================================================================

func (h *Handler) GetProjection(w http.ResponseWriter, r *http.Request) {
	id, err := h.employeeID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	start, err := engine.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	days, err := strconv.ParseFloat(r.URL.Query().Get("days"), 64)
	if err != nil {
		h.writeError(w, &engine.ValidationError{Field: "days", Detail: "not a number"})
		return
	}
	end, err := h.Engine.ProjectEndDate(r.Context(), id, start, decimal.NewFromFloat(days))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProjectionDTO{Start: start.String(), Days: days, End: end.String()})
}

func (h *Handler) GetRequestedDays(w http.ResponseWriter, r *http.Request) {
	id, err := h.employeeID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	from, err := engine.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	to, err := engine.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	days, err := h.Engine.RequestedDays(r.Context(), id, from, to)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RequestedDaysDTO{From: from.String(), To: to.String(), Days: days.InexactFloat64()})
}

// =============================================================================
// DEPARTMENTS / HOLIDAYS / YEARS
// =============================================================================

func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Store.Departments(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	dtos := make([]DepartmentDTO, len(departments))
	for i, d := range departments {
		dtos[i] = DepartmentDTO{ID: int64(d.ID), Name: d.Name, Color: d.Color, Description: d.Description}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) SaveDepartment(w http.ResponseWriter, r *http.Request) {
	var req DepartmentDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, &engine.ValidationError{Field: "body", Detail: "invalid JSON"})
		return
	}
	if req.Name == "" {
		h.writeError(w, &engine.ValidationError{Field: "name", Detail: "must not be empty"})
		return
	}
	d := engine.Department{ID: engine.DepartmentID(req.ID), Name: req.Name, Color: req.Color, Description: req.Description}
	if err := h.Store.SaveDepartment(r.Context(), &d); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, DepartmentDTO{ID: int64(d.ID), Name: d.Name, Color: d.Color, Description: d.Description})
}

func (h *Handler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, &engine.ValidationError{Field: "id", Detail: "not a number"})
		return
	}
	if err := h.Store.DeleteDepartment(r.Context(), engine.DepartmentID(id)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.HolidaysInYear(r.Context(), h.year(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	dtos := make([]HolidayDTO, len(holidays))
	for i, hol := range holidays {
		dtos[i] = HolidayDTO{Date: hol.Date.String(), Name: hol.Name, Region: hol.Region}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) SaveHoliday(w http.ResponseWriter, r *http.Request) {
	var req HolidayDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, &engine.ValidationError{Field: "body", Detail: "invalid JSON"})
		return
	}
	date, err := engine.ParseDate(req.Date)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.Engine.SaveHoliday(r.Context(), engine.Holiday{Date: date, Name: req.Name, Region: req.Region}); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	date, err := engine.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.Engine.DeleteHoliday(r.Context(), date); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.Store.AvailableYears(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, years)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) employeeID(r *http.Request) (engine.EmployeeID, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, &engine.ValidationError{Field: "id", Detail: "not a number"}
	}
	return engine.EmployeeID(id), nil
}

// year returns the ?year= query parameter, defaulting to the current year.
func (h *Handler) year(r *http.Request) int {
	if y := r.URL.Query().Get("year"); y != "" {
		if year, err := strconv.Atoi(y); err == nil {
			return year
		}
	}
	return time.Now().Year()
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, engine.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrOverlap):
		status = http.StatusConflict
	case errors.Is(err, engine.ErrBusinessRule):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		h.Log.WithError(err).Error("request failed")
	}
	writeJSON(w, status, ErrorDTO{Error: err.Error()})
}
