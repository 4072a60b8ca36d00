/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for the host-facing API. These decouple the engine's
  domain model from the wire contract: dates travel as YYYY-MM-DD strings,
  decimals as JSON numbers.

NAMING CONVENTION:
  - *DTO:     Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Handlers validate; DTOs are pure data carriers.
*/
package api

import (
	"github.com/teamplanner/timebalance/engine"
)

// =============================================================================
// EMPLOYEES / DEPARTMENTS
// =============================================================================

type EmployeeDTO struct {
	ID                int64    `json:"id"`
	FirstName         string   `json:"first_name"`
	LastName          string   `json:"last_name"`
	DepartmentID      int64    `json:"department_id,omitempty"`
	HireDate          string   `json:"hire_date"`
	TerminationDate   *string  `json:"termination_date,omitempty"`
	AnnualEntitlement float64  `json:"annual_entitlement"`
	WeeklyHours       float64  `json:"weekly_hours"`
	Status            string   `json:"status"`
}

func toEmployeeDTO(e engine.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:                int64(e.ID),
		FirstName:         e.FirstName,
		LastName:          e.LastName,
		DepartmentID:      int64(e.DepartmentID),
		HireDate:          e.HireDate.String(),
		AnnualEntitlement: e.AnnualEntitlement.InexactFloat64(),
		WeeklyHours:       e.WeeklyHours.InexactFloat64(),
		Status:            string(e.Status),
	}
	if e.TerminationDate != nil {
		s := e.TerminationDate.String()
		dto.TerminationDate = &s
	}
	return dto
}

type SaveEmployeeRequest struct {
	ID                int64   `json:"id,omitempty"`
	FirstName         string  `json:"first_name"`
	LastName          string  `json:"last_name"`
	DepartmentID      int64   `json:"department_id,omitempty"`
	HireDate          string  `json:"hire_date"`
	TerminationDate   *string `json:"termination_date,omitempty"`
	AnnualEntitlement float64 `json:"annual_entitlement"`
	WeeklyHours       float64 `json:"weekly_hours"`
}

type DepartmentDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

// =============================================================================
// STATISTICS
// =============================================================================

type StatisticsDTO struct {
	Employee EmployeeDTO `json:"employee"`
	Year     int         `json:"year"`

	Entitlement float64 `json:"entitlement"`
	CarryoverIn float64 `json:"carryover_in"`
	Available   float64 `json:"available"`
	Taken       float64 `json:"taken"`
	Remaining   float64 `json:"remaining"`

	SicknessDays  float64 `json:"sickness_days"`
	TrainingDays  float64 `json:"training_days"`
	OvertimeHours float64 `json:"overtime_hours"`
}

func toStatisticsDTO(s engine.Statistics) StatisticsDTO {
	return StatisticsDTO{
		Employee:      toEmployeeDTO(s.Employee),
		Year:          s.Year,
		Entitlement:   s.Entitlement.InexactFloat64(),
		CarryoverIn:   s.CarryoverIn.InexactFloat64(),
		Available:     s.Available.InexactFloat64(),
		Taken:         s.Taken.InexactFloat64(),
		Remaining:     s.Remaining.InexactFloat64(),
		SicknessDays:  s.SicknessDays.InexactFloat64(),
		TrainingDays:  s.TrainingDays.InexactFloat64(),
		OvertimeHours: s.OvertimeHours.InexactFloat64(),
	}
}

// =============================================================================
// PATTERN
// =============================================================================

type PatternEntryDTO struct {
	Weekday int    `json:"weekday"` // 0 = Monday .. 6 = Sunday
	Mode    string `json:"mode"`    // FULL | HALF | OFF
}

type SetPatternRequest struct {
	Entries []PatternEntryDTO `json:"entries"`
}

// =============================================================================
// BOOKINGS
// =============================================================================

type BookAbsenceRequest struct {
	Kind  string  `json:"kind"` // leave | sickness
	Start string  `json:"start"`
	Days  float64 `json:"days"`
	Note  string  `json:"note,omitempty"`
}

type AbsenceDTO struct {
	ID   int64   `json:"id"`
	Kind string  `json:"kind"`
	From string  `json:"from"`
	To   string  `json:"to"`
	Days float64 `json:"days"`
	Note string  `json:"note,omitempty"`
}

func toAbsenceDTO(r engine.AbsenceRecord) AbsenceDTO {
	return AbsenceDTO{
		ID:   r.ID,
		Kind: string(r.Kind),
		From: r.From.String(),
		To:   r.To.String(),
		Days: r.Days.InexactFloat64(),
		Note: r.Note,
	}
}

type BookTrainingRequest struct {
	Date         string  `json:"date"`
	DurationDays float64 `json:"duration_days"`
	Title        string  `json:"title"`
	Note         string  `json:"note,omitempty"`
}

type AddOvertimeRequest struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
	Note  string  `json:"note,omitempty"`
}

type OvertimeBreakdownDTO struct {
	Year      int     `json:"year"`
	Carryover float64 `json:"carryover"`
	Accrued   float64 `json:"accrued"`
	Consumed  float64 `json:"consumed"`
	Balance   float64 `json:"balance"`
}

// =============================================================================
// CARRYOVER / HOLIDAYS
// =============================================================================

type CarryoverDTO struct {
	Year int     `json:"year"`
	Days float64 `json:"days"`
}

type SetCarryoverRequest struct {
	Days float64 `json:"days"`
	Note string  `json:"note,omitempty"`
}

type HolidayDTO struct {
	Date   string `json:"date"`
	Name   string `json:"name"`
	Region string `json:"region,omitempty"`
}

type OverlapDTO struct {
	Overlap bool `json:"overlap"`
}

type ProjectionDTO struct {
	Start string  `json:"start"`
	Days  float64 `json:"days"`
	End   string  `json:"end"`
}

type RequestedDaysDTO struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Days float64 `json:"days"`
}

type ErrorDTO struct {
	Error string `json:"error"`
}
