package persistence

import "time"

// Employee represents a member of the office roster.
type Employee struct {
	ID          string
	Name        string
	Initials    string
	AvatarColor string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WorkSchedule holds the recurring Monday-Friday attendance flags of one
// employee. Exactly zero or one record exists per employee.
type WorkSchedule struct {
	EmployeeID string
	Days       map[time.Weekday]WorkScheduleDay
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// WorkScheduleDay is one weekday entry of a work schedule.
type WorkScheduleDay struct {
	Morning   bool
	Afternoon bool
	Note      *string
}

// Absence is a stored away interval for one employee. Start and End are day
// granular and inclusive.
type Absence struct {
	ID         string
	EmployeeID string
	Start      time.Time
	End        time.Time
	Reason     string
	CreatedAt  time.Time
}

// Desk is a physical seat. The grid fields describe where the desk is drawn
// on the floor plan and carry no scheduling meaning.
type Desk struct {
	ID         string
	Label      string
	GridX      int
	GridY      int
	GridW      int
	GridH      int
	Rotation   int
	TitleColor *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Preference records the desk an employee would like for one weekday slot.
// Unique per (EmployeeID, Weekday, Slot).
type Preference struct {
	ID         string
	EmployeeID string
	Weekday    time.Weekday
	Slot       string
	DeskID     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Assignment is a committed desk occupancy fact for one date and slot.
type Assignment struct {
	ID         string
	Date       time.Time
	Slot       string
	DeskID     string
	EmployeeID string
	CreatedAt  time.Time
}
