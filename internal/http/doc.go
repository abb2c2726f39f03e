// Package http provides HTTP handlers and middleware for the desk planner API.
//
// The router exposes the following endpoints:
//   - GET /planner/{date}: full day view for a date (desks, assignments and
//     per-employee availability) exchanging the `dayViewResponse` payload
//     defined in planner_handler.go.
//   - POST /planner/{date}/assignments: seats an employee at a desk for one
//     slot or the whole day. Body: {"deskId","employeeId","slot","wholeDay"}.
//   - DELETE /planner/{date}/assignments: vacates one desk slot.
//     Body: {"deskId","slot"}.
//   - POST /planner/{date}/preferences/apply: seeds the date from the stored
//     preferences of its weekday. Weekend dates return the unchanged view.
//   - GET /employees, POST /employees, GET/PUT/DELETE /employees/{id}:
//     roster management exchanging the `employeeDTO` payload defined in
//     employee_handler.go.
//   - PUT /employees/{id}/schedule: wholesale replacement of the weekly
//     schedule. POST /employees/{id}/absences and
//     DELETE /employees/{id}/absences/{absenceID}: absence management.
//   - PUT /employees/{id}/preferences: upserts one recurring desk preference;
//     an empty deskId clears the entry.
//   - GET /desks, POST /desks, PUT/DELETE /desks/{id}: floor plan management
//     exchanging the `deskDTO` payload defined in desk_handler.go.
//   - GET /preferences?weekday=N: lists stored preferences, optionally
//     filtered to one weekday.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
