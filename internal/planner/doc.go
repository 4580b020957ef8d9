// Package planner holds the pure scheduling algorithms of the planning
// engine: duration parsing, task distribution across days, daily
// schedule construction, and oversized-task splitting. Nothing in this
// package performs I/O; the service layer orchestrates persistence
// around it.
package planner
