package models

import "strings"

// RoleType defines the caller role carried in access tokens
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleAdmin   RoleType = "ADMIN"
)

// Branch is an academic branch code such as "CSE" or "ECE".
type Branch string

// Normalize upper-cases and trims the branch code.
func (b Branch) Normalize() Branch {
	return Branch(strings.ToUpper(strings.TrimSpace(string(b))))
}

// Year is the student's year of study, 1-based.
type Year int

// MinYear and MaxYear bound a valid year of study.
const (
	MinYear Year = 1
	MaxYear Year = 5
)

// Valid reports whether the year is within the supported range.
func (y Year) Valid() bool {
	return y >= MinYear && y <= MaxYear
}

// NotAvailable is the display placeholder for missing sheet values.
const NotAvailable = "N/A"
