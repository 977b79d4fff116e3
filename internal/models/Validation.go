package models

import "fmt"

// ValidationIssue points at a 1-based row of the validated collection.
type ValidationIssue struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (i ValidationIssue) String() string {
	return fmt.Sprintf("Row %d: %s", i.Row, i.Message)
}

// ValidationResult separates blocking data-quality errors from format warnings.
type ValidationResult struct {
	Errors   []ValidationIssue `json:"errors"`
	Warnings []ValidationIssue `json:"warnings"`
}

func (v ValidationResult) HasErrors() bool {
	return len(v.Errors) > 0
}

// Criteria narrows a record collection. Empty fields impose no constraint.
type Criteria struct {
	DateFrom string `json:"dateFrom" validate:"timestamp"`
	DateTo   string `json:"dateTo" validate:"timestamp"`
	User     string `json:"user"`
	Vehicle  string `json:"vehicle"`
	SCAC     string `json:"scac"`
	VRID     string `json:"vrid"`
}

func (c Criteria) IsEmpty() bool {
	return c == Criteria{}
}
