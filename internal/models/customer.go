// Package models defines the record types flowing through the ETL pipeline.
package models

import "time"

// Customer is a cleaned customer record ready for loading.
// SourceID is the natural key carried by the extract; the store assigns
// the surrogate key at insert time.
type Customer struct {
	SourceID         string
	FirstName        string
	LastName         string
	Email            string
	Phone            *string
	City             string
	RegistrationDate *time.Time
}
