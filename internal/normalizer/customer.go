package normalizer

import (
	"fmt"

	"fleximart/internal/logger"
	"fleximart/internal/models"
	"fleximart/internal/reader"
)

// Positional schema of the customers extract.
const (
	custFieldID = iota
	custFieldFirstName
	custFieldLastName
	custFieldEmail
	custFieldPhone
	custFieldCity
	custFieldRegistrationDate
)

// CustomerStats are the quality counters produced by the customer stage.
// MissingEmailsFilled is measured against the raw batch, before
// deduplication, so fills on later-dropped duplicates still count.
type CustomerStats struct {
	Processed           int
	DuplicatesRemoved   int
	MissingEmailsFilled int
}

// CustomerNormalizer cleans and deduplicates raw customer rows.
type CustomerNormalizer struct {
	logger *logger.Logger
}

// NewCustomerNormalizer creates a new customer normalizer instance.
func NewCustomerNormalizer(log *logger.Logger) *CustomerNormalizer {
	return &CustomerNormalizer{logger: log}
}

// Normalize applies the customer cleansing rules in order: email synthesis
// for missing values, first-occurrence deduplication by source id, phone
// canonicalization, and lenient date parsing. Output preserves the input's
// relative order.
func (n *CustomerNormalizer) Normalize(rows []reader.Row) ([]models.Customer, CustomerStats) {
	stats := CustomerStats{Processed: len(rows)}

	seen := make(map[string]bool, len(rows))
	customers := make([]models.Customer, 0, len(rows))

	for _, row := range rows {
		sourceID := row.Field(custFieldID)

		// Blank and absent emails are both missing; synthesize before the
		// dedup decision so the counter reflects the full raw batch.
		email := row.Field(custFieldEmail)
		if email == "" {
			email = fmt.Sprintf("unknown_%s@example.com", sourceID)
			stats.MissingEmailsFilled++
		}

		if seen[sourceID] {
			stats.DuplicatesRemoved++
			n.logger.Debug("duplicate customer dropped", "source_id", sourceID)

			continue
		}

		seen[sourceID] = true

		customers = append(customers, models.Customer{
			SourceID:         sourceID,
			FirstName:        row.Field(custFieldFirstName),
			LastName:         row.Field(custFieldLastName),
			Email:            email,
			Phone:            NormalizePhone(row.Field(custFieldPhone)),
			City:             row.Field(custFieldCity),
			RegistrationDate: ParseDate(row.Field(custFieldRegistrationDate)),
		})
	}

	n.logger.Info("customers normalized",
		"processed", stats.Processed,
		"duplicates_removed", stats.DuplicatesRemoved,
		"missing_emails_filled", stats.MissingEmailsFilled,
	)

	return customers, stats
}
