package rental

import (
	"strings"
	"time"

	"carrental/pkg/models"
)

type requiredField struct {
	name  string
	value func(models.Client) string
}

var requiredClientFields = []requiredField{
	{"first_name", func(c models.Client) string { return c.FirstName }},
	{"last_name", func(c models.Client) string { return c.LastName }},
	{"email", func(c models.Client) string { return c.Email }},
	{"national_id", func(c models.Client) string { return c.NationalID }},
	{"passport", func(c models.Client) string { return c.Passport }},
	{"address", func(c models.Client) string { return c.Address }},
	{"phone", func(c models.Client) string { return c.Phone }},
	{"license_number", func(c models.Client) string { return c.LicenseNumber }},
}

// CheckEligibility evaluates every booking rule and returns one error per
// violation. An empty result means the client may book.
func CheckEligibility(client models.Client, start, end, now time.Time) []ValidationError {
	var errs []ValidationError

	if !start.Before(end) {
		errs = append(errs, ValidationError{
			Rule:    RuleDateOrder,
			Message: "start date must be before end date",
		})
	}
	if !start.After(now) || !end.After(now) {
		errs = append(errs, ValidationError{
			Rule:    RuleFutureDates,
			Message: "dates must be in the future",
		})
	}
	for _, f := range requiredClientFields {
		if strings.TrimSpace(f.value(client)) == "" {
			errs = append(errs, ValidationError{
				Rule:    RuleRequiredField,
				Field:   f.name,
				Message: "client information incomplete: " + f.name + " is required",
			})
		}
	}
	if !client.LicenseExpiry.After(now) {
		errs = append(errs, ValidationError{
			Rule:    RuleLicenseExpiry,
			Message: "the client's driving license has expired",
		})
	}

	return errs
}
