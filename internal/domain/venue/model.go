package venue

import (
	"fmt"
	"strings"
	"time"
)

// Venue is a cricket ground. Created on first sighting of a venue name
// during ingestion and never deleted; re-ingestion may update its fields.
type Venue struct {
	ID            string
	Name          string
	City          string
	Country       string
	PitchType     string
	AverageScores map[string]float64
	TossStats     map[string]float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (v Venue) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("venue id is required")
	}
	if strings.TrimSpace(v.Name) == "" {
		return fmt.Errorf("venue name is required")
	}

	return nil
}

func NormalizeName(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

func NameKey(value string) string {
	return strings.ToLower(NormalizeName(value))
}

// CountryForCity maps known host cities to countries when the source
// carries a city but no country. Unknown cities leave country empty.
var countryByCity = map[string]string{
	"entebbe":    "Uganda",
	"kampala":    "Uganda",
	"mumbai":     "India",
	"kolkata":    "India",
	"london":     "England",
	"birmingham": "England",
	"sydney":     "Australia",
	"melbourne":  "Australia",
	"karachi":    "Pakistan",
	"lahore":     "Pakistan",
	"colombo":    "Sri Lanka",
	"dhaka":      "Bangladesh",
	"harare":     "Zimbabwe",
	"nairobi":    "Kenya",
	"dubai":      "United Arab Emirates",
}

func CountryForCity(city string) string {
	return countryByCity[strings.ToLower(strings.TrimSpace(city))]
}
