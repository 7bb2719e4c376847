package types

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrInvalidObservation wraps every validation failure from Observation.Validate.
var ErrInvalidObservation = errors.New("invalid observation")

// Observation is one weather reading for a candidate site, as published on
// sites/<name>/observations and accepted by the import tool.
type Observation struct {
	Site      string    `json:"site" validate:"required,max=128"`
	Lat       *float64  `json:"lat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Lon       *float64  `json:"lon,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Timestamp time.Time `json:"timestamp"`
	WindSpeed *float64  `json:"wind_speed" validate:"required,gte=0"`
	Clouds    *float64  `json:"clouds" validate:"required,gte=0"`
}

// Validate checks field ranges and that lat and lon come as a pair.
func (o Observation) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidObservation, err)
	}
	if o.Timestamp.IsZero() {
		return fmt.Errorf("%w: timestamp is required", ErrInvalidObservation)
	}
	if (o.Lat == nil) != (o.Lon == nil) {
		return fmt.Errorf("%w: lat and lon must be given together", ErrInvalidObservation)
	}
	return nil
}
