package feature

import (
	"math"

	"github.com/hscells/tipster/table"
)

// TripFeature describes the trip itself: how long it took, how fast it was,
// and what tolls were paid.
type TripFeature struct{}

func (TripFeature) Name() string {
	return "trip"
}

func (TripFeature) Spec() Spec {
	return Spec{
		{Name: "trip_duration", Kind: table.Int32},
		{Name: "trip_speed", Kind: table.Float32},
		{Name: "trip_tolls", Kind: table.Float32},
	}
}

// Generate computes the duration in whole minutes, and the speed as distance
// per minute. A trip shorter than a minute has an infinite (or NaN) speed;
// this is left for the classifier's preprocessing to drop.
func (f TripFeature) Generate(t *table.Table) (*table.Table, error) {
	pickup, err := requireTime(t, PickupColumn)
	if err != nil {
		return nil, err
	}
	dropoff, err := requireTime(t, DropoffColumn)
	if err != nil {
		return nil, err
	}
	distance, err := requireNumeric(t, DistanceColumn)
	if err != nil {
		return nil, err
	}
	tolls, err := requireNumeric(t, TollsColumn)
	if err != nil {
		return nil, err
	}

	n := t.Len()
	duration := make([]float64, n)
	speed := make([]float64, n)
	for i := 0; i < n; i++ {
		if pickup.Missing(i) || dropoff.Missing(i) {
			duration[i] = math.NaN()
			speed[i] = math.NaN()
			continue
		}
		duration[i] = math.Trunc(dropoff.Time(i).Sub(pickup.Time(i)).Minutes())
		speed[i] = distance.Float(i) / duration[i]
	}
	return table.New(
		table.NewNumeric("trip_duration", table.Int32, duration),
		table.NewNumeric("trip_speed", table.Float32, speed),
		table.NewNumeric("trip_tolls", table.Float32, tolls.Floats()),
	)
}
