package feature

import "github.com/hscells/tipster/table"

// MeterFeature relabels the zones the meter was engaged and disengaged in.
type MeterFeature struct{}

func (MeterFeature) Name() string {
	return "meter"
}

func (MeterFeature) Spec() Spec {
	return Spec{
		{Name: "meter_eng", Kind: table.Int32},
		{Name: "meter_dis", Kind: table.Int32},
	}
}

func (MeterFeature) Generate(t *table.Table) (*table.Table, error) {
	pickup, err := requireNumeric(t, PickupZone)
	if err != nil {
		return nil, err
	}
	dropoff, err := requireNumeric(t, DropoffZone)
	if err != nil {
		return nil, err
	}
	return table.New(
		table.NewNumeric("meter_eng", table.Int32, pickup.Floats()),
		table.NewNumeric("meter_dis", table.Int32, dropoff.Floats()),
	)
}
