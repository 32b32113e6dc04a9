package protocol

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Unit identifies the physical unit attached to a decoded quantity
type Unit int

const (
	UnitNone Unit = iota
	Centigrade
	Volt
	Ampere
	Hertz
	KilowattHour
)

type unitInfo struct {
	Name   string
	Symbol string
}

// units is built once at package init and only read afterwards
var units = map[Unit]unitInfo{
	UnitNone:     {Name: "dimensionless", Symbol: ""},
	Centigrade:   {Name: "degree_Celsius", Symbol: "°C"},
	Volt:         {Name: "volt", Symbol: "V"},
	Ampere:       {Name: "ampere", Symbol: "A"},
	Hertz:        {Name: "hertz", Symbol: "Hz"},
	KilowattHour: {Name: "kilowatt_hour", Symbol: "kWh"},
}

// Name returns the long unit name, e.g. "volt"
func (u Unit) Name() string {
	if info, ok := units[u]; ok {
		return info.Name
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

// Symbol returns the short unit symbol, e.g. "V"
func (u Unit) Symbol() string {
	if info, ok := units[u]; ok {
		return info.Symbol
	}
	return "?"
}

func (u Unit) String() string {
	return u.Name()
}

// Quantity is a raw wire integer tagged with a decimal scale and a unit
type Quantity struct {
	Raw   int64
	Scale float64
	Unit  Unit
}

func scaled(raw int64, scale float64, unit Unit) Quantity {
	return Quantity{Raw: raw, Scale: scale, Unit: unit}
}

// Value returns the scaled value in the quantity's unit
func (q Quantity) Value() float64 {
	return float64(q.Raw) * q.Scale
}

// String formats the value with just enough decimals for its scale, e.g. "123.4 V"
func (q Quantity) String() string {
	v := strconv.FormatFloat(q.Value(), 'f', q.decimals(), 64)
	if sym := q.Unit.Symbol(); sym != "" {
		return v + " " + sym
	}
	return v
}

func (q Quantity) decimals() int {
	d := 0
	for s := q.Scale; s > 0 && s < 0.999999 && d < 6; s *= 10 {
		d++
	}
	return d
}

type quantityDTO struct {
	Value float64 `json:"value" yaml:"value"`
	Unit  string  `json:"unit" yaml:"unit"`
}

func (q Quantity) dto() quantityDTO {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(q.Value(), 'f', q.decimals(), 64), 64)
	return quantityDTO{Value: v, Unit: q.Unit.Name()}
}

// MarshalJSON encodes the quantity as {"value": 123.4, "unit": "volt"}
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.dto())
}

// MarshalYAML encodes the quantity as a value/unit mapping
func (q Quantity) MarshalYAML() (interface{}, error) {
	return q.dto(), nil
}
