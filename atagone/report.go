package atagone

import (
	"encoding/json"
	"fmt"

	twaccessory "github.com/cloudkucooland/toowarm/accessory"
	"github.com/cloudkucooland/toowarm/devices"
	"github.com/cloudkucooland/toowarm/runner"

	"github.com/brutella/hc/characteristic"
	"github.com/brutella/hc/log"
)

// Report is one decoded report from the utility. Pointer fields so keys
// the utility leaves out do not clobber the previous values.
type Report struct {
	DeviceID           *string  `json:"deviceId,omitempty"`
	DeviceAlias        *string  `json:"deviceAlias,omitempty"`
	LatestReportTime   *string  `json:"latestReportTime,omitempty"`
	RoomTemperature    *float64 `json:"roomTemperature,omitempty"`
	TargetTemperature  *float64 `json:"targetTemperature,omitempty"`
	OutsideTemperature *float64 `json:"outsideTemperature,omitempty"`
	DHWWaterTemp       *float64 `json:"dhwWaterTemp,omitempty"`
	CHWaterTemp        *float64 `json:"chWaterTemp,omitempty"`
	CHWaterPressure    *float64 `json:"chWaterPressure,omitempty"`
	BurningHours       *float64 `json:"burningHours,omitempty"`
	FlameStatus        *bool    `json:"flameStatus,omitempty"`
}

// extractReport pulls the trailing JSON object out of the utility's chatty
// output and decodes it
func extractReport(out string) (*Report, error) {
	raw, err := lastJSONObject(out)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("report JSON did not decode: %w", err)
	}
	return &r, nil
}

// lastJSONObject returns the last balanced-brace object in s. Braces
// inside JSON strings don't count, prose outside an object doesn't either.
func lastJSONObject(s string) (string, error) {
	var candidate string
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i, c := range s {
		if depth > 0 && inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue // stray close brace in prose
			}
			depth--
			if depth == 0 {
				candidate = s[start : i+1]
			}
		case '"':
			if depth > 0 {
				inString = true
			}
		}
	}

	if candidate == "" {
		return "", fmt.Errorf("no JSON object in utility output")
	}
	return candidate, nil
}

// applyReport copies the present report fields onto the accessory's
// characteristics, leaving everything else alone
func applyReport(a *twaccessory.TWAccessory, r *Report) {
	d, ok := a.Device.(*devices.AtagOne)
	if !ok {
		log.Info.Printf("[%s] is not an AtagOne device", a.Name)
		return
	}

	if r.RoomTemperature != nil && d.Thermostat.CurrentTemperature.GetValue() != *r.RoomTemperature {
		d.Thermostat.CurrentTemperature.SetValue(*r.RoomTemperature)
	}
	if r.TargetTemperature != nil {
		if d.Thermostat.TargetTemperature.GetValue() != *r.TargetTemperature {
			d.Thermostat.TargetTemperature.SetValue(*r.TargetTemperature)
		}
		setLastTarget(a.Name, *r.TargetTemperature)
	}
	if r.OutsideTemperature != nil && d.OutsideTemp.CurrentTemperature.GetValue() != *r.OutsideTemperature {
		d.OutsideTemp.CurrentTemperature.SetValue(*r.OutsideTemperature)
	}
	if r.DHWWaterTemp != nil && d.HotWaterTemp.CurrentTemperature.GetValue() != *r.DHWWaterTemp {
		d.HotWaterTemp.CurrentTemperature.SetValue(*r.DHWWaterTemp)
	}
	if r.CHWaterPressure != nil && d.WaterPressure.CurrentAmbientLightLevel.GetValue() != *r.CHWaterPressure {
		d.WaterPressure.CurrentAmbientLightLevel.SetValue(*r.CHWaterPressure)
	}

	if r.FlameStatus != nil {
		state := characteristic.CurrentHeatingCoolingStateOff
		trigger := "Idle"
		if *r.FlameStatus {
			state = characteristic.CurrentHeatingCoolingStateHeat
			trigger = "Heating"
		}
		if d.Thermostat.CurrentHeatingCoolingState.GetValue() != state {
			d.Thermostat.CurrentHeatingCoolingState.SetValue(state)
			runner.RunActions(a.MatchActions(trigger))
		}
	}

	setLastReport(a.Name, r)
}
