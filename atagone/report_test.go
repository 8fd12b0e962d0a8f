package atagone

import (
	"testing"

	twaccessory "github.com/cloudkucooland/toowarm/accessory"
	"github.com/cloudkucooland/toowarm/devices"

	hcaccessory "github.com/brutella/hc/accessory"
	"github.com/brutella/hc/characteristic"
)

func newTestOne(name string) *twaccessory.TWAccessory {
	a := &twaccessory.TWAccessory{
		Platform: "AtagOne",
		Name:     name,
		IP:       "192.168.1.40",
		Mode:     "local",
	}
	d := devices.NewAtagOne(hcaccessory.Info{Name: name, ID: 1541})
	a.Device = d
	a.Accessory = d.Accessory
	return a
}

func f(v float64) *float64 { return &v }
func b(v bool) *bool       { return &v }

func TestLastJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{
			"bare object",
			`{"roomTemperature":20.5}`,
			`{"roomTemperature":20.5}`,
			false,
		},
		{
			"trailing object after prose",
			"Connecting to thermostat...\nLogin OK\n{\"roomTemperature\":20.5}\n",
			`{"roomTemperature":20.5}`,
			false,
		},
		{
			"last of two objects wins",
			`{"old":true} some chatter {"roomTemperature":19.0}`,
			`{"roomTemperature":19.0}`,
			false,
		},
		{
			"nested braces",
			`done {"a":{"b":1},"c":2}`,
			`{"a":{"b":1},"c":2}`,
			false,
		},
		{
			"brace inside string",
			`{"deviceAlias":"living { room }"}`,
			`{"deviceAlias":"living { room }"}`,
			false,
		},
		{
			"stray close brace in prose",
			"oops } anyway\n{\"flameStatus\":true}",
			`{"flameStatus":true}`,
			false,
		},
		{
			"unterminated tail keeps earlier object",
			`{"roomTemperature":20.5} partial: {"x":`,
			`{"roomTemperature":20.5}`,
			false,
		},
		{
			"no object at all",
			"Connection refused\n",
			"",
			true,
		},
		{
			"open brace never closed",
			`starting {"roomTemperature":`,
			"",
			true,
		},
	}

	for _, tt := range tests {
		got, err := lastJSONObject(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error, got %q", tt.name, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestExtractReport(t *testing.T) {
	out := "Retrieving diagnostics...\n" +
		`{"deviceId":"6808-1401-3109_15-30-001-544","roomTemperature":20.6,` +
		`"outsideTemperature":5.1,"dhwWaterTemp":34.1,"chWaterPressure":1.5,` +
		`"targetTemperature":20.0,"flameStatus":true}` + "\n"

	r, err := extractReport(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.RoomTemperature == nil || *r.RoomTemperature != 20.6 {
		t.Errorf("roomTemperature not decoded: %+v", r)
	}
	if r.FlameStatus == nil || !*r.FlameStatus {
		t.Errorf("flameStatus not decoded: %+v", r)
	}
	if r.BurningHours != nil {
		t.Errorf("absent field should stay nil: %+v", r)
	}
}

func TestExtractReportMalformed(t *testing.T) {
	if _, err := extractReport(`ok {"roomTemperature":}`); err == nil {
		t.Error("expected decode error for malformed JSON")
	}
	if _, err := extractReport("no report here"); err == nil {
		t.Error("expected error for missing JSON")
	}
}

func TestApplyReport(t *testing.T) {
	a := newTestOne("apply-full")
	d := a.Device.(*devices.AtagOne)

	applyReport(a, &Report{
		RoomTemperature:    f(20.6),
		TargetTemperature:  f(19.5),
		OutsideTemperature: f(5.1),
		DHWWaterTemp:       f(34.1),
		CHWaterPressure:    f(1.5),
		FlameStatus:        b(true),
	})

	if got := d.Thermostat.CurrentTemperature.GetValue(); got != 20.6 {
		t.Errorf("current temperature: got %f", got)
	}
	if got := d.Thermostat.TargetTemperature.GetValue(); got != 19.5 {
		t.Errorf("target temperature: got %f", got)
	}
	if got := d.OutsideTemp.CurrentTemperature.GetValue(); got != 5.1 {
		t.Errorf("outside temperature: got %f", got)
	}
	if got := d.HotWaterTemp.CurrentTemperature.GetValue(); got != 34.1 {
		t.Errorf("hot water temperature: got %f", got)
	}
	if got := d.WaterPressure.CurrentAmbientLightLevel.GetValue(); got != 1.5 {
		t.Errorf("water pressure: got %f", got)
	}
	if got := d.Thermostat.CurrentHeatingCoolingState.GetValue(); got != characteristic.CurrentHeatingCoolingStateHeat {
		t.Errorf("heating state: got %d", got)
	}
}

func TestApplyReportPartial(t *testing.T) {
	a := newTestOne("apply-partial")
	d := a.Device.(*devices.AtagOne)

	applyReport(a, &Report{
		RoomTemperature:    f(20.6),
		OutsideTemperature: f(5.1),
		FlameStatus:        b(true),
	})

	// only the room temperature changes, everything else holds
	applyReport(a, &Report{RoomTemperature: f(21.2)})

	if got := d.Thermostat.CurrentTemperature.GetValue(); got != 21.2 {
		t.Errorf("current temperature: got %f", got)
	}
	if got := d.OutsideTemp.CurrentTemperature.GetValue(); got != 5.1 {
		t.Errorf("outside temperature should be untouched: got %f", got)
	}
	if got := d.Thermostat.CurrentHeatingCoolingState.GetValue(); got != characteristic.CurrentHeatingCoolingStateHeat {
		t.Errorf("heating state should be untouched: got %d", got)
	}
}

func TestApplyReportFlameTransitions(t *testing.T) {
	a := newTestOne("apply-flame")
	d := a.Device.(*devices.AtagOne)

	applyReport(a, &Report{FlameStatus: b(true)})
	if got := d.Thermostat.CurrentHeatingCoolingState.GetValue(); got != characteristic.CurrentHeatingCoolingStateHeat {
		t.Errorf("flame on: got state %d", got)
	}

	applyReport(a, &Report{FlameStatus: b(false)})
	if got := d.Thermostat.CurrentHeatingCoolingState.GetValue(); got != characteristic.CurrentHeatingCoolingStateOff {
		t.Errorf("flame off: got state %d", got)
	}
}
