package pzem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func acReading(powerW, voltageV, powerFactor float64) Reading {
	return Reading{
		Variant: ACLoadMeter,
		Status:  StatusSuccess,
		ACLoad: &ACLoadMetrics{
			VoltageV:    voltageV,
			PowerW:      powerW,
			PowerFactor: powerFactor,
			AlarmStatus: AlarmOff,
		},
	}
}

func solarReading(powerW, voltageV, currentA float64) Reading {
	return Reading{
		Variant: DCSolarMeter,
		Status:  StatusSuccess,
		DCSolar: &DCSolarMetrics{
			VoltageV:          voltageV,
			CurrentA:          currentA,
			PowerW:            powerW,
			OverVoltageAlarm:  AlarmOff,
			UnderVoltageAlarm: AlarmOff,
		},
	}
}

func batteryReading(powerW, voltageV float64) Reading {
	status, soc := classifyBattery(voltageV)
	direction, flow := classifyBatteryFlow(powerW)
	return Reading{
		Variant: DCBatteryMeter,
		Status:  StatusSuccess,
		DCBattery: &DCBatteryMetrics{
			VoltageV:          voltageV,
			PowerW:            powerW,
			BatteryStatus:     status,
			SOCEstimate:       soc,
			FlowDirection:     direction,
			FlowStatus:        flow,
			OverVoltageAlarm:  AlarmOff,
			UnderVoltageAlarm: AlarmOff,
		},
	}
}

func TestAnalyzeACFlow(t *testing.T) {
	a := AnalyzeACFlow(acReading(120, 220, 0.95))
	assert.Equal(t, "Medium load", a.LoadStatus)
	assert.Equal(t, "Normal voltage", a.VoltageStatus)
	assert.Equal(t, "Good", a.PowerFactorStatus)
	assert.Empty(t, a.Alerts)
	assert.Empty(t, a.Insights)

	a = AnalyzeACFlow(acReading(5, 190, 0.6))
	assert.Equal(t, "Very light load", a.LoadStatus)
	assert.Equal(t, "Low voltage", a.VoltageStatus)
	assert.Equal(t, "Poor (inductive load)", a.PowerFactorStatus)
	assert.Contains(t, a.Alerts, "⚠️ Low AC voltage detected")
	assert.Contains(t, a.Insights, "💡 Consider power factor correction")

	a = AnalyzeACFlow(acReading(600, 250, 0.85))
	assert.Equal(t, "Very heavy load", a.LoadStatus)
	assert.Equal(t, "High voltage", a.VoltageStatus)
	assert.Equal(t, "Fair", a.PowerFactorStatus)
	assert.Contains(t, a.Alerts, "⚠️ High AC voltage detected")
}

func TestAnalyzeACFlowRejectsErrorReading(t *testing.T) {
	a := AnalyzeACFlow(Reading{Variant: ACLoadMeter, Status: StatusError})
	assert.Equal(t, "No valid AC data", a.Analysis)
	assert.Empty(t, a.LoadStatus)

	// a successful non-AC reading is equally invalid here
	a = AnalyzeACFlow(solarReading(10, 18, 0.5))
	assert.Equal(t, "No valid AC data", a.Analysis)
}

func TestAnalyzeSolarGeneration(t *testing.T) {
	a := AnalyzeSolarGeneration(solarReading(75, 18.5, 4.1))
	assert.Equal(t, "Good generation", a.GenerationStatus)
	assert.Equal(t, "Generating power", a.PanelCondition)
	assert.Empty(t, a.Alerts)

	// open circuit: voltage present, no current
	a = AnalyzeSolarGeneration(solarReading(0, 21.0, 0))
	assert.Equal(t, "No generation (night/cloudy)", a.GenerationStatus)
	assert.Equal(t, "Open circuit (no load)", a.PanelCondition)

	// night: neither voltage nor current
	a = AnalyzeSolarGeneration(solarReading(0, 0.2, 0))
	assert.Equal(t, "No sunlight", a.PanelCondition)

	a = AnalyzeSolarGeneration(solarReading(200, 26.5, 7.8))
	assert.Equal(t, "Excellent generation", a.GenerationStatus)
	assert.Contains(t, a.Alerts, "⚠️ High DC voltage - check panel connections")
}

func TestAnalyzeSolarGenerationAlarms(t *testing.T) {
	r := solarReading(40, 17, 2.3)
	r.DCSolar.UnderVoltageAlarm = AlarmOn
	r.DCSolar.OverVoltageAlarm = AlarmOn

	a := AnalyzeSolarGeneration(r)
	assert.Contains(t, a.Alerts, "🚨 Under-voltage alarm active")
	assert.Contains(t, a.Alerts, "🚨 Over-voltage alarm active")

	a = AnalyzeSolarGeneration(Reading{Variant: DCSolarMeter, Status: StatusError})
	assert.Equal(t, "No valid DC data", a.Analysis)
}

func TestAnalyzeBatteryStatus(t *testing.T) {
	a := AnalyzeBatteryStatus(batteryReading(25, 12.7))
	assert.Equal(t, "Good - Well charged", a.BatteryStatus)
	assert.Equal(t, 80, a.SOCEstimate)
	assert.Equal(t, "Active discharge", a.FlowStatus)
	assert.Empty(t, a.Alerts)

	a = AnalyzeBatteryStatus(batteryReading(2, 10.2))
	assert.Equal(t, 0, a.SOCEstimate)
	assert.Contains(t, a.Alerts, "🚨 Battery critically low - deep discharge")

	a = AnalyzeBatteryStatus(batteryReading(2, 11.0))
	assert.Equal(t, 10, a.SOCEstimate)
	assert.Contains(t, a.Alerts, "⚠️ Battery very low - needs charging")

	a = AnalyzeBatteryStatus(Reading{Variant: DCBatteryMeter, Status: StatusError})
	assert.Equal(t, "No valid battery data", a.Analysis)
}

func TestComputeSystemEfficiency(t *testing.T) {
	ac := acReading(85, 220, 0.95)
	solar := solarReading(100, 18, 5.5)

	report := ComputeSystemEfficiency(SystemSnapshot{AC: &ac, Solar: &solar})
	assert.Equal(t, 85.0, report.SystemEfficiencyPercent)
	assert.Equal(t, "Good", report.EfficiencyStatus)
	assert.Equal(t, 15.0, report.PowerLossW)
	assert.Equal(t, 100.0, report.SolarInputW)
	assert.Equal(t, 0.0, report.BatteryInputW)
	assert.Equal(t, 100.0, report.TotalDCInputW)
	assert.Equal(t, 85.0, report.ACOutputW)
	assert.Empty(t, report.Recommendation)
}

func TestComputeSystemEfficiencyWithBattery(t *testing.T) {
	ac := acReading(120, 220, 0.95)
	solar := solarReading(100, 18, 5.5)

	// discharging battery contributes to input power
	battery := batteryReading(50, 12.4)
	report := ComputeSystemEfficiency(SystemSnapshot{AC: &ac, Solar: &solar, Battery: &battery})
	assert.Equal(t, 80.0, report.SystemEfficiencyPercent)
	assert.Equal(t, 50.0, report.BatteryInputW)
	assert.Equal(t, 150.0, report.TotalDCInputW)
	assert.Equal(t, "Fair", report.EfficiencyStatus)

	// charging battery does not
	battery = batteryReading(-50, 12.4)
	report = ComputeSystemEfficiency(SystemSnapshot{AC: &ac, Solar: &solar, Battery: &battery})
	assert.Equal(t, 0.0, report.BatteryInputW)
	assert.Equal(t, 100.0, report.TotalDCInputW)
}

func TestComputeSystemEfficiencyNoInput(t *testing.T) {
	ac := acReading(0, 220, 1.0)
	solar := solarReading(0, 0.2, 0)

	report := ComputeSystemEfficiency(SystemSnapshot{AC: &ac, Solar: &solar})
	assert.Equal(t, 0.0, report.SystemEfficiencyPercent)
	assert.Equal(t, "No input power", report.Status)
}

func TestComputeSystemEfficiencyMissingMeters(t *testing.T) {
	ac := acReading(85, 220, 0.95)
	solarErr := Reading{Variant: DCSolarMeter, Status: StatusError}

	report := ComputeSystemEfficiency(SystemSnapshot{AC: &ac})
	assert.Equal(t, "Cannot calculate - insufficient data", report.Status)

	report = ComputeSystemEfficiency(SystemSnapshot{AC: &ac, Solar: &solarErr})
	assert.Equal(t, "Cannot calculate - insufficient data", report.Status)
}
