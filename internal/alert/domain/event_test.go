package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnomalyEvent(t *testing.T) {
	code := "A-1"

	t.Run("Success_AlertFieldsFromT2", func(t *testing.T) {
		e := AnomalyEvent{
			EventType: "critical",
			Top3T2:    []SensorScore{{Sensor: 12, Score: 0.9}, {Sensor: 3, Score: 0.5}},
			Top3SPE:   []SensorScore{{Sensor: 99, Score: 0.8}},
			AlarmCode: &code,
			Message:   "ignored",
		}

		assert.Equal(t, TypeCritical, e.AlertType())
		assert.Equal(t, int64(12), e.SensorID())
		assert.Equal(t, "A-1", e.AlertMessage())
	})

	t.Run("Success_FallsBackToSPEAndMessage", func(t *testing.T) {
		e := AnomalyEvent{
			EventType: "drift",
			Top3SPE:   []SensorScore{{Sensor: 99, Score: 0.8}},
			Message:   "pressure drift",
		}

		assert.Equal(t, TypeWarning, e.AlertType())
		assert.Equal(t, int64(99), e.SensorID())
		assert.Equal(t, "pressure drift", e.AlertMessage())
	})

	t.Run("Success_BlankAlarmCodeUsesMessage", func(t *testing.T) {
		blank := " "
		e := AnomalyEvent{AlarmCode: &blank, Message: "valve stuck"}

		assert.Equal(t, "valve stuck", e.AlertMessage())
	})

	t.Run("Success_NoSensors", func(t *testing.T) {
		assert.Equal(t, int64(0), AnomalyEvent{}.SensorID())
	})

	t.Run("Success_AnomalyMap", func(t *testing.T) {
		e := AnomalyEvent{EventType: "warning", Risk: 0.7, Top3T2: []SensorScore{{Sensor: 1, Score: 2}}, AlarmCode: &code}

		anomaly := e.Anomaly()

		assert.Equal(t, "warning", anomaly["event_type"])
		assert.Equal(t, 0.7, anomaly["risk"])
		assert.Equal(t, "A-1", anomaly["alarm_code"])
		assert.Len(t, anomaly["top3_t2"], 1)
		assert.NotContains(t, anomaly, "top3_spe")
	})
}
