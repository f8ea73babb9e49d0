package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestRegisterSucceedsOnFreshRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollectors()
	if err := c.Register(reg); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
}

func TestRegisterFailsOnDuplicate(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollectors()
	if err := c.Register(reg); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if err := c.Register(reg); err == nil {
		t.Error("expected an error re-registering the same collectors")
	}
}

func TestPointsParsedIncrements(t *testing.T) {
	c := NewCollectors()
	c.PointsParsed.Inc()
	c.PointsParsed.Inc()

	m := &dto.Metric{}
	if err := c.PointsParsed.Write(m); err != nil {
		t.Fatal(err)
	}
	if m.GetCounter().GetValue() != 2 {
		t.Errorf("PointsParsed = %v, want 2", m.GetCounter().GetValue())
	}
}

func TestBuildInfoIsSetOnConstruction(t *testing.T) {
	c := NewCollectors()

	m := &dto.Metric{}
	if err := c.BuildInfo.WithLabelValues("dev", "unknown", "unknown").Write(m); err != nil {
		t.Fatal(err)
	}
	if m.GetGauge().GetValue() != 1 {
		t.Errorf("BuildInfo = %v, want 1", m.GetGauge().GetValue())
	}
}
