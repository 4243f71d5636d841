package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestInitLevels(t *testing.T) {
	cases := []struct {
		name  string
		level string
		want  logrus.Level
	}{
		{"debug", "debug", logrus.DebugLevel},
		{"warn", "warn", logrus.WarnLevel},
		{"garbage_falls_back", "loud", logrus.InfoLevel},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			Init(c.level, "json")
			Silence()
			if got := Log.GetLevel(); got != c.want {
				t.Fatalf("level = %v, want %v", got, c.want)
			}
			if _, ok := Log.Formatter.(*logrus.JSONFormatter); !ok {
				t.Fatalf("expected json formatter, got %T", Log.Formatter)
			}
		})
	}
}

func TestForTagsComponent(t *testing.T) {
	e := For("scene")
	if e.Data["component"] != "scene" {
		t.Fatalf("component field = %v", e.Data["component"])
	}
}
