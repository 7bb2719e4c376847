package mqtt

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"renewables-dashboard/internal/config"
	shared "renewables-dashboard/internal/shared/types"
)

func testConfig() config.Config {
	return config.Config{
		MQTTBroker:   "127.0.0.1",
		MQTTPort:     1,
		MQTTClientID: "test",
		MQTTTopic:    "sites/+/observations",
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSiteFromTopic(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{topic: "sites/Sibiu/observations", want: "Sibiu"},
		{topic: "sites/Sibiu/other", want: ""},
		{topic: "stations/Sibiu/observations", want: ""},
		{topic: "sites/observations", want: ""},
	}
	for _, tt := range tests {
		if got := siteFromTopic(tt.topic); got != tt.want {
			t.Errorf("siteFromTopic(%q) = %q; want %q", tt.topic, got, tt.want)
		}
	}
	if got := ObservationTopic("Arad"); got != "sites/Arad/observations" {
		t.Errorf("ObservationTopic = %q", got)
	}
}

func TestDecodeObservation(t *testing.T) {
	t.Run("site taken from topic", func(t *testing.T) {
		obs, err := decodeObservation("sites/Arad/observations",
			[]byte(`{"timestamp":"2024-11-02T10:00:00Z","wind_speed":3.5,"clouds":20}`))
		if err != nil {
			t.Fatalf("decodeObservation: %v", err)
		}
		if obs.Site != "Arad" || *obs.WindSpeed != 3.5 {
			t.Errorf("obs = %+v", obs)
		}
	})

	t.Run("payload site wins", func(t *testing.T) {
		obs, err := decodeObservation("sites/Arad/observations",
			[]byte(`{"site":"Oradea","timestamp":"2024-11-02T10:00:00Z","wind_speed":1,"clouds":2}`))
		if err != nil {
			t.Fatalf("decodeObservation: %v", err)
		}
		if obs.Site != "Oradea" {
			t.Errorf("Site = %q; want Oradea", obs.Site)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		if _, err := decodeObservation("sites/Arad/observations", []byte(`{`)); err == nil {
			t.Fatal("want error")
		}
	})

	t.Run("missing wind", func(t *testing.T) {
		_, err := decodeObservation("sites/Arad/observations",
			[]byte(`{"timestamp":"2024-11-02T10:00:00Z","clouds":2}`))
		if !errors.Is(err, shared.ErrInvalidObservation) {
			t.Fatalf("err = %v; want ErrInvalidObservation", err)
		}
	})
}

func TestHandleMessage(t *testing.T) {
	s := NewSubscriber(testConfig(), discardLogger())

	var got []shared.Observation
	s.SetMessageHandler(func(obs shared.Observation) error {
		got = append(got, obs)
		return errors.New("store failed")
	})

	s.handleMessage("sites/Galati/observations", []byte(`{"timestamp":"2024-11-02T10:00:00Z","wind_speed":7,"clouds":1}`))
	s.handleMessage("sites/Galati/observations", []byte(`not json`))

	if len(got) != 1 {
		t.Fatalf("handler called %d times; want 1", len(got))
	}
	if got[0].Site != "Galati" {
		t.Errorf("Site = %q; want Galati", got[0].Site)
	}
}

func TestHandleMessage_noHandler(t *testing.T) {
	s := NewSubscriber(testConfig(), discardLogger())
	s.handleMessage("sites/Galati/observations", []byte(`{"timestamp":"2024-11-02T10:00:00Z","wind_speed":7,"clouds":1}`))
}

func TestConnectAfterDisconnect(t *testing.T) {
	s := NewSubscriber(testConfig(), discardLogger())
	s.Disconnect()
	s.Disconnect()

	if err := s.Connect(context.Background()); !errors.Is(err, ErrStopped) {
		t.Fatalf("Connect after Disconnect = %v; want ErrStopped", err)
	}

	p := NewPublisher(testConfig(), discardLogger())
	p.Disconnect()
	if err := p.Connect(context.Background()); !errors.Is(err, ErrStopped) {
		t.Fatalf("Publisher.Connect after Disconnect = %v; want ErrStopped", err)
	}
}

func TestPublish_notConnected(t *testing.T) {
	p := NewPublisher(testConfig(), discardLogger())
	if err := p.Publish(shared.Observation{Site: "Arad"}); err == nil {
		t.Fatal("Publish on disconnected publisher = nil; want error")
	}
}
