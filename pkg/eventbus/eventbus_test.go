package eventbus

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/mexilacteos/itdesk/pkg/logging"
)

type args struct {
	data interface{}
}

func TestPublisher_Publish(t *testing.T) {
	type args2 struct {
		data interface{}
	}
	logBuffer := bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(&logBuffer)
	log.SetLevel(logrus.WarnLevel)
	publisher := NewEventPublisher(log)
	publisher.Subscribe(func(e *args) {
		t.Error("should not be called")
	})
	publisher.Publish(&args2{
		data: "test",
	})

	if output := logBuffer.String(); output == "" {
		t.Error("should have logged")
	} else if !strings.Contains(output, "eventbus.Publish: no matching subscribers") {
		t.Errorf("should have contained no matching subscribers but got: %q", output)
	}
}

func TestPublisher_Subscribe(t *testing.T) {
	publisher := NewEventPublisher(logging.ConsoleLogger(logrus.WarnLevel))
	called := false
	var data interface{}
	publisher.Subscribe(func(e *args) {
		called = true
		data = e.data
	})
	publisher.Publish(&args{
		data: "test",
	})
	if !called {
		t.Error("should be called")
	}
	if data != "test" {
		t.Errorf("expected: %v, got: %v", "test", data)
	}
}

func TestPublisher_PanickingHandlerDoesNotBlockOthers(t *testing.T) {
	publisher := NewEventPublisher(logging.ConsoleLogger(logrus.ErrorLevel))
	called := false
	publisher.Subscribe(func(e *args) {
		panic("boom")
	})
	publisher.Subscribe(func(e *args) {
		called = true
	})
	publisher.Publish(&args{data: "test"})
	if !called {
		t.Error("second subscriber should still be called")
	}
}

func TestPublisher_Unsubscribe(t *testing.T) {
	publisher := NewEventPublisher(logging.ConsoleLogger(logrus.ErrorLevel))
	handler := func(e *args) {
		t.Error("should not be called after unsubscribe")
	}
	publisher.Subscribe(handler)
	if publisher.SubscribersCount() != 1 {
		t.Errorf("expected 1 subscriber, got %d", publisher.SubscribersCount())
	}
	publisher.Unsubscribe(handler)
	if publisher.SubscribersCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", publisher.SubscribersCount())
	}
}

func TestPublisher_UnsubscribeKeepsOthers(t *testing.T) {
	publisher := NewEventPublisher(logging.ConsoleLogger(logrus.ErrorLevel))
	called := false
	removed := func(e *args) {
		t.Error("should not be called after unsubscribe")
	}
	kept := func(e *args) {
		called = true
	}
	publisher.Subscribe(removed)
	publisher.Subscribe(kept)

	publisher.Unsubscribe(removed)
	if publisher.SubscribersCount() != 1 {
		t.Errorf("expected 1 subscriber, got %d", publisher.SubscribersCount())
	}
	publisher.Publish(&args{})
	if !called {
		t.Error("remaining subscriber should still be called")
	}
}

func TestMatchSignature(t *testing.T) {
	type args struct {
	}
	type args2 struct {
	}
	if !MatchSignature(func(e *args) {}, []interface{}{&args{}}) {
		t.Error("expected true")
	}
	if MatchSignature(func(e *args) {}, []interface{}{&args2{}}) {
		t.Error("expected false")
	}
	if MatchSignature(func(e *args) {}, []interface{}{&args{}, &args{}}) {
		t.Error("expected false")
	}
	if MatchSignature("not a func", []interface{}{&args{}}) {
		t.Error("expected false")
	}
}
