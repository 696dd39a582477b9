package bus

import "testing"

func TestPublishReachesOnlyMatchingSignal(t *testing.T) {
	b := New()
	tasks, events := 0, 0
	b.Subscribe(SignalTasksUpdated, func() { tasks++ })
	b.Subscribe(SignalCalendarEventsUpdated, func() { events++ })

	b.Publish(SignalTasksUpdated)
	b.Publish(SignalTasksUpdated)

	if tasks != 2 || events != 0 {
		t.Fatalf("tasks=%d events=%d", tasks, events)
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	b := New()
	n := 0
	cancel := b.Subscribe(SignalTasksUpdated, func() { n++ })

	b.Publish(SignalTasksUpdated)
	cancel()
	cancel()
	b.Publish(SignalTasksUpdated)

	if n != 1 {
		t.Fatalf("n=%d", n)
	}
}

func TestListenerMaySubscribeDuringPublish(t *testing.T) {
	b := New()
	called := false
	b.Subscribe(SignalTasksUpdated, func() {
		b.Subscribe(SignalTasksUpdated, func() { called = true })
	})

	b.Publish(SignalTasksUpdated)
	if called {
		t.Fatal("late subscriber must not see the in-flight publish")
	}
	b.Publish(SignalTasksUpdated)
	if !called {
		t.Fatal("late subscriber missed the next publish")
	}
}
