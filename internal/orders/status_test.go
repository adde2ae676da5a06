package orders

import "testing"

func TestParseStatus(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"PENDING", "PROCESSING", "SHIPPED", "DELIVERED", "CANCELLED"} {
		s, err := ParseStatus(valid)
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", valid, err)
		}
		if string(s) != valid {
			t.Fatalf("ParseStatus(%q) = %q", valid, s)
		}
	}

	for _, invalid := range []string{"", "pending", "PROCESANDO", "DONE"} {
		_, err := ParseStatus(invalid)
		if err == nil {
			t.Fatalf("ParseStatus(%q): expected error", invalid)
		}
		if KindOf(err) != KindValidation {
			t.Fatalf("ParseStatus(%q): expected validation kind, got %s", invalid, KindOf(err))
		}
	}
}

func TestCanTransition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusShipped, false},
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusDelivered, StatusPending, false},
		{StatusCancelled, StatusProcessing, false},
		{StatusDelivered, StatusDelivered, true}, // same status is always a no-op
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}
