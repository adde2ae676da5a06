package orders

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	if got := KindOf(Validationf("bad input")); got != KindValidation {
		t.Fatalf("expected validation, got %s", got)
	}
	if got := KindOf(NotFoundf("nope")); got != KindNotFound {
		t.Fatalf("expected not_found, got %s", got)
	}
	if got := KindOf(BusinessRulef("insufficient stock")); got != KindBusinessRule {
		t.Fatalf("expected business_rule, got %s", got)
	}
	if got := KindOf(Internal("db", errors.New("boom"))); got != KindInternal {
		t.Fatalf("expected internal, got %s", got)
	}
	// unclassified infra errors count as internal
	if got := KindOf(errors.New("raw")); got != KindInternal {
		t.Fatalf("expected internal for raw error, got %s", got)
	}
	if got := KindOf(nil); got != KindUnknown {
		t.Fatalf("expected unknown for nil, got %s", got)
	}
	// kind survives wrapping
	wrapped := fmt.Errorf("handler: %w", NotFoundf("order x not found"))
	if got := KindOf(wrapped); got != KindNotFound {
		t.Fatalf("expected not_found through wrap, got %s", got)
	}
}

func TestInternalUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := Internal("persist order", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to unwrap")
	}
}
