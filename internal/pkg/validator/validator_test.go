package validator

import "testing"

type sample struct {
	Scope    string `json:"notify_scope" validate:"omitempty,notify_scope"`
	Priority string `json:"priority" validate:"omitempty,report_priority"`
	Channel  string `json:"channel" validate:"omitempty,delivery_channel"`
	Comment  string `json:"comment" validate:"required,min=2"`
}

func TestValidateCustomTags(t *testing.T) {
	if errs := Validate(sample{Scope: "both", Priority: "high", Channel: "push", Comment: "ok"}); errs != nil {
		t.Fatalf("valid struct rejected: %v", errs)
	}

	errs := Validate(sample{Scope: "everyone", Comment: "ok"})
	if errs == nil || errs["notify_scope"] == "" {
		t.Fatalf("expected notify_scope error, got %v", errs)
	}

	errs = Validate(sample{Channel: "fax", Comment: "ok"})
	if errs == nil || errs["channel"] == "" {
		t.Fatalf("expected channel error, got %v", errs)
	}

	errs = Validate(sample{})
	if errs == nil || errs["comment"] == "" {
		t.Fatalf("expected required error, got %v", errs)
	}
}
