package status

import (
	"testing"

	apperrors "clinicbook/pkg/errors"
	"clinicbook/pkg/identity"
	"clinicbook/pkg/model"
)

func TestParse(t *testing.T) {
	for _, s := range []string{"pending", "confirmed", "completed", "cancelled"} {
		if _, err := Parse(s); err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", s, err)
		}
	}
	for _, s := range []string{"", "done", "CANCELLED", "no_show"} {
		if _, err := Parse(s); !apperrors.HasCode(err, apperrors.CodeValidation) {
			t.Errorf("Parse(%q) expected VALIDATION_ERROR, got %v", s, err)
		}
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to model.BookingStatus
		legal    bool
	}{
		{model.StatusPending, model.StatusConfirmed, true},
		{model.StatusPending, model.StatusCompleted, true},
		{model.StatusPending, model.StatusCancelled, true},
		{model.StatusConfirmed, model.StatusPending, true},
		{model.StatusConfirmed, model.StatusCompleted, true},
		{model.StatusConfirmed, model.StatusCancelled, true},
		{model.StatusConfirmed, model.StatusConfirmed, false},
		{model.StatusCompleted, model.StatusCancelled, false},
		{model.StatusCompleted, model.StatusPending, false},
		{model.StatusCancelled, model.StatusConfirmed, false},
		{model.StatusCancelled, model.StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := CanTransition(tt.from, tt.to)
			if tt.legal && err != nil {
				t.Fatalf("expected legal transition, got %v", err)
			}
			if !tt.legal && !apperrors.HasCode(err, apperrors.CodeConflict) {
				t.Fatalf("expected CONFLICT, got %v", err)
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	booking := &model.Booking{ProviderID: "prov-1", SubjectID: "child-1", BookerID: "parent-1"}

	admin := identity.Requester{ID: "admin-1", Role: model.RoleAdmin}
	provider := identity.Requester{ID: "prov-1", Role: model.RoleProvider}
	otherProvider := identity.Requester{ID: "prov-2", Role: model.RoleProvider}
	subject := identity.Requester{ID: "child-1", Role: model.RolePatient}
	booker := identity.Requester{ID: "parent-1", Role: model.RolePatient}
	stranger := identity.Requester{ID: "patient-9", Role: model.RolePatient}

	tests := []struct {
		name    string
		who     identity.Requester
		to      model.BookingStatus
		allowed bool
	}{
		{"admin may reopen", admin, model.StatusPending, true},
		{"admin may complete", admin, model.StatusCompleted, true},
		{"provider confirms", provider, model.StatusConfirmed, true},
		{"provider completes", provider, model.StatusCompleted, true},
		{"provider cancels", provider, model.StatusCancelled, true},
		{"provider cannot reopen", provider, model.StatusPending, false},
		{"other provider", otherProvider, model.StatusCancelled, false},
		{"subject cancels", subject, model.StatusCancelled, true},
		{"subject cannot complete", subject, model.StatusCompleted, false},
		{"booker cancels", booker, model.StatusCancelled, true},
		{"booker cannot confirm", booker, model.StatusConfirmed, false},
		{"stranger", stranger, model.StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.who, booking, tt.to)
			if tt.allowed && err != nil {
				t.Fatalf("expected allowed, got %v", err)
			}
			if !tt.allowed && !apperrors.HasCode(err, apperrors.CodeForbidden) {
				t.Fatalf("expected FORBIDDEN, got %v", err)
			}
		})
	}
}
