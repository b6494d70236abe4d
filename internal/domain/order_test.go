package domain

import (
	"errors"
	"testing"
)

func TestValidStatus(t *testing.T) {
	valid := []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusCanceled}
	for _, s := range valid {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false, want true", s)
		}
	}
	if ValidStatus("shipped") {
		t.Error("ValidStatus(\"shipped\") = true, want false")
	}
	if ValidStatus("") {
		t.Error("ValidStatus(\"\") = true, want false")
	}
}

func TestOrderValidateInvariants(t *testing.T) {
	tests := []struct {
		name    string
		order   Order
		wantErr []error
	}{
		{
			name:  "valid order",
			order: Order{UserID: "42", ProductID: "7", Qty: 3, Status: OrderStatusPending},
		},
		{
			name:    "missing user",
			order:   Order{ProductID: "7", Qty: 1},
			wantErr: []error{ErrUserIDRequired},
		},
		{
			name:    "missing product",
			order:   Order{UserID: "42", Qty: 1},
			wantErr: []error{ErrProductIDRequired},
		},
		{
			name:    "zero quantity",
			order:   Order{UserID: "42", ProductID: "7"},
			wantErr: []error{ErrQtyInvalid},
		},
		{
			name:    "unknown status",
			order:   Order{UserID: "42", ProductID: "7", Qty: 1, Status: "shipped"},
			wantErr: []error{ErrStatusInvalid},
		},
		{
			name:    "everything wrong at once",
			order:   Order{Status: "bogus"},
			wantErr: []error{ErrUserIDRequired, ErrProductIDRequired, ErrQtyInvalid, ErrStatusInvalid},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.order.ValidateInvariants()
			if len(errs) != len(tt.wantErr) {
				t.Fatalf("got %d errors %v, want %d", len(errs), errs, len(tt.wantErr))
			}
			for i, want := range tt.wantErr {
				if !errors.Is(errs[i], want) {
					t.Errorf("errs[%d] = %v, want %v", i, errs[i], want)
				}
			}
		})
	}
}
